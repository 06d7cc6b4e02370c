package catalog

import (
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
)

// MaxNameLength is the longest name accepted for categories and products
const MaxNameLength = 256

// MaxDescriptionLength is the longest description accepted for categories and products
const MaxDescriptionLength = 256

// Status is the lifecycle status shared by categories and products
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid reports whether the status is one of the known values
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// ParseStatus converts a case-insensitive string into a Status
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", shared.NewValidationError("Status must be ACTIVE or INACTIVE")
	}
	return status, nil
}

// Category groups products in the catalog
type Category struct {
	shared.BaseAggregateRoot
	Name        string `gorm:"type:varchar(256);not null"`
	Description string `gorm:"type:varchar(256);not null;default:''"`
	Status      Status `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, description string, status Status) (*Category, error) {
	name = strings.TrimSpace(name)
	if err := validateName("Category", name); err != nil {
		return nil, err
	}
	if err := validateDescription(description); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, shared.NewValidationError("Category status must be ACTIVE or INACTIVE")
	}

	return &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Status:            status,
	}, nil
}

// Update replaces the category's attributes
func (c *Category) Update(name, description string, status Status) error {
	name = strings.TrimSpace(name)
	if err := validateName("Category", name); err != nil {
		return err
	}
	if err := validateDescription(description); err != nil {
		return err
	}
	if !status.IsValid() {
		return shared.NewValidationError("Category status must be ACTIVE or INACTIVE")
	}

	c.Name = name
	c.Description = description
	c.Status = status
	c.MarkModified()
	return nil
}

// Activate marks the category as active
func (c *Category) Activate() {
	if c.Status == StatusActive {
		return
	}
	c.Status = StatusActive
	c.MarkModified()
}

// Deactivate marks the category as inactive
func (c *Category) Deactivate() {
	if c.Status == StatusInactive {
		return
	}
	c.Status = StatusInactive
	c.MarkModified()
}

// IsActive returns true if the category is active
func (c *Category) IsActive() bool {
	return c.Status == StatusActive
}

func validateName(kind, name string) error {
	if name == "" {
		return shared.NewValidationError(kind + " name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return shared.NewValidationError(kind + " name cannot exceed 256 characters")
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return shared.NewValidationError("Description cannot exceed 256 characters")
	}
	return nil
}
