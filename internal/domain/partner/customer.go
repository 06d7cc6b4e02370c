package partner

import (
	"regexp"
	"strings"

	"github.com/Honest-88/pos-sample/internal/domain/shared"
)

var (
	validPhone = regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	validEmail = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// Customer is a buyer referenced by sales
type Customer struct {
	shared.BaseAggregateRoot
	FirstName string `gorm:"type:varchar(256);not null"`
	LastName  string `gorm:"type:varchar(256);not null"`
	Address   string `gorm:"type:text;not null;default:''"`
	Email     string `gorm:"type:varchar(256);not null;default:'';index"`
	Phone     string `gorm:"type:varchar(30);not null;default:''"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// CustomerAttributes carries the caller-settable fields of a customer
type CustomerAttributes struct {
	FirstName string
	LastName  string
	Address   string
	Email     string
	Phone     string
}

// NewCustomer creates a new customer
func NewCustomer(attrs CustomerAttributes) (*Customer, error) {
	attrs = attrs.Normalized()
	if err := attrs.validate(); err != nil {
		return nil, err
	}

	customer := &Customer{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	customer.apply(attrs)
	return customer, nil
}

// Update replaces the customer's attributes
func (c *Customer) Update(attrs CustomerAttributes) error {
	attrs = attrs.Normalized()
	if err := attrs.validate(); err != nil {
		return err
	}

	c.apply(attrs)
	c.MarkModified()
	return nil
}

// Attributes returns the caller-settable fields of the customer
func (c *Customer) Attributes() CustomerAttributes {
	return CustomerAttributes{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Address:   c.Address,
		Email:     c.Email,
		Phone:     c.Phone,
	}
}

// FullName returns "first last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func (c *Customer) apply(attrs CustomerAttributes) {
	c.FirstName = attrs.FirstName
	c.LastName = attrs.LastName
	c.Address = attrs.Address
	c.Email = attrs.Email
	c.Phone = attrs.Phone
}

// Normalized returns the attributes trimmed, with the email lowercased
func (a CustomerAttributes) Normalized() CustomerAttributes {
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.LastName = strings.TrimSpace(a.LastName)
	a.Address = strings.TrimSpace(a.Address)
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.Phone = strings.TrimSpace(a.Phone)
	return a
}

func (a CustomerAttributes) validate() error {
	if a.FirstName == "" {
		return shared.NewValidationError("First name cannot be empty")
	}
	if len(a.FirstName) > 256 {
		return shared.NewValidationError("First name cannot exceed 256 characters")
	}
	if a.LastName == "" {
		return shared.NewValidationError("Last name cannot be empty")
	}
	if len(a.LastName) > 256 {
		return shared.NewValidationError("Last name cannot exceed 256 characters")
	}
	if a.Email != "" {
		if len(a.Email) > 256 {
			return shared.NewValidationError("Email cannot exceed 256 characters")
		}
		if !validEmail.MatchString(a.Email) {
			return shared.NewValidationError("Invalid email format")
		}
	}
	if a.Phone != "" {
		if len(a.Phone) > 30 {
			return shared.NewValidationError("Phone number cannot exceed 30 characters")
		}
		// digits, spaces, hyphens, parentheses and plus sign
		if !validPhone.MatchString(a.Phone) {
			return shared.NewValidationError("Invalid phone number format")
		}
	}
	return nil
}
