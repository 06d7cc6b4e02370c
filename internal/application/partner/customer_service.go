package partner

import (
	"context"

	"github.com/Honest-88/pos-sample/internal/domain/partner"
	"github.com/Honest-88/pos-sample/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	customer, err := partner.NewCustomer(partner.CustomerAttributes{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, customer, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List retrieves customers matching the filter
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) ([]CustomerResponse, int64, error) {
	domainFilter := shared.Filter{
		Search:   filter.Search,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}

	customers, total, err := s.customerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CustomerResponse, len(customers))
	for i := range customers {
		responses[i] = ToCustomerResponse(&customers[i])
	}
	return responses, total, nil
}

// Update applies the non-nil fields of req to a customer
func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	attrs := customer.Attributes()
	if req.FirstName != nil {
		attrs.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		attrs.LastName = *req.LastName
	}
	if req.Address != nil {
		attrs.Address = *req.Address
	}
	if req.Email != nil {
		attrs.Email = *req.Email
	}
	if req.Phone != nil {
		attrs.Phone = *req.Phone
	}

	if err := customer.Update(attrs); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, customer, customer.ID); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete deletes a customer
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.customerRepo.Delete(ctx, id)
}

func (s *CustomerService) ensureUnique(ctx context.Context, customer *partner.Customer, excludeID uuid.UUID) error {
	exists, err := s.customerRepo.ExistsWithAttributes(ctx, customer.Attributes(), excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDuplicateError("Customer")
	}
	return nil
}
