package catalog

import (
	"strings"
	"time"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Supplier represents a product supplier
type Supplier struct {
	shared.BaseAggregateRoot
	Name    string `gorm:"type:varchar(200);not null;index"`
	Email   string `gorm:"type:varchar(200)"`
	Phone   string `gorm:"type:varchar(30)"`
	Address string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name, email, phone, address string) (*Supplier, error) {
	if err := validateSupplier(name, email); err != nil {
		return nil, err
	}

	return &Supplier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		Address:           address,
	}, nil
}

// Update updates the supplier
func (s *Supplier) Update(name, email, phone, address string) error {
	if err := validateSupplier(name, email); err != nil {
		return err
	}

	s.Name = name
	s.Email = email
	s.Phone = phone
	s.Address = address
	s.UpdatedAt = time.Now()

	return nil
}

func validateSupplier(name, email string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Supplier email is not valid")
	}
	return nil
}
