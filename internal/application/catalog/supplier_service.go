package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/shared"
)

// SupplierService handles supplier-related business operations
type SupplierService struct {
	suppliers catalog.SupplierRepository
	recorder  *appHistory.Recorder
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(suppliers catalog.SupplierRepository, recorder *appHistory.Recorder) *SupplierService {
	return &SupplierService{suppliers: suppliers, recorder: recorder}
}

// Create creates a new supplier
func (s *SupplierService) Create(ctx context.Context, actor appHistory.Actor, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := catalog.NewSupplier(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Supplier added",
		fmt.Sprintf("Added supplier '%s'", supplier.Name))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Update updates an existing supplier
func (s *SupplierService) Update(ctx context.Context, actor appHistory.Actor, id uuid.UUID, req SupplierRequest) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := supplier.Update(req.Name, req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Supplier updated",
		fmt.Sprintf("Updated supplier '%s'", supplier.Name))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// Delete removes a supplier
func (s *SupplierService) Delete(ctx context.Context, actor appHistory.Actor, id uuid.UUID) error {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Supplier deleted",
		fmt.Sprintf("Deleted supplier '%s'", supplier.Name))

	return nil
}

// Get returns a single supplier
func (s *SupplierService) Get(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// List returns all suppliers
func (s *SupplierService) List(ctx context.Context) ([]SupplierResponse, error) {
	f := shared.DefaultFilter()
	f.PageSize = 100
	f.OrderBy = "name"
	f.OrderDir = "asc"

	suppliers, err := s.suppliers.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, ToSupplierResponse(&suppliers[i]))
	}
	return out, nil
}
