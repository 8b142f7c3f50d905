package product

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// Service provides catalog operations. The product-code pre-check is
// advisory; the store-level unique index is authoritative.
type Service struct {
	repo Repository
}

// NewService creates a new product service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create adds a product to the catalog
func (s *Service) Create(ctx context.Context, product Product) (Product, error) {
	if product.Code <= 0 {
		return Product{}, errors.InvalidParameter("product code must be positive", errors.LocationBody)
	}
	if product.Name == "" {
		return Product{}, errors.InvalidParameter("product name is required", errors.LocationBody)
	}

	if _, err := s.repo.GetByCode(ctx, product.Code); err == nil {
		return Product{}, errors.InvalidParameter("product code is already taken", errors.LocationBody)
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return Product{}, err
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return Product{}, translateConflict(err)
	}
	slog.Info("Product created", "product_id", created.ID, "code", created.Code)
	return created, nil
}

// Replace overwrites every mutable field of the product, including its code.
func (s *Service) Replace(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	if product.Code <= 0 {
		return Product{}, errors.InvalidParameter("product code must be positive", errors.LocationBody)
	}
	if product.Name == "" {
		return Product{}, errors.InvalidParameter("product name is required", errors.LocationBody)
	}

	if existing, err := s.repo.GetByCode(ctx, product.Code); err == nil {
		if existing.ID != id {
			return Product{}, errors.InvalidParameter("product code is already taken", errors.LocationBody)
		}
	} else if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return Product{}, err
	}

	replaced, err := s.repo.Replace(ctx, id, product)
	if err != nil {
		return Product{}, translateConflict(err)
	}
	slog.Info("Product replaced", "product_id", id, "code", replaced.Code)
	return replaced, nil
}

// GetByID returns a non-deleted product
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all non-deleted products
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Update merges the non-nil fields into the product
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Product, error) {
	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return Product{}, err
	}
	slog.Info("Product updated", "product_id", id)
	return updated, nil
}

// Disable soft-deletes the product
func (s *Service) Disable(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Disable(ctx, id); err != nil {
		return err
	}
	slog.Info("Product disabled", "product_id", id)
	return nil
}

// Delete removes the product row entirely
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Product deleted", "product_id", id)
	return nil
}

// translateConflict maps a store-level unique violation to the parameter
// error callers see. The CONFLICT code stays internal to the store layer.
func translateConflict(err error) error {
	if errors.IsCode(err, errors.ErrCodeConflict) {
		return errors.InvalidParameter("product code is already taken", errors.LocationBody)
	}
	return err
}
