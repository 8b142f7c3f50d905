package product

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for product persistence. Lookups exclude
// soft-deleted products; the store-level unique constraint on code is
// authoritative.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Product, error)
	GetByCode(ctx context.Context, code int) (Product, error)
	List(ctx context.Context) ([]Product, error)

	// Create inserts a new product. A unique violation on code surfaces
	// as a conflict error even when the pre-check passed.
	Create(ctx context.Context, product Product) (Product, error)

	// Update merges the non-nil fields into the product
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Product, error)

	// Replace overwrites every mutable field in one write. The code is
	// part of the replacement and keeps its uniqueness guarantee.
	Replace(ctx context.Context, id uuid.UUID, product Product) (Product, error)

	// Disable soft-deletes the product
	Disable(ctx context.Context, id uuid.UUID) error

	// Delete hard-removes the product
	Delete(ctx context.Context, id uuid.UUID) error
}
