package product

import (
	"time"

	"github.com/google/uuid"
)

// Product is one catalog entry. Code is unique among non-deleted products.
type Product struct {
	ID                   uuid.UUID
	Code                 int
	Name                 string
	Category             string
	Brand                string
	UnitPresentation     string
	QuantityPresentation int
	Price                float64
	SupplierName         string

	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateParams represents a partial product update. Nil fields are left
// unchanged.
type UpdateParams struct {
	Name                 *string
	Category             *string
	Brand                *string
	UnitPresentation     *string
	QuantityPresentation *int
	Price                *float64
	SupplierName         *string
}
