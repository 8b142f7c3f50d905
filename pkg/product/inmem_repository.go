package product

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-accounts/pkg/errors"
)

// InMemRepository implements Repository with an in-memory map, mirroring
// the PostgreSQL semantics. Used by service tests.
type InMemRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]Product
}

// NewInMemRepository creates a new in-memory product repository
func NewInMemRepository() *InMemRepository {
	return &InMemRepository{
		products: make(map[uuid.UUID]Product),
	}
}

func (r *InMemRepository) GetByID(ctx context.Context, id uuid.UUID) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return Product{}, errors.NotFound("product", id.String())
	}
	return p, nil
}

func (r *InMemRepository) GetByCode(ctx context.Context, code int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Code == code && !p.IsDeleted {
			return p, nil
		}
	}
	return Product{}, errors.NotFound("product", strconv.Itoa(code))
}

func (r *InMemRepository) List(ctx context.Context) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var products []Product
	for _, p := range r.products {
		if !p.IsDeleted {
			products = append(products, p)
		}
	}
	return products, nil
}

func (r *InMemRepository) Create(ctx context.Context, product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.products {
		if !existing.IsDeleted && existing.Code == product.Code {
			return Product{}, errors.Conflict("product code is already taken")
		}
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	r.products[product.ID] = product
	return product, nil
}

func (r *InMemRepository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return Product{}, errors.NotFound("product", id.String())
	}

	if params.Name != nil {
		p.Name = *params.Name
	}
	if params.Category != nil {
		p.Category = *params.Category
	}
	if params.Brand != nil {
		p.Brand = *params.Brand
	}
	if params.UnitPresentation != nil {
		p.UnitPresentation = *params.UnitPresentation
	}
	if params.QuantityPresentation != nil {
		p.QuantityPresentation = *params.QuantityPresentation
	}
	if params.Price != nil {
		p.Price = *params.Price
	}
	if params.SupplierName != nil {
		p.SupplierName = *params.SupplierName
	}
	p.UpdatedAt = time.Now().UTC()

	r.products[id] = p
	return p, nil
}

func (r *InMemRepository) Replace(ctx context.Context, id uuid.UUID, product Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return Product{}, errors.NotFound("product", id.String())
	}

	for otherID, existing := range r.products {
		if otherID != id && !existing.IsDeleted && existing.Code == product.Code {
			return Product{}, errors.Conflict("product code is already taken")
		}
	}

	p.Code = product.Code
	p.Name = product.Name
	p.Category = product.Category
	p.Brand = product.Brand
	p.UnitPresentation = product.UnitPresentation
	p.QuantityPresentation = product.QuantityPresentation
	p.Price = product.Price
	p.SupplierName = product.SupplierName
	p.UpdatedAt = time.Now().UTC()

	r.products[id] = p
	return p, nil
}

func (r *InMemRepository) Disable(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok || p.IsDeleted {
		return errors.NotFound("product", id.String())
	}

	p.IsDeleted = true
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return nil
}

func (r *InMemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return errors.NotFound("product", id.String())
	}
	delete(r.products, id)
	return nil
}
