package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/tendant/simple-accounts/pkg/errors"
	"github.com/tendant/simple-accounts/pkg/product"
	"github.com/tendant/simple-accounts/pkg/response"
)

// Handle serves the product catalog routes. All routes require a verified
// access token.
type Handle struct {
	productService *product.Service
}

func NewHandle(productService *product.Service) Handle {
	return Handle{
		productService: productService,
	}
}

// Routes mounts the product endpoints on the given router
func (h Handle) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}", h.Replace)
	r.Delete("/{id}", h.Disable)
	r.Delete("/{id}/permanent", h.Delete)
}

// List returns all active products
// (GET /products)
func (h Handle) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.List(r.Context())
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toProductResponses(products))
}

// Create adds a product to the catalog
// (POST /products)
func (h Handle) Create(w http.ResponseWriter, r *http.Request) {
	var data CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	var p product.Product
	copier.Copy(&p, &data)

	created, err := h.productService.Create(r.Context(), p)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.Created(w, r, toProductResponse(created))
}

// Get returns a single product
// (GET /products/{id})
func (h Handle) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	p, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toProductResponse(p))
}

// Update merges the provided fields into the product
// (PATCH /products/{id})
func (h Handle) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var data UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	updated, err := h.productService.Update(r.Context(), id, product.UpdateParams{
		Name:                 data.Name,
		Category:             data.Category,
		Brand:                data.Brand,
		UnitPresentation:     data.UnitPresentation,
		QuantityPresentation: data.QuantityPresentation,
		Price:                data.Price,
		SupplierName:         data.SupplierName,
	})
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toProductResponse(updated))
}

// Replace overwrites the whole product
// (PUT /products/{id})
func (h Handle) Replace(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	var data ReplaceProductRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		response.Err(w, r, errors.InvalidParameter("invalid request body", errors.LocationBody))
		return
	}

	var p product.Product
	copier.Copy(&p, &data)

	replaced, err := h.productService.Replace(r.Context(), id, p)
	if err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, toProductResponse(replaced))
}

// Disable soft-deletes the product
// (DELETE /products/{id})
func (h Handle) Disable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.productService.Disable(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"message": "product disabled"})
}

// Delete removes the product row entirely
// (DELETE /products/{id}/permanent)
func (h Handle) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		response.Err(w, r, err)
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		response.Err(w, r, err)
		return
	}
	response.OK(w, r, map[string]string{"message": "product deleted"})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errors.InvalidParameter("invalid product id", errors.LocationParams)
	}
	return id, nil
}
