package api

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/tendant/simple-accounts/pkg/product"
)

type ProductResponse struct {
	ID                   string    `json:"id"`
	Code                 int       `json:"product_code"`
	Name                 string    `json:"product_name"`
	Category             string    `json:"product_category"`
	Brand                string    `json:"product_brand"`
	UnitPresentation     string    `json:"product_unit_presentation"`
	QuantityPresentation int       `json:"product_quantity_presentation"`
	Price                float64   `json:"product_price"`
	SupplierName         string    `json:"supplier_name"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Code                 int     `json:"product_code"`
	Name                 string  `json:"product_name"`
	Category             string  `json:"product_category"`
	Brand                string  `json:"product_brand"`
	UnitPresentation     string  `json:"product_unit_presentation"`
	QuantityPresentation int     `json:"product_quantity_presentation"`
	Price                float64 `json:"product_price"`
	SupplierName         string  `json:"supplier_name"`
}

// ReplaceProductRequest overwrites the whole product, code included.
// Absent fields are zeroed.
type ReplaceProductRequest struct {
	Code                 int     `json:"product_code"`
	Name                 string  `json:"product_name"`
	Category             string  `json:"product_category"`
	Brand                string  `json:"product_brand"`
	UnitPresentation     string  `json:"product_unit_presentation"`
	QuantityPresentation int     `json:"product_quantity_presentation"`
	Price                float64 `json:"product_price"`
	SupplierName         string  `json:"supplier_name"`
}

// UpdateProductRequest is a partial update. Absent fields are left
// unchanged; the code is immutable.
type UpdateProductRequest struct {
	Name                 *string  `json:"product_name,omitempty"`
	Category             *string  `json:"product_category,omitempty"`
	Brand                *string  `json:"product_brand,omitempty"`
	UnitPresentation     *string  `json:"product_unit_presentation,omitempty"`
	QuantityPresentation *int     `json:"product_quantity_presentation,omitempty"`
	Price                *float64 `json:"product_price,omitempty"`
	SupplierName         *string  `json:"supplier_name,omitempty"`
}

func toProductResponse(p product.Product) ProductResponse {
	var resp ProductResponse
	copier.Copy(&resp, &p)
	resp.ID = p.ID.String()
	return resp
}

func toProductResponses(products []product.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, toProductResponse(p))
	}
	return resp
}
