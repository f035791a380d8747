package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateVariantRequest variante declarada al crear el producto.
type CreateVariantRequest struct {
	Name            string          `json:"name" validate:"required,max=200"`
	Attributes      json.RawMessage `json:"attributes,omitempty"`
	ExternalItemID  string          `json:"external_item_id,omitempty"`
	ExternalBarcode string          `json:"external_barcode,omitempty"`
}

// CreateProductRequest request para crear un producto del catálogo. El stock nace en 0.
type CreateProductRequest struct {
	Name            string                 `json:"name" validate:"required,max=200"`
	Price           decimal.Decimal        `json:"price"`
	ExternalItemID  string                 `json:"external_item_id,omitempty"`
	ExternalBarcode string                 `json:"external_barcode,omitempty"`
	Variants        []CreateVariantRequest `json:"variants,omitempty" validate:"dive"`
}

// VariantResponse variante con su agregado de stock.
type VariantResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Attributes      json.RawMessage `json:"attributes,omitempty"`
	Stock           int             `json:"stock"`
	ExternalItemID  string          `json:"external_item_id,omitempty"`
	ExternalBarcode string          `json:"external_barcode,omitempty"`
}

// ProductResponse producto con los agregados de stock calculados desde las filas.
type ProductResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Price           decimal.Decimal   `json:"price"`
	Stock           int               `json:"stock"`
	ExternalItemID  string            `json:"external_item_id,omitempty"`
	ExternalBarcode string            `json:"external_barcode,omitempty"`
	Variants        []VariantResponse `json:"variants"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}
