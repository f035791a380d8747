package entity

import (
	"strings"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// SKU identifica una unidad vendible: producto + variante, o producto + talla/color (esquema legado).
// Las únicas implementaciones son VariantKey y LegacyKey; usar un type switch para tratarlas.
type SKU interface {
	Product() string
	// Key devuelve una clave estable y comparable (útil para mapas y orden de bloqueo).
	Key() string
	Validate() error
	sku()
}

// VariantKey direcciona una variante concreta de un producto.
type VariantKey struct {
	ProductID string
	VariantID string
}

// LegacyKey direcciona un producto por talla y color (productos sin variantes modeladas).
type LegacyKey struct {
	ProductID string
	Size      string
	Color     string
}

func (k VariantKey) sku() {}
func (k LegacyKey) sku()  {}

func (k VariantKey) Product() string { return k.ProductID }
func (k LegacyKey) Product() string  { return k.ProductID }

func (k VariantKey) Key() string { return k.ProductID + "|v|" + k.VariantID }
func (k LegacyKey) Key() string  { return k.ProductID + "|l|" + k.Size + "|" + k.Color }

func (k VariantKey) Validate() error {
	if strings.TrimSpace(k.ProductID) == "" || strings.TrimSpace(k.VariantID) == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// Validate acepta talla y color vacíos (producto simple sin atributos), pero no el producto.
func (k LegacyKey) Validate() error {
	if strings.TrimSpace(k.ProductID) == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

// NewSKU construye la identidad a partir de campos sueltos (request HTTP, filas de BD).
// Si variantID viene informado gana sobre talla/color.
func NewSKU(productID, variantID, size, color string) SKU {
	if variantID != "" {
		return VariantKey{ProductID: productID, VariantID: variantID}
	}
	return LegacyKey{ProductID: productID, Size: size, Color: color}
}

// SKUFields descompone la identidad en columnas planas.
func SKUFields(s SKU) (productID, variantID, size, color string) {
	switch k := s.(type) {
	case VariantKey:
		return k.ProductID, k.VariantID, "", ""
	case LegacyKey:
		return k.ProductID, "", k.Size, k.Color
	}
	return "", "", "", ""
}
