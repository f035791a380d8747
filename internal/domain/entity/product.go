package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo visto por el núcleo de inventario.
// Stock es el agregado desnormalizado calculado desde las filas de stock.
type Product struct {
	ID              string
	Name            string
	Slug            string
	Price           decimal.Decimal
	Stock           int
	ExternalItemID  string
	ExternalBarcode string
	Variants        []Variant
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Variant subdocumento de un producto con su propio agregado de stock.
type Variant struct {
	ID              string
	ProductID       string
	Name            string
	Attributes      json.RawMessage
	Stock           int
	ExternalItemID  string
	ExternalBarcode string
}

// HasVariants indica si el producto define variantes.
func (p *Product) HasVariants() bool {
	return len(p.Variants) > 0
}

// Variant busca una variante por ID.
func (p *Product) Variant(id string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

// ExternalRef identificadores del SKU en el inventario externo (vacío = no sincronizado).
type ExternalRef struct {
	ItemID  string
	Barcode string
}

// IsZero indica que el SKU no está mapeado.
func (r ExternalRef) IsZero() bool {
	return r.ItemID == "" && r.Barcode == ""
}

// ExternalRefFor resuelve el mapeo externo de un SKU. Una variante usa solo su propio mapeo.
// El mapeo del producto direcciona únicamente el SKU legado sin talla ni color, que es el mismo
// SKU que devuelve FindByExternalRef: push y pull tocan siempre las mismas filas.
func (p *Product) ExternalRefFor(sku SKU) ExternalRef {
	switch k := sku.(type) {
	case VariantKey:
		if v := p.Variant(k.VariantID); v != nil {
			return ExternalRef{ItemID: v.ExternalItemID, Barcode: v.ExternalBarcode}
		}
	case LegacyKey:
		if k.Size == "" && k.Color == "" {
			return ExternalRef{ItemID: p.ExternalItemID, Barcode: p.ExternalBarcode}
		}
	}
	return ExternalRef{}
}

// AttributesFor copia de los atributos que definen el SKU, para guardar en la fila de stock.
// Variante: sus atributos. Legado: talla y color informados. Sin atributos devuelve "{}".
func (p *Product) AttributesFor(sku SKU) json.RawMessage {
	switch k := sku.(type) {
	case VariantKey:
		if v := p.Variant(k.VariantID); v != nil && len(v.Attributes) > 0 {
			return append(json.RawMessage(nil), v.Attributes...)
		}
	case LegacyKey:
		attrs := make(map[string]string, 2)
		if k.Size != "" {
			attrs["size"] = k.Size
		}
		if k.Color != "" {
			attrs["color"] = k.Color
		}
		if len(attrs) > 0 {
			raw, err := json.Marshal(attrs)
			if err == nil {
				return raw
			}
		}
	}
	return json.RawMessage(`{}`)
}

// DisplayName nombre legible para mensajes (producto + variante).
func (p *Product) DisplayName(sku SKU) string {
	switch k := sku.(type) {
	case VariantKey:
		if v := p.Variant(k.VariantID); v != nil && v.Name != "" {
			return p.Name + " (" + v.Name + ")"
		}
	case LegacyKey:
		if k.Size != "" || k.Color != "" {
			return p.Name + " (" + k.Size + "/" + k.Color + ")"
		}
	}
	return p.Name
}
