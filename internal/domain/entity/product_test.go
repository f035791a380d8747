package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

func mappedProduct() *entity.Product {
	return &entity.Product{
		ID: "p1", Name: "Gorra", ExternalItemID: "ext-1", ExternalBarcode: "770001",
		Variants: []entity.Variant{
			{ID: "v1", ProductID: "p1", Name: "Negra", ExternalItemID: "ext-v1", Attributes: json.RawMessage(`{"color":"negro"}`)},
			{ID: "v2", ProductID: "p1", Name: "Blanca"},
		},
	}
}

func TestExternalRefFor_MismoSKUQueElPull(t *testing.T) {
	p := mappedProduct()

	assert.Equal(t, entity.ExternalRef{ItemID: "ext-1", Barcode: "770001"}, p.ExternalRefFor(entity.LegacyKey{ProductID: "p1"}))
	assert.True(t, p.ExternalRefFor(entity.LegacyKey{ProductID: "p1", Size: "M", Color: "rojo"}).IsZero())
	assert.True(t, p.ExternalRefFor(entity.LegacyKey{ProductID: "p1", Color: "rojo"}).IsZero())
	assert.Equal(t, entity.ExternalRef{ItemID: "ext-v1"}, p.ExternalRefFor(entity.VariantKey{ProductID: "p1", VariantID: "v1"}))
	assert.True(t, p.ExternalRefFor(entity.VariantKey{ProductID: "p1", VariantID: "v2"}).IsZero(), "la variante no hereda el mapeo del producto")
	assert.True(t, p.ExternalRefFor(entity.VariantKey{ProductID: "p1", VariantID: "nope"}).IsZero())
}

func TestAttributesFor(t *testing.T) {
	p := mappedProduct()

	assert.JSONEq(t, `{"color":"negro"}`, string(p.AttributesFor(entity.VariantKey{ProductID: "p1", VariantID: "v1"})))
	assert.JSONEq(t, `{}`, string(p.AttributesFor(entity.VariantKey{ProductID: "p1", VariantID: "v2"})))
	assert.JSONEq(t, `{"size":"M","color":"rojo"}`, string(p.AttributesFor(entity.LegacyKey{ProductID: "p1", Size: "M", Color: "rojo"})))
	assert.JSONEq(t, `{"size":"S"}`, string(p.AttributesFor(entity.LegacyKey{ProductID: "p1", Size: "S"})))
	assert.JSONEq(t, `{}`, string(p.AttributesFor(entity.LegacyKey{ProductID: "p1"})))

	// La copia no comparte memoria con la variante.
	snap := p.AttributesFor(entity.VariantKey{ProductID: "p1", VariantID: "v1"})
	snap[0] = 'x'
	assert.JSONEq(t, `{"color":"negro"}`, string(p.Variants[0].Attributes))
}
