package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/domain"
)

// Recompute recalcula los agregados desnormalizados de un producto a partir de sus filas.
// Es idempotente: dos ejecuciones seguidas dejan el mismo resultado.
func (s *Service) Recompute(ctx context.Context, productID string) error {
	if productID == "" {
		return domain.ErrInvalidInput
	}
	err := s.tx.Run(ctx, func(r TxRepos) error {
		return s.recompute(ctx, r, productID)
	})
	s.observe(OpRecompute, err)
	return err
}

func (s *Service) recomputeAll(ctx context.Context, r TxRepos, productIDs []string) error {
	for _, id := range productIDs {
		if err := s.recompute(ctx, r, id); err != nil {
			return err
		}
	}
	return nil
}

// recompute aplica las reglas de agregación:
//   - con variantes: stock de variante = suma de sus filas; stock del producto = suma de variantes.
//     Las filas legadas (talla/color) y las de variantes desconocidas no cuentan.
//   - sin variantes: stock del producto = suma de todas las filas.
//
// El producto se bloquea antes de leer las filas: dos transacciones sobre SKUs distintos del mismo
// producto recalculan en serie y la segunda ve las filas ya confirmadas por la primera.
func (s *Service) recompute(ctx context.Context, r TxRepos, productID string) error {
	product, err := r.Products.GetForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	rows, err := r.Stock.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}

	if !product.HasVariants() {
		return r.Products.UpdateStock(ctx, productID, sumQuantities(rows), nil)
	}

	variantStocks := make(map[string]int, len(product.Variants))
	for _, v := range product.Variants {
		variantStocks[v.ID] = 0
	}
	for _, row := range rows {
		if row.VariantID == "" {
			continue
		}
		if _, known := variantStocks[row.VariantID]; !known {
			continue
		}
		variantStocks[row.VariantID] += row.Quantity
	}
	total := 0
	for _, q := range variantStocks {
		total += q
	}
	return r.Products.UpdateStock(ctx, productID, total, variantStocks)
}
