package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create inserta el producto y sus variantes. Debe llamarse dentro de una tx para que sea atómico.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, slug, price, stock, external_item_id, external_barcode, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Slug, product.Price, product.Stock,
		nullable(product.ExternalItemID), nullable(product.ExternalBarcode),
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	for _, v := range product.Variants {
		attrs := v.Attributes
		if len(attrs) == 0 {
			attrs = []byte("{}")
		}
		if _, err := r.q.Exec(ctx, `
			INSERT INTO product_variants (id, product_id, name, attributes, stock, external_item_id, external_barcode)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			v.ID, product.ID, v.Name, attrs, v.Stock, nullable(v.ExternalItemID), nullable(v.ExternalBarcode),
		); err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert variant: %w", err)
		}
	}
	return nil
}

// GetByID obtiene un producto por ID con sus variantes.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate bloquea el producto (FOR UPDATE) antes de leer sus variantes.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *ProductRepo) get(ctx context.Context, id, lock string) (*entity.Product, error) {
	query := `
		SELECT id, name, slug, price, stock, COALESCE(external_item_id, ''), COALESCE(external_barcode, ''), created_at, updated_at
		FROM products WHERE id = $1` + lock
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Slug, &p.Price, &p.Stock, &p.ExternalItemID, &p.ExternalBarcode, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, product_id, name, attributes, stock, COALESCE(external_item_id, ''), COALESCE(external_barcode, '')
		FROM product_variants WHERE product_id = $1 ORDER BY name, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var v entity.Variant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Name, &v.Attributes, &v.Stock, &v.ExternalItemID, &v.ExternalBarcode); err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		p.Variants = append(p.Variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	return &p, nil
}

// FindByExternalRef busca primero entre variantes y luego entre productos.
func (r *ProductRepo) FindByExternalRef(ctx context.Context, ref entity.ExternalRef) (entity.SKU, error) {
	if ref.IsZero() {
		return nil, nil
	}
	var productID, variantID string
	err := r.q.QueryRow(ctx, `
		SELECT product_id, id FROM product_variants
		WHERE ($1 <> '' AND external_item_id = $1) OR ($2 <> '' AND external_barcode = $2)
		ORDER BY id LIMIT 1`, ref.ItemID, ref.Barcode).Scan(&productID, &variantID)
	if err == nil {
		return entity.VariantKey{ProductID: productID, VariantID: variantID}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("find variant by external ref: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT id FROM products
		WHERE ($1 <> '' AND external_item_id = $1) OR ($2 <> '' AND external_barcode = $2)
		ORDER BY id LIMIT 1`, ref.ItemID, ref.Barcode).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find product by external ref: %w", err)
	}
	return entity.LegacyKey{ProductID: productID}, nil
}

// UpdateStock escribe los agregados desnormalizados del producto y sus variantes.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, stock int, variantStocks map[string]int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, productID, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for variantID, q := range variantStocks {
		if _, err := r.q.Exec(ctx, `UPDATE product_variants SET stock = $3 WHERE id = $1 AND product_id = $2`, variantID, productID, q); err != nil {
			return fmt.Errorf("update variant stock: %w", err)
		}
	}
	return nil
}
