package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

const stockColumns = `id, product_id, COALESCE(variant_id::text, ''), size, color, warehouse_id,
	quantity, low_stock_threshold, max_quantity, status, attributes_snapshot, created_at, updated_at`

// statusExpr recalcula status en la misma sentencia que cambia quantity.
const statusExpr = `CASE WHEN %[1]s <= 0 THEN 'out_of_stock'
	WHEN %[1]s <= low_stock_threshold THEN 'low_stock'
	ELSE 'in_stock' END`

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

func scanStockRow(row pgx.Row) (*entity.StockRow, error) {
	var s entity.StockRow
	err := row.Scan(
		&s.ID, &s.ProductID, &s.VariantID, &s.Size, &s.Color, &s.WarehouseID,
		&s.Quantity, &s.LowStockThreshold, &s.MaxQuantity, &s.Status, &s.AttributesSnapshot,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectStockRows(rows pgx.Rows) ([]*entity.StockRow, error) {
	defer rows.Close()
	var list []*entity.StockRow
	for rows.Next() {
		s, err := scanStockRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock row: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// skuCondition arma el WHERE de identidad a partir de $offset.
func skuCondition(sku entity.SKU, offset int) (string, []any) {
	productID, variantID, size, color := entity.SKUFields(sku)
	if variantID != "" {
		return fmt.Sprintf("product_id = $%d AND variant_id = $%d", offset, offset+1), []any{productID, variantID}
	}
	return fmt.Sprintf("product_id = $%d AND variant_id IS NULL AND size = $%d AND color = $%d", offset, offset+1, offset+2),
		[]any{productID, size, color}
}

// ListBySKUForUpdate bloquea en orden (bodega, antigüedad, id) para que dos transacciones no se crucen.
func (r *StockRepo) ListBySKUForUpdate(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error) {
	cond, args := skuCondition(sku, 1)
	query := `SELECT ` + stockColumns + ` FROM stock_rows WHERE ` + cond +
		` ORDER BY warehouse_id, created_at, id FOR UPDATE`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock rows for update: %w", err)
	}
	return collectStockRows(rows)
}

func (r *StockRepo) ListBySKU(ctx context.Context, sku entity.SKU) ([]*entity.StockRow, error) {
	cond, args := skuCondition(sku, 1)
	query := `SELECT ` + stockColumns + ` FROM stock_rows WHERE ` + cond + ` ORDER BY warehouse_id, created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock rows: %w", err)
	}
	return collectStockRows(rows)
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). nil si no existe.
func (r *StockRepo) GetForUpdate(ctx context.Context, sku entity.SKU, warehouseID string) (*entity.StockRow, error) {
	cond, args := skuCondition(sku, 2)
	query := `SELECT ` + stockColumns + ` FROM stock_rows WHERE warehouse_id = $1 AND ` + cond +
		` ORDER BY created_at, id LIMIT 1 FOR UPDATE`
	s, err := scanStockRow(r.q.QueryRow(ctx, query, append([]any{warehouseID}, args...)...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock row for update: %w", err)
	}
	return s, nil
}

func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockRow, error) {
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_rows WHERE product_id = $1 ORDER BY warehouse_id, created_at`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock rows by product: %w", err)
	}
	return collectStockRows(rows)
}

// Create usa ON CONFLICT DO NOTHING para que perder la carrera no aborte la transacción.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockRow) error {
	query := `
		INSERT INTO stock_rows (id, product_id, variant_id, size, color, warehouse_id, quantity,
			low_stock_threshold, max_quantity, status, attributes_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING`
	s.RefreshStatus()
	if len(s.AttributesSnapshot) == 0 {
		s.AttributesSnapshot = json.RawMessage(`{}`)
	}
	cmd, err := r.q.Exec(ctx, query,
		s.ID, s.ProductID, nullable(s.VariantID), s.Size, s.Color, s.WarehouseID, s.Quantity,
		s.LowStockThreshold, s.MaxQuantity, s.Status, s.AttributesSnapshot, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConcurrencyConflict
		}
		return fmt.Errorf("insert stock row: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrConcurrencyConflict
	}
	return nil
}

// ApplyDelta es el decremento condicional: la fila solo cambia si el resultado respeta la política.
func (r *StockRepo) ApplyDelta(ctx context.Context, rowID string, delta int, allowNegative bool) (*entity.StockRow, error) {
	query := `
		UPDATE stock_rows
		SET quantity = quantity + $2, status = ` + fmt.Sprintf(statusExpr, "quantity + $2") + `, updated_at = now()
		WHERE id = $1 AND ($3 OR $2 >= 0 OR quantity + $2 >= 0)
		RETURNING ` + stockColumns
	s, err := scanStockRow(r.q.QueryRow(ctx, query, rowID, delta, allowNegative))
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("apply stock delta: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_rows WHERE id = $1)`, rowID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check stock row: %w", err)
	}
	if !exists {
		return nil, domain.ErrNotFound
	}
	return nil, domain.ErrInsufficientStock
}

func (r *StockRepo) SetQuantity(ctx context.Context, rowID string, quantity int) (*entity.StockRow, error) {
	query := `
		UPDATE stock_rows
		SET quantity = $2, status = ` + fmt.Sprintf(statusExpr, "$2::int") + `, updated_at = now()
		WHERE id = $1
		RETURNING ` + stockColumns
	s, err := scanStockRow(r.q.QueryRow(ctx, query, rowID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set stock quantity: %w", err)
	}
	return s, nil
}

func (r *StockRepo) Delete(ctx context.Context, rowID string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM stock_rows WHERE id = $1`, rowID)
	if err != nil {
		return fmt.Errorf("delete stock row: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) Query(ctx context.Context, f repository.StockFilter) ([]*entity.StockRow, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ProductID != "" {
		add("product_id = $%d", f.ProductID)
	}
	if f.VariantID != "" {
		add("variant_id = $%d", f.VariantID)
	}
	if f.Size != "" {
		add("size = $%d", f.Size)
	}
	if f.Color != "" {
		add("color = $%d", f.Color)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM stock_rows%s ORDER BY product_id, warehouse_id, created_at LIMIT $%d OFFSET $%d`,
		stockColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock rows: %w", err)
	}
	return collectStockRows(rows)
}

func (r *StockRepo) ListLowStock(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockRow, error) {
	query := `SELECT ` + stockColumns + ` FROM stock_rows
		WHERE quantity <= low_stock_threshold AND ($1 = '' OR warehouse_id::text = $1)
		ORDER BY quantity, updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectStockRows(rows)
}
