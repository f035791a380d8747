package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

const systemActor = "system"

// ItemRequest línea de una reserva o reposición: SKU y cantidad positiva.
type ItemRequest struct {
	SKU      entity.SKU
	Quantity int
}

// Service núcleo de control de inventario: reservas, reposiciones, ajustes, traslados y agregados.
// Todas las mutaciones multi-fila se ejecutan en una sola transacción (TxRunner).
type Service struct {
	tx       TxRunner
	reader   repository.StockRepository
	alerts   *AlertEmitter
	notifier ChangeNotifier
	observer Observer
	settings Settings
	log      zerolog.Logger
	now      func() time.Time
}

// NewService construye el servicio. reader se usa para consultas fuera de transacción.
func NewService(
	tx TxRunner,
	reader repository.StockRepository,
	alerts *AlertEmitter,
	settings Settings,
	log zerolog.Logger,
) *Service {
	return &Service{
		tx:       tx,
		reader:   reader,
		alerts:   alerts,
		settings: settings.withDefaults(),
		log:      log.With().Str("component", "inventory").Logger(),
		now:      time.Now,
	}
}

// SetChangeNotifier registra el receptor del push externo (se conecta después de construir el gateway).
func (s *Service) SetChangeNotifier(n ChangeNotifier) {
	s.notifier = n
}

// SetObserver registra el receptor de métricas de operaciones.
func (s *Service) SetObserver(o Observer) {
	s.observer = o
}

func (s *Service) observe(op string, err error) {
	if s.observer != nil {
		s.observer.Observe(op, err)
	}
}

// Settings devuelve la configuración efectiva.
func (s *Service) Settings() Settings {
	return s.settings
}

// mutationOutcome acumula lo tocado por una transacción para los efectos posteriores al commit.
type mutationOutcome struct {
	rows     map[string]*entity.StockRow
	rowOrder []string
	changes  map[string]*StockChange
	skuOrder []string
	products map[string]struct{}
}

func newOutcome() *mutationOutcome {
	return &mutationOutcome{
		rows:     make(map[string]*entity.StockRow),
		changes:  make(map[string]*StockChange),
		products: make(map[string]struct{}),
	}
}

func (o *mutationOutcome) touch(row *entity.StockRow) {
	if _, ok := o.rows[row.ID]; !ok {
		o.rowOrder = append(o.rowOrder, row.ID)
	}
	cp := *row
	o.rows[row.ID] = &cp
	o.products[row.ProductID] = struct{}{}
}

func (o *mutationOutcome) change(sku entity.SKU, delta int) {
	key := sku.Key()
	c, ok := o.changes[key]
	if !ok {
		c = &StockChange{SKU: sku}
		o.changes[key] = c
		o.skuOrder = append(o.skuOrder, key)
	}
	c.Delta += delta
	o.products[sku.Product()] = struct{}{}
}

func (o *mutationOutcome) touchedRows() []*entity.StockRow {
	out := make([]*entity.StockRow, 0, len(o.rowOrder))
	for _, id := range o.rowOrder {
		out = append(out, o.rows[id])
	}
	return out
}

func (o *mutationOutcome) stockChanges() []StockChange {
	out := make([]StockChange, 0, len(o.skuOrder))
	for _, k := range o.skuOrder {
		out = append(out, *o.changes[k])
	}
	return out
}

func (o *mutationOutcome) productIDs() []string {
	ids := make([]string, 0, len(o.products))
	for id := range o.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// afterCommit evalúa alertas y, si push es true, avisa al gateway externo. Nunca falla.
func (s *Service) afterCommit(ctx context.Context, out *mutationOutcome, push bool) {
	if s.alerts != nil {
		s.alerts.Evaluate(ctx, out.touchedRows())
	}
	if push && s.notifier != nil {
		if changes := out.stockChanges(); len(changes) > 0 {
			s.notifier.Notify(changes)
		}
	}
}

// normalizeItems valida las líneas, agrupa SKUs repetidos y ordena por clave (orden estable de bloqueo).
func normalizeItems(items []ItemRequest) ([]ItemRequest, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	merged := make(map[string]*ItemRequest, len(items))
	for _, it := range items {
		if it.SKU == nil || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if err := it.SKU.Validate(); err != nil {
			return nil, err
		}
		key := it.SKU.Key()
		if m, ok := merged[key]; ok {
			m.Quantity += it.Quantity
			continue
		}
		cp := it
		merged[key] = &cp
	}
	out := make([]ItemRequest, 0, len(merged))
	for _, m := range merged {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU.Key() < out[j].SKU.Key() })
	return out, nil
}

func actorOrSystem(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return systemActor
	}
	return actor
}

// loadProduct valida que el SKU exista en el catálogo (producto y, si aplica, variante).
func (s *Service) loadProduct(ctx context.Context, r TxRepos, cache map[string]*entity.Product, sku entity.SKU) (*entity.Product, error) {
	p, ok := cache[sku.Product()]
	if !ok {
		var err error
		p, err = r.Products.GetByID(ctx, sku.Product())
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		cache[sku.Product()] = p
	}
	if k, isVariant := sku.(entity.VariantKey); isVariant && p.Variant(k.VariantID) == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// lockRows bloquea las filas del SKU y fusiona duplicados (misma bodega) en la fila sobreviviente.
func (s *Service) lockRows(ctx context.Context, r TxRepos, sku entity.SKU, actor string, out *mutationOutcome) ([]*entity.StockRow, error) {
	rows, err := r.Stock.ListBySKUForUpdate(ctx, sku)
	if err != nil {
		return nil, err
	}
	return s.collapseDuplicates(ctx, r, rows, actor, out)
}

func (s *Service) collapseDuplicates(ctx context.Context, r TxRepos, rows []*entity.StockRow, actor string, out *mutationOutcome) ([]*entity.StockRow, error) {
	byWarehouse := make(map[string][]*entity.StockRow, len(rows))
	order := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := byWarehouse[row.WarehouseID]; !ok {
			order = append(order, row.WarehouseID)
		}
		byWarehouse[row.WarehouseID] = append(byWarehouse[row.WarehouseID], row)
	}
	if len(order) == len(rows) {
		return rows, nil
	}

	result := make([]*entity.StockRow, 0, len(order))
	for _, wh := range order {
		group := byWarehouse[wh]
		if len(group) == 1 {
			result = append(result, group[0])
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			if !group[i].CreatedAt.Equal(group[j].CreatedAt) {
				return group[i].CreatedAt.Before(group[j].CreatedAt)
			}
			return group[i].ID < group[j].ID
		})
		survivor := group[0]
		total := 0
		for _, row := range group {
			total += row.Quantity
		}
		for _, loser := range group[1:] {
			if err := r.Stock.Delete(ctx, loser.ID); err != nil {
				return nil, err
			}
		}
		before := survivor.Quantity
		merged, err := r.Stock.SetQuantity(ctx, survivor.ID, total)
		if err != nil {
			return nil, err
		}
		s.log.Warn().
			Str("product_id", survivor.ProductID).
			Str("warehouse_id", wh).
			Int("duplicates", len(group)-1).
			Msg("filas de stock duplicadas fusionadas")
		if err := s.appendHistory(ctx, r, merged, entity.HistoryTypeUpdate, before, "duplicate row merge", actor); err != nil {
			return nil, err
		}
		out.touch(merged)
		result = append(result, merged)
	}
	return result, nil
}

// defaultWarehouse devuelve la bodega por defecto, creándola si no existe.
func (s *Service) defaultWarehouse(ctx context.Context, r TxRepos) (*entity.Warehouse, error) {
	wh, err := r.Warehouses.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if wh != nil {
		return wh, nil
	}
	now := s.now()
	wh = &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      s.settings.DefaultWarehouseCode,
		Name:      s.settings.DefaultWarehouseName,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Warehouses.Create(ctx, wh); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		// Otra transacción la creó primero.
		wh, err = r.Warehouses.GetDefault(ctx)
		if err != nil {
			return nil, err
		}
		if wh == nil {
			return nil, domain.ErrConcurrencyConflict
		}
	}
	return wh, nil
}

// ensureRow devuelve (bloqueada) la fila del SKU en la bodega, creándola en cero si no existe.
// La fila nueva lleva la copia de los atributos del SKU tomada del catálogo.
// Si otra transacción gana la creación se reintenta sobre la fila sobreviviente.
func (s *Service) ensureRow(ctx context.Context, r TxRepos, sku entity.SKU, warehouseID string) (*entity.StockRow, error) {
	row, err := r.Stock.GetForUpdate(ctx, sku, warehouseID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		return row, nil
	}
	product, err := r.Products.GetByID(ctx, sku.Product())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	row = entity.NewStockRow(uuid.New().String(), sku, warehouseID, s.settings.LowStockThreshold, s.now())
	row.AttributesSnapshot = product.AttributesFor(sku)
	if err := r.Stock.Create(ctx, row); err != nil {
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		s.log.Debug().Str("sku", sku.Key()).Msg("fila creada por otra transacción, se reintenta sobre la existente")
		row, err = r.Stock.GetForUpdate(ctx, sku, warehouseID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, domain.ErrConcurrencyConflict
		}
	}
	return row, nil
}

// ensureDefaultRow crea la fila del SKU en la bodega por defecto.
func (s *Service) ensureDefaultRow(ctx context.Context, r TxRepos, sku entity.SKU) (*entity.StockRow, error) {
	wh, err := s.defaultWarehouse(ctx, r)
	if err != nil {
		return nil, err
	}
	return s.ensureRow(ctx, r, sku, wh.ID)
}

func sumQuantities(rows []*entity.StockRow) int {
	total := 0
	for _, row := range rows {
		total += row.Quantity
	}
	return total
}
