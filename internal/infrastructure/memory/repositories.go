package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// HistoryRepository historial de solo inserción.
type HistoryRepository struct {
	s    *Store
	inTx bool
}

func (r *HistoryRepository) Append(ctx context.Context, entry *entity.HistoryEntry) error {
	cp := *entry
	r.s.with(r.inTx, func(st *state) { st.history = append(st.history, &cp) })
	return nil
}

// MovementRepository traslados entre bodegas.
type MovementRepository struct {
	s    *Store
	inTx bool
}

func (r *MovementRepository) Create(ctx context.Context, m *entity.WarehouseMovement) error {
	cp := *m
	r.s.with(r.inTx, func(st *state) { st.movements = append(st.movements, &cp) })
	return nil
}

// ProductRepository catálogo en memoria.
type ProductRepository struct {
	s    *Store
	inTx bool
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.with(r.inTx, func(st *state) {
		if p, ok := st.products[id]; ok {
			out = copyProduct(p)
		}
	})
	return out, nil
}

// GetForUpdate no necesita bloqueo propio: las transacciones en memoria ya se serializan.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) FindByExternalRef(ctx context.Context, ref entity.ExternalRef) (entity.SKU, error) {
	if ref.IsZero() {
		return nil, nil
	}
	matches := func(itemID, barcode string) bool {
		return (ref.ItemID != "" && itemID == ref.ItemID) || (ref.Barcode != "" && barcode == ref.Barcode)
	}
	var out entity.SKU
	r.s.with(r.inTx, func(st *state) {
		ids := make([]string, 0, len(st.products))
		for id := range st.products {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			p := st.products[id]
			for _, v := range p.Variants {
				if matches(v.ExternalItemID, v.ExternalBarcode) {
					out = entity.VariantKey{ProductID: p.ID, VariantID: v.ID}
					return
				}
			}
			if matches(p.ExternalItemID, p.ExternalBarcode) {
				out = entity.LegacyKey{ProductID: p.ID}
				return
			}
		}
	})
	return out, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		if _, ok := st.products[p.ID]; ok {
			err = domain.ErrDuplicate
			return
		}
		st.products[p.ID] = copyProduct(p)
	})
	return err
}

func (r *ProductRepository) UpdateStock(ctx context.Context, productID string, stock int, variantStocks map[string]int) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		p, ok := st.products[productID]
		if !ok {
			err = domain.ErrNotFound
			return
		}
		p.Stock = stock
		for i := range p.Variants {
			if q, ok := variantStocks[p.Variants[i].ID]; ok {
				p.Variants[i].Stock = q
			}
		}
		p.UpdatedAt = time.Now()
	})
	return err
}

// WarehouseRepository registro de bodegas en memoria.
type WarehouseRepository struct {
	s    *Store
	inTx bool
}

var _ repository.WarehouseRepository = (*WarehouseRepository)(nil)

func (r *WarehouseRepository) Create(ctx context.Context, w *entity.Warehouse) error {
	var err error
	r.s.with(r.inTx, func(st *state) {
		for _, existing := range st.warehouses {
			if existing.Code == w.Code || (w.IsDefault && existing.IsDefault) {
				err = domain.ErrDuplicate
				return
			}
		}
		cp := *w
		st.warehouses[w.ID] = &cp
	})
	return err
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.s.with(r.inTx, func(st *state) {
		if w, ok := st.warehouses[id]; ok {
			cp := *w
			out = &cp
		}
	})
	return out, nil
}

func (r *WarehouseRepository) GetDefault(ctx context.Context) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	r.s.with(r.inTx, func(st *state) {
		for _, w := range st.warehouses {
			if w.IsDefault {
				cp := *w
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *WarehouseRepository) List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var out []*entity.Warehouse
	r.s.with(r.inTx, func(st *state) {
		for _, w := range st.warehouses {
			cp := *w
			out = append(out, &cp)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return page(out, limit, offset), nil
}

// AlertInbox bandeja de alertas en memoria (desarrollo sin MongoDB).
type AlertInbox struct {
	mu     sync.Mutex
	alerts []entity.StockAlert
}

func (a *AlertInbox) SaveAll(ctx context.Context, alerts []entity.StockAlert) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.alerts = append(a.alerts, alerts...)
	return nil
}

// Emit permite usar la bandeja como sink del emisor de alertas.
func (a *AlertInbox) Emit(ctx context.Context, alerts []entity.StockAlert) error {
	return a.SaveAll(ctx, alerts)
}

// Alerts copia de las alertas recibidas.
func (a *AlertInbox) Alerts() []entity.StockAlert {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]entity.StockAlert(nil), a.alerts...)
}

// SyncRunLog bitácora de sincronización en memoria.
type SyncRunLog struct {
	mu   sync.Mutex
	runs []entity.SyncRun
}

func (l *SyncRunLog) Save(ctx context.Context, run *entity.SyncRun) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, *run)
	return nil
}

// Runs copia de las ejecuciones registradas.
func (l *SyncRunLog) Runs() []entity.SyncRun {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entity.SyncRun(nil), l.runs...)
}
