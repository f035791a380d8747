// Package memory implementa los puertos del inventario en memoria: desarrollo local y pruebas.
// Las transacciones se serializan con un mutex y se revierten restaurando una copia del estado.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

type state struct {
	rows       map[string]*entity.StockRow
	history    []*entity.HistoryEntry
	movements  []*entity.WarehouseMovement
	products   map[string]*entity.Product
	warehouses map[string]*entity.Warehouse
}

func newState() *state {
	return &state{
		rows:       make(map[string]*entity.StockRow),
		products:   make(map[string]*entity.Product),
		warehouses: make(map[string]*entity.Warehouse),
	}
}

func (st *state) clone() *state {
	cp := newState()
	for id, r := range st.rows {
		cp.rows[id] = copyRow(r)
	}
	cp.history = append(cp.history, st.history...)
	cp.movements = append(cp.movements, st.movements...)
	for id, p := range st.products {
		cp.products[id] = copyProduct(p)
	}
	for id, w := range st.warehouses {
		c := *w
		cp.warehouses[id] = &c
	}
	return cp
}

// Store estado compartido del inventario en memoria.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run implementa inventory.TxRunner. Si fn falla el estado vuelve a la copia previa.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repos(true)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// Repos devuelve repositorios que bloquean el store en cada llamada (uso fuera de transacción).
func (s *Store) Repos() inventory.TxRepos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) inventory.TxRepos {
	return inventory.TxRepos{
		Stock:      &StockRepository{s: s, inTx: inTx},
		History:    &HistoryRepository{s: s, inTx: inTx},
		Movements:  &MovementRepository{s: s, inTx: inTx},
		Products:   &ProductRepository{s: s, inTx: inTx},
		Warehouses: &WarehouseRepository{s: s, inTx: inTx},
	}
}

// with ejecuta fn con el estado; toma el mutex salvo dentro de Run, que ya lo tiene.
func (s *Store) with(inTx bool, fn func(st *state)) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn(s.st)
}

// History copia del historial (pruebas).
func (s *Store) History() []entity.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.HistoryEntry, 0, len(s.st.history))
	for _, h := range s.st.history {
		out = append(out, *h)
	}
	return out
}

// Movements copia de los traslados (pruebas).
func (s *Store) Movements() []entity.WarehouseMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.WarehouseMovement, 0, len(s.st.movements))
	for _, m := range s.st.movements {
		out = append(out, *m)
	}
	return out
}

// PutRow inserta una fila tal cual, sin validar unicidad (semillas de prueba, datos legados).
func (s *Store) PutRow(row *entity.StockRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := copyRow(row)
	if cp.Status == "" {
		cp.RefreshStatus()
	}
	s.st.rows[cp.ID] = cp
}

// PutProduct inserta o reemplaza un producto.
func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = copyProduct(p)
}

// PutWarehouse inserta o reemplaza una bodega.
func (s *Store) PutWarehouse(w *entity.Warehouse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *w
	s.st.warehouses[w.ID] = &cp
}

func copyRow(r *entity.StockRow) *entity.StockRow {
	cp := *r
	if r.MaxQuantity != nil {
		m := *r.MaxQuantity
		cp.MaxQuantity = &m
	}
	return &cp
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Variants = append([]entity.Variant(nil), p.Variants...)
	return &cp
}
