package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	whA = "wh-a" // bodega por defecto
	whB = "wh-b"
)

var (
	simple  = entity.LegacyKey{ProductID: "p-simple"}
	variant = entity.VariantKey{ProductID: "p-var", VariantID: "v-rojo"}
	t0      = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

type recordingNotifier struct {
	mu      sync.Mutex
	batches [][]inventory.StockChange
}

func (n *recordingNotifier) Notify(changes []inventory.StockChange) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.batches = append(n.batches, changes)
}

func (n *recordingNotifier) all() []inventory.StockChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []inventory.StockChange
	for _, b := range n.batches {
		out = append(out, b...)
	}
	return out
}

type fixture struct {
	store    *memory.Store
	svc      *inventory.Service
	inbox    *memory.AlertInbox
	notifier *recordingNotifier
}

func newFixture(t *testing.T, settings inventory.Settings) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutWarehouse(&entity.Warehouse{ID: whA, Code: "A", Name: "Bodega A", IsDefault: true})
	store.PutWarehouse(&entity.Warehouse{ID: whB, Code: "B", Name: "Bodega B"})
	store.PutProduct(&entity.Product{ID: "p-simple", Name: "Camiseta básica"})
	store.PutProduct(&entity.Product{
		ID:   "p-var",
		Name: "Buzo",
		Variants: []entity.Variant{
			{ID: "v-rojo", ProductID: "p-var", Name: "Rojo M", Attributes: json.RawMessage(`{"color":"rojo","talla":"M"}`)},
			{ID: "v-azul", ProductID: "p-var", Name: "Azul L"},
		},
	})

	inbox := &memory.AlertInbox{}
	notifier := &recordingNotifier{}
	svc := inventory.NewService(store, store.Repos().Stock, inventory.NewAlertEmitter(settings.CriticalThreshold, zerolog.Nop(), inbox), settings, zerolog.Nop())
	svc.SetChangeNotifier(notifier)
	return &fixture{store: store, svc: svc, inbox: inbox, notifier: notifier}
}

func (f *fixture) seed(id string, sku entity.SKU, warehouseID string, qty int) {
	row := entity.NewStockRow(id, sku, warehouseID, entity.DefaultLowStockThreshold, t0)
	row.Quantity = qty
	row.RefreshStatus()
	f.store.PutRow(row)
}

func (f *fixture) quantities(t *testing.T, sku entity.SKU) map[string]int {
	t.Helper()
	rows, err := f.store.Repos().Stock.ListBySKUForUpdate(context.Background(), sku)
	require.NoError(t, err)
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.WarehouseID] += r.Quantity
	}
	return out
}

func (f *fixture) product(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func item(sku entity.SKU, qty int) inventory.ItemRequest {
	return inventory.ItemRequest{SKU: sku, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Reserve
// ──────────────────────────────────────────────────────────────────────────────

// Filas {5, 3} y reserva de 6: se vacía la mayor primero → {0, 2}.
func TestReserve_DescuentaMayorPrimero(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 5)
	f.seed("r2", simple, whB, 3)

	err := f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 6)}, "orden-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]int{whA: 0, whB: 2}, f.quantities(t, simple))
	assert.Equal(t, 2, f.product(t, "p-simple").Stock)

	history := f.store.History()
	require.Len(t, history, 2)
	for _, h := range history {
		assert.Equal(t, entity.HistoryTypeDecrease, h.Type)
		assert.Equal(t, entity.ReasonOrderReservation, h.Reason)
		assert.Equal(t, "orden-1", h.Actor)
		assert.Equal(t, h.AfterQuantity-h.BeforeQuantity, h.Delta)
	}

	changes := f.notifier.all()
	require.Len(t, changes, 1)
	assert.Equal(t, -6, changes[0].Delta)
}

// Un SKU sin stock suficiente aborta todo el lote sin dejar cambios.
func TestReserve_TodoONada(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 2)
	f.seed("r2", variant, whA, 10)

	err := f.svc.Reserve(context.Background(), []inventory.ItemRequest{
		item(variant, 5),
		item(simple, 3),
	}, "orden-2")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, "Camiseta básica", insufficient.ProductName)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)

	assert.Equal(t, map[string]int{whA: 2}, f.quantities(t, simple))
	assert.Equal(t, map[string]int{whA: 10}, f.quantities(t, variant))
	assert.Empty(t, f.store.History())
	assert.Empty(t, f.notifier.all())
}

// Líneas repetidas del mismo SKU se suman antes de verificar disponibilidad.
func TestReserve_AgrupaLineasRepetidas(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 4)

	err := f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 3), item(simple, 2)}, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, map[string]int{whA: 4}, f.quantities(t, simple))
}

// N reservas concurrentes sobre una fila con N-1 unidades: exactamente una falla.
func TestReserve_SinSobreventaConcurrente(t *testing.T) {
	const n = 10
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, n-1)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 1)}, "")
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
				fail++
				return
			}
			ok++
		}()
	}
	wg.Wait()

	assert.Equal(t, n-1, ok)
	assert.Equal(t, 1, fail)
	assert.Equal(t, map[string]int{whA: 0}, f.quantities(t, simple))
}

// Con stock negativo permitido la fila mayor toma todo lo pedido, aunque quede negativa.
func TestReserve_NegativoPermitido_TodoEnFilaMayor(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.AllowNegativeStock = true
	f := newFixture(t, settings)
	f.seed("r1", simple, whA, 5)
	f.seed("r2", simple, whB, 3)

	require.NoError(t, f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 6)}, ""))

	assert.Equal(t, map[string]int{whA: -1, whB: 3}, f.quantities(t, simple))
	assert.Equal(t, 2, f.product(t, "p-simple").Stock)
	history := f.store.History()
	require.Len(t, history, 1)
	assert.Equal(t, -6, history[0].Delta)
}

// La misma reserva sin negativos reparte de mayor a menor y no deja filas negativas.
func TestReserve_MismaReservaSinNegativos(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 5)
	f.seed("r2", simple, whB, 3)

	require.NoError(t, f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 6)}, ""))

	assert.Equal(t, map[string]int{whA: 0, whB: 2}, f.quantities(t, simple))
	assert.Len(t, f.store.History(), 2)
}

// Sin filas y con negativo permitido se crea la fila en la bodega por defecto.
func TestReserve_NegativoPermitido_SinFilas(t *testing.T) {
	settings := inventory.DefaultSettings()
	settings.AllowNegativeStock = true
	f := newFixture(t, settings)

	require.NoError(t, f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(variant, 3)}, ""))

	assert.Equal(t, map[string]int{whA: -3}, f.quantities(t, variant))
	p := f.product(t, "p-var")
	assert.Equal(t, -3, p.Variant("v-rojo").Stock)
	assert.Equal(t, -3, p.Stock)
}

func TestReserve_EntradaInvalida(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Reserve(ctx, nil, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(simple, 0)}, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(entity.VariantKey{ProductID: "p-var"}, 1)}, ""), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(entity.LegacyKey{ProductID: "nope"}, 1)}, ""), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(entity.VariantKey{ProductID: "p-var", VariantID: "nope"}, 1)}, ""), domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Increment
// ──────────────────────────────────────────────────────────────────────────────

// Orden ascendente: las filas con capacidad se llenan y el resto va a la primera sin límite.
func TestIncrement_AscendenteConCapacidad(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	capped := entity.NewStockRow("r1", simple, whA, 5, t0)
	capped.Quantity = 1
	capacity := 3
	capped.MaxQuantity = &capacity
	f.store.PutRow(capped)
	f.seed("r2", simple, whB, 4)

	require.NoError(t, f.svc.Increment(context.Background(), []inventory.ItemRequest{item(simple, 5)}, "admin", "devolución"))

	assert.Equal(t, map[string]int{whA: 3, whB: 7}, f.quantities(t, simple))
	for _, h := range f.store.History() {
		assert.Equal(t, entity.HistoryTypeIncrease, h.Type)
		assert.Equal(t, "devolución", h.Reason)
	}
	changes := f.notifier.all()
	require.Len(t, changes, 1)
	assert.Equal(t, 5, changes[0].Delta)
}

// Sin filas la primera entrada crea la fila y, si hace falta, la bodega por defecto.
func TestIncrement_CreaBodegaPorDefecto(t *testing.T) {
	store := memory.NewStore()
	store.PutProduct(&entity.Product{ID: "p-simple", Name: "Camiseta básica"})
	svc := inventory.NewService(store, store.Repos().Stock, nil, inventory.DefaultSettings(), zerolog.Nop())

	require.NoError(t, svc.Increment(context.Background(), []inventory.ItemRequest{item(simple, 7)}, "", "compra"))

	wh, err := store.Repos().Warehouses.GetDefault(context.Background())
	require.NoError(t, err)
	require.NotNil(t, wh)
	assert.Equal(t, "DEFAULT", wh.Code)

	rows, err := svc.QueryStock(context.Background(), repository.StockFilter{ProductID: "p-simple"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, wh.ID, rows[0].WarehouseID)
	assert.Equal(t, 7, rows[0].Quantity)
	assert.Equal(t, entity.StockStatusInStock, rows[0].Status)
}

// La fila creada al primer ingreso guarda la copia de los atributos del SKU.
func TestIncrement_FilaNuevaCopiaAtributos(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	sized := entity.LegacyKey{ProductID: "p-simple", Size: "M", Color: "negro"}
	ctx := context.Background()

	require.NoError(t, f.svc.Increment(ctx, []inventory.ItemRequest{item(variant, 2), item(sized, 1), item(simple, 1)}, "", "compra"))

	snapshot := func(sku entity.SKU) string {
		rows, err := f.store.Repos().Stock.ListBySKU(ctx, sku)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		return string(rows[0].AttributesSnapshot)
	}
	assert.JSONEq(t, `{"color":"rojo","talla":"M"}`, snapshot(variant))
	assert.JSONEq(t, `{"size":"M","color":"negro"}`, snapshot(sized))
	assert.JSONEq(t, `{}`, snapshot(simple))
}

// ──────────────────────────────────────────────────────────────────────────────
// Recompute
// ──────────────────────────────────────────────────────────────────────────────

func TestRecompute_IgnoraFilasLegadasEnProductoConVariantes(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", variant, whA, 3)
	f.seed("r2", variant, whB, 2)
	f.seed("r3", entity.VariantKey{ProductID: "p-var", VariantID: "v-azul"}, whA, 4)
	f.seed("r4", entity.LegacyKey{ProductID: "p-var", Size: "M", Color: "rojo"}, whA, 7)

	ctx := context.Background()
	require.NoError(t, f.svc.Recompute(ctx, "p-var"))
	first := f.product(t, "p-var")
	assert.Equal(t, 5, first.Variant("v-rojo").Stock)
	assert.Equal(t, 4, first.Variant("v-azul").Stock)
	assert.Equal(t, 9, first.Stock)

	require.NoError(t, f.svc.Recompute(ctx, "p-var"))
	second := f.product(t, "p-var")
	assert.Equal(t, first.Stock, second.Stock)
	assert.Equal(t, first.Variants, second.Variants)
}

func TestRecompute_ProductoInexistente(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	assert.ErrorIs(t, f.svc.Recompute(context.Background(), "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, f.svc.Recompute(context.Background(), ""), domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Duplicados
// ──────────────────────────────────────────────────────────────────────────────

// Dos filas para el mismo SKU y bodega se fusionan en la más antigua antes de operar.
func TestReserve_FusionaFilasDuplicadas(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	older := entity.NewStockRow("r-old", simple, whA, 5, t0)
	older.Quantity = 2
	newer := entity.NewStockRow("r-new", simple, whA, 5, t0.Add(time.Hour))
	newer.Quantity = 3
	f.store.PutRow(older)
	f.store.PutRow(newer)

	require.NoError(t, f.svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 1)}, ""))

	rows, err := f.svc.QueryStock(context.Background(), repository.StockFilter{ProductID: "p-simple"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r-old", rows[0].ID)
	assert.Equal(t, 4, rows[0].Quantity)

	history := f.store.History()
	require.Len(t, history, 2)
	assert.Equal(t, entity.HistoryTypeUpdate, history[0].Type)
	assert.Equal(t, 5, history[0].AfterQuantity)
	assert.Equal(t, entity.HistoryTypeDecrease, history[1].Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestAlerts_UnEventoPorUmbralCruzado(t *testing.T) {
	emitter := inventory.NewAlertEmitter(5, zerolog.Nop())
	row := func(q, threshold int) *entity.StockRow {
		r := entity.NewStockRow("r", simple, whA, threshold, t0)
		r.Quantity = q
		return r
	}
	out, crit, low := entity.AlertLevelOutOfStock, entity.AlertLevelCritical, entity.AlertLevelLow

	assert.Equal(t, []string{out, crit, low}, emitter.Levels(row(0, 5)))
	assert.Equal(t, []string{out, crit, low}, emitter.Levels(row(-2, 5)))
	assert.Equal(t, []string{crit, low}, emitter.Levels(row(5, 10)))
	assert.Equal(t, []string{crit}, emitter.Levels(row(4, 3)))
	assert.Equal(t, []string{low}, emitter.Levels(row(8, 10)))
	assert.Empty(t, emitter.Levels(row(11, 10)))
}

// Cada mutación que deja la fila bajo umbral emite otra vez (por nivel, no por flanco).
func TestAlerts_EmitidasTrasReserva(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 10)
	ctx := context.Background()

	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(simple, 7)}, ""))
	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(simple, 1)}, ""))
	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{item(simple, 2)}, ""))

	levels := func(alerts []entity.StockAlert) []string {
		out := make([]string, 0, len(alerts))
		for _, a := range alerts {
			out = append(out, a.Level)
		}
		return out
	}
	alerts := f.inbox.Alerts()
	require.Len(t, alerts, 7)
	assert.Equal(t, []string{
		entity.AlertLevelCritical, entity.AlertLevelLow, // quedan 3
		entity.AlertLevelCritical, entity.AlertLevelLow, // quedan 2
		entity.AlertLevelOutOfStock, entity.AlertLevelCritical, entity.AlertLevelLow, // quedan 0
	}, levels(alerts))
	assert.Equal(t, 3, alerts[0].Quantity)
	assert.Equal(t, 5, alerts[0].Threshold)
	assert.Equal(t, 0, alerts[4].Threshold)
}

type failingSink struct{}

func (failingSink) Emit(context.Context, []entity.StockAlert) error {
	return errors.New("broker caído")
}

func TestAlerts_SinkFallidoNoAfectaLaReserva(t *testing.T) {
	store := memory.NewStore()
	store.PutWarehouse(&entity.Warehouse{ID: whA, Code: "A", IsDefault: true})
	store.PutProduct(&entity.Product{ID: "p-simple", Name: "Camiseta básica"})
	row := entity.NewStockRow("r1", simple, whA, 5, t0)
	row.Quantity = 1
	store.PutRow(row)
	svc := inventory.NewService(store, store.Repos().Stock, inventory.NewAlertEmitter(5, zerolog.Nop(), failingSink{}), inventory.DefaultSettings(), zerolog.Nop())

	require.NoError(t, svc.Reserve(context.Background(), []inventory.ItemRequest{item(simple, 1)}, ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust / sincronización externa
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_FijaCantidadYRegistraUpdate(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 4)
	ctx := context.Background()

	require.NoError(t, f.svc.Adjust(ctx, simple, whB, 6, "bodeguero", "conteo físico"))
	require.NoError(t, f.svc.Adjust(ctx, simple, whA, 1, "bodeguero", "conteo físico"))

	assert.Equal(t, map[string]int{whA: 1, whB: 6}, f.quantities(t, simple))
	assert.Equal(t, 7, f.product(t, "p-simple").Stock)
	history := f.store.History()
	require.Len(t, history, 2)
	assert.Equal(t, entity.HistoryTypeUpdate, history[1].Type)
	assert.Equal(t, -3, history[1].Delta)
	assert.Equal(t, 3, history[1].Quantity)

	assert.ErrorIs(t, f.svc.Adjust(ctx, simple, whA, -1, "", "x"), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.svc.Adjust(ctx, simple, "nope", 1, "", "x"), domain.ErrNotFound)
}

// La cantidad externa sobrescribe el total local; repetirla no escribe nada.
func TestApplyExternalQuantity(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 5)
	f.seed("r2", simple, whB, 3)
	ctx := context.Background()

	changed, err := f.svc.ApplyExternalQuantity(ctx, simple, 6, "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, map[string]int{whA: 3, whB: 3}, f.quantities(t, simple))
	for _, h := range f.store.History() {
		assert.Equal(t, entity.ReasonExternalSync, h.Reason)
	}
	written := len(f.store.History())

	changed, err = f.svc.ApplyExternalQuantity(ctx, simple, 6, "")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, f.store.History(), written)

	changed, err = f.svc.ApplyExternalQuantity(ctx, simple, 10, "")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 10, f.product(t, "p-simple").Stock)

	assert.Empty(t, f.notifier.all(), "la sincronización entrante no debe generar push")
}

// ──────────────────────────────────────────────────────────────────────────────
// Move
// ──────────────────────────────────────────────────────────────────────────────

func TestMove_ConservaTotalYCreaDestino(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", variant, whA, 5)

	res, err := f.svc.Move(context.Background(), inventory.TransferInput{
		SKU:             variant,
		Quantity:        3,
		FromWarehouseID: whA,
		ToWarehouseID:   whB,
		Actor:           "bodeguero",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Source.Quantity)
	assert.Equal(t, 3, res.Destination.Quantity)
	assert.Equal(t, map[string]int{whA: 2, whB: 3}, f.quantities(t, variant))
	assert.Equal(t, 5, f.product(t, "p-var").Stock)

	movements := f.store.Movements()
	require.Len(t, movements, 1)
	assert.Equal(t, 3, movements[0].Quantity)
	assert.Equal(t, "warehouse transfer", movements[0].Reason)
	assert.Empty(t, f.notifier.all())
}

func TestMove_Errores(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 2)
	ctx := context.Background()
	move := func(qty int, from, to string) error {
		_, err := f.svc.Move(ctx, inventory.TransferInput{SKU: simple, Quantity: qty, FromWarehouseID: from, ToWarehouseID: to})
		return err
	}

	err := move(3, whA, whB)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, move(1, whB, whA), domain.ErrNotFound, "sin fila en origen")
	assert.ErrorIs(t, move(1, whA, "nope"), domain.ErrNotFound)
	assert.ErrorIs(t, move(1, whA, whA), domain.ErrInvalidInput)
	assert.ErrorIs(t, move(0, whA, whB), domain.ErrInvalidInput)

	assert.Equal(t, map[string]int{whA: 2}, f.quantities(t, simple))
	assert.Empty(t, f.store.Movements())
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestQueries(t *testing.T) {
	f := newFixture(t, inventory.DefaultSettings())
	f.seed("r1", simple, whA, 2)
	f.seed("r2", simple, whB, 40)
	f.seed("r3", variant, whB, 0)
	ctx := context.Background()

	_, err := f.svc.QueryStock(ctx, repository.StockFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rows, err := f.svc.QueryStock(ctx, repository.StockFilter{WarehouseID: whB})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	low, err := f.svc.ListLowStock(ctx, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, 0, low[0].Quantity)

	low, err = f.svc.ListLowStock(ctx, whA, 10, 0)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "r1", low[0].ID)
}
