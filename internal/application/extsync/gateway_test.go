package extsync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/extsync"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakeClient struct {
	mu       sync.Mutex
	pushed   [][]extsync.StockUpdate
	items    []extsync.ExternalItem
	pushErr  error
	fetchErr error
}

func (c *fakeClient) Push(ctx context.Context, updates []extsync.StockUpdate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pushed = append(c.pushed, updates)
	return c.pushErr
}

func (c *fakeClient) FetchItems(ctx context.Context) ([]extsync.ExternalItem, error) {
	return c.items, c.fetchErr
}

func (c *fakeClient) lastPush(t *testing.T) []extsync.StockUpdate {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.pushed)
	return c.pushed[len(c.pushed)-1]
}

var (
	mapped   = entity.LegacyKey{ProductID: "p-mapped"}
	unmapped = entity.LegacyKey{ProductID: "p-local"}
)

type fixture struct {
	store  *memory.Store
	svc    *inventory.Service
	client *fakeClient
	runs   *memory.SyncRunLog
	gw     *extsync.Gateway
}

func newFixture(t *testing.T, cfg extsync.Config) *fixture {
	t.Helper()
	store := memory.NewStore()
	store.PutWarehouse(&entity.Warehouse{ID: "wh-a", Code: "A", IsDefault: true})
	store.PutWarehouse(&entity.Warehouse{ID: "wh-b", Code: "B"})
	store.PutProduct(&entity.Product{ID: "p-mapped", Name: "Gorra", ExternalItemID: "ext-1", ExternalBarcode: "770001"})
	store.PutProduct(&entity.Product{ID: "p-local", Name: "Bolso"})

	svc := inventory.NewService(store, store.Repos().Stock, nil, inventory.DefaultSettings(), zerolog.Nop())
	client := &fakeClient{}
	runs := &memory.SyncRunLog{}
	repos := store.Repos()
	gw := extsync.NewGateway(client, repos.Products, repos.Stock, svc, runs, cfg, zerolog.Nop())
	return &fixture{store: store, svc: svc, client: client, runs: runs, gw: gw}
}

func (f *fixture) seed(id string, sku entity.SKU, wh string, qty int) {
	row := entity.NewStockRow(id, sku, wh, 5, time.Now())
	row.Quantity = qty
	f.store.PutRow(row)
}

func (f *fixture) total(t *testing.T, sku entity.SKU) int {
	t.Helper()
	rows, err := f.store.Repos().Stock.ListBySKU(context.Background(), sku)
	require.NoError(t, err)
	total := 0
	for _, r := range rows {
		total += r.Quantity
	}
	return total
}

// ──────────────────────────────────────────────────────────────────────────────
// Push
// ──────────────────────────────────────────────────────────────────────────────

func TestPush_Delta_OmiteSinMapeoYCeros(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorDelta})

	err := f.gw.Push(context.Background(), []inventory.StockChange{
		{SKU: mapped, Delta: -3},
		{SKU: unmapped, Delta: 2},
		{SKU: mapped, Delta: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, []extsync.StockUpdate{{ItemID: "ext-1", ItemCode: "770001", Quantity: -3}}, f.client.lastPush(t))
	runs := f.runs.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, entity.SyncDirectionPush, runs[0].Direction)
	assert.Equal(t, 1, runs[0].Items)
	assert.Equal(t, 1, runs[0].Skipped)
}

// En modo absoluto se envía la cantidad final re-leída, sin negativos.
func TestPush_Absoluto_CantidadFinal(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorAbsolute})
	f.seed("r1", mapped, "wh-a", 4)
	f.seed("r2", mapped, "wh-b", 3)

	require.NoError(t, f.gw.Push(context.Background(), []inventory.StockChange{{SKU: mapped, Delta: -1}}))
	assert.Equal(t, 7, f.client.lastPush(t)[0].Quantity)

	f.seed("r3", mapped, "wh-a", -20)
	require.NoError(t, f.gw.Push(context.Background(), []inventory.StockChange{{SKU: mapped, Delta: -1}}))
	assert.Equal(t, 0, f.client.lastPush(t)[0].Quantity)
}

func TestPush_ErrorExternoNoAfectaStockLocal(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorDelta})
	f.seed("r1", mapped, "wh-a", 4)
	f.client.pushErr = errors.New("timeout")

	err := f.gw.Push(context.Background(), []inventory.StockChange{{SKU: mapped, Delta: 1}})
	assert.ErrorIs(t, err, domain.ErrExternalSync)
	assert.Equal(t, 4, f.total(t, mapped))

	runs := f.runs.Runs()
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Contains(t, runs[0].Error, "timeout")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pull
// ──────────────────────────────────────────────────────────────────────────────

func TestPull_SobrescribeCantidadLocal(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorAbsolute})
	f.seed("r1", mapped, "wh-a", 4)
	f.client.items = []extsync.ExternalItem{
		{ItemID: "ext-1", ItemCode: "770001", Quantity: 9},
		{ItemID: "ext-desconocido", Quantity: 3},
	}

	run, err := f.gw.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, run.Items)
	assert.Equal(t, 1, run.Applied)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 9, f.total(t, mapped))

	for _, h := range f.store.History() {
		assert.Equal(t, entity.ReasonExternalSync, h.Reason)
		assert.Equal(t, "external-sync", h.Actor)
	}
}

func TestPull_CreaProductosAutomaticamente(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorDelta, AutoCreateItems: true})
	f.client.items = []extsync.ExternalItem{
		{ItemID: "ext-9", ItemCode: "779999", Name: "Medias Térmicas", Quantity: 12, Price: decimal.NewFromInt(15000)},
	}

	run, err := f.gw.Pull(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Created)
	assert.Equal(t, 1, run.Applied)

	sku, err := f.store.Repos().Products.FindByExternalRef(context.Background(), entity.ExternalRef{ItemID: "ext-9"})
	require.NoError(t, err)
	require.NotNil(t, sku)
	assert.Equal(t, 12, f.total(t, sku))

	p, err := f.store.Repos().Products.GetByID(context.Background(), sku.Product())
	require.NoError(t, err)
	assert.Equal(t, "Medias Térmicas", p.Name)
	assert.Contains(t, p.Slug, "medias-termicas-")
	assert.True(t, p.Price.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, 12, p.Stock)
}

func TestPull_ErrorDeLectura(t *testing.T) {
	f := newFixture(t, extsync.Config{})
	f.client.fetchErr = errors.New("503")

	run, err := f.gw.Pull(context.Background())
	assert.ErrorIs(t, err, domain.ErrExternalSync)
	require.NotNil(t, run)
	assert.Equal(t, "503", run.Error)
	assert.Len(t, f.runs.Runs(), 1)
}

// En modo absoluto, lo que se empuja y se vuelve a leer no cambia nada.
func TestPushPull_AbsolutoIdaYVueltaEsNoOp(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorAbsolute})
	f.seed("r1", mapped, "wh-a", 6)
	f.seed("r2", mapped, "wh-b", 2)
	ctx := context.Background()

	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{{SKU: mapped, Quantity: 3}}, "orden"))
	require.NoError(t, f.gw.Push(ctx, []inventory.StockChange{{SKU: mapped, Delta: -3}}))

	sent := f.client.lastPush(t)[0]
	require.Equal(t, 5, sent.Quantity)
	historyBefore := len(f.store.History())

	f.client.items = []extsync.ExternalItem{{ItemID: sent.ItemID, ItemCode: sent.ItemCode, Quantity: sent.Quantity}}
	run, err := f.gw.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, run.Applied)
	assert.Len(t, f.store.History(), historyBefore)
	assert.Equal(t, 5, f.total(t, mapped))
}

// El mapeo del producto solo direcciona el SKU sin talla ni color: una talla/color no se
// empuja con el ítem del producto y el pull no duplica su cantidad en otro SKU.
func TestPushPull_AbsolutoTallaColorNoDuplica(t *testing.T) {
	f := newFixture(t, extsync.Config{Flavor: extsync.FlavorAbsolute})
	sized := entity.LegacyKey{ProductID: "p-mapped", Size: "M", Color: "rojo"}
	f.seed("r-plain", mapped, "wh-a", 10)
	f.seed("r-sized", sized, "wh-a", 10)
	ctx := context.Background()

	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{{SKU: sized, Quantity: 1}}, "orden"))
	require.NoError(t, f.gw.Push(ctx, []inventory.StockChange{{SKU: sized, Delta: -1}}))
	assert.Empty(t, f.client.pushed)

	require.NoError(t, f.svc.Reserve(ctx, []inventory.ItemRequest{{SKU: mapped, Quantity: 1}}, "orden"))
	require.NoError(t, f.gw.Push(ctx, []inventory.StockChange{{SKU: mapped, Delta: -1}}))
	sent := f.client.lastPush(t)
	require.Len(t, sent, 1)
	require.Equal(t, 9, sent[0].Quantity)

	f.client.items = []extsync.ExternalItem{{ItemID: sent[0].ItemID, ItemCode: sent[0].ItemCode, Quantity: sent[0].Quantity}}
	run, err := f.gw.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, run.Applied)
	assert.Equal(t, 9, f.total(t, mapped))
	assert.Equal(t, 9, f.total(t, sized))

	p, err := f.store.Repos().Products.GetByID(ctx, "p-mapped")
	require.NoError(t, err)
	assert.Equal(t, 18, p.Stock)
}

func TestParseFlavor(t *testing.T) {
	fl, err := extsync.ParseFlavor("")
	require.NoError(t, err)
	assert.Equal(t, extsync.FlavorDelta, fl)

	fl, err = extsync.ParseFlavor(" Absolute ")
	require.NoError(t, err)
	assert.Equal(t, extsync.FlavorAbsolute, fl)

	_, err = extsync.ParseFlavor("mixto")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
