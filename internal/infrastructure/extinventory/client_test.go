package extinventory_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/extsync"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/extinventory"
)

// ── Delta ─────────────────────────────────────────────────────────────────────

func TestDeltaClient_PushFormato(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stock/deltas", r.URL.Path)
		assert.Equal(t, "Bearer secreto", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := extinventory.NewDeltaClient(extinventory.Options{BaseURL: srv.URL, APIKey: "secreto"}, zerolog.Nop())
	err := c.Push(context.Background(), []extsync.StockUpdate{
		{ItemCode: "C-1", Quantity: -3},
		{ItemID: "sin-codigo", Quantity: 2},
		{ItemCode: "C-2", Quantity: 5},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C-1", got[0]["ItemCode"])
	assert.EqualValues(t, -3, got[0]["Quantity"])
	assert.Equal(t, "C-2", got[1]["ItemCode"])
}

func TestDeltaClient_FetchItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items", r.URL.Path)
		_, _ = w.Write([]byte(`[{"ItemId":"i1","ItemCode":"C-1","Name":"Camisa","Quantity":7,"Price":"35000.50"}]`))
	}))
	defer srv.Close()

	c := extinventory.NewDeltaClient(extinventory.Options{BaseURL: srv.URL}, zerolog.Nop())
	items, err := c.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "C-1", items[0].ItemCode)
	assert.Equal(t, 7, items[0].Quantity)
	assert.Equal(t, "35000.5", items[0].Price.String())
}

// ── Absolute ──────────────────────────────────────────────────────────────────

func TestAbsoluteClient_PushPorCodigoConRespaldoPorID(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	}))
	defer srv.Close()

	c := extinventory.NewAbsoluteClient(extinventory.Options{BaseURL: srv.URL}, extinventory.PreferItemCode, zerolog.Nop())
	err := c.Push(context.Background(), []extsync.StockUpdate{
		{ItemCode: "C-1", ItemID: "i1", Quantity: 4},
		{ItemID: "i2", Quantity: -2},
		{Quantity: 9},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "C-1", got[0]["item_code"])
	assert.NotContains(t, got[0], "item_id")
	assert.EqualValues(t, 4, got[0]["item_inventory"])
	assert.Equal(t, "i2", got[1]["item_id"])
	assert.EqualValues(t, 0, got[1]["item_inventory"], "la cantidad absoluta nunca es negativa")
}

func TestAbsoluteClient_PrefiereID(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
	}))
	defer srv.Close()

	c := extinventory.NewAbsoluteClient(extinventory.Options{BaseURL: srv.URL}, extinventory.PreferItemID, zerolog.Nop())
	require.NoError(t, c.Push(context.Background(), []extsync.StockUpdate{{ItemCode: "C-1", ItemID: "i1", Quantity: 3}}))
	require.Len(t, got, 1)
	assert.Equal(t, "i1", got[0]["item_id"])
	assert.NotContains(t, got[0], "item_code")
}

func TestAbsoluteClient_FetchItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/inventory/items", r.URL.Path)
		_, _ = w.Write([]byte(`[{"item_id":"i1","item_code":"C-1","item_name":"Jean","item_inventory":12,"item_price":89900}]`))
	}))
	defer srv.Close()

	c := extinventory.NewAbsoluteClient(extinventory.Options{BaseURL: srv.URL}, "", zerolog.Nop())
	items, err := c.FetchItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Jean", items[0].Name)
	assert.Equal(t, 12, items[0].Quantity)
	assert.Equal(t, "89900", items[0].Price.String())
}

// ── Errores y circuit breaker ─────────────────────────────────────────────────

func TestTransport_ErrorHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "item desconocido", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := extinventory.NewDeltaClient(extinventory.Options{BaseURL: srv.URL}, zerolog.Nop())
	err := c.Push(context.Background(), []extsync.StockUpdate{{ItemCode: "X", Quantity: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestTransport_CircuitoAbreTrasFallosConsecutivos(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := extinventory.NewDeltaClient(extinventory.Options{BaseURL: srv.URL}, zerolog.Nop())
	for i := 0; i < 5; i++ {
		_, err := c.FetchItems(context.Background())
		require.Error(t, err)
	}
	_, err := c.FetchItems(context.Background())
	require.ErrorIs(t, err, domain.ErrExternalSync)
	assert.EqualValues(t, 5, calls.Load(), "con el circuito abierto no se llama al servicio")
}

func TestTransport_Los4xxNoAbrenCircuito(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := extinventory.NewDeltaClient(extinventory.Options{BaseURL: srv.URL}, zerolog.Nop())
	for i := 0; i < 7; i++ {
		_, _ = c.FetchItems(context.Background())
	}
	assert.EqualValues(t, 7, calls.Load())
}
