package extinventory

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/extsync"
)

var _ extsync.Client = (*DeltaClient)(nil)

const (
	deltaStockPath = "/stock/deltas"
	deltaItemsPath = "/items"
)

type deltaLine struct {
	ItemCode string `json:"ItemCode"`
	Quantity int    `json:"Quantity"`
}

type deltaItem struct {
	ItemID   string          `json:"ItemId"`
	ItemCode string          `json:"ItemCode"`
	Name     string          `json:"Name"`
	Quantity int             `json:"Quantity"`
	Price    decimal.Decimal `json:"Price"`
}

// DeltaClient envía incrementos con signo identificados por código de item.
type DeltaClient struct {
	t *transport
}

func NewDeltaClient(opts Options, log zerolog.Logger) *DeltaClient {
	return &DeltaClient{t: newTransport("extinventory-delta", opts, log)}
}

// Push envía el lote. Las líneas sin código se omiten: el servicio delta no acepta item_id.
func (c *DeltaClient) Push(ctx context.Context, updates []extsync.StockUpdate) error {
	lines := make([]deltaLine, 0, len(updates))
	for _, u := range updates {
		if u.ItemCode == "" {
			continue
		}
		lines = append(lines, deltaLine{ItemCode: u.ItemCode, Quantity: u.Quantity})
	}
	if len(lines) == 0 {
		return nil
	}
	return c.t.do(ctx, http.MethodPost, deltaStockPath, lines, nil)
}

func (c *DeltaClient) FetchItems(ctx context.Context) ([]extsync.ExternalItem, error) {
	var raw []deltaItem
	if err := c.t.do(ctx, http.MethodGet, deltaItemsPath, nil, &raw); err != nil {
		return nil, err
	}
	items := make([]extsync.ExternalItem, 0, len(raw))
	for _, it := range raw {
		items = append(items, extsync.ExternalItem{
			ItemID:   it.ItemID,
			ItemCode: it.ItemCode,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return items, nil
}
