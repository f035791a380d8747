package extinventory

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/extsync"
)

var _ extsync.Client = (*AbsoluteClient)(nil)

const (
	absoluteInventoryPath = "/inventory"
	absoluteItemsPath     = "/inventory/items"

	PreferItemCode = "item_code"
	PreferItemID   = "item_id"
)

type absoluteLine struct {
	ItemCode      string `json:"item_code,omitempty"`
	ItemID        string `json:"item_id,omitempty"`
	ItemInventory int    `json:"item_inventory"`
}

type absoluteItem struct {
	ItemID        string          `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	ItemInventory int             `json:"item_inventory"`
	ItemPrice     decimal.Decimal `json:"item_price"`
}

// AbsoluteClient envía la cantidad final de cada item, identificado por el id preferido.
type AbsoluteClient struct {
	t         *transport
	preferred string
}

// NewAbsoluteClient preferred es item_code (por defecto) o item_id.
func NewAbsoluteClient(opts Options, preferred string, log zerolog.Logger) *AbsoluteClient {
	if preferred != PreferItemID {
		preferred = PreferItemCode
	}
	return &AbsoluteClient{t: newTransport("extinventory-absolute", opts, log), preferred: preferred}
}

func (c *AbsoluteClient) Push(ctx context.Context, updates []extsync.StockUpdate) error {
	lines := make([]absoluteLine, 0, len(updates))
	for _, u := range updates {
		line, ok := c.keyed(u)
		if !ok {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}
	return c.t.do(ctx, http.MethodPost, absoluteInventoryPath, lines, nil)
}

// keyed usa el identificador preferido y cae al otro si falta.
func (c *AbsoluteClient) keyed(u extsync.StockUpdate) (absoluteLine, bool) {
	qty := max(u.Quantity, 0)
	first, second := u.ItemCode, u.ItemID
	if c.preferred == PreferItemID {
		first, second = u.ItemID, u.ItemCode
	}
	id := first
	usePreferred := true
	if id == "" {
		id, usePreferred = second, false
	}
	if id == "" {
		return absoluteLine{}, false
	}
	byCode := (c.preferred == PreferItemCode) == usePreferred
	if byCode {
		return absoluteLine{ItemCode: id, ItemInventory: qty}, true
	}
	return absoluteLine{ItemID: id, ItemInventory: qty}, true
}

func (c *AbsoluteClient) FetchItems(ctx context.Context) ([]extsync.ExternalItem, error) {
	var raw []absoluteItem
	if err := c.t.do(ctx, http.MethodGet, absoluteItemsPath, nil, &raw); err != nil {
		return nil, err
	}
	items := make([]extsync.ExternalItem, 0, len(raw))
	for _, it := range raw {
		items = append(items, extsync.ExternalItem{
			ItemID:   it.ItemID,
			ItemCode: it.ItemCode,
			Name:     it.ItemName,
			Quantity: it.ItemInventory,
			Price:    it.ItemPrice,
		})
	}
	return items, nil
}
