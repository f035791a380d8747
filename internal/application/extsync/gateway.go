// Package extsync sincroniza el libro de stock con el inventario externo (POS/ERP).
// Sale lo local (push tras cada mutación confirmada) y entra lo externo (pull periódico).
//
// Push y pull pueden oscilar si ambos lados modifican el mismo SKU entre dos ciclos:
// el pull sobrescribe el total local con el externo y el siguiente push local vuelve a
// enviar el valor propio. No se intenta resolver; el último en escribir gana.
package extsync

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/slug"
)

// Flavor estilo de sincronización del inventario externo.
type Flavor string

const (
	// FlavorDelta envía incrementos con signo.
	FlavorDelta Flavor = "delta"
	// FlavorAbsolute envía la cantidad final (re-leída después de la mutación).
	FlavorAbsolute Flavor = "absolute"
)

// ParseFlavor interpreta el valor de configuración; vacío equivale a delta.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToLower(strings.TrimSpace(s))) {
	case "", FlavorDelta:
		return FlavorDelta, nil
	case FlavorAbsolute:
		return FlavorAbsolute, nil
	}
	return "", fmt.Errorf("%w: flavor de sincronización %q", domain.ErrInvalidInput, s)
}

const syncActor = "external-sync"

// StockUpdate línea enviada al inventario externo. En delta Quantity es el incremento;
// en absoluto es la cantidad final (nunca negativa).
type StockUpdate struct {
	ItemID   string
	ItemCode string
	Quantity int
}

// ExternalItem item leído del inventario externo.
type ExternalItem struct {
	ItemID   string
	ItemCode string
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// Client transporte hacia el inventario externo. Una implementación por flavor.
type Client interface {
	Push(ctx context.Context, updates []StockUpdate) error
	FetchItems(ctx context.Context) ([]ExternalItem, error)
}

// QuantityApplier aplica la cantidad externa sobre el libro local.
type QuantityApplier interface {
	ApplyExternalQuantity(ctx context.Context, sku entity.SKU, qty int, actor string) (bool, error)
}

// Config banderas del gateway.
type Config struct {
	Flavor          Flavor
	AutoCreateItems bool
}

// Gateway orquesta push y pull. Los fallos externos se registran y nunca revierten el estado local.
type Gateway struct {
	client   Client
	products repository.ProductRepository
	stock    repository.StockRepository
	applier  QuantityApplier
	runs     repository.SyncRunRepository
	cfg      Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewGateway construye el gateway. runs puede ser nil si no se quiere bitácora.
func NewGateway(
	client Client,
	products repository.ProductRepository,
	stock repository.StockRepository,
	applier QuantityApplier,
	runs repository.SyncRunRepository,
	cfg Config,
	log zerolog.Logger,
) *Gateway {
	if cfg.Flavor == "" {
		cfg.Flavor = FlavorDelta
	}
	return &Gateway{
		client:   client,
		products: products,
		stock:    stock,
		applier:  applier,
		runs:     runs,
		cfg:      cfg,
		log:      log.With().Str("component", "extsync").Str("flavor", string(cfg.Flavor)).Logger(),
		now:      time.Now,
	}
}

// Flavor devuelve el estilo configurado.
func (g *Gateway) Flavor() Flavor {
	return g.cfg.Flavor
}

func (g *Gateway) newRun(direction string) *entity.SyncRun {
	return &entity.SyncRun{
		ID:        uuid.New().String(),
		Direction: direction,
		Flavor:    string(g.cfg.Flavor),
		StartedAt: g.now(),
	}
}

func (g *Gateway) finish(ctx context.Context, run *entity.SyncRun) {
	run.FinishedAt = g.now()
	if g.runs == nil {
		return
	}
	if err := g.runs.Save(ctx, run); err != nil {
		g.log.Warn().Err(err).Str("direction", run.Direction).Msg("no se pudo registrar la ejecución de sincronización")
	}
}

// Push envía los cambios confirmados. Los SKUs sin mapeo externo se omiten.
func (g *Gateway) Push(ctx context.Context, changes []inventory.StockChange) error {
	run := g.newRun(entity.SyncDirectionPush)
	defer g.finish(ctx, run)

	updates := make([]StockUpdate, 0, len(changes))
	products := make(map[string]*entity.Product)
	for _, ch := range changes {
		if g.cfg.Flavor == FlavorDelta && ch.Delta == 0 {
			continue
		}
		product, ok := products[ch.SKU.Product()]
		if !ok {
			var err error
			product, err = g.products.GetByID(ctx, ch.SKU.Product())
			if err != nil {
				run.Failed++
				g.log.Error().Err(err).Str("sku", ch.SKU.Key()).Msg("no se pudo leer el producto para push")
				continue
			}
			products[ch.SKU.Product()] = product
		}
		if product == nil {
			run.Skipped++
			continue
		}
		ref := product.ExternalRefFor(ch.SKU)
		if ref.IsZero() {
			run.Skipped++
			continue
		}

		update := StockUpdate{ItemID: ref.ItemID, ItemCode: ref.Barcode}
		switch g.cfg.Flavor {
		case FlavorAbsolute:
			rows, err := g.stock.ListBySKU(ctx, ch.SKU)
			if err != nil {
				run.Failed++
				g.log.Error().Err(err).Str("sku", ch.SKU.Key()).Msg("no se pudo re-leer la cantidad final")
				continue
			}
			total := 0
			for _, r := range rows {
				total += r.Quantity
			}
			update.Quantity = max(total, 0)
		default:
			update.Quantity = ch.Delta
		}
		updates = append(updates, update)
	}

	run.Items = len(updates)
	if len(updates) == 0 {
		return nil
	}
	if err := g.client.Push(ctx, updates); err != nil {
		run.Failed += len(updates)
		run.Error = err.Error()
		g.log.Error().Err(err).Int("items", len(updates)).Msg("push al inventario externo falló, se descarta")
		return fmt.Errorf("%w: %v", domain.ErrExternalSync, err)
	}
	run.Applied = len(updates)
	g.log.Debug().Int("items", len(updates)).Msg("push al inventario externo enviado")
	return nil
}

// Pull lee el inventario externo y sobrescribe las cantidades locales de los SKUs mapeados.
// Con AutoCreateItems crea productos para los items sin mapeo.
func (g *Gateway) Pull(ctx context.Context) (*entity.SyncRun, error) {
	run := g.newRun(entity.SyncDirectionPull)
	defer g.finish(ctx, run)

	items, err := g.client.FetchItems(ctx)
	if err != nil {
		run.Error = err.Error()
		g.log.Error().Err(err).Msg("no se pudo leer el inventario externo")
		return run, fmt.Errorf("%w: %v", domain.ErrExternalSync, err)
	}
	run.Items = len(items)

	for _, item := range items {
		ref := entity.ExternalRef{ItemID: item.ItemID, Barcode: item.ItemCode}
		if ref.IsZero() {
			run.Skipped++
			continue
		}
		sku, err := g.products.FindByExternalRef(ctx, ref)
		if err != nil {
			run.Failed++
			g.log.Error().Err(err).Str("item_id", item.ItemID).Msg("no se pudo resolver el mapeo externo")
			continue
		}
		if sku == nil {
			if !g.cfg.AutoCreateItems {
				run.Skipped++
				continue
			}
			if sku, err = g.createProduct(ctx, item); err != nil {
				run.Failed++
				g.log.Error().Err(err).Str("item_id", item.ItemID).Msg("no se pudo crear el producto externo")
				continue
			}
			run.Created++
		}

		changed, err := g.applier.ApplyExternalQuantity(ctx, sku, item.Quantity, syncActor)
		if err != nil {
			run.Failed++
			g.log.Error().Err(err).Str("sku", sku.Key()).Msg("no se pudo aplicar la cantidad externa")
			continue
		}
		if changed {
			run.Applied++
		}
	}

	g.log.Info().
		Int("items", run.Items).
		Int("applied", run.Applied).
		Int("created", run.Created).
		Int("skipped", run.Skipped).
		Int("failed", run.Failed).
		Msg("pull del inventario externo completado")
	return run, nil
}

func (g *Gateway) createProduct(ctx context.Context, item ExternalItem) (entity.SKU, error) {
	name := strings.TrimSpace(item.Name)
	if name == "" {
		name = firstNonEmpty(item.ItemCode, item.ItemID)
	}
	now := g.now()
	id := uuid.New().String()
	p := &entity.Product{
		ID:              id,
		Name:            name,
		Slug:            slug.Make(name) + "-" + id[:8],
		Price:           item.Price,
		ExternalItemID:  item.ItemID,
		ExternalBarcode: item.ItemCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := g.products.Create(ctx, p); err != nil {
		return nil, err
	}
	g.log.Info().Str("product_id", id).Str("item_id", item.ItemID).Msg("producto creado desde inventario externo")
	return entity.LegacyKey{ProductID: id}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
