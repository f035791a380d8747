package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

const reasonTransfer = "warehouse transfer"

// TransferInput datos de un traslado entre bodegas.
type TransferInput struct {
	SKU             entity.SKU
	Quantity        int
	FromWarehouseID string
	ToWarehouseID   string
	Actor           string
	Reason          string
}

// TransferResult estado de ambas filas después del traslado.
type TransferResult struct {
	Movement    *entity.WarehouseMovement
	Source      *entity.StockRow
	Destination *entity.StockRow
}

// Move traslada unidades de un SKU entre dos bodegas en una sola transacción.
// El origen nunca queda negativo; la fila destino se crea si no existe.
func (s *Service) Move(ctx context.Context, in TransferInput) (*TransferResult, error) {
	res, err := s.move(ctx, in)
	s.observe(OpTransfer, err)
	return res, err
}

func (s *Service) move(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.SKU == nil || in.Quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := in.SKU.Validate(); err != nil {
		return nil, err
	}
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.ErrInvalidInput
	}
	actor := actorOrSystem(in.Actor)
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = reasonTransfer
	}

	var (
		out    *mutationOutcome
		result *TransferResult
	)
	err := s.tx.Run(ctx, func(r TxRepos) error {
		out = newOutcome()
		product, err := s.loadProduct(ctx, r, map[string]*entity.Product{}, in.SKU)
		if err != nil {
			return err
		}
		for _, id := range []string{in.FromWarehouseID, in.ToWarehouseID} {
			wh, err := r.Warehouses.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if wh == nil {
				return domain.ErrNotFound
			}
		}

		// Bloquea todas las filas del SKU de una vez; el orden lo fija el repositorio.
		rows, err := s.lockRows(ctx, r, in.SKU, actor, out)
		if err != nil {
			return err
		}
		var source, dest *entity.StockRow
		for _, row := range rows {
			switch row.WarehouseID {
			case in.FromWarehouseID:
				source = row
			case in.ToWarehouseID:
				dest = row
			}
		}
		if source == nil {
			return domain.ErrNotFound
		}
		if source.Quantity < in.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.DisplayName(in.SKU),
				SKU:         in.SKU.Key(),
				Available:   max(source.Quantity, 0),
				Requested:   in.Quantity,
			}
		}
		if dest == nil {
			if dest, err = s.ensureRow(ctx, r, in.SKU, in.ToWarehouseID); err != nil {
				return err
			}
		}

		src, err := r.Stock.ApplyDelta(ctx, source.ID, -in.Quantity, false)
		if err != nil {
			return err
		}
		dst, err := r.Stock.ApplyDelta(ctx, dest.ID, in.Quantity, true)
		if err != nil {
			return err
		}

		productID, variantID, size, color := entity.SKUFields(in.SKU)
		movement := &entity.WarehouseMovement{
			ID:              uuid.New().String(),
			ProductID:       productID,
			VariantID:       variantID,
			Size:            size,
			Color:           color,
			Quantity:        in.Quantity,
			FromWarehouseID: in.FromWarehouseID,
			ToWarehouseID:   in.ToWarehouseID,
			Actor:           actor,
			Reason:          reason,
			CreatedAt:       s.now(),
		}
		if err := r.Movements.Create(ctx, movement); err != nil {
			return err
		}
		out.touch(src)
		out.touch(dst)
		result = &TransferResult{Movement: movement, Source: src, Destination: dst}
		return s.recomputeAll(ctx, r, out.productIDs())
	})
	if err != nil {
		return nil, err
	}
	// El total del SKU no cambia: no hay nada que empujar al inventario externo.
	s.afterCommit(ctx, out, false)
	return result, nil
}
