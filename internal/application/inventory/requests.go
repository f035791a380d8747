package inventory

import (
	"context"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
)

// ItemsFromRequest adapta las líneas del request HTTP a ItemRequest.
func ItemsFromRequest(in []dto.StockItemRequest) []ItemRequest {
	items := make([]ItemRequest, 0, len(in))
	for _, it := range in {
		items = append(items, ItemRequest{
			SKU:      entity.NewSKU(it.ProductID, it.VariantID, it.Size, it.Color),
			Quantity: it.Quantity,
		})
	}
	return items
}

// ReserveFromRequest adapta el request HTTP a Reserve(ctx, items, actor).
func (s *Service) ReserveFromRequest(ctx context.Context, actor string, in dto.ReserveRequest) error {
	return s.Reserve(ctx, ItemsFromRequest(in.Items), actor)
}

// IncrementFromRequest adapta el request HTTP a Increment.
func (s *Service) IncrementFromRequest(ctx context.Context, actor string, in dto.IncrementRequest) error {
	return s.Increment(ctx, ItemsFromRequest(in.Items), actor, in.Reason)
}

// AdjustFromRequest adapta el request HTTP a Adjust.
func (s *Service) AdjustFromRequest(ctx context.Context, actor string, in dto.AdjustRequest) error {
	sku := entity.NewSKU(in.ProductID, in.VariantID, in.Size, in.Color)
	return s.Adjust(ctx, sku, in.WarehouseID, in.Quantity, actor, in.Reason)
}

// MoveFromRequest adapta el request HTTP a Move.
func (s *Service) MoveFromRequest(ctx context.Context, actor string, in dto.TransferRequest) (*TransferResult, error) {
	return s.Move(ctx, TransferInput{
		SKU:             entity.NewSKU(in.ProductID, in.VariantID, in.Size, in.Color),
		Quantity:        in.Quantity,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		Actor:           actor,
		Reason:          in.Reason,
	})
}
