package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/inventory"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
	"github.com/jhoicas/Tienda-api/pkg/slug"
)

// ProductUseCase alta y consulta de productos. Stock se maneja solo vía el libro de filas.
type ProductUseCase struct {
	tx   inventory.TxRunner
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewProductUseCase(tx inventory.TxRunner, repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{tx: tx, repo: repo, now: time.Now}
}

// Create crea el producto y sus variantes en una sola transacción. Stock inicia en 0.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.Price.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	id := uuid.New().String()
	product := &entity.Product{
		ID:              id,
		Name:            name,
		Slug:            slug.Make(name) + "-" + id[:8],
		Price:           in.Price,
		ExternalItemID:  strings.TrimSpace(in.ExternalItemID),
		ExternalBarcode: strings.TrimSpace(in.ExternalBarcode),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	seen := make(map[string]bool, len(in.Variants))
	for _, v := range in.Variants {
		vname := strings.TrimSpace(v.Name)
		if vname == "" || seen[strings.ToLower(vname)] {
			return nil, domain.ErrInvalidInput
		}
		seen[strings.ToLower(vname)] = true
		product.Variants = append(product.Variants, entity.Variant{
			ID:              uuid.New().String(),
			ProductID:       id,
			Name:            vname,
			Attributes:      v.Attributes,
			ExternalItemID:  strings.TrimSpace(v.ExternalItemID),
			ExternalBarcode: strings.TrimSpace(v.ExternalBarcode),
		})
	}

	err := uc.tx.Run(ctx, func(r inventory.TxRepos) error {
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	variants := make([]dto.VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dto.VariantResponse{
			ID:              v.ID,
			Name:            v.Name,
			Attributes:      v.Attributes,
			Stock:           v.Stock,
			ExternalItemID:  v.ExternalItemID,
			ExternalBarcode: v.ExternalBarcode,
		})
	}
	return &dto.ProductResponse{
		ID:              p.ID,
		Name:            p.Name,
		Slug:            p.Slug,
		Price:           p.Price,
		Stock:           p.Stock,
		ExternalItemID:  p.ExternalItemID,
		ExternalBarcode: p.ExternalBarcode,
		Variants:        variants,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
