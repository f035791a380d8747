package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/domain/entity"
	"github.com/jhoicas/Tienda-api/internal/domain/repository"
)

// WarehouseUseCase registro de bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
	now  func() time.Time
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo, now: time.Now}
}

// Create crea una nueva bodega. Código o bodega por defecto repetidos devuelven domain.ErrDuplicate.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		IsDefault: in.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega por ID; nil si no existe.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, nil
	}
	return toWarehouseResponse(warehouse), nil
}

// List lista bodegas con paginación.
func (uc *WarehouseUseCase) List(ctx context.Context, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *toWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// GetOrCreateDefault devuelve la bodega por defecto y la crea si no existe.
// Si otra réplica la crea al mismo tiempo se relee la ganadora.
func (uc *WarehouseUseCase) GetOrCreateDefault(ctx context.Context, code, name string) (*entity.Warehouse, error) {
	existing, err := uc.repo.GetDefault(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	now := uc.now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		Code:      strings.ToUpper(strings.TrimSpace(code)),
		Name:      name,
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, warehouse); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, err
		}
		existing, err = uc.repo.GetDefault(ctx)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrConflict
		}
		return existing, nil
	}
	return warehouse, nil
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	if w == nil {
		return nil
	}
	return &dto.WarehouseResponse{
		ID:        w.ID,
		Code:      w.Code,
		Name:      w.Name,
		Address:   w.Address,
		IsDefault: w.IsDefault,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}
