package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tienda-api/internal/application/dto"
	"github.com/jhoicas/Tienda-api/internal/application/usecase"
	"github.com/jhoicas/Tienda-api/internal/domain"
	"github.com/jhoicas/Tienda-api/internal/infrastructure/memory"
)

func newWarehouseUC() *usecase.WarehouseUseCase {
	store := memory.NewStore()
	return usecase.NewWarehouseUseCase(store.Repos().Warehouses)
}

func TestWarehouseUseCase_CreateYGet(t *testing.T) {
	uc := newWarehouseUC()
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: " centro ", Name: "Centro", Address: "Cra 7"})
	require.NoError(t, err)
	assert.Equal(t, "CENTRO", out.Code)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Centro", got.Name)

	missing, err := uc.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestWarehouseUseCase_CodigoDuplicado(t *testing.T) {
	uc := newWarehouseUC()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateWarehouseRequest{Code: "A", Name: "Uno"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateWarehouseRequest{Code: "a", Name: "Dos"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestWarehouseUseCase_EntradaInvalida(t *testing.T) {
	_, err := newWarehouseUC().Create(context.Background(), dto.CreateWarehouseRequest{Code: " ", Name: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWarehouseUseCase_GetOrCreateDefaultIdempotente(t *testing.T) {
	uc := newWarehouseUC()
	ctx := context.Background()

	first, err := uc.GetOrCreateDefault(ctx, "default", "Bodega principal")
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "DEFAULT", first.Code)

	second, err := uc.GetOrCreateDefault(ctx, "default", "Bodega principal")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	list, err := uc.List(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}
