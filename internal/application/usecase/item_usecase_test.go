package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-api/internal/application/dto"
	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/infrastructure/memory"
)

func ptr[T any](v T) *T { return &v }

func newItemUseCase() *ItemUseCase {
	return NewItemUseCase(memory.NewItemStore())
}

func TestItemUseCase_CreateYGet(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Laptop", Price: decimal.RequireFromString("150.00"), Quantity: 1250})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", created.Name)
	assert.Equal(t, "150.00", created.Price.String())
	assert.Equal(t, 1250, created.Quantity)
	assert.Equal(t, 1, created.Version)

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)

	missing, err := uc.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemUseCase_CreateNombreDuplicado(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Laptop", Price: decimal.NewFromInt(1), Quantity: 1})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "  LAPTOP ", Price: decimal.NewFromInt(1), Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNameConflict)
}

func TestItemUseCase_CreateValidaciones(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	cases := map[string]dto.CreateItemRequest{
		"nombre vacío":       {Name: "   ", Price: decimal.NewFromInt(1)},
		"nombre muy largo":   {Name: strings.Repeat("a", 256), Price: decimal.NewFromInt(1)},
		"precio negativo":    {Name: "x", Price: decimal.NewFromInt(-1)},
		"tres decimales":     {Name: "x", Price: decimal.RequireFromString("1.005")},
		"cantidad negativa":  {Name: "x", Price: decimal.NewFromInt(1), Quantity: -1},
		"precio excesivo":    {Name: "x", Price: decimal.RequireFromString("10000000000.00")},
		"cantidad excesiva":  {Name: "x", Price: decimal.NewFromInt(1), Quantity: entity.MaxQuantity + 1},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	ok, err := uc.Create(ctx, dto.CreateItemRequest{Name: strings.Repeat("ñ", 255), Price: decimal.RequireFromString("1.50")})
	require.NoError(t, err)
	assert.Equal(t, "1.50", ok.Price.String())

	top, err := uc.Create(ctx, dto.CreateItemRequest{Name: "máximos", Price: entity.MaxPrice, Quantity: entity.MaxQuantity})
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", top.Price.String())

	_, err = uc.Update(ctx, top.ID, dto.UpdateItemRequest{Quantity: ptr(entity.MaxQuantity + 1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUseCase_UpdateIncrementaVersion(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	created, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Laptop", Price: decimal.RequireFromString("150.00"), Quantity: 10})
	require.NoError(t, err)

	v2, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{Price: ptr(decimal.RequireFromString("120.5"))})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, "120.50", v2.Price.String())
	assert.Equal(t, "Laptop", v2.Name)

	v3, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{Name: ptr("Laptop Pro"), Quantity: ptr(7), Version: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, 3, v3.Version)
	assert.Equal(t, "Laptop Pro", v3.Name)
	assert.Equal(t, 7, v3.Quantity)
}

func TestItemUseCase_UpdateConflictos(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateItemRequest{Name: "Widget", Price: decimal.NewFromInt(1), Quantity: 1})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Name: "Gadget", Price: decimal.NewFromInt(1), Quantity: 1})
	require.NoError(t, err)

	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Name: ptr("gadget")})
	assert.ErrorIs(t, err, domain.ErrNameConflict)

	// cambiar sólo mayúsculas del propio nombre no es conflicto
	same, err := uc.Update(ctx, a.ID, dto.UpdateItemRequest{Name: ptr("WIDGET")})
	require.NoError(t, err)
	assert.Equal(t, "WIDGET", same.Name)

	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Quantity: ptr(3), Version: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Quantity: ptr(-3)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing, err := uc.Update(ctx, "00000000-0000-0000-0000-000000000000", dto.UpdateItemRequest{Quantity: ptr(1)})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemUseCase_SearchYDelete(t *testing.T) {
	uc := newItemUseCase()
	ctx := context.Background()

	for _, n := range []string{"Red Lamp", "Blue Lamp", "Chair"} {
		_, err := uc.Create(ctx, dto.CreateItemRequest{Name: n, Price: decimal.NewFromInt(1), Quantity: 1})
		require.NoError(t, err)
	}

	found, err := uc.Search(ctx, "lamp")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "Blue Lamp", found[0].Name)

	none, err := uc.Search(ctx, "sofa")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	deleted, err := uc.Delete(ctx, found[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	deleted, err = uc.Delete(ctx, found[0].ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}
