package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/store-api/internal/application/dto"
	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems. La cantidad sólo baja por ventas a través del motor;
// aquí se permite fijarla (reposición) con la misma condición de versión que usa el motor.
type ItemUseCase struct {
	repo repository.ItemRepository
	now  func() time.Time
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create crea un ítem con versión 1. ErrNameConflict si el nombre ya existe sin distinguir mayúsculas.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateItem(name, in.Price, in.Quantity); err != nil {
		return nil, err
	}
	existing, err := uc.repo.FindByNameCaseInsensitive(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrNameConflict
	}

	now := uc.now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     in.Price.Round(entity.PriceScale),
		Quantity:  in.Quantity,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un ítem; (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Search busca ítems cuyo nombre contiene fragment, sin distinguir mayúsculas.
func (uc *ItemUseCase) Search(ctx context.Context, fragment string) ([]dto.ItemResponse, error) {
	items, err := uc.repo.SearchByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

// Update aplica los campos presentes. La escritura se condiciona a la versión leída, así una venta
// concurrente nunca se pierde: quien llegue segundo recibe ErrVersionConflict.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Version != nil && *in.Version != item.Version {
		return nil, domain.ErrVersionConflict
	}

	if in.Name != nil {
		item.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		item.Price = in.Price.Round(entity.PriceScale)
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if err := validateItem(item.Name, item.Price, item.Quantity); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Update(ctx, item)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, nil
	}
	return toItemResponse(updated), nil
}

// Delete elimina un ítem. false si no existía. Las ventas ya registradas se conservan.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) (bool, error) {
	return uc.repo.Delete(ctx, id)
}

func validateItem(name string, price decimal.Decimal, quantity int) error {
	if n := utf8.RuneCountInString(name); n == 0 || n > entity.ItemNameMaxLen {
		return fmt.Errorf("%w: el nombre debe tener entre 1 y %d caracteres", domain.ErrInvalidInput, entity.ItemNameMaxLen)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if price.GreaterThan(entity.MaxPrice) {
		return fmt.Errorf("%w: el precio no puede superar %s", domain.ErrInvalidInput, entity.MaxPrice.StringFixed(entity.PriceScale))
	}
	if !price.Equal(price.Round(entity.PriceScale)) {
		return fmt.Errorf("%w: el precio admite como máximo %d decimales", domain.ErrInvalidInput, entity.PriceScale)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	if quantity > entity.MaxQuantity {
		return fmt.Errorf("%w: la cantidad no puede superar %d", domain.ErrInvalidInput, entity.MaxQuantity)
	}
	return nil
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        it.ID,
		Name:      it.Name,
		Price:     json.Number(it.Price.StringFixed(entity.PriceScale)),
		Quantity:  it.Quantity,
		Version:   it.Version,
		CreatedAt: it.CreatedAt,
		UpdatedAt: it.UpdatedAt,
	}
}
