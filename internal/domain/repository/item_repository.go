package repository

import (
	"context"

	"github.com/jhoicas/store-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type ItemRepository interface {
	// Create persiste un ítem nuevo. Devuelve domain.ErrNameConflict si el nombre ya existe
	// (comparación sin distinguir mayúsculas).
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	FindByNameCaseInsensitive(ctx context.Context, name string) (*entity.Item, error)
	// SearchByName busca por fragmento del nombre, sin distinguir mayúsculas, ordenado por nombre.
	SearchByName(ctx context.Context, fragment string) ([]*entity.Item, error)
	// Update escribe nombre, precio y cantidad sólo si la versión almacenada sigue siendo item.Version.
	// Devuelve el ítem con la versión nueva, (nil, nil) si no existe, domain.ErrVersionConflict
	// si otro escritor ganó o domain.ErrNameConflict si el nombre choca con otro ítem.
	Update(ctx context.Context, item *entity.Item) (*entity.Item, error)
	// Delete devuelve true si se eliminó una fila y false si ya no existía.
	Delete(ctx context.Context, id string) (bool, error)
	// CompareAndSwapQuantity fija la cantidad sólo si la versión coincide, en una única escritura atómica.
	// Devuelve (nil, nil) si el ítem no existe y domain.ErrVersionConflict si la versión cambió.
	CompareAndSwapQuantity(ctx context.Context, id string, expectedVersion, newQuantity int) (*entity.Item, error)
}
