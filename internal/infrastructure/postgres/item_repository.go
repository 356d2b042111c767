package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, price, quantity, version, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	if err := row.Scan(&it.ID, &it.Name, &it.Price, &it.Quantity, &it.Version, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un ítem nuevo con versión 1. El índice único sobre lower(name) resuelve la carrera
// entre dos altas con el mismo nombre.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, price, quantity, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Price, item.Quantity, item.Version, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrNameConflict
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// FindByNameCaseInsensitive busca por nombre exacto sin distinguir mayúsculas.
func (r *ItemRepo) FindByNameCaseInsensitive(ctx context.Context, name string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE lower(name) = lower($1)`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find item by name: %w", err)
	}
	return it, nil
}

// SearchByName lista los ítems cuyo nombre contiene fragment. strpos evita interpretar % y _ como comodines.
func (r *ItemRepo) SearchByName(ctx context.Context, fragment string) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
		WHERE strpos(lower(name), lower($1)) > 0
		ORDER BY name, id`
	rows, err := r.q.Query(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	items := make([]*entity.Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update escribe nombre, precio y cantidad condicionado a la versión leída.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) (*entity.Item, error) {
	query := `
		UPDATE items SET name = $3, price = $4, quantity = $5, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING ` + itemColumns
	updated, err := scanItem(r.q.QueryRow(ctx, query, item.ID, item.Version, item.Name, item.Price, item.Quantity))
	if err == nil {
		return updated, nil
	}
	if isUniqueViolation(err) {
		return nil, domain.ErrNameConflict
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return nil, r.conflictOrMissing(ctx, item.ID)
}

// Delete elimina el ítem. Las ventas registradas no se tocan.
func (r *ItemRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete item: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// CompareAndSwapQuantity es la única escritura del camino de venta: una sentencia condicional
// sobre la versión, atómica respecto de cualquier otra escritura de la misma fila.
func (r *ItemRepo) CompareAndSwapQuantity(ctx context.Context, id string, expectedVersion, newQuantity int) (*entity.Item, error) {
	query := `
		UPDATE items SET quantity = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
		RETURNING ` + itemColumns
	updated, err := scanItem(r.q.QueryRow(ctx, query, id, expectedVersion, newQuantity))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("cas quantity: %w", err)
	}
	return nil, r.conflictOrMissing(ctx, id)
}

// conflictOrMissing distingue, tras un UPDATE condicional sin filas, entre ítem borrado (nil)
// y versión superada (ErrVersionConflict).
func (r *ItemRepo) conflictOrMissing(ctx context.Context, id string) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check item: %w", err)
	}
	if exists {
		return domain.ErrVersionConflict
	}
	return nil
}
