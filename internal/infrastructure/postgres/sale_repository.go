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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo libro de ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// InsertIfAbsent inserta la venta salvo que su ID ya exista. ON CONFLICT DO NOTHING hace que dos
// entregas concurrentes del mismo evento produzcan exactamente una fila.
func (r *SaleRepo) InsertIfAbsent(ctx context.Context, sale *entity.Sale) (bool, error) {
	query := `
		INSERT INTO sales (id, item_id, quantity, price_at_sale, total, sold_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	cmd, err := r.q.Exec(ctx, query,
		sale.ID, sale.ItemID, sale.Quantity, sale.PriceAtSale, sale.Total, sale.SoldAt,
	)
	if err != nil {
		if isPermanentDataError(err) {
			return false, fmt.Errorf("%w: insert sale %s: %v", domain.ErrSaleRejected, sale.ID, err)
		}
		return false, fmt.Errorf("insert sale: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT id, item_id, quantity, price_at_sale, total, sold_at FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.ItemID, &s.Quantity, &s.PriceAtSale, &s.Total, &s.SoldAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.SoldAt = s.SoldAt.UTC()
	return &s, nil
}
