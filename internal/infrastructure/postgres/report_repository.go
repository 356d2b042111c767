package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/store-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de lectura para los reportes de existencias y ventas.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// StockLevels devuelve la existencia actual de todos los ítems.
func (r *ReportRepo) StockLevels(ctx context.Context) ([]repository.StockLevelResult, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, price, quantity, updated_at FROM items ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("stock levels: %w", err)
	}
	defer rows.Close()

	out := make([]repository.StockLevelResult, 0)
	for rows.Next() {
		var s repository.StockLevelResult
		if err := rows.Scan(&s.ItemID, &s.Name, &s.Price, &s.Quantity, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SoldItemsSummary agrega ventas por ítem. LEFT JOIN: las ventas de ítems eliminados siguen contando.
func (r *ReportRepo) SoldItemsSummary(ctx context.Context, from, to time.Time) ([]repository.SoldItemResult, error) {
	query := `
		SELECT s.item_id,
		       COALESCE(i.name, '') AS name,
		       SUM(s.quantity)::BIGINT AS units_sold,
		       SUM(s.total) AS revenue,
		       MAX(s.sold_at) AS last_sold_at
		FROM sales s
		LEFT JOIN items i ON i.id = s.item_id
		WHERE s.sold_at >= $1 AND s.sold_at <= $2
		GROUP BY s.item_id, i.name
		ORDER BY units_sold DESC, s.item_id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("sold items summary: %w", err)
	}
	defer rows.Close()

	out := make([]repository.SoldItemResult, 0)
	for rows.Next() {
		var s repository.SoldItemResult
		if err := rows.Scan(&s.ItemID, &s.Name, &s.UnitsSold, &s.Revenue, &s.LastSoldAt); err != nil {
			return nil, fmt.Errorf("scan sold item: %w", err)
		}
		s.LastSoldAt = s.LastSoldAt.UTC()
		out = append(out, s)
	}
	return out, rows.Err()
}
