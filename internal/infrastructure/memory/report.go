package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/store-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo calcula los reportes sobre los almacenes en memoria.
type ReportRepo struct {
	items *ItemStore
	sales *SaleLedger
}

func NewReportRepo(items *ItemStore, sales *SaleLedger) *ReportRepo {
	return &ReportRepo{items: items, sales: sales}
}

func (r *ReportRepo) StockLevels(_ context.Context) ([]repository.StockLevelResult, error) {
	items := r.items.snapshot()
	out := make([]repository.StockLevelResult, 0, len(items))
	for _, it := range items {
		out = append(out, repository.StockLevelResult{
			ItemID:      it.ID,
			Name:        it.Name,
			Price:       it.Price,
			Quantity:    it.Quantity,
			LastUpdated: it.UpdatedAt,
		})
	}
	return out, nil
}

func (r *ReportRepo) SoldItemsSummary(ctx context.Context, from, to time.Time) ([]repository.SoldItemResult, error) {
	agg := make(map[string]*repository.SoldItemResult)
	for _, s := range r.sales.all() {
		if s.SoldAt.Before(from) || s.SoldAt.After(to) {
			continue
		}
		row, ok := agg[s.ItemID]
		if !ok {
			row = &repository.SoldItemResult{ItemID: s.ItemID, Revenue: decimal.Zero}
			agg[s.ItemID] = row
		}
		row.UnitsSold += int64(s.Quantity)
		row.Revenue = row.Revenue.Add(s.Total)
		if s.SoldAt.After(row.LastSoldAt) {
			row.LastSoldAt = s.SoldAt
		}
	}

	out := make([]repository.SoldItemResult, 0, len(agg))
	for _, row := range agg {
		if it, _ := r.items.GetByID(ctx, row.ItemID); it != nil {
			row.Name = it.Name
		}
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnitsSold != out[j].UnitsSold {
			return out[i].UnitsSold > out[j].UnitsSold
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}
