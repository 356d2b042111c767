package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jhoicas/store-api/internal/application/dto"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
)

// Límites por defecto del resumen de ventas cuando no se indica rango.
var (
	SummaryMinTime = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	SummaryMaxTime = time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
)

// ReportUseCase reportes de existencias y ventas.
type ReportUseCase struct {
	repo repository.ReportRepository
}

func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// StockLevels existencia actual de cada ítem, ordenada por nombre.
func (uc *ReportUseCase) StockLevels(ctx context.Context) ([]dto.StockLevelResponse, error) {
	rows, err := uc.repo.StockLevels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.StockLevelResponse{
			ID:            r.ItemID,
			Name:          r.Name,
			Price:         json.Number(r.Price.StringFixed(entity.PriceScale)),
			StockQuantity: r.Quantity,
			LastUpdated:   r.LastUpdated.UTC(),
		})
	}
	return out, nil
}

// SoldItemsSummary agrega las ventas en [from, to]. Un límite nil toma el valor por defecto.
func (uc *ReportUseCase) SoldItemsSummary(ctx context.Context, from, to *time.Time) ([]dto.SoldItemSummaryResponse, error) {
	lo, hi := SummaryMinTime, SummaryMaxTime
	if from != nil {
		lo = from.UTC()
	}
	if to != nil {
		hi = to.UTC()
	}

	rows, err := uc.repo.SoldItemsSummary(ctx, lo, hi)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SoldItemSummaryResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.SoldItemSummaryResponse{
			ItemID:     r.ItemID,
			Name:       r.Name,
			UnitsSold:  r.UnitsSold,
			Revenue:    json.Number(r.Revenue.StringFixed(entity.PriceScale)),
			LastSoldAt: r.LastSoldAt.UTC(),
		})
	}
	return out, nil
}
