package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockLevelResult fila del listado de existencias actuales.
type StockLevelResult struct {
	ItemID      string
	Name        string
	Price       decimal.Decimal
	Quantity    int
	LastUpdated time.Time
}

// SoldItemResult agregado de ventas por ítem en un período.
// Name queda vacío si el ítem fue eliminado después de vender.
type SoldItemResult struct {
	ItemID     string
	Name       string
	UnitsSold  int64
	Revenue    decimal.Decimal
	LastSoldAt time.Time
}

// ReportRepository consultas de sólo lectura sobre ítems y ventas.
type ReportRepository interface {
	// StockLevels devuelve todos los ítems ordenados por nombre.
	StockLevels(ctx context.Context) ([]StockLevelResult, error)
	// SoldItemsSummary agrupa las ventas con sold_at en [from, to] por ítem,
	// ordenadas por unidades vendidas de mayor a menor.
	SoldItemsSummary(ctx context.Context, from, to time.Time) ([]SoldItemResult, error)
}
