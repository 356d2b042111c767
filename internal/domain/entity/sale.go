package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale es el registro inmutable de una venta. ItemID es una referencia débil:
// la venta sobrevive al borrado del ítem.
type Sale struct {
	ID          string
	ItemID      string
	Quantity    int
	PriceAtSale decimal.Decimal // precio unitario leído al momento de vender
	Total       decimal.Decimal // Quantity * PriceAtSale, escala 2
	SoldAt      time.Time
}

// NewSale construye la venta calculando el total con escala fija.
func NewSale(id, itemID string, qty int, unitPrice decimal.Decimal, soldAt time.Time) *Sale {
	return &Sale{
		ID:          id,
		ItemID:      itemID,
		Quantity:    qty,
		PriceAtSale: unitPrice.Round(PriceScale),
		Total:       unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(PriceScale),
		SoldAt:      soldAt,
	}
}
