package entity

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Límites de Item.
const (
	ItemNameMaxLen = 255
	PriceScale     = 2
	MaxQuantity    = math.MaxInt32 // columna INTEGER
)

// MaxPrice es el mayor precio que cabe en NUMERIC(12,2).
var MaxPrice = decimal.RequireFromString("9999999999.99")

// Item representa un artículo vendible con su existencia actual.
// Version arranca en 1 y aumenta exactamente en 1 por cada escritura exitosa (control optimista).
type Item struct {
	ID        string
	Name      string
	Price     decimal.Decimal // escala fija de 2 decimales
	Quantity  int
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasStock indica si hay existencia suficiente para vender qty unidades.
func (i *Item) HasStock(qty int) bool {
	return i.Quantity >= qty
}
