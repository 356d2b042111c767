// Package event define el formato en el cable del evento de venta que viaja por el canal.
package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/store-api/internal/domain/entity"
)

// ErrMalformed indica un payload que nunca podrá procesarse (reintentar no sirve).
var ErrMalformed = errors.New("evento de venta malformado")

// ItemSold es la instantánea completa de una venta. Todos los campos son obligatorios.
// Los montos se serializan como números JSON con exactamente 2 decimales.
type ItemSold struct {
	SaleID      string      `json:"saleId"`
	ItemID      string      `json:"itemId"`
	Quantity    int         `json:"quantity"`
	PriceAtSale json.Number `json:"priceAtSale"`
	Total       json.Number `json:"total"`
	SoldAt      time.Time   `json:"soldAt"`
}

// FromSale construye el evento a partir de la venta registrada por el motor.
func FromSale(s *entity.Sale) ItemSold {
	return ItemSold{
		SaleID:      s.ID,
		ItemID:      s.ItemID,
		Quantity:    s.Quantity,
		PriceAtSale: json.Number(s.PriceAtSale.StringFixed(entity.PriceScale)),
		Total:       json.Number(s.Total.StringFixed(entity.PriceScale)),
		SoldAt:      s.SoldAt.UTC(),
	}
}

// Encode serializa la venta al formato del cable.
func Encode(s *entity.Sale) ([]byte, error) {
	return json.Marshal(FromSale(s))
}

// Decode valida el payload y lo convierte en venta. Cualquier error envuelve ErrMalformed.
func Decode(payload []byte) (*entity.Sale, error) {
	var ev ItemSold
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return ev.ToSale()
}

// ToSale valida los campos obligatorios y devuelve la venta.
func (e ItemSold) ToSale() (*entity.Sale, error) {
	if _, err := uuid.Parse(e.SaleID); err != nil {
		return nil, fmt.Errorf("%w: saleId inválido", ErrMalformed)
	}
	if _, err := uuid.Parse(e.ItemID); err != nil {
		return nil, fmt.Errorf("%w: itemId inválido", ErrMalformed)
	}
	if e.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", ErrMalformed)
	}
	price, err := decimal.NewFromString(e.PriceAtSale.String())
	if err != nil {
		return nil, fmt.Errorf("%w: priceAtSale: %v", ErrMalformed, err)
	}
	total, err := decimal.NewFromString(e.Total.String())
	if err != nil {
		return nil, fmt.Errorf("%w: total: %v", ErrMalformed, err)
	}
	if e.SoldAt.IsZero() {
		return nil, fmt.Errorf("%w: soldAt requerido", ErrMalformed)
	}
	return &entity.Sale{
		ID:          e.SaleID,
		ItemID:      e.ItemID,
		Quantity:    e.Quantity,
		PriceAtSale: price,
		Total:       total,
		SoldAt:      e.SoldAt.UTC(),
	}, nil
}
