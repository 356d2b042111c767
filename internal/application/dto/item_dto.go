package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem. Price acepta número o string JSON.
type CreateItemRequest struct {
	Name     string          `json:"name" example:"Laptop"`
	Price    decimal.Decimal `json:"price" swaggertype:"number" example:"150.00"`
	Quantity int             `json:"quantity" example:"1250"`
}

// UpdateItemRequest actualización parcial. Si Version viene, debe coincidir con la almacenada.
type UpdateItemRequest struct {
	Name     *string          `json:"name"`
	Price    *decimal.Decimal `json:"price" swaggertype:"number"`
	Quantity *int             `json:"quantity"`
	Version  *int             `json:"version"`
}

// ItemResponse salida de un ítem. Los montos salen con 2 decimales.
type ItemResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Price     json.Number `json:"price" swaggertype:"number"`
	Quantity  int         `json:"quantity"`
	Version   int         `json:"version"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// SellRequest cuerpo de POST /api/items/{id}/sell.
type SellRequest struct {
	Quantity int `json:"quantity" example:"6"`
}
