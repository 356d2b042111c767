package dto

import (
	"encoding/json"
	"time"
)

// StockLevelResponse fila del reporte de existencias.
type StockLevelResponse struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Price         json.Number `json:"price" swaggertype:"number"`
	StockQuantity int         `json:"stockQuantity"`
	LastUpdated   time.Time   `json:"lastUpdated"`
}

// SoldItemSummaryResponse ventas agregadas de un ítem. Name vacío si el ítem ya no existe.
type SoldItemSummaryResponse struct {
	ItemID     string      `json:"itemId"`
	Name       string      `json:"name"`
	UnitsSold  int64       `json:"unitsSold"`
	Revenue    json.Number `json:"revenue" swaggertype:"number"`
	LastSoldAt time.Time   `json:"lastSoldAt"`
}
