package repository

import (
	"context"

	"github.com/jhoicas/store-api/internal/domain/entity"
)

// SaleRepository es el libro de ventas: almacenamiento deduplicado por ID de venta.
type SaleRepository interface {
	// InsertIfAbsent inserta la venta si su ID no existe, como una sola operación atómica.
	// inserted=false significa que ya estaba registrada (entrega duplicada).
	InsertIfAbsent(ctx context.Context, sale *entity.Sale) (inserted bool, err error)
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
}
