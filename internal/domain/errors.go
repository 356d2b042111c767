package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrItemNotFound      = errors.New("ítem no encontrado")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser mayor que cero")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConcurrentUpdate  = errors.New("actualización concurrente detectada")
	ErrNameConflict      = errors.New("ya existe un ítem con ese nombre")
	ErrVersionConflict   = errors.New("la versión del registro cambió")
	ErrSaleRejected      = errors.New("el libro rechazó la venta")
)

// InsufficientStockError detalla cuánto se pidió y cuánto había al momento de la lectura.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	ItemID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d", e.ItemID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
