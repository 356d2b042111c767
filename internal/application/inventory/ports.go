package inventory

import (
	"context"

	"github.com/jhoicas/store-api/internal/domain/entity"
)

// PublishResult es la confirmación asíncrona de un envío al canal de ventas.
// El motor la registra en logs y métricas y luego la descarta.
type PublishResult struct {
	SaleID    string
	Topic     string
	Partition int
	Offset    string // offset de Kafka o ID de entrada del stream
	Err       error
}

// SalePublisher envía el evento de una venta al canal, con clave = ID del ítem.
// Publish no bloquea esperando la confirmación del broker: el error devuelto sólo refleja
// un rechazo inmediato; onComplete se invoca exactamente una vez con el resultado final
// cuando Publish devuelve nil.
type SalePublisher interface {
	Publish(ctx context.Context, sale *entity.Sale, onComplete func(PublishResult)) error
}
