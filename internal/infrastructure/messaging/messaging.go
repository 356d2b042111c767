// Package messaging reúne lo común a los transportes del canal de ventas (Kafka, Redis stream, memoria).
package messaging

import (
	"context"
	"time"

	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/pkg/logger"
)

// Handler procesa el payload de un evento de venta. Un error significa "reintentar":
// el transporte no confirma la entrega hasta que Handler devuelva nil.
type Handler interface {
	HandleSaleEvent(ctx context.Context, payload []byte) error
}

// Publisher es el lado productor de un transporte.
type Publisher interface {
	inventory.SalePublisher
	Close() error
}

// Consumer es el lado consumidor de un transporte. Run bloquea hasta que ctx se cancele.
type Consumer interface {
	Run(ctx context.Context) error
	Close() error
}

// Backoff espera exponencial con tope entre reintentos.
type Backoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (b Backoff) next(cur time.Duration) time.Duration {
	if cur <= 0 {
		cur = b.Initial
		if cur <= 0 {
			cur = 100 * time.Millisecond
		}
		return cur
	}
	cur *= 2
	if b.Max > 0 && cur > b.Max {
		cur = b.Max
	}
	return cur
}

// HandleWithRetry invoca h hasta que tenga éxito o ctx se cancele; en ese caso devuelve ctx.Err()
// y la entrega queda sin confirmar para que el broker la vuelva a entregar.
func HandleWithRetry(ctx context.Context, h Handler, payload []byte, backoff Backoff, log *logger.Logger) error {
	var wait time.Duration
	for attempt := 1; ; attempt++ {
		err := h.HandleSaleEvent(ctx, payload)
		if err == nil {
			return nil
		}
		wait = backoff.next(wait)
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).Msg("no se pudo procesar el evento de venta, reintentando")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
