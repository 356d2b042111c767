// Package memory implementa el canal de ventas dentro del proceso (CHANNEL_DRIVER=memory).
// No sobrevive a un reinicio: lo que quede en la cola al cerrar se pierde.
package memory

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/event"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/pkg/logger"
)

const topic = "memory"

var (
	ErrClosed    = errors.New("canal cerrado")
	ErrQueueFull = errors.New("cola del canal llena")
)

var (
	_ messaging.Publisher = (*Channel)(nil)
	_ messaging.Consumer  = (*Channel)(nil)
)

type delivery struct {
	seq     int64
	payload []byte
}

// Channel es productor y consumidor a la vez: una cola FIFO con un único despachador,
// por lo que el orden de entrega coincide con el de Publish para cualquier clave.
type Channel struct {
	handler messaging.Handler
	backoff messaging.Backoff
	log     *logger.Logger

	mu     sync.Mutex
	seq    int64
	closed bool
	queue  chan delivery
}

// NewChannel crea el canal con capacidad para size entregas pendientes.
func NewChannel(size int, handler messaging.Handler, backoff messaging.Backoff, log *logger.Logger) *Channel {
	if size <= 0 {
		size = 1024
	}
	return &Channel{
		handler: handler,
		backoff: backoff,
		log:     log.Component("memory-channel"),
		queue:   make(chan delivery, size),
	}
}

// Publish encola la venta. Quedar en la cola equivale a la confirmación del broker.
func (c *Channel) Publish(_ context.Context, sale *entity.Sale, onComplete func(inventory.PublishResult)) error {
	payload, err := event.Encode(sale)
	if err != nil {
		return fmt.Errorf("serializar venta %s: %w", sale.ID, err)
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.seq++
	d := delivery{seq: c.seq, payload: payload}
	select {
	case c.queue <- d:
	default:
		c.mu.Unlock()
		return ErrQueueFull
	}
	c.mu.Unlock()

	onComplete(inventory.PublishResult{
		SaleID: sale.ID,
		Topic:  topic,
		Offset: strconv.FormatInt(d.seq, 10),
	})
	return nil
}

// Run entrega en orden hasta que ctx se cancele o el canal se cierre y vacíe.
func (c *Channel) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-c.queue:
			if !ok {
				return nil
			}
			if err := messaging.HandleWithRetry(ctx, c.handler, d.payload, c.backoff, c.log); err != nil {
				c.log.Warn().Int64("seq", d.seq).Msg("entrega abandonada por cancelación")
				return nil
			}
		}
	}
}

// Close deja de aceptar ventas; Run termina después de despachar las ya encoladas.
func (c *Channel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.queue)
	}
	return nil
}
