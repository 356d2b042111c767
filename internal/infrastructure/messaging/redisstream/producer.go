// Package redisstream implementa el canal de ventas sobre un stream de Redis con consumer group.
package redisstream

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/event"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

// Campos de cada entrada del stream.
const (
	fieldKey     = "key"
	fieldSaleID  = "sale_id"
	fieldPayload = "payload"
)

// ErrClosed se devuelve al publicar después de Close.
var ErrClosed = errors.New("productor cerrado")

// ErrQueueFull se devuelve cuando la cola local de envíos está llena.
var ErrQueueFull = errors.New("cola de envíos llena")

var _ messaging.Publisher = (*Producer)(nil)

type pendingSend struct {
	ctx        context.Context
	sale       *entity.Sale
	payload    []byte
	onComplete func(inventory.PublishResult)
}

// Producer agrega ventas al stream con XADD. Un único sender drena la cola en orden FIFO,
// así el orden de llegada al stream es el orden de Publish.
type Producer struct {
	client  *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan pendingSend
	done   chan struct{}
}

// NewProducer arranca el sender. queueSize acota los envíos en vuelo.
func NewProducer(client *redis.Client, cfg config.RedisConfig, publishTimeout time.Duration, queueSize int, log *logger.Logger) *Producer {
	if queueSize <= 0 {
		queueSize = 1024
	}
	p := &Producer{
		client:  client,
		stream:  cfg.Stream,
		maxLen:  cfg.MaxLen,
		timeout: publishTimeout,
		log:     log.Component("redis-producer"),
		queue:   make(chan pendingSend, queueSize),
		done:    make(chan struct{}),
	}
	go p.sender()
	return p
}

// Publish encola la venta sin bloquear; la confirmación llega a onComplete desde el sender.
func (p *Producer) Publish(ctx context.Context, sale *entity.Sale, onComplete func(inventory.PublishResult)) error {
	payload, err := event.Encode(sale)
	if err != nil {
		return fmt.Errorf("serializar venta %s: %w", sale.ID, err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.queue <- pendingSend{ctx: ctx, sale: sale, payload: payload, onComplete: onComplete}:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *Producer) sender() {
	defer close(p.done)
	for s := range p.queue {
		ctx, cancel := context.WithTimeout(s.ctx, p.timeout)
		args := &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]any{
				fieldKey:     s.sale.ItemID,
				fieldSaleID:  s.sale.ID,
				fieldPayload: s.payload,
			},
		}
		if p.maxLen > 0 {
			args.MaxLen = p.maxLen
			args.Approx = true
		}
		id, err := p.client.XAdd(ctx, args).Result()
		cancel()

		s.onComplete(inventory.PublishResult{
			SaleID: s.sale.ID,
			Topic:  p.stream,
			Offset: id,
			Err:    err,
		})
	}
}

// Close deja de aceptar envíos y espera a que se vacíe la cola.
func (p *Producer) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return nil
}
