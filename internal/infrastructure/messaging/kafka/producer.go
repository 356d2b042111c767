// Package kafka implementa el canal de ventas sobre un tópico Kafka (clave = ID del ítem).
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/event"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

const saleIDHeader = "sale-id"

// ErrClosed se devuelve al publicar después de Close.
var ErrClosed = errors.New("productor cerrado")

// ErrQueueFull se devuelve cuando la cola local de envíos está llena.
var ErrQueueFull = errors.New("cola de envíos llena")

var _ messaging.Publisher = (*Producer)(nil)

// Producer publica ventas de forma asíncrona. El balanceo por hash de la clave manda todas las
// ventas de un ítem a la misma partición, lo que conserva su orden relativo.
//
// WriteMessages consulta la metadata del tópico de forma síncrona aun con Async, así que nunca se
// llama desde Publish: un único sender drena la cola en orden FIFO.
type Producer struct {
	writer  *kafkago.Writer
	pending sync.Map // sale ID -> func(inventory.PublishResult)
	timeout time.Duration
	log     *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan kafkago.Message
	done   chan struct{}
}

// NewProducer crea el writer asíncrono con acks de todas las réplicas y arranca el sender.
func NewProducer(cfg config.KafkaConfig, publishTimeout time.Duration, log *logger.Logger) *Producer {
	if publishTimeout <= 0 {
		publishTimeout = 10 * time.Second
	}
	p := &Producer{
		timeout: publishTimeout,
		log:     log.Component("kafka-producer"),
		queue:   make(chan kafkago.Message, queueSize),
		done:    make(chan struct{}),
	}
	p.writer = &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		Async:        true,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: publishTimeout,
		Completion:   p.complete,
	}
	go p.sender()
	return p
}

const queueSize = 1024

// Publish encola la venta sin bloquear. El resultado llega a onComplete cuando el broker confirma o falla.
func (p *Producer) Publish(ctx context.Context, sale *entity.Sale, onComplete func(inventory.PublishResult)) error {
	payload, err := event.Encode(sale)
	if err != nil {
		return fmt.Errorf("serializar venta %s: %w", sale.ID, err)
	}

	msg := kafkago.Message{
		Key:     []byte(sale.ItemID),
		Value:   payload,
		Headers: []kafkago.Header{{Key: saleIDHeader, Value: []byte(sale.ID)}},
	}
	otel.GetTextMapPropagator().Inject(ctx, (*HeaderCarrier)(&msg.Headers))

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	p.pending.Store(sale.ID, onComplete)
	select {
	case p.queue <- msg:
		return nil
	default:
		p.pending.Delete(sale.ID)
		return ErrQueueFull
	}
}

func (p *Producer) sender() {
	defer close(p.done)
	for msg := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		err := p.writer.WriteMessages(ctx, msg)
		cancel()
		if err != nil {
			// rechazo antes de entrar al lote: Completion no lo verá
			p.complete([]kafkago.Message{msg}, fmt.Errorf("enviar venta: %w", err))
		}
	}
}

func (p *Producer) complete(msgs []kafkago.Message, err error) {
	for _, m := range msgs {
		carrier := HeaderCarrier(m.Headers)
		saleID := carrier.Get(saleIDHeader)
		cb, ok := p.pending.LoadAndDelete(saleID)
		if !ok {
			p.log.Warn().Str("sale_id", saleID).Msg("confirmación sin envío pendiente")
			continue
		}
		topic := m.Topic
		if topic == "" {
			topic = p.writer.Topic
		}
		cb.(func(inventory.PublishResult))(inventory.PublishResult{
			SaleID:    saleID,
			Topic:     topic,
			Partition: m.Partition,
			Offset:    strconv.FormatInt(m.Offset, 10),
			Err:       err,
		})
	}
}

// Close deja de aceptar ventas, espera a que el sender vacíe la cola y cierra el writer,
// que a su vez vacía los lotes pendientes.
func (p *Producer) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
	return p.writer.Close()
}
