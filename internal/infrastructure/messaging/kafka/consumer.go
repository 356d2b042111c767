package kafka

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

var _ messaging.Consumer = (*Consumer)(nil)

// Consumer lee el tópico de ventas dentro de un consumer group. El offset se confirma sólo
// después de que el handler acepta el mensaje: ante una caída, la entrega se repite.
type Consumer struct {
	reader  *kafkago.Reader
	handler messaging.Handler
	backoff messaging.Backoff
	log     *logger.Logger
}

// NewConsumer crea el reader con commits explícitos.
func NewConsumer(cfg config.KafkaConfig, ch config.ChannelConfig, handler messaging.Handler, log *logger.Logger) *Consumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{
		reader:  reader,
		handler: handler,
		backoff: messaging.Backoff{Initial: ch.RetryBackoff, Max: ch.MaxRetryWait},
		log:     log.Component("kafka-consumer"),
	}
}

// Run procesa mensajes en orden de partición hasta que ctx se cancele.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.Info().Str("topic", c.reader.Config().Topic).Str("group", c.reader.Config().GroupID).Msg("consumidor iniciado")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error().Err(err).Msg("no se pudo leer del tópico")
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		hctx := otel.GetTextMapPropagator().Extract(ctx, (*HeaderCarrier)(&msg.Headers))
		if err := messaging.HandleWithRetry(hctx, c.handler, msg.Value, c.backoff, c.log); err != nil {
			// cancelado: sin commit, se volverá a entregar
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.log.Error().Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("no se pudo confirmar el offset")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
