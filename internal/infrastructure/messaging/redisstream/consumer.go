package redisstream

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

var _ messaging.Consumer = (*Consumer)(nil)

// Consumer lee el stream como miembro de un consumer group. XACK se envía sólo después de que
// el handler acepta la entrada; las entradas pendientes de un consumidor caído se reclaman con XAUTOCLAIM.
type Consumer struct {
	client    *redis.Client
	stream    string
	group     string
	name      string
	handler   messaging.Handler
	backoff   messaging.Backoff
	claimIdle time.Duration
	block     time.Duration
	log       *logger.Logger
}

// NewConsumer construye el consumidor. El grupo se crea en Run si no existe.
func NewConsumer(client *redis.Client, cfg config.RedisConfig, ch config.ChannelConfig, handler messaging.Handler, log *logger.Logger) *Consumer {
	return &Consumer{
		client:    client,
		stream:    cfg.Stream,
		group:     cfg.Group,
		name:      cfg.Consumer,
		handler:   handler,
		backoff:   messaging.Backoff{Initial: ch.RetryBackoff, Max: ch.MaxRetryWait},
		claimIdle: time.Minute,
		block:     2 * time.Second,
		log:       log.Component("redis-consumer"),
	}
}

// Run procesa entradas hasta que ctx se cancele.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}
	c.log.Info().Str("stream", c.stream).Str("group", c.group).Str("consumer", c.name).Msg("consumidor iniciado")

	// primero lo que quedó pendiente para este consumidor (p. ej. tras un reinicio)
	if !c.drain(ctx, "0") {
		return nil
	}
	for ctx.Err() == nil {
		if !c.reclaim(ctx) {
			return nil
		}
		if !c.drain(ctx, ">") {
			return nil
		}
	}
	return nil
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// drain lee un lote desde start ("0" = pendientes propios, ">" = nuevas). Devuelve false si ctx terminó.
func (c *Consumer) drain(ctx context.Context, start string) bool {
	block := c.block
	if start != ">" {
		block = -1 // sin BLOCK
	}
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, start},
		Count:    100,
		Block:    block,
	}).Result()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if !errors.Is(err, redis.Nil) {
			c.log.Error().Err(err).Msg("no se pudo leer del stream")
			return sleep(ctx, time.Second)
		}
		return true
	}
	for _, s := range streams {
		if !c.process(ctx, s.Messages) {
			return false
		}
	}
	return true
}

// reclaim toma entradas que otro consumidor dejó sin confirmar más de claimIdle.
func (c *Consumer) reclaim(ctx context.Context) bool {
	msgs, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.name,
		MinIdle:  c.claimIdle,
		Start:    "0-0",
		Count:    100,
	}).Result()
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		c.log.Warn().Err(err).Msg("xautoclaim falló")
		return true
	}
	if len(msgs) > 0 {
		c.log.Info().Int("count", len(msgs)).Msg("entradas reclamadas")
	}
	return c.process(ctx, msgs)
}

func (c *Consumer) process(ctx context.Context, msgs []redis.XMessage) bool {
	for _, m := range msgs {
		payload, _ := m.Values[fieldPayload].(string)
		if err := messaging.HandleWithRetry(ctx, c.handler, []byte(payload), c.backoff, c.log); err != nil {
			return false
		}
		if err := c.client.XAck(ctx, c.stream, c.group, m.ID).Err(); err != nil {
			if ctx.Err() != nil {
				return false
			}
			c.log.Error().Err(err).Str("entry_id", m.ID).Msg("no se pudo confirmar la entrada")
		}
	}
	return true
}

// Close no cierra el cliente: pertenece a quien lo creó.
func (c *Consumer) Close() error {
	return nil
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
