package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	_ "github.com/jhoicas/store-api/docs"
	"github.com/jhoicas/store-api/internal/application/inventory"
	"github.com/jhoicas/store-api/internal/application/ledger"
	"github.com/jhoicas/store-api/internal/application/usecase"
	"github.com/jhoicas/store-api/internal/domain/repository"
	"github.com/jhoicas/store-api/internal/infrastructure/memory"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging/kafka"
	memchannel "github.com/jhoicas/store-api/internal/infrastructure/messaging/memory"
	"github.com/jhoicas/store-api/internal/infrastructure/messaging/redisstream"
	"github.com/jhoicas/store-api/internal/infrastructure/observability"
	"github.com/jhoicas/store-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/store-api/internal/interfaces/http"
	"github.com/jhoicas/store-api/pkg/config"
	"github.com/jhoicas/store-api/pkg/logger"
)

// @title        Store API
// @version      1.0
// @description  Inventario con venta concurrente y libro de ventas alimentado por eventos.
// @BasePath     /
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization

// storage agrupa los puertos de persistencia según el driver elegido.
type storage struct {
	items   repository.ItemRepository
	sales   repository.SaleRepository
	reports repository.ReportRepository
	close   func()
}

// channel agrupa los dos extremos del canal de ventas.
type channel struct {
	publisher messaging.Publisher
	consumer  messaging.Consumer
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Str("channel", cfg.Channel.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.App.Name, cfg.Obs.OtelEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	recordSaleUC := ledger.NewRecordSaleUseCase(store.sales, log, metrics)
	backoff := messaging.Backoff{Initial: cfg.Channel.RetryBackoff, Max: cfg.Channel.MaxRetryWait}
	ch := openChannel(cfg, recordSaleUC, backoff, log)

	itemUC := usecase.NewItemUseCase(store.items)
	reportUC := usecase.NewReportUseCase(store.reports)
	sellUC := inventory.NewSellUseCase(store.items, ch.publisher, log, metrics)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Store API",
		}))
	}

	deps := httpRouter.RouterDeps{
		ItemUC:    itemUC,
		ReportUC:  reportUC,
		Sell:      sellUC,
		JWTSecret: cfg.JWT.Secret,
	}
	if cfg.Obs.MetricsEnabled {
		deps.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	}
	httpRouter.Router(app, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		err := ch.consumer.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("apagado del servidor")
		}
		// Las ventas ya aceptadas terminan de publicarse antes de salir.
		if err := ch.publisher.Close(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador")
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("cerrar trazas")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("aplicación finalizada con error")
	}
	ch.close()
	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		items := memory.NewItemStore()
		sales := memory.NewSaleLedger()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			items:   items,
			sales:   sales,
			reports: memory.NewReportRepo(items, sales),
			close:   func() {},
		}, nil
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		items:   postgres.NewItemRepository(pool),
		sales:   postgres.NewSaleRepository(pool),
		reports: postgres.NewReportRepository(pool),
		close:   pool.Close,
	}, nil
}

func openChannel(cfg *config.Config, handler messaging.Handler, backoff messaging.Backoff, log *logger.Logger) *channel {
	switch cfg.Channel.Driver {
	case config.ChannelDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return &channel{
			publisher: redisstream.NewProducer(client, cfg.Redis, cfg.Channel.PublishTimeout, 0, log),
			consumer:  redisstream.NewConsumer(client, cfg.Redis, cfg.Channel, handler, log),
			close: func() {
				if err := client.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar cliente Redis")
				}
			},
		}
	case config.ChannelDriverMemory:
		c := memchannel.NewChannel(0, handler, backoff, log)
		return &channel{publisher: c, consumer: c, close: func() {}}
	default:
		consumer := kafka.NewConsumer(cfg.Kafka, cfg.Channel, handler, log)
		return &channel{
			publisher: kafka.NewProducer(cfg.Kafka, cfg.Channel.PublishTimeout, log),
			consumer:  consumer,
			close: func() {
				if err := consumer.Close(); err != nil {
					log.Error().Err(err).Msg("cerrar consumidor Kafka")
				}
			},
		}
	}
}
