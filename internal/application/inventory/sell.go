package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/repository"
	"github.com/jhoicas/store-api/internal/infrastructure/observability"
	"github.com/jhoicas/store-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/store-api/internal/application/inventory")

// SellUseCase es el motor de descuento de inventario. Una llamada a Sell recorre
// Validating -> Loading -> Checking -> Committing -> Emitting una sola vez; el único punto
// de exclusión mutua es el compare-and-swap por versión en el almacén.
type SellUseCase struct {
	items     repository.ItemRepository
	publisher SalePublisher
	log       *logger.Logger
	metrics   *observability.Metrics

	now   func() time.Time
	newID func() string
}

// NewSellUseCase construye el motor. metrics puede ser nil.
func NewSellUseCase(items repository.ItemRepository, publisher SalePublisher, log *logger.Logger, metrics *observability.Metrics) *SellUseCase {
	return &SellUseCase{
		items:     items,
		publisher: publisher,
		log:       log.Component("sell"),
		metrics:   metrics,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		newID:     func() string { return uuid.New().String() },
	}
}

// Sell descuenta quantity unidades del ítem y emite el evento de venta.
// El descuento confirmado es definitivo: los fallos del envío se registran y nunca se devuelven.
func (uc *SellUseCase) Sell(ctx context.Context, itemID string, quantity int) (*entity.Sale, error) {
	ctx, span := tracer.Start(ctx, "inventory.Sell")
	defer span.End()
	span.SetAttributes(attribute.String("item.id", itemID), attribute.Int("sell.quantity", quantity))

	sale, outcome, err := uc.decrement(ctx, itemID, quantity)
	uc.metrics.SellOutcome(outcome)
	if err != nil {
		span.SetStatus(codes.Error, outcome)
		return nil, err
	}
	span.SetAttributes(attribute.String("sale.id", sale.ID))

	uc.emit(ctx, sale)
	return sale, nil
}

func (uc *SellUseCase) decrement(ctx context.Context, itemID string, quantity int) (*entity.Sale, string, error) {
	if quantity <= 0 {
		return nil, observability.SellInvalidQuantity, domain.ErrInvalidQuantity
	}
	if _, err := uuid.Parse(itemID); err != nil {
		return nil, observability.SellItemNotFound, domain.ErrItemNotFound
	}

	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, observability.SellError, fmt.Errorf("cargar ítem %s: %w", itemID, err)
	}
	if item == nil {
		return nil, observability.SellItemNotFound, domain.ErrItemNotFound
	}

	if !item.HasStock(quantity) {
		return nil, observability.SellInsufficientStock, &domain.InsufficientStockError{
			ItemID:    item.ID,
			Requested: quantity,
			Available: item.Quantity,
		}
	}

	updated, err := uc.items.CompareAndSwapQuantity(ctx, item.ID, item.Version, item.Quantity-quantity)
	if err != nil {
		if errors.Is(err, domain.ErrVersionConflict) {
			return nil, observability.SellConcurrentUpdate, fmt.Errorf("%w: ítem %s", domain.ErrConcurrentUpdate, item.ID)
		}
		return nil, observability.SellError, fmt.Errorf("descontar stock de %s: %w", item.ID, err)
	}
	if updated == nil {
		// eliminado entre la lectura y la escritura
		return nil, observability.SellItemNotFound, domain.ErrItemNotFound
	}

	// precio tal como se leyó antes del commit, no se vuelve a consultar
	return entity.NewSale(uc.newID(), item.ID, quantity, item.Price, uc.now()), observability.SellCommitted, nil
}

// emit entrega la venta al canal con un contexto que no hereda la cancelación del request:
// un envío ya iniciado no se aborta porque el cliente HTTP se desconecte.
func (uc *SellUseCase) emit(ctx context.Context, sale *entity.Sale) {
	log := uc.log.With().Str("sale_id", sale.ID).Str("item_id", sale.ItemID).Logger()

	err := uc.publisher.Publish(context.WithoutCancel(ctx), sale, func(res PublishResult) {
		uc.metrics.PublishResult(res.Err)
		if res.Err != nil {
			log.Error().Err(res.Err).Msg("no se pudo publicar el evento de venta; el descuento de stock se mantiene")
			return
		}
		log.Info().
			Str("topic", res.Topic).
			Int("partition", res.Partition).
			Str("offset", res.Offset).
			Msg("evento de venta publicado")
	})
	if err != nil {
		uc.metrics.PublishResult(err)
		log.Error().Err(err).Msg("el canal rechazó el evento de venta; el descuento de stock se mantiene")
	}
}
