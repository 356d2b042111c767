// Package ledger contiene el lado consumidor del canal de ventas: registra cada venta
// entregada exactamente una vez en el libro, aunque llegue repetida.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/event"
	"github.com/jhoicas/store-api/internal/domain/repository"
	"github.com/jhoicas/store-api/internal/infrastructure/observability"
	"github.com/jhoicas/store-api/pkg/logger"
)

var tracer = otel.Tracer("github.com/jhoicas/store-api/internal/application/ledger")

// Outcome resultado de registrar una venta.
type Outcome int

const (
	Inserted Outcome = iota + 1
	AlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already_present"
	default:
		return "unknown"
	}
}

// RecordSaleUseCase registra ventas en el libro. Nunca toca el almacén de ítems.
type RecordSaleUseCase struct {
	sales   repository.SaleRepository
	log     *logger.Logger
	metrics *observability.Metrics
}

// NewRecordSaleUseCase construye el caso de uso. metrics puede ser nil.
func NewRecordSaleUseCase(sales repository.SaleRepository, log *logger.Logger, metrics *observability.Metrics) *RecordSaleUseCase {
	return &RecordSaleUseCase{sales: sales, log: log.Component("ledger"), metrics: metrics}
}

// RecordIfAbsent inserta la venta salvo que ya exista una con el mismo ID.
func (uc *RecordSaleUseCase) RecordIfAbsent(ctx context.Context, sale *entity.Sale) (Outcome, error) {
	inserted, err := uc.sales.InsertIfAbsent(ctx, sale)
	if err != nil {
		return 0, fmt.Errorf("registrar venta %s: %w", sale.ID, err)
	}
	if inserted {
		return Inserted, nil
	}
	return AlreadyPresent, nil
}

// HandleSaleEvent procesa una entrega del canal. Devuelve error sólo cuando vale la pena
// reintentar; un payload malformado o una venta que el libro rechaza (domain.ErrSaleRejected)
// se registran y se descartan (nil) para no bloquear la partición.
func (uc *RecordSaleUseCase) HandleSaleEvent(ctx context.Context, payload []byte) error {
	ctx, span := tracer.Start(ctx, "ledger.HandleSaleEvent")
	defer span.End()

	sale, err := event.Decode(payload)
	if err != nil {
		// Decode sólo falla con event.ErrMalformed: reintentar no lo arreglaría.
		uc.metrics.LedgerOutcome(observability.LedgerMalformed)
		span.SetStatus(codes.Error, "malformed")
		uc.log.Error().Err(err).Bytes("payload", payload).Msg("evento de venta descartado")
		return nil
	}
	span.SetAttributes(attribute.String("sale.id", sale.ID), attribute.String("item.id", sale.ItemID))

	outcome, err := uc.RecordIfAbsent(ctx, sale)
	if errors.Is(err, domain.ErrSaleRejected) {
		uc.metrics.LedgerOutcome(observability.LedgerRejected)
		span.SetStatus(codes.Error, "rejected")
		uc.log.Error().Err(err).Str("sale_id", sale.ID).Bytes("payload", payload).Msg("venta descartada: el libro no puede registrarla")
		return nil
	}
	if err != nil {
		uc.metrics.LedgerOutcome(observability.LedgerError)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	log := uc.log.With().Str("sale_id", sale.ID).Str("item_id", sale.ItemID).Logger()
	switch outcome {
	case Inserted:
		uc.metrics.LedgerOutcome(observability.LedgerInserted)
		log.Info().Int("quantity", sale.Quantity).Str("total", sale.Total.StringFixed(entity.PriceScale)).Msg("venta registrada")
	case AlreadyPresent:
		uc.metrics.LedgerOutcome(observability.LedgerDuplicate)
		log.Debug().Msg("entrega duplicada ignorada")
	}
	return nil
}
