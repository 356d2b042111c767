package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resultados de una venta, usados como etiqueta "outcome".
const (
	SellCommitted         = "committed"
	SellInvalidQuantity   = "invalid_quantity"
	SellItemNotFound      = "item_not_found"
	SellInsufficientStock = "insufficient_stock"
	SellConcurrentUpdate  = "concurrent_update"
	SellError             = "error"

	LedgerInserted  = "inserted"
	LedgerDuplicate = "duplicate"
	LedgerMalformed = "malformed"
	LedgerRejected  = "rejected"
	LedgerError     = "error"
)

// Metrics contadores Prometheus del protocolo de venta. Un *Metrics nil es válido y no registra nada.
type Metrics struct {
	sells     *prometheus.CounterVec
	published *prometheus.CounterVec
	ledger    *prometheus.CounterVec
}

// NewMetrics crea y registra los contadores en reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store",
			Name:      "sells_total",
			Help:      "Intentos de venta por resultado.",
		}, []string{"outcome"}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store",
			Name:      "sale_events_published_total",
			Help:      "Eventos de venta enviados al canal, por resultado de la confirmación.",
		}, []string{"result"}),
		ledger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "store",
			Name:      "sale_events_consumed_total",
			Help:      "Entregas de eventos de venta procesadas por el libro, por resultado.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.sells, m.published, m.ledger)
	return m
}

// SellOutcome cuenta un intento de venta.
func (m *Metrics) SellOutcome(outcome string) {
	if m == nil {
		return
	}
	m.sells.WithLabelValues(outcome).Inc()
}

// PublishResult cuenta la confirmación (o el fallo) de un envío.
func (m *Metrics) PublishResult(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.published.WithLabelValues(result).Inc()
}

// LedgerOutcome cuenta una entrega procesada por el consumidor.
func (m *Metrics) LedgerOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ledger.WithLabelValues(outcome).Inc()
}
