package observability_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/store-api/internal/infrastructure/observability"
)

func TestMetrics_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	m.SellOutcome(observability.SellCommitted)
	m.SellOutcome(observability.SellCommitted)
	m.SellOutcome(observability.SellConcurrentUpdate)
	m.PublishResult(nil)
	m.PublishResult(errors.New("broker caído"))
	m.LedgerOutcome(observability.LedgerDuplicate)

	n, err := testutil.GatherAndCount(reg, "store_sells_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n) // dos series: committed y concurrent_update
	n, err = testutil.GatherAndCount(reg, "store_sale_events_published_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	n, err = testutil.GatherAndCount(reg, "store_sale_events_consumed_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilNoFalla(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.SellOutcome(observability.SellCommitted)
		m.PublishResult(nil)
		m.LedgerOutcome(observability.LedgerInserted)
	})
}
