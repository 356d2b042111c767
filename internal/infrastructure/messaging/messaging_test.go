package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-api/pkg/logger"
)

type flakyHandler struct {
	failures int
	calls    int
}

func (h *flakyHandler) HandleSaleEvent(context.Context, []byte) error {
	h.calls++
	if h.calls <= h.failures {
		return errors.New("transitorio")
	}
	return nil
}

func TestHandleWithRetry_ReintentaHastaExito(t *testing.T) {
	h := &flakyHandler{failures: 3}
	err := HandleWithRetry(context.Background(), h, []byte("{}"), Backoff{Initial: time.Millisecond, Max: 2 * time.Millisecond}, logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, 4, h.calls)
}

func TestHandleWithRetry_CancelacionCorta(t *testing.T) {
	h := &flakyHandler{failures: 1 << 30}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := HandleWithRetry(ctx, h, nil, Backoff{Initial: time.Millisecond, Max: 5 * time.Millisecond}, logger.Nop())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, h.calls, 1)
}

func TestBackoff_Tope(t *testing.T) {
	b := Backoff{Initial: 10 * time.Millisecond, Max: 35 * time.Millisecond}
	var d time.Duration
	var got []time.Duration
	for i := 0; i < 4; i++ {
		d = b.next(d)
		got = append(got, d)
	}
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 35 * time.Millisecond, 35 * time.Millisecond}, got)
}
