package inventory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-api/internal/domain"
	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/infrastructure/memory"
	"github.com/jhoicas/store-api/internal/infrastructure/observability"
	"github.com/jhoicas/store-api/pkg/logger"
)

// recordingPublisher confirma cada envío de inmediato y guarda lo enviado.
type recordingPublisher struct {
	mu    sync.Mutex
	sales []*entity.Sale
	ctxs  []context.Context
	err   error // si no es nil, se rechaza el envío
	async error // si no es nil, la confirmación llega con este error
}

func (p *recordingPublisher) Publish(ctx context.Context, sale *entity.Sale, onComplete func(PublishResult)) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	p.sales = append(p.sales, sale)
	p.ctxs = append(p.ctxs, ctx)
	p.mu.Unlock()
	onComplete(PublishResult{SaleID: sale.ID, Topic: "items-sold", Err: p.async})
	return nil
}

func (p *recordingPublisher) sent() []*entity.Sale {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*entity.Sale(nil), p.sales...)
}

// countingRepo cuenta las llamadas al almacén.
type countingRepo struct {
	*memory.ItemStore
	calls atomic.Int32
}

func (r *countingRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	r.calls.Add(1)
	return r.ItemStore.GetByID(ctx, id)
}

func (r *countingRepo) CompareAndSwapQuantity(ctx context.Context, id string, v, q int) (*entity.Item, error) {
	r.calls.Add(1)
	return r.ItemStore.CompareAndSwapQuantity(ctx, id, v, q)
}

// barrierRepo retiene cada lectura hasta que n lectores hayan leído, forzando
// que todos intenten el CAS con la misma versión.
type barrierRepo struct {
	*memory.ItemStore
	loaded sync.WaitGroup
}

func (r *barrierRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := r.ItemStore.GetByID(ctx, id)
	r.loaded.Done()
	r.loaded.Wait()
	return it, err
}

// vanishingRepo borra el ítem justo después de leerlo.
type vanishingRepo struct {
	*memory.ItemStore
}

func (r *vanishingRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := r.ItemStore.GetByID(ctx, id)
	_, _ = r.ItemStore.Delete(ctx, id)
	return it, err
}

func seedItem(t *testing.T, store *memory.ItemStore, name, price string, qty int) *entity.Item {
	t.Helper()
	it := &entity.Item{
		ID:       uuid.New().String(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: qty,
		Version:  1,
	}
	require.NoError(t, store.Create(context.Background(), it))
	return it
}

func TestSell_Exitoso(t *testing.T) {
	store := memory.NewItemStore()
	it := seedItem(t, store, "Lámpara", "150.00", 10)
	pub := &recordingPublisher{}
	uc := NewSellUseCase(store, pub, logger.Nop(), nil)
	fixed := time.Date(2025, 9, 12, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	sale, err := uc.Sell(context.Background(), it.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, it.ID, sale.ItemID)
	assert.Equal(t, 6, sale.Quantity)
	assert.Equal(t, "150.00", sale.PriceAtSale.StringFixed(2))
	assert.Equal(t, "900.00", sale.Total.StringFixed(2))
	assert.Equal(t, fixed, sale.SoldAt)
	_, err = uuid.Parse(sale.ID)
	assert.NoError(t, err)

	got, _ := store.GetByID(context.Background(), it.ID)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, 2, got.Version)

	require.Len(t, pub.sent(), 1)
	assert.Equal(t, sale.ID, pub.sent()[0].ID)
}

func TestSell_CantidadInvalidaNoTocaElAlmacen(t *testing.T) {
	repo := &countingRepo{ItemStore: memory.NewItemStore()}
	pub := &recordingPublisher{}
	uc := NewSellUseCase(repo, pub, logger.Nop(), nil)

	for _, qty := range []int{0, -3} {
		_, err := uc.Sell(context.Background(), uuid.New().String(), qty)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	}
	assert.Zero(t, repo.calls.Load())
	assert.Empty(t, pub.sent())
}

func TestSell_ItemInexistente(t *testing.T) {
	store := memory.NewItemStore()
	pub := &recordingPublisher{}
	uc := NewSellUseCase(store, pub, logger.Nop(), nil)

	_, err := uc.Sell(context.Background(), uuid.New().String(), 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = uc.Sell(context.Background(), "no-es-uuid", 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Empty(t, pub.sent())
}

func TestSell_StockInsuficiente(t *testing.T) {
	store := memory.NewItemStore()
	it := seedItem(t, store, "Widget", "19.99", 2)
	pub := &recordingPublisher{}
	uc := NewSellUseCase(store, pub, logger.Nop(), nil)

	_, err := uc.Sell(context.Background(), it.ID, 3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var detail *domain.InsufficientStockError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, 3, detail.Requested)
	assert.Equal(t, 2, detail.Available)

	got, _ := store.GetByID(context.Background(), it.ID)
	assert.Equal(t, 2, got.Quantity)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, pub.sent())
}

func TestSell_ItemBorradoAntesDelCAS(t *testing.T) {
	store := memory.NewItemStore()
	it := seedItem(t, store, "Efímero", "1.00", 5)
	uc := NewSellUseCase(&vanishingRepo{ItemStore: store}, &recordingPublisher{}, logger.Nop(), nil)

	_, err := uc.Sell(context.Background(), it.ID, 1)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestSell_DosVentasConcurrentesDeSeisConStockDiez(t *testing.T) {
	store := memory.NewItemStore()
	it := seedItem(t, store, "Lámpara", "150.00", 10)
	repo := &barrierRepo{ItemStore: store}
	repo.loaded.Add(2)
	pub := &recordingPublisher{}
	uc := NewSellUseCase(repo, pub, logger.Nop(), nil)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Sell(context.Background(), it.ID, 6)
		}(i)
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	}
	assert.Equal(t, 1, ok)

	got, _ := store.GetByID(context.Background(), it.ID)
	assert.Equal(t, 4, got.Quantity)

	sent := pub.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, 6, sent[0].Quantity)
	assert.Equal(t, "900.00", sent[0].Total.StringFixed(2))
}

func TestSell_ConcurrenciaNuncaDejaStockNegativo(t *testing.T) {
	store := memory.NewItemStore()
	const initial = 50
	it := seedItem(t, store, "Popular", "3.00", initial)
	pub := &recordingPublisher{}
	uc := NewSellUseCase(store, pub, logger.Nop(), nil)

	var (
		wg   sync.WaitGroup
		sold atomic.Int64
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(qty int) {
			defer wg.Done()
			sale, err := uc.Sell(context.Background(), it.ID, qty)
			if err == nil {
				sold.Add(int64(sale.Quantity))
				return
			}
			if !errors.Is(err, domain.ErrConcurrentUpdate) && !errors.Is(err, domain.ErrInsufficientStock) {
				t.Errorf("error inesperado: %v", err)
			}
		}(i%3 + 1)
	}
	wg.Wait()

	got, _ := store.GetByID(context.Background(), it.ID)
	assert.GreaterOrEqual(t, got.Quantity, 0)
	assert.Equal(t, initial-int(sold.Load()), got.Quantity)

	var emitted int
	for _, s := range pub.sent() {
		emitted += s.Quantity
	}
	assert.Equal(t, int(sold.Load()), emitted)
}

func TestSell_FalloDeEnvioNoFallaLaVenta(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	store := memory.NewItemStore()
	it := seedItem(t, store, "Widget", "10.00", 5)

	rejecting := NewSellUseCase(store, &recordingPublisher{err: errors.New("broker caído")}, logger.Nop(), metrics)
	sale, err := rejecting.Sell(context.Background(), it.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, sale)

	nacking := NewSellUseCase(store, &recordingPublisher{async: errors.New("timeout")}, logger.Nop(), metrics)
	_, err = nacking.Sell(context.Background(), it.ID, 1)
	require.NoError(t, err)

	got, _ := store.GetByID(context.Background(), it.ID)
	assert.Equal(t, 3, got.Quantity)
	expected := `
# HELP store_sale_events_published_total Eventos de venta enviados al canal, por resultado de la confirmación.
# TYPE store_sale_events_published_total counter
store_sale_events_published_total{result="error"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "store_sale_events_published_total"))
}

func TestSell_ContextoCanceladoNoCancelaElEnvio(t *testing.T) {
	store := memory.NewItemStore()
	it := seedItem(t, store, "Widget", "10.00", 5)
	pub := &recordingPublisher{}
	uc := NewSellUseCase(store, pub, logger.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Sell(ctx, it.ID, 1)
	require.NoError(t, err)
	require.Len(t, pub.ctxs, 1)
	assert.NoError(t, pub.ctxs[0].Err())
}
