package event_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/store-api/internal/domain/entity"
	"github.com/jhoicas/store-api/internal/domain/event"
)

func TestEncode_MontosConDosDecimales(t *testing.T) {
	soldAt := time.Date(2025, 9, 12, 10, 0, 0, 123_000_000, time.UTC)
	sale := entity.NewSale(uuid.NewString(), uuid.NewString(), 6, decimal.NewFromInt(150), soldAt)

	payload, err := event.Encode(sale)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.Equal(t, "150.00", string(raw["priceAtSale"]))
	assert.Equal(t, "900.00", string(raw["total"]))
	assert.Equal(t, `"2025-09-12T10:00:00.123Z"`, string(raw["soldAt"]))
	for _, k := range []string{"saleId", "itemId", "quantity"} {
		assert.Contains(t, raw, k)
	}
}

func TestDecode_RecuperaLaVenta(t *testing.T) {
	sale := entity.NewSale(uuid.NewString(), uuid.NewString(), 2, decimal.RequireFromString("9.99"), time.Now().UTC())
	payload, err := event.Encode(sale)
	require.NoError(t, err)

	got, err := event.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, sale.ID, got.ID)
	assert.Equal(t, sale.ItemID, got.ItemID)
	assert.Equal(t, 2, got.Quantity)
	assert.True(t, got.PriceAtSale.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("19.98")))
	assert.True(t, sale.SoldAt.Equal(got.SoldAt))
}

func TestDecode_RechazaPayloadIncompleto(t *testing.T) {
	cases := map[string]string{
		"json roto":     `{"saleId":`,
		"sin saleId":    `{"itemId":"` + uuid.NewString() + `","quantity":1,"priceAtSale":1.00,"total":1.00,"soldAt":"2025-01-01T00:00:00Z"}`,
		"cantidad cero": `{"saleId":"` + uuid.NewString() + `","itemId":"` + uuid.NewString() + `","quantity":0,"priceAtSale":1.00,"total":0.00,"soldAt":"2025-01-01T00:00:00Z"}`,
		"sin soldAt":    `{"saleId":"` + uuid.NewString() + `","itemId":"` + uuid.NewString() + `","quantity":1,"priceAtSale":1.00,"total":1.00}`,
		"sin precio":    `{"saleId":"` + uuid.NewString() + `","itemId":"` + uuid.NewString() + `","quantity":1,"total":1.00,"soldAt":"2025-01-01T00:00:00Z"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := event.Decode([]byte(payload))
			require.Error(t, err)
			assert.ErrorIs(t, err, event.ErrMalformed)
		})
	}
}
