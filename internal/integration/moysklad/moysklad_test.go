package moysklad

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogBody = `{
	"rows": [
		{
			"id": "p-1",
			"name": "Mug",
			"code": "MUG-01",
			"description": "Ceramic mug",
			"salePrices": [{"value": 450.5}],
			"images": {"meta": {"href": "https://img.example/p-1"}}
		},
		{
			"id": "p-2",
			"name": "Teapot",
			"salePrices": []
		}
	]
}`

func TestClient_ListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/entity/product", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogBody))
	}))
	defer srv.Close()

	client := MustNewClient(WithBaseURL(srv.URL), WithToken("test-token"))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "p-1", products[0].ID)
	assert.Equal(t, "Mug", products[0].Name)
	assert.Equal(t, "MUG-01", products[0].Code)
	assert.Equal(t, int64(45050), products[0].PriceKopecks)
	assert.Equal(t, "https://img.example/p-1", products[0].ImageURL)
	assert.JSONEq(t, `{
		"id": "p-1",
		"name": "Mug",
		"code": "MUG-01",
		"description": "Ceramic mug",
		"salePrices": [{"value": 450.5}],
		"images": {"meta": {"href": "https://img.example/p-1"}}
	}`, string(products[0].RawPayload))
	assert.False(t, products[0].CachedAt.IsZero())

	assert.Equal(t, int64(0), products[1].PriceKopecks)
}

func TestClient_ListProducts_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := MustNewClient(WithBaseURL(srv.URL), WithToken("test-token"))

	_, err := client.ListProducts(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestPriceKopecks_Rounding(t *testing.T) {
	row := productRow{}
	row.SalePrices = []struct {
		Value float64 `json:"value"`
	}{{Value: 0.005}}

	assert.Equal(t, int64(1), priceKopecks(row))
}
