package moysklad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL = "https://api.moysklad.ru/api/remap/1.2"
	productsPath   = "/entity/product"

	requestTimeout = 15 * time.Second

	// maxResponseSize bounds catalog responses to prevent memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024
)

var ErrUnavailable = errors.New("inventory system unavailable")

// kopecksPerRuble converts catalog ruble prices to minor units.
var kopecksPerRuble = decimal.NewFromInt(100)

// Client is a read-only catalog client. The API token is held server-side and
// attached to outbound requests only; it never reaches the browser.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// option is a function that configures the Client.
type option func(*Client)

// MustNewClient creates a new inventory client.
func MustNewClient(opts ...option) *Client {
	baseURL := viper.GetString("inventory.base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		token:      os.Getenv("MOYSKLAD_TOKEN"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.token == "" {
		panic("inventory API token is not configured")
	}

	return c
}

// WithBaseURL overrides the inventory endpoint.
func WithBaseURL(baseURL string) option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithToken overrides the API token.
func WithToken(token string) option {
	return func(c *Client) {
		c.token = token
	}
}

type productRow struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	SalePrices  []struct {
		Value float64 `json:"value"`
	} `json:"salePrices"`
	Images struct {
		Meta struct {
			Href string `json:"href"`
		} `json:"meta"`
	} `json:"images"`
}

type listProductsResponse struct {
	Rows []json.RawMessage `json:"rows"`
}

// ListProducts fetches the full catalog. Each returned entry carries the raw
// provider payload alongside the parsed fields.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+productsPath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json;charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrUnavailable, err)
	}

	var list listProductsResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	now := time.Now()
	products := make([]product.Product, 0, len(list.Rows))
	for _, raw := range list.Rows {
		var row productRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, fmt.Errorf("failed to decode catalog row: %w", err)
		}

		products = append(products, product.Product{
			ID:           row.ID,
			Name:         row.Name,
			Code:         row.Code,
			Description:  row.Description,
			PriceKopecks: priceKopecks(row),
			ImageURL:     row.Images.Meta.Href,
			RawPayload:   raw,
			CachedAt:     now,
		})
	}

	return products, nil
}

// priceKopecks converts the first sale price from rubles to kopecks, rounding
// half up the way the provider invoices do.
func priceKopecks(row productRow) int64 {
	if len(row.SalePrices) == 0 {
		return 0
	}

	rubles := decimal.NewFromFloat(row.SalePrices[0].Value)

	return rubles.Mul(kopecksPerRuble).Round(0).IntPart()
}
