package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// HTTPClient implements Client over the sales service REST API.
type HTTPClient struct {
	baseURL string
	token   string
	hc      *http.Client
}

// NewHTTPClient builds a client for the given base URL. The token is opaque
// to this layer and forwarded as a bearer header when non-empty. The timeout
// bounds every request; the sync engine additionally bounds each delivery
// attempt with its own context deadline.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}
	return req, nil
}

// transientStatus reports whether an HTTP status is worth retrying.
func transientStatus(code int) bool {
	return code >= 500 || code == http.StatusRequestTimeout || code == http.StatusTooManyRequests
}

type createSaleResponse struct {
	ID string `json:"id"`
}

func (c *HTTPClient) CreateSale(ctx context.Context, sale models.SaleSnapshot, idempotencyKey string) (string, error) {
	payload, err := json.Marshal(sale)
	if err != nil {
		return "", fmt.Errorf("failed to encode sale: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/sales", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set(common.IdempotencyKeyHeaderName, idempotencyKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("create sale request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var out createSaleResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return "", fmt.Errorf("failed to decode create sale response: %w", err)
		}
		return out.ID, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if transientStatus(resp.StatusCode) {
		return "", fmt.Errorf("create sale failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return "", fmt.Errorf("%w: %s: %s", common.ErrRejectedPayload, resp.Status, strings.TrimSpace(string(body)))
}

func (c *HTTPClient) ShiftOrders(ctx context.Context) ([]models.ShiftSale, error) {
	var out []models.ShiftSale
	if err := c.getJSON(ctx, "/api/v1/shifts/current/orders", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Catalog(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := c.getJSON(ctx, "/api/v1/products", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("request %s failed: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/v1/ping", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed: %s", resp.Status)
	}
	return nil
}
