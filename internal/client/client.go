// Package client talks to the catalog HTTP API and keeps client-side
// browsing state on top of it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/simp-lee/minimarket/internal/domain"
	"github.com/simp-lee/minimarket/internal/module/product"
	"github.com/simp-lee/minimarket/internal/pkg"
)

// DefaultBaseURL is the API root of a locally running server.
const DefaultBaseURL = "http://localhost:8080/api"

const defaultTimeout = 10 * time.Second

// maxErrorBody bounds how much of a failed response is kept in HTTPError.
const maxErrorBody = 4 << 10

// ErrNotFound is returned by GetProduct when the server answers 404.
var ErrNotFound = errors.New("product not found")

// Product is a catalog product as served by the API.
type Product = product.ProductResponse

// PageResult is one page of products with its pagination metadata.
type PageResult = domain.PageResult[Product]

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d, message: %s", e.Status, e.Body)
}

// Filters are the list query parameters. Zero values are omitted from the
// request and the server applies its own defaults.
type Filters struct {
	Page      int
	Limit     int
	Search    string
	Sort      string
	Order     string
	Available *bool
	Category  string
}

func (f Filters) values() url.Values {
	v := url.Values{}
	if f.Page > 0 {
		v.Set(pkg.QueryParamPage, strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set(pkg.QueryParamLimit, strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		v.Set(pkg.QueryParamSearch, f.Search)
	}
	if f.Sort != "" {
		v.Set(pkg.QueryParamSort, f.Sort)
	}
	if f.Order != "" {
		v.Set(pkg.QueryParamOrder, f.Order)
	}
	if f.Available != nil {
		v.Set(pkg.QueryParamAvailable, strconv.FormatBool(*f.Available))
	}
	if f.Category != "" {
		v.Set(pkg.QueryParamCategory, f.Category)
	}
	return v
}

// Client is a catalog API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: want http(s)://host[/path]", baseURL)
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts fetches one page of products.
func (c *Client) ListProducts(ctx context.Context, f Filters) (*PageResult, error) {
	endpoint := "/products"
	if q := f.values().Encode(); q != "" {
		endpoint += "?" + q
	}

	var result PageResult
	if err := c.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	if result.Data == nil {
		result.Data = []Product{}
	}
	return &result, nil
}

// GetProduct fetches a single product. It returns ErrNotFound when the server
// has no product with that id.
func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var envelope struct {
		Data *Product `json:"data"`
	}
	err := c.get(ctx, "/products/"+url.PathEscape(id), &envelope)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if envelope.Data == nil {
		return nil, errors.New("response has no product data")
	}
	return envelope.Data, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	target := c.baseURL + endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api response",
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
