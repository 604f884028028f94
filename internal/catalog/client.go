package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spec-kit/catalog-gateway/internal/config"
	"github.com/spec-kit/catalog-gateway/internal/domain"
)

const maxErrorBody = 64 << 10

// ProxyErrorKind classifies upstream failures.
type ProxyErrorKind int

const (
	// Unreachable means the call never produced a response.
	Unreachable ProxyErrorKind = iota + 1
	// Upstream means the catalog answered with a failure.
	Upstream
)

// ProxyError describes a failed upstream call.
type ProxyError struct {
	Kind    ProxyErrorKind
	Status  int
	Message string
	Err     error
}

func (e *ProxyError) Error() string {
	switch e.Kind {
	case Unreachable:
		return fmt.Sprintf("catalog unreachable: %v", e.Err)
	default:
		return fmt.Sprintf("catalog returned %d: %s", e.Status, e.Message)
	}
}

func (e *ProxyError) Unwrap() error {
	return e.Err
}

// Record is the subset of an upstream product the service reads.
type Record struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

type productsPage struct {
	Products []Record `json:"products"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Client calls the upstream catalog API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	credential Credential
}

// NewClient builds a client whose every call is bounded by the upstream timeout.
func NewClient(cfg config.UpstreamConfig, credential Credential) *Client {
	if credential == nil {
		credential = NoCredential{}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
		credential: credential,
	}
}

// FetchProducts performs GET /products on behalf of subjectID.
func (c *Client) FetchProducts(ctx context.Context, q domain.ProductQuery, subjectID int64) ([]Record, error) {
	endpoint, err := url.Parse(c.baseURL + "/products")
	if err != nil {
		return nil, fmt.Errorf("build upstream url: %w", err)
	}
	params := endpoint.Query()
	if q.Limit != nil {
		params.Set("limit", strconv.Itoa(*q.Limit))
	}
	if q.Skip != nil {
		params.Set("skip", strconv.Itoa(*q.Skip))
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if err := c.credential.Apply(req, subjectID); err != nil {
		return nil, fmt.Errorf("apply upstream credential: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProxyError{Kind: Unreachable, Status: http.StatusBadGateway, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProxyError{
			Kind:    Upstream,
			Status:  resp.StatusCode,
			Message: upstreamMessage(resp.Body),
		}
	}

	var page productsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, &ProxyError{Kind: Unreachable, Status: http.StatusBadGateway, Err: err}
		}
		return nil, &ProxyError{
			Kind:    Upstream,
			Status:  http.StatusBadGateway,
			Message: "Invalid response from catalog service",
			Err:     err,
		}
	}
	return page.Products, nil
}

func upstreamMessage(body io.Reader) string {
	var payload errorBody
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
