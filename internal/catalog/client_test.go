package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/catalog-gateway/internal/config"
	"github.com/spec-kit/catalog-gateway/internal/domain"
)

func newTestClient(baseURL string, cred Credential) *Client {
	return NewClient(config.UpstreamConfig{BaseURL: baseURL, TimeoutSeconds: 5}, cred)
}

func intPtr(v int) *int { return &v }

func TestFetchProducts(t *testing.T) {
	t.Parallel()

	t.Run("decodes records and forwards pagination", func(t *testing.T) {
		t.Parallel()

		received := make(chan *http.Request, 1)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			received <- r.Clone(context.Background())
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Phone","price":549.5,"description":"A phone","brand":"Apple","stock":3}],"total":1,"skip":0,"limit":1}`))
		}))
		defer ts.Close()

		records, err := newTestClient(ts.URL, nil).FetchProducts(context.Background(), domain.ProductQuery{Limit: intPtr(1), Skip: intPtr(0)}, 7)
		if err != nil {
			t.Fatalf("FetchProducts() error = %v", err)
		}
		req := <-received
		gotPath, gotQuery, gotAuth := req.URL.Path, req.URL.RawQuery, req.Header.Get("Authorization")
		if gotPath != "/products" {
			t.Errorf("path = %q, want /products", gotPath)
		}
		if gotQuery != "limit=1&skip=0" {
			t.Errorf("query = %q, want limit=1&skip=0", gotQuery)
		}
		if gotAuth != "" {
			t.Errorf("Authorization = %q, want none", gotAuth)
		}
		want := Record{ID: 1, Title: "Phone", Price: 549.5, Description: "A phone"}
		if len(records) != 1 || records[0] != want {
			t.Fatalf("records = %+v, want [%+v]", records, want)
		}
	})

	t.Run("empty list is not an error", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"products":[],"total":0}`))
		}))
		defer ts.Close()

		records, err := newTestClient(ts.URL, nil).FetchProducts(context.Background(), domain.ProductQuery{}, 1)
		if err != nil {
			t.Fatalf("FetchProducts() error = %v", err)
		}
		if len(records) != 0 {
			t.Fatalf("records = %+v, want empty", records)
		}
	})
}

func TestFetchProductsUpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantStatus  int
		wantMessage string
	}{
		{name: "message field", status: http.StatusNotFound, body: `{"message":"Products not found"}`, wantStatus: 404, wantMessage: "Products not found"},
		{name: "error field", status: http.StatusUnauthorized, body: `{"error":"bad key"}`, wantStatus: 401, wantMessage: "bad key"},
		{name: "no json body", status: http.StatusServiceUnavailable, body: `<html>down</html>`, wantStatus: 503, wantMessage: ""},
		{name: "invalid success body", status: http.StatusOK, body: `{"products": "nope"}`, wantStatus: http.StatusBadGateway, wantMessage: "Invalid response from catalog service"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts.URL, nil).FetchProducts(context.Background(), domain.ProductQuery{}, 1)
			var perr *ProxyError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want *ProxyError", err)
			}
			if perr.Kind != Upstream || perr.Status != tt.wantStatus || perr.Message != tt.wantMessage {
				t.Fatalf("got %+v, want Upstream(%d, %q)", perr, tt.wantStatus, tt.wantMessage)
			}
		})
	}
}

func TestFetchProductsUnreachable(t *testing.T) {
	t.Parallel()

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		_, err := newTestClient(url, nil).FetchProducts(context.Background(), domain.ProductQuery{}, 1)
		var perr *ProxyError
		if !errors.As(err, &perr) || perr.Kind != Unreachable {
			t.Fatalf("error = %v, want Unreachable", err)
		}
	})

	t.Run("timeout is bounded", func(t *testing.T) {
		t.Parallel()

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer ts.Close()

		client := newTestClient(ts.URL, nil)
		client.httpClient.Timeout = 100 * time.Millisecond

		start := time.Now()
		_, err := client.FetchProducts(context.Background(), domain.ProductQuery{}, 1)
		elapsed := time.Since(start)

		var perr *ProxyError
		if !errors.As(err, &perr) || perr.Kind != Unreachable {
			t.Fatalf("error = %v, want Unreachable", err)
		}
		if elapsed > 2*time.Second {
			t.Fatalf("call took %v, want it bounded by the timeout", elapsed)
		}
	})
}

func TestCredentials(t *testing.T) {
	t.Parallel()

	capture := func(t *testing.T, cred Credential) http.Header {
		t.Helper()
		headers := make(chan http.Header, 1)
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte(`{"products":[]}`))
		}))
		defer ts.Close()

		if _, err := newTestClient(ts.URL, cred).FetchProducts(context.Background(), domain.ProductQuery{}, 42); err != nil {
			t.Fatalf("FetchProducts() error = %v", err)
		}
		return <-headers
	}

	t.Run("static key", func(t *testing.T) {
		t.Parallel()
		h := capture(t, StaticKey{Key: "svc-key"})
		if got := h.Get("Authorization"); got != "Bearer svc-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := h.Get("X-Subject-ID"); got != "42" {
			t.Errorf("X-Subject-ID = %q, want 42", got)
		}
	})

	t.Run("derived token", func(t *testing.T) {
		t.Parallel()
		secret := []byte("upstream-secret")
		h := capture(t, NewDerivedToken(secret))

		raw, ok := strings.CutPrefix(h.Get("Authorization"), "Bearer ")
		if !ok {
			t.Fatalf("Authorization = %q, want bearer token", h.Get("Authorization"))
		}
		claims := &jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return secret, nil },
			jwt.WithAudience("catalog-upstream"), jwt.WithIssuer("catalog-gateway"), jwt.WithExpirationRequired())
		if err != nil {
			t.Fatalf("derived token does not verify: %v", err)
		}
		if claims.Subject != "42" {
			t.Errorf("sub = %q, want 42", claims.Subject)
		}
	})

	t.Run("mode selection", func(t *testing.T) {
		t.Parallel()
		if c, err := NewCredential(config.UpstreamConfig{AuthMode: config.UpstreamAuthNone}); err != nil || c != (NoCredential{}) {
			t.Errorf("none mode = (%v, %v)", c, err)
		}
		if c, err := NewCredential(config.UpstreamConfig{AuthMode: config.UpstreamAuthStatic, APIKey: "k"}); err != nil || c != (StaticKey{Key: "k"}) {
			t.Errorf("static mode = (%v, %v)", c, err)
		}
		if _, err := NewCredential(config.UpstreamConfig{AuthMode: "raw"}); err == nil {
			t.Error("unknown mode should fail")
		}
	})
}
