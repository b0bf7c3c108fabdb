package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/vecsearch/internal/domain"
	domindex "github.com/kailas-cloud/vecsearch/internal/domain/index"
	"github.com/kailas-cloud/vecsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/vecsearch/internal/usecase/health"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

// --- Mocks ---

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockLister struct {
	infos []domindex.Info
	err   error
}

func (m *mockLister) ListIndexes(_ context.Context) ([]domindex.Info, error) {
	return m.infos, m.err
}

func newTestServer(pingErr error, lister IndexLister) *Server {
	return NewServer(healthuc.New(&mockPinger{err: pingErr}, nil), lister, zap.NewNop())
}

func do(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, http.NoBody)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// --- Tests ---

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{"healthy", nil, http.StatusOK, "ok"},
		{"degraded", errors.New("down"), http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, newTestServer(tc.pingErr, nil).Router(nil), "/health", "")
			if rr.Code != tc.wantStatus {
				t.Fatalf("got %d, want %d", rr.Code, tc.wantStatus)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != tc.wantBody {
				t.Errorf("status %q, want %q", resp.Status, tc.wantBody)
			}
			if _, ok := resp.Checks["cache"]; !ok {
				t.Error("expected cache check in response")
			}
		})
	}
}

func TestHealthCheck_RequestID(t *testing.T) {
	rr := do(t, newTestServer(nil, nil).Router(nil), "/health", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestMetrics(t *testing.T) {
	h := newTestServer(nil, nil).Router([]string{"secret"})

	// one request first so the http collectors have a sample
	_ = do(t, h, "/health", "")

	rr := do(t, h, "/metrics", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "vecsearch_http_requests_total") {
		t.Error("expected vecsearch_http_requests_total in metrics output")
	}
}

func TestListIndexes(t *testing.T) {
	lister := &mockLister{infos: []domindex.Info{
		{Name: "vector_index_plot", Type: "vectorSearch", Status: domindex.StatusReady, RawStatus: "READY", Queryable: true},
		{Name: "pending", Type: "vectorSearch", Status: domindex.StatusAbsent},
	}}
	h := newTestServer(nil, lister).Router([]string{"secret"})

	if rr := do(t, h, "/indexes", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("without token: got %d, want 401", rr.Code)
	}

	rr := do(t, h, "/indexes", "secret")
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d, want 200", rr.Code)
	}

	var resp struct {
		Items []IndexItem `json:"items"`
		Total int         `json:"total"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", resp.Total)
	}
	if resp.Items[0].Status != "READY" || !resp.Items[0].Queryable {
		t.Errorf("unexpected first item: %+v", resp.Items[0])
	}
	if resp.Items[1].Status != "N/A" {
		t.Errorf("expected N/A for missing status, got %q", resp.Items[1].Status)
	}
}

func TestListIndexes_NotConfigured(t *testing.T) {
	rr := do(t, newTestServer(nil, nil).Router(nil), "/indexes", "")
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("got %d, want 501", rr.Code)
	}
}

func TestListIndexes_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"connection", fmt.Errorf("dial: %w", domain.ErrConnection), http.StatusServiceUnavailable, ErrorCodeConnectionFail},
		{"index", fmt.Errorf("list: %w", domain.ErrIndex), http.StatusBadGateway, ErrorCodeIndexError},
		{"configuration", fmt.Errorf("bad: %w", domain.ErrConfiguration), http.StatusInternalServerError, ErrorCodeConfiguration},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrorCodeInternalError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, newTestServer(nil, &mockLister{err: tc.err}).Router(nil), "/indexes", "")
			if rr.Code != tc.wantStatus {
				t.Fatalf("got %d, want %d", rr.Code, tc.wantStatus)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if errResp.Code != tc.wantCode {
				t.Errorf("code %q, want %q", errResp.Code, tc.wantCode)
			}
		})
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := do(t, h, "/anything", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type %q", ct)
	}
}
