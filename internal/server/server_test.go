package server

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/apishape/openapi"
)

func testSpec() *openapi.Spec {
	person := openapi.NewSchema("Person", openapi.NewProperties(
		openapi.Prop("first_name", openapi.String("Jane")),
	))

	spec := openapi.NewSpec(openapi.Info{Title: "People API", Version: "1.0.0"})
	spec.AddSchema(person)
	return spec
}

func serve(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNew(t *testing.T) {
	bundles := fstest.MapFS{
		"myserviceOpenapi.json": {Data: []byte(`{"openapi":"3.1.0"}`)},
	}
	srv := New(testSpec(), Options{Addr: "127.0.0.1:0", Bundles: bundles})
	h := srv.Handler

	tests := []struct {
		name        string
		method      string
		target      string
		status      int
		contentType string
	}{
		{"docs ui", http.MethodGet, "/docs/", http.StatusOK, "text/html; charset=utf-8"},
		{"docs ui without slash", http.MethodGet, "/docs", http.StatusOK, "text/html; charset=utf-8"},
		{"json document", http.MethodGet, "/docs/schema.json", http.StatusOK, "application/json"},
		{"yaml document", http.MethodGet, "/docs/schema.yaml", http.StatusOK, "application/x-yaml"},
		{"bundle file", http.MethodGet, "/bundles/myserviceOpenapi.json", http.StatusOK, "application/json"},
		{"bundle dir is hidden", http.MethodGet, "/bundles/", http.StatusNotFound, ""},
		{"missing bundle", http.MethodGet, "/bundles/other.json", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, tt.method, tt.target, nil)
			assert.Equal(t, tt.status, w.Code)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			}
		})
	}

	t.Run("root redirects to docs", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/docs/", w.Header().Get("Location"))
	})

	t.Run("timeouts", func(t *testing.T) {
		assert.Equal(t, "127.0.0.1:0", srv.Addr)
		assert.Equal(t, 5*time.Second, srv.ReadHeaderTimeout)
	})
}

func TestNewCustomDocsPath(t *testing.T) {
	h := New(testSpec(), Options{DocsPath: "/reference/"}).Handler

	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/reference/schema.json", nil).Code)
	assert.Equal(t, "/reference/", serve(h, http.MethodGet, "/", nil).Header().Get("Location"))
	assert.Equal(t, http.StatusNotFound, serve(h, http.MethodGet, "/bundles/x", nil).Code)
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/", nil)
		id := w.Header().Get(RequestIDHeader)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())
		assert.Equal(t, id, seen)
	})

	t.Run("incoming", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/", http.Header{RequestIDHeader: {"abc"}})
		assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "abc", seen)
	})

	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), Recovery(logger))

	w := serve(h, http.MethodGet, "/people", http.Header{RequestIDHeader: {"req-1"}})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "panic=boom")
	assert.Contains(t, buf.String(), "path=/people")
	assert.Contains(t, buf.String(), "request_id=req-1")
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	h := AccessLog(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	serve(h, http.MethodGet, "/x", nil)
	assert.Contains(t, buf.String(), "status=418")
	assert.Contains(t, buf.String(), "path=/x")
}

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := CORS()(next)

	t.Run("no origin", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/", nil)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request", func(t *testing.T) {
		w := serve(h, http.MethodGet, "/", http.Header{"Origin": {"https://editor.example.com"}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", w.Header().Get("Vary"))
	})

	t.Run("preflight", func(t *testing.T) {
		w := serve(h, http.MethodOptions, "/", http.Header{
			"Origin":                         {"https://editor.example.com"},
			"Access-Control-Request-Method":  {"GET"},
			"Access-Control-Request-Headers": {"X-Request-ID"},
		})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "GET, HEAD, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "X-Request-ID", w.Header().Get("Access-Control-Allow-Headers"))
	})
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mw("a"), mw("b"))

	serve(h, http.MethodGet, "/", nil)
	assert.Equal(t, []string{"a", "b", "handler"}, order)
}

func TestRun(t *testing.T) {
	srv := New(testSpec(), Options{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, srv)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
