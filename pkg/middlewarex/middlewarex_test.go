package middlewarex_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"threestar/pkg/contextx"
	"threestar/pkg/logx"
	"threestar/pkg/middlewarex"
)

func newRouter() chi.Router {
	return newRouterWithLog(io.Discard)
}

func newRouterWithLog(out io.Writer) chi.Router {
	base := slog.New(slog.NewJSONHandler(out, nil))

	r := chi.NewRouter()
	r.Use(
		func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(contextx.WithLogger(r.Context(), base)))
			})
		},
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.AccessLogging(logx.NewSensitiveDataMasker(), 16),
	)

	r.Get("/trace", func(w http.ResponseWriter, r *http.Request) {
		traceID, err := contextx.TraceIDFromContext(r.Context())
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = io.WriteString(w, traceID.String())
	})

	r.Get("/logger", func(w http.ResponseWriter, r *http.Request) {
		if _, err := contextx.LoggerFromContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		_, _ = io.WriteString(w, "a response body longer than the log field limit")
	})

	r.Get("/fail", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	r.Get("/panic", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})

	return r
}

func TestTraceID(t *testing.T) {
	tests := []struct {
		name    string
		traceID string
	}{
		{name: "Generated"},
		{name: "Propagated", traceID: "cu1d2k3lq4s5"},
		{name: "Too long", traceID: strings.Repeat("a", 65)},
		{name: "Not printable", traceID: "bad id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			req := httptest.NewRequest(http.MethodGet, "/trace", http.NoBody)
			if tt.traceID != "" {
				req.Header.Set("X-Trace-Id", tt.traceID)
			}

			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, req)

			rq.Equal(http.StatusOK, rec.Code)

			header := rec.Header().Get("X-Trace-Id")
			rq.NotEmpty(header)
			rq.Equal(header, rec.Body.String())

			if tt.name == "Propagated" {
				rq.Equal(tt.traceID, header)
			} else {
				rq.Len(header, 20)
			}
		})
	}
}

func TestLoggerInContext(t *testing.T) {
	rq := require.New(t)

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logger", http.NoBody))

	rq.Equal(http.StatusOK, rec.Code)
	rq.Equal("a response body longer than the log field limit", rec.Body.String())
}

func TestRecovery(t *testing.T) {
	rq := require.New(t)

	req := httptest.NewRequest(http.MethodGet, "/panic", http.NoBody)
	req.Header.Set("X-Trace-Id", "trace-1")

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	rq.Equal(http.StatusInternalServerError, rec.Code)
	rq.Contains(rec.Body.String(), `"supportId":"trace-1"`)
	rq.Contains(rec.Body.String(), "panic: boom")
}

func TestAccessLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantLevel string
		wantCode  float64
		wantBody  string
	}{
		{
			name:      "OK",
			path:      "/logger",
			wantLevel: "INFO",
			wantCode:  http.StatusOK,
			wantBody:  "a response body ",
		},
		{
			name:      "Server error",
			path:      "/fail",
			wantLevel: "WARN",
			wantCode:  http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			var buf bytes.Buffer

			rec := httptest.NewRecorder()
			newRouterWithLog(&buf).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			rq.Len(lines, 2)

			var request, response map[string]any

			rq.NoError(jsoniter.Unmarshal(lines[0], &request))
			rq.NoError(jsoniter.Unmarshal(lines[1], &response))

			rq.Equal(logx.FieldHTTPRequest, request["msg"])
			rq.Equal(http.MethodGet, request[logx.FieldHTTPMethod])
			rq.NotEmpty(request[logx.FieldTraceID])

			rq.Equal(tt.wantLevel, response["level"])
			rq.Equal(tt.wantCode, response[logx.FieldResponseStatus])
			rq.Equal(tt.wantBody, response[logx.FieldResponseBody])
		})
	}
}
