package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"activities-api/internal/common/errors"
	"activities-api/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), nil, mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecoverPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	h := RecoverPanic(logger.NewZapAdapter(zap.New(core)))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/activities", nil)
	req.Header.Set(requestIDHeader, "req-9")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body errors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.ErrCodeInternal, body.Code)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "panic recovered", entry.Message)
	assert.Equal(t, "kaboom", entry.ContextMap()["panic"])
	assert.Equal(t, "req-9", entry.ContextMap()["requestId"])
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	routeOf := func(*http.Request) string { return "GET /activities" }
	h := AccessLog(logger.NewZapAdapter(zap.New(core)), routeOf)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/activities", nil))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "GET /activities", fields["route"])
	assert.EqualValues(t, 200, fields["status"])
	assert.EqualValues(t, 2, fields["bytes"])
}

func TestStatusRecorderKeepsFirstStatus(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	rec.WriteHeader(http.StatusNotFound)
	rec.WriteHeader(http.StatusOK)
	assert.Equal(t, http.StatusNotFound, rec.status)
	assert.Same(t, rec, newStatusRecorder(rec))
}
