package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"activities-api/internal/common/errors"
	"activities-api/internal/common/logger"
	"activities-api/internal/common/metrics"
	"activities-api/internal/common/observability"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const requestIDHeader = "X-Request-ID"

// Middleware wraps an HTTP handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware in declaration order, the first being outermost.
func Chain(handler http.Handler, middleware ...Middleware) http.Handler {
	wrapped := handler
	for idx := len(middleware) - 1; idx >= 0; idx-- {
		if middleware[idx] == nil {
			continue
		}
		wrapped = middleware[idx](wrapped)
	}
	return wrapped
}

// statusRecorder captures the status code and body size written downstream.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int
	wroteHeader bool
}

func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RecoverPanic converts panics into a JSON 500 and logs the stack.
func RecoverPanic(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}
				log.Error("panic recovered", map[string]interface{}{
					"method":    r.Method,
					"path":      r.URL.Path,
					"requestId": r.Header.Get(requestIDHeader),
					"panic":     fmt.Sprint(recovered),
					"stack":     string(debug.Stack()),
				})
				if !rec.wroteHeader {
					stdErr := errors.NewInternalError(fmt.Errorf("panic: %v", recovered))
					errors.WriteJSON(rec, http.StatusInternalServerError, errors.ErrorResponse{
						Detail: stdErr.Message,
						Code:   stdErr.Code,
					})
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

// RequestID injects and echoes a request id for correlation.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
				r.Header.Set(requestIDHeader, requestID)
			}
			w.Header().Set(requestIDHeader, requestID)
			next.ServeHTTP(w, r)
		})
	}
}

// Tracing starts one server span per request, named after the matched route.
func Tracing(tracer trace.Tracer, routeOf func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		if tracer == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeOf(r)
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			ctx, span := tracer.Start(ctx, route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.method", r.Method),
					attribute.String("http.route", route),
					attribute.String("http.request_id", r.Header.Get(requestIDHeader)),
				),
			)
			defer span.End()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r.WithContext(ctx))

			span.SetAttributes(attribute.Int("http.status_code", rec.status))
			if rec.status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rec.status))
			}
		})
	}
}

// AccessLog writes one structured line per request.
func AccessLog(log logger.Logger, routeOf func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			fields := map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"route":      routeOf(r),
				"status":     rec.status,
				"bytes":      rec.bytes,
				"latency":    time.Since(start).String(),
				"requestId":  r.Header.Get(requestIDHeader),
				"remoteAddr": r.RemoteAddr,
			}
			if rec.status >= http.StatusInternalServerError {
				log.Error("request completed", fields)
				return
			}
			log.Info("request completed", fields)
		})
	}
}

// Metrics records Prometheus and OpenTelemetry request metrics. obs may be nil.
func Metrics(obs *observability.Observability, routeOf func(*http.Request) string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			metrics.HTTPRequestsInFlight.Inc()
			defer metrics.HTTPRequestsInFlight.Dec()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			route := routeOf(r)
			elapsed := time.Since(start)
			metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
			if obs != nil {
				obs.RecordRequest(r.Context(), route, rec.status, elapsed)
			}
		})
	}
}
