// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Log: Structured activity logging (slog).
  - Measure: Prometheus request metrics per route pattern.
  - Guard: Rate limiting and CORS validation.
  - Safe: Panic recovery to prevent server crashes.

Domain handlers can therefore focus purely on business logic.
*/
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Check if the client already provided an ID
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Generate a new one if missing (UUID v7 is time-sortable)
			if requestID == "" {
				if uuidV7, err := uuid.NewV7(); err == nil {
					requestID = uuidV7.String()
				} else {
					requestID = uuid.NewString()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

// statusRecorder captures the status code written by downstream handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and latency.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}

			// 3. Proceed to downstream handlers with the enriched context
			next.ServeHTTP(wrappedWriter, request.WithContext(ctx))

			// 4. Final log entry after the request is finished
			logLevel := slog.LevelInfo
			if wrappedWriter.status >= http.StatusInternalServerError {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= http.StatusBadRequest {
				logLevel = slog.LevelWarn
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished",
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			)
		})
	}
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter tracks one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	rps     rate.Limit
	burst   int
}

// NewRateLimiter creates a limiter and starts its janitor goroutine, which
// evicts idle clients until ctx is cancelled.
func NewRateLimiter(ctx context.Context, requestsPerSecond float64, burst int) *RateLimiter {
	limiter := &RateLimiter{
		clients: make(map[string]*rateLimitClient),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.evict(time.Now())
			case <-ctx.Done():
				return
			}
		}
	}()

	return limiter
}

// allow consumes a token for the client, creating its bucket on first sight.
func (limiter *RateLimiter) allow(clientIP string) bool {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	client, found := limiter.clients[clientIP]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(limiter.rps, limiter.burst)}
		limiter.clients[clientIP] = client
	}
	client.lastSeen = time.Now()

	return client.limiter.Allow()
}

func (limiter *RateLimiter) evict(now time.Time) {
	limiter.mu.Lock()
	defer limiter.mu.Unlock()

	for ip, client := range limiter.clients {
		if now.Sub(client.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.clients, ip)
		}
	}
}

// Middleware rejects requests over the per-IP budget with 429.
func (limiter *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !limiter.allow(RealIP(request)) {
			writer.Header().Set("Retry-After", "1")
			respond.Error(writer, request, apperr.RateLimited(1))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs the stack trace and returns 500.
func PanicRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			// net/http uses this sentinel to abort a response silently
			if recovered == http.ErrAbortHandler {
				panic(recovered)
			}

			stackTrace := make([]byte, 4096)
			length := runtime.Stack(stackTrace, false)

			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
				slog.Any(constants.FieldError, recovered),
				slog.String("stack", string(stackTrace[:length])),
			)

			respond.Error(writer, request, apperr.Internal(nil))
		}()

		next.ServeHTTP(writer, request)
	})
}

// # Cross-Origin Resource Sharing

// CORS allows browser calls from the configured origins. A single "*" entry
// allows any origin, without credentials.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowCredentials = false
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", constants.HeaderAuthorization, constants.HeaderXRequestID},
		ExposedHeaders:   []string{constants.HeaderXRequestID},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	}).Handler
}

// # Middleware Helpers

// RealIP extracts the client IP, respecting common proxy headers.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
