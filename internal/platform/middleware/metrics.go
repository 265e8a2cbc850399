// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkwell/internal/platform/metrics"
)

// metricsPath is excluded so scrapes do not measure themselves.
const metricsPath = "/metrics"

// Metrics records request count, latency and in-flight gauge per route pattern.
//
// The chi route pattern (e.g. /api/v1/posts/{slug}) is used as the label, so
// label cardinality stays bounded by the number of registered routes.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path == metricsPath {
			next.ServeHTTP(writer, request)
			return
		}

		startTime := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(wrappedWriter, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.HTTPRequestsTotal.WithLabelValues(request.Method, route, strconv.Itoa(wrappedWriter.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}
