// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/respond"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase HealthCheck

	// CheckCache pings the Redis client.
	CheckCache HealthCheck
}

type healthHandler struct {
	dependencies HealthDependencies
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{
		constants.FieldStatus:  "ok",
		constants.FieldApp:     constants.AppName,
		constants.FieldVersion: constants.AppVersion,
	})
}

type checkResult struct {
	Name string `json:"name"`
	IsOK bool   `json:"ok"`
}

// readiness handles GET /ready (Readiness probe). Failure causes are logged,
// never returned.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	checks := []struct {
		name  string
		check HealthCheck
	}{
		{"postgres", handler.dependencies.CheckDatabase},
		{"redis", handler.dependencies.CheckCache},
	}

	results := make([]checkResult, 0, len(checks))
	isSystemReady := true

	for _, dependency := range checks {
		if dependency.check == nil {
			continue
		}

		result := checkResult{Name: dependency.name, IsOK: true}
		if err := dependency.check(ctx); err != nil {
			result.IsOK = false
			isSystemReady = false
			ctxutil.GetLogger(ctx).ErrorContext(ctx, "readiness_check_failed",
				slog.String("dependency", dependency.name),
				slog.Any(constants.FieldError, err),
			)
		}
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	})
}
