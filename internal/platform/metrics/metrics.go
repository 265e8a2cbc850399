// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors exported by the API.
//
// Collectors are grouped by concern: HTTP traffic, blog activity and the
// database pool. All of them register on the default registry through
// promauto and are exposed by [Handler].
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "inkwell"

// # HTTP Traffic

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)
)

// # Blog Activity

var (
	PostsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blog",
			Name:      "posts_created_total",
			Help:      "Total number of posts created",
		},
	)

	CommentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blog",
			Name:      "comments_created_total",
			Help:      "Total number of comments created",
		},
	)

	PostViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blog",
			Name:      "post_views_total",
			Help:      "Total number of counted post detail views",
		},
	)
)

// # Database Pool

var DBPoolConnections = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "db",
		Name:      "pool_connections",
		Help:      "Database connection pool stats by state",
	},
	[]string{"state"},
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// PoolStats is the subset of [pgxpool.Stat] the collector reads.
type PoolStats interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
}

// PoolStatsProvider yields a fresh [PoolStats] snapshot on each call.
type PoolStatsProvider func() PoolStats

// PoolStatsCollector samples pool statistics on a fixed interval.
type PoolStatsCollector struct {
	provider PoolStatsProvider
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewPoolStatsCollector creates a collector reading from a pgx pool.
func NewPoolStatsCollector(pool *pgxpool.Pool) *PoolStatsCollector {
	return NewPoolStatsCollectorWithProvider(func() PoolStats { return pool.Stat() })
}

// NewPoolStatsCollectorWithProvider creates a collector with a custom source.
func NewPoolStatsCollectorWithProvider(provider PoolStatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		provider: provider,
		stop:     make(chan struct{}),
	}
}

// Start begins sampling every interval until [PoolStatsCollector.Stop] is called.
func (collector *PoolStatsCollector) Start(interval time.Duration) {
	collector.wg.Add(1)
	go func() {
		defer collector.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		collector.Collect()
		for {
			select {
			case <-ticker.C:
				collector.Collect()
			case <-collector.stop:
				return
			}
		}
	}()
}

// Collect records a single snapshot.
func (collector *PoolStatsCollector) Collect() {
	stats := collector.provider()
	DBPoolConnections.WithLabelValues("total").Set(float64(stats.TotalConns()))
	DBPoolConnections.WithLabelValues("idle").Set(float64(stats.IdleConns()))
	DBPoolConnections.WithLabelValues("in_use").Set(float64(stats.AcquiredConns()))
}

// Stop halts sampling and waits for the goroutine to exit. Safe to call twice.
func (collector *PoolStatsCollector) Stop() {
	collector.once.Do(func() { close(collector.stop) })
	collector.wg.Wait()
}
