package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/urbanscope/internal/core/usecases"
)

// Pinger is implemented by backing services the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReporter is implemented by connections that know whether they are up.
type HealthReporter interface {
	Healthy() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Regions *usecases.RegionService
	Places  *usecases.PlaceService
	NATS    *nats.Conn // WebSocket relay; nil disables subscriptions
	Cache   Pinger
	Events  HealthReporter // RegionAnalyzed publisher; nil when events are off

	AnalyzeTimeout time.Duration // per-request budget for analysis routes
	RateLimit      int           // analysis requests per minute per IP, 0 disables
}

const (
	defaultAnalyzeTimeout = 75 * time.Second
	lookupTimeout         = 20 * time.Second
)

func (d *Dependencies) analyzeTimeout() time.Duration {
	if d.AnalyzeTimeout <= 0 {
		return defaultAnalyzeTimeout
	}
	return d.AnalyzeTimeout
}
