package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

const (
	// SubjectRegionAnalyzed carries a domain.RegionAnalyzed JSON payload.
	SubjectRegionAnalyzed = "urbanscope.region.analyzed"

	streamName = "URBANSCOPE_REGIONS"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS, enables JetStream and ensures the region
// stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := &nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"urbanscope.region.>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishRegionAnalyzed publishes event on SubjectRegionAnalyzed.
func (p *Publisher) PublishRegionAnalyzed(ctx context.Context, event *domain.RegionAnalyzed) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(SubjectRegionAnalyzed, data, nats.Context(ctx)); err != nil {
		metrics.EventsPublished.WithLabelValues(SubjectRegionAnalyzed, "error").Inc()
		return fmt.Errorf("publish %s: %w", SubjectRegionAnalyzed, err)
	}
	metrics.EventsPublished.WithLabelValues(SubjectRegionAnalyzed, "ok").Inc()
	return nil
}

// Healthy reports whether the underlying connection is up.
func (p *Publisher) Healthy() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("urbanscope"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
