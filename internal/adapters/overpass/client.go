// Package overpass queries an Overpass API interpreter for OpenStreetMap
// elements.
package overpass

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/rotisserie/eris"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

// DefaultURL is the public Overpass interpreter endpoint.
const DefaultURL = "https://overpass-api.de/api/interpreter"

const sourceName = "Overpass"

var tracer = otel.Tracer("urbanscope/overpass")

// Client implements ports.SpatialDataSource against an Overpass interpreter.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client. An empty url uses DefaultURL.
func New(url, userAgent string, timeout time.Duration, opts ...Option) *Client {
	if url == "" {
		url = DefaultURL
	}
	c := &Client{
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type response struct {
	Elements []element `json:"elements"`
}

type element struct {
	Type     string            `json:"type"`
	ID       int64             `json:"id"`
	Tags     map[string]string `json:"tags"`
	Geometry []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"geometry"`
}

func (e element) record() domain.FeatureRecord {
	rec := domain.FeatureRecord{Type: e.Type, ID: e.ID, Tags: e.Tags}
	if len(e.Geometry) > 0 {
		rec.Geometry = make(orb.LineString, len(e.Geometry))
		for i, g := range e.Geometry {
			rec.Geometry[i] = orb.Point{g.Lon, g.Lat}
		}
	}
	return rec
}

// FetchFeatures posts query as the raw request body and decodes the returned
// elements. A response without an elements array yields an empty list.
func (c *Client) FetchFeatures(ctx context.Context, query string) ([]domain.FeatureRecord, error) {
	ctx, span := tracer.Start(ctx, "overpass.fetch-features")
	defer span.End()

	start := time.Now()
	records, err := c.fetch(ctx, query)
	metrics.UpstreamDuration.WithLabelValues("overpass").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("overpass", domain.ErrorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	metrics.FeaturesFetched.Observe(float64(len(records)))
	span.SetAttributes(attribute.Int("overpass.elements", len(records)))
	return records, nil
}

func (c *Client) fetch(ctx context.Context, query string) ([]domain.FeatureRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		return nil, upstreamErr(domain.ErrUpstreamRequest, 0, eris.Wrap(err, "build request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstreamErr(domain.ErrUpstreamRequest, 0, eris.Wrap(err, "post interpreter"))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamErr(domain.ErrUpstreamStatus, resp.StatusCode, nil)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, upstreamErr(domain.ErrUpstreamParse, 0, eris.Wrap(err, "decode response"))
	}

	records := make([]domain.FeatureRecord, len(body.Elements))
	for i, e := range body.Elements {
		records[i] = e.record()
	}
	return records, nil
}

func upstreamErr(kind error, status int, cause error) error {
	return &domain.UpstreamError{Source: sourceName, Kind: kind, StatusCode: status, Err: cause}
}
