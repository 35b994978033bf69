// Package nominatim resolves free-text place names through a Nominatim
// search endpoint.
package nominatim

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/urbanscope/internal/core/domain"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

// DefaultBaseURL is the public OpenStreetMap Nominatim instance.
const DefaultBaseURL = "https://nominatim.openstreetmap.org"

const sourceName = "Nominatim"

var tracer = otel.Tracer("urbanscope/nominatim")

// Client implements ports.Geocoder.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client. An empty baseURL uses DefaultBaseURL.
func New(baseURL, userAgent string, timeout time.Duration, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
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

type item struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search asks for at most limit matches without address details. Coordinates
// that do not parse as numbers are reported as 0.
func (c *Client) Search(ctx context.Context, text string, limit int) ([]domain.Place, error) {
	ctx, span := tracer.Start(ctx, "nominatim.search")
	defer span.End()

	start := time.Now()
	places, err := c.search(ctx, text, limit)
	metrics.UpstreamDuration.WithLabelValues("nominatim").Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("nominatim", domain.ErrorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("nominatim.results", len(places)))
	return places, nil
}

func (c *Client) search(ctx context.Context, text string, limit int) ([]domain.Place, error) {
	params := url.Values{
		"format":         {"json"},
		"q":              {text},
		"limit":          {strconv.Itoa(limit)},
		"addressdetails": {"0"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, upstreamErr(domain.ErrUpstreamRequest, 0, eris.Wrap(err, "build request"))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, upstreamErr(domain.ErrUpstreamRequest, 0, eris.Wrap(err, "get search"))
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamErr(domain.ErrUpstreamStatus, resp.StatusCode, nil)
	}

	var items []item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, upstreamErr(domain.ErrUpstreamParse, 0, eris.Wrap(err, "decode response"))
	}

	places := make([]domain.Place, 0, len(items))
	for _, it := range items {
		places = append(places, domain.Place{
			X:     parseCoord(it.Lon),
			Y:     parseCoord(it.Lat),
			Label: it.DisplayName,
		})
	}
	return places, nil
}

func parseCoord(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func upstreamErr(kind error, status int, cause error) error {
	return &domain.UpstreamError{Source: sourceName, Kind: kind, StatusCode: status, Err: cause}
}
