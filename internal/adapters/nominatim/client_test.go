package nominatim

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

const testUA = "urbanscope-test/1.0"

func newTestClient(url string) *Client {
	return New(url, testUA, 5*time.Second, WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
}

func TestSearch_Success(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"place_id": 1, "lat": "43.2630", "lon": "-2.9350", "display_name": "Bilbao, Biscay, Basque Country, Spain"},
			{"place_id": 2, "lat": "not-a-number", "lon": "", "display_name": "Broken"}
		]`)
	}))
	defer srv.Close()

	places, err := newTestClient(srv.URL).Search(context.Background(), "Bilbao & co", 5)
	require.NoError(t, err)

	require.NotNil(t, gotReq)
	assert.Equal(t, "/search", gotReq.URL.Path)
	q := gotReq.URL.Query()
	assert.Equal(t, "json", q.Get("format"))
	assert.Equal(t, "Bilbao & co", q.Get("q"))
	assert.Equal(t, "5", q.Get("limit"))
	assert.Equal(t, "0", q.Get("addressdetails"))
	assert.Equal(t, testUA, gotReq.Header.Get("User-Agent"))

	require.Len(t, places, 2)
	assert.Equal(t, domain.Place{X: -2.935, Y: 43.263, Label: "Bilbao, Biscay, Basque Country, Spain"}, places[0])
	assert.Equal(t, domain.Place{X: 0, Y: 0, Label: "Broken"}, places[1])
}

func TestSearch_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	places, err := newTestClient(srv.URL).Search(context.Background(), "nowhere", 5)
	require.NoError(t, err)
	assert.NotNil(t, places)
	assert.Empty(t, places)
}

func TestSearch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "Bilbao", 5)
	assert.ErrorIs(t, err, domain.ErrUpstreamStatus)
	assert.EqualError(t, err, "Nominatim non-OK status: 403")
}

func TestSearch_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"error": "not an array"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "Bilbao", 5)
	assert.ErrorIs(t, err, domain.ErrUpstreamParse)
	assert.True(t, strings.HasPrefix(err.Error(), "Nominatim JSON parse error: "))
}

func TestSearch_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Search(context.Background(), "Bilbao", 5)
	assert.ErrorIs(t, err, domain.ErrUpstreamRequest)
	assert.True(t, strings.HasPrefix(err.Error(), "Nominatim request error: "))
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/", testUA, time.Second)
	assert.Equal(t, "http://localhost:8080", c.baseURL)

	c = New("", testUA, time.Second)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
}
