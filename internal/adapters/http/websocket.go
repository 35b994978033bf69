package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/urbanscope/internal/adapters/nats"
	"github.com/samirrijal/urbanscope/internal/pkg/metrics"
)

// wsRequest is sent by clients.
//
//	{"action":"analyze","bounds":[[lat,lng],[lat,lng]]}
//	{"action":"subscribe"} / {"action":"unsubscribe"}
type wsRequest struct {
	Action string      `json:"action"`
	Bounds [][]float64 `json:"bounds,omitempty"`
}

// wsResponse is sent to clients; Type is report, event, status or error.
type wsResponse struct {
	Type   string          `json:"type"`
	Report interface{}     `json:"report,omitempty"`
	Event  json.RawMessage `json:"event,omitempty"`
	Status string          `json:"status,omitempty"`
	Error  *APIError       `json:"error,omitempty"`
}

// WebSocketHandler runs analyses requested over the socket and, on
// subscribe, relays region-analyzed events from NATS.
func WebSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		log := slog.Default().With("remote_addr", c.RemoteAddr().String())
		log.Info("ws client connected")
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		var mu sync.Mutex
		var sub *nats.Subscription

		writeJSON := func(v wsResponse) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}
		wsError := func(status int, code, msg string) error {
			return writeJSON(wsResponse{Type: "error", Error: &APIError{Status: status, Code: code, Message: msg}})
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsRequest
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = wsError(400, "bad_request", "invalid JSON")
				continue
			}

			switch m.Action {
			case "analyze":
				ctx, cancel := context.WithTimeout(context.Background(), deps.analyzeTimeout())
				report, err := deps.Regions.Analyze(ctx, m.Bounds)
				cancel()
				if err != nil {
					apiErr := classify(err)
					_ = writeJSON(wsResponse{Type: "error", Error: &apiErr})
					continue
				}
				_ = writeJSON(wsResponse{Type: "report", Report: report})

			case "subscribe":
				if deps.NATS == nil {
					_ = wsError(503, "unavailable", "event relay not configured")
					continue
				}
				if sub != nil {
					_ = writeJSON(wsResponse{Type: "status", Status: "already subscribed"})
					continue
				}
				s, err := deps.NATS.Subscribe(natsadapter.SubjectRegionAnalyzed, func(msg *nats.Msg) {
					_ = writeJSON(wsResponse{Type: "event", Event: json.RawMessage(msg.Data)})
				})
				if err != nil {
					_ = wsError(502, "upstream_error", "subscribe failed: "+err.Error())
					continue
				}
				sub = s
				_ = writeJSON(wsResponse{Type: "status", Status: "subscribed"})

			case "unsubscribe":
				if sub == nil {
					_ = wsError(400, "bad_request", "not subscribed")
					continue
				}
				_ = sub.Unsubscribe()
				sub = nil
				_ = writeJSON(wsResponse{Type: "status", Status: "unsubscribed"})

			default:
				_ = wsError(400, "bad_request", "unknown action: "+m.Action)
			}
		}

		close(done)
		if sub != nil {
			_ = sub.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}
