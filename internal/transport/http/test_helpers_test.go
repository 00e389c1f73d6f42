package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"parley/internal/config"
	"parley/internal/core"
	"parley/internal/proto"
)

// testOutbound mirrors proto.Outbound with a raw payload so tests can decode
// per frame type.
type testOutbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := zerolog.Nop()
	hub := core.NewHub(&logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	server := NewServer(hub, config.Config{
		Addr:              ":0",
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}, &logger)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.Dial(ctx, wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, payload any) {
	t.Helper()

	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", frameType, err)
		}
		data = raw
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: data}); err != nil {
		t.Fatalf("send %s: %v", frameType, err)
	}
}

// readUntil reads frames until one of the wanted type arrives, skipping the
// rest, and returns its raw payload.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string) json.RawMessage {
	t.Helper()

	for {
		var out testOutbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			t.Fatalf("read while waiting for %q: %v", frameType, err)
		}
		if out.Type == frameType {
			return out.Data
		}
	}
}

func joinWS(t *testing.T, ctx context.Context, ts *httptest.Server, name string) *websocket.Conn {
	t.Helper()

	conn := dialWS(t, ctx, ts)
	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{DisplayName: name})
	readUntil(t, ctx, conn, proto.OutboundTypeWelcome)
	return conn
}
