package hyperliquid

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsTestServer accepts stream connections, records subscribe frames and
// drops the first connection right after its first subscribe, forcing a
// reconnect.
func wsTestServer(t *testing.T) (*httptest.Server, chan string) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	subscribes := make(chan string, 8)
	var conns atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		n := conns.Add(1)

		for {
			var req wsRequest
			if err := c.ReadJSON(&req); err != nil {
				return
			}
			if req.Method != "subscribe" {
				continue
			}
			subscribes <- req.Subscription.User
			if n == 1 {
				return
			}
		}
	}))
	return srv, subscribes
}

func waitForUser(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for subscribe frame")
		return ""
	}
}

func TestFillStreamReconnectResubscribes(t *testing.T) {
	srv, subscribes := wsTestServer(t)
	defer srv.Close()
	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")

	reconnected := make(chan struct{}, 1)
	cfg := DefaultFillStreamConfig()
	cfg.ReconnectDelay = 10 * time.Millisecond
	cfg.OnReconnect = func() {
		select {
		case reconnected <- struct{}{}:
		default:
		}
	}

	stream, err := NewFillStream(context.Background(), endpoint, &cfg, nil)
	if err != nil {
		t.Fatalf("NewFillStream: %v", err)
	}
	defer stream.Close()

	if err := stream.Subscribe("0xleader"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	if got := waitForUser(t, subscribes); got != "0xleader" {
		t.Fatalf("subscribed user %q, want 0xleader", got)
	}

	// The server drops the connection after the first subscribe; the
	// stream must reconnect, report it and resubscribe on its own.
	select {
	case <-reconnected:
	case <-time.After(5 * time.Second):
		t.Fatal("reconnect callback never fired")
	}
	if got := waitForUser(t, subscribes); got != "0xleader" {
		t.Fatalf("resubscribed user %q, want 0xleader", got)
	}
}

func TestFillStreamDeliversUserFills(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()

		var req wsRequest
		if err := c.ReadJSON(&req); err != nil {
			return
		}
		payload := `{"channel":"userFills","data":{"user":"` + req.Subscription.User +
			`","isSnapshot":false,"fills":[{"px":"10","sz":"2","side":"B","time":1700000000000}]}}`
		if err := c.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			return
		}
		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()
	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")

	stream, err := NewFillStream(context.Background(), endpoint, nil, nil)
	if err != nil {
		t.Fatalf("NewFillStream: %v", err)
	}
	defer stream.Close()

	if err := stream.Subscribe("0xleader"); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	select {
	case ev := <-stream.Events():
		if ev.User != "0xleader" {
			t.Errorf("event user = %q, want 0xleader", ev.User)
		}
		if len(ev.Fills) != 1 || ev.Fills[0].Px != "10" {
			t.Errorf("unexpected fills: %+v", ev.Fills)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no fill event delivered")
	}
}
