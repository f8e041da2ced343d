package hyperliquid

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// FillStreamConfig configures WebSocket stream behavior.
type FillStreamConfig struct {
	// ReconnectDelay is the initial delay before a reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay caps the delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
	// EventBuffer is the capacity of the delivered events channel.
	EventBuffer int
	// OnReconnect, when set, is called after every successful reconnect.
	OnReconnect func()
}

// DefaultFillStreamConfig returns the default stream configuration.
func DefaultFillStreamConfig() FillStreamConfig {
	return FillStreamConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		EventBuffer:       256,
	}
}

// UserFillsEvent is one delivered fill notification for a subscribed user.
type UserFillsEvent struct {
	User       string `json:"user"`
	IsSnapshot bool   `json:"isSnapshot"`
	Fills      []Fill `json:"fills"`
}

// wsMessage is the envelope of every stream message.
type wsMessage struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

// wsRequest is a subscribe/unsubscribe frame.
type wsRequest struct {
	Method       string         `json:"method"`
	Subscription wsSubscription `json:"subscription"`
}

type wsSubscription struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// FillStream delivers live userFills events over the Hyperliquid WebSocket
// API and transparently reconnects and resubscribes on connection loss.
type FillStream struct {
	endpoint string
	config   FillStreamConfig
	logger   *logrus.Entry

	conn   *websocket.Conn
	connMu sync.Mutex
	closed atomic.Bool

	// users holds active subscriptions for resubscription after reconnect.
	users   map[string]struct{}
	usersMu sync.Mutex

	events chan UserFillsEvent
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewFillStream connects to the endpoint and starts the read and ping loops.
func NewFillStream(ctx context.Context, endpoint string, config *FillStreamConfig, logger *logrus.Logger) (*FillStream, error) {
	cfg := DefaultFillStreamConfig()
	if config != nil {
		cfg = *config
	}
	if logger == nil {
		logger = logrus.New()
	}

	s := &FillStream{
		endpoint: endpoint,
		config:   cfg,
		logger:   logger.WithField("component", "fill_stream"),
		users:    make(map[string]struct{}),
		events:   make(chan UserFillsEvent, cfg.EventBuffer),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(2)
	go s.readLoop()
	go s.pingLoop()

	return s, nil
}

// Events returns the channel of delivered fill events. The channel is closed
// when the stream shuts down. Events are dropped when the buffer is full.
func (s *FillStream) Events() <-chan UserFillsEvent {
	return s.events
}

// Subscribe starts streaming fills for the given user address.
func (s *FillStream) Subscribe(user string) error {
	s.usersMu.Lock()
	s.users[user] = struct{}{}
	s.usersMu.Unlock()

	return s.send(wsRequest{
		Method:       "subscribe",
		Subscription: wsSubscription{Type: "userFills", User: user},
	})
}

// Unsubscribe stops streaming fills for the given user address.
func (s *FillStream) Unsubscribe(user string) error {
	s.usersMu.Lock()
	delete(s.users, user)
	s.usersMu.Unlock()

	return s.send(wsRequest{
		Method:       "unsubscribe",
		Subscription: wsSubscription{Type: "userFills", User: user},
	})
}

// Close shuts down the stream and closes the events channel.
func (s *FillStream) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.events)
	return nil
}

// connect dials the endpoint and installs the connection.
func (s *FillStream) connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.endpoint, err)
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	return nil
}

// send writes one JSON frame under the write timeout.
func (s *FillStream) send(v any) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return fmt.Errorf("fill stream not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	return s.conn.WriteJSON(v)
}

// readLoop reads messages until shutdown, reconnecting on errors.
func (s *FillStream) readLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}
			s.logger.WithError(err).Warn("read failed, reconnecting")
			if !s.reconnect() {
				return
			}
			continue
		}

		s.dispatch(data)
	}
}

// dispatch decodes one frame and delivers userFills events.
func (s *FillStream) dispatch(data []byte) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.logger.WithError(err).Debug("skipping undecodable frame")
		return
	}
	if msg.Channel != "userFills" {
		return
	}

	var event UserFillsEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		s.logger.WithError(err).Warn("undecodable userFills payload")
		return
	}

	select {
	case s.events <- event:
	default:
		s.logger.WithField("user", event.User).Warn("event buffer full, dropping fills")
	}
}

// reconnect re-dials with capped exponential backoff and resubscribes all
// active users. Returns false when the stream was closed meanwhile.
func (s *FillStream) reconnect() bool {
	delay := s.config.ReconnectDelay

	for {
		select {
		case <-s.done:
			return false
		case <-time.After(delay):
		}

		ctx, cancel := context.WithTimeout(context.Background(), s.config.WriteTimeout)
		err := s.connect(ctx)
		cancel()
		if err != nil {
			s.logger.WithError(err).Warn("reconnect failed")
			delay *= 2
			if delay > s.config.MaxReconnectDelay {
				delay = s.config.MaxReconnectDelay
			}
			continue
		}

		if s.config.OnReconnect != nil {
			s.config.OnReconnect()
		}
		s.resubscribe()
		return true
	}
}

// resubscribe re-issues subscriptions for all tracked users.
func (s *FillStream) resubscribe() {
	s.usersMu.Lock()
	users := make([]string, 0, len(s.users))
	for u := range s.users {
		users = append(users, u)
	}
	s.usersMu.Unlock()

	for _, u := range users {
		err := s.send(wsRequest{
			Method:       "subscribe",
			Subscription: wsSubscription{Type: "userFills", User: u},
		})
		if err != nil {
			s.logger.WithError(err).WithField("user", u).Warn("resubscribe failed")
		}
	}
}

// pingLoop sends ping frames to keep the connection alive.
func (s *FillStream) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					s.logger.WithError(err).Debug("ping failed")
				}
			}
			s.connMu.Unlock()
		}
	}
}
