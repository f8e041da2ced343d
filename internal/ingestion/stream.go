package ingestion

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"hyperliquid-vault-lab/internal/hyperliquid"
)

// DirtySet tracks vault addresses with activity since the last drain.
type DirtySet struct {
	mu  sync.Mutex
	set map[string]struct{}
}

func NewDirtySet() *DirtySet {
	return &DirtySet{set: make(map[string]struct{})}
}

func (s *DirtySet) Mark(address string) {
	if address == "" {
		return
	}
	s.mu.Lock()
	s.set[address] = struct{}{}
	s.mu.Unlock()
}

// Drain returns the marked addresses sorted and resets the set.
func (s *DirtySet) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.set) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.set))
	for addr := range s.set {
		out = append(out, addr)
	}
	s.set = make(map[string]struct{})
	sort.Strings(out)
	return out
}

func (s *DirtySet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.set)
}

// StreamWatcher consumes fill events from a websocket stream and marks
// the affected vaults dirty so the next scheduled run can refresh them.
type StreamWatcher struct {
	stream *hyperliquid.FillStream
	dirty  *DirtySet
	logger *logrus.Entry

	onEvent func(ev hyperliquid.UserFillsEvent)
}

func NewStreamWatcher(stream *hyperliquid.FillStream, dirty *DirtySet, logger *logrus.Logger) *StreamWatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &StreamWatcher{
		stream: stream,
		dirty:  dirty,
		logger: logger.WithField("component", "stream_watcher"),
	}
}

// SetEventHook registers a callback invoked for every fill event, used
// for instrumentation. Must be called before Run.
func (w *StreamWatcher) SetEventHook(fn func(ev hyperliquid.UserFillsEvent)) {
	w.onEvent = fn
}

// Run consumes events until ctx is cancelled or the stream closes.
func (w *StreamWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.stream.Events():
			if !ok {
				w.logger.Info("fill stream closed")
				return
			}
			if ev.IsSnapshot {
				continue
			}
			w.dirty.Mark(ev.User)
			if w.onEvent != nil {
				w.onEvent(ev)
			}
			w.logger.WithFields(logrus.Fields{
				"vault": ev.User,
				"fills": len(ev.Fills),
			}).Debug("vault marked dirty")
		}
	}
}
