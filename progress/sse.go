package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// subscriberBuffer bounds the per-client event queue; a client that falls
// behind loses events rather than stalling the harvest.
const subscriberBuffer = 64

// SSE broadcasts events to HTTP clients over Server-Sent Events. It is a
// Sink on the producing side and an http.Handler on the consuming side.
type SSE struct {
	logger *slog.Logger

	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewSSE(logger *slog.Logger) *SSE {
	if logger == nil {
		logger = slog.Default()
	}
	return &SSE{logger: logger, subs: make(map[chan Event]struct{})}
}

// Routes mounts the event stream on a chi router at /events.
func (s *SSE) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/events", s.ServeHTTP)
	return r
}

func (s *SSE) Send(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
			// Slow client, drop.
		}
	}
	return nil
}

func (s *SSE) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	return nil
}

func (s *SSE) subscribe() (chan Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	ch := make(chan Event, subscriberBuffer)
	s.subs[ch] = struct{}{}
	return ch, true
}

func (s *SSE) unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	delete(s.subs, ch)
}

func (s *SSE) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ch, ok := s.subscribe()
	if !ok {
		http.Error(w, "stream closed", http.StatusGone)
		return
	}
	defer s.unsubscribe(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case ev, open := <-ch:
			if !open {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Warn("progress: marshal event failed", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
