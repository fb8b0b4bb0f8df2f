package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/theirongolddev/balancebuddy/internal/logger"
)

// Router returns the daemon's HTTP routes. A known path requested with the
// wrong method gets 405.
func (s *Service) Router() http.Handler {
	router := mux.NewRouter()
	routes := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/healthz", s.handleHealth},
		{"/v1/status", s.handleStatus},
		{"/v1/summary", s.handleSummary},
		{"/v1/events", s.handleEvents},
		{"/v1/stream", s.handleStream},
	}
	for _, r := range routes {
		router.HandleFunc(r.path, r.handler).Methods(http.MethodGet)
	}
	return router
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSnapshot
	sum := s.summary
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no summary yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, sum)
}

// handleEvents returns the buffered events, optionally only those after ?since=ID.
func (s *Service) handleEvents(w http.ResponseWriter, r *http.Request) {
	var since int64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "since must be an event id", http.StatusBadRequest)
			return
		}
		since = n
	}

	s.mu.RLock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > since {
			events = append(events, ev)
		}
	}
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	log := logger.FromContext(r.Context())
	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	log.Debug().Int("subscriber", id).Str("remote", r.RemoteAddr).Msg("stream opened")
	defer func() {
		s.removeSubscriber(id)
		log.Debug().Int("subscriber", id).Msg("stream closed")
	}()

	// Send current snapshot immediately.
	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
