package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// handleEvents streams the full state as JSON, once on connect and again on
// every change.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	changes, cancel := s.widget.Subscribe(16)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	if err := s.writeEvent(w, "state"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			if err := s.writeEvent(w, string(change.Kind)); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) writeEvent(w http.ResponseWriter, name string) error {
	data, err := json.Marshal(s.widget.State())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
