package httpapi

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

const livePollInterval = 500 * time.Millisecond

// handleTranscriptionLive upgrades to a websocket and pushes transcript
// snapshots whenever the phrase list changes. The connection closes once the
// transcription session is finalized or the recording disappears.
func (s *Server) handleTranscriptionLive(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if _, err := s.recorder.Snapshot(id); err != nil {
		writeServiceError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed for %s: %v", id, err)
		return
	}
	defer conn.Close()

	// Reader goroutine: the client sends nothing meaningful, but reading is
	// required to notice the peer closing.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePollInterval)
	defer ticker.Stop()

	var lastSent string
	sent := false
	for {
		snapshot, err := s.recorder.Snapshot(id)
		if err != nil {
			return
		}

		if key := strings.Join(snapshot.Phrases, "\x1f"); !sent || key != lastSent {
			if err := conn.WriteJSON(snapshot); err != nil {
				return
			}
			lastSent = key
			sent = true
		}
		if !snapshot.IsActive {
			return
		}

		select {
		case <-ticker.C:
		case <-clientGone:
			return
		case <-r.Context().Done():
			return
		}
	}
}
