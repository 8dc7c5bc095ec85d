package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"nightcap/internal/ports"
	"nightcap/internal/usecase"
)

// Server exposes the recording backend over HTTP.
type Server struct {
	recorder      *usecase.RecordingService
	ai            ports.ArtifactGenerator
	storyLocation string
	upgrader      websocket.Upgrader
}

func NewServer(recorder *usecase.RecordingService, ai ports.ArtifactGenerator, storyLocation string) *Server {
	if storyLocation == "" {
		storyLocation = "Morocco"
	}
	return &Server{
		recorder:      recorder,
		ai:            ai,
		storyLocation: storyLocation,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler builds the full request handler including middleware.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/recording/start", s.handleStart).Methods(http.MethodPost)
	r.HandleFunc("/recording/chunk", s.handleChunk).Methods(http.MethodPost)
	r.HandleFunc("/recording/stop", s.handleStop).Methods(http.MethodPost)
	r.HandleFunc("/download/{id}", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/recordings", s.handleList).Methods(http.MethodGet)
	r.HandleFunc("/transcription/{id}", s.handleTranscription).Methods(http.MethodGet)
	r.HandleFunc("/transcription/{id}/live", s.handleTranscriptionLive).Methods(http.MethodGet)
	r.HandleFunc("/ai/test", s.handleAITest).Methods(http.MethodPost)
	r.HandleFunc("/ai/bedtime-story", s.handleBedtimeStory).Methods(http.MethodGet)

	return corsMiddleware(recoverMiddleware(r))
}

// corsMiddleware allows all origins. The browser client may be served from
// anywhere (dev servers, codespaces), so the surface stays permissive.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware converts handler panics into a generic failure response
// instead of dropping the connection.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
