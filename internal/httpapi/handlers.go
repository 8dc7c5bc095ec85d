package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/mux"

	"nightcap/internal/domain"
	"nightcap/internal/usecase"
)

type startRequest struct {
	Model               string `json:"model"`
	EnableTranscription bool   `json:"enable_transcription"`
}

type chunkRequest struct {
	RecordingID    string `json:"recording_id"`
	AudioData      string `json:"audio_data"`
	DetectedSpeech string `json:"detected_speech"`
}

type stopRequest struct {
	RecordingID string `json:"recording_id"`
}

type aiTestRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handleHome(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Audio Recording Backend",
		"status":  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "audio-backend",
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result := s.recorder.Start(req.Model, req.EnableTranscription)
	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		domain.StartResult
	}{Success: true, Message: "Recording started", StartResult: result})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	chunk, err := decodeAudioData(req.AudioData)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audio_data is not valid base64")
		return
	}

	result, err := s.recorder.AppendChunk(r.Context(), req.RecordingID, chunk, req.DetectedSpeech)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		domain.ChunkResult
	}{Success: true, Message: "Chunk uploaded", ChunkResult: result})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	var req stopRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := s.recorder.Stop(r.Context(), req.RecordingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		domain.StopResult
	}{Success: true, StopResult: result})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	path, filename, err := s.recorder.Download(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Recording not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Type", contentTypeFor(filename))
	http.ServeFile(w, r, path)
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]domain.RecordingSummary{
		"recordings": s.recorder.List(),
	})
}

func (s *Server) handleTranscription(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	snapshot, err := s.recorder.Snapshot(id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleAITest(w http.ResponseWriter, r *http.Request) {
	var req aiTestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	response, err := s.ai.CustomPrompt(r.Context(), req.Prompt)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "response": response})
}

func (s *Server) handleBedtimeStory(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = s.storyLocation
	}

	story, err := s.ai.BedtimeStory(r.Context(), location)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "story": story})
}

// decodeAudioData accepts plain base64 and data-URL payloads.
func decodeAudioData(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if idx := strings.IndexByte(data, ','); idx >= 0 && strings.HasPrefix(data, "data:") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}

func contentTypeFor(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(filename, ".webm"):
		return "audio/webm"
	default:
		return "application/octet-stream"
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrSessionNotFound), errors.Is(err, usecase.ErrNoTranscription), errors.Is(err, usecase.ErrFileNotReady):
		writeError(w, http.StatusNotFound, "Recording not found")
	case errors.Is(err, usecase.ErrInvalidChunk):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "error": message})
}
