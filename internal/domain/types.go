package domain

import "time"

// RecordingStatus models the recording lifecycle.
type RecordingStatus string

const (
	RecordingStatusRecording RecordingStatus = "recording"
	RecordingStatusCompleted RecordingStatus = "completed"
)

// StartResult is returned when a new recording session is opened.
type StartResult struct {
	RecordingID          string `json:"recording_id"`
	TranscriptionEnabled bool   `json:"transcription_enabled"`
}

// ChunkResult describes the outcome of a single chunk upload.
type ChunkResult struct {
	ChunksCount         int    `json:"chunks_count"`
	ChunkSize           int    `json:"chunk_size"`
	TranscriptionResult string `json:"transcription_result,omitempty"`
	SpeechDetected      bool   `json:"speech_detected"`
}

// ArtifactSet holds the post-call texts. Each field independently carries
// either generated text or an embedded error description.
type ArtifactSet struct {
	BedtimeStory string `json:"bedtime_story"`
	CallSummary  string `json:"call_summary"`
}

// StopResult is returned once a recording is finalized. Repeated stops on the
// same session return the same value.
type StopResult struct {
	RecordingID     string      `json:"recording_id"`
	Filename        string      `json:"filename"`
	DurationSeconds float64     `json:"duration"`
	FileSize        int64       `json:"file_size"`
	DownloadURL     string      `json:"download_url"`
	Transcription   []string    `json:"transcription,omitempty"`
	Degraded        bool        `json:"degraded,omitempty"`
	Artifacts       ArtifactSet `json:"openai_response"`
}

// TranscriptSnapshot is the current state of an in-progress transcription.
type TranscriptSnapshot struct {
	RecordingID string   `json:"recording_id"`
	Phrases     []string `json:"phrases"`
	IsActive    bool     `json:"is_active"`
}

// RecordingSummary describes one completed recording in listings.
type RecordingSummary struct {
	ID              string    `json:"id"`
	Filename        string    `json:"filename"`
	Model           string    `json:"model"`
	StartTime       time.Time `json:"start_time"`
	DurationSeconds float64   `json:"duration"`
	FileSize        int64     `json:"file_size"`
	DownloadURL     string    `json:"download_url"`
}
