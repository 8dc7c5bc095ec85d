package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"nightcap/internal/domain"
	"nightcap/internal/ports"
)

var (
	ErrSessionNotFound = errors.New("recording session not found")
	ErrInvalidChunk    = errors.New("audio chunk is empty")
	ErrNoTranscription = errors.New("no active transcription for recording")
	ErrFileNotReady    = errors.New("recording file is not available")
)

// Config controls recording behavior.
type Config struct {
	// PhraseGap is the silence threshold that starts a new transcript phrase.
	PhraseGap time.Duration
	// MinRecognitionBytes gates which chunks are submitted to the recognizer.
	MinRecognitionBytes int
	// StoryLocation is the subject of the post-call bedtime story.
	StoryLocation string
}

// RecordingService owns the session registry and orchestrates the chunk
// upload, transcription, and stop pipeline.
type RecordingService struct {
	registry   *Registry
	recognizer ports.SpeechRecognizer
	assembler  ports.AudioAssembler
	postcall   postCallGenerator
	cfg        Config
	now        func() time.Time
}

func NewRecordingService(
	recognizer ports.SpeechRecognizer,
	assembler ports.AudioAssembler,
	artifacts ports.ArtifactGenerator,
	cfg Config,
) *RecordingService {
	return &RecordingService{
		registry:   NewRegistry(),
		recognizer: recognizer,
		assembler:  assembler,
		postcall:   newPostCallGenerator(artifacts, cfg.StoryLocation),
		cfg:        cfg,
		now:        time.Now,
	}
}

// Start opens a new recording session. It always succeeds.
func (s *RecordingService) Start(model string, enableTranscription bool) domain.StartResult {
	if model == "" {
		model = "default"
	}

	session := &recordingSession{
		id:        uuid.NewString(),
		model:     model,
		status:    domain.RecordingStatusRecording,
		startedAt: s.now(),
	}
	if enableTranscription {
		session.transcript = newTranscriptSession(s.recognizer, s.cfg.PhraseGap, s.cfg.MinRecognitionBytes)
	}
	s.registry.add(session)

	return domain.StartResult{
		RecordingID:          session.id,
		TranscriptionEnabled: enableTranscription,
	}
}

// AppendChunk stores one uploaded chunk in arrival order and, when a
// transcription session is active, feeds it the chunk and hint. Recognizer
// failures degrade to an empty transcription result rather than erroring.
func (s *RecordingService) AppendChunk(ctx context.Context, id string, chunk []byte, hint string) (domain.ChunkResult, error) {
	session, ok := s.registry.lookup(id)
	if !ok {
		return domain.ChunkResult{}, ErrSessionNotFound
	}
	if len(chunk) == 0 {
		return domain.ChunkResult{}, ErrInvalidChunk
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.chunks = append(session.chunks, chunk)

	result := domain.ChunkResult{
		ChunksCount:    len(session.chunks),
		ChunkSize:      len(chunk),
		SpeechDetected: hint != "" && !isSentinelHint(hint),
	}

	if session.transcript != nil && session.transcript.IsActive() {
		phrase, err := session.transcript.Feed(ctx, chunk, hint)
		if err != nil {
			log.Printf("recording %s: speech recognition failed: %v", id, err)
		} else {
			result.TranscriptionResult = phrase
		}
	}

	return result, nil
}

// Stop finalizes a recording: the chunk store is assembled into the final
// audio file, the transcription is frozen, and the post-call artifacts are
// generated. Stopping an already completed session returns the cached result
// without re-running assembly or generation.
func (s *RecordingService) Stop(ctx context.Context, id string) (domain.StopResult, error) {
	session, ok := s.registry.lookup(id)
	if !ok {
		return domain.StopResult{}, ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.stopResult != nil {
		return *session.stopResult, nil
	}

	endedAt := s.now()
	duration := endedAt.Sub(session.startedAt).Seconds()

	file, err := s.assembler.Assemble(ctx, session.id, session.chunks)
	if err != nil {
		return domain.StopResult{}, fmt.Errorf("assembling recording %s: %w", id, err)
	}

	session.status = domain.RecordingStatusCompleted
	session.endedAt = endedAt
	session.filePath = file.Path

	var phrases []string
	if session.transcript != nil {
		phrases = session.transcript.Finalize()
		session.transcript = nil
		s.writeTranscriptFile(file.Path, session.id, phrases)
	}

	result := domain.StopResult{
		RecordingID:     session.id,
		Filename:        file.Filename,
		DurationSeconds: duration,
		FileSize:        file.Size,
		DownloadURL:     "/download/" + session.id,
		Transcription:   phrases,
		Degraded:        file.Degraded,
		Artifacts:       s.postcall.Generate(ctx, file.Filename, duration, phrases),
	}
	session.stopResult = &result
	return result, nil
}

// Snapshot returns the current transcript of a not-yet-stopped recording.
func (s *RecordingService) Snapshot(id string) (domain.TranscriptSnapshot, error) {
	session, ok := s.registry.lookup(id)
	if !ok {
		return domain.TranscriptSnapshot{}, ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.transcript == nil {
		return domain.TranscriptSnapshot{}, ErrNoTranscription
	}
	return domain.TranscriptSnapshot{
		RecordingID: session.id,
		Phrases:     session.transcript.Phrases(),
		IsActive:    session.transcript.IsActive(),
	}, nil
}

// Download resolves the deliverable file for a completed recording.
func (s *RecordingService) Download(id string) (path string, filename string, err error) {
	session, ok := s.registry.lookup(id)
	if !ok {
		return "", "", ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.stopResult == nil || session.filePath == "" {
		return "", "", ErrFileNotReady
	}
	return session.filePath, session.stopResult.Filename, nil
}

// List returns summaries of all completed recordings, newest first.
func (s *RecordingService) List() []domain.RecordingSummary {
	summaries := make([]domain.RecordingSummary, 0)
	for _, session := range s.registry.all() {
		session.mu.Lock()
		if session.stopResult != nil {
			summaries = append(summaries, session.summary())
		}
		session.mu.Unlock()
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].StartTime.After(summaries[j].StartTime)
	})
	return summaries
}

func (s *RecordingService) writeTranscriptFile(audioPath string, id string, phrases []string) {
	path := filepath.Join(filepath.Dir(audioPath), id+".txt")
	contents := strings.Join(phrases, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		log.Printf("recording %s: failed to write transcript file: %v", id, err)
	}
}
