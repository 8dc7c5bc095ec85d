package bootstrap

import (
	"fmt"
	"os"

	"nightcap/internal/audio"
	"nightcap/internal/config"
	"nightcap/internal/ports"
	"nightcap/internal/providers/openai"
	"nightcap/internal/providers/simulated"
	"nightcap/internal/usecase"
)

// Services is the assembled runtime graph.
type Services struct {
	Recorder *usecase.RecordingService
	AI       ports.ArtifactGenerator
	Config   config.Config
}

// Build wires all backend dependencies. The OpenAI client serves both as the
// artifact generator and, when credentials are configured, as the speech
// recognizer; without credentials the simulated recognizer takes over.
func Build() (Services, error) {
	cfg, err := config.Load()
	if err != nil {
		return Services{}, err
	}

	if err := os.MkdirAll(cfg.Recordings.Dir, 0o755); err != nil {
		return Services{}, fmt.Errorf("failed to create recordings directory %q: %w", cfg.Recordings.Dir, err)
	}

	ai := openai.NewClient(openai.Config{
		APIKey:            cfg.OpenAI.APIKey,
		OrgID:             cfg.OpenAI.OrgID,
		Model:             cfg.OpenAI.Model,
		WhisperModel:      cfg.OpenAI.WhisperModel,
		RequestsPerMinute: cfg.OpenAI.RequestsPerMinute,
	})

	var recognizer ports.SpeechRecognizer = ai
	if !ai.Available() {
		recognizer = simulated.NewRecognizer(nil)
	}

	recorder := usecase.NewRecordingService(
		recognizer,
		audio.NewFFMPEGAssembler(cfg.Audio.FFmpegCommand, cfg.Recordings.Dir, cfg.Audio.Format),
		ai,
		usecase.Config{
			PhraseGap:           cfg.Transcription.PhraseGap,
			MinRecognitionBytes: cfg.Transcription.MinRecognitionBytes,
			StoryLocation:       cfg.OpenAI.StoryLocation,
		},
	)

	return Services{Recorder: recorder, AI: ai, Config: cfg}, nil
}
