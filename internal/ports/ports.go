package ports

import "context"

// SpeechRecognizer turns one encoded audio chunk into candidate transcript
// text. An empty string with a nil error means no candidate was produced.
type SpeechRecognizer interface {
	Transcribe(ctx context.Context, chunk []byte) (string, error)
}

// AssembledFile describes the deliverable produced for a completed recording.
type AssembledFile struct {
	Path     string
	Filename string
	Size     int64
	// Degraded is set when transcoding failed and the untranscoded
	// intermediate stream is the deliverable.
	Degraded bool
}

// AudioAssembler concatenates chunk buffers in arrival order and transcodes
// the result into the distributable format. It must always yield a file, even
// for zero chunks.
type AudioAssembler interface {
	Assemble(ctx context.Context, recordingID string, chunks [][]byte) (AssembledFile, error)
}

// ArtifactGenerator is the language-model provider boundary.
type ArtifactGenerator interface {
	BedtimeStory(ctx context.Context, location string) (string, error)
	CallSummary(ctx context.Context, filename string, durationSeconds float64, transcript []string) (string, error)
	CustomPrompt(ctx context.Context, prompt string) (string, error)
	Available() bool
}
