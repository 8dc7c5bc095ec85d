package usecase

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"nightcap/internal/ports"
)

type fakeAssembler struct {
	dir    string
	calls  int
	chunks [][]byte
	err    error
}

func (a *fakeAssembler) Assemble(_ context.Context, recordingID string, chunks [][]byte) (ports.AssembledFile, error) {
	a.calls++
	a.chunks = chunks
	if a.err != nil {
		return ports.AssembledFile{}, a.err
	}

	combined := bytes.Join(chunks, nil)
	path := filepath.Join(a.dir, recordingID+".mp3")
	if err := os.WriteFile(path, combined, 0o644); err != nil {
		return ports.AssembledFile{}, err
	}
	return ports.AssembledFile{
		Path:     path,
		Filename: recordingID + ".mp3",
		Size:     int64(len(combined)),
		Degraded: len(combined) == 0,
	}, nil
}

type fakeArtifacts struct {
	story      string
	summary    string
	storyErr   error
	summaryErr error
	calls      int

	gotFilename   string
	gotDuration   float64
	gotTranscript []string
}

func (f *fakeArtifacts) BedtimeStory(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.story, f.storyErr
}

func (f *fakeArtifacts) CallSummary(_ context.Context, filename string, duration float64, transcript []string) (string, error) {
	f.gotFilename = filename
	f.gotDuration = duration
	f.gotTranscript = transcript
	return f.summary, f.summaryErr
}

func (f *fakeArtifacts) CustomPrompt(_ context.Context, _ string) (string, error) { return "", nil }
func (f *fakeArtifacts) Available() bool                                          { return true }

func newTestService(t *testing.T) (*RecordingService, *fakeAssembler, *fakeArtifacts) {
	t.Helper()
	assembler := &fakeAssembler{dir: t.TempDir()}
	artifacts := &fakeArtifacts{story: "a story", summary: "a summary"}
	service := NewRecordingService(
		&scriptedRecognizer{},
		assembler,
		artifacts,
		Config{PhraseGap: 2 * time.Second, MinRecognitionBytes: 100},
	)
	return service, assembler, artifacts
}

func TestAppendChunkCountsAndOrder(t *testing.T) {
	t.Parallel()

	service, assembler, _ := newTestService(t)
	started := service.Start("opus", false)

	uploads := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for i, chunk := range uploads {
		result, err := service.AppendChunk(context.Background(), started.RecordingID, chunk, "")
		if err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
		if result.ChunksCount != i+1 {
			t.Fatalf("expected chunks_count %d, got %d", i+1, result.ChunksCount)
		}
		if result.ChunkSize != len(chunk) {
			t.Fatalf("expected chunk_size %d, got %d", len(chunk), result.ChunkSize)
		}
	}

	if _, err := service.Stop(context.Background(), started.RecordingID); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !reflect.DeepEqual(assembler.chunks, uploads) {
		t.Fatalf("assembler received chunks out of order: %v", assembler.chunks)
	}
}

func TestAppendChunkUnknownSession(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	_, err := service.AppendChunk(context.Background(), "missing", []byte("x"), "")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAppendChunkRejectsEmpty(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	started := service.Start("", false)

	_, err := service.AppendChunk(context.Background(), started.RecordingID, nil, "")
	if !errors.Is(err, ErrInvalidChunk) {
		t.Fatalf("expected ErrInvalidChunk, got %v", err)
	}

	result, err := service.AppendChunk(context.Background(), started.RecordingID, []byte("x"), "")
	if err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if result.ChunksCount != 1 {
		t.Fatalf("rejected chunk must not count, got %d", result.ChunksCount)
	}
}

func TestStopUnknownSession(t *testing.T) {
	t.Parallel()

	service, assembler, _ := newTestService(t)
	if _, err := service.Stop(context.Background(), "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if assembler.calls != 0 {
		t.Fatalf("stop of unknown id must not assemble")
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	service, assembler, artifacts := newTestService(t)
	started := service.Start("opus", false)
	if _, err := service.AppendChunk(context.Background(), started.RecordingID, []byte("audio"), ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	first, err := service.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	second, err := service.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("second stop failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second stop returned a different result")
	}
	if assembler.calls != 1 {
		t.Fatalf("assembly ran %d times, want 1", assembler.calls)
	}
	if artifacts.calls != 1 {
		t.Fatalf("artifact generation ran %d times, want 1", artifacts.calls)
	}
}

func TestStopZeroChunksStillYieldsFile(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	started := service.Start("opus", false)

	result, err := service.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if result.FileSize != 0 {
		t.Fatalf("expected empty placeholder file, got size %d", result.FileSize)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded flag for zero-chunk recording")
	}

	path, _, err := service.Download(started.RecordingID)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("deliverable missing: %v", err)
	}
}

func TestStopHintTranscriptAndSidecarFile(t *testing.T) {
	t.Parallel()

	service, assembler, artifacts := newTestService(t)
	started := service.Start("opus", true)

	if _, err := service.AppendChunk(context.Background(), started.RecordingID, make([]byte, 500), "hello"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	result, err := service.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !reflect.DeepEqual(result.Transcription, []string{"hello"}) {
		t.Fatalf("unexpected transcript: %v", result.Transcription)
	}
	if !reflect.DeepEqual(artifacts.gotTranscript, []string{"hello"}) {
		t.Fatalf("artifact generator saw transcript %v", artifacts.gotTranscript)
	}

	sidecar := filepath.Join(assembler.dir, started.RecordingID+".txt")
	contents, err := os.ReadFile(sidecar)
	if err != nil {
		t.Fatalf("transcript file missing: %v", err)
	}
	if string(contents) != "hello" {
		t.Fatalf("unexpected transcript file contents: %q", string(contents))
	}

	// The transcription session is detached on stop.
	if _, err := service.Snapshot(started.RecordingID); !errors.Is(err, ErrNoTranscription) {
		t.Fatalf("expected ErrNoTranscription after stop, got %v", err)
	}
}

func TestStopEmbedsArtifactErrors(t *testing.T) {
	t.Parallel()

	assembler := &fakeAssembler{dir: t.TempDir()}
	artifacts := &fakeArtifacts{
		storyErr:   errors.New("rate limited"),
		summaryErr: errors.New("provider down"),
	}
	service := NewRecordingService(&scriptedRecognizer{}, assembler, artifacts, Config{})

	started := service.Start("opus", false)
	result, err := service.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("stop must not fail on artifact errors: %v", err)
	}
	if result.Artifacts.BedtimeStory != "Error generating bedtime story: rate limited" {
		t.Fatalf("unexpected story artifact: %q", result.Artifacts.BedtimeStory)
	}
	if result.Artifacts.CallSummary != "Error generating call summary: provider down" {
		t.Fatalf("unexpected summary artifact: %q", result.Artifacts.CallSummary)
	}
}

func TestSnapshotDisabledTranscription(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)
	started := service.Start("opus", false)

	if _, err := service.Snapshot(started.RecordingID); !errors.Is(err, ErrNoTranscription) {
		t.Fatalf("expected ErrNoTranscription, got %v", err)
	}
	if _, err := service.Snapshot("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestListReportsCompletedOnly(t *testing.T) {
	t.Parallel()

	service, _, _ := newTestService(t)

	active := service.Start("a", false)
	done := service.Start("b", false)
	if _, err := service.Stop(context.Background(), done.RecordingID); err != nil {
		t.Fatalf("stop failed: %v", err)
	}

	summaries := service.List()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 completed recording, got %d", len(summaries))
	}
	if summaries[0].ID != done.RecordingID {
		t.Fatalf("unexpected recording in listing: %s", summaries[0].ID)
	}
	if summaries[0].ID == active.RecordingID {
		t.Fatalf("active recording must not be listed")
	}
	if summaries[0].DownloadURL != "/download/"+done.RecordingID {
		t.Fatalf("unexpected download url: %s", summaries[0].DownloadURL)
	}
}
