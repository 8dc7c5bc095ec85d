package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSuccess(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, "recordings")
	t.Setenv("HOME", home)
	t.Setenv("NIGHTCAP_RECORDINGS_DIR", dir)
	t.Setenv("OPENAI_API_KEY", "")

	services, err := Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if services.Recorder == nil {
		t.Fatalf("expected recorder")
	}
	if services.AI == nil {
		t.Fatalf("expected artifact generator")
	}
	if services.AI.Available() {
		t.Fatalf("expected unavailable generator without API key")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("recordings directory not created: %v", err)
	}
}

func TestBuildWithCredentials(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NIGHTCAP_RECORDINGS_DIR", filepath.Join(home, "recordings"))
	t.Setenv("OPENAI_API_KEY", "sk-test")

	services, err := Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if !services.AI.Available() {
		t.Fatalf("expected available generator with API key")
	}
}

func TestBuildFailsOnUnwritableRecordingsDir(t *testing.T) {
	home := t.TempDir()
	blocker := filepath.Join(home, "blocked")
	if err := os.WriteFile(blocker, []byte("file, not a dir"), 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	t.Setenv("HOME", home)
	t.Setenv("NIGHTCAP_RECORDINGS_DIR", filepath.Join(blocker, "recordings"))

	if _, err := Build(); err == nil {
		t.Fatalf("expected build error for unwritable recordings dir")
	}
}

func TestBuildServiceRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("NIGHTCAP_RECORDINGS_DIR", filepath.Join(home, "recordings"))
	t.Setenv("NIGHTCAP_FFMPEG_COMMAND", "/nonexistent/ffmpeg")
	t.Setenv("OPENAI_API_KEY", "")

	services, err := Build()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	started := services.Recorder.Start("opus", false)
	if _, err := services.Recorder.AppendChunk(context.Background(), started.RecordingID, []byte("chunk"), ""); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	// With ffmpeg missing the transcode degrades but the stop still yields
	// a deliverable file.
	result, err := services.Recorder.Stop(context.Background(), started.RecordingID)
	if err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded deliverable without ffmpeg")
	}
	if _, err := os.Stat(filepath.Join(home, "recordings", started.RecordingID+".webm")); err != nil {
		t.Fatalf("intermediate deliverable missing: %v", err)
	}
}
