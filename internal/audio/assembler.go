package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"nightcap/internal/ports"
)

// FFMPEGAssembler concatenates uploaded chunk buffers into one intermediate
// container file and transcodes it with ffmpeg into the distributable format.
// It always yields a file: zero chunks produce a placeholder, and a failed
// transcode keeps the untranscoded intermediate as a degraded deliverable.
type FFMPEGAssembler struct {
	command string
	dir     string
	format  string
}

func NewFFMPEGAssembler(command string, dir string, format string) *FFMPEGAssembler {
	if command == "" {
		command = "ffmpeg"
	}
	if format == "" {
		format = "mp3"
	}
	return &FFMPEGAssembler{command: command, dir: dir, format: format}
}

func (a *FFMPEGAssembler) Assemble(ctx context.Context, recordingID string, chunks [][]byte) (ports.AssembledFile, error) {
	combined := bytes.Join(chunks, nil)

	intermediate := filepath.Join(a.dir, recordingID+".webm")
	if err := os.WriteFile(intermediate, combined, 0o644); err != nil {
		return ports.AssembledFile{}, fmt.Errorf("failed to write intermediate file: %w", err)
	}

	if len(combined) == 0 {
		// The download contract promises a byte stream once completed,
		// even when nothing was ever uploaded.
		return ports.AssembledFile{
			Path:     intermediate,
			Filename: recordingID + ".webm",
			Size:     0,
			Degraded: true,
		}, nil
	}

	final := filepath.Join(a.dir, recordingID+"."+a.format)
	if err := a.transcode(ctx, intermediate, final); err != nil {
		return a.describe(intermediate, recordingID+".webm", true)
	}

	_ = os.Remove(intermediate)
	return a.describe(final, recordingID+"."+a.format, false)
}

func (a *FFMPEGAssembler) transcode(ctx context.Context, src string, dst string) error {
	args := []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-y",
		"-i", src,
		"-vn",
		dst,
	}

	cmd := exec.CommandContext(ctx, a.command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := string(bytes.TrimSpace(stderr.Bytes()))
		if detail != "" {
			return fmt.Errorf("transcode failed: %w: %s", err, detail)
		}
		return fmt.Errorf("transcode failed: %w", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		return fmt.Errorf("transcode produced no output: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("transcode produced empty output")
	}
	return nil
}

func (a *FFMPEGAssembler) describe(path string, filename string, degraded bool) (ports.AssembledFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ports.AssembledFile{}, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return ports.AssembledFile{
		Path:     path,
		Filename: filename,
		Size:     info.Size(),
		Degraded: degraded,
	}, nil
}
