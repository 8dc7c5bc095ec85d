package usecase

import (
	"sync"
	"time"

	"nightcap/internal/domain"
)

// recordingSession aggregates everything owned by one recording id. All
// mutation happens under mu, which serializes chunk appends, transcript
// updates, and the stop transition per session.
type recordingSession struct {
	mu sync.Mutex

	id        string
	model     string
	status    domain.RecordingStatus
	startedAt time.Time
	endedAt   time.Time

	chunks     [][]byte
	transcript *TranscriptSession

	filePath   string
	stopResult *domain.StopResult
}

func (s *recordingSession) summary() domain.RecordingSummary {
	return domain.RecordingSummary{
		ID:              s.id,
		Filename:        s.stopResult.Filename,
		Model:           s.model,
		StartTime:       s.startedAt,
		DurationSeconds: s.stopResult.DurationSeconds,
		FileSize:        s.stopResult.FileSize,
		DownloadURL:     s.stopResult.DownloadURL,
	}
}
