package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"nightcap/internal/ports"
)

// Sentinel hint values the browser client sends while it has no real speech
// text yet. They must never become transcript phrases.
const (
	hintListening      = "Listening..."
	hintSpeechDetected = "Speech detected"
)

const (
	defaultPhraseGap           = 2 * time.Second
	defaultMinRecognitionBytes = 1024
)

// TranscriptSession maintains the growing phrase list for one recording.
// Incoming chunks either extend the current phrase or start a new one based
// on the time gap since the last accepted text.
type TranscriptSession struct {
	mu           sync.Mutex
	phrases      []string
	lastUpdateAt time.Time
	active       bool

	recognizer ports.SpeechRecognizer
	gap        time.Duration
	minBytes   int
	now        func() time.Time
}

func newTranscriptSession(recognizer ports.SpeechRecognizer, gap time.Duration, minBytes int) *TranscriptSession {
	if gap <= 0 {
		gap = defaultPhraseGap
	}
	if minBytes <= 0 {
		minBytes = defaultMinRecognitionBytes
	}
	session := &TranscriptSession{
		phrases:    []string{""},
		active:     true,
		recognizer: recognizer,
		gap:        gap,
		minBytes:   minBytes,
		now:        time.Now,
	}
	session.lastUpdateAt = session.now()
	return session
}

// Feed processes one uploaded chunk and returns any newly produced phrase
// text. A non-sentinel hint is authoritative and always yields a new phrase.
// Without a hint, chunks below the minimum size produce no candidate; larger
// chunks are submitted to the recognizer, and the candidate either replaces
// the in-progress phrase or starts a new one when the gap threshold elapsed.
func (t *TranscriptSession) Feed(ctx context.Context, chunk []byte, hint string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return "", nil
	}

	now := t.now()

	if hint != "" && !isSentinelHint(hint) {
		t.appendPhrase(hint)
		t.lastUpdateAt = now
		return hint, nil
	}

	if len(chunk) < t.minBytes {
		return "", nil
	}

	candidate, err := t.recognizer.Transcribe(ctx, chunk)
	if err != nil {
		return "", err
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return "", nil
	}

	if now.Sub(t.lastUpdateAt) > t.gap {
		t.appendPhrase(candidate)
	} else {
		t.phrases[len(t.phrases)-1] = candidate
	}
	t.lastUpdateAt = now
	return candidate, nil
}

// appendPhrase starts a new phrase, except that an empty in-progress phrase
// (the initial state) is taken over instead of left behind.
func (t *TranscriptSession) appendPhrase(text string) {
	if last := len(t.phrases) - 1; t.phrases[last] == "" {
		t.phrases[last] = text
		return
	}
	t.phrases = append(t.phrases, text)
}

// Phrases returns a copy of the current phrase list.
func (t *TranscriptSession) Phrases() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.phrases...)
}

// IsActive reports whether the session still accepts chunks.
func (t *TranscriptSession) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Finalize freezes the session and returns the full phrase sequence.
func (t *TranscriptSession) Finalize() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = false
	return append([]string(nil), t.phrases...)
}

func isSentinelHint(hint string) bool {
	return hint == hintListening || hint == hintSpeechDetected
}
