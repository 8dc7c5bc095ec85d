package simulated

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

var defaultPhrases = []string{
	"Hello, can you hear me?",
	"Yes, that sounds good to me.",
	"Let me check my calendar.",
	"I think we should move forward with that.",
	"Can you repeat the last part?",
	"That works for me.",
	"I'll send you the details afterwards.",
	"Thanks, talk to you soon.",
}

// Recognizer is a stand-in speech recognizer that picks phrases from a fixed
// list. It serves when no real provider credentials are configured and keeps
// the phrase-boundary heuristic exercisable without network access.
type Recognizer struct {
	mu      sync.Mutex
	phrases []string
	rng     *rand.Rand
}

// NewRecognizer creates a recognizer over the given phrases. A nil or empty
// list falls back to the built-in set.
func NewRecognizer(phrases []string) *Recognizer {
	return NewRecognizerWithSeed(phrases, time.Now().UnixNano())
}

// NewRecognizerWithSeed allows deterministic phrase selection in tests.
func NewRecognizerWithSeed(phrases []string, seed int64) *Recognizer {
	if len(phrases) == 0 {
		phrases = defaultPhrases
	}
	return &Recognizer{
		phrases: phrases,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

// Transcribe returns one phrase from the list for any non-empty chunk.
func (r *Recognizer) Transcribe(_ context.Context, chunk []byte) (string, error) {
	if len(chunk) == 0 {
		return "", nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phrases[r.rng.Intn(len(r.phrases))], nil
}
