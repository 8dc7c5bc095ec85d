package usecase

import (
	"context"

	"nightcap/internal/domain"
	"nightcap/internal/ports"
)

const defaultStoryLocation = "Morocco"

// postCallGenerator requests the two post-call texts. A provider failure on
// one artifact never blocks the other and never fails the stop operation;
// the error is embedded in the artifact text instead.
type postCallGenerator struct {
	artifacts ports.ArtifactGenerator
	location  string
}

func newPostCallGenerator(artifacts ports.ArtifactGenerator, location string) postCallGenerator {
	if location == "" {
		location = defaultStoryLocation
	}
	return postCallGenerator{artifacts: artifacts, location: location}
}

func (g postCallGenerator) Generate(ctx context.Context, filename string, durationSeconds float64, transcript []string) domain.ArtifactSet {
	var set domain.ArtifactSet

	story, err := g.artifacts.BedtimeStory(ctx, g.location)
	if err != nil {
		set.BedtimeStory = "Error generating bedtime story: " + err.Error()
	} else {
		set.BedtimeStory = story
	}

	summary, err := g.artifacts.CallSummary(ctx, filename, durationSeconds, transcript)
	if err != nil {
		set.CallSummary = "Error generating call summary: " + err.Error()
	} else {
		set.CallSummary = summary
	}

	return set
}
