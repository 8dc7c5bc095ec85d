package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// ErrUnavailable is returned when no API key is configured.
var ErrUnavailable = errors.New("OpenAI service is not available; check API key configuration")

const (
	storySystemPrompt = "You are a creative storyteller who writes beautiful, gentle bedtime stories. " +
		"Create only one sentence that is magical and soothing."
	summarySystemPrompt = "You are a creative writer who imagines interesting conversations. " +
		"Create brief, family-friendly summaries that are whimsical and positive."
	customSystemPrompt = "You are a helpful and creative assistant."
)

// Config controls the OpenAI client.
type Config struct {
	APIKey            string
	OrgID             string
	Model             string
	WhisperModel      string
	RequestsPerMinute int
}

// Client wraps the OpenAI API for post-call artifact generation and chunk
// transcription. Chat completions for the post-call artifacts share a
// sliding-window rate budget; Whisper transcription is not counted against it.
type Client struct {
	api          *openai.Client
	model        string
	whisperModel string
	limiter      *windowLimiter
}

func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4
	}
	if cfg.WhisperModel == "" {
		cfg.WhisperModel = openai.Whisper1
	}

	client := &Client{
		model:        cfg.Model,
		whisperModel: cfg.WhisperModel,
		limiter:      newWindowLimiter(cfg.RequestsPerMinute, time.Minute),
	}

	if strings.TrimSpace(cfg.APIKey) != "" {
		apiConfig := openai.DefaultConfig(cfg.APIKey)
		if cfg.OrgID != "" {
			apiConfig.OrgID = cfg.OrgID
		}
		client.api = openai.NewClientWithConfig(apiConfig)
	}

	return client
}

// Available reports whether API credentials are configured.
func (c *Client) Available() bool {
	return c.api != nil
}

// Remaining reports how many rate-limited requests are left in the current
// window.
func (c *Client) Remaining() int {
	return c.limiter.Remaining()
}

// BedtimeStory generates a one-sentence bedtime story about a location.
func (c *Client) BedtimeStory(ctx context.Context, location string) (string, error) {
	prompt := fmt.Sprintf("Write a one-sentence bedtime story about %s.", location)
	return c.chatLimited(ctx, storySystemPrompt, prompt, 100, 0.8)
}

// CallSummary generates a whimsical summary of a completed call.
func (c *Client) CallSummary(ctx context.Context, filename string, durationSeconds float64, transcript []string) (string, error) {
	var prompt strings.Builder
	fmt.Fprintf(&prompt,
		"Generate a brief, creative summary of what might have been discussed in a phone call "+
			"that lasted %.0f seconds and was recorded as %q. Make it whimsical and imaginative.",
		durationSeconds, filename)

	joined := strings.TrimSpace(strings.Join(transcript, " "))
	if joined != "" {
		fmt.Fprintf(&prompt, " The live transcript of the call was: %q.", joined)
	}

	return c.chatLimited(ctx, summarySystemPrompt, prompt.String(), 120, 0.7)
}

// CustomPrompt generates a response for an arbitrary prompt. It bypasses the
// post-call rate budget, matching the direct test endpoint's behavior.
func (c *Client) CustomPrompt(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, customSystemPrompt, prompt, 150, 0.8)
}

// Transcribe submits one audio chunk to Whisper and returns the text.
func (c *Client) Transcribe(ctx context.Context, chunk []byte) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.whisperModel,
		Reader:   bytes.NewReader(chunk),
		FilePath: "chunk.webm",
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// chatLimited waits out the rate budget before sending a chat completion.
func (c *Client) chatLimited(ctx context.Context, system string, user string, maxTokens int, temperature float32) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}
	if err := c.waitForSlot(ctx); err != nil {
		return "", err
	}

	reply, err := c.chat(ctx, system, user, maxTokens, temperature)
	if err != nil {
		return "", err
	}
	c.limiter.Record()
	return reply, nil
}

func (c *Client) chat(ctx context.Context, system string, user string, maxTokens int, temperature float32) (string, error) {
	if !c.Available() {
		return "", ErrUnavailable
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) waitForSlot(ctx context.Context) error {
	for {
		delay := c.limiter.Reserve()
		if delay <= 0 {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
