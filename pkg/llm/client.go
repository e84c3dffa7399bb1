// Package llm wraps the external text-completion, speech-to-text, and
// text-to-speech APIs behind small interfaces the agents depend on.
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const logPrefix = "llm:client"

// Fixed sampling parameters for every completion. There is no retry,
// no streaming, and no per-call override.
const (
	completionTemperature = 0.7
	completionMaxTokens   = 2000
)

// Message is one role-tagged segment of a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Roles accepted by the completion endpoint.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Completer produces a text completion from an ordered message list.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Transcriber converts audio bytes to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Speaker converts text to audio bytes.
type Speaker interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string // optional override, e.g. a compatible gateway or a test server
	Model   string // completion model; defaults to gpt-4
}

// Client talks to the OpenAI-compatible API. It implements Completer,
// Transcriber, and Speaker.
type Client struct {
	api   *openai.Client
	model string
}

// NewClient creates a Client from config.
func NewClient(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4
	}
	return &Client{api: openai.NewClientWithConfig(apiCfg), model: model}
}

// Complete sends the messages to the chat-completion endpoint and returns
// the text of the first choice. Failures are returned as errors; callers
// fold them into error envelopes, they are never retried here.
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - completion failed: %v", logPrefix, err))
		return "", fmt.Errorf("%s - completion failed: %w", logPrefix, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(logPrefix + " - completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Transcribe sends audio to the speech-to-text endpoint and returns the text.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := c.api.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: "audio.wav",
		Reader:   bytes.NewReader(audio),
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - transcription failed: %v", logPrefix, err))
		return "", fmt.Errorf("%s - transcription failed: %w", logPrefix, err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// Synthesize sends text to the text-to-speech endpoint and returns raw audio.
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = string(openai.VoiceAlloy)
	}
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.SpeechVoice(voice),
	})
	if err != nil {
		slog.Error(fmt.Sprintf("%s - speech synthesis failed: %v", logPrefix, err))
		return nil, fmt.Errorf("%s - speech synthesis failed: %w", logPrefix, err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("%s - reading speech audio: %w", logPrefix, err)
	}
	return audio, nil
}
