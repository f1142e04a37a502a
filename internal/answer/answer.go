// Package answer turns a formatted sources prompt and a question into a
// model-written answer over an OpenAI-compatible backend.
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/merlinrag/ragsearch/internal/llm"
)

const defaultSystemPrompt = "You are a careful assistant. Answer using ONLY the provided sources and cite them with their bracketed labels like [S1]. If the sources do not contain the answer, say so plainly."

// ErrEmptyAnswer indicates the model produced no usable content.
var ErrEmptyAnswer = errors.New("empty answer")

// Synthesizer calls the chat model with the formatted source context.
type Synthesizer struct {
	Client llm.Client
	Model  string
	// SystemPrompt overrides the default system message when non-empty.
	SystemPrompt string
}

// sleepFunc lets tests replace the retry backoff; milliseconds.
var sleepFunc = func(ms int) { time.Sleep(time.Duration(ms) * time.Millisecond) }

// Answer sends the sources context and the question to the model and returns
// the answer text. One short-backoff retry is attempted on transport errors.
func (s *Synthesizer) Answer(ctx context.Context, question, sourcesContext string) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("answerer not configured")
	}
	system := defaultSystemPrompt
	if strings.TrimSpace(s.SystemPrompt) != "" {
		system = s.SystemPrompt
	}
	var user strings.Builder
	user.WriteString(sourcesContext)
	user.WriteString("\n\nQUESTION: ")
	user.WriteString(question)

	req := openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user.String()},
		},
		Temperature: 0.1,
		N:           1,
	}
	resp, err := s.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		sleepFunc(100)
		resp, err = s.Client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", fmt.Errorf("answer call (after retry): %w", err)
		}
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyAnswer
	}
	return out, nil
}
