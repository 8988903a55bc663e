// Package assistant answers owner questions through a text generation model,
// grounding every conversation in the restaurant's own numbers.
package assistant

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"

	"deliveryhub/models"
)

// MaxHistoryTurns is how many previous messages are sent with a question.
const MaxHistoryTurns = 10

const (
	RoleUser  = "user"
	RoleModel = "model"
)

var (
	// ErrEmptyResponse is returned when the model answers with no text.
	ErrEmptyResponse = errors.New("assistant returned an empty response")
	// ErrEmptyMessage is returned when the question is blank.
	ErrEmptyMessage = errors.New("message is required")
)

// Generator produces a reply for message given a system instruction and the
// conversation so far.
type Generator interface {
	Generate(ctx context.Context, system string, history []models.ChatMessage, message string) (string, error)
}

// Ask validates the request, trims the history and asks gen for a reply.
func Ask(ctx context.Context, gen Generator, system string, req models.AssistantRequest) (string, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	reply, err := gen.Generate(ctx, system, NormalizeHistory(req.History), message)
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", ErrEmptyResponse
	}
	return reply, nil
}

// NormalizeHistory keeps the last MaxHistoryTurns non-empty messages and maps
// every role onto user or model.
func NormalizeHistory(history []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(history))
	for _, m := range history {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		out = append(out, models.ChatMessage{Role: normalizeRole(m.Role), Content: content})
	}
	if len(out) > MaxHistoryTurns {
		out = out[len(out)-MaxHistoryTurns:]
	}
	return out
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "model", "assistant", "bot", "ai":
		return RoleModel
	default:
		return RoleUser
	}
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
