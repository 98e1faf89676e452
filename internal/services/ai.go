package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// TaskDraft is a suggested task that has not been saved.
type TaskDraft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AIService suggests tasks using the OpenAI chat API.
type AIService struct {
	client *openai.Client
	model  string
}

// NewAIService returns nil when apiKey is empty so callers can treat the
// feature as unconfigured.
func NewAIService(apiKey string) *AIService {
	if apiKey == "" {
		return nil
	}
	return &AIService{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

const suggestPrompt = `You extract actionable tasks for a project board from the text below.

Text:
%s

Reply with a JSON array only, no prose:
[
  {"title": "short task title", "description": "one or two sentences of detail"}
]

Return [] when the text contains no tasks.`

// SuggestTasks implements TaskSuggester.
func (s *AIService) SuggestTasks(ctx context.Context, text string) ([]TaskDraft, error) {
	if s == nil || s.client == nil {
		return nil, ErrAIServiceNotConfigured
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: s.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: fmt.Sprintf(suggestPrompt, text),
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseDrafts(resp.Choices[0].Message.Content)
}

// parseDrafts accepts a bare JSON array, optionally wrapped in a markdown fence.
func parseDrafts(content string) ([]TaskDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TaskDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}
	return drafts, nil
}
