// Package quiz generates multiple-choice questions from lesson content,
// either through a chat-completion model or a deterministic fallback.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"viducate/internal/domain"
)

const questionCount = 5

const generatePrompt = `You are a quiz generator for an education platform. Given lesson content, produce exactly %d multiple-choice questions about it at %s difficulty.
Respond with a JSON object of the form {"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "correctOptionIndex": 0}]}.
Each question has exactly 4 options and one correct answer. Do not include explanations or any text outside the JSON.`

// Generator produces quiz questions from lesson content.
type Generator interface {
	Generate(ctx context.Context, content string, difficulty domain.QuizDifficulty) ([]domain.Question, error)
}

// OpenAI generates questions with a chat-completion model.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a generator against the given API key and model.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}
}

type questionsPayload struct {
	Questions []domain.Question `json:"questions"`
}

// Generate asks the model for questions and validates the returned shape.
func (o *OpenAI) Generate(ctx context.Context, content string, difficulty domain.QuizDifficulty) ([]domain.Question, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf(generatePrompt, questionCount, difficulty),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	var payload questionsPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if err := validateQuestions(payload.Questions); err != nil {
		return nil, err
	}
	return payload.Questions, nil
}

func validateQuestions(questions []domain.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("model returned no questions")
	}
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d has no text", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d has %d options", i, len(q.Options))
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("question %d has correct index %d out of range", i, q.CorrectOption)
		}
	}
	return nil
}
