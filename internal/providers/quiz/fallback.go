package quiz

import (
	"context"
	"fmt"
	"strings"

	"viducate/internal/domain"
)

// Fallback builds a deterministic quiz from the lesson text itself. It is
// used when no model is configured or the model call fails, so quiz
// generation never hard-fails on an upstream outage.
type Fallback struct{}

var fillerWords = map[string]struct{}{
	"about": {}, "there": {}, "their": {}, "would": {}, "should": {}, "could": {},
}

// Generate derives simple questions from sentence and keyword heuristics.
// The correct answer is always the first option.
func (Fallback) Generate(_ context.Context, content string, _ domain.QuizDifficulty) ([]domain.Question, error) {
	sentences := splitSentences(content)
	keywords := extractKeywords(content)

	var questions []domain.Question

	if len(sentences) > 2 && len(sentences[1]) > 20 {
		questions = append(questions, domain.Question{
			Text: fmt.Sprintf("What is being described in the following: %q?", sentences[1]),
			Options: []string{
				"The main topic of the content",
				"An unrelated concept",
				"A secondary character",
				"A historical event",
			},
		})
	}

	if len(keywords) > 5 {
		questions = append(questions, domain.Question{
			Text: fmt.Sprintf("Which of the following best relates to %q?", keywords[3]),
			Options: []string{
				"It's a central concept in the content",
				"It's mentioned only briefly",
				"It's not related to the main topic",
				"It's a technical term from another field",
			},
		})
	}

	if len(sentences) > 0 {
		questions = append(questions, domain.Question{
			Text: "What is the main topic of this content?",
			Options: []string{
				mainTopic(content),
				"Space exploration",
				"Ancient history",
				"Quantum physics",
			},
		})
	}

	questions = append(questions,
		domain.Question{
			Text:    "Based on the content, is the following statement true: This material covers educational content?",
			Options: []string{"True", "False", "Not mentioned", "Partially true"},
		},
		domain.Question{
			Text:    "How would you describe the educational value of this content?",
			Options: []string{"Informative and educational", "Entertainment only", "Technical documentation", "Not educational"},
		},
	)

	return questions, nil
}

func splitSentences(content string) []string {
	raw := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	var sentences []string
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len(s) > 10 {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func extractKeywords(content string) []string {
	var keywords []string
	for _, word := range strings.Fields(content) {
		if len(word) <= 5 {
			continue
		}
		if _, filler := fillerWords[strings.ToLower(word)]; filler {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

func mainTopic(content string) string {
	first, _, _ := strings.Cut(content, ".")
	if len(first) > 30 {
		return first[:30] + "..."
	}
	return first
}
