package quiz

import (
	"context"
	"strings"
	"testing"

	"viducate/internal/domain"
)

const lesson = "Photosynthesis is the process plants use to convert light into energy. " +
	"Chlorophyll absorbs sunlight inside the leaf cells. " +
	"The reaction produces glucose and releases oxygen into the atmosphere. " +
	"Plants depend on this process for nearly all of their growth."

func TestFallbackGeneratesValidQuestions(t *testing.T) {
	questions, err := Fallback{}.Generate(context.Background(), lesson, domain.QuizDifficultyMedium)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) < 3 {
		t.Fatalf("got %d questions, want at least 3", len(questions))
	}
	if err := validateQuestions(questions); err != nil {
		t.Errorf("invalid questions: %v", err)
	}
	for i, q := range questions {
		if q.CorrectOption != 0 {
			t.Errorf("question %d correct index = %d, want 0", i, q.CorrectOption)
		}
	}
}

func TestFallbackShortContentStillProducesQuestions(t *testing.T) {
	questions, err := Fallback{}.Generate(context.Background(), "Tiny.", domain.QuizDifficultyEasy)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(questions) < 2 {
		t.Errorf("got %d questions from short content", len(questions))
	}
}

func TestExtractKeywordsFiltersFillerWords(t *testing.T) {
	keywords := extractKeywords("should wonderful about chlorophyll energy")
	for _, k := range keywords {
		if k == "should" || k == "about" {
			t.Errorf("filler word %q survived filtering", k)
		}
	}
	joined := strings.Join(keywords, " ")
	if !strings.Contains(joined, "wonderful") || !strings.Contains(joined, "chlorophyll") {
		t.Errorf("keywords missing expected words: %v", keywords)
	}
}

func TestMainTopicTruncatesLongSentences(t *testing.T) {
	long := strings.Repeat("x", 50) + ". Second sentence."
	topic := mainTopic(long)
	if len(topic) != 33 {
		t.Errorf("topic length = %d, want 33", len(topic))
	}
	if !strings.HasSuffix(topic, "...") {
		t.Errorf("topic %q not truncated", topic)
	}
}
