package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smartedu/smartedu/backend/go-services/internal/apperrors"
	"github.com/smartedu/smartedu/backend/go-services/internal/content"
)

// SplitSlides splits a raw completion into slide units on blank-line
// boundaries. It never fails: malformed input degrades to a single slide.
func SplitSlides(raw string) []string {
	parts := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n\n")
	slides := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			slides = append(slides, s)
		}
	}
	if len(slides) == 0 {
		return []string{strings.TrimSpace(raw)}
	}
	return slides
}

// ParseQuestions parses a raw completion into question records. Unlike the
// note splitter this is strict: anything that is not a JSON question list
// fails with ErrMalformedGeneration.
func ParseQuestions(raw string) ([]content.Question, error) {
	s := trimCodeFence(strings.TrimSpace(raw))

	var qs []content.Question
	if err := json.Unmarshal([]byte(s), &qs); err != nil {
		// some models wrap the list in an object, e.g. {"questions": [...]}
		var wrapped struct {
			Questions []content.Question `json:"questions"`
		}
		if err2 := json.Unmarshal([]byte(s), &wrapped); err2 != nil || len(wrapped.Questions) == 0 {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedGeneration, err)
		}
		qs = wrapped.Questions
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("%w: empty question list", apperrors.ErrMalformedGeneration)
	}
	for i, q := range qs {
		if q.Question == "" {
			return nil, fmt.Errorf("%w: question %d has no text", apperrors.ErrMalformedGeneration, i+1)
		}
	}
	return qs, nil
}

// trimCodeFence strips a surrounding markdown code fence when present.
func trimCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
