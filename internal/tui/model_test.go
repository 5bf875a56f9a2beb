package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-assist/internal/domain"
)

type stubAssistant struct{}

func (stubAssistant) Ask(context.Context, string) (*domain.Answer, error) { return nil, nil }

func TestNewStatusReportsIndexedCount(t *testing.T) {
	m := New(stubAssistant{}, 10)
	assert.Equal(t, "Ready - 10 documents indexed. Type a question.", m.status)
}

func TestRenderAnswerListsSourcesAndRelevance(t *testing.T) {
	m := New(stubAssistant{}, 1)
	m.answer = &domain.Answer{
		Text: "The Library closes at 10pm.",
		Sources: []domain.IndexedDocument{{
			ID:       "library",
			Metadata: map[string]string{"name": "Library", "type": "facility"},
		}},
		Distances: []float64{0.2},
	}

	out := m.renderAnswer()
	assert.Contains(t, out, "[1] Library (facility) - relevance ~90%")
	assert.Contains(t, out, "The Library closes at 10pm.")
	assert.Contains(t, out, "Sources: Library")
}

func TestRenderAnswerBeforeFirstQuestion(t *testing.T) {
	m := New(stubAssistant{}, 0)
	assert.Equal(t, "No answer yet.", m.renderAnswer())
}
