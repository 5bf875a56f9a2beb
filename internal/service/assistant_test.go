package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-assist/internal/domain"
)

type stubRetriever struct {
	results domain.RetrievalResult
	err     error
	gotK    int
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string, k int) (domain.RetrievalResult, error) {
	s.gotK = k
	return s.results, s.err
}

type stubGenerator struct {
	answer string
	err    error
	calls  int
	system string
	user   string
}

func (s *stubGenerator) Generate(_ context.Context, system, user string) (string, error) {
	s.calls++
	s.system = system
	s.user = user
	return s.answer, s.err
}

func libraryResult() domain.RetrievalResult {
	return domain.RetrievalResult{{
		Document: domain.IndexedDocument{
			ID:       "library",
			Text:     "Name: Library\nHours:\n  Weekdays: 8am-10pm\n",
			Metadata: map[string]string{"name": "Library", "type": "facility"},
		},
		Distance: 0.21,
	}}
}

func TestAskGeneratesFromRetrievedContext(t *testing.T) {
	retr := &stubRetriever{results: libraryResult()}
	gen := &stubGenerator{answer: "The Library closes at 10pm."}
	assistant := NewAssistant(retr, gen, 3)

	answer, err := assistant.Ask(context.Background(), "When does the library close?")
	require.NoError(t, err)
	assert.Equal(t, 3, retr.gotK)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.user, "8am-10pm")
	assert.Contains(t, gen.user, "When does the library close?")
	assert.NotEmpty(t, gen.system)

	assert.Equal(t, "The Library closes at 10pm.", answer.Text)
	require.Len(t, answer.Sources, 1)
	assert.Equal(t, "library", answer.Sources[0].ID)
	require.Len(t, answer.Distances, 1)
	assert.InDelta(t, 0.21, answer.Distances[0], 1e-9)
}

func TestAskDeclinesWithoutGenerationOnEmptyRetrieval(t *testing.T) {
	gen := &stubGenerator{}
	assistant := NewAssistant(&stubRetriever{}, gen, 3)

	answer, err := assistant.Ask(context.Background(), "Anything?")
	require.NoError(t, err)
	assert.Equal(t, DeclinedAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	assert.Zero(t, gen.calls)
}

func TestAskPropagatesRetrieverError(t *testing.T) {
	assistant := NewAssistant(&stubRetriever{err: domain.ErrConfigMismatch}, &stubGenerator{}, 3)
	_, err := assistant.Ask(context.Background(), "library hours")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigMismatch)
}

func TestAskPropagatesGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: context.DeadlineExceeded}
	assistant := NewAssistant(&stubRetriever{results: libraryResult()}, gen, 3)
	_, err := assistant.Ask(context.Background(), "library hours")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewAssistantDefaultsTopK(t *testing.T) {
	retr := &stubRetriever{}
	assistant := NewAssistant(retr, &stubGenerator{}, 0)
	_, err := assistant.Ask(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, 3, retr.gotK)
}
