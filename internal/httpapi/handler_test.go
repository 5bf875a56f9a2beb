package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-assist/internal/domain"
)

type stubAssistant struct {
	answer *domain.Answer
	err    error
}

func (s *stubAssistant) Ask(context.Context, string) (*domain.Answer, error) {
	return s.answer, s.err
}

func setup(assistant AssistantPort) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewHandler(assistant).Router()
}

func TestHealth(t *testing.T) {
	router := setup(&stubAssistant{})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestAsk(t *testing.T) {
	router := setup(&stubAssistant{answer: &domain.Answer{
		Text: "The Library closes at 10pm.",
		Sources: []domain.IndexedDocument{{
			ID:       "library",
			Metadata: map[string]string{"name": "Library", "type": "facility"},
		}},
		Distances: []float64{0.2},
	}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question": "When does the library close?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Answer  string `json:"answer"`
		Sources []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The Library closes at 10pm.", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "library", resp.Sources[0].ID)
	assert.Equal(t, "Library", resp.Sources[0].Name)
	assert.Equal(t, "facility", resp.Sources[0].Type)
}

func TestAskMissingQuestion(t *testing.T) {
	router := setup(&stubAssistant{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAskAssistantFailure(t *testing.T) {
	router := setup(&stubAssistant{err: errors.New("boom")})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"question": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
