package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-assist/internal/domain"
)

func TestAssembleOrdersAndLabelsSources(t *testing.T) {
	results := domain.RetrievalResult{
		{Document: domain.IndexedDocument{ID: "a", Text: "Library hours and contact."}, Distance: 0.12},
		{Document: domain.IndexedDocument{ID: "b", Text: "Cafeteria menu and hours."}, Distance: 0.48},
	}
	block := Assemble(results)

	assert.Contains(t, block, "--- Source 1 (similarity distance: 0.1200) ---")
	assert.Contains(t, block, "--- Source 2 (similarity distance: 0.4800) ---")
	assert.Less(t,
		strings.Index(block, "Library hours and contact."),
		strings.Index(block, "Cafeteria menu and hours."),
	)
}

func TestAssembleEmptyResults(t *testing.T) {
	assert.Equal(t, NoContextMarker, Assemble(nil))
	assert.Equal(t, NoContextMarker, Assemble(domain.RetrievalResult{}))
}

func TestUserMessageContainsContextAndQuestion(t *testing.T) {
	msg := UserMessage("When does the library close?", "context block")
	assert.Contains(t, msg, "context block")
	assert.Contains(t, msg, "When does the library close?")
}
