// Package prompt formats retrieved documents into the context block and
// messages sent to the generation model.
package prompt

import (
	"fmt"
	"strings"

	"campus-assist/internal/domain"
)

// NoContextMarker is produced when retrieval returned nothing, so the
// generation step can decline to answer instead of receiving an empty block.
const NoContextMarker = "No relevant campus information was found for this question."

// SystemPrompt instructs the generation model to answer strictly from the
// supplied context.
const SystemPrompt = `You are the campus resource assistant. Your job is to help students, faculty, and visitors find information about campus facilities and services.

Rules:
- Answer ONLY based on the provided context documents. Do not make up information.
- If the context does not contain enough information to answer, say so honestly and suggest where the user might find help.
- Be concise but helpful. Use bullet points when listing multiple items.
- Always mention the source facility name(s) you used to answer.
- If hours or contact info are in the context, include them in your answer.`

// Assemble formats the retrieval results into a single context block, one
// labeled source per result, in retrieval order (most similar first).
func Assemble(results domain.RetrievalResult) string {
	if len(results) == 0 {
		return NoContextMarker
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("--- Source %d (similarity distance: %.4f) ---\n%s\n", i+1, r.Distance, r.Document.Text)
	}
	return strings.Join(blocks, "\n")
}

// UserMessage combines the assembled context with the original question.
func UserMessage(question, context string) string {
	return fmt.Sprintf("Context documents:\n\n%s\n\nStudent question: %s\n\nProvide a helpful answer based on the context above.", context, question)
}
