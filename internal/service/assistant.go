// Package service implements the assistant: retrieve supporting documents
// for a question, assemble them into a prompt, and generate an answer.
package service

import (
	"context"
	"fmt"
	"log"

	"campus-assist/internal/domain"
	"campus-assist/internal/prompt"
)

// DeclinedAnswer is returned when retrieval found nothing; the generation
// model is not called in that case.
const DeclinedAnswer = "I couldn't find any relevant information in the campus knowledge base. Please try rephrasing your question or contact Student Services for help."

// Assistant answers questions about campus facilities.
type Assistant struct {
	retriever domain.Retriever
	generator domain.Generator
	topK      int
}

// NewAssistant builds an assistant over a retriever and a generator.
// topK controls how many documents are retrieved per question.
func NewAssistant(retriever domain.Retriever, generator domain.Generator, topK int) *Assistant {
	if topK <= 0 {
		topK = 3
	}
	return &Assistant{retriever: retriever, generator: generator, topK: topK}
}

// Ask runs the full pipeline for one question: retrieve, assemble, generate.
func (a *Assistant) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	results, err := a.retriever.Retrieve(ctx, question, a.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve: %w", err)
	}
	if len(results) == 0 {
		return &domain.Answer{Text: DeclinedAnswer}, nil
	}

	for i, r := range results {
		log.Printf("retrieved [%d] %s (distance=%.4f)", i+1, r.Document.Metadata["name"], r.Distance)
	}

	assembled := prompt.Assemble(results)
	text, err := a.generator.Generate(ctx, prompt.SystemPrompt, prompt.UserMessage(question, assembled))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	answer := &domain.Answer{Text: text}
	for _, r := range results {
		answer.Sources = append(answer.Sources, r.Document)
		answer.Distances = append(answer.Distances, r.Distance)
	}
	return answer, nil
}
