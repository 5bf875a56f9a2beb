package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"campus-assist/internal/domain"
)

// Build converts one facility record into an indexed document. The text
// concatenates every queryable field in a fixed order so embeddings are
// stable across runs. A record missing a required field yields a
// MissingFieldError; callers skip and log such records.
func Build(rec domain.FacilityRecord) (domain.IndexedDocument, error) {
	if err := checkRequired(rec); err != nil {
		return domain.IndexedDocument{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Type: %s\n", rec.Category)
	fmt.Fprintf(&b, "Location: %s\n", rec.Location)
	b.WriteString("Hours:\n")
	b.WriteString(formatHours(rec.Hours))
	fmt.Fprintf(&b, "Description: %s\n", rec.Description)
	fmt.Fprintf(&b, "Contact: %s\n", rec.Contact)
	b.WriteString("Additional Info:\n")
	for _, item := range rec.AdditionalInfo {
		fmt.Fprintf(&b, "  - %s\n", item)
	}

	return domain.IndexedDocument{
		ID:   rec.ID,
		Text: b.String(),
		Metadata: map[string]string{
			"name":     rec.Name,
			"type":     rec.Category,
			"location": rec.Location,
			"contact":  rec.Contact,
		},
	}, nil
}

// formatHours renders the hours map with sorted period keys so the document
// text is deterministic regardless of JSON key order.
func formatHours(hours map[string]string) string {
	if len(hours) == 0 {
		return "  Not specified\n"
	}
	periods := make([]string, 0, len(hours))
	for p := range hours {
		periods = append(periods, p)
	}
	sort.Strings(periods)
	var b strings.Builder
	for _, p := range periods {
		fmt.Fprintf(&b, "  %s: %s\n", titleCase(strings.ReplaceAll(p, "_", " ")), hours[p])
	}
	return b.String()
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
