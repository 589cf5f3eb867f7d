// Package common provides small text helpers shared across the matching
// pipeline.
package common

import "strings"

// CleanSentence normalizes a model completion into a single plain sentence.
// It strips markdown code fences, collapses internal whitespace and removes
// wrapping quotes some models add around short answers.
func CleanSentence(text string) string {
	text = strings.TrimSpace(text)
	text = stripCodeFence(text)
	text = strings.Join(strings.Fields(text), " ")
	text = strings.Trim(text, `"`)
	return strings.TrimSpace(text)
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx != -1 {
		text = text[idx+1:]
	}
	if idx := strings.LastIndex(text, "```"); idx != -1 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
