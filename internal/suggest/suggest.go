package suggest

import "strings"

// defaults mirrors the prompts offered beneath the input box.
var defaults = []string{
	"How is the sentiment of this text?",
	"Analyze this image for sentiment.",
	"What is the mood of this audio?",
	"Is this positive or negative?",
	"Summarize the sentiment.",
}

// List filters a fixed set of prompt suggestions against typed input.
type List struct {
	entries []string
}

// NewList builds a suggestion list; nil entries selects the defaults.
func NewList(entries []string) *List {
	if entries == nil {
		entries = defaults
	}
	return &List{entries: entries}
}

// Filter returns the entries containing input, case-insensitively. Empty
// input yields nothing.
func (l *List) Filter(input string) []string {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return nil
	}

	var matched []string
	for _, entry := range l.entries {
		if strings.Contains(strings.ToLower(entry), input) {
			matched = append(matched, entry)
		}
	}
	return matched
}
