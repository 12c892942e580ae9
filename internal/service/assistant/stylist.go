package assistant

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
)

// MaxStylistSuggestions caps every stylist result.
const MaxStylistSuggestions = 3

// minSentenceLength filters fragments out of the sentence fallback.
const minSentenceLength = 20

var (
	numberedLine = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)
	// a dash or colon with whitespace on both sides; hyphenated words are left alone
	tipSeparator = regexp.MustCompile(`\s+[-–—:]\s+`)
)

// GenericStylistSuggestion is used when nothing usable can be parsed.
var GenericStylistSuggestion = StylistSuggestion{
	Text:      "Layer your pieces for depth and versatility",
	Reasoning: "Layering adds dimension and lets one outfit adapt from day to evening.",
}

// ParseStylistSuggestions turns free model text into at most three tips.
// Numbered lines are preferred; otherwise longer sentences are used; otherwise
// a single generic tip is returned.
func ParseStylistSuggestions(raw string, items []catalog.Product) []StylistSuggestion {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	reasoning := templatedReasoning(items)

	out := make([]StylistSuggestion, 0, MaxStylistSuggestions)
	for _, line := range strings.Split(raw, "\n") {
		m := numberedLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		body := strings.TrimSpace(strings.ReplaceAll(m[1], "**", ""))
		if body == "" {
			continue
		}

		tip := StylistSuggestion{Text: body, Reasoning: reasoning}
		if loc := tipSeparator.FindStringIndex(body); loc != nil {
			text := strings.TrimSpace(body[:loc[0]])
			why := strings.TrimSpace(body[loc[1]:])
			if text != "" {
				tip.Text = text
				if why != "" {
					tip.Reasoning = why
				}
			}
		}
		out = append(out, tip)
		if len(out) == MaxStylistSuggestions {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}

	for _, sentence := range splitSentences(raw) {
		if utf8.RuneCountInString(sentence) <= minSentenceLength {
			continue
		}
		out = append(out, StylistSuggestion{Text: sentence, Reasoning: reasoning})
		if len(out) == MaxStylistSuggestions {
			return out
		}
	}
	if len(out) > 0 {
		return out
	}

	return []StylistSuggestion{GenericStylistSuggestion}
}

// splitSentences breaks text after ". ", "! " and "? ".
func splitSentences(text string) []string {
	var (
		out   []string
		start int
	)
	for i := 0; i+1 < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if text[i+1] == ' ' {
				if s := strings.TrimSpace(text[start : i+1]); s != "" {
					out = append(out, s)
				}
				start = i + 2
			}
		}
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func templatedReasoning(items []catalog.Product) string {
	if len(items) == 0 || strings.TrimSpace(items[0].Material) == "" {
		return "Complements the pieces you've selected."
	}
	return fmt.Sprintf("Complements the %s of your selected pieces.", strings.ToLower(strings.TrimSpace(items[0].Material)))
}
