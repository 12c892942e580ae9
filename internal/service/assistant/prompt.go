package assistant

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/model/persona"
)

// buildChatPrompt assembles the system instruction for a chat turn.
func buildChatPrompt(name string, g persona.Guidelines, context string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a shopping assistant for an online fashion store.\n\n", name)
	b.WriteString("Persona guidelines:\n")
	b.WriteString(g.Content)
	fmt.Fprintf(&b, "\n\nTone: %s", g.Tone)

	if context = strings.TrimSpace(context); context != "" {
		b.WriteString("\n\nShopper context:\n")
		b.WriteString(context)
	}

	b.WriteString(`

Response rules:
- Limit your reply to 1-2 sentences.
- Keep it actionable.
- Match the tone above.
- Reference concrete items when relevant.`)
	return b.String()
}

// buildSuggestionPrompt asks for exactly three short follow-up prompts as a JSON array.
func buildSuggestionPrompt(name string, g persona.Guidelines) string {
	return fmt.Sprintf(`You are %s, a shopping assistant for an online fashion store. Tone: %s.

Based on the shopper context, propose exactly 3 short follow-up prompts the shopper might tap next.
Each prompt must be 5 words or fewer.
Respond only with a JSON array of 3 strings, for example ["Show me boots","Under $100","Pair with jeans"]. Do not add any other text.`,
		name, g.Tone)
}

// buildStylistPrompt asks for numbered styling tips of the form "N. tip - reasoning".
func buildStylistPrompt(g persona.Guidelines) string {
	var b strings.Builder
	b.WriteString("You are a personal stylist for an online fashion store.\n")
	if g.Content != "" {
		b.WriteString("\nPersona guidelines:\n")
		b.WriteString(g.Content)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nTone: %s\n\n", g.Tone)
	b.WriteString(`Give exactly 3 styling tips for the selected items.
Write each tip on its own line as: N. tip - short reasoning`)
	return b.String()
}

// describeSelection renders the selected items and occasion as the user message.
func describeSelection(items []catalog.Product, occasion string) string {
	var b strings.Builder
	if len(items) == 0 {
		b.WriteString("No items selected yet.")
	} else {
		b.WriteString("Selected items:\n")
		for _, p := range items {
			fmt.Fprintf(&b, "- %s (%s %s, $%.2f)\n", p.Name, p.Color, p.Material, p.Price)
		}
	}
	if occasion = strings.TrimSpace(occasion); occasion != "" {
		fmt.Fprintf(&b, "\nOccasion: %s", occasion)
	}
	return strings.TrimSpace(b.String())
}
