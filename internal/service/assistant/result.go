package assistant

// FallbackReason names the degraded path an operation took. Empty means none.
type FallbackReason string

const (
	// FallbackRouting: the resolved persona has no loaded guidelines; no model call was made.
	FallbackRouting FallbackReason = "routing"
	// FallbackGeneration: a persona was resolved but the model call failed.
	FallbackGeneration FallbackReason = "generation"
	// FallbackParse: the model answered but the output could not be used.
	FallbackParse FallbackReason = "parse"
)

// Fixed fallback texts.
const (
	RoutingFallbackMessage    = "I'm here to help! Could you tell me more about what you're looking for?"
	GenerationFallbackMessage = "I'm having trouble right now, but I'm here to help! Could you try asking again?"
)

// DefaultSuggestions is returned whenever suggestion generation cannot produce a usable list.
func DefaultSuggestions() []string {
	return []string{"Show me more", "Similar items", "Style tips"}
}

// Route is the outcome of keyword routing.
type Route struct {
	PersonaID string `json:"personaId"`
	Version   string `json:"version"`
}

// Reply is the result of a chat turn.
type Reply struct {
	Message      string         `json:"message"`
	AgentID      string         `json:"agentId"`
	AgentVersion string         `json:"agentVersion"`
	Fallback     FallbackReason `json:"fallback,omitempty"`
}

// Suggestions is the result of suggestion-chip generation. Items never exceeds MaxSuggestions.
type Suggestions struct {
	Items    []string       `json:"suggestions"`
	Fallback FallbackReason `json:"fallback,omitempty"`
}

// StylistSuggestion is one styling tip with its rationale.
type StylistSuggestion struct {
	Text      string `json:"text"`
	Reasoning string `json:"reasoning"`
}

// StylistResult is the result of stylist-suggestion generation.
type StylistResult struct {
	Suggestions []StylistSuggestion `json:"suggestions"`
	Fallback    FallbackReason      `json:"fallback,omitempty"`
}
