package persona

// DefaultID is the persona used when no routing rule matches.
const DefaultID = "fashion"

// DefaultVersion tags replies when the default persona is not registered.
const DefaultVersion = "v1"

// DefaultTone applies when an instruction document declares no tone.
const DefaultTone = "helpful, concise"

// Persona is a registry entry describing one assistant persona.
type Persona struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name,omitempty"`
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Version string `yaml:"version" json:"version"`
	MDPath  string `yaml:"mdPath" json:"mdPath"`
	// Tone is filled from the instruction document once it is loaded.
	Tone string `yaml:"-" json:"tone,omitempty"`
}

// Guidelines is the loaded instruction document of an enabled persona.
type Guidelines struct {
	ID      string
	Version string
	Tone    string
	Content string
}

// RoutingRule maps intent keywords to a persona; rules are evaluated in order.
type RoutingRule struct {
	Intents []string `yaml:"intents" json:"intents"`
	AgentID string   `yaml:"agentId" json:"agentId"`
}
