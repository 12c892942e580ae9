package persona

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

type frontMatter struct {
	Tone string `yaml:"tone"`
}

// ParseDocument splits an instruction document into its tone and body.
// The optional header is YAML between two "---" lines at the top of the
// document. A missing or malformed header yields DefaultTone.
func ParseDocument(raw string) (tone, body string) {
	text := strings.TrimPrefix(raw, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	header, rest, ok := splitFrontMatter(text)
	if !ok {
		return DefaultTone, strings.TrimSpace(text)
	}

	var meta frontMatter
	if err := yaml.Unmarshal([]byte(header), &meta); err != nil {
		return DefaultTone, strings.TrimSpace(rest)
	}
	tone = strings.TrimSpace(meta.Tone)
	if tone == "" {
		tone = DefaultTone
	}
	return tone, strings.TrimSpace(rest)
}

func splitFrontMatter(text string) (header, rest string, ok bool) {
	trimmed := strings.TrimLeft(text, " \t\n")
	if !strings.HasPrefix(trimmed, frontMatterDelim+"\n") {
		return "", text, false
	}
	lines := strings.Split(trimmed, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontMatterDelim {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", text, false
}
