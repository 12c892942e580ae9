package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/model/persona"
	"github.com/zhouzirui/z-style/backend/internal/service/audit"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

// Output ceilings passed to the provider.
const (
	ChatMaxTokens       = 512
	SuggestionMaxTokens = 100
	StylistMaxTokens    = 300

	MaxSuggestions = 3
)

var errNoProvider = errors.New("text generation provider not configured")

// Provider generates one reply for a system instruction and a user message.
type Provider interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// AuditLogger receives every chat turn. Failures are logged and ignored.
type AuditLogger interface {
	Record(ctx context.Context, turn audit.Turn) error
}

// Service routes messages to personas and delegates generation to a Provider.
// Initialize must run before any other method; the loaded configuration is
// read-only afterwards.
type Service struct {
	loader   persona.Loader
	provider Provider
	audit    AuditLogger
	log      zerolog.Logger

	registry   *persona.MemoryStore
	rules      []persona.RoutingRule
	guidelines map[string]persona.Guidelines
}

// NewService wires the router. provider and auditLog may be nil; a nil
// provider makes every generation take the fallback path.
func NewService(loader persona.Loader, provider Provider, auditLog AuditLogger) *Service {
	return &Service{
		loader:     loader,
		provider:   provider,
		audit:      auditLog,
		log:        logger.Component("assistant"),
		registry:   persona.NewMemoryStore(nil),
		guidelines: make(map[string]persona.Guidelines),
	}
}

// Initialize loads the registry, routing table and instruction documents.
// Failing resources are logged and left out rather than aborting startup.
func (s *Service) Initialize(_ context.Context) {
	items, err := s.loader.ListPersonas()
	if err != nil {
		s.log.Error().Err(err).Msg("load persona registry")
		items = nil
	}

	rules, err := s.loader.ListRoutingRules()
	if err != nil {
		s.log.Error().Err(err).Msg("load routing rules")
		rules = nil
	}

	guidelines := make(map[string]persona.Guidelines, len(items))
	for i, p := range items {
		if !p.Enabled {
			continue
		}
		if _, dup := guidelines[p.ID]; dup {
			s.log.Warn().Str("persona", p.ID).Msg("duplicate persona id ignored")
			continue
		}
		raw, err := s.loader.LoadInstructionDocument(p.MDPath)
		if err != nil {
			s.log.Error().Err(err).Str("persona", p.ID).Str("path", p.MDPath).Msg("load instruction document")
			continue
		}
		tone, body := persona.ParseDocument(raw)
		items[i].Tone = tone
		guidelines[p.ID] = persona.Guidelines{
			ID:      p.ID,
			Version: p.Version,
			Tone:    tone,
			Content: body,
		}
	}

	s.registry = persona.NewMemoryStore(items)
	s.rules = rules
	s.guidelines = guidelines

	s.log.Info().
		Int("personas", len(items)).
		Int("loaded", len(guidelines)).
		Int("rules", len(rules)).
		Msg("assistant initialized")
}

// Personas exposes the loaded registry.
func (s *Service) Personas() persona.Store {
	return s.registry
}

// RouteMessage picks the persona for a message. Rules are tried in order and
// intents within a rule in order; the first keyword contained in the message
// wins. A rule whose persona is missing or disabled is skipped.
func (s *Service) RouteMessage(message string) Route {
	lower := strings.ToLower(message)

	for _, rule := range s.rules {
		for _, intent := range rule.Intents {
			keyword := strings.ToLower(strings.TrimSpace(intent))
			if keyword == "" || !strings.Contains(lower, keyword) {
				continue
			}
			if p, ok := s.registry.FindByID(rule.AgentID); ok && p.Enabled {
				return Route{PersonaID: p.ID, Version: p.Version}
			}
			break
		}
	}

	if p, ok := s.registry.FindByID(persona.DefaultID); ok {
		return Route{PersonaID: p.ID, Version: p.Version}
	}
	return Route{PersonaID: persona.DefaultID, Version: persona.DefaultVersion}
}

// Chat answers a message in the voice of the routed persona.
func (s *Service) Chat(ctx context.Context, message, shopperContext string) Reply {
	route := s.RouteMessage(message)

	g, ok := s.guidelines[route.PersonaID]
	if !ok {
		reply := Reply{
			Message:      RoutingFallbackMessage,
			AgentID:      persona.DefaultID,
			AgentVersion: persona.DefaultVersion,
			Fallback:     FallbackRouting,
		}
		s.record(ctx, message, shopperContext, reply)
		return reply
	}

	reply := Reply{AgentID: route.PersonaID, AgentVersion: route.Version}

	text, err := s.complete(ctx, buildChatPrompt(s.displayName(route.PersonaID), g, shopperContext), message, ChatMaxTokens)
	if err != nil {
		s.log.Error().Err(err).Str("persona", route.PersonaID).Msg("chat generation failed")
		reply.Message = GenerationFallbackMessage
		reply.Fallback = FallbackGeneration
	} else {
		reply.Message = text
	}

	s.record(ctx, message, shopperContext, reply)
	return reply
}

// GenerateSuggestions proposes up to three follow-up prompts for the shopper context.
func (s *Service) GenerateSuggestions(ctx context.Context, shopperContext string) Suggestions {
	route := s.RouteMessage(shopperContext)

	g, ok := s.guidelines[route.PersonaID]
	if !ok {
		return Suggestions{Items: DefaultSuggestions(), Fallback: FallbackRouting}
	}

	raw, err := s.complete(ctx, buildSuggestionPrompt(s.displayName(route.PersonaID), g), shopperContext, SuggestionMaxTokens)
	if err != nil {
		s.log.Error().Err(err).Str("persona", route.PersonaID).Msg("suggestion generation failed")
		return Suggestions{Items: DefaultSuggestions(), Fallback: FallbackGeneration}
	}

	items, err := parseSuggestionArray(raw)
	if err != nil {
		s.log.Warn().Err(err).Str("raw", raw).Msg("unusable suggestion output")
		return Suggestions{Items: DefaultSuggestions(), Fallback: FallbackParse}
	}
	return Suggestions{Items: items}
}

// StylistSuggestions asks for numbered styling tips for the selected items.
func (s *Service) StylistSuggestions(ctx context.Context, items []catalog.Product, occasion string) StylistResult {
	g, ok := s.guidelines[persona.DefaultID]
	if !ok {
		g = persona.Guidelines{ID: persona.DefaultID, Tone: persona.DefaultTone}
	}

	raw, err := s.complete(ctx, buildStylistPrompt(g), describeSelection(items, occasion), StylistMaxTokens)
	if err != nil {
		s.log.Error().Err(err).Msg("stylist generation failed")
		return StylistResult{Suggestions: ParseStylistSuggestions("", items), Fallback: FallbackGeneration}
	}
	return StylistResult{Suggestions: ParseStylistSuggestions(raw, items)}
}

func (s *Service) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if s.provider == nil {
		return "", errNoProvider
	}
	text, err := s.provider.Complete(ctx, system, user, maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty completion")
	}
	return strings.TrimSpace(text), nil
}

func (s *Service) displayName(id string) string {
	if p, ok := s.registry.FindByID(id); ok && p.Name != "" {
		return p.Name
	}
	return id
}

func (s *Service) record(ctx context.Context, message, shopperContext string, reply Reply) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, audit.Turn{
		AgentID:      reply.AgentID,
		AgentVersion: reply.AgentVersion,
		Context:      shopperContext,
		UserMessage:  message,
		Suggestion:   reply.Message,
		Fallback:     string(reply.Fallback),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("audit record failed")
	}
}

// parseSuggestionArray reads the first JSON array of strings in raw,
// tolerating prose or code fences around it.
func parseSuggestionArray(raw string) ([]string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, errors.New("no array in output")
	}

	var parsed []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, fmt.Errorf("decode suggestions: %w", err)
	}

	out := make([]string, 0, MaxSuggestions)
	for _, item := range parsed {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
		if len(out) == MaxSuggestions {
			break
		}
	}
	if len(out) == 0 {
		return nil, errors.New("empty suggestion list")
	}
	return out, nil
}
