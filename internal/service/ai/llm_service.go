package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/z-style/backend/internal/config"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

// ErrEmptyCompletion is returned when the model answers with no text.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Service turns a system instruction and a user message into a single reply.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
	log   zerolog.Logger
}

// NewService builds the chat model from configuration and wraps it in a chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, chatModel)
}

// NewServiceWithModel wraps an existing chat model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is nil")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain: runnable,
		log:   logger.Component("ai"),
	}, nil
}

// Complete runs one generation. maxTokens <= 0 leaves the model default.
func (s *Service) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	input := map[string]any{
		"system": system,
		"query":  user,
	}

	var opts []compose.Option
	if maxTokens > 0 {
		opts = append(opts, compose.WithChatModelOption(model.WithMaxTokens(maxTokens)))
	}

	start := time.Now()
	response, err := s.chain.Invoke(ctx, input, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	content := ""
	if response != nil {
		content = strings.TrimSpace(response.Content)
	}
	if content == "" {
		return "", ErrEmptyCompletion
	}

	s.log.Debug().
		Dur("elapsed", time.Since(start)).
		Int("length", len(content)).
		Msg("generated completion")
	return content, nil
}
