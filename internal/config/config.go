package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/kelseyhightower/envconfig"

	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

// Supported provider and driver names.
const (
	ProviderArk    = "ark"
	ProviderOpenAI = "openai"

	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Catalog CatalogConfig
	Persona PersonaConfig
	Log     logger.Config
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	var ai AIConfig
	if err := envconfig.Process("", &ai); err != nil {
		return nil, fmt.Errorf("%w: ai: %v", ErrInvalidConfig, err)
	}
	if err := ai.Validate(); err != nil {
		return nil, err
	}

	var catalog CatalogConfig
	if err := envconfig.Process("", &catalog); err != nil {
		return nil, fmt.Errorf("%w: catalog: %v", ErrInvalidConfig, err)
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	var personaCfg PersonaConfig
	if err := envconfig.Process("", &personaCfg); err != nil {
		return nil, fmt.Errorf("%w: persona: %v", ErrInvalidConfig, err)
	}

	var logCfg logger.Config
	if err := envconfig.Process("LOG", &logCfg); err != nil {
		return nil, fmt.Errorf("%w: log: %v", ErrInvalidConfig, err)
	}

	return &Config{
		Server:  server,
		AI:      ai,
		Catalog: catalog,
		Persona: personaCfg,
		Log:     logCfg,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

type rawServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	var raw rawServerConfig
	if err := envconfig.Process("", &raw); err != nil {
		return ServerConfig{}, fmt.Errorf("%w: server: %v", ErrInvalidConfig, err)
	}
	return parseAddr(raw.Port)
}

func parseAddr(port string) (ServerConfig, error) {
	port = strings.TrimSpace(port)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("%w: PORT value %q", ErrInvalidConfig, port)
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string `envconfig:"AI_PROVIDER" default:"ark"`

	ArkAPIKey    string `envconfig:"ARK_API_KEY"`
	ArkAccessKey string `envconfig:"ARK_ACCESS_KEY"`
	ArkSecretKey string `envconfig:"ARK_SECRET_KEY"`
	ArkModel     string `envconfig:"ARK_MODEL"`
	LegacyModel  string `envconfig:"MODEL"`
	ArkBaseURL   string `envconfig:"ARK_BASE_URL" default:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion    string `envconfig:"ARK_REGION" default:"cn-beijing"`

	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL"`

	Temperature *float32      `envconfig:"AI_TEMPERATURE"`
	TopP        *float32      `envconfig:"AI_TOP_P"`
	Timeout     time.Duration `envconfig:"AI_TIMEOUT" default:"30s"`
}

// Validate rejects unknown providers.
func (c AIConfig) Validate() error {
	switch c.provider() {
	case ProviderArk, ProviderOpenAI:
		return nil
	default:
		return fmt.Errorf("%w: unknown AI_PROVIDER %q", ErrInvalidConfig, c.Provider)
	}
}

func (c AIConfig) provider() string {
	if p := strings.ToLower(strings.TrimSpace(c.Provider)); p != "" {
		return p
	}
	return ProviderArk
}

// Model returns the model name for the selected provider.
func (c AIConfig) Model() string {
	if c.provider() == ProviderOpenAI {
		return strings.TrimSpace(c.OpenAIModel)
	}
	if m := strings.TrimSpace(c.ArkModel); m != "" {
		return m
	}
	return strings.TrimSpace(c.LegacyModel)
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	if c.Model() == "" {
		return false
	}
	if c.provider() == ProviderOpenAI {
		return strings.TrimSpace(c.OpenAIAPIKey) != ""
	}
	return c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != "")
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.BaseChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%w: %s credentials or model missing", ErrInvalidConfig, c.provider())
	}

	if c.provider() == ProviderOpenAI {
		m, err := openaimodel.NewChatModel(ctx, &openaimodel.ChatModelConfig{
			BaseURL:     strings.TrimRight(strings.TrimSpace(c.OpenAIBaseURL), "/"),
			APIKey:      strings.TrimSpace(c.OpenAIAPIKey),
			Model:       c.Model(),
			Temperature: c.Temperature,
			TopP:        c.TopP,
			Timeout:     c.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openai: create chat model: %w", err)
		}
		return m, nil
	}

	m, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.Model(),
		Temperature: c.Temperature,
		TopP:        c.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("ark: create chat model: %w", err)
	}
	return m, nil
}

// CatalogConfig selects the catalog store backend.
type CatalogConfig struct {
	Driver string `envconfig:"CATALOG_DRIVER" default:"memory"`
	DSN    string `envconfig:"CATALOG_DSN" default:"file:catalog.db?_pragma=busy_timeout(5000)"`
}

// Validate rejects unknown drivers.
func (c CatalogConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.Driver)) {
	case "", DriverMemory, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("%w: unknown CATALOG_DRIVER %q", ErrInvalidConfig, c.Driver)
	}
}

// PersonaConfig points at an on-disk persona pack. Empty Dir uses the embedded defaults.
type PersonaConfig struct {
	Dir string `envconfig:"PERSONA_DIR"`
}
