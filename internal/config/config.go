// Package config loads Wordcraft settings with Viper.
// Precedence, lowest to highest: defaults, optional YAML file, environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Engine names accepted in llm.engine / ENGINE.
const (
	EngineOpenAI    = "openai"
	EngineOllama    = "ollama"
	EngineAnthropic = "anthropic"
)

// Config is the root configuration struct.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Anki      AnkiConfig      `mapstructure:"anki"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type StorageConfig struct {
	DatabasePath string `mapstructure:"database_path"`
	DeckDir      string `mapstructure:"deck_dir"`
}

type AuthConfig struct {
	APIKeys   []string `mapstructure:"api_keys"`
	AdminKeys []string `mapstructure:"admin_keys"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig selects exactly one backend. There is no fallback chain.
type LLMConfig struct {
	Engine    string          `mapstructure:"engine"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	MaxTokens int             `mapstructure:"max_tokens"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	URL   string `mapstructure:"url"`
	Model string `mapstructure:"model"`
}

type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// AnkiConfig describes how to reach the AnkiConnect endpoint.
type AnkiConfig struct {
	URL string `mapstructure:"url"`
	// CheckTimeout bounds the connection health check.
	CheckTimeout time.Duration `mapstructure:"check_timeout"`
	// RequestTimeout bounds every other AnkiConnect call.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// RequestsPerSecond paces calls to AnkiConnect. Zero disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

type RateLimitConfig struct {
	// RequestsPerSecond limits each API key. Zero disables the limit.
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultAnkiURL is where AnkiConnect listens out of the box.
const DefaultAnkiURL = "http://localhost:8765"

// legacyEnv maps config keys to the unprefixed variable names the tool has
// always honored. The WORDCRAFT_ form of each key keeps working too.
var legacyEnv = map[string]string{
	"anki.url":              "ANKI_CONNECT_URL",
	"llm.engine":            "ENGINE",
	"llm.openai.api_key":    "OPEN_API_KEY",
	"llm.ollama.model":      "OLLAMA_MODEL",
	"llm.ollama.url":        "OLLAMA_URL",
	"llm.anthropic.api_key": "ANTHROPIC_API_KEY",
}

// Load reads configuration from a YAML file and environment variables.
// An empty configPath searches ./config.yaml and ./config/config.yaml.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("storage.database_path", "./storage/wordcraft.db")
	v.SetDefault("storage.deck_dir", "./storage/decks")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("llm.engine", EngineOpenAI)
	v.SetDefault("llm.openai.model", "gpt-4o")
	v.SetDefault("llm.ollama.url", "http://localhost:11434/v1")
	v.SetDefault("llm.ollama.model", "gemma2")
	v.SetDefault("llm.anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("anki.url", DefaultAnkiURL)
	v.SetDefault("anki.check_timeout", 2*time.Second)
	v.SetDefault("anki.request_timeout", 30*time.Second)
	v.SetDefault("anki.requests_per_second", 0)
	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("log.level", "info")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// A missing default config file is fine; a missing explicit one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && configPath != "" {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	// WORDCRAFT_ANKI_URL=... -> anki.url
	v.SetEnvPrefix("WORDCRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range legacyEnv {
		envKey := "WORDCRAFT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envKey, name); err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.Engine = strings.ToLower(strings.TrimSpace(cfg.LLM.Engine))
	return &cfg, nil
}

// Address returns the listen address string like "127.0.0.1:8080".
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
