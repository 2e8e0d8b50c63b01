package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string         `yaml:"port"`
	UploadDir      string         `yaml:"upload_dir"`
	MaxUploadBytes int64          `yaml:"max_upload_bytes"`
	LogLevel       string         `yaml:"log_level"`
	Database       DatabaseConfig `yaml:"database"`
	OpenAI         OpenAIConfig   `yaml:"openai"`
	Gemini         GeminiConfig   `yaml:"gemini"`
	STT            STTConfig      `yaml:"stt"`
	AI             AIConfig       `yaml:"ai"`
	Prompts        PromptsConfig  `yaml:"prompts"`
	Events         EventsConfig   `yaml:"events"`
}

type DatabaseConfig struct {
	// URL selects PostgreSQL when set; SQLitePath is used otherwise.
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlite_path"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type GeminiConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

type STTConfig struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type AIConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

type PromptsConfig struct {
	File  string `yaml:"file"`
	Watch bool   `yaml:"watch"`
}

type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url"`
	Exchange string `yaml:"exchange"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Port:           "3333",
		UploadDir:      "tmp",
		MaxUploadBytes: 25 * 1024 * 1024,
		LogLevel:       "info",
		Database: DatabaseConfig{
			SQLitePath: "upload-ai.db",
		},
		STT: STTConfig{
			Provider: "openai",
			Model:    "whisper-1",
			Language: "pt",
		},
		AI: AIConfig{
			Provider: "openai",
		},
		Prompts: PromptsConfig{
			File: "prompts.yaml",
		},
		Events: EventsConfig{
			Exchange: "upload-ai.events",
		},
	}
}

// Load loads configuration from the optional YAML file named by CONFIG_FILE,
// then from environment variables, which take precedence.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.SQLitePath = getEnv("SQLITE_PATH", c.Database.SQLitePath)
	c.OpenAI.APIKey = getEnv("OPENAI_API_KEY", c.OpenAI.APIKey)
	c.OpenAI.BaseURL = getEnv("OPENAI_BASE_URL", c.OpenAI.BaseURL)
	c.Gemini.APIKey = getEnv("GEMINI_API_KEY", c.Gemini.APIKey)
	c.Gemini.BaseURL = getEnv("GEMINI_BASE_URL", c.Gemini.BaseURL)
	c.STT.Provider = strings.ToLower(getEnv("STT_PROVIDER", c.STT.Provider))
	c.STT.Model = getEnv("STT_MODEL", c.STT.Model)
	c.STT.Language = getEnv("STT_LANGUAGE", c.STT.Language)
	c.AI.Provider = strings.ToLower(getEnv("AI_PROVIDER", c.AI.Provider))
	c.AI.Model = getEnv("AI_MODEL", c.AI.Model)
	c.Prompts.File = getEnv("PROMPTS_FILE", c.Prompts.File)
	c.Events.AMQPURL = getEnv("AMQP_URL", c.Events.AMQPURL)
	c.Events.Exchange = getEnv("AMQP_EXCHANGE", c.Events.Exchange)

	if v := os.Getenv("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_UPLOAD_BYTES %q: %w", v, err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("AI_TEMPERATURE"); v != "" {
		f, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("invalid AI_TEMPERATURE %q: %w", v, err)
		}
		c.AI.Temperature = float32(f)
	}
	if v := os.Getenv("WATCH_PROMPTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WATCH_PROMPTS %q: %w", v, err)
		}
		c.Prompts.Watch = b
	}

	return nil
}

// Validate checks if the configuration is usable
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid port: %q", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload size must be positive, got %d", c.MaxUploadBytes)
	}
	if c.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Database.URL == "" && c.Database.SQLitePath == "" {
		return fmt.Errorf("either DATABASE_URL or SQLITE_PATH is required")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("AI temperature must be within [0, 2], got %v", c.AI.Temperature)
	}

	switch c.STT.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai speech provider")
		}
	default:
		return fmt.Errorf("unsupported STT provider: %s. Supported: openai", c.STT.Provider)
	}

	switch c.AI.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai completion provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini completion provider")
		}
	default:
		return fmt.Errorf("unsupported AI provider: %s. Supported: openai, gemini", c.AI.Provider)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
