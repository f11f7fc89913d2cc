package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`

	Limits struct {
		MaxCategories        int `mapstructure:"max_categories"`
		MaxPaymentTextLength int `mapstructure:"max_payment_text_length"`
	} `mapstructure:"limits"`

	Ollama struct {
		BaseURL               string   `mapstructure:"base_url"`
		Models                []string `mapstructure:"models"`
		Temperature           float64  `mapstructure:"temperature"`
		TimeoutSeconds        int      `mapstructure:"timeout_seconds"`
		MaxConcurrentRequests int      `mapstructure:"max_concurrent_requests"`
	} `mapstructure:"ollama"`

	OpenAI struct {
		APIKey         string   `mapstructure:"api_key"`
		Models         []string `mapstructure:"models"`
		Temperature    float64  `mapstructure:"temperature"`
		MaxTokens      int      `mapstructure:"max_tokens"`
		TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	} `mapstructure:"openai"`

	Gemini struct {
		APIKey          string   `mapstructure:"api_key"`
		Models          []string `mapstructure:"models"`
		Temperature     float64  `mapstructure:"temperature"`
		MaxOutputTokens int      `mapstructure:"max_output_tokens"`
		TimeoutSeconds  int      `mapstructure:"timeout_seconds"`
	} `mapstructure:"gemini"`

	Search struct {
		APIKey         string `mapstructure:"api_key"`
		EngineID       string `mapstructure:"engine_id"`
		MaxResults     int64  `mapstructure:"max_results"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"search"`

	Prompts struct {
		Path string `mapstructure:"path"` // path to the prompt templates YAML
	} `mapstructure:"prompts"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".") // Look for config.yaml in the current directory

	// --- Environment Variable Binding ---
	viper.AutomaticEnv()
	// Explicit bindings so the usual provider env vars work without a prefix.
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("gemini.api_key", "GOOGLE_API_KEY")
	viper.BindEnv("search.api_key", "GOOGLE_API_KEY")
	viper.BindEnv("search.engine_id", "GOOGLE_SEARCH_ENGINE_ID")
	viper.BindEnv("ollama.base_url", "OLLAMA_BASE_URL")
	// --- End Environment Variable Binding ---

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", "localhost")
	viper.SetDefault("server.port", "8080")

	viper.SetDefault("limits.max_categories", 20)
	viper.SetDefault("limits.max_payment_text_length", 10000)

	viper.SetDefault("ollama.base_url", "http://localhost:11434")
	viper.SetDefault("ollama.models", []string{"qwen2.5:1.5b"})
	viper.SetDefault("ollama.temperature", 0.0)
	viper.SetDefault("ollama.timeout_seconds", 30)
	viper.SetDefault("ollama.max_concurrent_requests", 10)

	viper.SetDefault("openai.models", []string{"gpt-4o-mini"})
	viper.SetDefault("openai.temperature", 0.0)
	viper.SetDefault("openai.max_tokens", 1024)
	viper.SetDefault("openai.timeout_seconds", 30)

	viper.SetDefault("gemini.models", []string{"gemini-2.5-flash", "gemini-1.5-flash", "gemini-1.5-pro"})
	viper.SetDefault("gemini.temperature", 0.0)
	viper.SetDefault("gemini.max_output_tokens", 1024)
	viper.SetDefault("gemini.timeout_seconds", 30)

	viper.SetDefault("search.max_results", 3)
	viper.SetDefault("search.timeout_seconds", 10)
}
