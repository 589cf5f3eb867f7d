package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Port    string `toml:"port"`
	LogJSON bool   `toml:"log_json"`
	Debug   bool   `toml:"debug"`
}

type MatchingConfig struct {
	KGWeight      float64 `toml:"kg_weight"`
	SimWeight     float64 `toml:"sim_weight"`
	MinScore      float64 `toml:"min_score"`
	MaxConcurrent int     `toml:"max_concurrent"`
}

type BackendConfig struct {
	Name     string `toml:"name"`
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type LLMConfig struct {
	Backend        string          `toml:"backend"`
	TimeoutSeconds int             `toml:"timeout_seconds"`
	Temperature    float64         `toml:"temperature"`
	MaxTokens      int             `toml:"max_tokens"`
	Backends       []BackendConfig `toml:"backends"`
}

func (c LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type RetrievalConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	TopK     int    `toml:"top_k"`
}

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Matching  MatchingConfig  `toml:"matching"`
	LLM       LLMConfig       `toml:"llm"`
	Retrieval RetrievalConfig `toml:"retrieval"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Matching: MatchingConfig{
			KGWeight:  0.45,
			SimWeight: 0.55,
		},
		LLM: LLMConfig{
			Backend:        "auto",
			TimeoutSeconds: 30,
			Temperature:    0.3,
			MaxTokens:      60,
			Backends:       defaultBackends(),
		},
		Retrieval: RetrievalConfig{
			Provider: "ollama",
			Model:    "nomic-embed-text",
			TopK:     5,
		},
	}
}

func defaultBackends() []BackendConfig {
	return []BackendConfig{
		{Name: "ollama", Provider: "ollama", Model: "mistral"},
		{Name: "huggingface", Provider: "huggingface", Model: "mistralai/Mistral-7B-Instruct-v0.2"},
	}
}

// Load builds the config from defaults, the TOML file at path (if present)
// and finally environment variables, which win over both.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		// The default backend list must not linger under a file-provided one.
		cfg.LLM.Backends = nil
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if len(cfg.LLM.Backends) == 0 {
			cfg.LLM.Backends = defaultBackends()
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("LOG_JSON"); v != "" {
		c.Server.LogJSON = envBool(v)
	}
	if v := os.Getenv("LOG_DEBUG"); v != "" {
		c.Server.Debug = envBool(v)
	}

	if v := os.Getenv("RETRIEVAL_PROVIDER"); v != "" {
		c.Retrieval.Provider = v
	}
	if v := os.Getenv("EMBEDDING_MODEL"); v != "" {
		c.Retrieval.Model = v
	}

	if v := os.Getenv("LLM_BACKEND"); v != "" {
		c.LLM.Backend = v
	}
	if v := os.Getenv("LLM_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.LLM.TimeoutSeconds = secs
		}
	}

	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		for i := range c.LLM.Backends {
			if c.LLM.Backends[i].Provider == "ollama" {
				c.LLM.Backends[i].BaseURL = v
			}
		}
		if c.Retrieval.Provider == "ollama" {
			c.Retrieval.BaseURL = v
		}
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		for i := range c.LLM.Backends {
			if c.LLM.Backends[i].Provider == "ollama" {
				c.LLM.Backends[i].Model = v
			}
		}
	}

	c.setBackendKey("huggingface", os.Getenv("HF_API_TOKEN"))
	c.setBackendKey("openai", os.Getenv("OPENAI_API_KEY"))
	c.setBackendKey("gemini", os.Getenv("GEMINI_API_KEY"))
	c.setBackendKey("claude", os.Getenv("ANTHROPIC_API_KEY"))
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.Retrieval.Provider == "openai" {
		c.Retrieval.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Retrieval.Provider == "gemini" {
		c.Retrieval.APIKey = v
	}

	envFloat("KG_WEIGHT", &c.Matching.KGWeight)
	envFloat("SIM_WEIGHT", &c.Matching.SimWeight)
	envFloat("MIN_SCORE_THRESHOLD", &c.Matching.MinScore)
}

func (c *Config) setBackendKey(provider, key string) {
	if key == "" {
		return
	}
	for i := range c.LLM.Backends {
		if c.LLM.Backends[i].Provider == provider {
			c.LLM.Backends[i].APIKey = key
		}
	}
}

func (c *Config) validate() error {
	sum := c.Matching.KGWeight + c.Matching.SimWeight
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1, got %.4f", sum)
	}
	return nil
}

func envBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func envFloat(name string, out *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		*out = f
	}
}
