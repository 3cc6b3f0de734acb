package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	Quota struct {
		FreeDailyLimit int `yaml:"free_daily_limit"`
	} `yaml:"quota"`

	AI struct {
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"ai"`

	Transcription struct {
		APIKey         string `yaml:"api_key"`
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"transcription"`

	PayPal struct {
		ClientID  string `yaml:"client_id"`
		Secret    string `yaml:"secret"`
		BaseURL   string `yaml:"base_url"` // sandbox or live
		ProductID string `yaml:"product_id"`
		PlanID    string `yaml:"plan_id"`
		ReturnURL string `yaml:"return_url"`
		CancelURL string `yaml:"cancel_url"`
	} `yaml:"paypal"`

	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		UseTLS       bool   `yaml:"use_tls"`
		BaseURL      string `yaml:"base_url"` // link base for verification/reset emails
	} `yaml:"email"`
}

// Defaults applied when the yaml/env leaves a knob unset.
const (
	DefaultFreeDailyLimit  = 10
	DefaultAIBaseURL       = "https://api.openai.com/v1"
	DefaultAIModel         = "gpt-4o-mini"
	DefaultAITimeout       = 25 * time.Second
	DefaultPayPalBaseURL   = "https://api-m.sandbox.paypal.com"
	DefaultTranscribeModel = "whisper-1"
)

var AppConfig *Config

func LoadConfig() {
	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyEnvSecrets(&cfg)
		applyDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	// Env-only mode (tests and container deployments).
	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60

	applyEnvSecrets(&cfg)
	applyDefaults(&cfg)
	AppConfig = &cfg
}

// applyEnvSecrets lets deployment secrets override whatever the yaml said.
// Missing AI/PayPal credentials are not fatal: categorization falls back and
// billing endpoints report a descriptive error instead.
func applyEnvSecrets(cfg *Config) {
	if v := os.Getenv("AI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("TRANSCRIPTION_API_KEY"); v != "" {
		cfg.Transcription.APIKey = v
	}
	if v := os.Getenv("PAYPAL_CLIENT_ID"); v != "" {
		cfg.PayPal.ClientID = v
	}
	if v := os.Getenv("PAYPAL_SECRET"); v != "" {
		cfg.PayPal.Secret = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Quota.FreeDailyLimit <= 0 {
		cfg.Quota.FreeDailyLimit = DefaultFreeDailyLimit
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = DefaultAIBaseURL
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultAIModel
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = int(DefaultAITimeout.Seconds())
	}
	if cfg.Transcription.BaseURL == "" {
		cfg.Transcription.BaseURL = cfg.AI.BaseURL
	}
	if cfg.Transcription.APIKey == "" {
		cfg.Transcription.APIKey = cfg.AI.APIKey
	}
	if cfg.Transcription.Model == "" {
		cfg.Transcription.Model = DefaultTranscribeModel
	}
	if cfg.Transcription.TimeoutSeconds <= 0 {
		cfg.Transcription.TimeoutSeconds = 60
	}
	if cfg.PayPal.BaseURL == "" {
		cfg.PayPal.BaseURL = DefaultPayPalBaseURL
	}
	if cfg.JWT.TTL <= 0 {
		cfg.JWT.TTL = 60
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
