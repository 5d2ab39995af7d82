package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string `yaml:"log_level"`

	ProposalsDir    string `yaml:"proposals_dir"`
	ReviewsDir      string `yaml:"reviews_dir"`
	OutputDir       string `yaml:"output_dir"`
	MetadataCSV     string `yaml:"metadata_csv"`
	MetadataXLSX    string `yaml:"metadata_xlsx"`
	MetadataSheet   string `yaml:"metadata_sheet"`
	ReviewExportCSV string `yaml:"review_export_csv"`

	StudentPrefix  string `yaml:"student_prefix"`
	ProposalPrefix string `yaml:"proposal_prefix"`
	StartIndex     int    `yaml:"start_index"`

	BriefReviewProbability float64 `yaml:"brief_review_probability"`

	ChatBaseURL1          string  `yaml:"chat_base_url_1"`
	ChatAPIKey1           string  `yaml:"chat_api_key_1"`
	ChatModel1            string  `yaml:"chat_model_1"`
	ChatBaseURL2          string  `yaml:"chat_base_url_2"`
	ChatAPIKey2           string  `yaml:"chat_api_key_2"`
	ChatModel2            string  `yaml:"chat_model_2"`
	ChatTemperature       float64 `yaml:"chat_temperature"`
	ChatMaxTokens         int     `yaml:"chat_max_tokens"`
	ChatRequestsPerMinute int     `yaml:"chat_requests_per_minute"`

	// PostgresDSN enables the run archive when set.
	PostgresDSN string `yaml:"postgres_dsn"`

	NATSURL     string `yaml:"nats_url"`
	NATSSubject string `yaml:"nats_subject"`

	WorkerMetricsPort string `yaml:"worker_metrics_port"`
}

func defaults() Config {
	return Config{
		LogLevel: "info",

		ProposalsDir:    "./proposals",
		ReviewsDir:      "./reviews",
		OutputDir:       ".",
		MetadataCSV:     "./proposal_metadata.csv",
		MetadataSheet:   "",
		ReviewExportCSV: "./peer_review_export.csv",

		StudentPrefix:  "S",
		ProposalPrefix: "P",
		StartIndex:     1,

		BriefReviewProbability: 0.25,

		ChatModel1:            "gpt-4o",
		ChatModel2:            "gpt-4o-mini",
		ChatTemperature:       0.7,
		ChatMaxTokens:         2000,
		ChatRequestsPerMinute: 20,

		NATSURL:     "nats://localhost:4222",
		NATSSubject: "reviews.generate",

		WorkerMetricsPort: "9090",
	}
}

// Load layers configuration: built-in defaults, then the YAML file named by
// PEERBLIND_CONFIG (if any), then PEERBLIND_* environment variables.
func Load() (Config, error) {
	return LoadWithFile(os.Getenv("PEERBLIND_CONFIG"))
}

func LoadWithFile(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	return fromEnv(cfg), nil
}

func fromEnv(base Config) Config {
	base.LogLevel = mustEnv("PEERBLIND_LOG_LEVEL", base.LogLevel)

	base.ProposalsDir = mustEnv("PEERBLIND_PROPOSALS_DIR", base.ProposalsDir)
	base.ReviewsDir = mustEnv("PEERBLIND_REVIEWS_DIR", base.ReviewsDir)
	base.OutputDir = mustEnv("PEERBLIND_OUTPUT_DIR", base.OutputDir)
	base.MetadataCSV = mustEnv("PEERBLIND_METADATA_CSV", base.MetadataCSV)
	base.MetadataXLSX = mustEnv("PEERBLIND_METADATA_XLSX", base.MetadataXLSX)
	base.MetadataSheet = mustEnv("PEERBLIND_METADATA_SHEET", base.MetadataSheet)
	base.ReviewExportCSV = mustEnv("PEERBLIND_REVIEW_EXPORT_CSV", base.ReviewExportCSV)

	base.StudentPrefix = mustEnv("PEERBLIND_STUDENT_PREFIX", base.StudentPrefix)
	base.ProposalPrefix = mustEnv("PEERBLIND_PROPOSAL_PREFIX", base.ProposalPrefix)
	base.StartIndex = mustEnvInt("PEERBLIND_START_INDEX", base.StartIndex)

	base.BriefReviewProbability = mustEnvFloat("PEERBLIND_BRIEF_REVIEW_PROBABILITY", base.BriefReviewProbability)

	base.ChatBaseURL1 = mustEnv("PEERBLIND_CHAT_BASE_URL_1", base.ChatBaseURL1)
	base.ChatAPIKey1 = mustEnv("PEERBLIND_CHAT_API_KEY_1", base.ChatAPIKey1)
	base.ChatModel1 = mustEnv("PEERBLIND_CHAT_MODEL_1", base.ChatModel1)
	base.ChatBaseURL2 = mustEnv("PEERBLIND_CHAT_BASE_URL_2", base.ChatBaseURL2)
	base.ChatAPIKey2 = mustEnv("PEERBLIND_CHAT_API_KEY_2", base.ChatAPIKey2)
	base.ChatModel2 = mustEnv("PEERBLIND_CHAT_MODEL_2", base.ChatModel2)
	base.ChatTemperature = mustEnvFloat("PEERBLIND_CHAT_TEMPERATURE", base.ChatTemperature)
	base.ChatMaxTokens = mustEnvInt("PEERBLIND_CHAT_MAX_TOKENS", base.ChatMaxTokens)
	base.ChatRequestsPerMinute = mustEnvInt("PEERBLIND_CHAT_REQUESTS_PER_MINUTE", base.ChatRequestsPerMinute)

	base.PostgresDSN = mustEnv("PEERBLIND_POSTGRES_DSN", base.PostgresDSN)

	base.NATSURL = mustEnv("PEERBLIND_NATS_URL", base.NATSURL)
	base.NATSSubject = mustEnv("PEERBLIND_NATS_SUBJECT", base.NATSSubject)

	base.WorkerMetricsPort = mustEnv("PEERBLIND_WORKER_METRICS_PORT", base.WorkerMetricsPort)

	return base
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func mustEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
