package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// MailConfig bounds what one mail sync reads from the inbox.
type MailConfig struct {
	WindowDays  int `yaml:"window_days"`
	MaxMessages int `yaml:"max_messages"`
	BodyLimit   int `yaml:"body_limit"`
}

type SyncConfig struct {
	Concurrency        int           `yaml:"concurrency"`
	Timeout            time.Duration `yaml:"timeout"`
	InitialSyncTimeout time.Duration `yaml:"initial_sync_timeout"`
	DailyAt            string        `yaml:"daily_at"`
	LockTTL            time.Duration `yaml:"lock_ttl"`
	PushBriefing       bool          `yaml:"push_briefing"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Port     string `yaml:"port"`
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
	Timezone string `yaml:"timezone"`

	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`

	JWTSecret        string        `yaml:"jwt_secret"`
	JWTAccessExpiry  time.Duration `yaml:"jwt_access_expiry"`
	JWTRefreshExpiry time.Duration `yaml:"jwt_refresh_expiry"`

	GoogleClientID      string `yaml:"google_client_id"`
	GoogleClientSecret  string `yaml:"google_client_secret"`
	GoogleProjectID     string `yaml:"google_project_id"`
	GooglePubSubTopic   string `yaml:"google_pubsub_topic"`
	GoogleCredentials   string `yaml:"google_credentials"`
	FirebaseCredentials string `yaml:"firebase_credentials"`

	AIProvider    string `yaml:"ai_provider"`
	GeminiApiKey  string `yaml:"gemini_api_key"`
	GeminiModel   string `yaml:"gemini_model"`
	OllamaBaseURL string `yaml:"ollama_base_url"`
	OllamaModel   string `yaml:"ollama_model"`

	CronSecret string `yaml:"cron_secret"`

	Mail              MailConfig  `yaml:"mail"`
	Sync              SyncConfig  `yaml:"sync"`
	Redis             RedisConfig `yaml:"redis"`
	DedupPrefixLength int         `yaml:"dedup_prefix_length"`
	ReminderHour      int         `yaml:"reminder_hour"`
}

// Default returns the configuration used when neither a file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		Port:             "8080",
		Env:              "development",
		LogLevel:         "info",
		Timezone:         "Local",
		DatabaseDriver:   "postgres",
		JWTSecret:        "your-secret-key-change-in-production",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
		AIProvider:       "auto",
		GeminiModel:      "gemini-2.0-flash",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaModel:      "llama3.2",
		Mail: MailConfig{
			WindowDays:  7,
			MaxMessages: 50,
			BodyLimit:   1500,
		},
		Sync: SyncConfig{
			Concurrency:        4,
			Timeout:            5 * time.Minute,
			InitialSyncTimeout: 60 * time.Second,
			LockTTL:            10 * time.Minute,
			PushBriefing:       true,
		},
		DedupPrefixLength: 20,
		ReminderHour:      9,
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// lets environment variables override both.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	overrideFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.Timezone = getEnv("TIMEZONE", cfg.Timezone)

	cfg.DatabaseDriver = getEnv("DB_DRIVER", cfg.DatabaseDriver)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)

	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTAccessExpiry = getDuration("JWT_ACCESS_EXPIRY", cfg.JWTAccessExpiry)
	cfg.JWTRefreshExpiry = getDuration("JWT_REFRESH_EXPIRY", cfg.JWTRefreshExpiry)

	cfg.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", cfg.GoogleClientID)
	cfg.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret)
	cfg.GoogleProjectID = getEnv("GOOGLE_PROJECT_ID", cfg.GoogleProjectID)
	cfg.GooglePubSubTopic = getEnv("GOOGLE_PUBSUB_TOPIC", cfg.GooglePubSubTopic)
	cfg.GoogleCredentials = getEnv("GOOGLE_CREDENTIALS", cfg.GoogleCredentials)
	cfg.FirebaseCredentials = getEnv("FIREBASE_CREDENTIALS", cfg.FirebaseCredentials)

	cfg.AIProvider = getEnv("AI_PROVIDER", cfg.AIProvider)
	cfg.GeminiApiKey = getEnv("GEMINI_API_KEY", cfg.GeminiApiKey)
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.OllamaBaseURL = getEnv("OLLAMA_BASE_URL", cfg.OllamaBaseURL)
	cfg.OllamaModel = getEnv("OLLAMA_MODEL", cfg.OllamaModel)

	cfg.CronSecret = getEnv("CRON_SECRET", cfg.CronSecret)

	cfg.Mail.WindowDays = getInt("MAIL_WINDOW_DAYS", cfg.Mail.WindowDays)
	cfg.Mail.MaxMessages = getInt("MAIL_MAX_MESSAGES", cfg.Mail.MaxMessages)
	cfg.Mail.BodyLimit = getInt("MAIL_BODY_LIMIT", cfg.Mail.BodyLimit)

	cfg.Sync.Concurrency = getInt("SYNC_CONCURRENCY", cfg.Sync.Concurrency)
	cfg.Sync.Timeout = getDuration("SYNC_TIMEOUT", cfg.Sync.Timeout)
	cfg.Sync.InitialSyncTimeout = getDuration("INITIAL_SYNC_TIMEOUT", cfg.Sync.InitialSyncTimeout)
	cfg.Sync.DailyAt = getEnv("DAILY_SYNC_AT", cfg.Sync.DailyAt)
	cfg.Sync.LockTTL = getDuration("SYNC_LOCK_TTL", cfg.Sync.LockTTL)
	cfg.Sync.PushBriefing = getBool("PUSH_MORNING_BRIEFING", cfg.Sync.PushBriefing)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getInt("REDIS_DB", cfg.Redis.DB)

	cfg.DedupPrefixLength = getInt("DEDUP_PREFIX_LENGTH", cfg.DedupPrefixLength)
	cfg.ReminderHour = getInt("REMINDER_HOUR", cfg.ReminderHour)
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}
	if c.Mail.WindowDays <= 0 || c.Mail.MaxMessages <= 0 || c.Mail.BodyLimit <= 0 {
		return fmt.Errorf("mail window, max messages and body limit must be positive")
	}
	if c.DedupPrefixLength <= 0 {
		return fmt.Errorf("DEDUP_PREFIX_LENGTH must be positive")
	}
	if c.Sync.Concurrency <= 0 {
		c.Sync.Concurrency = 1
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("REMINDER_HOUR must be between 0 and 23")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves the timezone that defines "today".
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
