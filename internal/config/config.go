package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Model providers the pipeline can talk to.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Mailbox providers.
const (
	MailboxIMAP  = "imap"
	MailboxGmail = "gmail"
)

type Config struct {
	// Account
	EmailAddress string
	AppPassword  string

	// Mailbox
	MailboxProvider string
	IMAPServer      string
	IMAPPort        int
	Folder          string
	MaxEmails       int

	// Outbound transport
	SMTPServer string
	SMTPPort   int

	// Model
	ModelProvider string
	ModelName     string
	ModelURL      string
	ModelTimeout  time.Duration
	OpenAIAPIKey  string

	// Google Cloud, only used by the gmail provider's watch mode
	GoogleCloudProject string
	SubscriptionID     string
	TopicName          string

	// Storage
	DatabasePath string
	ExportDir    string

	// Safety heuristics, overridable without touching control flow
	NoReplyPatterns []string
	SpamKeywords    []string

	LogLevel string
}

// Load reads .env (if present) and the environment, applies defaults and
// validates required fields.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		EmailAddress: getEnv("EMAIL_ADDRESS", ""),
		AppPassword:  getEnv("EMAIL_APP_PASSWORD", ""),

		MailboxProvider: getEnv("MAILBOX_PROVIDER", MailboxIMAP),
		IMAPServer:      getEnv("IMAP_SERVER", "imap.gmail.com"),
		IMAPPort:        getEnvInt("IMAP_PORT", 993),
		Folder:          getEnv("EMAIL_FOLDER", "INBOX"),
		MaxEmails:       getEnvInt("MAX_EMAILS_TO_FETCH", 50),

		SMTPServer: getEnv("SMTP_SERVER", "smtp.gmail.com"),
		SMTPPort:   getEnvInt("SMTP_PORT", 587),

		ModelProvider: getEnv("MODEL_PROVIDER", ProviderOllama),
		ModelName:     getEnv("MODEL_NAME", "llama2"),
		ModelURL:      getEnv("MODEL_API_URL", "http://localhost:11434/api/generate"),
		ModelTimeout:  time.Duration(getEnvInt("MODEL_TIMEOUT", 60)) * time.Second,
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),

		GoogleCloudProject: getEnv("GOOGLE_CLOUD_PROJECT", ""),
		SubscriptionID:     getEnv("SUBSCRIPTION_ID", ""),

		DatabasePath: getEnv("DATABASE_PATH", "mailai.db"),
		ExportDir:    getEnv("EXPORT_DIR", "analyzed_emails"),

		NoReplyPatterns: getEnvList("NOREPLY_PATTERNS", nil),
		SpamKeywords:    getEnvList("SPAM_KEYWORDS", nil),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.GoogleCloudProject != "" {
		cfg.TopicName = fmt.Sprintf("projects/%s/topics/gmail-topic", cfg.GoogleCloudProject)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// Validate returns every problem at once rather than stopping at the first.
func (c *Config) Validate() []string {
	var errs []string

	if c.EmailAddress == "" {
		errs = append(errs, "EMAIL_ADDRESS is not set")
	} else if !strings.Contains(c.EmailAddress, "@") {
		errs = append(errs, "EMAIL_ADDRESS is not a valid email address")
	}
	if c.MailboxProvider == MailboxIMAP && c.AppPassword == "" {
		errs = append(errs, "EMAIL_APP_PASSWORD is not set")
	}

	switch c.ModelProvider {
	case ProviderOllama:
		if c.ModelURL == "" {
			errs = append(errs, "MODEL_API_URL is not set")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, "OPENAI_API_KEY is required for the openai provider")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown MODEL_PROVIDER %q", c.ModelProvider))
	}

	if c.MailboxProvider != MailboxIMAP && c.MailboxProvider != MailboxGmail {
		errs = append(errs, fmt.Sprintf("unknown MAILBOX_PROVIDER %q", c.MailboxProvider))
	}

	if c.ModelTimeout < 10*time.Second {
		errs = append(errs, "MODEL_TIMEOUT should be at least 10 seconds")
	}
	if c.MaxEmails < 1 {
		errs = append(errs, "MAX_EMAILS_TO_FETCH must be positive")
	}

	return errs
}

func (c *Config) IMAPAddr() string {
	return fmt.Sprintf("%s:%d", c.IMAPServer, c.IMAPPort)
}

func (c *Config) SMTPAddr() string {
	return fmt.Sprintf("%s:%d", c.SMTPServer, c.SMTPPort)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
