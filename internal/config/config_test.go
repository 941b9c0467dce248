package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		EmailAddress:    "me@example.com",
		AppPassword:     "app-password",
		MailboxProvider: MailboxIMAP,
		IMAPServer:      "imap.example.com",
		IMAPPort:        993,
		SMTPServer:      "smtp.example.com",
		SMTPPort:        587,
		ModelProvider:   ProviderOllama,
		ModelURL:        "http://localhost:11434/api/generate",
		ModelTimeout:    60 * time.Second,
		MaxEmails:       50,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantErrs []string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:     "missing address",
			mutate:   func(c *Config) { c.EmailAddress = "" },
			wantErrs: []string{"EMAIL_ADDRESS is not set"},
		},
		{
			name:     "malformed address",
			mutate:   func(c *Config) { c.EmailAddress = "not-an-address" },
			wantErrs: []string{"EMAIL_ADDRESS is not a valid email address"},
		},
		{
			name:     "imap requires app password",
			mutate:   func(c *Config) { c.AppPassword = "" },
			wantErrs: []string{"EMAIL_APP_PASSWORD is not set"},
		},
		{
			name: "gmail does not require app password",
			mutate: func(c *Config) {
				c.MailboxProvider = MailboxGmail
				c.AppPassword = ""
			},
		},
		{
			name: "openai requires key",
			mutate: func(c *Config) {
				c.ModelProvider = ProviderOpenAI
				c.OpenAIAPIKey = ""
			},
			wantErrs: []string{"OPENAI_API_KEY is required"},
		},
		{
			name: "openai with key is valid",
			mutate: func(c *Config) {
				c.ModelProvider = ProviderOpenAI
				c.OpenAIAPIKey = "sk-test"
			},
		},
		{
			name:     "unknown model provider",
			mutate:   func(c *Config) { c.ModelProvider = "claude" },
			wantErrs: []string{`unknown MODEL_PROVIDER "claude"`},
		},
		{
			name:     "unknown mailbox provider",
			mutate:   func(c *Config) { c.MailboxProvider = "pop3" },
			wantErrs: []string{`unknown MAILBOX_PROVIDER "pop3"`},
		},
		{
			name:     "timeout too small",
			mutate:   func(c *Config) { c.ModelTimeout = 2 * time.Second },
			wantErrs: []string{"MODEL_TIMEOUT should be at least 10 seconds"},
		},
		{
			name:     "max emails must be positive",
			mutate:   func(c *Config) { c.MaxEmails = 0 },
			wantErrs: []string{"MAX_EMAILS_TO_FETCH must be positive"},
		},
		{
			name: "all errors reported at once",
			mutate: func(c *Config) {
				c.EmailAddress = ""
				c.AppPassword = ""
				c.MaxEmails = 0
			},
			wantErrs: []string{
				"EMAIL_ADDRESS is not set",
				"EMAIL_APP_PASSWORD is not set",
				"MAX_EMAILS_TO_FETCH must be positive",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) != len(tt.wantErrs) {
				t.Fatalf("Validate() = %v, want %d problems", errs, len(tt.wantErrs))
			}
			for i, want := range tt.wantErrs {
				if !strings.Contains(errs[i], want) {
					t.Errorf("errs[%d] = %q, want substring %q", i, errs[i], want)
				}
			}
		})
	}
}

func TestAddrHelpers(t *testing.T) {
	cfg := validConfig()
	if got := cfg.IMAPAddr(); got != "imap.example.com:993" {
		t.Errorf("IMAPAddr() = %q", got)
	}
	if got := cfg.SMTPAddr(); got != "smtp.example.com:587" {
		t.Errorf("SMTPAddr() = %q", got)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "not-a-number")
	t.Setenv("TEST_LIST", "a, b , ,c")

	if got := getEnv("TEST_STR", "fallback"); got != "value" {
		t.Errorf("getEnv set = %q", got)
	}
	if got := getEnv("TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnv unset = %q", got)
	}
	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt set = %d", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt malformed = %d", got)
	}
	if got := getEnvInt("TEST_UNSET", 7); got != 7 {
		t.Errorf("getEnvInt unset = %d", got)
	}

	list := getEnvList("TEST_LIST", nil)
	if len(list) != 3 || list[0] != "a" || list[1] != "b" || list[2] != "c" {
		t.Errorf("getEnvList = %v, want [a b c]", list)
	}
	if got := getEnvList("TEST_UNSET", nil); got != nil {
		t.Errorf("getEnvList unset = %v, want nil", got)
	}
}
