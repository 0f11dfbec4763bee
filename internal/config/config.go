// Package config builds the process-wide configuration from the environment,
// with an optional YAML overrides file for deployment tuning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Runtime names the orchestration mode the agent is launched under.
const (
	RuntimeDevmode    = "devmode"
	RuntimeDocker     = "docker"
	RuntimeExecutable = "executable"
)

// Human interface modes.
const (
	HumanConsole  = "console"
	HumanSeeded   = "seeded"
	HumanTelegram = "telegram"
	HumanSlack    = "slack"
)

// ModelConfig holds the chat-completion backend settings.
type ModelConfig struct {
	Name        string
	Provider    string
	APIKey      string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// HumanConfig selects and configures the "ask human" capability.
type HumanConfig struct {
	Mode           string // console | seeded | telegram | slack
	Response       string // pre-seeded answer for seeded mode
	TelegramChatID int64
	TelegramToken  string
	SlackChannel   string
	SlackToken     string
}

// ConnectConfig bounds connection establishment to the Coral Server.
// Exhausting the attempts is fatal; per-cycle errors are not (see agent.Runner).
type ConnectConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// Config is the immutable process configuration, built once at startup.
type Config struct {
	ServerURL        string
	AgentID          string
	AgentDescription string
	Runtime          string

	Model   ModelConfig
	Human   HumanConfig
	Connect ConnectConfig

	// Runner pacing: sleep after a successful cycle, and the shorter sleep
	// after a failed one.
	CycleInterval time.Duration
	ErrorBackoff  time.Duration

	// wait_for_mentions guidance baked into the system prompt.
	MentionsTimeout  time.Duration
	MentionsMaxPolls int

	// Maximum LLM ↔ tool iterations within a single cycle.
	MaxIter int

	// Cron spec for the periodic resource snapshot; empty disables it.
	DiagnosticsSchedule string
}

// DefaultConfig returns the built-in defaults, before file and env are applied.
func DefaultConfig() Config {
	return Config{
		AgentDescription: "An agent that takes the user's input and interacts with other agents to fulfill the request",
		Runtime:          RuntimeDevmode,
		Model: ModelConfig{
			Provider:    "openai",
			Temperature: 0.3,
			MaxTokens:   16000,
		},
		Connect: ConnectConfig{
			MaxAttempts: 3,
			Delay:       5 * time.Second,
		},
		CycleInterval:       10 * time.Second,
		ErrorBackoff:        5 * time.Second,
		MentionsTimeout:     60 * time.Second,
		MentionsMaxPolls:    5,
		MaxIter:             40,
		DiagnosticsSchedule: "@every 5m",
	}
}

// FromEnv builds the configuration: defaults, then the optional YAML overrides
// file named by CORAL_CONFIG, then environment variables (env always wins).
// Missing required values fail fast with a descriptive error.
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("CORAL_CONFIG"); path != "" {
		if err := applyOverridesFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	cfg.ServerURL = os.Getenv("CORAL_SSE_URL")
	cfg.AgentID = os.Getenv("CORAL_AGENT_ID")
	setString(&cfg.AgentDescription, "CORAL_AGENT_DESCRIPTION")
	setString(&cfg.Runtime, "CORAL_ORCHESTRATION_RUNTIME")

	setString(&cfg.Model.Name, "MODEL_NAME")
	setString(&cfg.Model.Provider, "MODEL_PROVIDER")
	cfg.Model.APIKey = os.Getenv("API_KEY")
	setString(&cfg.Model.BaseURL, "MODEL_BASE_URL")
	if err := setFloat(&cfg.Model.Temperature, "MODEL_TEMPERATURE"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Model.MaxTokens, "MODEL_TOKEN"); err != nil {
		return nil, err
	}

	setString(&cfg.Human.Mode, "HUMAN_INTERFACE")
	cfg.Human.Response = os.Getenv("HUMAN_RESPONSE")
	cfg.Human.TelegramToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if err := setInt64(&cfg.Human.TelegramChatID, "TELEGRAM_CHAT_ID"); err != nil {
		return nil, err
	}
	cfg.Human.SlackToken = os.Getenv("SLACK_BOT_TOKEN")
	setString(&cfg.Human.SlackChannel, "SLACK_CHANNEL_ID")

	cfg.applyRuntimeDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyRuntimeDefaults picks the human interface mode when none was set:
// interactive console in devmode, seeded response under orchestration.
func (c *Config) applyRuntimeDefaults() {
	if c.Human.Mode != "" {
		return
	}
	switch c.Runtime {
	case RuntimeDocker, RuntimeExecutable:
		c.Human.Mode = HumanSeeded
	default:
		c.Human.Mode = HumanConsole
	}
}

// Validate checks required values and enum fields.
func (c *Config) Validate() error {
	required := []struct{ name, val string }{
		{"CORAL_SSE_URL", c.ServerURL},
		{"CORAL_AGENT_ID", c.AgentID},
		{"MODEL_NAME", c.Model.Name},
		{"API_KEY", c.Model.APIKey},
	}
	for _, r := range required {
		if r.val == "" {
			return fmt.Errorf("config: required environment variable %s is not set", r.name)
		}
	}

	switch c.Runtime {
	case RuntimeDevmode, RuntimeDocker, RuntimeExecutable:
	default:
		return fmt.Errorf("config: unknown CORAL_ORCHESTRATION_RUNTIME %q", c.Runtime)
	}

	switch c.Human.Mode {
	case HumanConsole, HumanSeeded:
	case HumanTelegram:
		if c.Human.TelegramToken == "" || c.Human.TelegramChatID == 0 {
			return fmt.Errorf("config: telegram human interface needs TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
		}
	case HumanSlack:
		if c.Human.SlackToken == "" || c.Human.SlackChannel == "" {
			return fmt.Errorf("config: slack human interface needs SLACK_BOT_TOKEN and SLACK_CHANNEL_ID")
		}
	default:
		return fmt.Errorf("config: unknown HUMAN_INTERFACE %q", c.Human.Mode)
	}

	if c.Connect.MaxAttempts < 1 {
		return fmt.Errorf("config: connect maxAttempts must be at least 1, got %d", c.Connect.MaxAttempts)
	}
	return nil
}

// fileOverrides is the YAML shape of the optional overrides file.
// Durations are strings in time.ParseDuration format ("5s", "2m").
// Secrets (API keys, tokens) are deliberately env-only.
type fileOverrides struct {
	AgentDescription string `yaml:"agentDescription"`
	Runtime          string `yaml:"runtime"`
	Model            struct {
		Name        string   `yaml:"name"`
		Provider    string   `yaml:"provider"`
		BaseURL     string   `yaml:"baseUrl"`
		Temperature *float64 `yaml:"temperature"`
		MaxTokens   *int     `yaml:"maxTokens"`
	} `yaml:"model"`
	Human struct {
		Mode           string `yaml:"mode"`
		TelegramChatID *int64 `yaml:"telegramChatId"`
		SlackChannel   string `yaml:"slackChannel"`
	} `yaml:"human"`
	Connect struct {
		MaxAttempts *int   `yaml:"maxAttempts"`
		Delay       string `yaml:"delay"`
	} `yaml:"connect"`
	CycleInterval       string `yaml:"cycleInterval"`
	ErrorBackoff        string `yaml:"errorBackoff"`
	MentionsTimeout     string `yaml:"mentionsTimeout"`
	MentionsMaxPolls    *int   `yaml:"mentionsMaxPolls"`
	MaxIter             *int   `yaml:"maxIter"`
	DiagnosticsSchedule *string `yaml:"diagnosticsSchedule"`
}

// applyOverridesFile merges the YAML overrides file into cfg.
// A missing file is fine; unparseable YAML keeps the defaults with a warning,
// matching the forgiving loader behaviour elsewhere in the codebase.
func applyOverridesFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read overrides %s: %w", path, err)
	}

	var ov fileOverrides
	if err := yaml.Unmarshal(data, &ov); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to parse overrides %s: %v\nUsing defaults.\n", path, err)
		return nil
	}

	if ov.AgentDescription != "" {
		cfg.AgentDescription = ov.AgentDescription
	}
	if ov.Runtime != "" {
		cfg.Runtime = ov.Runtime
	}
	if ov.Model.Name != "" {
		cfg.Model.Name = ov.Model.Name
	}
	if ov.Model.Provider != "" {
		cfg.Model.Provider = ov.Model.Provider
	}
	if ov.Model.BaseURL != "" {
		cfg.Model.BaseURL = ov.Model.BaseURL
	}
	if ov.Model.Temperature != nil {
		cfg.Model.Temperature = *ov.Model.Temperature
	}
	if ov.Model.MaxTokens != nil {
		cfg.Model.MaxTokens = *ov.Model.MaxTokens
	}
	if ov.Human.Mode != "" {
		cfg.Human.Mode = ov.Human.Mode
	}
	if ov.Human.TelegramChatID != nil {
		cfg.Human.TelegramChatID = *ov.Human.TelegramChatID
	}
	if ov.Human.SlackChannel != "" {
		cfg.Human.SlackChannel = ov.Human.SlackChannel
	}
	if ov.Connect.MaxAttempts != nil {
		cfg.Connect.MaxAttempts = *ov.Connect.MaxAttempts
	}
	if ov.MentionsMaxPolls != nil {
		cfg.MentionsMaxPolls = *ov.MentionsMaxPolls
	}
	if ov.MaxIter != nil {
		cfg.MaxIter = *ov.MaxIter
	}
	if ov.DiagnosticsSchedule != nil {
		cfg.DiagnosticsSchedule = *ov.DiagnosticsSchedule
	}

	durations := []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{ov.Connect.Delay, &cfg.Connect.Delay, "connect.delay"},
		{ov.CycleInterval, &cfg.CycleInterval, "cycleInterval"},
		{ov.ErrorBackoff, &cfg.ErrorBackoff, "errorBackoff"},
		{ov.MentionsTimeout, &cfg.MentionsTimeout, "mentionsTimeout"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config: %s in %s: %w", d.key, path, err)
		}
		*d.dst = parsed
	}
	return nil
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", env, err)
	}
	*dst = f
	return nil
}

func setInt(dst *int, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", env, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, env string) error {
	v := os.Getenv(env)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", env, err)
	}
	*dst = n
	return nil
}
