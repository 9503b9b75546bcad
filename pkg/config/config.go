package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/caarlos0/env/v11"

	"github.com/vtmroll/vtmroll/pkg/command"
)

// ErrNoChannels is returned by ValidateGateway when no transport can start.
var ErrNoChannels = errors.New("DISCORD_TOKEN not found in env")

// FlexibleStringSlice is a []string that also accepts JSON numbers,
// so allow_from can contain both "123" and 123.
type FlexibleStringSlice []string

func (f *FlexibleStringSlice) UnmarshalJSON(data []byte) error {
	var ss []string
	if err := json.Unmarshal(data, &ss); err == nil {
		*f = ss
		return nil
	}

	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	result := make([]string, 0, len(raw))
	for _, v := range raw {
		switch val := v.(type) {
		case string:
			result = append(result, val)
		case float64:
			result = append(result, fmt.Sprintf("%.0f", val))
		default:
			result = append(result, fmt.Sprintf("%v", val))
		}
	}
	*f = result
	return nil
}

type Config struct {
	Bot        BotConfig        `json:"bot"`
	Channels   ChannelsConfig   `json:"channels"`
	Gateway    GatewayConfig    `json:"gateway"`
	RateLimits RateLimitsConfig `json:"rate_limits"`
	Log        LogConfig        `json:"log"`
}

type BotConfig struct {
	Prefix        string `json:"prefix" env:"VTMROLL_COMMAND_PREFIX"`
	MaxDice       int    `json:"max_dice" env:"VTMROLL_MAX_DICE"`
	MaxDifficulty int    `json:"max_difficulty" env:"VTMROLL_MAX_DIFFICULTY"`
}

type ChannelsConfig struct {
	Discord  DiscordConfig  `json:"discord"`
	Telegram TelegramConfig `json:"telegram"`
}

type DiscordConfig struct {
	Enabled   bool                `json:"enabled" env:"VTMROLL_DISCORD_ENABLED"`
	Token     string              `json:"token" env:"DISCORD_TOKEN"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"VTMROLL_DISCORD_ALLOW_FROM"`
}

type TelegramConfig struct {
	Enabled   bool                `json:"enabled" env:"VTMROLL_TELEGRAM_ENABLED"`
	Token     string              `json:"token" env:"TELEGRAM_TOKEN"`
	Proxy     string              `json:"proxy" env:"VTMROLL_TELEGRAM_PROXY"`
	AllowFrom FlexibleStringSlice `json:"allow_from" env:"VTMROLL_TELEGRAM_ALLOW_FROM"`
}

type GatewayConfig struct {
	Enabled bool   `json:"enabled" env:"VTMROLL_GATEWAY_ENABLED"`
	Host    string `json:"host" env:"VTMROLL_GATEWAY_HOST"`
	Port    int    `json:"port" env:"VTMROLL_GATEWAY_PORT"`
}

type RateLimitsConfig struct {
	Enabled           bool `json:"enabled" env:"VTMROLL_RATE_LIMIT_ENABLED"`
	RequestsPerMinute int  `json:"requests_per_minute" env:"VTMROLL_RATE_LIMIT_PER_MINUTE"`
	Burst             int  `json:"burst" env:"VTMROLL_RATE_LIMIT_BURST"`
}

type LogConfig struct {
	Level string `json:"level" env:"VTMROLL_LOG_LEVEL"`
	File  string `json:"file" env:"VTMROLL_LOG_FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		Bot: BotConfig{
			Prefix:        command.DefaultPrefix,
			MaxDice:       command.DefaultMaxDice,
			MaxDifficulty: command.DefaultMaxDifficulty,
		},
		Channels: ChannelsConfig{
			Discord: DiscordConfig{Enabled: true},
		},
		Gateway: GatewayConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    18790,
		},
		RateLimits: RateLimitsConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			Burst:             5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig applies defaults, then the JSON file at path if it exists,
// then the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// DefaultPath is ~/.vtmroll/config.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".vtmroll", "config.json")
}

// Limits converts the bot settings for the command parser.
func (c *Config) Limits() command.Limits {
	return command.Limits{MaxDice: c.Bot.MaxDice, MaxDifficulty: c.Bot.MaxDifficulty}
}

// Validate checks the settings every subcommand depends on.
func (c *Config) Validate() error {
	if c.Bot.Prefix == "" {
		return fmt.Errorf("bot.prefix must not be empty")
	}
	if strings.IndexFunc(c.Bot.Prefix, unicode.IsSpace) >= 0 {
		return fmt.Errorf("bot.prefix %q must not contain whitespace", c.Bot.Prefix)
	}
	if c.Bot.MaxDice <= 0 {
		return fmt.Errorf("bot.max_dice must be positive, got %d", c.Bot.MaxDice)
	}
	if c.Bot.MaxDifficulty <= 0 {
		return fmt.Errorf("bot.max_difficulty must be positive, got %d", c.Bot.MaxDifficulty)
	}
	if c.RateLimits.Enabled && (c.RateLimits.RequestsPerMinute <= 0 || c.RateLimits.Burst <= 0) {
		return fmt.Errorf("rate_limits need a positive rate and burst, got %d/min burst %d",
			c.RateLimits.RequestsPerMinute, c.RateLimits.Burst)
	}
	if c.Gateway.Enabled && (c.Gateway.Port <= 0 || c.Gateway.Port > 65535) {
		return fmt.Errorf("gateway.port %d out of range", c.Gateway.Port)
	}
	return nil
}

// ValidateGateway additionally requires at least one usable channel.
func (c *Config) ValidateGateway() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Channels.Telegram.Enabled && c.Channels.Telegram.Token == "" {
		return fmt.Errorf("telegram is enabled but TELEGRAM_TOKEN is empty")
	}
	if len(c.EnabledChannels()) == 0 {
		return ErrNoChannels
	}
	return nil
}

// EnabledChannels lists the channels that are enabled and have a token.
func (c *Config) EnabledChannels() []string {
	var names []string
	if c.Channels.Discord.Enabled && c.Channels.Discord.Token != "" {
		names = append(names, "discord")
	}
	if c.Channels.Telegram.Enabled && c.Channels.Telegram.Token != "" {
		names = append(names, "telegram")
	}
	return names
}
