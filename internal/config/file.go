package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors EnvConfig for the optional YAML defaults file.
// Pointer fields distinguish "absent" from zero values; environment
// variables always take precedence over file values.
type fileConfig struct {
	ListenAddress   *string `yaml:"listen_address"`
	Port            *int    `yaml:"port"`
	APIMaxBodyBytes *int    `yaml:"api_max_body_bytes"`

	DBPath *string `yaml:"db_path"`

	WriteToken *string `yaml:"write_token"`
	ReadToken  *string `yaml:"read_token"`

	TelegramBotToken *string `yaml:"telegram_bot_token"`
	TelegramChatID   *string `yaml:"telegram_chat_id"`
	TelegramAPIBase  *string `yaml:"telegram_api_base"`

	AblyAPIKey  *string `yaml:"ably_api_key"`
	AblyChannel *string `yaml:"ably_channel"`
	AblyAPIBase *string `yaml:"ably_api_base"`

	LogErrorThreshold *int `yaml:"log_error_threshold"`

	Retention     *string `yaml:"retention"`
	SweepSchedule *string `yaml:"sweep_schedule"`
}

// loadFileConfig parses the YAML file at path. An empty path returns an
// empty config (the file is optional); a named but unreadable or
// malformed file is a hard error.
func loadFileConfig(path string) (*fileConfig, error) {
	cfg := &fileConfig{}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

func (f *fileConfig) str(v *string, def string) string {
	if v != nil {
		return *v
	}
	return def
}

func (f *fileConfig) num(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func (f *fileConfig) dur(v *string, def time.Duration, errs *[]string) time.Duration {
	if v == nil {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("config file retention: invalid duration %q", *v))
		return def
	}
	return d
}
