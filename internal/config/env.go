// Package config handles environment-based configuration loading.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/loggate/loggate/internal/notify"
)

// EnvConfig holds all environment-variable-driven settings.
type EnvConfig struct {
	// Network
	ListenAddress   string
	Port            int
	APIMaxBodyBytes int64

	// Store
	DBPath string

	// Auth (empty disables the corresponding gate)
	WriteToken string
	ReadToken  string

	// Chat relay
	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIBase  string

	// Pub/sub relay
	AblyAPIKey  string
	AblyChannel string
	AblyAPIBase string

	// Minimum level at which ingested records are relayed to chat.
	LogErrorThreshold int64

	// Retention
	Retention     time.Duration
	SweepSchedule string
}

// LoadEnvConfig reads the optional YAML defaults file and the
// environment, and returns a validated EnvConfig. Environment variables
// override file values. Returns an error listing every invalid value.
func LoadEnvConfig() (*EnvConfig, error) {
	file, err := loadFileConfig(os.Getenv("LOGGATE_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := &EnvConfig{}
	var errs []string

	// --- Network ---
	cfg.ListenAddress = strings.TrimSpace(envStr("LOGGATE_LISTEN_ADDRESS", file.str(file.ListenAddress, "0.0.0.0")))
	cfg.Port = envInt("LOGGATE_PORT", file.num(file.Port, 2280), &errs)
	cfg.APIMaxBodyBytes = int64(envInt("LOGGATE_API_MAX_BODY_BYTES", file.num(file.APIMaxBodyBytes, 1<<20), &errs))

	// --- Store ---
	cfg.DBPath = envStr("LOGGATE_DB_PATH", file.str(file.DBPath, "/var/lib/loggate/loggate.db"))

	// --- Auth (unset or blank opens the gate; deliberate operability default) ---
	cfg.WriteToken = envStr("LOGGATE_WRITE_TOKEN", file.str(file.WriteToken, ""))
	cfg.ReadToken = envStr("LOGGATE_READ_TOKEN", file.str(file.ReadToken, ""))

	// --- Chat relay ---
	cfg.TelegramBotToken = envStr("LOGGATE_TELEGRAM_BOT_TOKEN", file.str(file.TelegramBotToken, ""))
	cfg.TelegramChatID = envStr("LOGGATE_TELEGRAM_CHAT_ID", file.str(file.TelegramChatID, ""))
	cfg.TelegramAPIBase = envStr("LOGGATE_TELEGRAM_API_BASE", file.str(file.TelegramAPIBase, notify.DefaultTelegramAPIBase))

	// --- Pub/sub relay ---
	cfg.AblyAPIKey = envStr("LOGGATE_ABLY_API_KEY", file.str(file.AblyAPIKey, ""))
	cfg.AblyChannel = envStr("LOGGATE_ABLY_CHANNEL", file.str(file.AblyChannel, notify.DefaultChannel))
	cfg.AblyAPIBase = envStr("LOGGATE_ABLY_API_BASE", file.str(file.AblyAPIBase, notify.DefaultAblyAPIBase))

	cfg.LogErrorThreshold = int64(envInt("LOGGATE_LOG_ERROR_THRESHOLD", file.num(file.LogErrorThreshold, 0), &errs))

	// --- Retention ---
	cfg.Retention = envDuration("LOGGATE_RETENTION", file.dur(file.Retention, 7*24*time.Hour, &errs), &errs)
	cfg.SweepSchedule = envStr("LOGGATE_SWEEP_SCHEDULE", file.str(file.SweepSchedule, "@hourly"))

	// --- Validation ---
	if cfg.ListenAddress == "" {
		errs = append(errs, "LOGGATE_LISTEN_ADDRESS must not be empty")
	}
	validatePort("LOGGATE_PORT", cfg.Port, &errs)
	if cfg.APIMaxBodyBytes <= 0 {
		errs = append(errs, "LOGGATE_API_MAX_BODY_BYTES must be positive")
	}
	if cfg.DBPath == "" {
		errs = append(errs, "LOGGATE_DB_PATH must not be empty")
	}
	if cfg.Retention <= 0 {
		errs = append(errs, "LOGGATE_RETENTION must be positive")
	}
	if _, err := cron.ParseStandard(cfg.SweepSchedule); err != nil {
		errs = append(errs, fmt.Sprintf("LOGGATE_SWEEP_SCHEDULE: invalid cron expression %q: %v", cfg.SweepSchedule, err))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	return cfg, nil
}

// --- helpers ---

func envStr(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int, errs *[]string) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid integer %q", key, v))
		return defaultVal
	}
	return n
}

func envDuration(key string, defaultVal time.Duration, errs *[]string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("%s: invalid duration %q", key, v))
		return defaultVal
	}
	return d
}

func validatePort(name string, value int, errs *[]string) {
	if value < 1 || value > 65535 {
		*errs = append(*errs, fmt.Sprintf("%s: port must be 1-65535, got %d", name, value))
	}
}
