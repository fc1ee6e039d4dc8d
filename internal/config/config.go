package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PROFIT_SHEETS_SPREADSHEET_ID.
const EnvPrefix = "PROFIT"

// Config holds all application configuration
type Config struct {
	App    AppConfig
	Log    LogConfig
	Sheets SheetsConfig
	Cache  CacheConfig
	HTTP   HTTPConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"required"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn warning error"`
	Format string `validate:"oneof=json console"`
	Output string `validate:"required"`
}

// SheetsConfig locates the remote cost sheet. An empty SpreadsheetID
// disables the remote store.
type SheetsConfig struct {
	SpreadsheetID   string
	SheetName       string `validate:"required"`
	CredentialsFile string
	CredentialsJSON string
	Timeout         time.Duration `validate:"gt=0"`
	RetryBackoff    time.Duration `validate:"gt=0"`
}

// Enabled reports whether a remote cost store is configured.
func (s SheetsConfig) Enabled() bool {
	return s.SpreadsheetID != ""
}

// CacheConfig holds the local cost cache settings
type CacheConfig struct {
	File   string        `validate:"required"`
	Expiry time.Duration `validate:"gt=0"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port             string        `validate:"required,numeric"`
	ReadTimeout      time.Duration `validate:"gt=0"`
	WriteTimeout     time.Duration `validate:"gt=0"`
	IdleTimeout      time.Duration `validate:"gt=0"`
	ShutdownTimeout  time.Duration `validate:"gt=0"`
	MaxUploadSize    int64         `validate:"gt=0"`
	CORSAllowOrigins []string
}

// Load loads configuration from .env, an optional config.toml and
// environment variables.
// Priority (highest to lowest):
// 1. Environment variables with PROFIT_ prefix (e.g., PROFIT_CACHE_FILE)
// 2. .env in the working directory
// 3. config.toml in the working directory or any of dirs
// 4. Built-in defaults
func Load(dirs ...string) (*Config, error) {
	// .env is optional; existing variables win over its entries.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
			Output: v.GetString("log.output"),
		},
		Sheets: SheetsConfig{
			SpreadsheetID:   v.GetString("sheets.spreadsheet_id"),
			SheetName:       v.GetString("sheets.sheet_name"),
			CredentialsFile: v.GetString("sheets.credentials_file"),
			CredentialsJSON: v.GetString("sheets.credentials_json"),
			Timeout:         v.GetDuration("sheets.timeout"),
			RetryBackoff:    v.GetDuration("sheets.retry_backoff"),
		},
		Cache: CacheConfig{
			File:   v.GetString("cache.file"),
			Expiry: v.GetDuration("cache.expiry"),
		},
		HTTP: HTTPConfig{
			Port:             v.GetString("http.port"),
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			MaxUploadSize:    v.GetInt64("http.max_upload_size"),
			CORSAllowOrigins: splitList(v.GetStringSlice("http.cors_allow_origins")),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "profit-reconciliation"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Sheet1"
	}
	if cfg.Sheets.Timeout == 0 {
		cfg.Sheets.Timeout = 10 * time.Second
	}
	if cfg.Sheets.RetryBackoff == 0 {
		cfg.Sheets.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Cache.File == "" {
		cfg.Cache.File = "cost_data_cache.json"
	}
	if cfg.Cache.Expiry == 0 {
		cfg.Cache.Expiry = time.Hour
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 30 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 15 * time.Second
	}
	if cfg.HTTP.MaxUploadSize == 0 {
		cfg.HTTP.MaxUploadSize = 32 << 20 // 32MB
	}
}

func (c *Config) validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	if c.Sheets.Enabled() && c.Sheets.CredentialsFile == "" && strings.TrimSpace(c.Sheets.CredentialsJSON) == "" {
		return errors.New("invalid configuration: sheets.spreadsheet_id is set but neither sheets.credentials_file nor sheets.credentials_json is")
	}
	return nil
}

// splitList accepts both TOML arrays and comma separated env values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
