package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized at load time. The gym-scoped ones mirror
// the .env keys the settings screen writes back.
const (
	EnvConfigPath     = "GYMDESK_CONFIG"
	EnvDBConnection   = "DB_CONNECTION"
	EnvJWTSecret      = "JWT_SECRET"
	EnvJWTExpiry      = "JWT_EXPIRY"
	EnvGymName        = "GYM_NAME"
	EnvGymAddress     = "GYM_ADDRESS"
	EnvGymPhone       = "GYM_PHONE"
	EnvCurrencySymbol = "CURRENCY_SYMBOL"
	EnvThemeColor     = "THEME_COLOR"
)

// ErrInvalidPhone indicates a gym contact phone that is not digits only.
var ErrInvalidPhone = errors.New("config: gym phone must be digits only")

// GymInfo holds the externally configured gym identity used in outbound
// messages and list rendering.
type GymInfo struct {
	Name           string `yaml:"name"`            // Gym display name.
	Address        string `yaml:"address"`         // Gym street address.
	Phone          string `yaml:"phone"`           // Gym contact phone, international digits.
	CurrencySymbol string `yaml:"currency-symbol"` // Symbol shown next to prices.
	ThemeColor     string `yaml:"theme-color"`     // UI theme color hint.
	CountryCode    string `yaml:"country-code"`    // Phone prefix eligible for reminders.
}

// JWTConfig holds JWT secret and expiry settings for admin sessions.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// AdminConfig holds the admin credential for the HTTP API.
type AdminConfig struct {
	Username     string `yaml:"username"`      // Admin login name.
	PasswordHash string `yaml:"password-hash"` // bcrypt hash of the admin password.
}

// BackupConfig controls snapshot placement and naming.
type BackupConfig struct {
	Dir    string `yaml:"dir"`    // Snapshot directory; defaults to the store file's directory.
	Prefix string `yaml:"prefix"` // Snapshot file name prefix.
}

// MessengerConfig points at the outbound message gateway.
type MessengerConfig struct {
	GatewayURL string        `yaml:"gateway-url"` // HTTP endpoint accepting {to, message}; empty logs instead of sending.
	Timeout    time.Duration `yaml:"timeout"`     // Per-delivery timeout.
}

// Config is the process-wide configuration, loaded once at start and saved
// back explicitly when settings change.
type Config struct {
	Gym         GymInfo         `yaml:"gym"`
	DatabaseDSN string          `yaml:"database-dsn"`
	Port        int             `yaml:"port"`
	JWT         JWTConfig       `yaml:"jwt"`
	Admin       AdminConfig     `yaml:"admin"`
	Backup      BackupConfig    `yaml:"backup"`
	Messenger   MessengerConfig `yaml:"messenger"`

	mu   sync.Mutex
	path string
}

// defaultJWTExpiry is used when the config omits or invalidates JWT expiry.
const defaultJWTExpiry = 30 * 24 * time.Hour

// defaultMessengerTimeout bounds a single delivery attempt.
const defaultMessengerTimeout = 30 * time.Second

// Default returns a config populated with stock values.
func Default() *Config {
	return &Config{
		Gym: GymInfo{
			Name:           "Vivek Gym",
			Address:        "123 Main St, City",
			Phone:          "916238100393",
			CurrencySymbol: "₹",
			ThemeColor:     "#e8f4fd",
			CountryCode:    "91",
		},
		DatabaseDSN: "./gym.db",
		Port:        8190,
		JWT:         JWTConfig{Expiry: defaultJWTExpiry},
		Admin:       AdminConfig{Username: "admin"},
		Backup:      BackupConfig{Prefix: "gym_backup"},
		Messenger:   MessengerConfig{Timeout: defaultMessengerTimeout},
	}
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// Load reads the YAML config at path and applies environment overrides. A
// missing file yields the defaults, so first run needs no config at all.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, cfg); errUnmarshal != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
		}
	case os.IsNotExist(errRead):
		// First run: defaults plus env.
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnvOverrides(cfg)

	if cfg.JWT.Expiry <= 0 {
		cfg.JWT.Expiry = defaultJWTExpiry
	}
	if cfg.Messenger.Timeout <= 0 {
		cfg.Messenger.Timeout = defaultMessengerTimeout
	}
	if strings.TrimSpace(cfg.Backup.Prefix) == "" {
		cfg.Backup.Prefix = "gym_backup"
	}
	return cfg, nil
}

// applyEnvOverrides layers environment values over the file config.
func applyEnvOverrides(cfg *Config) {
	setIfEnv := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setIfEnv(EnvDBConnection, &cfg.DatabaseDSN)
	setIfEnv(EnvJWTSecret, &cfg.JWT.Secret)
	setIfEnv(EnvGymName, &cfg.Gym.Name)
	setIfEnv(EnvGymAddress, &cfg.Gym.Address)
	setIfEnv(EnvGymPhone, &cfg.Gym.Phone)
	setIfEnv(EnvCurrencySymbol, &cfg.Gym.CurrencySymbol)
	setIfEnv(EnvThemeColor, &cfg.Gym.ThemeColor)

	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			cfg.JWT.Expiry = expiry
		}
	}
}

// Path returns the file path this config was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Save writes the config back to its source file atomically.
func (c *Config) Save() error {
	if c == nil || strings.TrimSpace(c.path) == "" {
		return fmt.Errorf("config: save: no config path")
	}
	data, errMarshal := yaml.Marshal(c)
	if errMarshal != nil {
		return fmt.Errorf("config: marshal: %w", errMarshal)
	}
	tmp := c.path + ".tmp"
	if errWrite := os.WriteFile(tmp, data, 0o600); errWrite != nil {
		return fmt.Errorf("config: write %s: %w", tmp, errWrite)
	}
	if errRename := os.Rename(tmp, c.path); errRename != nil {
		return fmt.Errorf("config: rename %s: %w", c.path, errRename)
	}
	return nil
}

// GymSnapshot returns a copy of the current gym settings.
func (c *Config) GymSnapshot() GymInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Gym
}

// UpdateGymInfo replaces the non-empty gym identity fields and persists the
// config. Empty arguments keep the existing values.
func (c *Config) UpdateGymInfo(name, address, currencySymbol, themeColor string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v := strings.TrimSpace(name); v != "" {
		c.Gym.Name = v
	}
	if v := strings.TrimSpace(address); v != "" {
		c.Gym.Address = v
	}
	if v := strings.TrimSpace(currencySymbol); v != "" {
		c.Gym.CurrencySymbol = v
	}
	if v := strings.TrimSpace(themeColor); v != "" {
		c.Gym.ThemeColor = v
	}
	return c.Save()
}

// UpdateGymPhone validates and replaces the gym contact phone, persisting
// the config.
func (c *Config) UpdateGymPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" || !isDigits(phone) {
		return ErrInvalidPhone
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Gym.Phone = phone
	return c.Save()
}

// isDigits reports whether s is non-empty ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
