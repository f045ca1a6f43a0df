package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"PrintApp/app/security"

	"golang.org/x/crypto/bcrypt"
)

// AppConfig holds all client configuration.
type AppConfig struct {
	// Print engine and layout settings
	Printing PrintingConfig `json:"printing"`

	// Order feed settings
	Feed FeedConfig `json:"feed"`

	// First run flag
	FirstRun bool `json:"first_run"`
}

// PrintingConfig holds engine selection and layout tunables.
type PrintingConfig struct {
	// Engine preference order: "helper", "native", "page". The dispatcher
	// falls back down this list when a tier is unavailable.
	EnginePreference []string `json:"engine_preference"`
	HelperPath       string   `json:"helper_path"`

	// Defaults applied to printers the operator has not configured.
	DefaultPaperWidth int `json:"default_paper_width"` // mm
	FontSizeTier      int `json:"font_size_tier"`      // 0/1/2
}

// FeedConfig holds the order-event feed settings.
type FeedConfig struct {
	Port int `json:"port"`
	// Bcrypt hash of the feed access token; encrypted at rest.
	AccessTokenHash string `json:"access_token_hash"`
}

// SetAccessToken hashes and stores a new feed access token.
func (cfg *AppConfig) SetAccessToken(token string) error {
	if token == "" {
		cfg.Feed.AccessTokenHash = ""
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("could not hash access token: %w", err)
	}
	cfg.Feed.AccessTokenHash = string(hash)
	return nil
}

// VerifyAccessToken checks a client-presented token against the stored hash.
// An empty stored hash means the feed is open (no auth configured).
func (cfg *AppConfig) VerifyAccessToken(token string) bool {
	if cfg.Feed.AccessTokenHash == "" {
		return true
	}
	return bcrypt.CompareHashAndPassword([]byte(cfg.Feed.AccessTokenHash), []byte(token)) == nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	appData := os.Getenv("APPDATA")
	if appData == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine home directory: %w", err)
		}
		appData = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(appData, "PrintApp")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// LoadConfig loads configuration from config.json and decrypts sensitive
// fields.
func LoadConfig() (*AppConfig, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var cfg AppConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	cfg.decryptSensitiveFields()
	return &cfg, nil
}

// SaveConfig saves configuration to config.json after encrypting sensitive
// fields.
func SaveConfig(cfg *AppConfig) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	cfgCopy := *cfg
	if err := cfgCopy.encryptSensitiveFields(); err != nil {
		return fmt.Errorf("could not encrypt sensitive fields: %w", err)
	}

	data, err := json.MarshalIndent(&cfgCopy, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("could not write config file: %w", err)
	}

	return nil
}

// ConfigExists checks if the config file exists.
func ConfigExists() (bool, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return false, err
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateDefaultConfig creates and saves a default configuration.
func CreateDefaultConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Printing: PrintingConfig{
			EnginePreference:  []string{"helper", "native", "page"},
			HelperPath:        "",
			DefaultPaperWidth: 80,
			FontSizeTier:      1,
		},
		Feed: FeedConfig{
			Port: 8080,
		},
		FirstRun: true,
	}

	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MarkSetupComplete marks the first run as complete.
func MarkSetupComplete() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	cfg.FirstRun = false
	return SaveConfig(cfg)
}

func (cfg *AppConfig) encryptSensitiveFields() error {
	var err error
	if cfg.Feed.AccessTokenHash != "" {
		cfg.Feed.AccessTokenHash, err = security.Encrypt(cfg.Feed.AccessTokenHash)
		if err != nil {
			return fmt.Errorf("could not encrypt access token hash: %w", err)
		}
	}
	return nil
}

// decryptSensitiveFields decrypts what it can; a value that fails to decrypt
// is assumed to be stored in plain text and kept as-is.
func (cfg *AppConfig) decryptSensitiveFields() {
	if cfg.Feed.AccessTokenHash != "" {
		if decrypted, err := security.Decrypt(cfg.Feed.AccessTokenHash); err == nil {
			cfg.Feed.AccessTokenHash = decrypted
		}
	}
}
