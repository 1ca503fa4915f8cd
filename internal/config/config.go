package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Emulator    EmulatorConfig    `mapstructure:"emulator"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds library server configuration
type ServerConfig struct {
	URL   string `mapstructure:"url"`   // Server URL
	Token string `mapstructure:"token"` // API token
}

// EmulatorConfig holds the external emulator core configuration
type EmulatorConfig struct {
	Command     string   `mapstructure:"command"`
	Args        []string `mapstructure:"args"`
	DownloadDir string   `mapstructure:"download_dir"` // Manual-tier export directory
}

// PreferencesConfig holds user preferences
type PreferencesConfig struct {
	PageSize      int  `mapstructure:"page_size"`      // Items per gallery fetch
	AutoLoadState bool `mapstructure:"auto_load_state"` // Load latest state on session start
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:   "",
			Token: "",
		},
		Emulator: EmulatorConfig{
			Command:     "retroarch",
			Args:        []string{},
			DownloadDir: defaultDownloadPath(),
		},
		Preferences: PreferencesConfig{
			PageSize:      72,
			AutoLoadState: true,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "romdeck", "romdeck.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "romdeck", "romdeck.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "romdeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "romdeck")
	}
}

// defaultDownloadPath returns where manual-tier exports land
func defaultDownloadPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Downloads")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "romdeck", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "romdeck", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("ROMDECK")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.url", cfg.Server.URL)
	viper.Set("server.token", cfg.Server.Token)

	viper.Set("emulator.command", cfg.Emulator.Command)
	viper.Set("emulator.args", cfg.Emulator.Args)
	viper.Set("emulator.download_dir", cfg.Emulator.DownloadDir)

	viper.Set("preferences.page_size", cfg.Preferences.PageSize)
	viper.Set("preferences.auto_load_state", cfg.Preferences.AutoLoadState)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the server URL and token are set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != "" && c.Server.Token != ""
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}

// ClearCache removes all cached data
func ClearCache() error {
	cachePath := defaultCachePath()
	if err := os.RemoveAll(cachePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
