// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like API_BASE_URL
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile tries .env from the working directory upward so the loader works
// from package test directories as well as the repo root.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig applies direct env overrides for values still empty
// after placeholder expansion.
func overrideEmptyConfig(cfg *Config) {
	if cfg.API.BaseURL == "" {
		if val := os.Getenv("API_BASE_URL"); val != "" {
			cfg.API.BaseURL = val
		}
	}
	if cfg.API.UserAgent == "" {
		if val := os.Getenv("API_USER_AGENT"); val != "" {
			cfg.API.UserAgent = val
		}
	}
	if cfg.Datasets.VendorInfoPath == "" {
		if val := os.Getenv("TF_INFO_CSV_PATH"); val != "" {
			cfg.Datasets.VendorInfoPath = val
		}
	}
	if cfg.Datasets.MenuItemsPath == "" {
		if val := os.Getenv("TF_MENU_CSV_PATH"); val != "" {
			cfg.Datasets.MenuItemsPath = val
		}
	}
	if cfg.Datasets.CrosswalkPath == "" {
		if val := os.Getenv("MATCHED_VENDORS_CSV_PATH"); val != "" {
			cfg.Datasets.CrosswalkPath = val
		}
	}
	if cfg.Cache.Redis.Address == "" {
		if val := os.Getenv("REDIS_ADDRESS"); val != "" {
			cfg.Cache.Redis.Address = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "menu-reconciler"
	}

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://snappfood.ir/mobile/v2/restaurant/details/dynamic"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 20000
	}
	if cfg.API.MaxRetries == 0 {
		cfg.API.MaxRetries = 3
	}
	if cfg.API.BackoffMillis == 0 {
		cfg.API.BackoffMillis = 1000
	}
	if cfg.API.Latitude == "" {
		cfg.API.Latitude = "35.6892"
	}
	if cfg.API.Longitude == "" {
		cfg.API.Longitude = "51.3890"
	}
	if cfg.API.AppVersion == "" {
		cfg.API.AppVersion = "4.6.1"
	}
	if cfg.API.Locale == "" {
		cfg.API.Locale = "fa_IR"
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"
	}
	if cfg.API.Referer == "" {
		cfg.API.Referer = "https://snappfood.ir/"
	}
	if len(cfg.API.BannedCategories) == 0 {
		cfg.API.BannedCategories = []string{"آبکیجات", "مواد اولیه", "سایر"}
	}

	if cfg.Datasets.VendorInfoPath == "" {
		cfg.Datasets.VendorInfoPath = "./tf_info.csv"
	}
	if cfg.Datasets.MenuItemsPath == "" {
		cfg.Datasets.MenuItemsPath = "./tf_menu.csv"
	}
	if cfg.Datasets.CrosswalkPath == "" {
		cfg.Datasets.CrosswalkPath = "./matched_vendors.csv"
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 300
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "./output"
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":9090"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields. A failure here is a
// terminal misconfiguration; callers log it at error level and exit.
func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if cfg.API.UserAgent == "" {
		return fmt.Errorf("api.user_agent is required")
	}
	if cfg.API.MaxRetries < 1 {
		return fmt.Errorf("api.max_retries must be at least 1")
	}

	if cfg.Cache.Enabled && cfg.Cache.Redis.Address == "" {
		return fmt.Errorf("cache.redis.address is required when cache is enabled")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
