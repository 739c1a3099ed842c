// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Datasets DatasetsConfig `mapstructure:"datasets"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig holds settings for the live SnappFood menu API.
type APIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds, per attempt
	MaxRetries    int    `mapstructure:"max_retries"`
	BackoffMillis int    `mapstructure:"backoff_millis"` // multiplied by attempt * 1.5

	// Geographic defaults and client metadata sent with every request.
	Latitude         string `mapstructure:"latitude"`
	Longitude        string `mapstructure:"longitude"`
	AppVersion       string `mapstructure:"app_version"`
	UDID             string `mapstructure:"udid"`
	LocationCacheKey string `mapstructure:"location_cache_key"`
	Locale           string `mapstructure:"locale"`

	UserAgent string `mapstructure:"user_agent"`
	Referer   string `mapstructure:"referer"`

	// Category display names excluded from normalization (non-food sections).
	BannedCategories []string `mapstructure:"banned_categories"`
}

// DatasetsConfig holds paths for the pre-scraped TapsiFood tables and the
// vendor-code crosswalk.
type DatasetsConfig struct {
	VendorInfoPath string `mapstructure:"vendor_info_path"`
	MenuItemsPath  string `mapstructure:"menu_items_path"`
	CrosswalkPath  string `mapstructure:"crosswalk_path"`
}

// CacheConfig holds the optional Redis payload cache settings.
type CacheConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	TTL     int         `mapstructure:"ttl"` // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// OutputConfig holds export settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// MetricsConfig holds the Prometheus scrape endpoint settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
