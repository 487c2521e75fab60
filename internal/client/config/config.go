package config

import "time"

// Config holds runtime settings for the console clients.
//
// Units: RequestTimeout is a time.Duration (e.g., 15*time.Second).
type Config struct {
	// APIBaseURL is the origin plus path prefix of the REST API.
	APIBaseURL string `env:"PARCEL_API_URL"`
	// RequestTimeout bounds every HTTP call, including the refresh call.
	RequestTimeout time.Duration `env:"PARCEL_REQUEST_TIMEOUT"`
	// TokenDBPath is the SQLite file holding the credential pair.
	TokenDBPath string `env:"PARCEL_TOKEN_DB"`
	// TokenSecret, when set, seals stored tokens with a key derived from it.
	TokenSecret string `env:"PARCEL_TOKEN_SECRET"`
	// SharedRefresh makes concurrent 401s await one refresh call.
	SharedRefresh bool `env:"PARCEL_SHARED_REFRESH"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"PARCEL_LOG_LEVEL"`
	// MetricsPushURL, when set, is a Prometheus Pushgateway that receives
	// the session metrics on exit.
	MetricsPushURL string `env:"PARCEL_PUSHGATEWAY_URL"`

	Export ExportConfig `envPrefix:"PARCEL_"`
}

// ExportConfig selects where exported documents go. A non-empty S3.Bucket
// wins over Dir.
type ExportConfig struct {
	Dir string   `env:"EXPORT_DIR"`
	S3  S3Config `envPrefix:"S3_"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Endpoint  string `env:"ENDPOINT"`
	Region    string `env:"REGION"`
	Bucket    string `env:"BUCKET"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Prefix    string `env:"PREFIX"`
}

// LoadDefaults populates c with sensible defaults. name is the client
// flavour ("admin", "portal") and picks the default token DB file.
func (c *Config) LoadDefaults(name string) {
	c.APIBaseURL = "http://localhost:8000/api"
	c.RequestTimeout = 15 * time.Second
	c.TokenDBPath = name + ".db"
	c.SharedRefresh = true
	c.LogLevel = "info"
	c.Export.Dir = "exports"
	c.Export.S3.Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. A .env file in the working directory is
// loaded into the process environment first; it never overrides variables
// that are already set.
func LoadConfig(name string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults(name)
	parseJson(cfg)
	loadDotEnv(dotEnvFile)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
