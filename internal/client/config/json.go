package config

import (
	"encoding/json"
	"os"

	"github.com/parceltrack/console/internal/flagx"
	"github.com/parceltrack/console/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer and
// zero-value fields that are absent from the file leave Config untouched.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	TokenDBPath    string          `json:"token_db_path"`
	TokenSecret    string          `json:"token_secret"`
	SharedRefresh  *bool           `json:"shared_refresh"`
	LogLevel       string          `json:"log_level"`
	MetricsPushURL string          `json:"pushgateway_url"`
	Export         struct {
		Dir string `json:"dir"`
		S3  struct {
			Endpoint  string `json:"endpoint"`
			Region    string `json:"region"`
			Bucket    string `json:"bucket"`
			AccessKey string `json:"access_key"`
			SecretKey string `json:"secret_key"`
			Prefix    string `json:"prefix"`
		} `json:"s3"`
	} `json:"export"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from -c/-config or PARCEL_CONFIG (flagx.ConfigPath);
// with no path the function returns without changes. Read or unmarshal
// errors panic, as the process cannot start with a broken config.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.TokenDBPath, jc.TokenDBPath)
	setString(&cfg.TokenSecret, jc.TokenSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsPushURL, jc.MetricsPushURL)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SharedRefresh != nil {
		cfg.SharedRefresh = *jc.SharedRefresh
	}

	setString(&cfg.Export.Dir, jc.Export.Dir)
	setString(&cfg.Export.S3.Endpoint, jc.Export.S3.Endpoint)
	setString(&cfg.Export.S3.Region, jc.Export.S3.Region)
	setString(&cfg.Export.S3.Bucket, jc.Export.S3.Bucket)
	setString(&cfg.Export.S3.AccessKey, jc.Export.S3.AccessKey)
	setString(&cfg.Export.S3.SecretKey, jc.Export.S3.SecretKey)
	setString(&cfg.Export.S3.Prefix, jc.Export.S3.Prefix)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
