// Package config loads runtime configuration for the console clients.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via -c/-config or the
//     PARCEL_CONFIG environment variable.
//  3. Environment variables (see parseEnv), e.g. PARCEL_API_URL.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-d string   path of the local token database
//	-t int      request timeout (seconds)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://parcels.example.com/api",
//	  "request_timeout": "15s",
//	  "token_db_path": "admin.db",
//	  "shared_refresh": true,
//	  "log_level": "debug",
//	  "export": {"dir": "exports", "s3": {"bucket": "invoices"}}
//	}
package config
