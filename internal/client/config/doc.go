// Package config loads runtime configuration for the Merimaa feed CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the remote feed API
//	-t int      request timeout (seconds)
//	-d string   path to the local state database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "15s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "https://cityride.city/Meri_Maa_API/api.php",
//	  "request_timeout": "15s",
//	  "database_path": "feed.db"
//	}
//
// Primary API
//
//   - type Config                     — holds APIBaseURL, RequestTimeout and DatabasePath
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
