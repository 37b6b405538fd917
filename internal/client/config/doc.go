// Package config loads runtime configuration for the civicwatch front ends.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment, optionally seeded from a dotenv file given with -e or
//     -env (see parseEnv). Variables already set in the process win over the
//     file.
//  3. Optional JSON file (see parseJSON) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string     base URL of the complaints API
//	-d string     path of the token database
//	-l int        list refresh interval (seconds)
//	-p int        detail refresh interval (seconds)
//	-t int        request timeout (seconds)
//	-log string   log format: text, json or zap
//	-v            debug logging
//	-no-persist   keep the token in memory only
//
// Environment
//
//	CIVIC_API_URL, CIVIC_DB_PATH, CIVIC_LOG_FORMAT
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "15s" or a
// number of seconds, as the flags take. Zero or negative intervals are
// rejected:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000/api",
//	  "database_path": "civicwatch.db",
//	  "list_poll_interval": "15s",
//	  "detail_poll_interval": "10s",
//	  "request_timeout": "15s",
//	  "log_format": "text"
//	}
package config
