// Package config loads runtime configuration for the SessionKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), prefix SESSIONKEEPER_.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-e string   base URL of the identity service
//	-s string   session store id
//	-b string   session backend: sqlite, redis or memory
//	-d string   sqlite database path
//	-r string   redis address
//	-t int      request timeout (seconds)
//
// # JSON schema
//
// The JSON loader uses timex.Duration for timeouts, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "endpoint_url": "https://api.example.com",
//	  "session_store_id": "default",
//	  "session_backend": "sqlite",
//	  "database_path": "sessionkeeper.db",
//	  "request_timeout": "10s"
//	}
//
// Primary API
//
//   - type Config                     — runtime settings for the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
