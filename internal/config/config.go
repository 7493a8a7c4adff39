package config

import "time"

// Backend selects where session records are persisted.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds runtime settings for the SessionKeeper CLI.
//
// Fields:
//   - EndpointURL: base URL of the identity service (e.g. https://api.example.com).
//   - SessionStoreID: identifier of the persisted session slot; each CLI
//     profile gets its own slot.
//   - SessionBackend: one of "sqlite", "redis", "memory".
//   - DatabasePath: sqlite DSN, used when SessionBackend is "sqlite".
//   - RedisAddr, RedisDB: Redis connection settings, used when
//     SessionBackend is "redis".
//   - RequestTimeout: per-request timeout for identity service calls.
//
// Units: RequestTimeout is a time.Duration (e.g., 10*time.Second).
type Config struct {
	EndpointURL    string
	SessionStoreID string
	SessionBackend string
	DatabasePath   string
	RedisAddr      string
	RedisDB        int
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.EndpointURL = "http://127.0.0.1:8055"
	c.SessionStoreID = "default"
	c.SessionBackend = BackendSQLite
	c.DatabasePath = "sessionkeeper.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables, and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
