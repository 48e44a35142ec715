package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string
	LogMode  string // dev|prod

	DBDriver string // sqlite|postgres
	DBDSN    string

	// Progress cache: sql|file|redis|memory
	CacheDriver   string
	CachePath     string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// Pristine content. CONTENT_URL wins over CONTENT_PATH when both are set.
	ContentPath string
	ContentURL  string

	// Relay (client side)
	RelayURL       string
	RelayTimeout   time.Duration
	RelayJWTSecret string
	StudentAddress string

	// Relay (server side)
	RelayAddr   string
	RelaySigner string // address of the relay's signing identity

	AdminUser     string
	AdminPassHash string // bcrypt

	CORSOriginsOnline  []string
	CORSOriginsOffline []string
}

// CORSOrigins returns the allow-list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

// Load reads defaults, an optional config.yaml in the working directory and
// the environment, in increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
	}
	v.AutomaticEnv()

	mode := Mode(strings.ToLower(v.GetString("MODE")))
	if mode != ModeOnline {
		mode = ModeOffline
	}
	cfg := Config{
		Mode:     mode,
		HTTPAddr: v.GetString("HTTP_ADDR"),
		LogMode:  v.GetString("LOG_MODE"),

		DBDriver: v.GetString("DB_DRIVER"),
		DBDSN:    v.GetString("DB_DSN"),

		CacheDriver:   strings.ToLower(v.GetString("CACHE_DRIVER")),
		CachePath:     v.GetString("CACHE_PATH"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		RedisPrefix:   v.GetString("REDIS_PREFIX"),

		ContentPath: v.GetString("CONTENT_PATH"),
		ContentURL:  v.GetString("CONTENT_URL"),

		RelayURL:       strings.TrimSuffix(v.GetString("RELAY_URL"), "/"),
		RelayTimeout:   v.GetDuration("RELAY_TIMEOUT"),
		RelayJWTSecret: v.GetString("RELAY_JWT_SECRET"),
		StudentAddress: v.GetString("STUDENT_ADDRESS"),

		RelayAddr:   v.GetString("RELAY_ADDR"),
		RelaySigner: v.GetString("RELAY_SIGNER"),

		AdminUser:     v.GetString("ADMIN_USER"),
		AdminPassHash: v.GetString("ADMIN_PASS_HASH"),

		CORSOriginsOnline:  csv(v.GetString("CORS_ORIGINS_ONLINE")),
		CORSOriginsOffline: csv(v.GetString("CORS_ORIGINS_OFFLINE")),
	}
	return cfg, nil
}

// FromEnv is Load for callers that cannot do anything useful with a broken
// config file; it panics on a malformed config.yaml.
func FromEnv() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MODE", string(ModeOffline))
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "")
	v.SetDefault("CACHE_DRIVER", "sql")
	v.SetDefault("CACHE_PATH", "./data")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "mindengage")
	v.SetDefault("CONTENT_PATH", "./content")
	v.SetDefault("RELAY_URL", "http://localhost:3001")
	v.SetDefault("RELAY_TIMEOUT", "30s")
	v.SetDefault("RELAY_JWT_SECRET", "supersecret-dev-key")
	v.SetDefault("RELAY_ADDR", ":3001")
	v.SetDefault("RELAY_SIGNER", "0x5D7f6e2Da683Ec0da8526b7a28F0BF5a676Ed5B8")
	v.SetDefault("ADMIN_USER", "admin")
	v.SetDefault("ADMIN_PASS_HASH", "")
	v.SetDefault("CORS_ORIGINS_ONLINE", "https://learn.mindengage.ai")
	v.SetDefault("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:5173")
}

func csv(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
