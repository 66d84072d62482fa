package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	DBDSN          string
	LogFile        string
	LogLevel       string
	TemplatesDir   string
	JWTSecret      string
	TokenTTL       time.Duration
	CookieSecure   bool
	EditorIdle     time.Duration
	PublicCacheTTL time.Duration
	RateLimit      int
}

// Load reads staybook.yaml (if present) and the environment. PORT, DB_DSN,
// LOG_FILE, LOG_LEVEL and JWT_SECRET keep their bare names; every other key
// is read as STAYBOOK_<KEY>.
func Load() Config {
	v := viper.New()
	v.SetDefault("port", "8080")
	v.SetDefault("db_dsn", "staybook.db") // sqlite file in project root
	v.SetDefault("log_file", "./staybook.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("templates_dir", "./web/templates")
	v.SetDefault("jwt_secret", "dev-only-change-me")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("editor_idle", "30m")
	v.SetDefault("public_cache_ttl", "5m")
	v.SetDefault("rate_limit", 60)

	v.SetConfigName("staybook")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("[config] ignoring unreadable config file: %v", err)
		}
	}

	v.SetEnvPrefix("STAYBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{"port", "db_dsn", "log_file", "log_level", "jwt_secret"} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}

	cfg := Config{
		Port:           v.GetString("port"),
		DBDSN:          v.GetString("db_dsn"),
		LogFile:        v.GetString("log_file"),
		LogLevel:       v.GetString("log_level"),
		TemplatesDir:   v.GetString("templates_dir"),
		JWTSecret:      v.GetString("jwt_secret"),
		TokenTTL:       v.GetDuration("token_ttl"),
		CookieSecure:   v.GetBool("cookie_secure"),
		EditorIdle:     v.GetDuration("editor_idle"),
		PublicCacheTTL: v.GetDuration("public_cache_ttl"),
		RateLimit:      v.GetInt("rate_limit"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s TEMPLATES=%s TOKEN_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LogLevel, cfg.TemplatesDir, cfg.TokenTTL)
	return cfg
}
