package config

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not defined")

type Config struct {
	Env  string
	Port int

	StoreDriver string
	MongoURI    string
	MongoDB     string
	DBURL       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret        string
	JWTRefreshSecret string
	JWTAccessTTL     time.Duration
	JWTRefreshTTL    time.Duration

	OTelEnabled  bool
	OTelEndpoint string

	CORSAllowedOrigins []string
	AuthRateLimit      int
	AuthRateWindow     time.Duration
	MaxBodyBytes       int64
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// a missing .env is fine; real deployments use the environment
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := Config{
		Env:  v.GetString("APP_ENV"),
		Port: v.GetInt("PORT"),

		StoreDriver: strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:    v.GetString("MONGO_URI"),
		MongoDB:     v.GetString("MONGO_DB"),
		DBURL:       buildDBURL(v),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTRefreshSecret: v.GetString("JWT_REFRESH_SECRET"),
		JWTAccessTTL:     time.Duration(v.GetInt("JWT_EXPIRES_IN")) * time.Second,
		JWTRefreshTTL:    time.Duration(v.GetInt("JWT_REFRESH_EXPIRES_IN")) * time.Second,

		OTelEnabled:  v.GetBool("OTEL_ENABLED"),
		OTelEndpoint: v.GetString("OTEL_ENDPOINT"),

		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AuthRateLimit:      v.GetInt("AUTH_RATE_LIMIT"),
		AuthRateWindow:     v.GetDuration("AUTH_RATE_WINDOW"),
		MaxBodyBytes:       v.GetInt64("MAX_BODY_BYTES"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrMissingJWTSecret
	}

	if cfg.JWTRefreshSecret == "" {
		cfg.JWTRefreshSecret = cfg.JWTSecret
	}

	// non-numeric or zero lifetimes fall back to the defaults
	if cfg.JWTAccessTTL <= 0 {
		cfg.JWTAccessTTL = time.Hour
	}
	if cfg.JWTRefreshTTL <= 0 {
		cfg.JWTRefreshTTL = 7 * 24 * time.Hour
	}

	switch cfg.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		return Config{}, errors.New("STORE_DRIVER must be one of mongo, postgres, memory")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("PORT", 8080)

	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://127.0.0.1:27017")
	v.SetDefault("MONGO_DB", "bookapi")

	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "bookapi")
	v.SetDefault("DB_PASSWORD", "bookapi")
	v.SetDefault("DB_NAME", "bookapi")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_EXPIRES_IN", 3600)
	v.SetDefault("JWT_REFRESH_EXPIRES_IN", 7*24*60*60)

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_ENDPOINT", "localhost:4317")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("AUTH_RATE_LIMIT", 20)
	v.SetDefault("AUTH_RATE_WINDOW", time.Minute)
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
}

func buildDBURL(v *viper.Viper) string {
	if url := v.GetString("DATABASE_URL"); url != "" {
		return url
	}

	host := v.GetString("DB_HOST")
	port := v.GetString("DB_PORT")
	user := v.GetString("DB_USER")
	pass := v.GetString("DB_PASSWORD")
	name := v.GetString("DB_NAME")
	ssl := v.GetString("DB_SSLMODE")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// WithTimeout bounds a store call by d while keeping the caller's cancellation.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, d)
}
