package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port           string
	Storage        string
	BoltPath       string
	DatabaseURL    string
	AdminAddress   string
	WriteRPS       float64
	WriteBurst     int
	MetricsEnabled bool
	// gRPC
	GRPCAddr       string
	GRPCTarget     string
	RequestTimeout time.Duration
	// Redis (idempotency)
	IdempotencyBackend string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RedisTTL           time.Duration
	// Feeder
	Sender       string
	FeederConfig string
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func atofDef(s string, def float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func boolDef(s string, def bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return b
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:                getEnv("ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Port:               getEnv("PORT", "8080"),
		Storage:            getEnv("STORAGE", "bolt"),
		BoltPath:           getEnv("BOLT_PATH", "data/rateoracle.db"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		AdminAddress:       getEnv("ADMIN_ADDRESS", ""),
		WriteRPS:           atofDef(getEnv("WRITE_RPS", "20"), 20),
		WriteBurst:         atoiDef(getEnv("WRITE_BURST", "40"), 40),
		MetricsEnabled:     boolDef(getEnv("METRICS_ENABLED", "true"), true),
		GRPCAddr:           getEnv("GRPC_ADDR", ":9090"),
		GRPCTarget:         getEnv("GRPC_TARGET", "localhost:9090"),
		RequestTimeout:     time.Duration(atoiDef(getEnv("REQUEST_TIMEOUT_MS", "3000"), 3000)) * time.Millisecond,
		IdempotencyBackend: getEnv("IDEMPOTENCY_BACKEND", "none"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            atoiDef(getEnv("REDIS_DB", "0"), 0),
		RedisTTL:           time.Duration(atoiDef(getEnv("IDEMPOTENCY_TTL_MS", "86400000"), 86400000)) * time.Millisecond,
		Sender:             getEnv("SENDER", ""),
		FeederConfig:       getEnv("FEEDER_CONFIG", "feeder.yaml"),
	}
}
