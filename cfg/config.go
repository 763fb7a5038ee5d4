package cfg

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type BookingAPIConfig struct {
	BaseURL string
}

type AuthConfig struct {
	JWTSecret           string
	LoginTimeoutSeconds int
	SessionTTLMinutes   int
}

type ObservabilityConfig struct {
	Enabled      bool
	OTLPEndpoint string
	ServiceName  string
	Environment  string
}

type Config struct {
	AppEnv           string
	AppPort          string
	RedisConfig      RedisConfig
	BookingAPIConfig BookingAPIConfig
	AuthConfig       AuthConfig
	Observability    ObservabilityConfig
	CacheTTLMinutes  int
	SnowflakeNodeID  int64
}

func Load() (*Config, error) {
	var errs []error

	// .env is optional outside local development
	_ = godotenv.Load()

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := mustEnv("APP_PORT", &errs)
	redisHost := mustEnv("REDIS_HOST", &errs)
	redisPort := mustEnv("REDIS_PORT", &errs)
	redisPassword := os.Getenv("REDIS_PASSWORD")

	bookingAPIBaseURL := mustEnv("BOOKING_API_BASE_URL", &errs)
	jwtSecret := mustEnv("JWT_SECRET", &errs)

	loginTimeoutSeconds := mustEnvInt("LOGIN_TIMEOUT_SECONDS", &errs)
	sessionTTLMinutes := mustEnvInt("SESSION_TTL_MINUTES", &errs)
	cacheTTLMinutes := mustEnvInt("CACHE_TTL_MINUTES", &errs)

	snowflakeNodeID := int64(0)
	if v := os.Getenv("SNOWFLAKE_NODE_ID"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, errors.New("conversion failed env: SNOWFLAKE_NODE_ID"))
		}
		snowflakeNodeID = parsed
	}

	otelEnabled := os.Getenv("OTEL_ENABLED") == "true"
	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEnabled && otelEndpoint == "" {
		errs = append(errs, errors.New("missing env: OTEL_EXPORTER_OTLP_ENDPOINT"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		RedisConfig: RedisConfig{
			Host:     redisHost,
			Port:     redisPort,
			Password: redisPassword,
		},
		BookingAPIConfig: BookingAPIConfig{
			BaseURL: bookingAPIBaseURL,
		},
		AuthConfig: AuthConfig{
			JWTSecret:           jwtSecret,
			LoginTimeoutSeconds: loginTimeoutSeconds,
			SessionTTLMinutes:   sessionTTLMinutes,
		},
		Observability: ObservabilityConfig{
			Enabled:      otelEnabled,
			OTLPEndpoint: otelEndpoint,
			ServiceName:  "tripadmin",
			Environment:  appEnv,
		},
		CacheTTLMinutes: cacheTTLMinutes,
		SnowflakeNodeID: snowflakeNodeID,
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func mustEnvInt(key string, errs *[]error) int {
	raw := mustEnv(key, errs)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, errors.New("conversion failed env: "+key))
	}
	return parsed
}
