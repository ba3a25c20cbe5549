package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	DBURL                       string
	DBDisablePreparedBinary     bool
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	SwaggerEnabled              bool
	JWTSecret                   string
	JWTIssuer                   string
	JWTAccessTTL                time.Duration
	JWTRefreshTTL               time.Duration
	JWTPasswordResetTTL         time.Duration
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	UptraceCaptureRequestBody   bool
	UptraceRequestBodyMaxBytes  int
	BetterStackEnabled          bool
	BetterStackEndpoint         string
	BetterStackToken            string
	BetterStackTimeout          time.Duration
	BetterStackMinLevel         logging.Level
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	AlpacaEnabled               bool
	AlpacaDataBaseURL           string
	AlpacaBrokerBaseURL         string
	AlpacaKeyID                 string
	AlpacaSecretKey             string
	AlpacaFeed                  string
	AlpacaTimeout               time.Duration
	AlpacaMaxRetries            int
	AlpacaCircuitEnabled        bool
	AlpacaCircuitFailureCount   int
	AlpacaCircuitOpenTimeout    time.Duration
	AlpacaCircuitHalfOpenMaxReq int
	PriceRefreshInterval        time.Duration
	PriceRefreshWorkers         int
	InternalJobToken            string
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel := parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	jwtSecret := strings.TrimSpace(getEnv("JWT_SECRET", ""))
	if jwtSecret == "" {
		if appEnv == EnvProd {
			return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV=prod")
		}
		jwtSecret = "local-dev-secret"
	}
	jwtAccessTTL, err := time.ParseDuration(getEnv("JWT_ACCESS_TTL", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JWT_ACCESS_TTL: %w", err)
	}
	if jwtAccessTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_ACCESS_TTL must be > 0")
	}
	jwtRefreshTTL, err := time.ParseDuration(getEnv("JWT_REFRESH_TTL", "168h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JWT_REFRESH_TTL: %w", err)
	}
	if jwtRefreshTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_REFRESH_TTL must be > 0")
	}
	jwtPasswordResetTTL, err := time.ParseDuration(getEnv("JWT_PASSWORD_RESET_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JWT_PASSWORD_RESET_TTL: %w", err)
	}
	if jwtPasswordResetTTL <= 0 {
		return Config{}, fmt.Errorf("JWT_PASSWORD_RESET_TTL must be > 0")
	}

	alpacaEnabled, err := strconv.ParseBool(getEnv("ALPACA_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_ENABLED: %w", err)
	}
	alpacaTimeout, err := time.ParseDuration(getEnv("ALPACA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_TIMEOUT: %w", err)
	}
	if alpacaTimeout <= 0 {
		return Config{}, fmt.Errorf("ALPACA_TIMEOUT must be > 0")
	}
	alpacaMaxRetries, err := getEnvAsInt("ALPACA_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_MAX_RETRIES: %w", err)
	}
	if alpacaMaxRetries < 0 {
		return Config{}, fmt.Errorf("ALPACA_MAX_RETRIES must be >= 0")
	}
	alpacaCircuitEnabled, err := strconv.ParseBool(getEnv("ALPACA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_CIRCUIT_ENABLED: %w", err)
	}
	alpacaCircuitFailureCount, err := getEnvAsInt("ALPACA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if alpacaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ALPACA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	alpacaCircuitOpenTimeout, err := time.ParseDuration(getEnv("ALPACA_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if alpacaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ALPACA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	alpacaCircuitHalfOpenMaxReq, err := getEnvAsInt("ALPACA_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALPACA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if alpacaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ALPACA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	alpacaKeyID := strings.TrimSpace(getEnv("ALPACA_KEY_ID", ""))
	alpacaSecretKey := strings.TrimSpace(getEnv("ALPACA_SECRET_KEY", ""))
	if alpacaEnabled {
		if alpacaKeyID == "" {
			return Config{}, fmt.Errorf("ALPACA_KEY_ID is required when ALPACA_ENABLED=true")
		}
		if alpacaSecretKey == "" {
			return Config{}, fmt.Errorf("ALPACA_SECRET_KEY is required when ALPACA_ENABLED=true")
		}
	}

	priceRefreshInterval, err := time.ParseDuration(getEnv("PRICE_REFRESH_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PRICE_REFRESH_INTERVAL: %w", err)
	}
	if priceRefreshInterval <= 0 {
		return Config{}, fmt.Errorf("PRICE_REFRESH_INTERVAL must be > 0")
	}
	priceRefreshWorkers, err := getEnvAsInt("PRICE_REFRESH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse PRICE_REFRESH_WORKERS: %w", err)
	}
	if priceRefreshWorkers < 1 {
		return Config{}, fmt.Errorf("PRICE_REFRESH_WORKERS must be >= 1")
	}

	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if appEnv == EnvProd && internalJobToken == "" {
		return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when APP_ENV=prod")
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "wallstreetrivals-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                       getEnv("DB_URL", ""),
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		SwaggerEnabled:              swaggerEnabled,
		JWTSecret:                   jwtSecret,
		JWTIssuer:                   getEnv("JWT_ISSUER", "wallstreetrivals"),
		JWTAccessTTL:                jwtAccessTTL,
		JWTRefreshTTL:               jwtRefreshTTL,
		JWTPasswordResetTTL:         jwtPasswordResetTTL,
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		UptraceCaptureRequestBody:   uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes:  uptraceRequestBodyMaxBytes,
		BetterStackEnabled:          betterStackEnabled,
		BetterStackEndpoint:         betterStackEndpoint,
		BetterStackToken:            strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:          betterStackTimeout,
		BetterStackMinLevel:         betterStackMinLevel,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		AlpacaEnabled:               alpacaEnabled,
		AlpacaDataBaseURL:           strings.TrimSpace(getEnv("ALPACA_DATA_BASE_URL", "https://data.alpaca.markets")),
		AlpacaBrokerBaseURL:         strings.TrimSpace(getEnv("ALPACA_BROKER_BASE_URL", "https://api.alpaca.markets")),
		AlpacaKeyID:                 alpacaKeyID,
		AlpacaSecretKey:             alpacaSecretKey,
		AlpacaFeed:                  strings.TrimSpace(getEnv("ALPACA_FEED", "iex")),
		AlpacaTimeout:               alpacaTimeout,
		AlpacaMaxRetries:            alpacaMaxRetries,
		AlpacaCircuitEnabled:        alpacaCircuitEnabled,
		AlpacaCircuitFailureCount:   alpacaCircuitFailureCount,
		AlpacaCircuitOpenTimeout:    alpacaCircuitOpenTimeout,
		AlpacaCircuitHalfOpenMaxReq: alpacaCircuitHalfOpenMaxReq,
		PriceRefreshInterval:        priceRefreshInterval,
		PriceRefreshWorkers:         priceRefreshWorkers,
		InternalJobToken:            internalJobToken,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	return cfg, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
