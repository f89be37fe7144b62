package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gridironpool/survivor-pool/internal/platform/logging"
	"github.com/gridironpool/survivor-pool/internal/platform/resilience"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	CORSAllowedOrigins      []string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	SwaggerEnabled          bool
	PprofEnabled            bool
	PprofAddr               string

	SeasonYear     int
	PickLockout    time.Duration
	GradingWorkers int

	IdentityBaseURL        string
	IdentityIntrospectPath string
	IdentityTimeout        time.Duration
	IdentityCacheTTL       time.Duration
	IdentityCacheMaxSize   int
	IdentityCircuit        resilience.CircuitBreakerConfig

	RundownEnabled    bool
	RundownBaseURL    string
	RundownAPIKey     string
	RundownAPIHost    string
	RundownTimeout    time.Duration
	RundownMaxRetries int
	RundownCircuit    resilience.CircuitBreakerConfig

	InternalJobToken    string
	QStashEnabled       bool
	QStashBaseURL       string
	QStashToken         string
	QStashTargetBaseURL string
	QStashRetries       int
	QStashTimeout       time.Duration

	JobScheduleInterval time.Duration
	JobResultsInterval  time.Duration
	JobPreKickoffLead   time.Duration

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	LogLevel    slog.Level
	ZapLogLevel logging.Level
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

	seasonYear, err := getEnvAsInt("SEASON_YEAR", defaultSeasonYear(time.Now().UTC()))
	if err != nil {
		return Config{}, fmt.Errorf("parse SEASON_YEAR: %w", err)
	}
	if seasonYear < 2000 || seasonYear > 2100 {
		return Config{}, fmt.Errorf("SEASON_YEAR %d is out of range", seasonYear)
	}

	pickLockout, err := time.ParseDuration(getEnv("PICK_LOCKOUT", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PICK_LOCKOUT: %w", err)
	}
	if pickLockout < 0 {
		return Config{}, fmt.Errorf("PICK_LOCKOUT must be >= 0")
	}

	gradingWorkers, err := getEnvAsInt("GRADING_WORKERS", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse GRADING_WORKERS: %w", err)
	}
	if gradingWorkers < 0 {
		return Config{}, fmt.Errorf("GRADING_WORKERS must be >= 0")
	}

	jobScheduleInterval, err := time.ParseDuration(getEnv("JOB_SCHEDULE_INTERVAL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_SCHEDULE_INTERVAL: %w", err)
	}
	if jobScheduleInterval <= 0 {
		return Config{}, fmt.Errorf("JOB_SCHEDULE_INTERVAL must be > 0")
	}

	jobResultsInterval, err := time.ParseDuration(getEnv("JOB_RESULTS_INTERVAL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_RESULTS_INTERVAL: %w", err)
	}
	if jobResultsInterval <= 0 {
		return Config{}, fmt.Errorf("JOB_RESULTS_INTERVAL must be > 0")
	}

	jobPreKickoffLead, err := time.ParseDuration(getEnv("JOB_PRE_KICKOFF_LEAD", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse JOB_PRE_KICKOFF_LEAD: %w", err)
	}
	if jobPreKickoffLead <= 0 {
		return Config{}, fmt.Errorf("JOB_PRE_KICKOFF_LEAD must be > 0")
	}

	rundownEnabled, err := strconv.ParseBool(getEnv("RUNDOWN_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RUNDOWN_ENABLED: %w", err)
	}
	rundownTimeout, err := time.ParseDuration(getEnv("RUNDOWN_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RUNDOWN_TIMEOUT: %w", err)
	}
	if rundownTimeout <= 0 {
		return Config{}, fmt.Errorf("RUNDOWN_TIMEOUT must be > 0")
	}
	rundownMaxRetries, err := getEnvAsInt("RUNDOWN_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse RUNDOWN_MAX_RETRIES: %w", err)
	}
	if rundownMaxRetries < 0 {
		return Config{}, fmt.Errorf("RUNDOWN_MAX_RETRIES must be >= 0")
	}
	rundownCircuit, err := parseCircuitBreaker("RUNDOWN")
	if err != nil {
		return Config{}, err
	}
	rundownAPIKey := strings.TrimSpace(getEnv("RUNDOWN_API_KEY", ""))
	if rundownEnabled && rundownAPIKey == "" {
		return Config{}, fmt.Errorf("RUNDOWN_API_KEY is required when RUNDOWN_ENABLED=true")
	}

	identityTimeout, err := time.ParseDuration(getEnv("IDENTITY_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_TIMEOUT: %w", err)
	}
	if identityTimeout <= 0 {
		return Config{}, fmt.Errorf("IDENTITY_TIMEOUT must be > 0")
	}
	identityCacheTTL, err := time.ParseDuration(getEnv("IDENTITY_CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CACHE_TTL: %w", err)
	}
	if identityCacheTTL < 0 {
		return Config{}, fmt.Errorf("IDENTITY_CACHE_TTL must be >= 0")
	}
	identityCacheMaxSize, err := getEnvAsInt("IDENTITY_CACHE_MAX_SIZE", 1024)
	if err != nil {
		return Config{}, fmt.Errorf("parse IDENTITY_CACHE_MAX_SIZE: %w", err)
	}
	if identityCacheMaxSize < 0 {
		return Config{}, fmt.Errorf("IDENTITY_CACHE_MAX_SIZE must be >= 0")
	}
	identityCircuit, err := parseCircuitBreaker("IDENTITY")
	if err != nil {
		return Config{}, err
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashTimeout, err := time.ParseDuration(getEnv("QSTASH_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_TIMEOUT: %w", err)
	}
	if qstashTimeout <= 0 {
		return Config{}, fmt.Errorf("QSTASH_TIMEOUT must be > 0")
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	slogLevel, zapLevel := parseLogLevels(getEnv("APP_LOG_LEVEL", "info"))

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "survivor-pool-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                   getEnv("DB_URL", ""),
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		SwaggerEnabled:          swaggerEnabled,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		SeasonYear:              seasonYear,
		PickLockout:             pickLockout,
		GradingWorkers:          gradingWorkers,
		IdentityBaseURL:         getEnv("IDENTITY_BASE_URL", "http://localhost:8081"),
		IdentityIntrospectPath:  getEnv("IDENTITY_INTROSPECT_PATH", "/v1/auth/introspect"),
		IdentityTimeout:         identityTimeout,
		IdentityCacheTTL:        identityCacheTTL,
		IdentityCacheMaxSize:    identityCacheMaxSize,
		IdentityCircuit:         identityCircuit,
		RundownEnabled:          rundownEnabled,
		RundownBaseURL:          getEnv("RUNDOWN_BASE_URL", ""),
		RundownAPIKey:           rundownAPIKey,
		RundownAPIHost:          getEnv("RUNDOWN_API_HOST", ""),
		RundownTimeout:          rundownTimeout,
		RundownMaxRetries:       rundownMaxRetries,
		RundownCircuit:          rundownCircuit,
		InternalJobToken:        internalJobToken,
		QStashEnabled:           qstashEnabled,
		QStashBaseURL:           qstashBaseURL,
		QStashToken:             qstashToken,
		QStashTargetBaseURL:     qstashTargetBaseURL,
		QStashRetries:           qstashRetries,
		QStashTimeout:           qstashTimeout,
		JobScheduleInterval:     jobScheduleInterval,
		JobResultsInterval:      jobResultsInterval,
		JobPreKickoffLead:       jobPreKickoffLead,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		UptraceLogsEnabled:      uptraceLogsEnabled,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
		LogLevel:                slogLevel,
		ZapLogLevel:             zapLevel,
	}
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
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

	return cfg, nil
}

// defaultSeasonYear maps a calendar date to the NFL season it belongs to.
// January and February are the tail of the previous season.
func defaultSeasonYear(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}

func parseCircuitBreaker(prefix string) (resilience.CircuitBreakerConfig, error) {
	out := resilience.DefaultCircuitBreakerConfig()

	enabled, err := strconv.ParseBool(getEnv(prefix+"_CIRCUIT_ENABLED", strconv.FormatBool(out.Enabled)))
	if err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_ENABLED: %w", prefix, err)
	}
	failureCount, err := getEnvAsInt(prefix+"_CIRCUIT_FAILURE_COUNT", out.FailureThreshold)
	if err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_FAILURE_COUNT: %w", prefix, err)
	}
	if failureCount < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_FAILURE_COUNT must be >= 1", prefix)
	}
	openTimeout, err := time.ParseDuration(getEnv(prefix+"_CIRCUIT_OPEN_TIMEOUT", out.OpenTimeout.String()))
	if err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_OPEN_TIMEOUT: %w", prefix, err)
	}
	if openTimeout <= 0 {
		return out, fmt.Errorf("%s_CIRCUIT_OPEN_TIMEOUT must be > 0", prefix)
	}
	halfOpenMaxReq, err := getEnvAsInt(prefix+"_CIRCUIT_HALF_OPEN_MAX_REQ", out.HalfOpenMaxReq)
	if err != nil {
		return out, fmt.Errorf("parse %s_CIRCUIT_HALF_OPEN_MAX_REQ: %w", prefix, err)
	}
	if halfOpenMaxReq < 1 {
		return out, fmt.Errorf("%s_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1", prefix)
	}

	out.Enabled = enabled
	out.FailureThreshold = failureCount
	out.OpenTimeout = openTimeout
	out.HalfOpenMaxReq = halfOpenMaxReq

	return out, nil
}

func parseLogLevels(v string) (slog.Level, logging.Level) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug, logging.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn, logging.LevelWarn
	case "error":
		return slog.LevelError, logging.LevelError
	default:
		return slog.LevelInfo, logging.LevelInfo
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
