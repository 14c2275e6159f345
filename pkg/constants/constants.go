// Package constants provides shared constants for the housing-calculator application.
package constants

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyPlaces is the number of decimal places shown for currency
	CurrencyPlaces = 2

	// ScheduleSampleInterval is the month interval at which amortization rows
	// are surfaced (in addition to the first month).
	ScheduleSampleInterval = 12

	// MaxHorizonYears bounds loan terms and rental horizons accepted from
	// callers.
	MaxHorizonYears = 100
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "housing-calculator.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultEnvFile is the dotenv file loaded before configuration
	DefaultEnvFile = ".env"

	// EnvPrefix prefixes environment variable overrides
	EnvPrefix = "HOUSING"
)

// Storage constants
const (
	// StorageBackendMemory keeps scenarios in process memory
	StorageBackendMemory = "memory"

	// StorageBackendFile keeps scenarios in a JSON file on disk
	StorageBackendFile = "file"

	// StorageBackendRedis keeps scenarios in Redis
	StorageBackendRedis = "redis"

	// StorageBackendPostgres keeps scenarios in a Postgres table
	StorageBackendPostgres = "postgres"

	// ScenarioStorageKey is the key under which the scenario collection is stored
	ScenarioStorageKey = "housing-calculator-scenarios"

	// DefaultStoragePath is the default directory for the file backend
	DefaultStoragePath = "scenarios"

	// DefaultRedisAddress is the default Redis address
	DefaultRedisAddress = "localhost:6379"

	// DefaultPostgresTable is the default key-value table name
	DefaultPostgresTable = "housing_kv"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimitRequests is the default number of requests per window per client
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the default rate limit refill window
	DefaultRateLimitWindow = "1m"
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
