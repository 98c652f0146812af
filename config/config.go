package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// It is composed of smaller structs that represent different concerns of the
// pipeline: data locations, run defaults, fetch behavior, and the optional
// Postgres sink.
//
// Example ENV equivalent:
//
//	RAW_DIR=./data/raw
//	OUT_DIR=./data/out
//	RATES_FILE=./data/rates/usd_brl.csv
//	FROM_YEAR=2018
//	TO_YEAR=2024
//	VITIBRASIL_URL=http://vitibrasil.cnpuv.embrapa.br
//	SINK_ENABLED=false
type Config struct {
	Data     DataConfig     // input/output locations
	Pipeline PipelineConfig // run defaults
	Fetch    FetchConfig    // source download settings
	Sink     SinkConfig     // optional Postgres sink
	Postgres PostgresConfig // PostgreSQL connection settings (used when Sink.Enabled)
}

// DataConfig holds filesystem locations used by the pipeline.
type DataConfig struct {
	RawDir    string // directory with downloaded/saved source files
	OutDir    string // directory where report artifacts are written
	RatesFile string // optional CSV overriding the built-in USD/BRL rate table
}

// PipelineConfig holds run defaults that flags may override.
type PipelineConfig struct {
	FromYear int // first year processed (inclusive)
	ToYear   int // last year processed (inclusive)
	TopN     int // how many countries the workbook chart shows
}

// FetchConfig controls the fetch mode that downloads source pages.
type FetchConfig struct {
	BaseURL        string  // VitiBrasil base URL
	RequestsPerSec float64 // polite global rate limit against the source
	MaxParallel    int     // concurrent downloads (clamped to 4)
	TimeoutSec     int     // per-request timeout
}

// SinkConfig enables writing aggregates to Postgres as an extra artifact
// destination. The pipeline never reads anything back from the sink.
type SinkConfig struct {
	Enabled bool
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All packages should read from AppConfig instead of reloading environment
// variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Constructs the PostgreSQL connection string (DSN).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing or inconsistent, validateConfig()
//     terminates the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("RAW_DIR", "./data/raw")
	viper.SetDefault("OUT_DIR", "./data/out")
	viper.SetDefault("RATES_FILE", "")

	viper.SetDefault("FROM_YEAR", 2018)
	viper.SetDefault("TO_YEAR", 2024)
	viper.SetDefault("TOP_N", 10)

	viper.SetDefault("VITIBRASIL_URL", "http://vitibrasil.cnpuv.embrapa.br")
	viper.SetDefault("FETCH_RPS", 1.0)
	viper.SetDefault("FETCH_PARALLEL", 2)
	viper.SetDefault("FETCH_TIMEOUT_SECONDS", 30)

	viper.SetDefault("SINK_ENABLED", false)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "vitipulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Data: DataConfig{
			RawDir:    viper.GetString("RAW_DIR"),
			OutDir:    viper.GetString("OUT_DIR"),
			RatesFile: viper.GetString("RATES_FILE"),
		},
		Pipeline: PipelineConfig{
			FromYear: viper.GetInt("FROM_YEAR"),
			ToYear:   viper.GetInt("TO_YEAR"),
			TopN:     viper.GetInt("TOP_N"),
		},
		Fetch: FetchConfig{
			BaseURL:        viper.GetString("VITIBRASIL_URL"),
			RequestsPerSec: viper.GetFloat64("FETCH_RPS"),
			MaxParallel:    viper.GetInt("FETCH_PARALLEL"),
			TimeoutSec:     viper.GetInt("FETCH_TIMEOUT_SECONDS"),
		},
		Sink: SinkConfig{
			Enabled: viper.GetBool("SINK_ENABLED"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and consistent, and
// terminates the application if they are not.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Data.RawDir == "" {
		missing = append(missing, "RAW_DIR")
	}
	if AppConfig.Data.OutDir == "" {
		missing = append(missing, "OUT_DIR")
	}
	if AppConfig.Fetch.BaseURL == "" {
		missing = append(missing, "VITIBRASIL_URL")
	}
	if AppConfig.Sink.Enabled {
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Postgres.Password == "" {
			missing = append(missing, "POSTGRES_PASSWORD")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}

	if AppConfig.Pipeline.FromYear > AppConfig.Pipeline.ToYear {
		log.Fatalf("FROM_YEAR (%d) must not be after TO_YEAR (%d)\n",
			AppConfig.Pipeline.FromYear, AppConfig.Pipeline.ToYear)
	}
}
