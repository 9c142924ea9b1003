package config

import (
	"errors"
	"fmt"
	"strings"

	"discogsload/internal/errs"
	"discogsload/pkg/logger"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the resolved settings for one invocation of the loader.
// Precedence, highest to lowest: CLI flag, environment variable
// (DISCOGSLOAD_ prefix), .env/.env.local file, compiled-in default.
type Config struct {
	BatchSize     int    `mapstructure:"BATCH_SIZE"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        int    `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	CreateIndexes bool   `mapstructure:"CREATE_INDEXES"`

	// InputFiles are the positional gzip-compressed XML dump paths.
	InputFiles []string
}

// Load parses flags, binds environment variables and .env files, and
// returns the resolved Config. args is normally os.Args[1:].
func Load(args []string, log logger.Logger) (Config, error) {
	log = log.Function("Load")

	flags := pflag.NewFlagSet("discogsload", pflag.ContinueOnError)
	flags.Int("batch-size", 10000, "number of parent records buffered before a COPY flush")
	flags.String("db-host", "localhost", "Postgres host")
	flags.Int("db-port", 5432, "Postgres port")
	flags.String("db-user", "dev", "Postgres user")
	flags.String("db-password", "dev_pass", "Postgres password")
	flags.String("db-name", "discogs", "Postgres database name")
	flags.Bool("create-indexes", false, "execute sql/indexes.sql after all input files are loaded")

	if err := flags.Parse(args); err != nil {
		return Config{}, errs.NewConfigError("parse CLI flags", err)
	}

	v := viper.New()
	v.SetEnvPrefix("DISCOGSLOAD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return Config{}, errs.NewConfigError("bind CLI flags", err)
	}

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		log.Debug("no .env file found", "error", err)
	} else {
		log.Info("loaded .env file")
	}

	v.SetConfigName(".env.local")
	if err := v.MergeInConfig(); err != nil {
		log.Debug("no .env.local file found", "error", err)
	} else {
		log.Info("loaded .env.local overrides")
	}

	cfg := Config{
		BatchSize:     v.GetInt("batch-size"),
		DBHost:        v.GetString("db-host"),
		DBPort:        v.GetInt("db-port"),
		DBUser:        v.GetString("db-user"),
		DBPassword:    v.GetString("db-password"),
		DBName:        v.GetString("db-name"),
		CreateIndexes: v.GetBool("create-indexes"),
		InputFiles:    flags.Args(),
	}

	if cfg.BatchSize <= 0 {
		return Config{}, errs.NewConfigError("invalid batch size", fmt.Errorf("batch size must be positive, got %d", cfg.BatchSize))
	}
	if len(cfg.InputFiles) == 0 {
		return Config{}, errs.NewConfigError("no input files given", errNoInputFiles)
	}

	log.Info("resolved configuration",
		"batch_size", cfg.BatchSize,
		"db_host", cfg.DBHost,
		"db_name", cfg.DBName,
		"create_indexes", cfg.CreateIndexes,
		"input_files", len(cfg.InputFiles),
	)

	return cfg, nil
}

var errNoInputFiles = errors.New("expected one or more positional input file paths")
