package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads the YAML file at path, overlays APP_* environment variables
// (a .env file in the working directory is loaded first when present)
// and validates the result.
func Load(path string) (*Config, error) {
	// .env is optional; real environment always wins over it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv only resolves keys viper already knows about; secrets are
	// usually absent from the file so bind them explicitly.
	for _, key := range []string{"postgres.user", "postgres.password", "postgres.db", "engine.seed"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "football-sim-service")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)

	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.auto_migrate", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 1)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 300)
	v.SetDefault("postgres.health_check_period", 30)

	v.SetDefault("engine.seed", 0)
}

var ErrMissingPostgresCredentials = errors.New("postgres user, password and db are required")

// Validate checks struct tags, then the cross-section rules tags can't express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c.App); err != nil {
		return fmt.Errorf("app config validation error: %w", err)
	}
	if err := validator.New().Struct(c.Storage); err != nil {
		return fmt.Errorf("storage config validation error: %w", err)
	}
	if c.Storage.Driver == DriverPostgres {
		if c.Postgres.User == "" || c.Postgres.Password == "" || c.Postgres.DBName == "" {
			return ErrMissingPostgresCredentials
		}
		if c.Postgres.MinConns > c.Postgres.MaxConns {
			return fmt.Errorf("postgres min_conns (%d) exceeds max_conns (%d)", c.Postgres.MinConns, c.Postgres.MaxConns)
		}
	}
	return nil
}
