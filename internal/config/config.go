package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	// Seed profiles are only loaded by the memory driver.
	Seed []SeedProfile `mapstructure:"seed"`
}

type SeedProfile struct {
	ID    string `mapstructure:"id"`
	Email string `mapstructure:"email"`
	Role  string `mapstructure:"role"`
}

type ContactConfig struct {
	IOTimeout       time.Duration `mapstructure:"io_timeout"`
	RecipientPolicy string        `mapstructure:"recipient_policy"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Config struct {
	DatabaseURL string        `mapstructure:"database_url"`
	ServerPort  string        `mapstructure:"server_port"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Storage     StorageConfig `mapstructure:"storage"`
	Contact     ContactConfig `mapstructure:"contact"`
	CORS        CORSConfig    `mapstructure:"cors"`
}

// Load reads config.yaml from the current directory or ./config. Environment
// variables prefixed with ADMINCONTACT_ override file values.
func Load() (*Config, error) {
	return LoadFrom(".", "./config")
}

// LoadFrom is Load with explicit search paths.
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ADMINCONTACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server_port", "8080")
	v.SetDefault("database_url", "")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("storage.driver", StorageDriverPostgres)
	v.SetDefault("contact.io_timeout", "5s")
	v.SetDefault("contact.recipient_policy", "first")
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("jwt_secret must be set")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("database_url must be set for the postgres storage driver")
		}
	case StorageDriverMemory:
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Contact.IOTimeout <= 0 {
		return errors.New("contact.io_timeout must be positive")
	}
	return nil
}
