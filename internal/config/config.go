package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// DB holds the Postgres connection settings, pool sizing included. The
// defaults suit a single campus deployment; bump the pool via env when the
// API runs more replicas.
type DB struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:""`
	Name     string `envconfig:"DB_NAME" default:"feeledger"`

	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"4"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

func (d DB) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"feeledger"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB DB

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Auth struct {
		// HS256 secret for the admin bearer middleware. Empty disables
		// verification (local development only).
		Secret string `envconfig:"AUTH_SECRET"`
	}

	Reconcile struct {
		// How long ApplyChanges waits on a student's lock before
		// giving up with ErrBusy.
		LockTimeout time.Duration `envconfig:"RECONCILE_LOCK_TIMEOUT" default:"2s"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
