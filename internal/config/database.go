package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// SSLMode mirrors libpq's sslmode values; a subset is named here, and any
// value is passed through unchanged to the connection string.
type SSLMode string

const (
	SSLDisable    SSLMode = "disable"
	SSLRequire    SSLMode = "require"
	SSLVerifyCA   SSLMode = "verify-ca"
	SSLVerifyFull SSLMode = "verify-full"
)

// DatabaseConfig carries the store connection defaults recognized from the
// environment: PGHOST, PGPORT, PGDATABASE, PGUSER, PGPASSWORD, PGSSLMODE,
// POOL_SIZE.
type DatabaseConfig struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  SSLMode
	PoolSize int
}

// DatabaseConfigFromEnv reads the recognized environment variables,
// applying the same defaults a local development deployment would need.
func DatabaseConfigFromEnv() DatabaseConfig {
	return DatabaseConfig{
		Host:     getenv("PGHOST", "localhost"),
		Port:     getenvInt("PGPORT", 5432),
		Database: getenv("PGDATABASE", "cadastre"),
		User:     getenv("PGUSER", "postgres"),
		Password: os.Getenv("PGPASSWORD"),
		SSLMode:  SSLMode(getenv("PGSSLMODE", string(SSLDisable))),
		PoolSize: getenvInt("POOL_SIZE", 8),
	}
}

// ConnString renders a pgx-compatible connection URL.
func (c DatabaseConfig) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	q := u.Query()
	q.Set("sslmode", string(c.SSLMode))
	q.Set("pool_max_conns", strconv.Itoa(c.PoolSize))
	q.Set("connect_timeout", "10")
	q.Set("pool_max_conn_idle_time", "30s")
	u.RawQuery = q.Encode()
	return u.String()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
