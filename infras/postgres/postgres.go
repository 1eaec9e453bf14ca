package postgres

//nolint:revive
import (
	"fmt"
	"net"
	"net/url"
	"time"

	"docemania/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10
	postgresConnMaxLifetime   = 30 * time.Minute
)

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

type connectionOptions struct {
	name     string
	username string
	password string
	host     string
	port     string
	dbName   string
	sslMode  string
	timezone string
}

func New(config *config.Config) *Connection {
	return &Connection{
		Read:  CreatePostgresReadConn(*config),
		Write: CreatePostgresWriteConn(*config),
	}
}

// Close releases both pools. The read pool may be the same handle as the write pool.
func (c *Connection) Close() error {
	var err error

	if c.Write != nil {
		err = c.Write.Close()
	}

	if c.Read != nil && c.Read != c.Write {
		if readErr := c.Read.Close(); readErr != nil && err == nil {
			err = readErr
		}
	}

	if err != nil {
		return fmt.Errorf("failed to close database connections: %w", err)
	}

	return nil
}

// getDBName returns the database name with prefix if configured
func getDBName(config config.Config, baseName string) string {
	if config.DB.Postgres.Prefix != "" {
		return config.DB.Postgres.Prefix + baseName
	}

	return baseName
}

func nodeOptions(cfg config.Config, name string, node config.Postgres) connectionOptions {
	return connectionOptions{
		name:     name,
		username: node.Username,
		password: node.Password,
		host:     node.Host,
		port:     node.Port,
		dbName:   getDBName(cfg, node.Name),
		sslMode:  node.SSLMode,
		timezone: node.Timezone,
	}
}

// CreatePostgresWriteConn connects to the primary.
func CreatePostgresWriteConn(cfg config.Config) *sqlx.DB {
	return CreatePostgresConnection(nodeOptions(cfg, "write", cfg.DB.Postgres.Write), cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime)
}

// CreatePostgresReadConn connects to the replica.
func CreatePostgresReadConn(cfg config.Config) *sqlx.DB {
	return CreatePostgresConnection(nodeOptions(cfg, "read", cfg.DB.Postgres.Read), cfg.DB.Postgres.MaxRetry, cfg.DB.Postgres.RetryWaitTime)
}

func (opts connectionOptions) descriptor() string {
	query := url.Values{}

	if opts.sslMode != "" {
		query.Set("sslmode", opts.sslMode)
	}

	if opts.timezone != "" {
		query.Set("timezone", opts.timezone)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(opts.username, opts.password),
		Host:     net.JoinHostPort(opts.host, opts.port),
		Path:     "/" + opts.dbName,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// CreatePostgresConnection creates a database connection, retrying maxRetry times.
// It returns nil when every attempt failed.
func CreatePostgresConnection(opts connectionOptions, maxRetry, waitTime int) *sqlx.DB {
	maxRetry = max(maxRetry, 1)

	for retry := range maxRetry {
		sqlDB, err := sqlx.Connect("postgres", opts.descriptor())
		if err == nil {
			log.
				Info().
				Str("name", opts.name).
				Str("host", opts.host).
				Str("port", opts.port).
				Str("dbName", opts.dbName).
				Msg("Connected to database")
			sqlDB.SetMaxIdleConns(postgresMaxIdleConnection)
			sqlDB.SetMaxOpenConns(postgresMaxOpenConnection)
			sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

			return sqlDB
		}

		log.
			Error().
			Err(err).
			Str("name", opts.name).
			Str("host", opts.host).
			Str("port", opts.port).
			Str("dbName", opts.dbName).
			Int("attempt", retry+1).
			Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitTime) * time.Second)
	}

	return nil
}
