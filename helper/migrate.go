package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"docemania/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

var ErrUnknownAction = errors.New("unknown migration action")

// actions maps a command to the migrate call it runs and the message logged
// once it succeeds.
var actions = map[string]struct {
	run  func(*migrate.Migrate) error
	done string
}{
	ActionUp:     {func(m *migrate.Migrate) error { return m.Up() }, "Database migrations applied"},
	ActionStepUp: {func(m *migrate.Migrate) error { return m.Steps(1) }, "Applied one migration"},
	ActionDown:   {func(m *migrate.Migrate) error { return m.Steps(-1) }, "Rolled back one migration"},
	ActionDrop:   {func(m *migrate.Migrate) error { return m.Down() }, "Rolled back every migration"},
}

// DatabaseURL is the write database DSN understood by golang-migrate.
func DatabaseURL(config *config.Config) string {
	pg := config.DB.Postgres
	write := pg.Write

	query := url.Values{}
	if write.SSLMode != "" {
		query.Set("sslmode", write.SSLMode)
	}

	if pg.MigrationTable != "" {
		query.Set("x-migrations-table", pg.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     "/" + pg.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Runner applies one of the Action* commands to the write database. Having
// nothing to migrate is not an error.
func Runner(config *config.Config, action string) error {
	step, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationsSource, DatabaseURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = step.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", action).Msg(step.done)

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
