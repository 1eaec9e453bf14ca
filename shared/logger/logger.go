// Package logger configures the global zerolog logger shared by every binary.
package logger

import (
	"io"
	"os"
	"time"

	"docemania/config"
	"docemania/shared/constant"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a console logger at trace level so that configuration
// problems are visible before SetLogLevel runs.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(console(os.Stdout))
}

func console(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
}

// ErrorWithStack logs err together with the stack of the caller.
func ErrorWithStack(err error) {
	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies SERVER_LOG_LEVEL. An empty or unknown level means debug
// in development and info anywhere else.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = zerolog.InfoLevel
		if config.Server.Env == constant.ServerEnvDevelopment {
			level = zerolog.DebugLevel
		}
	}

	zerolog.SetGlobalLevel(level)
	log.Debug().Str("level", level.String()).Msg("Log level set")
}

// SetOutput writes JSON lines tagged with the app name in production and keeps
// the console writer everywhere else. A nil out means stdout.
func SetOutput(config *config.Config, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}

	if config.Server.Env != constant.ServerEnvProduction {
		log.Logger = log.Output(console(out))

		return
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(out).With().
		Timestamp().
		Str("app", config.App.Name).
		Logger()
}
