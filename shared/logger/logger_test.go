package logger_test

import (
	"bytes"
	"errors"
	"testing"

	"docemania/config"
	"docemania/shared/constant"
	"docemania/shared/logger"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// preserve restores the global logger state touched by a test.
func preserve(t *testing.T) {
	t.Helper()

	originalLogger := log.Logger
	originalLevel := zerolog.GlobalLevel()
	originalTimeFormat := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = originalLogger
		zerolog.SetGlobalLevel(originalLevel)
		zerolog.TimeFieldFormat = originalTimeFormat
	})
}

func TestInitLogger(t *testing.T) {
	preserve(t)

	logger.InitLogger()

	if zerolog.GlobalLevel() != zerolog.TraceLevel {
		t.Errorf("expected trace level, got %s", zerolog.GlobalLevel())
	}

	if zerolog.TimeFieldFormat != zerolog.TimeFormatUnix {
		t.Errorf("expected unix time format, got %s", zerolog.TimeFieldFormat)
	}
}

func TestErrorWithStack(t *testing.T) {
	preserve(t)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	logger.ErrorWithStack(errors.New("failed to save booking"))

	if !bytes.Contains(buf.Bytes(), []byte("failed to save booking")) {
		t.Errorf("expected the error in the output, got %s", buf.String())
	}

	if !bytes.Contains(buf.Bytes(), []byte("logger_test.go")) {
		t.Errorf("expected a stack trace in the output, got %s", buf.String())
	}
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		level    string
		expected zerolog.Level
	}{
		{"explicit debug", constant.ServerEnvProduction, "debug", zerolog.DebugLevel},
		{"explicit warn", constant.ServerEnvDevelopment, "warn", zerolog.WarnLevel},
		{"disabled", constant.ServerEnvProduction, "disabled", zerolog.Disabled},
		{"empty in development", constant.ServerEnvDevelopment, "", zerolog.DebugLevel},
		{"empty in production", constant.ServerEnvProduction, "", zerolog.InfoLevel},
		{"unknown in production", constant.ServerEnvProduction, "loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preserve(t)

			cfg := &config.Config{}
			cfg.Server.Env = tt.env
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			if zerolog.GlobalLevel() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, zerolog.GlobalLevel())
			}
		})
	}
}

func TestSetOutput(t *testing.T) {
	preserve(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.App.Name = "docemania"

	logger.SetOutput(cfg, &buf)
	log.Info().Str("booking_id", "abc").Msg("booking created")

	if !bytes.HasPrefix(buf.Bytes(), []byte("{")) {
		t.Fatalf("expected JSON output in production, got %s", buf.String())
	}

	if !bytes.Contains(buf.Bytes(), []byte(`"app":"docemania"`)) {
		t.Errorf("expected app field in output, got %s", buf.String())
	}

	buf.Reset()
	cfg.Server.Env = constant.ServerEnvDevelopment

	logger.SetOutput(cfg, &buf)
	log.Info().Msg("console")

	if buf.Len() == 0 || bytes.HasPrefix(buf.Bytes(), []byte("{")) {
		t.Errorf("expected console output outside production, got %s", buf.String())
	}
}
