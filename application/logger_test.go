package application

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerEnvironment(t *testing.T) {
	for _, env := range []string{"development", "Production"} {
		if err := (&LoggerConfig{Environment: env}).Validate(); err != nil {
			t.Error("Expect", env, "to be accepted, got", err)
		}
	}
	_, err := NewLogger(&LoggerConfig{Environment: "staging"})
	if !errors.Is(err, ErrLoggerEnvironment) {
		t.Fatal("Expect", ErrLoggerEnvironment, "got", err)
	}
}

func TestLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	logger, err := NewLogger(&LoggerConfig{Environment: "development", Path: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("mining", "difficulty", 4)
	logger.Info("dispatched")
	logger.Sync()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"DEBUG", "mining", "difficulty", "INFO", "dispatched"} {
		if !strings.Contains(string(got), want) {
			t.Error("Expect log to contain", want, "got", string(got))
		}
	}
}

func TestProductionLoggerSkipsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.log")
	logger, err := NewLogger(&LoggerConfig{Environment: "production", Path: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Debug("hidden")
	logger.Warn("shown")
	logger.Sync()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(got), "hidden") || !strings.Contains(string(got), "shown") {
		t.Fatal("Expect only the warning in", string(got))
	}
}
