package commands

import (
	"os"
	"path/filepath"
	"testing"
)

// TestBuildLoggerCreatesDirectory tests that logging works on a first
// run, before any other component has created the data directory
func TestBuildLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wardeck", "wardeck.log")

	logger, err := buildLogger(path)
	if err != nil {
		t.Fatalf("buildLogger failed on a fresh directory: %v", err)
	}
	logger.Info("first run")
	logger.Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected the log file to exist: %v", err)
	}
}
