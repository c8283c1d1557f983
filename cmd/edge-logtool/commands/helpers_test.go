package commands

import (
	"path/filepath"
	"testing"

	"github.com/lobocorp/modbus-edge-supervisor/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.elog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}
