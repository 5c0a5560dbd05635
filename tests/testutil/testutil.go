package testutil

import (
	"os"
	"testing"
)

// MustSetTestEnvironment forces GO_ENV=test for the current process.
// Suites call this from SetupSuite so that config.Load and the HTTP
// stack never pick up a developer's shell environment.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
	if os.Getenv("GO_ENV") != "test" {
		t.Fatal("GO_ENV=test did not take effect")
	}
}
