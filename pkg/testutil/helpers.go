// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/housing-calculator/pkg/constants"
)

// WriteFile writes contents to name inside a fresh temporary directory and
// returns the full path.
func WriteFile(t testing.TB, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WithinCents reports whether got and want agree to the cent.
func WithinCents(got, want float64) bool {
	return math.Abs(got-want) <= constants.CurrencyTolerance
}
