// Package testutil provides small throwaway-fixture helpers shared by
// this module's package tests.
package testutil

import (
	"os"
	"testing"
)

// TempDir creates a fresh on-disk directory for a single test and
// registers its cleanup, the same discard-afterwards pattern the
// teacher's own testdirs helper follows for replica directories.
func TempDir(t *testing.T, name string) string {
	t.Helper()
	dir, err := os.MkdirTemp("", name)
	if err != nil {
		t.Fatalf("testutil: MkdirTemp: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}
