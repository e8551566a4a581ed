package flag_test

import (
	"aperturelab/internal/flag"
	"aperturelab/internal/flag/flagtest"
	"path/filepath"
	"testing"
)

func backends(t *testing.T) map[string]flag.Store {
	t.Helper()
	out := map[string]flag.Store{"memory": flag.NewMemory()}

	sq, err := flag.OpenSQLite(filepath.Join(t.TempDir(), "flags.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	out["sqlite"] = sq

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	gd, err := flag.OpenGdata("aperturelab_flag_test")
	if err != nil {
		t.Logf("gdata unavailable: %v", err)
	} else {
		out["gdata"] = gd
	}
	return out
}

func TestQuizCompletedRoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			flagtest.RoundTrip(t, s)
		})
	}
}

func TestEmptyKeysRejected(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			flagtest.EmptyKeys(t, s)
		})
	}
}
