package config

import (
	"os"
	"testing"
	"time"
)

// chdir is a stand-in for t.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{
		"DAYBOOK_DB_PATH", "DAYBOOK_LISTEN_ADDR", "DAYBOOK_AUTH_USER", "DAYBOOK_AUTH_PASS",
		"DAYBOOK_AUTH_FILE", "DAYBOOK_DB_BUSY_TIMEOUT", "DAYBOOK_DB_LOCK_TIMEOUT", "DAYBOOK_RECENT_ENTRIES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.DBPath != "daybook.db" {
		t.Fatalf("unexpected db path: %q", cfg.DBPath)
	}
	if cfg.ListenAddr != "127.0.0.1:8080" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.DBBusyTimeout != 5*time.Second || cfg.DBLockTimeout != 2*time.Second {
		t.Fatalf("unexpected timeouts: %v / %v", cfg.DBBusyTimeout, cfg.DBLockTimeout)
	}
	if cfg.RecentEntriesMax != 7 {
		t.Fatalf("unexpected recent entries: %d", cfg.RecentEntriesMax)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAYBOOK_DB_PATH", "/tmp/other.db")
	t.Setenv("DAYBOOK_LISTEN_ADDR", "0.0.0.0:9000")
	t.Setenv("DAYBOOK_DB_BUSY_TIMEOUT", "250ms")
	t.Setenv("DAYBOOK_RECENT_ENTRIES", "3")

	cfg := Load()
	if cfg.DBPath != "/tmp/other.db" {
		t.Fatalf("db path override ignored: %q", cfg.DBPath)
	}
	if cfg.ListenAddr != "0.0.0.0:9000" {
		t.Fatalf("listen addr override ignored: %q", cfg.ListenAddr)
	}
	if cfg.DBBusyTimeout != 250*time.Millisecond {
		t.Fatalf("busy timeout override ignored: %v", cfg.DBBusyTimeout)
	}
	if cfg.RecentEntriesMax != 3 {
		t.Fatalf("recent entries override ignored: %d", cfg.RecentEntriesMax)
	}
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAYBOOK_DB_BUSY_TIMEOUT", "soon")
	t.Setenv("DAYBOOK_RECENT_ENTRIES", "-2")

	cfg := Load()
	if cfg.DBBusyTimeout != 5*time.Second {
		t.Fatalf("expected fallback busy timeout, got %v", cfg.DBBusyTimeout)
	}
	if cfg.RecentEntriesMax != 7 {
		t.Fatalf("expected fallback recent entries, got %d", cfg.RecentEntriesMax)
	}
}
