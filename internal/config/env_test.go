package config

import (
	"os"
	"testing"
)

func TestInitEnvFile_SeedsOnFirstRun(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAYBOOK_DB_PATH", "")

	Load()

	if _, err := os.Stat(envFileName); err != nil {
		t.Fatalf(".env not created: %v", err)
	}
}

func TestLoadEnvFile_AppliesValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAYBOOK_DB_PATH", "")
	if err := os.WriteFile(envFileName, []byte("DAYBOOK_DB_PATH=\"from-file.db\"\n# comment\nbroken line\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg := Load()
	if cfg.DBPath != "from-file.db" {
		t.Fatalf("expected value from .env, got %q", cfg.DBPath)
	}
}

func TestLoadEnvFile_EnvironmentWins(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DAYBOOK_DB_PATH", "from-env.db")
	if err := os.WriteFile(envFileName, []byte("DAYBOOK_DB_PATH=from-file.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg := Load()
	if cfg.DBPath != "from-env.db" {
		t.Fatalf("expected environment to win, got %q", cfg.DBPath)
	}
}
