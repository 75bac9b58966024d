package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv("FOODRESCUE_HTTP_ADDR", "")
	t.Setenv("FOODRESCUE_DB_PATH", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8000" {
		t.Fatalf("http addr = %q, want %q", cfg.HTTPAddr, ":8000")
	}
	if !cfg.Debug {
		t.Fatal("expected debug on by default")
	}
	if cfg.TimeZone != "UTC" {
		t.Fatalf("time zone = %q, want UTC", cfg.TimeZone)
	}
	if cfg.SessionSecret != DevelopmentSecret {
		t.Fatalf("session secret = %q, want development default", cfg.SessionSecret)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv("FOODRESCUE_HTTP_ADDR", "")

	path := filepath.Join(t.TempDir(), "settings.toml")
	content := "http_addr = \":9000\"\ndb_path = \"custom.db\"\ndebug = false\nsession_secret = \"file-secret\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write settings file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Fatalf("http addr = %q, want %q", cfg.HTTPAddr, ":9000")
	}
	if cfg.DBPath != "custom.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "custom.db")
	}
	if cfg.Debug {
		t.Fatal("expected debug off from file")
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Fatalf("base url = %q, want default", cfg.BaseURL)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("http_addr = \":9000\"\n"), 0o600); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	t.Setenv("FOODRESCUE_HTTP_ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":7000" {
		t.Fatalf("http addr = %q, want env override :7000", cfg.HTTPAddr)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("http_addr = [broken"), 0o600); err != nil {
		t.Fatalf("write settings file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed settings file")
	}
}

func TestLoadRejectsUnknownTimeZone(t *testing.T) {
	t.Setenv(EnvFile, "")
	t.Setenv("FOODRESCUE_TIME_ZONE", "Mars/Olympus_Mons")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown time zone")
	}
}

func TestValidateRequiresBaseURL(t *testing.T) {
	cfg := Defaults()
	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing base url")
	}
}
