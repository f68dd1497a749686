package config

import (
	"os"
	"path/filepath"
	"testing"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(write(t, `
database:
  host: localhost
  port: 3306
  user: rxtract
  password: secret
  name: rxtract
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Database.Driver != "mysql" {
		t.Fatalf("driver should default to mysql, got %q", cfg.Database.Driver)
	}
	if cfg.Analysis.ModelName != "gemini-flash" {
		t.Fatalf("model should default to gemini-flash, got %q", cfg.Analysis.ModelName)
	}
}

func TestMySQLDSN(t *testing.T) {
	cfg, err := Load(write(t, `
database:
  host: localhost
  port: 3306
  user: rxtract
  password: secret
  name: rxtract
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "rxtract:secret@tcp(localhost:3306)/rxtract?parseTime=true&charset=utf8mb4&loc=UTC"
	if got := cfg.MySQLDSN(); got != want {
		t.Fatalf("dsn mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg, err := Load(write(t, `
database:
  driver: postgres
  host: db.internal
  port: 5432
  user: rxtract
  password: secret
  name: rxtract
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := "host=db.internal port=5432 user=rxtract password=secret dbname=rxtract sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("dsn mismatch:\n got %q\nwant %q", got, want)
	}

	cfg.Database.SSLMode = "require"
	if got := cfg.PostgresDSN(); got != "host=db.internal port=5432 user=rxtract password=secret dbname=rxtract sslmode=require" {
		t.Fatalf("sslmode not honored: %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
