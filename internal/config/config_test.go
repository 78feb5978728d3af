package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"

activity:
  entry_window_size: 300
  reconcile_sample_size: 100
  heatmap_window_days: 140

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	if cfg.Activity.EntryWindowSize != 300 {
		t.Errorf("activity.entry_window_size = %d, want 300", cfg.Activity.EntryWindowSize)
	}
	if cfg.Activity.ReconcileSampleSize != 100 {
		t.Errorf("activity.reconcile_sample_size = %d, want 100", cfg.Activity.ReconcileSampleSize)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoad_EnvOnlyWithDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	validEnv(t)

	// Point cwd-relative config.yaml lookup at an empty dir.
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port default = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Activity.EntryWindowSize != 500 {
		t.Errorf("activity.entry_window_size default = %d, want 500", cfg.Activity.EntryWindowSize)
	}
	if cfg.Activity.HeatmapWindowDays != 140 {
		t.Errorf("activity.heatmap_window_days default = %d, want 140", cfg.Activity.HeatmapWindowDays)
	}
	if cfg.Auth.JWTIssuer != "victorylog" {
		t.Errorf("auth.jwt_issuer default = %q, want victorylog", cfg.Auth.JWTIssuer)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := writeYAML(t, t.TempDir(), validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7777")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7777 {
		t.Errorf("server.port = %d, want env override 7777", cfg.Server.Port)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail for an explicit missing CONFIG_PATH")
	}
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	validEnv(t)
	t.Setenv("AUTH_JWT_SECRET", "short")
	t.Chdir(t.TempDir())

	_, err := Load()
	if err == nil {
		t.Fatal("Load should fail for a short jwt secret")
	}
	if !strings.Contains(err.Error(), "jwt_secret") {
		t.Errorf("error should mention jwt_secret, got: %v", err)
	}
}

func TestValidate_ReconcileSampleExceedsWindow(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	validEnv(t)
	t.Setenv("ACTIVITY_ENTRY_WINDOW_SIZE", "100")
	t.Setenv("ACTIVITY_RECONCILE_SAMPLE_SIZE", "200")
	t.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("Load should fail when reconcile_sample_size > entry_window_size")
	}
}
