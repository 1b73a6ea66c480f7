package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Connection.Host != DefaultHost {
		t.Errorf("host = %q, want %q", cfg.Connection.Host, DefaultHost)
	}
	if cfg.Connection.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Connection.Port, DefaultPort)
	}
	if cfg.Connection.Tenant != DefaultTenant || cfg.Connection.Database != DefaultDatabase {
		t.Errorf("tenant/database = %q/%q", cfg.Connection.Tenant, cfg.Connection.Database)
	}
	if cfg.Retry.MaxAttempts != DefaultAttempts {
		t.Errorf("max attempts = %d, want %d", cfg.Retry.MaxAttempts, DefaultAttempts)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := Config{Connection: ConnectionConfig{Port: 70000}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := Config{
		Connection: ConnectionConfig{Port: 8000},
		Logging:    LoggingConfig{Level: "verbose"},
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_CHROMA_HOST", "chroma.internal")

	path := filepath.Join(t.TempDir(), "client.yaml")
	body := `
connection:
  host: ${TEST_CHROMA_HOST}
  port: ${TEST_CHROMA_PORT:-9000}
  auth_token: secret
retry:
  max_attempts: 5
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Connection.Host != "chroma.internal" {
		t.Errorf("host = %q, want chroma.internal", cfg.Connection.Host)
	}
	if cfg.Connection.Port != 9000 {
		t.Errorf("port = %d, want default-substituted 9000", cfg.Connection.Port)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", cfg.Retry.MaxAttempts)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CHROMA_HOST", "example.com")
	t.Setenv("CHROMA_PORT", "8443")
	t.Setenv("CHROMA_SSL", "true")
	t.Setenv("CHROMA_API_KEY", "tok")
	t.Setenv("CHROMA_MAX_RETRIES", "4")

	cfg := FromEnv()
	if cfg.Connection.Host != "example.com" || cfg.Connection.Port != 8443 {
		t.Errorf("host/port = %q/%d", cfg.Connection.Host, cfg.Connection.Port)
	}
	if !cfg.Connection.SSL {
		t.Error("ssl not picked up")
	}
	if cfg.Connection.AuthToken != "tok" {
		t.Errorf("auth token = %q", cfg.Connection.AuthToken)
	}
	if cfg.Retry.MaxAttempts != 4 {
		t.Errorf("max attempts = %d, want 4", cfg.Retry.MaxAttempts)
	}
	// Unset values fall back to defaults.
	if cfg.Connection.Tenant != DefaultTenant {
		t.Errorf("tenant = %q, want default", cfg.Connection.Tenant)
	}
}
