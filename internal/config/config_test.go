package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  sqlitePath: ":memory:"
mandate:
  jurisdiction: Pune
auth:
  secret: s3cret
`)

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if conf.Server.ListenAddr != ":8000" {
		t.Errorf("expected default listen addr, got %q", conf.Server.ListenAddr)
	}
	if conf.Mandate.Validity != 90*24*time.Hour {
		t.Errorf("expected 90 day validity, got %v", conf.Mandate.Validity)
	}

	d := conf.Domain()
	if d.Jurisdiction != "Pune" || d.SignatureBaseURL != "/signatures/" {
		t.Errorf("unexpected domain config %+v", d)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  sqlitePath: ":memory:"
auth:
  secret: from-file
`)
	t.Setenv("MANDATED_AUTH_SECRET", "from-env")
	t.Setenv("MANDATED_MANDATE_ACCEPTANCE_WINDOW", "48h")

	conf, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if conf.Auth.Secret != "from-env" {
		t.Errorf("expected env secret, got %q", conf.Auth.Secret)
	}
	if conf.Mandate.AcceptanceWindow != 48*time.Hour {
		t.Errorf("expected 48h window, got %v", conf.Mandate.AcceptanceWindow)
	}
}

func TestLoadRequiresSecretAndDatabase(t *testing.T) {
	if _, err := Load(writeConfig(t, "server:\n  sqlitePath: x.db\n")); err == nil {
		t.Error("expected missing secret to fail")
	}
	if _, err := Load(writeConfig(t, "auth:\n  secret: s\n")); err == nil {
		t.Error("expected missing database to fail")
	}
}
