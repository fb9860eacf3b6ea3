package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	workdir := t.TempDir()
	t.Setenv("NEXPOS_SYSTEM_WORKDIR", workdir)

	cfg := LoadConfig("")
	if cfg.Web.Port != 1816 {
		t.Fatalf("default port = %d", cfg.Web.Port)
	}
	if cfg.Labels.BulkLabelCap != 10 {
		t.Fatalf("default bulk label cap = %d", cfg.Labels.BulkLabelCap)
	}
	if cfg.Labels.PrintLogDays != 90 {
		t.Fatalf("default print log days = %d", cfg.Labels.PrintLogDays)
	}
	if _, err := os.Stat(filepath.Join(workdir, "data")); err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NEXPOS_SYSTEM_WORKDIR", t.TempDir())
	t.Setenv("NEXPOS_WEB_PORT", "9090")
	t.Setenv("NEXPOS_DB_HOST", "db.internal")
	t.Setenv("NEXPOS_LABELS_COMPANY", "Acme Retail")

	cfg := LoadConfig("")
	if cfg.Web.Port != 9090 {
		t.Fatalf("port override = %d", cfg.Web.Port)
	}
	if cfg.Database.Host != "db.internal" {
		t.Fatalf("db host override = %q", cfg.Database.Host)
	}
	if cfg.Labels.CompanyName != "Acme Retail" {
		t.Fatalf("company override = %q", cfg.Labels.CompanyName)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NEXPOS_SYSTEM_WORKDIR", "")

	cfile := filepath.Join(dir, "nexpos.yml")
	content := []byte(`
system:
  appid: nexpos
  workdir: ` + dir + `
web:
  host: 127.0.0.1
  port: 2816
labels:
  company_name: TestShop
  bulk_label_cap: 25
`)
	if err := os.WriteFile(cfile, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig(cfile)
	if cfg.Web.Port != 2816 {
		t.Fatalf("port = %d", cfg.Web.Port)
	}
	if cfg.Labels.BulkLabelCap != 25 {
		t.Fatalf("bulk label cap = %d", cfg.Labels.BulkLabelCap)
	}
	if cfg.Labels.PrintLogDays != 90 {
		t.Fatalf("print log days default not applied, got %d", cfg.Labels.PrintLogDays)
	}
}
