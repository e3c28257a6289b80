package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Export.PreviewLimit != 5 {
		t.Errorf("Export.PreviewLimit = %d, want 5", cfg.Export.PreviewLimit)
	}
	if cfg.Session.DefaultLocale != "zh" {
		t.Errorf("Session.DefaultLocale = %q, want zh", cfg.Session.DefaultLocale)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
store:
  driver: workbook
  workbook_path: /tmp/records.xlsx
export:
  preview_limit: 3
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Store.Driver != "workbook" {
		t.Errorf("Store.Driver = %q, want workbook", cfg.Store.Driver)
	}
	if cfg.Export.PreviewLimit != 3 {
		t.Errorf("Export.PreviewLimit = %d, want 3", cfg.Export.PreviewLimit)
	}
	// 未配置的项保留默认值
	if cfg.Session.IdleMinutes != 240 {
		t.Errorf("Session.IdleMinutes = %d, want 240", cfg.Session.IdleMinutes)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("QA_SERVER_PORT", "7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit file error = nil, want error")
	}
}
