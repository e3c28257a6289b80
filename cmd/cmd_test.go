package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quality-audit/internal/config"
	"quality-audit/internal/database"
	"quality-audit/internal/models"
	"quality-audit/internal/store"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	content := fmt.Sprintf(`
database:
  path: %s
store:
  driver: sqlite
  cache_ttl_seconds: 0
export:
  font_path: ""
log:
  level: error
  output: stdout
`, filepath.Join(dir, "data", "quality.db"))
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := GetRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, sub := range []string{"server", "migrate", "export"} {
		if !strings.Contains(out, sub) {
			t.Errorf("help output missing %q", sub)
		}
	}
}

func TestMigrateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	out, err := run(t, "migrate", "--config", cfgPath)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if !strings.Contains(out, "completed") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "data", "quality.db")); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	if _, err := run(t, "migrate", "--config", cfgPath); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	// 空表不能导出
	if _, err := run(t, "export", "--config", cfgPath, "--format", "xlsx", "--out", dir); err == nil {
		t.Fatal("export of empty store should fail")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	err = store.NewSQLStore(db).Append(context.Background(), models.Row{
		models.ColSubmissionID: "s-1",
		models.ColCreatedAt:    "2025-03-04 10:11:12",
		models.ColProjectID:    "P1",
		models.ColCategory:     "Visual",
		models.ColDescription:  "scratch",
	})
	_ = database.Close(db)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	out := filepath.Join(dir, "report.pdf")
	if _, err := run(t, "export", "--config", cfgPath, "--format", "pdf", "--out", out); err != nil {
		t.Fatalf("export pdf: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("export is not a pdf")
	}

	if _, err := run(t, "export", "--config", cfgPath, "--format", "doc"); err == nil {
		t.Error("unknown format should fail")
	}
}
