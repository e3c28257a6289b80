package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"quality-audit/internal/config"
	"quality-audit/internal/database"
	"quality-audit/internal/export"
	"quality-audit/internal/logger"
	"quality-audit/internal/service"
	"quality-audit/internal/session"
	"quality-audit/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app 各子命令共用的依赖
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	db       *gorm.DB // workbook 存储时为 nil
	svc      *service.Service
	sessions *session.Manager
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if cfg.Store.Driver == store.DriverWorkbook {
		if err := ensureDir(filepath.Dir(cfg.Store.WorkbookPath)); err != nil {
			return nil, fmt.Errorf("create workbook dir: %w", err)
		}
	}

	a := &app{cfg: cfg, log: log}
	if cfg.Store.Driver == "" || cfg.Store.Driver == store.DriverSQLite {
		db, err := database.Init(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		if err := database.AutoMigrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		a.db = db
	}

	st, err := store.Open(cfg.Store, a.db)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	renderer := export.NewPDFRenderer(cfg.Export.FontPath)
	if !renderer.FontOK() {
		log.WithField("font_path", cfg.Export.FontPath).Warn("pdf font not usable, reports fall back to the built-in font")
	}

	a.svc = service.New(st, renderer, cfg.Export.PreviewLimit, log)
	a.sessions = session.NewManager(cfg.Session.Secret,
		time.Duration(cfg.Session.IdleMinutes)*time.Minute, cfg.Session.DefaultLocale)

	log.WithFields(logrus.Fields{
		"env":          cfg.Env,
		"store_driver": cfg.Store.Driver,
		"cache_ttl":    cfg.Store.CacheTTLSeconds,
	}).Info("application initialized")
	return a, nil
}

func (a *app) close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.log.WithError(err).Warn("close database")
		}
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
