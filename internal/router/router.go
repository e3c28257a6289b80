package router

import (
	"fmt"

	"quality-audit/internal/config"
	"quality-audit/internal/handler"
	"quality-audit/internal/metrics"
	"quality-audit/internal/middleware"
	"quality-audit/internal/service"
	"quality-audit/internal/session"
	"quality-audit/web"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Deps 路由需要的全部依赖，由 cmd 组装
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB // workbook 存储时为 nil
	Service  *service.Service
	Sessions *session.Manager
	Log      *logrus.Logger
}

// SetupRouter configures Gin engine, templates and routes.
func SetupRouter(d Deps) (*gin.Engine, error) {
	if d.Config.Server.Mode != "" {
		gin.SetMode(d.Config.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(d.Log))

	// templates 编译进二进制
	tmpl, err := web.Templates(handler.TemplateFuncs())
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	healthHandler := handler.NewHealthHandler(d.DB, d.Service.PDF.FontOK())
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// 以下路由都需要会话
	sess := r.Group("")
	sess.Use(middleware.SessionMiddleware(d.Sessions, d.Log))

	pageHandler := handler.NewPageHandler(d.Service)
	sess.GET("/", pageHandler.Index)
	sess.POST("/submit", pageHandler.Submit)
	sess.POST("/retry/:id", pageHandler.Retry)
	sess.POST("/locale", pageHandler.SetLocale)

	// ====== API ======
	api := sess.Group("/api")

	recordHandler := handler.NewRecordHandler(d.Service)
	api.POST("/records", recordHandler.CreateRecord)
	api.GET("/records", recordHandler.ListRecords)
	api.POST("/records/:id/retry", recordHandler.RetryRecord)
	api.GET("/snapshot", recordHandler.Snapshot)
	api.GET("/schema", recordHandler.Schema)
	api.POST("/session/locale", recordHandler.SetLocale)

	exportHandler := handler.NewExportHandler(d.Service)
	api.GET("/export/csv", exportHandler.ExportCSV)
	api.GET("/export/xlsx", exportHandler.ExportXLSX)
	api.GET("/export/pdf", exportHandler.ExportPDF)

	return r, nil
}
