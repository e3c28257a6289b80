package handler

import (
	"net/http"
	"time"

	"quality-audit/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB     *gorm.DB
	FontOK bool
}

func NewHealthHandler(db *gorm.DB, fontOK bool) *HealthHandler {
	return &HealthHandler{DB: db, FontOK: fontOK}
}

// Check 健康检查。workbook 存储下没有数据库，跳过该项。
func (h *HealthHandler) Check(c *gin.Context) {
	checks := gin.H{}
	status := "healthy"
	code := http.StatusOK

	if h.DB != nil {
		if err := database.Ping(c.Request.Context(), h.DB); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			checks["database"] = "healthy"
		}
	} else {
		checks["database"] = "not configured"
	}

	// 字体缺失只影响 PDF 的中文显示
	if h.FontOK {
		checks["pdf_font"] = "available"
	} else {
		checks["pdf_font"] = "fallback"
	}

	c.JSON(code, gin.H{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().Unix(),
	})
}
