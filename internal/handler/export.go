package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"quality-audit/internal/export"
	"quality-audit/internal/i18n"
	"quality-audit/internal/middleware"
	"quality-audit/internal/service"
	"quality-audit/internal/store"
	"quality-audit/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	HeaderDegraded = "X-Report-Degraded"
	HeaderNotice   = "X-Report-Notice" // URL 编码的提示语
)

type ExportHandler struct {
	Svc *service.Service
}

func NewExportHandler(svc *service.Service) *ExportHandler {
	return &ExportHandler{Svc: svc}
}

// ExportCSV 导出 CSV
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	h.export(c, export.FormatCSV)
}

// ExportXLSX 导出 XLSX
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	h.export(c, export.FormatXLSX)
}

// ExportPDF 生成 PDF 预览报告
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	h.export(c, export.FormatPDF)
}

// export 批次由 ?source=session|remote 和可选的 ?submission_id= 显式指定
func (h *ExportHandler) export(c *gin.Context, format string) {
	sess := middleware.CurrentSession(c)
	lang := sess.Locale()
	if l := i18n.Normalize(c.Query("lang")); l != "" {
		lang = l
	}

	source := c.DefaultQuery("source", service.SourceSession)
	batch, err := h.Svc.Batch(c.Request.Context(), sess, source, c.Query("submission_id"))
	if err != nil {
		var rerr *store.ReadError
		if errors.As(err, &rerr) {
			// 读取失败按“暂无数据”处理
			util.Success(c, util.Response{
				"items":  []interface{}{},
				"total":  0,
				"notice": i18n.T(lang, "msg.read_failed"),
			})
			return
		}
		writeError(c, lang, err)
		return
	}

	var a service.Artifact
	if format == export.FormatPDF {
		a, err = h.Svc.ExportReport(batch, lang)
	} else {
		a, err = h.Svc.ExportTable(batch, format, lang)
	}
	if err != nil {
		writeError(c, lang, err)
		return
	}

	if a.Degraded {
		c.Header(HeaderDegraded, "1")
		c.Header(HeaderNotice, url.PathEscape(service.Notice(a, lang)))
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", a.Filename))
	c.Data(http.StatusOK, a.ContentType, a.Data)
}
