package handler

import (
	"errors"
	"net/http"

	"quality-audit/internal/i18n"
	"quality-audit/internal/intake"
	"quality-audit/internal/middleware"
	"quality-audit/internal/models"
	"quality-audit/internal/service"
	"quality-audit/internal/store"
	"quality-audit/internal/transform"
	"quality-audit/internal/util"

	"github.com/gin-gonic/gin"
)

// RecordHandler 负责记录相关接口
type RecordHandler struct {
	Svc *service.Service
}

func NewRecordHandler(svc *service.Service) *RecordHandler {
	return &RecordHandler{Svc: svc}
}

// ---------- 请求/响应结构 ----------

type setLocaleReq struct {
	Locale string `json:"locale" binding:"required"`
}

type fieldResp struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

type categoryResp struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ---------- 录入 ----------

// CreateRecord 提交一条记录；写入失败时记录仍留在会话中，可调用 retry
func (h *RecordHandler) CreateRecord(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	lang := sess.Locale()

	var form intake.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, i18n.T(lang, "msg.invalid"))
		return
	}

	rec, err := h.Svc.Submit(c.Request.Context(), sess, form)
	if err != nil {
		var werr *store.WriteError
		if errors.As(err, &werr) {
			util.ErrorWithData(c, http.StatusBadGateway, util.CodeStoreWrite,
				i18n.T(lang, "msg.save_failed")+": "+werr.Err.Error(),
				util.Response{"record": rec, "status": "failed"})
			_ = c.Error(err)
			return
		}
		writeError(c, lang, err)
		return
	}

	util.Success(c, util.Response{
		"record":  rec,
		"row":     transform.ToRow(rec),
		"message": i18n.T(lang, "msg.saved"),
	})
}

// ListRecords 本次会话录入的记录（含失败的）
func (h *RecordHandler) ListRecords(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	entries := sess.Entries()
	util.Success(c, util.Response{
		"items": entries,
		"total": len(entries),
	})
}

// RetryRecord 手动重试写入失败的记录
func (h *RecordHandler) RetryRecord(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	lang := sess.Locale()

	rec, err := h.Svc.Retry(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		writeError(c, lang, err)
		return
	}
	util.Success(c, util.Response{
		"record":  rec,
		"message": i18n.T(lang, "msg.saved"),
	})
}

// Snapshot 远端全表；?refresh=1 跳过缓存。读取失败时返回空表和提示，不算错误。
func (h *RecordHandler) Snapshot(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	lang := sess.Locale()
	refresh := c.Query("refresh") == "1" || c.Query("refresh") == "true"

	batch, err := h.Svc.Snapshot(c.Request.Context(), refresh)
	if err != nil {
		var rerr *store.ReadError
		if !errors.As(err, &rerr) {
			writeError(c, lang, err)
			return
		}
		util.Success(c, util.Response{
			"columns": models.Columns,
			"header":  transform.Header(lang),
			"items":   []models.Row{},
			"total":   0,
			"notice":  i18n.T(lang, "msg.read_failed"),
		})
		return
	}

	rows := make([]models.Row, 0, len(batch))
	for _, rec := range batch {
		rows = append(rows, transform.ToRow(rec))
	}
	util.Success(c, util.Response{
		"columns": models.Columns,
		"header":  transform.Header(lang),
		"items":   rows,
		"total":   len(rows),
	})
}

// Schema 当前语言下的字段和分类
func (h *RecordHandler) Schema(c *gin.Context) {
	lang := middleware.CurrentSession(c).Locale()
	if l := i18n.Normalize(c.Query("lang")); l != "" {
		lang = l
	}

	fields := make([]fieldResp, 0, len(models.Columns))
	for _, col := range models.Columns {
		fields = append(fields, fieldResp{
			Key:      col,
			Label:    i18n.Label(lang, col),
			Required: col == models.ColProjectID || col == models.ColDescription,
		})
	}
	cats := make([]categoryResp, 0, len(models.Categories))
	for _, cat := range models.Categories {
		cats = append(cats, categoryResp{Value: string(cat), Label: i18n.CategoryName(lang, cat)})
	}

	resp := util.Response{
		"locale":           lang,
		"locales":          i18n.Locales,
		"fields":           fields,
		"categories":       cats,
		"default_category": models.DefaultCategory(),
		"pdf_font":         h.Svc.PDF.FontOK(),
	}
	if !h.Svc.PDF.FontOK() {
		resp["pdf_notice"] = i18n.T(lang, "msg.font_missing")
	}
	util.Success(c, resp)
}

// SetLocale 切换会话语言。记录按稳定键存储，切换不影响已录入的数据。
func (h *RecordHandler) SetLocale(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	var req setLocaleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, i18n.T(sess.Locale(), "msg.invalid"))
		return
	}
	lang := i18n.Normalize(req.Locale)
	if lang == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, i18n.T(sess.Locale(), "msg.invalid"))
		return
	}

	sess.SetLocale(lang)
	util.Success(c, util.Response{
		"locale":  lang,
		"message": i18n.T(lang, "msg.locale_changed"),
	})
}
