package handler

import (
	"errors"
	"html/template"
	"net/http"

	"quality-audit/internal/i18n"
	"quality-audit/internal/intake"
	"quality-audit/internal/middleware"
	"quality-audit/internal/models"
	"quality-audit/internal/service"
	"quality-audit/internal/session"
	"quality-audit/internal/store"
	"quality-audit/internal/transform"

	"github.com/gin-gonic/gin"
)

const pageTemplate = "index.html"

// PageHandler 渲染表单页面，和 JSON 接口共用同一个 service
type PageHandler struct {
	Svc *service.Service
}

func NewPageHandler(svc *service.Service) *PageHandler {
	return &PageHandler{Svc: svc}
}

// TemplateFuncs 页面模板使用的函数
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"t":     i18n.T,
		"label": i18n.Label,
	}
}

type entryView struct {
	SubmissionID string
	Values       []string
	Status       string
	Failed       bool
	Error        string
}

type pageData struct {
	Lang       string
	Locales    []string
	Categories []categoryResp
	Form       intake.Form
	Notice     string
	Error      string
	FontNotice string // 没有可用字体时 PDF 降级生成

	SessionHeader []string
	Entries       []entryView
	HasSaved      bool

	RemoteHeader []string
	RemoteRows   [][]string
	RemoteNotice string
}

// Index GET /，?refresh=1 时读取远端全表（跳过缓存）
func (h *PageHandler) Index(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	data := h.page(c, sess, intake.Form{Category: string(models.DefaultCategory())})
	if c.Query("refresh") == "1" {
		h.loadRemote(c, sess.Locale(), &data)
	}
	c.HTML(http.StatusOK, pageTemplate, data)
}

// Submit POST /submit。校验失败时保留用户输入。
func (h *PageHandler) Submit(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	lang := sess.Locale()

	var form intake.Form
	if err := c.ShouldBind(&form); err != nil {
		data := h.page(c, sess, form)
		data.Error = i18n.T(lang, "msg.invalid")
		c.HTML(http.StatusBadRequest, pageTemplate, data)
		return
	}

	_, err := h.Svc.Submit(c.Request.Context(), sess, form)
	if err != nil {
		h.renderError(c, sess, form, err)
		return
	}

	data := h.page(c, sess, intake.Form{Category: form.Category})
	data.Notice = i18n.T(lang, "msg.saved")
	c.HTML(http.StatusOK, pageTemplate, data)
}

// Retry POST /retry/:id
func (h *PageHandler) Retry(c *gin.Context) {
	sess := middleware.CurrentSession(c)

	if _, err := h.Svc.Retry(c.Request.Context(), sess, c.Param("id")); err != nil {
		h.renderError(c, sess, intake.Form{Category: string(models.DefaultCategory())}, err)
		return
	}
	data := h.page(c, sess, intake.Form{Category: string(models.DefaultCategory())})
	data.Notice = i18n.T(sess.Locale(), "msg.saved")
	c.HTML(http.StatusOK, pageTemplate, data)
}

// SetLocale POST /locale
func (h *PageHandler) SetLocale(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if lang := i18n.Normalize(c.PostForm("locale")); lang != "" {
		sess.SetLocale(lang)
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) renderError(c *gin.Context, sess *session.Session, form intake.Form, err error) {
	lang := sess.Locale()
	data := h.page(c, sess, form)
	status := http.StatusInternalServerError

	var (
		verr *intake.ValidationError
		werr *store.WriteError
	)
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		data.Error = i18n.T(lang, "msg.required")
		if len(verr.Missing) == 0 {
			data.Error = i18n.T(lang, "msg.invalid")
		}
	case errors.As(err, &werr):
		// 记录已留在会话中（失败状态），表单清空
		status = http.StatusBadGateway
		data.Form = intake.Form{Category: form.Category}
		data.Error = i18n.T(lang, "msg.save_failed") + ": " + werr.Err.Error()
	case errors.Is(err, service.ErrEntryNotFound):
		status = http.StatusNotFound
		data.Error = i18n.T(lang, "msg.not_found")
	case errors.Is(err, service.ErrAlreadySaved):
		status = http.StatusConflict
		data.Error = i18n.T(lang, "msg.already_saved")
	default:
		data.Error = err.Error()
	}
	_ = c.Error(err)
	c.HTML(status, pageTemplate, data)
}

func (h *PageHandler) page(c *gin.Context, sess *session.Session, form intake.Form) pageData {
	lang := sess.Locale()
	if form.Category == "" {
		form.Category = string(models.DefaultCategory())
	}

	data := pageData{
		Lang:          lang,
		Locales:       i18n.Locales,
		Form:          form,
		SessionHeader: transform.Header(lang),
	}
	if !h.Svc.PDF.FontOK() {
		data.FontNotice = i18n.T(lang, "msg.font_missing")
	}
	for _, cat := range models.Categories {
		data.Categories = append(data.Categories, categoryResp{Value: string(cat), Label: i18n.CategoryName(lang, cat)})
	}
	for _, e := range sess.Entries() {
		view := entryView{
			SubmissionID: e.Record.SubmissionID,
			Values:       transform.Values(lang, e.Record),
			Status:       i18n.T(lang, "status."+string(e.Status)),
			Failed:       e.Status == session.StatusFailed,
			Error:        e.Error,
		}
		if !view.Failed {
			data.HasSaved = true
		}
		data.Entries = append(data.Entries, view)
	}
	return data
}

func (h *PageHandler) loadRemote(c *gin.Context, lang string, data *pageData) {
	batch, err := h.Svc.Snapshot(c.Request.Context(), true)
	if err != nil {
		data.RemoteNotice = i18n.T(lang, "msg.read_failed")
		return
	}
	if len(batch) == 0 {
		data.RemoteNotice = i18n.T(lang, "msg.empty")
		return
	}
	data.RemoteHeader = transform.Header(lang)
	for _, rec := range batch {
		data.RemoteRows = append(data.RemoteRows, transform.Values(lang, rec))
	}
}
