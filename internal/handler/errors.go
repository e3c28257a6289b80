package handler

import (
	"errors"
	"net/http"

	"quality-audit/internal/export"
	"quality-audit/internal/i18n"
	"quality-audit/internal/intake"
	"quality-audit/internal/service"
	"quality-audit/internal/store"
	"quality-audit/internal/util"

	"github.com/gin-gonic/gin"
)

// writeError 把领域错误映射为 HTTP 状态码和业务码
func writeError(c *gin.Context, lang string, err error) {
	var (
		verr *intake.ValidationError
		werr *store.WriteError
		rerr *export.RenderError
	)
	switch {
	case errors.As(err, &verr):
		msg := i18n.T(lang, "msg.invalid")
		if len(verr.Missing) > 0 {
			msg = i18n.T(lang, "msg.required")
		}
		util.ErrorWithData(c, http.StatusBadRequest, util.CodeInvalidParam, msg, util.Response{
			"missing": verr.Missing,
			"invalid": verr.Invalid,
		})
	case errors.As(err, &werr):
		util.Error(c, http.StatusBadGateway, util.CodeStoreWrite,
			i18n.T(lang, "msg.save_failed")+": "+werr.Err.Error())
	case errors.As(err, &rerr):
		util.Error(c, http.StatusInternalServerError, util.CodeRenderFailed, i18n.T(lang, "msg.render_failed"))
	case errors.Is(err, export.ErrEmptyBatch):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, i18n.T(lang, "msg.empty"))
	case errors.Is(err, service.ErrEntryNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, i18n.T(lang, "msg.not_found"))
	case errors.Is(err, service.ErrAlreadySaved):
		util.Error(c, http.StatusConflict, util.CodeConflict, i18n.T(lang, "msg.already_saved"))
	case errors.Is(err, service.ErrUnknownSource):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, i18n.T(lang, "msg.invalid"))
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, err.Error())
	}
	_ = c.Error(err)
}
