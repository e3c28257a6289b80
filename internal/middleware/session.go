package middleware

import (
	"net/http"
	"strings"

	"quality-audit/internal/i18n"
	"quality-audit/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	CookieSession  = "qa_session"
	HeaderSession  = "X-Session-Token"
	ContextSession = "session"
)

// SessionMiddleware 找回或新建会话，并把 *session.Session 放进 context。
// 新会话的语言依次取 ?lang、Accept-Language、默认语言。
func SessionMiddleware(mgr *session.Manager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1) Header: X-Session-Token（API 客户端）
		tokenStr = strings.TrimSpace(c.GetHeader(HeaderSession))

		// 2) Cookie qa_session（浏览器）
		if tokenStr == "" {
			if cookie, err := c.Cookie(CookieSession); err == nil {
				tokenStr = cookie
			}
		}

		sess, renewed, ok := mgr.Resume(tokenStr)
		if !ok {
			locale := i18n.Normalize(c.Query("lang"))
			if locale == "" {
				locale = i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"))
			}
			sess = mgr.Create(locale)

			token, err := mgr.Token(sess)
			if err != nil {
				log.WithError(err).Error("sign session token")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    50001,
					"message": "session unavailable",
				})
				return
			}
			renewed = token
		}
		// 新会话或 token 快到期时下发新 token
		if renewed != "" {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieSession, renewed, 0, "/", "", false, true)
			c.Header(HeaderSession, renewed)
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// CurrentSession 取出当前请求的会话，未经过 SessionMiddleware 时返回 nil
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(ContextSession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}
