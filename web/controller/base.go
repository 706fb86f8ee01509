// Package controller provides the HTTP request handlers for the forum web
// interface.
package controller

import (
	"net/http"

	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides common functionality for all controllers.
type BaseController struct{}

// checkLogin guards mutating routes: anonymous requests are rejected with
// 403 before the handler runs.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusForbidden, false, I18nWeb(c, "toasts.loginRequired"))
		} else {
			c.String(http.StatusForbidden, I18nWeb(c, "toasts.loginRequired"))
		}
		c.Abort()
	} else {
		c.Next()
	}
}

// I18nWeb retrieves an internationalized message based on the current locale.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, _ := anyfunc.(func(key string, keyParams ...string) string)
	return i18nFunc(name, params...)
}
