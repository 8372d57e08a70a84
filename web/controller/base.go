// Package controller provides the HTTP handlers for the public catalog,
// the reader and the admin panel.
package controller

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/web/service"
	"github.com/MindDevsDavid/DragonScan/web/session"

	"github.com/gin-gonic/gin"
)

// BaseController provides the authentication checks shared by all
// controllers.
type BaseController struct {
	authService service.AuthService
}

// checkLogin verifies the visitor is authenticated. Browser requests are
// redirected to the login page with the original URL preserved, so a lector
// sent to log in lands back where they were going.
func (a *BaseController) checkLogin(c *gin.Context) {
	if !session.IsLogin(c) {
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.title"))
		} else {
			loginURL := c.GetString("base_path") + "login?next=" + url.QueryEscape(c.Request.RequestURI)
			c.Redirect(http.StatusTemporaryRedirect, loginURL)
		}
		c.Abort()
		return
	}
	c.Next()
}

// checkAdmin verifies the visitor holds the admin role. The role is
// re-checked against the database on every call, not trusted from the
// cookie.
func (a *BaseController) checkAdmin(c *gin.Context) {
	err := a.authService.Authorize(session.GetLoginProfile(c), service.AccessAdmin)
	if err == nil {
		c.Next()
		return
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		if isAjax(c) {
			pureJsonMsg(c, http.StatusUnauthorized, false, I18nWeb(c, "pages.login.title"))
		} else {
			loginURL := c.GetString("base_path") + "login?next=" + url.QueryEscape(c.Request.RequestURI)
			c.Redirect(http.StatusTemporaryRedirect, loginURL)
		}
	case errors.Is(err, service.ErrForbidden):
		if isAjax(c) {
			pureJsonMsg(c, http.StatusForbidden, false, I18nWeb(c, "msg.forbidden"))
		} else {
			c.AbortWithStatus(http.StatusForbidden)
		}
	default:
		logger.Warning("authorize failed:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
	}
	c.Abort()
}

// jsonError maps a service error onto the response envelope with the right
// status code and localized message.
func jsonError(c *gin.Context, err error) {
	var uploadErr *service.UploadError

	switch {
	case errors.Is(err, service.ErrNotFound):
		pureJsonMsg(c, http.StatusNotFound, false, I18nWeb(c, "msg.notFound"))
	case errors.Is(err, service.ErrForbidden):
		pureJsonMsg(c, http.StatusForbidden, false, I18nWeb(c, "msg.forbidden"))
	case errors.Is(err, service.ErrConflict):
		pureJsonMsg(c, http.StatusConflict, false, I18nWeb(c, "msg.conflict"))
	case errors.Is(err, service.ErrEmptyChapter):
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "msg.emptyChapter"))
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrOutOfRange):
		pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "msg.invalidRequest"))
	case errors.As(err, &uploadErr):
		logger.Warning("upload failed:", uploadErr.Cause)
		pureJsonMsg(c, http.StatusBadGateway, false, I18nWeb(c, "msg.uploadFailed"))
	default:
		logger.Warning("request failed:", err)
		pureJsonMsg(c, http.StatusInternalServerError, false, err.Error())
	}
}

// I18nWeb retrieves a localized message through the function placed in the
// context by the localizer middleware.
func I18nWeb(c *gin.Context, name string, params ...string) string {
	anyfunc, funcExists := c.Get("I18n")
	if !funcExists {
		logger.Warning("I18n function not exists in gin context!")
		return name
	}
	i18nFunc, ok := anyfunc.(func(key string, params ...string) string)
	if !ok {
		return name
	}
	return i18nFunc(name, params...)
}
