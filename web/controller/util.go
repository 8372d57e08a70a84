package controller

import (
	"html/template"
	"net"
	"net/http"
	"strings"

	"github.com/MindDevsDavid/DragonScan/config"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/web/entity"
	"github.com/MindDevsDavid/DragonScan/web/service"
	"github.com/MindDevsDavid/DragonScan/web/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

var settingService service.SettingService

// getRemoteIp extracts the real IP address from the request headers or remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		m.Success = false
		m.Msg = msg + " (" + err.Error() + ")"
		logger.Warning(msg+": ", err)
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a JSON message response with a custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// html renders an HTML template with the provided data and title key. The
// template set is cloned per request so the i18n func resolves through the
// request's own localizer instead of shared state.
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["request_uri"] = c.Request.RequestURI
	data["base_path"] = c.GetString("base_path")
	data["login_profile"] = session.GetLoginProfile(c)

	if tpl := requestTemplate(c); tpl != nil {
		c.Render(http.StatusOK, render.HTML{
			Template: tpl,
			Name:     name,
			Data:     getContext(data),
		})
		return
	}
	c.HTML(http.StatusOK, name, getContext(data))
}

func requestTemplate(c *gin.Context) *template.Template {
	value, ok := c.Get("html_template")
	if !ok {
		return nil
	}
	base, ok := value.(*template.Template)
	if !ok || base == nil {
		return nil
	}
	tpl, err := base.Clone()
	if err != nil {
		logger.Warning("clone html template err:", err)
		return nil
	}
	return tpl.Funcs(template.FuncMap{
		"i18n": func(key string, params ...string) string {
			return I18nWeb(c, key, params...)
		},
	})
}

// getContext adds version and other shared context data.
func getContext(h gin.H) gin.H {
	siteName := config.GetName()
	if title, err := settingService.GetSiteTitle(); err == nil && title != "" {
		siteName = title
	}

	a := gin.H{
		"cur_ver":   config.GetVersion(),
		"site_name": siteName,
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
