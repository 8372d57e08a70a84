package controller

import (
	"net/http"
	"strings"
	"text/template"

	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/web/service"
	"github.com/MindDevsDavid/DragonScan/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username      string `json:"username" form:"username"`
	Password      string `json:"password" form:"password"`
	TwoFactorCode string `json:"twoFactorCode" form:"twoFactorCode"`
	Next          string `json:"next" form:"next"`
}

// RegisterForm represents the registration request structure.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// IndexController handles login, registration and logout.
type IndexController struct {
	BaseController

	settingService service.SettingService
	profileService service.ProfileService
}

func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	g.GET("/login", a.loginPage)
	g.GET("/register", a.registerPage)
	g.GET("/logout", a.logout)

	g.POST("/login", a.login)
	g.POST("/register", a.register)
}

func (a *IndexController) loginPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "login.html", I18nWeb(c, "pages.login.title"), gin.H{
		"next": c.Query("next"),
	})
}

func (a *IndexController) registerPage(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
		return
	}
	html(c, "register.html", I18nWeb(c, "pages.register.title"), nil)
}

// login authenticates the visitor and starts a session. On success the
// response carries the URL the visitor originally asked for, if any.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "msg.invalidRequest"))
		return
	}
	if form.Username == "" || form.Password == "" {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidCredentials"))
		return
	}

	profile := a.profileService.CheckProfile(form.Username, form.Password, form.TwoFactorCode)
	safeUser := template.HTMLEscapeString(form.Username)

	if profile == nil {
		logger.Warningf("failed login for %q, IP: %s", safeUser, getRemoteIp(c))
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.login.invalidCredentials"))
		return
	}

	sessionMaxAge, err := a.settingService.GetSessionMaxAge()
	if err != nil {
		logger.Warning("unable to get session max age:", err)
	}

	session.SetMaxAge(c, sessionMaxAge*60)
	session.SetLoginProfile(c, profile)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("unable to save session:", err)
		return
	}

	logger.Infof("%s logged in, IP: %s", safeUser, getRemoteIp(c))

	next := form.Next
	if next == "" || !strings.HasPrefix(next, "/") {
		next = c.GetString("base_path")
	}
	jsonObj(c, next, nil)
}

// register creates a lector account. Everyone who signs up is a lector;
// there is no web path to an admin role.
func (a *IndexController) register(c *gin.Context) {
	var form RegisterForm

	if err := c.ShouldBind(&form); err != nil {
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "msg.invalidRequest"))
		return
	}

	_, err := a.profileService.Register(form.Username, form.Email, form.Password)
	if err != nil {
		if err == service.ErrValidation {
			pureJsonMsg(c, http.StatusBadRequest, false, I18nWeb(c, "msg.invalidRequest"))
			return
		}
		// A unique-index violation on username is the common failure here.
		pureJsonMsg(c, http.StatusOK, false, I18nWeb(c, "pages.register.usernameTaken"))
		return
	}

	jsonMsg(c, I18nWeb(c, "pages.register.success"), nil)
}

func (a *IndexController) logout(c *gin.Context) {
	profile := session.GetLoginProfile(c)
	if profile != nil {
		logger.Infof("%s logged out", profile.Username)
	}
	session.ClearSession(c)
	if err := sessions.Default(c).Save(); err != nil {
		logger.Warning("unable to save session after clearing:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}
