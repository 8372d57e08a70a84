// Package web provides the web server: routing, templates, sessions and
// background job scheduling.
package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net"
	"net/http"
	"strconv"

	"github.com/MindDevsDavid/DragonScan/config"
	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/storage"
	"github.com/MindDevsDavid/DragonScan/util/common"
	"github.com/MindDevsDavid/DragonScan/util/random"
	"github.com/MindDevsDavid/DragonScan/web/controller"
	"github.com/MindDevsDavid/DragonScan/web/job"
	"github.com/MindDevsDavid/DragonScan/web/locale"
	"github.com/MindDevsDavid/DragonScan/web/middleware"
	"github.com/MindDevsDavid/DragonScan/web/service"

	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

//go:embed assets/*
var assetsFS embed.FS

//go:embed html/*
var htmlFS embed.FS

//go:embed translation/*
var i18nFS embed.FS

// Server is the web server: HTTP listener, controllers and the cron
// scheduler for the maintenance jobs.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	store storage.Store

	index   *controller.IndexController
	catalog *controller.CatalogController
	admin   *controller.AdminController

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer() *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{ctx: ctx, cancel: cancel}
}

// getHtmlTemplate parses the embedded HTML templates.
func (s *Server) getHtmlTemplate(funcMap template.FuncMap) (*template.Template, error) {
	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(htmlFS, "html", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			newT, err := t.ParseFS(htmlFS, path+"/*.html")
			if err != nil {
				// ignore folders without matches
				return nil
			}
			t = newT
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// statusKey maps a series status to its label message id.
func statusKey(status model.SeriesStatus) string {
	switch status {
	case model.StatusCompleted:
		return "pages.catalog.statusCompleted"
	case model.StatusHiatus:
		return "pages.catalog.statusHiatus"
	default:
		return "pages.catalog.statusOngoing"
	}
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	funcMap := template.FuncMap{
		"i18n":      locale.I18n,
		"statusKey": statusKey,
		"add1":      func(n int) int { return n + 1 },
	}
	engine.SetFuncMap(funcMap)

	tpl, err := s.getHtmlTemplate(funcMap)
	if err != nil {
		return nil, err
	}
	engine.SetHTMLTemplate(tpl)

	if webDomain := config.GetWebDomain(); webDomain != "" {
		engine.Use(middleware.DomainValidatorMiddleware(webDomain))
	}

	basePath := config.GetBasePath()
	engine.Use(func(c *gin.Context) {
		c.Set("base_path", basePath)
		// Render helpers clone this per request to bind the i18n func to
		// the request's localizer.
		c.Set("html_template", tpl)
		c.Next()
	})

	secret := config.GetSessionSecret()
	if secret == "" {
		// Sessions then survive only until the next restart.
		secret = random.Seq(32)
		logger.Warning("no session secret configured, generated a volatile one")
	}
	cookieStore := cookie.NewStore([]byte(secret))
	engine.Use(sessions.Sessions("dragonscan", cookieStore))

	engine.Use(gzip.Gzip(
		gzip.DefaultCompression,
		gzip.WithExcludedPaths([]string{basePath + "files/"}),
	))
	engine.Use(middleware.RequestCounterMiddleware())
	engine.Use(locale.LocalizerMiddleware())

	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		return nil, err
	}
	engine.StaticFS(basePath+"assets", http.FS(sub))

	// Uploaded images are served straight from the upload folder; their
	// URLs in the database all start with basePath + "files".
	engine.Static(basePath+"files", config.GetUploadFolder())

	engine.Use(middleware.RedirectMiddleware(basePath))

	uploadService := service.NewUploadService(s.store)

	g := engine.Group(basePath)
	s.index = controller.NewIndexController(g)
	s.catalog = controller.NewCatalogController(g)
	s.admin = controller.NewAdminController(g, uploadService)

	engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return engine, nil
}

// startTask schedules the maintenance jobs.
func (s *Server) startTask() {
	s.cron.AddJob("@hourly", job.NewCheckpointJob())
	s.cron.AddJob("@daily", job.NewOrphanAssetsJob(s.store))
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	if err := locale.InitLocalizer(i18nFS); err != nil {
		return err
	}

	basePath := config.GetBasePath()
	s.store, err = storage.NewDiskStore(config.GetUploadFolder(), basePath+"files")
	if err != nil {
		return err
	}

	s.cron = cron.New()
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(config.GetListen(), strconv.Itoa(config.GetPort()))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	logger.Info("web server running on", listener.Addr())

	s.listener = listener
	s.httpServer = &http.Server{Handler: engine}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()
	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	var err1, err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}

func (s *Server) GetCtx() context.Context { return s.ctx }

func (s *Server) GetCron() *cron.Cron { return s.cron }
