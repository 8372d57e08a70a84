package controller

import (
	"strconv"

	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController serves the admin panel pages and the dashboard data
// endpoints. Everything under it runs behind checkAdmin.
type AdminController struct {
	BaseController

	seriesService service.SeriesService
	statusService service.StatusService

	seriesController  *SeriesController
	chapterController *ChapterController
}

func NewAdminController(g *gin.RouterGroup, uploadService *service.UploadService) *AdminController {
	a := &AdminController{}
	a.initRouter(g, uploadService)
	return a
}

func (a *AdminController) initRouter(g *gin.RouterGroup, uploadService *service.UploadService) {
	g = g.Group("/admin")
	g.Use(a.checkAdmin)

	g.GET("/", a.dashboard)
	g.GET("/series/new", a.seriesNewPage)
	g.GET("/series/:id/edit", a.seriesEditPage)

	g.POST("/status", a.status)
	g.POST("/logs", a.getLogs)

	a.seriesController = NewSeriesController(g, uploadService)
	a.chapterController = NewChapterController(g, uploadService)
}

func (a *AdminController) dashboard(c *gin.Context) {
	allSeries, err := a.seriesService.List("")
	if err != nil {
		jsonError(c, err)
		return
	}

	html(c, "admin.html", I18nWeb(c, "pages.admin.title"), gin.H{
		"series": allSeries,
	})
}

func (a *AdminController) seriesNewPage(c *gin.Context) {
	html(c, "series_form.html", I18nWeb(c, "pages.admin.newSeries"), nil)
}

func (a *AdminController) seriesEditPage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, service.ErrNotFound)
		return
	}

	series, err := a.seriesService.Get(id)
	if err != nil {
		jsonError(c, err)
		return
	}

	chapters, err := series.ChapterList()
	if err != nil {
		jsonError(c, err)
		return
	}

	html(c, "series_form.html", I18nWeb(c, "pages.admin.editSeries"), gin.H{
		"series":   series,
		"chapters": chapters,
	})
}

func (a *AdminController) status(c *gin.Context) {
	jsonObj(c, a.statusService.GetStatus(), nil)
}

func (a *AdminController) getLogs(c *gin.Context) {
	count, err := strconv.Atoi(c.PostForm("count"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.PostForm("level")
	if level == "" {
		level = "info"
	}

	jsonObj(c, logger.GetLogs(count, level), nil)
}
