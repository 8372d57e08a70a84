package controller

import (
	"net/http"
	"strconv"

	"github.com/MindDevsDavid/DragonScan/web/service"

	"github.com/gin-gonic/gin"
)

// CatalogController serves the public pages: the series catalog, series
// detail and the chapter reader. Browsing is open; reading requires a
// logged-in lector.
type CatalogController struct {
	BaseController

	seriesService  service.SeriesService
	settingService service.SettingService
}

func NewCatalogController(g *gin.RouterGroup) *CatalogController {
	a := &CatalogController{}
	a.initRouter(g)
	return a
}

func (a *CatalogController) initRouter(g *gin.RouterGroup) {
	g.GET("/", a.home)
	g.GET("/series/:id", a.seriesDetail)
	g.GET("/health", a.health)

	reader := g.Group("/leer")
	reader.Use(a.checkLogin)
	reader.GET("/:id/:capitulo", a.reader)
}

func (a *CatalogController) home(c *gin.Context) {
	allSeries, err := a.seriesService.List(c.Query("orden"))
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	html(c, "catalog.html", I18nWeb(c, "pages.catalog.title"), gin.H{
		"series": allSeries,
	})
}

func (a *CatalogController) seriesDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	series, err := a.seriesService.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	chapters, err := series.ChapterList()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	html(c, "series.html", series.Title, gin.H{
		"series":   series,
		"chapters": chapters,
	})
}

// reader shows the pages of one chapter. Chapters are addressed by their
// 1-based position in the current list, the same number shown in the
// chapter list, so the URL space is always contiguous.
func (a *CatalogController) reader(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	number, err := strconv.Atoi(c.Param("capitulo"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	series, err := a.seriesService.Get(id)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	chapters, err := series.ChapterList()
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if number < 1 || number > len(chapters) {
		html(c, "reader_missing.html", I18nWeb(c, "pages.reader.chapterNotFound"), gin.H{
			"series": series,
		})
		return
	}

	chapter := chapters[number-1]
	data := gin.H{
		"series":  series,
		"chapter": chapter,
	}
	if number > 1 {
		data["prev"] = number - 1
	}
	if number < len(chapters) {
		data["next"] = number + 1
	}
	html(c, "reader.html", chapter.Title, data)
}

func (a *CatalogController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
