package controller

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/MindDevsDavid/DragonScan/database/model"
	"github.com/MindDevsDavid/DragonScan/web/service"
	"github.com/MindDevsDavid/DragonScan/web/session"

	"github.com/gin-gonic/gin"
)

// SeriesForm carries the series create/update fields. The cover arrives as
// a separate multipart file when the admin picked a new one.
type SeriesForm struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Status      string `json:"status" form:"status"`
}

// SeriesController handles the admin series CRUD.
type SeriesController struct {
	BaseController

	seriesService service.SeriesService
	uploadService *service.UploadService
}

func NewSeriesController(g *gin.RouterGroup, uploadService *service.UploadService) *SeriesController {
	a := &SeriesController{
		uploadService: uploadService,
	}
	a.initRouter(g)
	return a
}

func (a *SeriesController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/series")

	g.GET("/list", a.list)
	g.POST("/add", a.add)
	g.POST("/update/:id", a.update)
	g.POST("/del/:id", a.del)
}

func (a *SeriesController) list(c *gin.Context) {
	allSeries, err := a.seriesService.List(c.Query("orden"))
	jsonObj(c, allSeries, err)
}

// coverFromForm stores an uploaded cover, when present, and returns its
// public URL. Absence is not an error.
func (a *SeriesController) coverFromForm(c *gin.Context) (string, bool) {
	file, err := c.FormFile("cover")
	if err == http.ErrMissingFile || file == nil {
		return "", true
	}
	if err != nil {
		jsonError(c, service.ErrValidation)
		return "", false
	}

	url, rejected, err := a.storeCover(c, file)
	if err != nil {
		jsonMsg(c, I18nWeb(c, "msg.uploadFailed"), err)
		return "", false
	}
	if rejected != nil {
		pureJsonMsg(c, http.StatusBadRequest, false, rejected.Reason)
		return "", false
	}
	return url, true
}

func (a *SeriesController) storeCover(c *gin.Context, file *multipart.FileHeader) (string, *service.RejectedFile, error) {
	src, err := file.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	return a.uploadService.UploadCover(c.Request.Context(), session.GetLoginProfile(c),
		file.Filename, file.Header.Get("Content-Type"), file.Size, src)
}

func (a *SeriesController) add(c *gin.Context) {
	var form SeriesForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	coverURL, ok := a.coverFromForm(c)
	if !ok {
		return
	}

	series, err := a.seriesService.Create(session.GetLoginProfile(c), form.Title,
		form.Description, model.SeriesStatus(form.Status), coverURL)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "msg.seriesCreated"), series, nil)
}

func (a *SeriesController) update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, service.ErrNotFound)
		return
	}

	var form SeriesForm
	if err := c.ShouldBind(&form); err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	update := service.SeriesUpdate{}
	if form.Title != "" {
		update.Title = &form.Title
	}
	if _, present := c.GetPostForm("description"); present {
		update.Description = &form.Description
	}
	if form.Status != "" {
		status := model.SeriesStatus(form.Status)
		update.Status = &status
	}

	coverURL, ok := a.coverFromForm(c)
	if !ok {
		return
	}
	if coverURL != "" {
		update.CoverURL = &coverURL
	}

	series, err := a.seriesService.Update(session.GetLoginProfile(c), id, update)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "msg.seriesUpdated"), series, nil)
}

func (a *SeriesController) del(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, service.ErrNotFound)
		return
	}

	if err := a.seriesService.Delete(session.GetLoginProfile(c), id); err != nil {
		jsonError(c, err)
		return
	}
	jsonMsg(c, I18nWeb(c, "msg.seriesDeleted"), nil)
}
