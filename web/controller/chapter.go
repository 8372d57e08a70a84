package controller

import (
	"net/http"
	"strconv"

	"github.com/MindDevsDavid/DragonScan/web/service"
	"github.com/MindDevsDavid/DragonScan/web/session"

	"github.com/gin-gonic/gin"
)

// ChapterController handles the admin chapter operations: publishing a new
// chapter from a batch of page images and deleting a chapter by position.
type ChapterController struct {
	BaseController

	seriesService  service.SeriesService
	chapterService service.ChapterService
	uploadService  *service.UploadService
}

func NewChapterController(g *gin.RouterGroup, uploadService *service.UploadService) *ChapterController {
	a := &ChapterController{
		uploadService: uploadService,
	}
	a.initRouter(g)
	return a
}

func (a *ChapterController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/series/:id/chapters")

	g.POST("/add", a.add)
	g.POST("/del/:num", a.del)
}

// add publishes a new chapter. The page images arrive as one multipart
// batch in reading order; the whole batch is validated before anything is
// stored, so a bad file rejects the upload instead of a partial chapter.
func (a *ChapterController) add(c *gin.Context) {
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

	form, err := c.MultipartForm()
	if err != nil {
		jsonError(c, service.ErrValidation)
		return
	}

	files := form.File["paginas"]
	if len(files) == 0 {
		jsonError(c, service.ErrEmptyChapter)
		return
	}

	pending := make([]*service.PendingPage, 0, len(files))
	rejections := make([]*service.RejectedFile, 0)
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			jsonMsg(c, I18nWeb(c, "msg.uploadFailed"), err)
			return
		}

		page, rejected, err := a.uploadService.Stage(
			file.Filename, file.Header.Get("Content-Type"), file.Size, src)
		src.Close()
		if err != nil {
			jsonMsg(c, I18nWeb(c, "msg.uploadFailed"), err)
			return
		}
		if rejected != nil {
			rejections = append(rejections, rejected)
			continue
		}
		pending = append(pending, page)
	}

	if len(rejections) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success":  false,
			"msg":      I18nWeb(c, "msg.invalidRequest"),
			"rejected": rejections,
		})
		return
	}

	title := c.PostForm("titulo")
	updated, err := a.uploadService.CommitChapter(c.Request.Context(),
		session.GetLoginProfile(c), series, title, pending)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "msg.chapterPublished"), updated, nil)
}

// del removes the chapter at the given 1-based position. The remaining
// chapters are renumbered and the whole list is committed in one write, so
// readers never see a gap in the numbering.
func (a *ChapterController) del(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		jsonError(c, service.ErrNotFound)
		return
	}
	num, err := strconv.Atoi(c.Param("num"))
	if err != nil {
		jsonError(c, service.ErrOutOfRange)
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

	updated, err := a.chapterService.DeleteChapterAt(chapters, num-1)
	if err != nil {
		jsonError(c, err)
		return
	}

	result, err := a.seriesService.ReplaceChapters(session.GetLoginProfile(c),
		series.Id, updated, series.Version)
	if err != nil {
		jsonError(c, err)
		return
	}
	jsonMsgObj(c, I18nWeb(c, "msg.chapterDeleted"), result, nil)
}
