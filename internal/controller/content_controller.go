package controller

import (
	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ContentController 内容层级（章节/课时）只读接口
type ContentController struct {
	QuestService *service.QuestService
}

func NewContentController(questService *service.QuestService) *ContentController {
	return &ContentController{QuestService: questService}
}

// ListChapters godoc
// @Summary 章节列表
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Chapter} "Success"
// @Router /api/chapters [get]
func (c *ContentController) ListChapters(ctx *gin.Context) {
	chapters, err := c.QuestService.ListChapters()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, chapters)
}

// ListLessons godoc
// @Summary 章节下的课时列表
// @Tags 内容
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "章节ID"
// @Success 200 {object} util.Response{data=[]model.Lesson} "Success"
// @Router /api/chapters/{id}/lessons [get]
func (c *ContentController) ListLessons(ctx *gin.Context) {
	chapterID := util.MustParseUint(ctx.Param("id"))
	lessons, err := c.QuestService.ListLessons(chapterID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}
