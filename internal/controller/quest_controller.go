package controller

import (
	"errors"

	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestController struct {
	QuestService *service.QuestService
}

func NewQuestController(questService *service.QuestService) *QuestController {
	return &QuestController{QuestService: questService}
}

func questError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuestNotFound), errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrQuestNotPublished):
		util.Error(ctx, 403, "任务未发布")
	case errors.Is(err, util.ErrAttemptLimitReached):
		util.Error(ctx, 409, "已达最大尝试次数")
	case errors.Is(err, util.ErrAttemptSubmitted):
		util.Error(ctx, 409, "该次尝试已提交")
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

// CreateQuest godoc
// @Summary 创建任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuestRequest true "任务信息"
// @Success 201 {object} util.Response{data=model.Quest} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quests [post]
func (c *QuestController) CreateQuest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req service.QuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.CreateQuest(claims.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, quest)
}

// UpdateQuest godoc
// @Summary 更新任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body service.QuestRequest true "任务信息"
// @Success 200 {object} util.Response{data=model.Quest} "Success"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/quests/{id} [put]
func (c *QuestController) UpdateQuest(ctx *gin.Context) {
	questID := util.MustParseUint(ctx.Param("id"))
	var req service.QuestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quest, err := c.QuestService.UpdateQuest(questID, req)
	if err != nil {
		questError(ctx, err)
		return
	}
	util.Success(ctx, quest)
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// PublishQuest godoc
// @Summary 发布或下架任务
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body PublishRequest true "发布状态"
// @Success 200 {object} util.Response "Success"
// @Router /api/quests/{id}/publish [put]
func (c *QuestController) PublishQuest(ctx *gin.Context) {
	questID := util.MustParseUint(ctx.Param("id"))
	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuestService.PublishQuest(questID, *req.Published); err != nil {
		questError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// DeleteQuest godoc
// @Summary 删除任务
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/quests/{id} [delete]
func (c *QuestController) DeleteQuest(ctx *gin.Context) {
	questID := util.MustParseUint(ctx.Param("id"))
	if err := c.QuestService.DeleteQuest(questID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListByLesson godoc
// @Summary 课时下的任务列表
// @Description 学生只能看到已发布的任务
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   lessonId path int true "课时ID"
// @Success 200 {object} util.Response{data=[]model.Quest} "Success"
// @Router /api/lessons/{lessonId}/quests [get]
func (c *QuestController) ListByLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	lessonID := util.MustParseUint(ctx.Param("lessonId"))

	publishedOnly := claims.Role == "student"
	quests, err := c.QuestService.ListByLesson(lessonID, publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quests)
}

// AddQuestion godoc
// @Summary 在任务下新增题目
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.QuestQuestion} "创建成功"
// @Failure 404 {object} util.Response "任务不存在"
// @Router /api/quests/{id}/questions [post]
func (c *QuestController) AddQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questID := util.MustParseUint(ctx.Param("id"))

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	link, err := c.QuestService.AddQuestion(claims.UserID, questID, req)
	if err != nil {
		questError(ctx, err)
		return
	}
	util.Created(ctx, link)
}

// ListQuestions godoc
// @Summary 任务题目列表
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 200 {object} util.Response{data=[]model.QuestQuestion} "Success"
// @Router /api/quests/{id}/questions [get]
func (c *QuestController) ListQuestions(ctx *gin.Context) {
	questID := util.MustParseUint(ctx.Param("id"))
	links, err := c.QuestService.GetQuestions(questID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, links)
}

// RemoveQuestion godoc
// @Summary 移除任务题目
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   qqId path int true "任务题目关联ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/quests/{id}/questions/{qqId} [delete]
func (c *QuestController) RemoveQuestion(ctx *gin.Context) {
	questID := util.MustParseUint(ctx.Param("id"))
	qqID := util.MustParseUint(ctx.Param("qqId"))
	if err := c.QuestService.RemoveQuestion(questID, qqID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// StartAttempt godoc
// @Summary 开始任务挑战
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 201 {object} util.Response{data=model.QuestAttempt} "创建成功"
// @Failure 403 {object} util.Response "任务未发布"
// @Failure 409 {object} util.Response "已达最大尝试次数"
// @Router /api/quests/{id}/attempts [post]
func (c *QuestController) StartAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questID := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.QuestService.StartAttempt(claims.UserID, questID)
	if err != nil {
		questError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// ListMyAttempts godoc
// @Summary 我的任务尝试记录
// @Tags 任务
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Success 200 {object} util.Response{data=[]model.QuestAttempt} "Success"
// @Router /api/quests/{id}/attempts [get]
func (c *QuestController) ListMyAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questID := util.MustParseUint(ctx.Param("id"))

	attempts, err := c.QuestService.ListMyAttempts(claims.UserID, questID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

type SubmitAttemptRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// SubmitAttempt godoc
// @Summary 提交任务作答
// @Description 服务端判分，首次通关发放奖励
// @Tags 任务
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "任务ID"
// @Param   attemptId path int true "尝试ID"
// @Param   body body SubmitAttemptRequest true "quest_question_id 到答案的映射"
// @Success 200 {object} util.Response{data=model.QuestAttempt} "Success"
// @Failure 409 {object} util.Response "该次尝试已提交"
// @Router /api/quests/{id}/attempts/{attemptId} [put]
func (c *QuestController) SubmitAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questID := util.MustParseUint(ctx.Param("id"))
	attemptID := util.MustParseUint(ctx.Param("attemptId"))

	var req SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.QuestService.SubmitAttempt(ctx.Request.Context(), claims.UserID, questID, attemptID, req.Answers)
	if err != nil {
		questError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}
