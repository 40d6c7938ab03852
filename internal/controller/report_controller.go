package controller

import (
	"errors"

	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReportController struct {
	ReportService *service.ReportService
}

func NewReportController(reportService *service.ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

func reportError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrClassNotFound), errors.Is(err, util.ErrReportNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrStoreUnavailable):
		util.Error(ctx, 503, "数据存储暂不可用，请稍后重试")
	default:
		util.LogInternalError(ctx, err)
	}
}

// GenerateReport godoc
// @Summary 生成课时成绩报表
// @Description 聚合班级学生在课时下所有任务的作答情况，不落库
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId query int true "班级ID"
// @Param   lessonId query int true "课时ID"
// @Success 200 {object} util.Response{data=model.ReportPayload} "Success"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "班级或课时不存在"
// @Failure 503 {object} util.Response "数据存储暂不可用"
// @Router /api/reports/generate [get]
func (c *ReportController) GenerateReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Query("classId"))
	lessonID := util.MustParseUint(ctx.Query("lessonId"))
	if classID == 0 || lessonID == 0 {
		util.BadRequest(ctx, "classId 和 lessonId 必填")
		return
	}

	payload, err := c.ReportService.GenerateReport(ctx.Request.Context(), claims.UserID, classID, lessonID)
	if err != nil {
		reportError(ctx, err)
		return
	}
	util.Success(ctx, payload)
}

type SaveReportRequest struct {
	ClassID  uint `json:"classId" binding:"required"`
	LessonID uint `json:"lessonId" binding:"required"`
}

// SaveReport godoc
// @Summary 保存报表快照
// @Description 重新生成并落库为不可变快照，同时归档 CSV
// @Tags 报表
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SaveReportRequest true "班级与课时"
// @Success 201 {object} util.Response{data=model.ReportSnapshot} "创建成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/reports [post]
func (c *ReportController) SaveReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req SaveReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.ReportService.SaveReport(ctx.Request.Context(), claims.UserID, req.ClassID, req.LessonID)
	if err != nil {
		reportError(ctx, err)
		return
	}
	util.Created(ctx, snapshot)
}

// ListReports godoc
// @Summary 已保存报表列表
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   classId query int false "按班级过滤"
// @Success 200 {object} util.Response{data=[]model.ReportSnapshot} "Success"
// @Router /api/reports [get]
func (c *ReportController) ListReports(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Query("classId"))

	snapshots, err := c.ReportService.ListReports(claims.UserID, classID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, snapshots)
}

// GetReport godoc
// @Summary 查看已保存的报表
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "报表ID"
// @Success 200 {object} util.Response{data=model.ReportPayload} "Success"
// @Failure 404 {object} util.Response "报表不存在"
// @Router /api/reports/{id} [get]
func (c *ReportController) GetReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	payload, err := c.ReportService.GetReport(claims.UserID, ctx.Param("id"))
	if err != nil {
		reportError(ctx, err)
		return
	}
	util.Success(ctx, payload)
}

// DeleteReport godoc
// @Summary 删除已保存的报表
// @Description 快照不可变，只支持删除
// @Tags 报表
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "报表ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "报表不存在"
// @Router /api/reports/{id} [delete]
func (c *ReportController) DeleteReport(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.ReportService.DeleteReport(ctx.Request.Context(), claims.UserID, ctx.Param("id")); err != nil {
		reportError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ExportReportCSV godoc
// @Summary 导出报表 CSV
// @Tags 报表
// @Produce  text/csv
// @Security ApiKeyAuth
// @Param   id path string true "报表ID"
// @Success 200 {string} string "CSV 内容"
// @Failure 404 {object} util.Response "报表不存在"
// @Router /api/reports/{id}/export [get]
func (c *ReportController) ExportReportCSV(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	payload, err := c.ReportService.GetReport(claims.UserID, ctx.Param("id"))
	if err != nil {
		reportError(ctx, err)
		return
	}

	data := service.ExportReportCSV(payload)
	ctx.Header("Content-Disposition", `attachment; filename="report-`+ctx.Param("id")+`.csv"`)
	ctx.Data(200, "text/csv; charset=utf-8", data)
}
