package controller

import (
	"errors"

	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ClassController struct {
	ClassService *service.ClassService
}

func NewClassController(classService *service.ClassService) *ClassController {
	return &ClassController{ClassService: classService}
}

func classError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrClassNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrUserNotFound):
		util.Error(ctx, 404, "学生不存在")
	default:
		util.LogInternalError(ctx, err)
	}
}

type CreateClassRequest struct {
	Name  string `json:"name" binding:"required"`
	Grade string `json:"grade"`
}

// CreateClass godoc
// @Summary 创建班级
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateClassRequest true "班级信息"
// @Success 201 {object} util.Response{data=model.Class} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/classes [post]
func (c *ClassController) CreateClass(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.CreateClass(claims.UserID, req.Name, req.Grade)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, class)
}

// ListClasses godoc
// @Summary 教师名下班级列表
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Class} "Success"
// @Router /api/classes [get]
func (c *ClassController) ListClasses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classes, err := c.ClassService.ListClasses(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, classes)
}

type UpdateClassRequest struct {
	Name  string `json:"name"`
	Grade string `json:"grade"`
}

// UpdateClass godoc
// @Summary 更新班级信息
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Param   body body UpdateClassRequest true "班级信息"
// @Success 200 {object} util.Response{data=model.Class} "Success"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/classes/{id} [put]
func (c *ClassController) UpdateClass(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Param("id"))

	var req UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	class, err := c.ClassService.UpdateClass(claims.UserID, classID, req.Name, req.Grade)
	if err != nil {
		classError(ctx, err)
		return
	}
	util.Success(ctx, class)
}

// DeleteClass godoc
// @Summary 删除班级
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/classes/{id} [delete]
func (c *ClassController) DeleteClass(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Param("id"))

	if err := c.ClassService.DeleteClass(claims.UserID, classID); err != nil {
		classError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type ClassMemberRequest struct {
	StudentID uint `json:"studentId" binding:"required"`
}

// AddStudent godoc
// @Summary 添加班级成员
// @Tags 班级
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Param   body body ClassMemberRequest true "学生ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "班级或学生不存在"
// @Router /api/classes/{id}/members [post]
func (c *ClassController) AddStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Param("id"))

	var req ClassMemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ClassService.AddStudent(claims.UserID, classID, req.StudentID); err != nil {
		classError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RemoveStudent godoc
// @Summary 移除班级成员
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Param   studentId path int true "学生ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/classes/{id}/members/{studentId} [delete]
func (c *ClassController) RemoveStudent(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Param("id"))
	studentID := util.MustParseUint(ctx.Param("studentId"))

	if err := c.ClassService.RemoveStudent(claims.UserID, classID, studentID); err != nil {
		classError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListMembers godoc
// @Summary 班级成员列表
// @Tags 班级
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "班级ID"
// @Success 200 {object} util.Response{data=[]model.ClassMember} "Success"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/classes/{id}/members [get]
func (c *ClassController) ListMembers(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	classID := util.MustParseUint(ctx.Param("id"))

	members, err := c.ClassService.ListMembers(claims.UserID, classID)
	if err != nil {
		classError(ctx, err)
		return
	}
	util.Success(ctx, members)
}
