package controller

import (
	"errors"
	"net/http"

	"questedu_backend/internal/model"
	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// AdminUserController 管理端用户接口。
// 为兼容既有前端，此处不走统一 Response 包装，
// 成功返回 {user, profile} / {ok, updated} / {ok}，失败返回 {error}
type AdminUserController struct {
	UserService *service.UserService
}

func NewAdminUserController(userService *service.UserService) *AdminUserController {
	return &AdminUserController{UserService: userService}
}

func adminError(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, gin.H{"error": msg})
}

func profileOf(user *model.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	}
}

// CreateUser godoc
// @Summary 管理员创建用户
// @Description 创建账号并写入资料
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateUserRequest true "用户信息"
// @Success 200 {object} object "user 与 profile"
// @Failure 400 {object} object "请求参数错误"
// @Failure 409 {object} object "邮箱已被注册"
// @Router /api/admin/users [post]
func (c *AdminUserController) CreateUser(ctx *gin.Context) {
	var req service.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		adminError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.UserService.CreateUser(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEmailRegistered):
			adminError(ctx, http.StatusConflict, "email already registered")
		case errors.Is(err, util.ErrInvalidRole):
			adminError(ctx, http.StatusBadRequest, "invalid role")
		default:
			adminError(ctx, http.StatusInternalServerError, "internal error")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user":    gin.H{"id": user.ID, "email": user.Email},
		"profile": profileOf(user),
	})
}

// UpdateUser godoc
// @Summary 管理员更新用户
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateUserRequest true "用户信息"
// @Success 200 {object} object "ok 与 updated"
// @Failure 400 {object} object "请求参数错误"
// @Failure 404 {object} object "用户不存在"
// @Router /api/admin/users [put]
func (c *AdminUserController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		adminError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			adminError(ctx, http.StatusNotFound, "user not found")
		case errors.Is(err, util.ErrInvalidRole):
			adminError(ctx, http.StatusBadRequest, "invalid role")
		case errors.Is(err, util.ErrEmailRegistered):
			adminError(ctx, http.StatusConflict, "email already registered")
		default:
			adminError(ctx, http.StatusInternalServerError, "internal error")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "updated": profileOf(user)})
}

type adminDeleteRequest struct {
	ID uint `json:"id" binding:"required"`
}

// DeleteUser godoc
// @Summary 管理员删除用户
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body object true "用户 ID"
// @Success 200 {object} object "ok"
// @Failure 404 {object} object "用户不存在"
// @Router /api/admin/users [delete]
func (c *AdminUserController) DeleteUser(ctx *gin.Context) {
	var req adminDeleteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		adminError(ctx, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.UserService.DeleteUser(req.ID); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			adminError(ctx, http.StatusNotFound, "user not found")
		} else {
			adminError(ctx, http.StatusInternalServerError, "internal error")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListUsers godoc
// @Summary 管理员分页查询用户
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   role query string false "角色过滤"
// @Param   page query int false "页码"
// @Param   limit query int false "每页数量"
// @Success 200 {object} util.PageResponse "Success"
// @Router /api/admin/users [get]
func (c *AdminUserController) ListUsers(ctx *gin.Context) {
	role := model.UserRole(ctx.Query("role"))
	page := int(util.MustParseUint(ctx.DefaultQuery("page", "1")))
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "20")))

	users, total, err := c.UserService.ListUsers(role, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  users,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}
