package controller

import (
	"questedu_backend/internal/service"
	"questedu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// Top godoc
// @Summary 排行榜
// @Description 按经验或金币返回前 N 名学生
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Param   kind query string false "xp 或 coins，默认 xp"
// @Param   limit query int false "返回数量，默认 10"
// @Success 200 {object} util.Response{data=[]repository.LeaderboardEntry} "Success"
// @Router /api/leaderboard [get]
func (c *LeaderboardController) Top(ctx *gin.Context) {
	kind := ctx.DefaultQuery("kind", "xp")
	limit := int(util.MustParseUint(ctx.DefaultQuery("limit", "10")))

	entries, err := c.LeaderboardService.Top(ctx.Request.Context(), kind, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// Rebuild godoc
// @Summary 重建排行榜
// @Description 管理端手动从数据库全量重建 Redis 榜单
// @Tags 排行榜
// @Produce  json
// @Security ApiKeyAuth
// @Param   kind query string false "xp 或 coins，默认 xp"
// @Success 200 {object} util.Response "Success"
// @Router /api/admin/leaderboard/rebuild [post]
func (c *LeaderboardController) Rebuild(ctx *gin.Context) {
	kind := ctx.DefaultQuery("kind", "xp")
	if err := c.LeaderboardService.Rebuild(ctx.Request.Context(), kind); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
