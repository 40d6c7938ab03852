package service

import (
	"context"

	"questedu_backend/internal/repository"
)

type LeaderboardService struct {
	LeaderboardRepo *repository.LeaderboardRepository
}

func NewLeaderboardService(repo *repository.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{LeaderboardRepo: repo}
}

// Top 查询榜单前 n 名，kind 取 xp 或 coins
func (s *LeaderboardService) Top(ctx context.Context, kind string, n int) ([]repository.LeaderboardEntry, error) {
	if kind != "coins" {
		kind = "xp"
	}
	if n <= 0 || n > 100 {
		n = 10
	}
	return s.LeaderboardRepo.Top(ctx, kind, n)
}

// Rebuild 管理端手动触发全量重建
func (s *LeaderboardService) Rebuild(ctx context.Context, kind string) error {
	if kind != "coins" {
		kind = "xp"
	}
	return s.LeaderboardRepo.Rebuild(ctx, kind)
}
