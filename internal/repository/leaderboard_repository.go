package repository

import (
	"context"
	"strconv"

	"questedu_backend/internal/model"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	xpLeaderboardKey   = "leaderboard:xp"
	coinLeaderboardKey = "leaderboard:coins"
)

// LeaderboardRepository 排行榜基于 Redis ZSET，MySQL 为权威数据，缺失时回填
type LeaderboardRepository struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardRepository(db *gorm.DB, rdb *redis.Client) *LeaderboardRepository {
	return &LeaderboardRepository{DB: db, RDB: rdb}
}

type LeaderboardEntry struct {
	StudentID uint   `json:"studentId"`
	FullName  string `json:"fullName"`
	Score     int    `json:"score"`
	Rank      int    `json:"rank"`
}

func leaderboardKey(kind string) string {
	if kind == "coins" {
		return coinLeaderboardKey
	}
	return xpLeaderboardKey
}

func (r *LeaderboardRepository) SetScore(ctx context.Context, kind string, studentID uint, score int) error {
	return r.RDB.ZAdd(ctx, leaderboardKey(kind), &redis.Z{
		Score:  float64(score),
		Member: strconv.FormatUint(uint64(studentID), 10),
	}).Err()
}

// Top 返回前 n 名，ZSET 为空时从 MySQL 重建
func (r *LeaderboardRepository) Top(ctx context.Context, kind string, n int) ([]LeaderboardEntry, error) {
	key := leaderboardKey(kind)

	size, err := r.RDB.ZCard(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if size == 0 {
		if err := r.Rebuild(ctx, kind); err != nil {
			return nil, err
		}
	}

	zs, err := r.RDB.ZRevRangeWithScores(ctx, key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(zs))
	for _, z := range zs {
		id, _ := strconv.ParseUint(z.Member.(string), 10, 32)
		ids = append(ids, uint(id))
	}

	var users []model.User
	if len(ids) > 0 {
		if err := r.DB.Where("id IN ?", ids).Find(&users).Error; err != nil {
			return nil, err
		}
	}
	nameByID := make(map[uint]string, len(users))
	for _, u := range users {
		nameByID[u.ID] = u.FullName
	}

	entries := make([]LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id, _ := strconv.ParseUint(z.Member.(string), 10, 32)
		entries = append(entries, LeaderboardEntry{
			StudentID: uint(id),
			FullName:  nameByID[uint(id)],
			Score:     int(z.Score),
			Rank:      i + 1,
		})
	}
	return entries, nil
}

// Rebuild 从 MySQL 全量重建一个榜单
func (r *LeaderboardRepository) Rebuild(ctx context.Context, kind string) error {
	var users []model.User
	if err := r.DB.Where("role = ?", model.Student).Find(&users).Error; err != nil {
		return err
	}

	key := leaderboardKey(kind)
	pipe := r.RDB.TxPipeline()
	pipe.Del(ctx, key)
	for _, u := range users {
		score := u.XP
		if kind == "coins" {
			score = u.Coins
		}
		pipe.ZAdd(ctx, key, &redis.Z{
			Score:  float64(score),
			Member: strconv.FormatUint(uint64(u.ID), 10),
		})
	}
	_, err := pipe.Exec(ctx)
	return err
}
