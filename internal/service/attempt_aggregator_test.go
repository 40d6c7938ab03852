package service

import (
	"testing"
	"time"

	"questedu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }

func makeQuest(id uint, title string) model.Quest {
	return model.Quest{
		BaseModel:   model.BaseModel{ID: id},
		Title:       title,
		MinPoints:   70,
		MaxAttempts: 3,
	}
}

func makeAttempt(studentID, questID uint, percentage *float64, passed bool, completedAt time.Time) model.QuestAttempt {
	return model.QuestAttempt{
		StudentID:   studentID,
		QuestID:     questID,
		Percentage:  percentage,
		Passed:      passed,
		CompletedAt: &completedAt,
	}
}

func TestAggregateAttempts_BestIsHighestPercentage(t *testing.T) {
	quest := makeQuest(1, "Q1")
	now := time.Now()

	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, floatPtr(60), false, now),
		makeAttempt(10, 1, floatPtr(85), true, now.Add(time.Hour)),
	}

	result := AggregateAttempts([]model.Quest{quest}, []uint{10}, attempts)

	best := result.BestScores[10][1]
	require.NotNil(t, best)
	assert.Equal(t, 85.0, best.Percentage)
	assert.True(t, best.Passed)
	assert.Equal(t, 2, best.AttemptCount)
}

func TestAggregateAttempts_TieBreaksOnLatestCompletion(t *testing.T) {
	quest := makeQuest(1, "Q1")
	earlier := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	later := earlier.Add(2 * time.Hour)

	first := makeAttempt(10, 1, floatPtr(80), true, earlier)
	second := makeAttempt(10, 1, floatPtr(80), true, later)
	second.AttemptNumber = 2

	result := AggregateAttempts([]model.Quest{quest}, []uint{10}, []model.QuestAttempt{first, second})

	best := result.BestScores[10][1]
	require.NotNil(t, best)
	assert.Equal(t, 80.0, best.Percentage)
	// 持平时取 completed_at 最近的一次，输入顺序不影响结果
	reversed := AggregateAttempts([]model.Quest{quest}, []uint{10}, []model.QuestAttempt{second, first})
	assert.Equal(t, best.Percentage, reversed.BestScores[10][1].Percentage)
}

func TestAggregateAttempts_ZeroAttemptsYieldsZeroStats(t *testing.T) {
	quest := makeQuest(1, "Q1")

	result := AggregateAttempts([]model.Quest{quest}, []uint{10, 11}, nil)

	require.Len(t, result.QuestSummaries, 1)
	s := result.QuestSummaries[0]
	assert.Equal(t, 2, s.TotalStudents)
	assert.Zero(t, s.TotalAttempts)
	assert.Zero(t, s.AvgScore)
	assert.Zero(t, s.HighestScore)
	assert.Zero(t, s.LowestScore)
	assert.Zero(t, s.CompletedStudents)
	assert.Empty(t, result.BestScores)
	assert.Empty(t, result.Overall)
}

func TestAggregateAttempts_NilPercentageCountsAsZero(t *testing.T) {
	quest := makeQuest(1, "Q1")
	now := time.Now()

	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, nil, false, now),
		makeAttempt(10, 1, floatPtr(40), false, now.Add(time.Minute)),
	}

	result := AggregateAttempts([]model.Quest{quest}, []uint{10}, attempts)

	s := result.QuestSummaries[0]
	assert.Equal(t, 20.0, s.AvgScore)
	assert.Equal(t, 40.0, s.HighestScore)
	assert.Equal(t, 0.0, s.LowestScore)
	assert.Equal(t, 40.0, result.BestScores[10][1].Percentage)
}

func TestAggregateAttempts_AverageExcludesUnattempted(t *testing.T) {
	q1 := makeQuest(1, "Q1")
	q2 := makeQuest(2, "Q2")
	now := time.Now()

	// 学生 10 只做了 Q1，平均分必须是 90，而不是 (90+0)/2
	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, floatPtr(90), true, now),
	}

	result := AggregateAttempts([]model.Quest{q1, q2}, []uint{10}, attempts)

	overall, ok := result.Overall[10]
	require.True(t, ok)
	assert.Equal(t, 90.0, overall.Average)
	assert.Equal(t, 1, overall.QuestsAttempted)

	_, attempted := result.BestScores[10][2]
	assert.False(t, attempted)
}

func TestAggregateAttempts_DistinctStudentCounts(t *testing.T) {
	quest := makeQuest(1, "Q1")
	now := time.Now()

	// 10 名学生，4 人尝试过（其中一人两次），3 人通过
	students := []uint{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	attempts := []model.QuestAttempt{
		makeAttempt(1, 1, floatPtr(80), true, now),
		makeAttempt(1, 1, floatPtr(95), true, now.Add(time.Minute)),
		makeAttempt(2, 1, floatPtr(75), true, now),
		makeAttempt(3, 1, floatPtr(72), true, now),
		makeAttempt(4, 1, floatPtr(30), false, now),
	}

	result := AggregateAttempts([]model.Quest{quest}, students, attempts)

	s := result.QuestSummaries[0]
	assert.Equal(t, 10, s.TotalStudents)
	assert.Equal(t, 4, s.CompletedStudents)
	assert.Equal(t, 3, s.PassedStudents)
	assert.Equal(t, 1, s.FailedStudents)
	assert.Equal(t, 5, s.TotalAttempts)
}

func TestAggregateAttempts_FiltersForeignRecords(t *testing.T) {
	quest := makeQuest(1, "Q1")
	now := time.Now()

	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, floatPtr(50), false, now),
		makeAttempt(99, 1, floatPtr(100), true, now), // 不在名册
		makeAttempt(10, 77, floatPtr(100), true, now), // 不在任务集
	}

	result := AggregateAttempts([]model.Quest{quest}, []uint{10}, attempts)

	s := result.QuestSummaries[0]
	assert.Equal(t, 1, s.TotalAttempts)
	assert.Equal(t, 50.0, s.HighestScore)
	assert.NotContains(t, result.BestScores, uint(99))
}

func TestAggregateAttempts_Idempotent(t *testing.T) {
	quest := makeQuest(1, "Q1")
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	attempts := []model.QuestAttempt{
		makeAttempt(10, 1, floatPtr(60), false, now),
		makeAttempt(10, 1, floatPtr(85), true, now.Add(time.Hour)),
		makeAttempt(11, 1, floatPtr(70), true, now),
	}

	first := AggregateAttempts([]model.Quest{quest}, []uint{10, 11}, attempts)
	second := AggregateAttempts([]model.Quest{quest}, []uint{10, 11}, attempts)

	assert.Equal(t, first, second)
}
