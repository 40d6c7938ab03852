package service

import (
	"sort"
	"time"

	"questedu_backend/internal/model"
)

// 报表整体及格状态。及格线与任务自身的 MinPoints 互相独立
const (
	StatusPassed = "Lulus"
	StatusFailed = "Tidak Lulus"
)

// ReportMeta 报表标识信息
type ReportMeta struct {
	LessonTitle  string
	ChapterTitle string
	ClassName    string
}

// CompileReport 把聚合器与难度分析的输出装配成可序列化的报表快照。
// passThreshold 为包含式下限：平均分恰好等于阈值记为 Lulus
func CompileReport(
	meta ReportMeta,
	quests []model.Quest,
	students []model.User,
	agg model.AggregationResult,
	questions []model.QuestionDifficulty,
	passThreshold float64,
	generatedAt time.Time,
) model.ReportPayload {
	payload := model.ReportPayload{
		LessonTitle:  meta.LessonTitle,
		ChapterTitle: meta.ChapterTitle,
		ClassName:    meta.ClassName,
		GeneratedAt:  generatedAt,
		QuestColumns: make([]model.QuestColumn, 0, len(quests)),
		Students:     make([]model.StudentRow, 0, len(students)),
		Questions:    questions,
	}

	for _, q := range quests {
		payload.QuestColumns = append(payload.QuestColumns, model.QuestColumn{
			ID:    q.ID,
			Title: q.Title,
		})
	}

	stats := model.ReportStats{TotalStudents: len(students)}
	var sumAverages float64
	var attemptedRows int

	for _, student := range students {
		row := model.StudentRow{
			ID:        student.ID,
			Name:      student.FullName,
			ClassName: meta.ClassName,
			Email:     student.Email,
			Status:    StatusFailed,
		}

		scores := make(map[uint]*float64, len(quests))
		perQuest := agg.BestScores[student.ID]
		for _, q := range quests {
			if best, ok := perQuest[q.ID]; ok {
				p := best.Percentage
				scores[q.ID] = &p
			} else {
				scores[q.ID] = nil // 未尝试，区别于 0 分
			}
		}
		row.QuestScores = scores

		if overall, ok := agg.Overall[student.ID]; ok {
			row.Score = overall.Average
			row.Passed = overall.Average >= passThreshold

			sumAverages += overall.Average
			attemptedRows++
			if attemptedRows == 1 {
				stats.HighestScore = overall.Average
				stats.LowestScore = overall.Average
			} else {
				if overall.Average > stats.HighestScore {
					stats.HighestScore = overall.Average
				}
				if overall.Average < stats.LowestScore {
					stats.LowestScore = overall.Average
				}
			}
		}
		if row.Passed {
			row.Status = StatusPassed
			stats.PassedCount++
		}

		payload.Students = append(payload.Students, row)
	}

	if attemptedRows > 0 {
		stats.AvgScore = sumAverages / float64(attemptedRows)
	}
	payload.Stats = stats

	sort.SliceStable(payload.Students, func(i, j int) bool {
		return payload.Students[i].Name < payload.Students[j].Name
	})

	return payload
}
