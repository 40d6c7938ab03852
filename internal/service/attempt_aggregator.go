package service

import (
	"questedu_backend/internal/model"
)

// AggregateAttempts 把扁平的尝试记录聚合成 每生×每任务 最佳成绩矩阵与任务级统计。
// 纯函数：相同输入必然得到相同输出，无共享状态。
//
// 两套口径并存且不可混用：
//   - 任务级 Avg/Highest/Lowest 覆盖该任务的全部尝试；
//   - 学生通过/平均分只看每任务的最佳尝试，未尝试的任务不计入平均（也不算 0 分）
func AggregateAttempts(quests []model.Quest, studentIDs []uint, attempts []model.QuestAttempt) model.AggregationResult {
	result := model.AggregationResult{
		QuestSummaries: make([]model.QuestSummary, 0, len(quests)),
		BestScores:     make(map[uint]map[uint]*model.StudentQuestBest),
		Overall:        make(map[uint]model.StudentOverall),
	}

	questByID := make(map[uint]*model.Quest, len(quests))
	for i := range quests {
		questByID[quests[i].ID] = &quests[i]
	}
	studentSet := make(map[uint]bool, len(studentIDs))
	for _, id := range studentIDs {
		studentSet[id] = true
	}

	// 防御性过滤：只统计属于本次名册与任务集的记录
	byQuest := make(map[uint][]model.QuestAttempt)
	for _, a := range attempts {
		if questByID[a.QuestID] == nil || !studentSet[a.StudentID] {
			continue
		}
		byQuest[a.QuestID] = append(byQuest[a.QuestID], a)
	}

	for _, quest := range quests {
		questAttempts := byQuest[quest.ID]

		summary := model.QuestSummary{
			QuestID:       quest.ID,
			Title:         quest.Title,
			TotalStudents: len(studentIDs),
			TotalAttempts: len(questAttempts),
		}

		// 任务级统计覆盖全部尝试；零尝试时保持全 0，不做除法
		if len(questAttempts) > 0 {
			var sum float64
			high := percentageOf(questAttempts[0])
			low := high
			for _, a := range questAttempts {
				p := percentageOf(a)
				sum += p
				if p > high {
					high = p
				}
				if p < low {
					low = p
				}
			}
			summary.AvgScore = sum / float64(len(questAttempts))
			summary.HighestScore = high
			summary.LowestScore = low
		}

		// 按学生分组，选最佳尝试
		byStudent := make(map[uint][]model.QuestAttempt)
		for _, a := range questAttempts {
			byStudent[a.StudentID] = append(byStudent[a.StudentID], a)
		}

		for studentID, list := range byStudent {
			best := bestAttempt(list)

			if result.BestScores[studentID] == nil {
				result.BestScores[studentID] = make(map[uint]*model.StudentQuestBest)
			}
			result.BestScores[studentID][quest.ID] = &model.StudentQuestBest{
				Percentage:   percentageOf(*best),
				Passed:       best.Passed,
				AttemptCount: len(list),
				MaxAttempts:  quest.MaxAttempts,
				MinPoints:    quest.MinPoints,
			}

			summary.CompletedStudents++
			if best.Passed {
				summary.PassedStudents++
			}
		}
		summary.FailedStudents = summary.CompletedStudents - summary.PassedStudents

		result.QuestSummaries = append(result.QuestSummaries, summary)
	}

	// 学生总平均：只对已尝试过的任务求算术平均
	for studentID, perQuest := range result.BestScores {
		var sum float64
		for _, best := range perQuest {
			sum += best.Percentage
		}
		result.Overall[studentID] = model.StudentOverall{
			Average:         sum / float64(len(perQuest)),
			QuestsAttempted: len(perQuest),
		}
	}

	return result
}

// percentageOf 缺失的 percentage 按 0 处理，上游数据不保证非空
func percentageOf(a model.QuestAttempt) float64 {
	if a.Percentage == nil {
		return 0
	}
	return *a.Percentage
}

// bestAttempt 最佳尝试：percentage 最高者，持平取 completed_at 最近的一次。
// 该决胜规则是聚合结果确定性的保证，不要改动
func bestAttempt(attempts []model.QuestAttempt) *model.QuestAttempt {
	best := &attempts[0]
	for i := 1; i < len(attempts); i++ {
		a := &attempts[i]
		pa, pb := percentageOf(*a), percentageOf(*best)
		switch {
		case pa > pb:
			best = a
		case pa == pb && laterCompleted(a, best):
			best = a
		}
	}
	return best
}

func laterCompleted(a, b *model.QuestAttempt) bool {
	if a.CompletedAt == nil {
		return false
	}
	if b.CompletedAt == nil {
		return true
	}
	return a.CompletedAt.After(*b.CompletedAt)
}
