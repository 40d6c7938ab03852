package service

import (
	"sort"

	"questedu_backend/internal/model"
)

// DifficultyBands 难度分级阈值，来自配置，不允许硬编码
type DifficultyBands struct {
	AttentionBelow float64 // 低于此值 needs_attention
	ModerateBelow  float64 // 低于此值（但不低于 AttentionBelow）moderate，其余 fine
}

func DefaultDifficultyBands() DifficultyBands {
	return DifficultyBands{AttentionBelow: 50, ModerateBelow: 70}
}

func (b DifficultyBands) Classify(correctRate float64) model.DifficultyBand {
	switch {
	case correctRate < b.AttentionBelow:
		return model.BandNeedsAttention
	case correctRate < b.ModerateBelow:
		return model.BandModerate
	default:
		return model.BandFine
	}
}

// AnalyzeQuestions 统计每任务每题的正确率，标出低分题供教师关注。
// 输出按任务原始顺序分组，组内按正确率升序（最难的题排最前）。
//
// 无人作答的题 CorrectRate 为 0 且 NoData 为 true，
// 与 “有人答但全错”（CorrectRate 同为 0）是两种情况，不能混为一谈
func AnalyzeQuestions(
	questQuestions []model.QuestQuestion,
	attempts []model.QuestAttempt,
	quests []model.Quest,
	bands DifficultyBands,
) []model.QuestionDifficulty {
	titleByQuest := make(map[uint]string, len(quests))
	questOrder := make(map[uint]int, len(quests))
	for i, q := range quests {
		titleByQuest[q.ID] = q.Title
		questOrder[q.ID] = i
	}

	// 答案映射每条尝试只解析一次
	type parsedAttempt struct {
		questID uint
		answers map[uint]string
	}
	parsed := make([]parsedAttempt, 0, len(attempts))
	for _, a := range attempts {
		parsed = append(parsed, parsedAttempt{
			questID: a.QuestID,
			answers: ParseUserAnswers(a.UserAnswers),
		})
	}

	results := make([]model.QuestionDifficulty, 0, len(questQuestions))
	for _, qq := range questQuestions {
		if qq.Question == nil {
			continue
		}
		key := ResolveAnswerKey(qq.Question)

		d := model.QuestionDifficulty{
			QuestID:         qq.QuestID,
			QuestTitle:      titleByQuest[qq.QuestID],
			QuestQuestionID: qq.ID,
			QuestionText:    qq.Question.QuestionText,
			QuestionType:    qq.Question.QuestionType,
		}

		for _, pa := range parsed {
			if pa.questID != qq.QuestID {
				continue
			}
			answer, ok := pa.answers[qq.ID]
			if !ok {
				continue
			}
			d.TotalAnswers++
			if key.IsCorrect(answer) {
				d.CorrectCount++
			}
		}

		if d.TotalAnswers > 0 {
			d.CorrectRate = float64(d.CorrectCount) / float64(d.TotalAnswers) * 100
		} else {
			d.NoData = true
		}
		d.Band = bands.Classify(d.CorrectRate)

		results = append(results, d)
	}

	// 任务间保持原始顺序，任务内最难的题（正确率最低）排最前
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].QuestID != results[j].QuestID {
			return questOrder[results[i].QuestID] < questOrder[results[j].QuestID]
		}
		return results[i].CorrectRate < results[j].CorrectRate
	})

	return results
}
