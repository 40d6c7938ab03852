package service

import (
	"testing"

	"questedu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeQuestQuestion(id, questID uint, question *model.Question) model.QuestQuestion {
	return model.QuestQuestion{
		BaseModel:  model.BaseModel{ID: id},
		QuestID:    questID,
		QuestionID: question.ID,
		Question:   question,
	}
}

func TestDifficultyBands_Classify(t *testing.T) {
	bands := DefaultDifficultyBands()

	tests := []struct {
		rate float64
		want model.DifficultyBand
	}{
		{0, model.BandNeedsAttention},
		{49.9, model.BandNeedsAttention},
		{50, model.BandModerate},
		{69.9, model.BandModerate},
		{70, model.BandFine},
		{100, model.BandFine},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, bands.Classify(tt.rate), "rate %v", tt.rate)
	}
}

func TestAnalyzeQuestions_CorrectRate(t *testing.T) {
	question := &model.Question{
		BaseModel:     model.BaseModel{ID: 100},
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("A"),
		Options:       `[{"text":"oui","is_correct":true},{"text":"non","is_correct":false}]`,
	}
	qq := makeQuestQuestion(5, 1, question)
	quest := makeQuest(1, "Q1")

	attempts := []model.QuestAttempt{
		{QuestID: 1, StudentID: 10, UserAnswers: `{"5":"A"}`},
		{QuestID: 1, StudentID: 11, UserAnswers: `{"5":"B"}`},
		{QuestID: 1, StudentID: 12, UserAnswers: `{"5":"A"}`},
		{QuestID: 1, StudentID: 13, UserAnswers: `{}`}, // 没答这道题，不算 answered
	}

	results := AnalyzeQuestions([]model.QuestQuestion{qq}, attempts, []model.Quest{quest}, DefaultDifficultyBands())

	require.Len(t, results, 1)
	d := results[0]
	assert.Equal(t, 3, d.TotalAnswers)
	assert.Equal(t, 2, d.CorrectCount)
	assert.InDelta(t, 66.67, d.CorrectRate, 0.01)
	assert.Equal(t, model.BandModerate, d.Band)
	assert.False(t, d.NoData)
}

func TestAnalyzeQuestions_NoDataFlag(t *testing.T) {
	unanswered := &model.Question{
		BaseModel:     model.BaseModel{ID: 100},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("bonjour"),
	}
	allWrong := &model.Question{
		BaseModel:     model.BaseModel{ID: 101},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("merci"),
	}
	quest := makeQuest(1, "Q1")

	qqs := []model.QuestQuestion{
		makeQuestQuestion(5, 1, unanswered),
		makeQuestQuestion(6, 1, allWrong),
	}
	attempts := []model.QuestAttempt{
		{QuestID: 1, StudentID: 10, UserAnswers: `{"6":"pardon"}`},
	}

	results := AnalyzeQuestions(qqs, attempts, []model.Quest{quest}, DefaultDifficultyBands())
	require.Len(t, results, 2)

	byQQ := make(map[uint]model.QuestionDifficulty)
	for _, d := range results {
		byQQ[d.QuestQuestionID] = d
	}

	// 无人作答：0% 且 NoData；有人答但全错：0% 但 NoData 为 false
	assert.True(t, byQQ[5].NoData)
	assert.Zero(t, byQQ[5].CorrectRate)
	assert.False(t, byQQ[6].NoData)
	assert.Zero(t, byQQ[6].CorrectRate)
	assert.Equal(t, 1, byQQ[6].TotalAnswers)
}

func TestAnalyzeQuestions_SortsHardestFirstWithinQuest(t *testing.T) {
	easy := &model.Question{
		BaseModel:     model.BaseModel{ID: 100},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("oui"),
	}
	hard := &model.Question{
		BaseModel:     model.BaseModel{ID: 101},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("non"),
	}
	other := &model.Question{
		BaseModel:     model.BaseModel{ID: 102},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("si"),
	}

	q1 := makeQuest(1, "Q1")
	q2 := makeQuest(2, "Q2")

	qqs := []model.QuestQuestion{
		makeQuestQuestion(5, 1, easy),
		makeQuestQuestion(6, 1, hard),
		makeQuestQuestion(7, 2, other),
	}
	attempts := []model.QuestAttempt{
		{QuestID: 1, StudentID: 10, UserAnswers: `{"5":"oui","6":"xxx"}`},
		{QuestID: 1, StudentID: 11, UserAnswers: `{"5":"oui","6":"non"}`},
		{QuestID: 2, StudentID: 10, UserAnswers: `{"7":"si"}`},
	}

	results := AnalyzeQuestions(qqs, attempts, []model.Quest{q1, q2}, DefaultDifficultyBands())
	require.Len(t, results, 3)

	// 任务间保持原始顺序，任务内正确率最低的排最前
	assert.Equal(t, uint(6), results[0].QuestQuestionID)
	assert.Equal(t, uint(5), results[1].QuestQuestionID)
	assert.Equal(t, uint(7), results[2].QuestQuestionID)
}

func TestAnalyzeQuestions_IgnoresForeignQuestAnswers(t *testing.T) {
	question := &model.Question{
		BaseModel:     model.BaseModel{ID: 100},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("oui"),
	}
	qq := makeQuestQuestion(5, 1, question)
	quest := makeQuest(1, "Q1")

	// 其他任务的尝试即便包含同名键也不计入
	attempts := []model.QuestAttempt{
		{QuestID: 2, StudentID: 10, UserAnswers: `{"5":"oui"}`},
	}

	results := AnalyzeQuestions([]model.QuestQuestion{qq}, attempts, []model.Quest{quest}, DefaultDifficultyBands())
	require.Len(t, results, 1)
	assert.True(t, results[0].NoData)
}
