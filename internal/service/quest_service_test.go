package service

import (
	"testing"

	"questedu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestScoreAnswers(t *testing.T) {
	choice := &model.Question{
		BaseModel:     model.BaseModel{ID: 100},
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("A"),
		Options:       `[{"text":"oui","is_correct":true},{"text":"non","is_correct":false}]`,
	}
	short := &model.Question{
		BaseModel:     model.BaseModel{ID: 101},
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("bonjour"),
	}

	links := []model.QuestQuestion{
		makeQuestQuestion(5, 1, choice),
		makeQuestQuestion(6, 1, short),
	}

	tests := []struct {
		name      string
		answers   map[uint]string
		wantScore int
	}{
		{"all correct", map[uint]string{5: "A", 6: " Bonjour "}, 2},
		{"one wrong", map[uint]string{5: "B", 6: "bonjour"}, 1},
		{"missing answer not scored", map[uint]string{5: "A"}, 1},
		{"no answers", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, maxScore := ScoreAnswers(links, tt.answers)
			assert.Equal(t, tt.wantScore, score)
			assert.Equal(t, 2, maxScore)
		})
	}
}

func TestScoreAnswers_SkipsDanglingLinks(t *testing.T) {
	links := []model.QuestQuestion{
		{BaseModel: model.BaseModel{ID: 5}, QuestID: 1}, // 题目本体已被删除
	}

	score, maxScore := ScoreAnswers(links, map[uint]string{5: "A"})
	assert.Zero(t, score)
	assert.Zero(t, maxScore)
}
