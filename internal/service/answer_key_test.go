package service

import (
	"testing"

	"questedu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestResolveAnswerKey_LetterMatch(t *testing.T) {
	q := &model.Question{
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("b"),
		Options:       `[{"text":"Paris","is_correct":false},{"text":"Lyon","is_correct":true}]`,
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyLetterMatch, key.Strategy)
	assert.Equal(t, "B", key.Correct)
}

func TestResolveAnswerKey_TextMatch(t *testing.T) {
	q := &model.Question{
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("Lyon"),
		Options:       `[{"text":"Paris","is_correct":false},{"text":"Lyon","is_correct":false}]`,
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyTextMatch, key.Strategy)
	assert.Equal(t, "B", key.Correct)
}

func TestResolveAnswerKey_FlagFallback(t *testing.T) {
	// correct_answer 缺失，由 is_correct 标记推导出字母 A
	q := &model.Question{
		QuestionType: model.MultipleChoice,
		Options:      `[{"text":"Paris","is_correct":true},{"text":"Lyon","is_correct":false}]`,
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyFlagFallback, key.Strategy)
	assert.Equal(t, "A", key.Correct)
}

func TestResolveAnswerKey_ChainOrder(t *testing.T) {
	// 字母直配优先于文本匹配和标记兜底
	q := &model.Question{
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("A"),
		Options:       `[{"text":"Paris","is_correct":false},{"text":"A","is_correct":true}]`,
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyLetterMatch, key.Strategy)
	assert.Equal(t, "A", key.Correct)
}

func TestResolveAnswerKey_KeyedOptions(t *testing.T) {
	q := &model.Question{
		QuestionType:  model.MultipleChoice,
		CorrectAnswer: strPtr("bonjour"),
		Options:       `{"a":"hola","b":{"text":"bonjour"},"c":"ciao"}`,
	}

	key := ResolveAnswerKey(q)
	require.Len(t, key.Options, 3)
	assert.Equal(t, "A", key.Options[0].Letter)
	assert.Equal(t, StrategyTextMatch, key.Strategy)
	assert.Equal(t, "B", key.Correct)
}

func TestResolveAnswerKey_Passthrough(t *testing.T) {
	q := &model.Question{
		QuestionType:  model.ShortAnswer,
		CorrectAnswer: strPtr("bonjour"),
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyPassthrough, key.Strategy)
	assert.Equal(t, "bonjour", key.Correct)
}

func TestResolveAnswerKey_Unresolved(t *testing.T) {
	q := &model.Question{
		QuestionType: model.MultipleChoice,
		Options:      `[{"text":"Paris"},{"text":"Lyon"}]`,
	}

	key := ResolveAnswerKey(q)
	assert.Equal(t, StrategyUnresolved, key.Strategy)
	assert.False(t, key.Resolved())
	assert.False(t, key.IsCorrect("A"))
}

func TestAnswerKey_IsCorrect(t *testing.T) {
	tests := []struct {
		name   string
		key    AnswerKey
		answer string
		want   bool
	}{
		{
			name:   "short answer trims and ignores case",
			key:    AnswerKey{Type: model.ShortAnswer, Correct: "bonjour", Strategy: StrategyPassthrough},
			answer: " Bonjour ",
			want:   true,
		},
		{
			name:   "short answer wrong word",
			key:    AnswerKey{Type: model.ShortAnswer, Correct: "bonjour", Strategy: StrategyPassthrough},
			answer: "bonsoir",
			want:   false,
		},
		{
			name:   "multiple choice exact match",
			key:    AnswerKey{Type: model.MultipleChoice, Correct: "A", Strategy: StrategyLetterMatch},
			answer: "A",
			want:   true,
		},
		{
			name:   "multiple choice is case sensitive",
			key:    AnswerKey{Type: model.MultipleChoice, Correct: "A", Strategy: StrategyLetterMatch},
			answer: "a",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.IsCorrect(tt.answer))
		})
	}
}

func TestParseUserAnswers(t *testing.T) {
	answers := ParseUserAnswers(`{"12":"A","13":" bonjour ","14":["x","y"],"bad":"ignored"}`)

	require.Len(t, answers, 3)
	assert.Equal(t, "A", answers[12])
	assert.Equal(t, " bonjour ", answers[13])
	// 非字符串的值保留原始 JSON 参与比较
	assert.Equal(t, `["x","y"]`, answers[14])
}

func TestParseUserAnswers_Empty(t *testing.T) {
	assert.Empty(t, ParseUserAnswers(""))
	assert.Empty(t, ParseUserAnswers("null"))
	assert.Empty(t, ParseUserAnswers("not json"))
}

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", optionLetter(0))
	assert.Equal(t, "Z", optionLetter(25))
	assert.Equal(t, "27", optionLetter(26))
}
