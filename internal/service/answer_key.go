package service

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"questedu_backend/internal/model"
	"questedu_backend/pkg/logger"

	"go.uber.org/zap"
)

// ResolutionStrategy 标记正确答案是由解析链的哪一环得出的，便于排查脏数据
type ResolutionStrategy string

const (
	StrategyLetterMatch  ResolutionStrategy = "letter_match"  // correct_answer 本身就是选项字母
	StrategyTextMatch    ResolutionStrategy = "text_match"    // correct_answer 匹配到选项文本
	StrategyFlagFallback ResolutionStrategy = "flag_fallback" // 回退到 is_correct 标记的选项
	StrategyPassthrough  ResolutionStrategy = "passthrough"   // 非选择题直接使用 correct_answer
	StrategyUnresolved   ResolutionStrategy = "unresolved"
)

type AnswerOption struct {
	Letter    string `json:"letter"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// AnswerKey 题目答案的规范化表示，入库数据形态不统一，只在摄入时解析一次
type AnswerKey struct {
	Type     model.QuestionType
	Correct  string
	Options  []AnswerOption
	Strategy ResolutionStrategy
}

func (k AnswerKey) Resolved() bool {
	return k.Strategy != StrategyUnresolved
}

// optionBlob 兼容 {text, is_correct} 对象和纯文本两种存法
type optionBlob struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

func optionLetter(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return strconv.Itoa(i + 1)
}

// parseOptions 解析 options JSON。历史数据有两种形态：
// 有序数组 [{text, is_correct}] 和字母键控对象 {"A": {...}} / {"A": "text"}
func parseOptions(raw string) []AnswerOption {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil
	}

	var arr []optionBlob
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		opts := make([]AnswerOption, 0, len(arr))
		for i, o := range arr {
			opts = append(opts, AnswerOption{
				Letter:    optionLetter(i),
				Text:      o.Text,
				IsCorrect: o.IsCorrect,
			})
		}
		return opts
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &keyed); err == nil {
		letters := make([]string, 0, len(keyed))
		for k := range keyed {
			letters = append(letters, k)
		}
		sort.Strings(letters)

		opts := make([]AnswerOption, 0, len(letters))
		for _, letter := range letters {
			var blob optionBlob
			if err := json.Unmarshal(keyed[letter], &blob); err != nil {
				// 值可能是裸字符串
				var text string
				if err := json.Unmarshal(keyed[letter], &text); err != nil {
					continue
				}
				blob = optionBlob{Text: text}
			}
			opts = append(opts, AnswerOption{
				Letter:    strings.ToUpper(letter),
				Text:      blob.Text,
				IsCorrect: blob.IsCorrect,
			})
		}
		return opts
	}

	return nil
}

// ResolveAnswerKey 确定题目的规范正确答案。
// 选择类题目依次尝试：字母直配 → 选项文本匹配 → is_correct 标记兜底；
// 无选项的题型直接透传 correct_answer
func ResolveAnswerKey(q *model.Question) AnswerKey {
	key := AnswerKey{
		Type:     q.QuestionType,
		Options:  parseOptions(q.Options),
		Strategy: StrategyUnresolved,
	}

	correct := ""
	if q.CorrectAnswer != nil {
		correct = strings.TrimSpace(*q.CorrectAnswer)
	}

	if len(key.Options) == 0 {
		if correct != "" {
			key.Correct = correct
			key.Strategy = StrategyPassthrough
		}
		logResolution(q.ID, key.Strategy)
		return key
	}

	// 1. correct_answer 就是已知的选项字母
	if correct != "" {
		upper := strings.ToUpper(correct)
		for _, opt := range key.Options {
			if upper == opt.Letter {
				key.Correct = opt.Letter
				key.Strategy = StrategyLetterMatch
				logResolution(q.ID, key.Strategy)
				return key
			}
		}

		// 2. correct_answer 匹配选项文本
		for _, opt := range key.Options {
			if strings.EqualFold(correct, strings.TrimSpace(opt.Text)) {
				key.Correct = opt.Letter
				key.Strategy = StrategyTextMatch
				logResolution(q.ID, key.Strategy)
				return key
			}
		}
	}

	// 3. 兜底：取 is_correct 标记的选项
	for _, opt := range key.Options {
		if opt.IsCorrect {
			key.Correct = opt.Letter
			key.Strategy = StrategyFlagFallback
			logResolution(q.ID, key.Strategy)
			return key
		}
	}

	logResolution(q.ID, key.Strategy)
	return key
}

func logResolution(questionID uint, strategy ResolutionStrategy) {
	logger.Log.Debug("answer key resolved",
		zap.Uint("questionId", questionID),
		zap.String("strategy", string(strategy)),
	)
}

// IsCorrect 判断作答是否正确。
// short_answer 去首尾空白并忽略大小写，其余题型与规范答案精确相等
func (k AnswerKey) IsCorrect(userAnswer string) bool {
	if !k.Resolved() {
		return false
	}
	if k.Type == model.ShortAnswer {
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(k.Correct))
	}
	return userAnswer == k.Correct
}

// ParseUserAnswers 解析尝试记录里的答案映射 quest_question_id -> 答案。
// 值可能不是字符串（历史数据有数组/对象），统一序列化成 JSON 字符串参与比较
func ParseUserAnswers(raw string) map[uint]string {
	answers := make(map[uint]string)
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return answers
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return answers
	}

	for k, v := range m {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			s = string(v)
		}
		answers[uint(id)] = s
	}
	return answers
}
