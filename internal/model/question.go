package model

type QuestionType string

const (
	MultipleChoice  QuestionType = "multiple_choice"
	ShortAnswer     QuestionType = "short_answer"
	Essay           QuestionType = "essay"
	Matching        QuestionType = "matching"
	ArrangeSentence QuestionType = "arrange_sentence"
	Listening       QuestionType = "listening"
)

// Question 题库题目。Options 为 JSON，历史数据存在两种形态：
// 数组 [{text, is_correct}] 或字母键控对象 {"A": {...}}，
// CorrectAnswer 可能为空，需要走解析链兜底（见 service.ResolveAnswerKey）
// swagger:model Question
type Question struct {
	BaseModel
	QuestionText  string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType  QuestionType `gorm:"size:30;not null" json:"questionType"`
	CorrectAnswer *string      `gorm:"size:500" json:"correctAnswer,omitempty"`
	Options       string       `gorm:"type:json" json:"options"`
	AudioURL      string       `gorm:"size:255" json:"audioUrl,omitempty"`
	CreatorID     uint         `gorm:"type:bigint unsigned" json:"creatorId"`
}

func (Question) TableName() string {
	return "questions"
}

// QuestQuestion 关联任务与题目，其 ID 即答案映射中的键
// swagger:model QuestQuestion
type QuestQuestion struct {
	BaseModel
	QuestID    uint `gorm:"index:idx_quest_question,unique;type:bigint unsigned" json:"questId"`
	QuestionID uint `gorm:"index:idx_quest_question,unique;type:bigint unsigned" json:"questionId"`
	Ordering   int  `gorm:"default:0" json:"ordering"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (QuestQuestion) TableName() string {
	return "quest_questions"
}
