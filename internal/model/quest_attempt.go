package model

import "time"

// QuestAttempt 学生单次任务作答记录。
// UserAnswers 为 JSON：quest_question_id -> 提交的答案
// swagger:model QuestAttempt
type QuestAttempt struct {
	BaseModel
	StudentID     uint       `gorm:"index:idx_student_quest;type:bigint unsigned" json:"studentId"`
	QuestID       uint       `gorm:"index:idx_student_quest;type:bigint unsigned" json:"questId"`
	AttemptNumber int        `gorm:"default:1" json:"attemptNumber"`
	Score         int        `json:"score"`
	MaxScore      int        `json:"maxScore"`
	Percentage    *float64   `json:"percentage"` // 可能为 NULL，统计时按 0 处理
	Passed        bool       `gorm:"default:false" json:"passed"`
	UserAnswers   string     `gorm:"type:json" json:"userAnswers"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

func (QuestAttempt) TableName() string {
	return "student_quest_attempts"
}
