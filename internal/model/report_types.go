package model

import "time"

// DifficultyBand 题目难度分级
type DifficultyBand string

const (
	BandNeedsAttention DifficultyBand = "needs_attention"
	BandModerate       DifficultyBand = "moderate"
	BandFine           DifficultyBand = "fine"
)

// QuestSummary 单个任务的整体统计。
// Completed/Passed/Failed 统计的是去重后的学生数，
// 而 Avg/Highest/Lowest 覆盖该任务的全部尝试记录（不只是最佳成绩）
type QuestSummary struct {
	QuestID           uint    `json:"questId"`
	Title             string  `json:"title"`
	TotalStudents     int     `json:"totalStudents"`
	CompletedStudents int     `json:"completedStudents"`
	PassedStudents    int     `json:"passedStudents"`
	FailedStudents    int     `json:"failedStudents"`
	AvgScore          float64 `json:"avgScore"`
	HighestScore      float64 `json:"highestScore"`
	LowestScore       float64 `json:"lowestScore"`
	TotalAttempts     int     `json:"totalAttempts"`
}

// StudentQuestBest 学生在某任务上的最佳尝试（展示用上下文一并带出）
type StudentQuestBest struct {
	Percentage   float64 `json:"percentage"`
	Passed       bool    `json:"passed"`
	AttemptCount int     `json:"attemptCount"`
	MaxAttempts  int     `json:"maxAttempts"`
	MinPoints    int     `json:"minPoints"`
}

// StudentOverall 学生跨任务平均分，仅计入已尝试过的任务
type StudentOverall struct {
	Average         float64 `json:"average"`
	QuestsAttempted int     `json:"questsAttempted"`
}

// AggregationResult 尝试聚合器输出
type AggregationResult struct {
	QuestSummaries []QuestSummary                      `json:"questSummaries"`
	BestScores     map[uint]map[uint]*StudentQuestBest `json:"bestScores"` // studentID -> questID -> best
	Overall        map[uint]StudentOverall             `json:"overall"`
}

// QuestionDifficulty 单题正确率统计。
// NoData 区分 “无人作答” 与 “有人答但全错”（两者 CorrectRate 都是 0）
type QuestionDifficulty struct {
	QuestID         uint           `json:"questId"`
	QuestTitle      string         `json:"questTitle"`
	QuestQuestionID uint           `json:"questQuestionId"`
	QuestionText    string         `json:"questionText"`
	QuestionType    QuestionType   `json:"questionType"`
	TotalAnswers    int            `json:"totalAnswers"`
	CorrectCount    int            `json:"correctCount"`
	CorrectRate     float64        `json:"correctRate"`
	Band            DifficultyBand `json:"band"`
	NoData          bool           `json:"noData"`
}

// QuestColumn 报表的任务列定义（保持任务顺序用于表格渲染）
type QuestColumn struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type ReportStats struct {
	TotalStudents int     `json:"totalStudents"`
	AvgScore      float64 `json:"avgScore"`
	HighestScore  float64 `json:"highestScore"`
	LowestScore   float64 `json:"lowestScore"`
	PassedCount   int     `json:"passedCount"`
}

// StudentRow 报表中的一行。QuestScores 的值为 nil 表示未尝试，区别于 0 分
type StudentRow struct {
	ID          uint              `json:"id"`
	Name        string            `json:"name"`
	ClassName   string            `json:"className"`
	Email       string            `json:"email"`
	QuestScores map[uint]*float64 `json:"questScores"`
	Score       float64           `json:"score"`
	Passed      bool              `json:"passed"`
	Status      string            `json:"status"`
}

// ReportPayload 报表快照的持久化 JSON 布局（与既有导出格式兼容）
type ReportPayload struct {
	LessonTitle  string               `json:"lessonTitle"`
	ChapterTitle string               `json:"chapterTitle"`
	ClassName    string               `json:"className"`
	GeneratedAt  time.Time            `json:"generatedAt"`
	QuestColumns []QuestColumn        `json:"questColumns"`
	Stats        ReportStats          `json:"stats"`
	Students     []StudentRow         `json:"students"`
	Questions    []QuestionDifficulty `json:"questions,omitempty"`
}
