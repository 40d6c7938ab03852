package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"questedu_backend/internal/model"
	"questedu_backend/internal/repository"
	"questedu_backend/internal/util"
	"questedu_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuestService struct {
	QuestRepo       *repository.QuestRepository
	AttemptRepo     *repository.AttemptRepository
	UserRepo        *repository.UserRepository
	LeaderboardRepo *repository.LeaderboardRepository
	DB              *gorm.DB
}

func NewQuestService(
	questRepo *repository.QuestRepository,
	attemptRepo *repository.AttemptRepository,
	userRepo *repository.UserRepository,
	leaderboardRepo *repository.LeaderboardRepository,
	db *gorm.DB,
) *QuestService {
	return &QuestService{
		QuestRepo:       questRepo,
		AttemptRepo:     attemptRepo,
		UserRepo:        userRepo,
		LeaderboardRepo: leaderboardRepo,
		DB:              db,
	}
}

type QuestRequest struct {
	LessonID    uint   `json:"lessonId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	MinPoints   int    `json:"minPoints"`
	MaxAttempts int    `json:"maxAttempts"`
	XPReward    int    `json:"xpReward"`
	CoinReward  int    `json:"coinReward"`
	Ordering    int    `json:"ordering"`
}

func (s *QuestService) CreateQuest(creatorID uint, req QuestRequest) (*model.Quest, error) {
	quest := &model.Quest{
		LessonID:    req.LessonID,
		Title:       req.Title,
		Description: req.Description,
		MinPoints:   req.MinPoints,
		MaxAttempts: req.MaxAttempts,
		XPReward:    req.XPReward,
		CoinReward:  req.CoinReward,
		Ordering:    req.Ordering,
		CreatorID:   creatorID,
	}
	if quest.MinPoints <= 0 {
		quest.MinPoints = 70
	}
	if quest.MaxAttempts <= 0 {
		quest.MaxAttempts = 3
	}
	if err := s.QuestRepo.Create(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

func (s *QuestService) UpdateQuest(questID uint, req QuestRequest) (*model.Quest, error) {
	quest, err := s.QuestRepo.FindByID(questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}

	quest.Title = req.Title
	quest.Description = req.Description
	if req.MinPoints > 0 {
		quest.MinPoints = req.MinPoints
	}
	if req.MaxAttempts > 0 {
		quest.MaxAttempts = req.MaxAttempts
	}
	quest.XPReward = req.XPReward
	quest.CoinReward = req.CoinReward
	quest.Ordering = req.Ordering

	if err := s.QuestRepo.Update(quest); err != nil {
		return nil, err
	}
	return quest, nil
}

func (s *QuestService) PublishQuest(questID uint, publish bool) error {
	quest, err := s.QuestRepo.FindByID(questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestNotFound
		}
		return err
	}
	quest.Published = publish
	return s.QuestRepo.Update(quest)
}

func (s *QuestService) DeleteQuest(questID uint) error {
	return s.QuestRepo.Delete(questID)
}

func (s *QuestService) ListByLesson(lessonID uint, publishedOnly bool) ([]model.Quest, error) {
	return s.QuestRepo.ListByLesson(lessonID, publishedOnly)
}

func (s *QuestService) ListChapters() ([]model.Chapter, error) {
	return s.QuestRepo.ListChapters()
}

func (s *QuestService) ListLessons(chapterID uint) ([]model.Lesson, error) {
	return s.QuestRepo.ListLessonsByChapter(chapterID)
}

func (s *QuestService) GetQuestions(questID uint) ([]model.QuestQuestion, error) {
	return s.QuestRepo.ListQuestQuestions([]uint{questID})
}

type QuestionRequest struct {
	QuestionText  string             `json:"questionText" binding:"required"`
	QuestionType  model.QuestionType `json:"questionType" binding:"required"`
	CorrectAnswer *string            `json:"correctAnswer"`
	Options       interface{}        `json:"options"`
	AudioURL      string             `json:"audioUrl"`
	Ordering      int                `json:"ordering"`
}

// AddQuestion 创建题目并挂到任务下，两步在一个事务里
func (s *QuestService) AddQuestion(creatorID, questID uint, req QuestionRequest) (*model.QuestQuestion, error) {
	if _, err := s.QuestRepo.FindByID(questID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}

	ob, _ := json.Marshal(req.Options)
	question := &model.Question{
		QuestionText:  req.QuestionText,
		QuestionType:  req.QuestionType,
		CorrectAnswer: req.CorrectAnswer,
		Options:       string(ob),
		AudioURL:      req.AudioURL,
		CreatorID:     creatorID,
	}

	var link *model.QuestQuestion
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		link = &model.QuestQuestion{
			QuestID:    questID,
			QuestionID: question.ID,
			Ordering:   req.Ordering,
		}
		return tx.Create(link).Error
	})
	if err != nil {
		return nil, err
	}

	link.Question = question
	return link, nil
}

func (s *QuestService) RemoveQuestion(questID, questQuestionID uint) error {
	return s.QuestRepo.DetachQuestion(questID, questQuestionID)
}

// StartAttempt 开始一次任务挑战，尝试次数受 MaxAttempts 限制
func (s *QuestService) StartAttempt(studentID, questID uint) (*model.QuestAttempt, error) {
	quest, err := s.QuestRepo.FindByID(questID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestNotFound
		}
		return nil, err
	}
	if !quest.Published {
		return nil, util.ErrQuestNotPublished
	}

	count, err := s.AttemptRepo.CountByStudentAndQuest(studentID, questID)
	if err != nil {
		return nil, err
	}
	if quest.MaxAttempts > 0 && int(count) >= quest.MaxAttempts {
		return nil, util.ErrAttemptLimitReached
	}

	attempt := &model.QuestAttempt{
		StudentID:     studentID,
		QuestID:       questID,
		AttemptNumber: int(count) + 1,
		StartedAt:     time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// ListMyAttempts 学生查询自己在某任务上的历史尝试
func (s *QuestService) ListMyAttempts(studentID, questID uint) ([]model.QuestAttempt, error) {
	return s.AttemptRepo.ListByStudentAndQuest(studentID, questID)
}

// ScoreAnswers 按题目逐一判分，每题 1 分
func ScoreAnswers(links []model.QuestQuestion, answers map[uint]string) (score, maxScore int) {
	for _, qq := range links {
		if qq.Question == nil {
			continue
		}
		maxScore++
		answer, ok := answers[qq.ID]
		if !ok {
			continue
		}
		key := ResolveAnswerKey(qq.Question)
		if key.IsCorrect(answer) {
			score++
		}
	}
	return score, maxScore
}

// SubmitAttempt 提交作答并判分，首次通关发放经验和金币奖励
func (s *QuestService) SubmitAttempt(ctx context.Context, studentID, questID, attemptID uint, answers map[uint]string) (*model.QuestAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.StudentID != studentID || attempt.QuestID != questID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.CompletedAt != nil {
		return nil, util.ErrAttemptSubmitted
	}

	quest, err := s.QuestRepo.FindByID(questID)
	if err != nil {
		return nil, err
	}
	links, err := s.QuestRepo.ListQuestQuestions([]uint{questID})
	if err != nil {
		return nil, err
	}

	score, maxScore := ScoreAnswers(links, answers)

	percentage := 0.0
	if maxScore > 0 {
		percentage = float64(score) / float64(maxScore) * 100
	}
	passed := percentage >= float64(quest.MinPoints)

	alreadyPassed, err := s.AttemptRepo.HasPassed(studentID, questID)
	if err != nil {
		return nil, err
	}

	raw, _ := json.Marshal(stringKeyed(answers))
	now := time.Now()
	attempt.Score = score
	attempt.MaxScore = maxScore
	attempt.Percentage = &percentage
	attempt.Passed = passed
	attempt.UserAnswers = string(raw)
	attempt.CompletedAt = &now

	if err := s.AttemptRepo.Update(attempt); err != nil {
		return nil, err
	}

	// 首次通关奖励
	if passed && !alreadyPassed {
		if err := s.UserRepo.AddRewards(studentID, quest.XPReward, quest.CoinReward); err != nil {
			logger.Log.Error("reward grant failed",
				zap.Uint("studentId", studentID), zap.Uint("questId", questID), zap.Error(err))
		} else {
			s.refreshLeaderboards(ctx, studentID)
		}
	}

	return attempt, nil
}

func (s *QuestService) refreshLeaderboards(ctx context.Context, studentID uint) {
	user, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		return
	}
	if err := s.LeaderboardRepo.SetScore(ctx, "xp", studentID, user.XP); err != nil {
		logger.Log.Warn("xp leaderboard update failed", zap.Error(err))
	}
	if err := s.LeaderboardRepo.SetScore(ctx, "coins", studentID, user.Coins); err != nil {
		logger.Log.Warn("coin leaderboard update failed", zap.Error(err))
	}
}

func stringKeyed(answers map[uint]string) map[string]string {
	m := make(map[string]string, len(answers))
	for k, v := range answers {
		m[util.FormatUint(k)] = v
	}
	return m
}
