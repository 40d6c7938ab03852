package repository

import (
	"questedu_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) Update(attempt *model.QuestAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *AttemptRepository) FindByID(id uint) (*model.QuestAttempt, error) {
	var a model.QuestAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) CountByStudentAndQuest(studentID, questID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuestAttempt{}).
		Where("student_id = ? AND quest_id = ?", studentID, questID).Count(&count).Error
	return count, err
}

func (r *AttemptRepository) HasPassed(studentID, questID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.QuestAttempt{}).
		Where("student_id = ? AND quest_id = ? AND passed = ?", studentID, questID, true).
		Count(&count).Error
	return count > 0, err
}

// ListCompleted 报表口径：指定任务集与学生集的全部已完成尝试
func (r *AttemptRepository) ListCompleted(questIDs, studentIDs []uint) ([]model.QuestAttempt, error) {
	var attempts []model.QuestAttempt
	if len(questIDs) == 0 || len(studentIDs) == 0 {
		return attempts, nil
	}
	err := r.DB.Where("quest_id IN ? AND student_id IN ? AND completed_at IS NOT NULL", questIDs, studentIDs).
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByStudentAndQuest(studentID, questID uint) ([]model.QuestAttempt, error) {
	var attempts []model.QuestAttempt
	err := r.DB.Where("student_id = ? AND quest_id = ?", studentID, questID).
		Order("attempt_number ASC").Find(&attempts).Error
	return attempts, err
}
