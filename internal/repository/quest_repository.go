package repository

import (
	"questedu_backend/internal/model"

	"gorm.io/gorm"
)

type QuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: db}
}

func (r *QuestRepository) Create(quest *model.Quest) error {
	return r.DB.Create(quest).Error
}

func (r *QuestRepository) Update(quest *model.Quest) error {
	return r.DB.Save(quest).Error
}

func (r *QuestRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quest{}, id).Error
}

func (r *QuestRepository) FindByID(id uint) (*model.Quest, error) {
	var quest model.Quest
	if err := r.DB.First(&quest, id).Error; err != nil {
		return nil, err
	}
	return &quest, nil
}

// ListByLesson 按课时返回任务，保持排序以对齐报表列
func (r *QuestRepository) ListByLesson(lessonID uint, publishedOnly bool) ([]model.Quest, error) {
	var quests []model.Quest
	query := r.DB.Where("lesson_id = ?", lessonID)
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	err := query.Order("ordering ASC, id ASC").Find(&quests).Error
	return quests, err
}

func (r *QuestRepository) DetachQuestion(questID, questQuestionID uint) error {
	return r.DB.Where("quest_id = ? AND id = ?", questID, questQuestionID).
		Delete(&model.QuestQuestion{}).Error
}

// ListQuestQuestions 返回若干任务的题目关联（带题目本体），按任务内顺序排列
func (r *QuestRepository) ListQuestQuestions(questIDs []uint) ([]model.QuestQuestion, error) {
	var links []model.QuestQuestion
	if len(questIDs) == 0 {
		return links, nil
	}
	err := r.DB.Preload("Question").Where("quest_id IN ?", questIDs).
		Order("quest_id ASC, ordering ASC, id ASC").Find(&links).Error
	return links, err
}

func (r *QuestRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := r.DB.Preload("Chapter").First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *QuestRepository) ListLessonsByChapter(chapterID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("chapter_id = ?", chapterID).Order("ordering ASC, id ASC").Find(&lessons).Error
	return lessons, err
}

func (r *QuestRepository) ListChapters() ([]model.Chapter, error) {
	var chapters []model.Chapter
	err := r.DB.Order("ordering ASC, id ASC").Find(&chapters).Error
	return chapters, err
}
