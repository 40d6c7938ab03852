package repository

import (
	"questedu_backend/internal/model"

	"gorm.io/gorm"
)

type ReportRepository struct {
	DB *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{DB: db}
}

// Create 快照一经保存即不可变，没有更新路径
func (r *ReportRepository) Create(snapshot *model.ReportSnapshot) error {
	return r.DB.Create(snapshot).Error
}

func (r *ReportRepository) FindByID(id string) (*model.ReportSnapshot, error) {
	var s model.ReportSnapshot
	if err := r.DB.Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ReportRepository) ListByTeacher(teacherID uint, classID uint) ([]model.ReportSnapshot, error) {
	var snapshots []model.ReportSnapshot
	query := r.DB.Where("teacher_id = ?", teacherID)
	if classID > 0 {
		query = query.Where("class_id = ?", classID)
	}
	err := query.Order("created_at DESC").Find(&snapshots).Error
	return snapshots, err
}

func (r *ReportRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.ReportSnapshot{}).Error
}
