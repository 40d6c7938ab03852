package repository

import (
	"questedu_backend/internal/model"

	"gorm.io/gorm"
)

type ClassRepository struct {
	DB *gorm.DB
}

func NewClassRepository(db *gorm.DB) *ClassRepository {
	return &ClassRepository{DB: db}
}

func (r *ClassRepository) Create(class *model.Class) error {
	return r.DB.Create(class).Error
}

func (r *ClassRepository) Update(class *model.Class) error {
	return r.DB.Save(class).Error
}

func (r *ClassRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Class{}, id).Error
}

func (r *ClassRepository) FindByID(id uint) (*model.Class, error) {
	var class model.Class
	if err := r.DB.First(&class, id).Error; err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *ClassRepository) ListByTeacher(teacherID uint) ([]model.Class, error) {
	var classes []model.Class
	err := r.DB.Where("teacher_id = ?", teacherID).Order("id ASC").Find(&classes).Error
	return classes, err
}

func (r *ClassRepository) AddMember(member *model.ClassMember) error {
	return r.DB.Create(member).Error
}

func (r *ClassRepository) RemoveMember(classID, studentID uint) error {
	return r.DB.Where("class_id = ? AND student_id = ?", classID, studentID).
		Delete(&model.ClassMember{}).Error
}

// ListMembers 返回名册（带学生档案）
func (r *ClassRepository) ListMembers(classID uint) ([]model.ClassMember, error) {
	var members []model.ClassMember
	err := r.DB.Preload("Student").Where("class_id = ?", classID).Find(&members).Error
	return members, err
}
