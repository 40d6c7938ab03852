package service

import (
	"errors"

	"questedu_backend/internal/model"
	"questedu_backend/internal/repository"
	"questedu_backend/internal/util"

	"gorm.io/gorm"
)

type ClassService struct {
	ClassRepo *repository.ClassRepository
	UserRepo  *repository.UserRepository
}

func NewClassService(classRepo *repository.ClassRepository, userRepo *repository.UserRepository) *ClassService {
	return &ClassService{ClassRepo: classRepo, UserRepo: userRepo}
}

func (s *ClassService) CreateClass(teacherID uint, name, grade string) (*model.Class, error) {
	class := &model.Class{
		Name:      name,
		TeacherID: teacherID,
		Grade:     grade,
	}
	if err := s.ClassRepo.Create(class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) ListClasses(teacherID uint) ([]model.Class, error) {
	return s.ClassRepo.ListByTeacher(teacherID)
}

func (s *ClassService) UpdateClass(teacherID, classID uint, name, grade string) (*model.Class, error) {
	class, err := s.ownedClass(teacherID, classID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		class.Name = name
	}
	if grade != "" {
		class.Grade = grade
	}
	if err := s.ClassRepo.Update(class); err != nil {
		return nil, err
	}
	return class, nil
}

func (s *ClassService) DeleteClass(teacherID, classID uint) error {
	if _, err := s.ownedClass(teacherID, classID); err != nil {
		return err
	}
	return s.ClassRepo.Delete(classID)
}

func (s *ClassService) ownedClass(teacherID, classID uint) (*model.Class, error) {
	class, err := s.ClassRepo.FindByID(classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrClassNotFound
		}
		return nil, err
	}
	if class.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}
	return class, nil
}

func (s *ClassService) AddStudent(teacherID, classID, studentID uint) error {
	if _, err := s.ownedClass(teacherID, classID); err != nil {
		return err
	}

	student, err := s.UserRepo.FindByID(studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	if student.Role != model.Student {
		return errors.New("user is not a student")
	}

	return s.ClassRepo.AddMember(&model.ClassMember{
		ClassID:   classID,
		StudentID: studentID,
	})
}

func (s *ClassService) RemoveStudent(teacherID, classID, studentID uint) error {
	if _, err := s.ownedClass(teacherID, classID); err != nil {
		return err
	}
	return s.ClassRepo.RemoveMember(classID, studentID)
}

func (s *ClassService) ListMembers(teacherID, classID uint) ([]model.ClassMember, error) {
	if _, err := s.ownedClass(teacherID, classID); err != nil {
		return nil, err
	}
	return s.ClassRepo.ListMembers(classID)
}
