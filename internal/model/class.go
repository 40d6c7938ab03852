package model

// swagger:model Class
type Class struct {
	BaseModel
	Name      string `gorm:"size:100;not null" json:"name"`
	TeacherID uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	Grade     string `gorm:"size:20" json:"grade"`
}

func (Class) TableName() string {
	return "classes"
}

// ClassMember 班级名册，报表聚合的统计范围
// swagger:model ClassMember
type ClassMember struct {
	BaseModel
	ClassID   uint `gorm:"index:idx_class_student,unique;type:bigint unsigned" json:"classId"`
	StudentID uint `gorm:"index:idx_class_student,unique;type:bigint unsigned" json:"studentId"`

	Student *User `gorm:"foreignKey:StudentID" json:"student,omitempty"`
}

func (ClassMember) TableName() string {
	return "class_members"
}
