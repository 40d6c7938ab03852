package model

// ReportSnapshot 已保存的成绩报表，保存后不可变（只有删除/重建路径）
// swagger:model ReportSnapshot
type ReportSnapshot struct {
	UUIDBase
	TeacherID uint   `gorm:"index;type:bigint unsigned" json:"teacherId"`
	ClassID   uint   `gorm:"index;type:bigint unsigned" json:"classId"`
	ChapterID uint   `gorm:"type:bigint unsigned" json:"chapterId"`
	LessonID  uint   `gorm:"type:bigint unsigned" json:"lessonId"`
	Payload   string `gorm:"type:json" json:"payload"`
	CSVObject string `gorm:"size:255" json:"csvObject,omitempty"` // 对象存储中的 CSV 归档路径
}

func (ReportSnapshot) TableName() string {
	return "saved_reports"
}
