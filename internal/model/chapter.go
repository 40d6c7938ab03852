package model

// swagger:model Chapter
type Chapter struct {
	BaseModel
	Title    string `gorm:"size:200;not null" json:"title"`
	Ordering int    `gorm:"default:0" json:"ordering"`
}

func (Chapter) TableName() string {
	return "chapters"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ChapterID uint   `gorm:"index;type:bigint unsigned" json:"chapterId"`
	Title     string `gorm:"size:200;not null" json:"title"`
	Ordering  int    `gorm:"default:0" json:"ordering"`

	Chapter *Chapter `gorm:"foreignKey:ChapterID" json:"chapter,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
