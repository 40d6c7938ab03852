package model

// swagger:model Quest
type Quest struct {
	BaseModel
	LessonID    uint   `gorm:"index;type:bigint unsigned" json:"lessonId"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	MinPoints   int    `gorm:"default:70" json:"minPoints"`   // 及格线（百分比）
	MaxAttempts int    `gorm:"default:3" json:"maxAttempts"`  // 最大尝试次数
	XPReward    int    `gorm:"default:50" json:"xpReward"`    // 首次通关经验奖励
	CoinReward  int    `gorm:"default:10" json:"coinReward"`  // 首次通关金币奖励
	Published   bool   `gorm:"default:false" json:"published"`
	Ordering    int    `gorm:"default:0" json:"ordering"`
	CreatorID   uint   `gorm:"type:bigint unsigned" json:"creatorId"`

	Lesson *Lesson `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
}

func (Quest) TableName() string {
	return "quests"
}
