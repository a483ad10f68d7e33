package model

import (
	"time"
)

// UserProgress 每个 (用户, 章节) 一行，Attempts 只增不减
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID         uint       `gorm:"uniqueIndex:idx_user_chapter;not null" json:"userId"`
	ChapterID      uint       `gorm:"uniqueIndex:idx_user_chapter;not null" json:"chapterId"`
	Score          int        `gorm:"default:0" json:"score"`
	TotalQuestions int        `gorm:"default:0" json:"totalQuestions"`
	CorrectAnswers int        `gorm:"default:0" json:"correctAnswers"`
	Attempts       int        `gorm:"default:1" json:"attempts"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
