package model

import (
	"gorm.io/datatypes"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// CourseModule 课程内嵌的有序模块文档，整体以 JSON 存在 Course.Modules 里
type CourseModule struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Objectives  []string `json:"objectives"`
	Videos      []string `json:"videos,omitempty"` // canonical watch URLs
}

// swagger:model Course
type Course struct {
	BaseModel
	UserID       uint           `gorm:"index;not null" json:"userId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	Category     string         `gorm:"size:100;not null" json:"category"`
	Difficulty   Difficulty     `gorm:"size:20;default:'beginner'" json:"difficulty"`
	Duration     int            `gorm:"default:0" json:"duration"` // 预计学时（小时）
	ModuleCount  int            `gorm:"default:0" json:"moduleCount"`
	Modules      datatypes.JSON `gorm:"type:json" json:"modules"`
	IncludeQuiz  bool           `gorm:"default:false" json:"includeQuiz"`
	IncludeVideo bool           `gorm:"default:false" json:"includeVideo"`
	// Thumbnail 按分类确定性生成的内联 SVG，同一分类字节级一致
	Thumbnail string    `gorm:"type:text" json:"thumbnail,omitempty"`
	Chapters  []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
