package model

import (
	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "mcq"
	TrueFalse      QuestionType = "true_false"
	FillBlank      QuestionType = "fill_blank"
	CodeOutput     QuestionType = "code_output"
)

// Quiz 规范化的测验题，供统计分析用；渲染端用 Chapter.Quiz 内嵌文档
// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID    uint           `gorm:"index;not null" json:"courseId"`
	ModuleIndex int            `gorm:"not null" json:"moduleIndex"`
	Question    string         `gorm:"type:text;not null" json:"question"`
	Options     datatypes.JSON `gorm:"type:json" json:"options"`
	Answer      string         `gorm:"size:500;not null" json:"answer"`
	Explanation string         `gorm:"type:text" json:"explanation"`
	Type        QuestionType   `gorm:"size:20;default:'mcq'" json:"type"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
