package model

import (
	"gorm.io/datatypes"
)

// swagger:model Chapter
type Chapter struct {
	BaseModel
	CourseID uint `gorm:"uniqueIndex:idx_course_position;not null" json:"courseId"`
	// Position 1 起步，同一课程内唯一且连续
	Position int            `gorm:"uniqueIndex:idx_course_position;not null" json:"position"`
	Title    string         `gorm:"size:255;not null" json:"title"`
	Content  string         `gorm:"type:text" json:"content"`
	Videos   datatypes.JSON `gorm:"type:json" json:"videos,omitempty"`
	Quiz     datatypes.JSON `gorm:"type:json" json:"quiz,omitempty"`
}

func (Chapter) TableName() string {
	return "chapters"
}
