package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	// ExternalID 外部身份提供方的用户标识，首次带身份创建课程时落库
	ExternalID string    `gorm:"size:100;index" json:"externalId"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:100;unique;not null" json:"email"`
	Password   string    `gorm:"size:100" json:"-"`
	LastLogin  time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
