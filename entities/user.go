package entities

import "github.com/google/uuid"

// User is owned by the account service; this service only reads it.
type User struct {
	ID       uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	Email    string    `json:"email" gorm:"type:varchar(255)"`
	Username string    `json:"username" gorm:"type:varchar(255)"`
}

func (User) TableName() string {
	return "users"
}
