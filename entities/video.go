package entities

import (
	"github.com/google/uuid"
	"time"
)

type Video struct {
	ID           uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Description  string    `json:"description" gorm:"type:text;not null"`
	VideoFile    string    `json:"videoFile" gorm:"type:varchar(1024);not null"`
	Thumbnail    string    `json:"thumbnail" gorm:"type:varchar(1024);not null"`
	Duration     float64   `json:"duration" gorm:"type:numeric(12,2);not null;default:0"`
	OwnerId      uuid.UUID `json:"owner" gorm:"type:uuid;not null;index:idx_videos_owner_id"`
	IsPublished  bool      `json:"isPublished" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"createdAt" gorm:"type:timestamptz;not null;index:idx_videos_created_at"`
	UpdatedAt    time.Time `json:"updatedAt" gorm:"type:timestamptz;not null"`
	OwnerDetails *User     `json:"ownerDetails,omitempty" gorm:"foreignKey:OwnerId;references:ID"`
}

func (Video) TableName() string {
	return "videos"
}

// VideoUpdate carries the fields to replace on a video. Nil fields are left untouched.
type VideoUpdate struct {
	Title       *string
	Description *string
	Thumbnail   *string
	IsPublished *bool
}

func (u VideoUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Thumbnail == nil && u.IsPublished == nil
}

// Apply copies the non-nil fields of u onto v.
func (u VideoUpdate) Apply(v *Video) {
	if u.Title != nil {
		v.Title = *u.Title
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.Thumbnail != nil {
		v.Thumbnail = *u.Thumbnail
	}
	if u.IsPublished != nil {
		v.IsPublished = *u.IsPublished
	}
}
