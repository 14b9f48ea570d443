package model

import "time"

// Post is a feed entry. Image is an opaque reference; file handling lives
// outside this service.
type Post struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"index:idx_post_user;not null" json:"user_id"`
	Content   string    `gorm:"type:text" json:"content"`
	Image     string    `gorm:"size:255" json:"image"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Post) TableName() string { return "posts" }
