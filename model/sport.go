package model

import "time"

// SportMembership marks a sport as part of a user's roster.
// (user_id, sport_name) is a set: inserts are idempotent.
type SportMembership struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:uidx_user_sport;index:idx_sport_user" json:"user_id"`
	SportName string    `gorm:"size:64;not null;uniqueIndex:uidx_user_sport;index:idx_sport_name" json:"sport_name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SportMembership) TableName() string { return "user_sports" }

// SportPost is a showcase entry a user publishes about a sport.
type SportPost struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64     `gorm:"index:idx_sportpost_user;not null" json:"user_id"`
	SportName   string    `gorm:"size:64;not null" json:"sport_name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Image       string    `gorm:"size:255" json:"image"` // opaque reference, storage is external
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (SportPost) TableName() string { return "sport_posts" }
