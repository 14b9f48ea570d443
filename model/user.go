package model

import "time"

// User represents a registered account.
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	PasswordHash string    `gorm:"size:64;not null" json:"-"`
	Pronouns     string    `gorm:"size:32" json:"pronouns"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Avatar       string    `gorm:"size:255" json:"avatar"` // opaque filename/URL, storage is external
	Status       int       `gorm:"default:1" json:"status"` // 0=banned 1=normal
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Label is the display form used in participant lists.
func (u *User) Label() string {
	if u.Pronouns != "" {
		return u.Username + " (" + u.Pronouns + ")"
	}
	return u.Username
}
