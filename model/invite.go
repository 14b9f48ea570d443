package model

import "time"

// ActivityInvite statuses.
const (
	InvitePending  = "pending"
	InviteAccepted = "accepted"
	InviteDeclined = "declined"
)

// ActivityInvite is a directed proposal to add a shared sport.
// The (inviter, invitee, sport) triple is unique for the lifetime of the
// table: a declined invite cannot be re-sent for the same triple.
type ActivityInvite struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	InviterID int64     `gorm:"not null;uniqueIndex:uidx_invite_triple" json:"inviter_id"`
	InviteeID int64     `gorm:"not null;uniqueIndex:uidx_invite_triple;index:idx_invitee" json:"invitee_id"`
	SportName string    `gorm:"size:64;not null;uniqueIndex:uidx_invite_triple" json:"sport_name"`
	Status    string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Inviter *User `gorm:"foreignKey:InviterID" json:"inviter,omitempty"`
}

func (ActivityInvite) TableName() string { return "activity_invites" }
