package model

import "time"

// Friendship statuses. There is no "declined": rejecting a pending request
// deletes the row. Blocked is terminal.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipBlocked  = "blocked"
)

// Friendship is one directed row representing an undirected relationship.
// The direction (requester vs receiver) is kept because only the receiver may
// accept; lookups must always check both directions.
type Friendship struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID int64 `gorm:"not null;index:idx_requester" json:"requester_id"`
	ReceiverID  int64 `gorm:"not null;index:idx_receiver" json:"receiver_id"`
	// PairLo/PairHi hold the two user ids in ascending order while the row
	// is pending or accepted, and are nulled on block. The unique index over
	// them makes the store reject a second active row for the same pair in
	// either direction, whichever transaction commits second.
	PairLo    *int64    `gorm:"uniqueIndex:uidx_active_pair" json:"-"`
	PairHi    *int64    `gorm:"uniqueIndex:uidx_active_pair" json:"-"`
	Status    string    `gorm:"size:16;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Requester *User `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Receiver  *User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

// NewFriendship builds a pending row from requester to receiver with the
// unordered-pair key populated.
func NewFriendship(requesterID, receiverID int64) *Friendship {
	lo, hi := requesterID, receiverID
	if lo > hi {
		lo, hi = hi, lo
	}
	return &Friendship{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		PairLo:      &lo,
		PairHi:      &hi,
		Status:      FriendshipPending,
	}
}

func (Friendship) TableName() string { return "friendships" }

// Involves reports whether userID is on either side of the row.
func (f *Friendship) Involves(userID int64) bool {
	return f.RequesterID == userID || f.ReceiverID == userID
}

// OtherSide returns the participant opposite to userID.
func (f *Friendship) OtherSide(userID int64) int64 {
	if f.RequesterID == userID {
		return f.ReceiverID
	}
	return f.RequesterID
}
