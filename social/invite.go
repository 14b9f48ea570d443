package social

import (
	"context"

	"github.com/matchpoint-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InviteService manages activity invites. At most one invite may ever exist
// for a given (inviter, invitee, sport) triple; a declined invite keeps its
// row, so the same triple cannot be re-sent.
type InviteService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewInviteService creates an InviteService.
func NewInviteService(db *gorm.DB, logger *zap.Logger) *InviteService {
	return &InviteService{db: db, logger: logger}
}

// Send creates a pending invite from inviter to invitee for the given sport.
// If an invite for the same triple already exists in any state, Send is a
// silent no-op.
func (s *InviteService) Send(ctx context.Context, inviterID, inviteeID int64, sport string) error {
	if inviterID == 0 || inviteeID == 0 || sport == "" || inviterID == inviteeID {
		return ErrInvalidArgument
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.User{}).Where("id = ?", inviteeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.ActivityInvite{
			InviterID: inviterID,
			InviteeID: inviteeID,
			SportName: sport,
			Status:    model.InvitePending,
		}).Error
	})
	return wrapStore(err)
}

// Respond resolves a pending invite. accept=true moves the invite to accepted
// and puts the sport on the invitee's roster in the same transaction; either
// both writes land or neither does. Responding again with the same answer is
// a no-op; responding with the opposite answer is rejected.
func (s *InviteService) Respond(ctx context.Context, actorID, inviteID int64, accept bool) error {
	want := model.InviteDeclined
	if accept {
		want = model.InviteAccepted
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv model.ActivityInvite
		if err := tx.First(&inv, inviteID).Error; err != nil {
			return err
		}
		if inv.InviteeID != actorID {
			return ErrForbidden
		}
		switch inv.Status {
		case want:
			return nil
		case model.InvitePending:
		default:
			return ErrInvalidTransition
		}
		if err := tx.Model(&inv).Update("status", want).Error; err != nil {
			return err
		}
		if accept {
			return addMembership(tx, inv.InviteeID, inv.SportName)
		}
		return nil
	})
	return wrapStore(err)
}

// ListIncoming returns the pending invites addressed to the user, newest
// first, with the inviter preloaded.
func (s *InviteService) ListIncoming(ctx context.Context, userID int64) ([]model.ActivityInvite, error) {
	var invites []model.ActivityInvite
	err := s.db.WithContext(ctx).
		Preload("Inviter").
		Where("invitee_id = ? AND status = ?", userID, model.InvitePending).
		Order("id DESC").
		Find(&invites).Error
	if err != nil {
		return nil, wrapStore(err)
	}
	return invites, nil
}

// Get loads one invite by ID.
func (s *InviteService) Get(ctx context.Context, inviteID int64) (*model.ActivityInvite, error) {
	var inv model.ActivityInvite
	if err := s.db.WithContext(ctx).First(&inv, inviteID).Error; err != nil {
		return nil, wrapStore(err)
	}
	return &inv, nil
}
