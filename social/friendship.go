package social

import (
	"context"
	"errors"

	"github.com/matchpoint-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FriendshipService owns the friendship lifecycle. A friendship is stored as
// one directed row; every lookup checks both directions so the relationship
// behaves as undirected, while the stored direction still decides who is
// allowed to accept.
type FriendshipService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFriendshipService creates a FriendshipService.
func NewFriendshipService(db *gorm.DB, logger *zap.Logger) *FriendshipService {
	return &FriendshipService{db: db, logger: logger}
}

// activeStatuses are the states in which a pair may hold at most one row.
var activeStatuses = []string{model.FriendshipPending, model.FriendshipAccepted}

// SendRequest creates a pending friendship from requesterID to the user named
// receiverUsername and returns the new row's ID.
func (s *FriendshipService) SendRequest(ctx context.Context, requesterID int64, receiverUsername string) (int64, error) {
	if receiverUsername == "" {
		return 0, ErrInvalidArgument
	}

	var id int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var receiver model.User
		if err := tx.Where("username = ?", receiverUsername).First(&receiver).Error; err != nil {
			return wrapStore(err)
		}
		if receiver.ID == requesterID {
			return ErrSelfReference
		}

		var count int64
		err := tx.Model(&model.Friendship{}).
			Where("((requester_id = ? AND receiver_id = ?) OR (requester_id = ? AND receiver_id = ?)) AND status IN ?",
				requesterID, receiver.ID, receiver.ID, requesterID, activeStatuses).
			Count(&count).Error
		if err != nil {
			return wrapStore(err)
		}
		if count > 0 {
			return ErrConflict
		}

		f := model.NewFriendship(requesterID, receiver.ID)
		if err := tx.Create(f).Error; err != nil {
			// Lost a race with a concurrent request for the same pair.
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return wrapStore(err)
		}
		id = f.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("friend request sent",
		zap.Int64("requester_id", requesterID),
		zap.String("receiver", receiverUsername),
		zap.Int64("friendship_id", id))
	return id, nil
}

// Accept marks a pending friendship accepted. Only the receiver may accept.
// Accepting an already-accepted row is a no-op.
func (s *FriendshipService) Accept(ctx context.Context, actorID, friendshipID int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Friendship
		if err := tx.First(&f, friendshipID).Error; err != nil {
			return wrapStore(err)
		}
		if f.ReceiverID != actorID {
			return ErrForbidden
		}
		switch f.Status {
		case model.FriendshipAccepted:
			return nil
		case model.FriendshipPending:
			return wrapStore(tx.Model(&f).Update("status", model.FriendshipAccepted).Error)
		default:
			return ErrInvalidTransition
		}
	})
}

// Reject deletes a pending request. Either participant may reject; rejection
// removes the row rather than recording a declined status, so the pair can
// try again later.
func (s *FriendshipService) Reject(ctx context.Context, actorID, friendshipID int64) error {
	return s.deleteInStatus(ctx, actorID, friendshipID, model.FriendshipPending)
}

// Remove deletes an accepted friendship. Either participant may remove.
func (s *FriendshipService) Remove(ctx context.Context, actorID, friendshipID int64) error {
	return s.deleteInStatus(ctx, actorID, friendshipID, model.FriendshipAccepted)
}

func (s *FriendshipService) deleteInStatus(ctx context.Context, actorID, friendshipID int64, wantStatus string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Friendship
		if err := tx.First(&f, friendshipID).Error; err != nil {
			return wrapStore(err)
		}
		if !f.Involves(actorID) {
			return ErrForbidden
		}
		if f.Status != wantStatus {
			return ErrInvalidTransition
		}
		return wrapStore(tx.Delete(&f).Error)
	})
}

// Block moves a friendship to the terminal blocked status. Either participant
// may block, from any prior status: even a pending request can be blocked
// rather than rejected. The blocked row keeps its record but releases the
// pair's active slot, so a later fresh request is allowed. Blocking an
// already-blocked row is a no-op.
func (s *FriendshipService) Block(ctx context.Context, actorID, friendshipID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var f model.Friendship
		if err := tx.First(&f, friendshipID).Error; err != nil {
			return wrapStore(err)
		}
		if !f.Involves(actorID) {
			return ErrForbidden
		}
		if f.Status == model.FriendshipBlocked {
			return nil
		}
		return wrapStore(tx.Model(&f).Updates(map[string]interface{}{
			"status":  model.FriendshipBlocked,
			"pair_lo": nil,
			"pair_hi": nil,
		}).Error)
	})
	if err == nil {
		s.logger.Info("friendship blocked",
			zap.Int64("friendship_id", friendshipID),
			zap.Int64("actor_id", actorID))
	}
	return err
}

// ListFriends returns every user on the opposite side of an accepted row,
// regardless of which side userID is on.
func (s *FriendshipService) ListFriends(ctx context.Context, userID int64) ([]model.User, error) {
	var users []model.User
	err := s.db.WithContext(ctx).
		Joins("JOIN friendships f ON (f.requester_id = ? AND f.receiver_id = users.id) OR (f.receiver_id = ? AND f.requester_id = users.id)",
			userID, userID).
		Where("f.status = ?", model.FriendshipAccepted).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, wrapStore(err)
	}
	return users, nil
}

// ListIncoming returns pending requests addressed to userID, requester
// preloaded for display.
func (s *FriendshipService) ListIncoming(ctx context.Context, userID int64) ([]model.Friendship, error) {
	var rows []model.Friendship
	err := s.db.WithContext(ctx).
		Preload("Requester").
		Where("receiver_id = ? AND status = ?", userID, model.FriendshipPending).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, wrapStore(err)
	}
	return rows, nil
}

// Get loads a friendship row by ID.
func (s *FriendshipService) Get(ctx context.Context, friendshipID int64) (*model.Friendship, error) {
	var f model.Friendship
	if err := s.db.WithContext(ctx).First(&f, friendshipID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStore(err)
	}
	return &f, nil
}
