package social

import (
	"context"

	"github.com/matchpoint-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterService owns the set of sports each user plays. Add and Remove are
// idempotent: the roster is a set, not a list.
type RosterService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRosterService creates a RosterService.
func NewRosterService(db *gorm.DB, logger *zap.Logger) *RosterService {
	return &RosterService{db: db, logger: logger}
}

// addMembership inserts the (user, sport) pair, ignoring the insert if it is
// already present. Shared with InviteService so invite acceptance can run it
// inside its own transaction.
func addMembership(tx *gorm.DB, userID int64, sport string) error {
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SportMembership{UserID: userID, SportName: sport}).Error
}

// Add puts a sport on the user's roster. No error if already present.
func (s *RosterService) Add(ctx context.Context, userID int64, sport string) error {
	if userID == 0 || sport == "" {
		return ErrInvalidArgument
	}
	return wrapStore(addMembership(s.db.WithContext(ctx), userID, sport))
}

// Remove takes a sport off the user's roster. No error if absent.
func (s *RosterService) Remove(ctx context.Context, userID int64, sport string) error {
	if userID == 0 || sport == "" {
		return ErrInvalidArgument
	}
	return wrapStore(s.db.WithContext(ctx).
		Where("user_id = ? AND sport_name = ?", userID, sport).
		Delete(&model.SportMembership{}).Error)
}

// List returns the user's sports, sorted by name.
func (s *RosterService) List(ctx context.Context, userID int64) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&model.SportMembership{}).
		Where("user_id = ?", userID).
		Order("sport_name").
		Pluck("sport_name", &names).Error
	if err != nil {
		return nil, wrapStore(err)
	}
	return names, nil
}

// Participants returns every user with the sport on their roster, excluding
// excludeUserID (normally the caller).
func (s *RosterService) Participants(ctx context.Context, sport string, excludeUserID int64) ([]model.User, error) {
	if sport == "" {
		return nil, ErrInvalidArgument
	}
	var users []model.User
	err := s.db.WithContext(ctx).
		Joins("JOIN user_sports us ON us.user_id = users.id").
		Where("us.sport_name = ? AND us.user_id <> ?", sport, excludeUserID).
		Order("users.username").
		Find(&users).Error
	if err != nil {
		return nil, wrapStore(err)
	}
	return users, nil
}
