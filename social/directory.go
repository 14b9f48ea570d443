package social

import (
	"context"

	"github.com/matchpoint-app/server/cache"
	"github.com/matchpoint-app/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// popularSportsKey is the cache ZSet scoring each sport by roster size.
const popularSportsKey = "sports:popular"

// DirectoryService answers read-only discovery queries: who plays what, and
// which sports are popular. The popular board is served from the cache ZSet
// and refreshed out of band by the scheduler; when the cache is cold it falls
// back to a live aggregate.
type DirectoryService struct {
	db     *gorm.DB
	cache  cache.Cache
	logger *zap.Logger
}

// NewDirectoryService creates a DirectoryService.
func NewDirectoryService(db *gorm.DB, c cache.Cache, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{db: db, cache: c, logger: logger}
}

// SportParticipantsForUser maps each sport on the user's roster to the labels
// of the other users who share it. Sports with no other participants map to
// an empty slice.
func (s *DirectoryService) SportParticipantsForUser(ctx context.Context, userID int64) (map[string][]string, error) {
	var sports []string
	err := s.db.WithContext(ctx).Model(&model.SportMembership{}).
		Where("user_id = ?", userID).
		Order("sport_name").
		Pluck("sport_name", &sports).Error
	if err != nil {
		return nil, wrapStore(err)
	}

	out := make(map[string][]string, len(sports))
	for _, sport := range sports {
		var users []model.User
		err := s.db.WithContext(ctx).
			Joins("JOIN user_sports us ON us.user_id = users.id").
			Where("us.sport_name = ? AND us.user_id <> ?", sport, userID).
			Order("users.username").
			Find(&users).Error
		if err != nil {
			return nil, wrapStore(err)
		}
		labels := make([]string, 0, len(users))
		for i := range users {
			labels = append(labels, users[i].Label())
		}
		out[sport] = labels
	}
	return out, nil
}

// sportCount is the aggregate row for the live fallback query.
type sportCount struct {
	SportName string
	Total     int64
}

// PopularSports returns up to limit sport names ranked by how many users have
// them on their roster, most popular first.
func (s *DirectoryService) PopularSports(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.cache != nil {
		names, err := s.cache.ZRevRange(ctx, popularSportsKey, 0, int64(limit-1))
		if err == nil && len(names) > 0 {
			return names, nil
		}
		if err != nil {
			s.logger.Warn("popular sports cache read failed, falling back to db", zap.Error(err))
		}
	}

	rows, err := s.countBySport(ctx, limit)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.SportName)
	}
	return names, nil
}

// RefreshPopular recomputes the popular board from the database and pushes it
// into the cache ZSet. Run periodically by the scheduler.
func (s *DirectoryService) RefreshPopular(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	rows, err := s.countBySport(ctx, 0)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := s.cache.ZAdd(ctx, popularSportsKey, float64(r.Total), r.SportName); err != nil {
			return err
		}
	}
	return nil
}

func (s *DirectoryService) countBySport(ctx context.Context, limit int) ([]sportCount, error) {
	var rows []sportCount
	q := s.db.WithContext(ctx).Model(&model.SportMembership{}).
		Select("sport_name, COUNT(*) AS total").
		Group("sport_name").
		Order("total DESC, sport_name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, wrapStore(err)
	}
	return rows, nil
}
