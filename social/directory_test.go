package social

import (
	"context"
	"testing"

	"github.com/matchpoint-app/server/cache"
	"github.com/matchpoint-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDirectorySvc(t *testing.T) (*DirectoryService, *RosterService, *gorm.DB, cache.Cache) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	return NewDirectoryService(db, c, nop()), NewRosterService(db, nop()), db, c
}

func TestSportParticipantsForUser(t *testing.T) {
	dir, roster, db, _ := newDirectorySvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	require.NoError(t, db.Model(bob).Update("pronouns", "they/them").Error)

	require.NoError(t, roster.Add(context.Background(), alice.ID, "tennis"))
	require.NoError(t, roster.Add(context.Background(), alice.ID, "golf"))
	require.NoError(t, roster.Add(context.Background(), bob.ID, "tennis"))
	require.NoError(t, roster.Add(context.Background(), carol.ID, "tennis"))

	got, err := dir.SportParticipantsForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"bob (they/them)", "carol"}, got["tennis"])
	assert.Empty(t, got["golf"])
}

func TestSportParticipantsForUser_EmptyRoster(t *testing.T) {
	dir, _, db, _ := newDirectorySvc(t)
	alice := testutil.CreateUser(t, db, "alice")

	got, err := dir.SportParticipantsForUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestPopularSports_DBFallback(t *testing.T) {
	dir, roster, db, _ := newDirectorySvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	for _, id := range []int64{alice.ID, bob.ID, carol.ID} {
		require.NoError(t, roster.Add(context.Background(), id, "tennis"))
	}
	require.NoError(t, roster.Add(context.Background(), alice.ID, "golf"))
	require.NoError(t, roster.Add(context.Background(), bob.ID, "golf"))
	require.NoError(t, roster.Add(context.Background(), carol.ID, "padel"))

	// cache is empty, so this exercises the live aggregate
	names, err := dir.PopularSports(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"tennis", "golf"}, names)
}

func TestPopularSports_FromCacheAfterRefresh(t *testing.T) {
	dir, roster, db, c := newDirectorySvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	require.NoError(t, roster.Add(context.Background(), alice.ID, "tennis"))
	require.NoError(t, roster.Add(context.Background(), bob.ID, "tennis"))
	require.NoError(t, roster.Add(context.Background(), alice.ID, "golf"))

	require.NoError(t, dir.RefreshPopular(context.Background()))

	score, err := c.ZScore(context.Background(), "sports:popular", "tennis")
	require.NoError(t, err)
	assert.Equal(t, float64(2), score)

	names, err := dir.PopularSports(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"tennis", "golf"}, names)
}
