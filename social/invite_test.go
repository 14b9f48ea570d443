package social

import (
	"context"
	"testing"

	"github.com/matchpoint-app/server/model"
	"github.com/matchpoint-app/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newInviteSvc(t *testing.T) (*InviteService, *RosterService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewInviteService(db, nop()), NewRosterService(db, nop()), db
}

func pendingInvite(t *testing.T, svc *InviteService, db *gorm.DB, inviterID, inviteeID int64, sport string) int64 {
	t.Helper()
	require.NoError(t, svc.Send(context.Background(), inviterID, inviteeID, sport))
	var inv model.ActivityInvite
	require.NoError(t, db.Where("inviter_id = ? AND invitee_id = ? AND sport_name = ?",
		inviterID, inviteeID, sport).First(&inv).Error)
	return inv.ID
}

func TestInviteSend_CreatesPending(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	inv, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.InvitePending, inv.Status)
}

func TestInviteSend_Validation(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	assert.ErrorIs(t, svc.Send(context.Background(), alice.ID, alice.ID, "tennis"), ErrInvalidArgument)
	assert.ErrorIs(t, svc.Send(context.Background(), alice.ID, bob.ID, ""), ErrInvalidArgument)
	assert.ErrorIs(t, svc.Send(context.Background(), 0, bob.ID, "tennis"), ErrInvalidArgument)
	assert.ErrorIs(t, svc.Send(context.Background(), alice.ID, 999, "tennis"), ErrNotFound)
}

// Re-sending the same triple is silently ignored, whatever state the first
// invite is in.
func TestInviteSend_DuplicateTripleNoOp(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, false))

	// declined row stays; a second Send must not revive it
	require.NoError(t, svc.Send(context.Background(), alice.ID, bob.ID, "tennis"))

	var count int64
	require.NoError(t, db.Model(&model.ActivityInvite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	inv, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.InviteDeclined, inv.Status)
}

func TestInviteSend_DifferentSportAllowed(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	pendingInvite(t, svc, db, alice.ID, bob.ID, "padel")
	pendingInvite(t, svc, db, bob.ID, alice.ID, "tennis")

	var count int64
	require.NoError(t, db.Model(&model.ActivityInvite{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

func TestInviteAccept_AddsToRoster(t *testing.T) {
	svc, roster, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, true))

	inv, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.InviteAccepted, inv.Status)

	sports, err := roster.List(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tennis"}, sports)
}

func TestInviteAccept_RosterAlreadyHasSport(t *testing.T) {
	svc, roster, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	require.NoError(t, roster.Add(context.Background(), bob.ID, "tennis"))
	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, true))

	sports, err := roster.List(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"tennis"}, sports)
}

func TestInviteDecline_NoRosterChange(t *testing.T) {
	svc, roster, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, false))

	sports, err := roster.List(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, sports)
}

func TestInviteRespond_Authorization(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	assert.ErrorIs(t, svc.Respond(context.Background(), alice.ID, id, true), ErrForbidden)
	assert.ErrorIs(t, svc.Respond(context.Background(), carol.ID, id, true), ErrForbidden)
	assert.ErrorIs(t, svc.Respond(context.Background(), bob.ID, 999, true), ErrNotFound)
}

func TestInviteRespond_RepeatAndConflict(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, true))
	// same answer again: no-op
	assert.NoError(t, svc.Respond(context.Background(), bob.ID, id, true))
	// opposite answer: rejected
	assert.ErrorIs(t, svc.Respond(context.Background(), bob.ID, id, false), ErrInvalidTransition)
}

// If the roster insert fails mid-transaction the whole accept rolls back and
// the invite stays pending.
func TestInviteAccept_AtomicWithRosterInsert(t *testing.T) {
	svc, roster, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	id := pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")

	// make the roster insert fail by moving its table out from under it
	require.NoError(t, db.Migrator().RenameTable("user_sports", "user_sports_gone"))
	err := svc.Respond(context.Background(), bob.ID, id, true)
	require.Error(t, err)
	require.NoError(t, db.Migrator().RenameTable("user_sports_gone", "user_sports"))

	inv, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.InvitePending, inv.Status)

	sports, err := roster.List(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, sports)
}

func TestInviteListIncoming(t *testing.T) {
	svc, _, db := newInviteSvc(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	pendingInvite(t, svc, db, alice.ID, bob.ID, "tennis")
	id := pendingInvite(t, svc, db, carol.ID, bob.ID, "padel")
	pendingInvite(t, svc, db, bob.ID, alice.ID, "golf")
	require.NoError(t, svc.Respond(context.Background(), bob.ID, id, false))

	incoming, err := svc.ListIncoming(context.Background(), bob.ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "tennis", incoming[0].SportName)
	require.NotNil(t, incoming[0].Inviter)
	assert.Equal(t, "alice", incoming[0].Inviter.Username)
}
