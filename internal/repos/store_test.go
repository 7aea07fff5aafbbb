package repos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"barterly/internal/domain"
)

func pendingProposal(id, sender, receiver string) domain.Proposal {
	return domain.Proposal{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     domain.StatusPending,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestOpenDBIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, seedCategories(ctx, db))
	require.NoError(t, seedUsers(ctx, db))

	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM users`))
	require.Equal(t, 4, n)
}

func TestDemoUserReportsHashFailure(t *testing.T) {
	u, err := demoUser("u-x", "x@barterly.test", "X", domain.RoleUser, "Passw0rd!")
	require.NoError(t, err)
	require.NotEmpty(t, u.Hash)

	// bcrypt refuses passwords over 72 bytes.
	_, err = demoUser("u-x", "x@barterly.test", "X", domain.RoleUser, strings.Repeat("p", 73))
	require.Error(t, err)
}

func TestInTxRollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")
	mustItem(t, s.Items, "b", "u-bob")
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p1", "a", "b")))

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx *Store) error {
		require.NoError(t, tx.Proposals.SetStatus(ctx, "p1", domain.StatusPending, domain.StatusAccepted))
		require.NoError(t, tx.Items.SetOwner(ctx, "a", "u-alice", "u-bob"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	p, err := s.Proposals.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, p.Status)
	a, err := s.Items.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "u-alice", a.OwnerID)
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")

	require.Panics(t, func() {
		_ = s.InTx(ctx, func(tx *Store) error {
			_ = tx.Items.SetOwner(ctx, "a", "u-alice", "u-bob")
			panic("kaboom")
		})
	})
	a, err := s.Items.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "u-alice", a.OwnerID)
}

func TestInTxReportsLostRaceAsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")

	for _, code := range []string{"40P01", "40001"} {
		err := s.InTx(ctx, func(tx *Store) error {
			require.NoError(t, tx.Items.SetOwner(ctx, "a", "u-alice", "u-bob"))
			return fmt.Errorf("set status: %w", &pgconn.PgError{Code: code})
		})
		require.ErrorIs(t, err, domain.ErrConflict, "code %s", code)

		a, err := s.Items.Get(ctx, "a")
		require.NoError(t, err)
		require.Equal(t, "u-alice", a.OwnerID)
	}

	err := s.InTx(ctx, func(tx *Store) error {
		return &pgconn.PgError{Code: "23514"}
	})
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrConflict)
}

func TestPendingPairIsUnique(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")
	mustItem(t, s.Items, "b", "u-bob")

	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p1", "a", "b")))
	err := s.Proposals.Create(ctx, pendingProposal("p2", "a", "b"))
	require.ErrorIs(t, err, domain.ErrConflict)

	// Closed proposals do not count towards the constraint.
	require.NoError(t, s.Proposals.SetStatus(ctx, "p1", domain.StatusPending, domain.StatusRejected))
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p2", "a", "b")))

	_, err = s.Proposals.FindPending(ctx, "a", "b")
	require.NoError(t, err)
	_, err = s.Proposals.FindPending(ctx, "b", "a")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetStatusIsCompareAndSet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")
	mustItem(t, s.Items, "b", "u-bob")
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p1", "a", "b")))

	require.NoError(t, s.Proposals.SetStatus(ctx, "p1", domain.StatusPending, domain.StatusAccepted))
	err := s.Proposals.SetStatus(ctx, "p1", domain.StatusPending, domain.StatusRejected)
	require.ErrorIs(t, err, domain.ErrConflict)
	require.ErrorIs(t, s.Proposals.DeletePending(ctx, "p1"), domain.ErrConflict)
}

func TestItemLockAndSetOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")

	require.NoError(t, s.Items.Lock(ctx, "a", "a"))
	require.ErrorIs(t, s.Items.Lock(ctx, "a", "zzz"), domain.ErrNotFound)

	require.ErrorIs(t, s.Items.SetOwner(ctx, "a", "u-bob", "u-luke"), domain.ErrConflict)
	require.NoError(t, s.Items.SetOwner(ctx, "a", "u-alice", "u-luke"))

	a, err := s.Items.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "u-luke", a.OwnerID)
}

func TestItemCreateUnknownOwnerOrCategory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	r := NewItemRepo(db)

	it := domain.Item{ID: "x", Name: "x", CategoryID: "books", OwnerID: "u-ghost", Condition: domain.ConditionNew, CreatedAt: time.Now().UTC()}
	require.ErrorIs(t, r.Create(ctx, it), domain.ErrNotFound)
	it.OwnerID, it.CategoryID = "u-alice", "ghost-category"
	require.ErrorIs(t, r.Create(ctx, it), domain.ErrNotFound)
}

func TestRejectPendingTouching(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	s := NewStore(db)
	mustItem(t, s.Items, "a", "u-alice")
	mustItem(t, s.Items, "b", "u-bob")
	mustItem(t, s.Items, "c", "u-luke")
	mustItem(t, s.Items, "d", "u-luke")

	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("keep", "a", "b")))
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p2", "c", "a")))
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p3", "b", "d")))
	require.NoError(t, s.Proposals.Create(ctx, pendingProposal("p4", "d", "c")))

	n, err := s.Proposals.RejectPendingTouching(ctx, "keep", "a", "b")
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	for id, want := range map[string]domain.ProposalStatus{
		"keep": domain.StatusPending,
		"p2":   domain.StatusRejected,
		"p3":   domain.StatusRejected,
		"p4":   domain.StatusPending,
	} {
		p, err := s.Proposals.Get(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, p.Status, id)
	}
}
