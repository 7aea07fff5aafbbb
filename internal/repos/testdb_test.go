package repos

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"barterly/internal/domain"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenDB(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustItem(t *testing.T, r *ItemRepo, id, owner string) domain.Item {
	t.Helper()
	it := domain.Item{
		ID:         id,
		Name:       "item " + id,
		CategoryID: "books",
		OwnerID:    owner,
		Condition:  domain.ConditionUsed,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}
	if err := r.Create(context.Background(), it); err != nil {
		t.Fatalf("create item %s: %v", id, err)
	}
	return it
}
