package repos

import (
	"context"
	"testing"

	"github.com/yungbote/gamenight-backend/internal/data/repos/testutil"
)

func TestAliasRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAliasRepo(db, testutil.Logger(t))

	ticket := testutil.SeedGame(t, ctx, tx, "1001", "Ticket to Ride")
	europe := testutil.SeedGame(t, ctx, tx, "1002", "Ticket to Ride Europe")

	if err := repo.Upsert(ctx, tx, "ticket to ride", ticket.ID); err != nil {
		t.Fatalf("Upsert(create): %v", err)
	}
	if got, err := repo.GetByAlias(ctx, tx, "ticket to ride"); err != nil || got == nil || got.GameID != ticket.ID {
		t.Fatalf("GetByAlias: got=%v err=%v", got, err)
	}

	// Re-pointing an existing alias redirects it, no second row.
	if err := repo.Upsert(ctx, tx, "ticket to ride", europe.ID); err != nil {
		t.Fatalf("Upsert(redirect): %v", err)
	}
	if got, err := repo.GetByAlias(ctx, tx, "ticket to ride"); err != nil || got == nil || got.GameID != europe.ID {
		t.Fatalf("GetByAlias(after redirect): got=%v err=%v", got, err)
	}
	if n, err := repo.Count(ctx, tx); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	if got, err := repo.GetByAlias(ctx, tx, "unknown name"); err != nil || got != nil {
		t.Fatalf("GetByAlias(miss): got=%v err=%v", got, err)
	}

	if err := repo.Upsert(ctx, tx, "t2r europe", europe.ID); err != nil {
		t.Fatalf("Upsert(second): %v", err)
	}
	if rows, err := repo.ListAll(ctx, tx); err != nil || len(rows) != 2 {
		t.Fatalf("ListAll: err=%v len=%d", err, len(rows))
	}
}
