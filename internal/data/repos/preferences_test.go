package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/gamenight-backend/internal/data/repos/testutil"
	types "github.com/yungbote/gamenight-backend/internal/domain"
)

func TestPreferencesRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewPreferencesRepo(db, testutil.Logger(t))

	player := testutil.SeedPlayer(t, ctx, tx, "daveplusplus")

	prefs := &types.PlayerPreferences{
		PlayerID:       player.ID,
		MinPlayerCount: 2,
		MaxPlayerCount: 4,
		MinPlayTime:    30,
		MaxPlayTime:    60,
		MinComplexity:  1.0,
		MaxComplexity:  3.0,
	}
	if err := repo.Upsert(ctx, tx, prefs); err != nil {
		t.Fatalf("Upsert(create): %v", err)
	}

	update := &types.PlayerPreferences{
		PlayerID:       player.ID,
		MinPlayerCount: 3,
		MaxPlayerCount: 6,
		MinPlayTime:    45,
		MaxPlayTime:    120,
		MinComplexity:  2.0,
		MaxComplexity:  4.0,
	}
	if err := repo.Upsert(ctx, tx, update); err != nil {
		t.Fatalf("Upsert(update): %v", err)
	}
	if n, err := repo.Count(ctx, tx); err != nil || n != 1 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	got, err := repo.GetByPlayerID(ctx, tx, player.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByPlayerID: got=%v err=%v", got, err)
	}
	if got.MaxPlayerCount != 6 || got.MaxPlayTime != 120 {
		t.Fatalf("GetByPlayerID: stale values: %+v", got)
	}

	strategy := testutil.SeedCategory(t, ctx, tx, "Strategy")
	party := testutil.SeedCategory(t, ctx, tx, "Party")
	if err := repo.ReplacePreferredCategories(ctx, tx, got.ID, []*types.GameCategory{strategy, party}); err != nil {
		t.Fatalf("ReplacePreferredCategories: %v", err)
	}
	if got, err = repo.GetByPlayerID(ctx, tx, player.ID); err != nil || len(got.PreferredCategories) != 2 {
		t.Fatalf("GetByPlayerID(preload): got=%v err=%v", got, err)
	}

	if err := repo.ReplacePreferredCategories(ctx, tx, got.ID, []*types.GameCategory{strategy}); err != nil {
		t.Fatalf("ReplacePreferredCategories(shrink): %v", err)
	}
	if got, err = repo.GetByPlayerID(ctx, tx, player.ID); err != nil || len(got.PreferredCategories) != 1 {
		t.Fatalf("GetByPlayerID(after shrink): got=%v err=%v", got, err)
	}

	if miss, err := repo.GetByPlayerID(ctx, tx, uuid.New()); err != nil || miss != nil {
		t.Fatalf("GetByPlayerID(miss): got=%v err=%v", miss, err)
	}
}
