package repos

import (
	"context"
	"testing"

	"github.com/yungbote/gamenight-backend/internal/data/repos/testutil"
	types "github.com/yungbote/gamenight-backend/internal/domain"
	"gorm.io/datatypes"
)

func TestHistoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewHistoryRepo(db, testutil.Logger(t))

	player := testutil.SeedPlayer(t, ctx, tx, "daveplusplus")
	game := testutil.SeedGame(t, ctx, tx, "1000", "Carcassonne")
	other := testutil.SeedGame(t, ctx, tx, "2000", "Azul")

	row := &types.PlayerGameHistory{
		PlayerID:      player.ID,
		GameID:        game.ID,
		GamesPlayed:   10,
		Wins:          4,
		WinPercentage: 40,
		Rating:        testutil.PtrFloat(65),
		Notes:         "Aggregate stats: 10 games, 4 wins (40.0% wins)",
		Metadata:      datatypes.JSON([]byte(`{"source":"bga"}`)),
	}
	if action, err := repo.Upsert(ctx, tx, row); err != nil || action != ActionInserted {
		t.Fatalf("Upsert(insert): action=%q err=%v", action, err)
	}

	// Same aggregate again is a no-op.
	same := &types.PlayerGameHistory{
		PlayerID:      player.ID,
		GameID:        game.ID,
		GamesPlayed:   10,
		Wins:          4,
		WinPercentage: 40,
		Rating:        testutil.PtrFloat(65),
		Notes:         "Aggregate stats: 10 games, 4 wins (40.0% wins)",
		Metadata:      datatypes.JSON([]byte(`{"source":"bga"}`)),
	}
	if action, err := repo.Upsert(ctx, tx, same); err != nil || action != ActionUnchanged {
		t.Fatalf("Upsert(same): action=%q err=%v", action, err)
	}
	if same.ID != row.ID {
		t.Fatalf("Upsert(same): id=%v want %v", same.ID, row.ID)
	}

	// New counts overwrite the aggregate in place, never add a row.
	grown := &types.PlayerGameHistory{
		PlayerID:      player.ID,
		GameID:        game.ID,
		GamesPlayed:   12,
		Wins:          5,
		WinPercentage: 41.7,
		Rating:        testutil.PtrFloat(65),
		Metadata:      datatypes.JSON([]byte(`{"source":"bga"}`)),
	}
	if action, err := repo.Upsert(ctx, tx, grown); err != nil || action != ActionUpdated {
		t.Fatalf("Upsert(grown): action=%q err=%v", action, err)
	}
	if grown.ID != row.ID || grown.GamesPlayed != 12 {
		t.Fatalf("Upsert(grown): %+v", grown)
	}
	if n, err := repo.Count(ctx, tx); err != nil || n != 1 {
		t.Fatalf("Count after re-upsert: n=%d err=%v", n, err)
	}

	testutil.SeedHistory(t, ctx, tx, player.ID, other.ID, 3, 3)

	if got, err := repo.GetByPlayerAndGame(ctx, tx, player.ID, game.ID); err != nil || got == nil || got.GamesPlayed != 12 {
		t.Fatalf("GetByPlayerAndGame: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByPlayerAndGame(ctx, tx, game.ID, player.ID); err != nil || got != nil {
		t.Fatalf("GetByPlayerAndGame(miss): got=%v err=%v", got, err)
	}

	if rows, err := repo.ListByPlayer(ctx, tx, player.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByPlayer: err=%v len=%d", err, len(rows))
	}
	rows, err := repo.ListByPlayerWithGames(ctx, tx, player.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByPlayerWithGames: err=%v len=%d", err, len(rows))
	}
	for _, h := range rows {
		if h.Game == nil || h.Game.Name == "" {
			t.Fatalf("ListByPlayerWithGames: game not preloaded: %+v", h)
		}
	}
}
