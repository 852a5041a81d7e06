package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/gamenight-backend/internal/bga"
	"github.com/yungbote/gamenight-backend/internal/domain"
)

var (
	playerA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	playerB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	playerC = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func TestNormalizeTables(t *testing.T) {
	roster := map[string]uuid.UUID{
		"dandam":     playerA,
		"superoogie": playerB,
		"gundlach":   playerC,
	}
	tables := []bga.TableExport{
		{
			TableID:     "501",
			GameID:      "1000",
			GameName:    "Carcassonne",
			PlayerNames: []string{"superoogie", "dandam", "stranger"},
			Scores:      []int{76, 98, 54},
			Ranks:       []int{2, 1, 3},
		},
		// Same table exported from a second player's directory.
		{
			TableID:     "501",
			GameID:      "1000",
			GameName:    "Carcassonne",
			PlayerNames: []string{"superoogie", "dandam", "stranger"},
			Scores:      []int{76, 98, 54},
			Ranks:       []int{2, 1, 3},
		},
		// Only one roster player at the table.
		{
			TableID:     "502",
			GameID:      "2000",
			GameName:    "Azul",
			PlayerNames: []string{"dandam", "stranger"},
			Scores:      []int{40, 38},
			Ranks:       []int{1, 2},
		},
	}

	kept, skipped := normalizeTables(tables, roster)
	if skipped != 2 {
		t.Fatalf("skipped: want=2 got=%d", skipped)
	}
	if len(kept) != 1 {
		t.Fatalf("kept: want=1 got=%d", len(kept))
	}

	nt := kept[0]
	if nt.TableID != "501" || nt.Roster != 2 {
		t.Fatalf("table: %+v", nt)
	}
	if nt.PlayerNames[0] != "dandam" || nt.PlayerNames[1] != "superoogie" || nt.PlayerNames[2] != "stranger" {
		t.Fatalf("winner-first names: %v", nt.PlayerNames)
	}
	if nt.Scores[0] != 98 || nt.Ranks[0] != 1 {
		t.Fatalf("winner seat: scores=%v ranks=%v", nt.Scores, nt.Ranks)
	}
	if nt.PlayerIDs[0] != playerA || nt.PlayerIDs[1] != playerB || nt.PlayerIDs[2] != uuid.Nil {
		t.Fatalf("player ids: %v", nt.PlayerIDs)
	}
}

func TestWinnerFirstKeepsSourceOrderOnTies(t *testing.T) {
	nt := winnerFirst(bga.TableExport{
		PlayerNames: []string{"first", "second", "third"},
		Scores:      []int{10, 10, 10},
		Ranks:       []int{1, 1, 1},
	})
	if nt.PlayerNames[0] != "first" || nt.PlayerNames[1] != "second" || nt.PlayerNames[2] != "third" {
		t.Fatalf("tie order: %v", nt.PlayerNames)
	}
}

func TestSessionRow(t *testing.T) {
	when := time.Date(2024, 11, 2, 19, 30, 0, 0, time.UTC)
	nt := normalizedTable{
		TableExport: bga.TableExport{
			TableID:     "501",
			GameID:      "1000",
			GameName:    "Carcassonne",
			PlayDate:    when,
			PlayerNames: []string{"dandam", "stranger"},
			Scores:      []int{98, 54},
			Ranks:       []int{1, 2},
		},
		PlayerIDs: []uuid.UUID{playerA, uuid.Nil},
		Roster:    1,
	}

	row, err := sessionRow(nt)
	if err != nil {
		t.Fatalf("sessionRow: %v", err)
	}
	if row.ExternalTableID != "501" || row.ExternalGameID != "1000" || row.GameName != "Carcassonne" {
		t.Fatalf("identity: %+v", row)
	}
	if !row.PlayDate.Equal(when) {
		t.Fatalf("play date: %v", row.PlayDate)
	}

	var ids []string
	if err := json.Unmarshal(row.PlayerIDs, &ids); err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != playerA.String() || ids[1] != "" {
		t.Fatalf("player ids: %v", ids)
	}
	var ranks []int
	if err := json.Unmarshal(row.Rankings, &ranks); err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 2 || ranks[0] != 1 {
		t.Fatalf("ranks: %v", ranks)
	}
	var meta map[string]string
	if err := json.Unmarshal(row.Metadata, &meta); err != nil {
		t.Fatal(err)
	}
	if meta["source"] != "table-export" {
		t.Fatalf("metadata: %v", meta)
	}
}

func TestFoldHistories(t *testing.T) {
	game := &domain.Game{ID: uuid.New(), ExternalID: "1000", Name: "Carcassonne"}
	ix := testIndex(game)

	kept := []normalizedTable{
		{
			TableExport: bga.TableExport{TableID: "501", GameID: "1000", GameName: "Carcassonne",
				PlayerNames: []string{"a", "b"}, Ranks: []int{1, 2}},
			PlayerIDs: []uuid.UUID{playerA, playerB},
			Roster:    2,
		},
		{
			TableExport: bga.TableExport{TableID: "502", GameID: "1000", GameName: "Carcassonne",
				PlayerNames: []string{"b", "a"}, Ranks: []int{1, 2}},
			PlayerIDs: []uuid.UUID{playerB, playerA},
			Roster:    2,
		},
		{
			TableExport: bga.TableExport{TableID: "503", GameID: "9999", GameName: "Ghost Game",
				PlayerNames: []string{"a", "b"}, Ranks: []int{1, 2}},
			PlayerIDs: []uuid.UUID{playerA, playerB},
			Roster:    2,
		},
	}

	folds, errs := foldHistories(kept, ix)
	if len(errs) != 1 {
		t.Fatalf("errs: %v", errs)
	}
	if _, ok := errs[0].(*bga.ResolutionError); !ok {
		t.Fatalf("error type: %T", errs[0])
	}

	if len(folds) != 2 {
		t.Fatalf("folds: %v", folds)
	}
	a := folds[foldKey{player: playerA, game: game.ID}]
	if a == nil || a.plays != 2 || a.wins != 1 {
		t.Fatalf("player a fold: %+v", a)
	}
	b := folds[foldKey{player: playerB, game: game.ID}]
	if b == nil || b.plays != 2 || b.wins != 1 {
		t.Fatalf("player b fold: %+v", b)
	}
}

func mkSession(t *testing.T, tableID string, ids []string, ranks []int) *domain.GameSession {
	t.Helper()
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		t.Fatal(err)
	}
	ranksJSON, err := json.Marshal(ranks)
	if err != nil {
		t.Fatal(err)
	}
	return &domain.GameSession{
		ExternalTableID: tableID,
		PlayerIDs:       datatypes.JSON(idsJSON),
		Rankings:        datatypes.JSON(ranksJSON),
	}
}

func TestComputeTallies(t *testing.T) {
	a, b := playerA.String(), playerB.String()
	sessions := []*domain.GameSession{
		mkSession(t, "1", []string{a, b}, []int{1, 2}),
		mkSession(t, "2", []string{b, a}, []int{1, 2}),
		mkSession(t, "3", []string{a, b}, []int{1, 1}),
		mkSession(t, "4", []string{a, b, ""}, []int{1, 2, 3}),
		{ExternalTableID: "bad", PlayerIDs: datatypes.JSON([]byte("{")), Rankings: datatypes.JSON([]byte("[1]"))},
	}

	tallies := computeTallies(sessions)
	if len(tallies) != 1 {
		t.Fatalf("tallies: %+v", tallies)
	}
	tally := tallies[0]
	if tally.PlayerAID != playerA || tally.PlayerBID != playerB {
		t.Fatalf("pair order: %+v", tally)
	}
	if tally.Plays != 4 || tally.WinsA != 2 || tally.WinsB != 1 || tally.Ties != 1 {
		t.Fatalf("counts: %+v", tally)
	}
}

func TestComputeTalliesThreePlayers(t *testing.T) {
	a, b, c := playerA.String(), playerB.String(), playerC.String()
	sessions := []*domain.GameSession{
		mkSession(t, "1", []string{a, b, c}, []int{1, 2, 3}),
	}

	tallies := computeTallies(sessions)
	if len(tallies) != 3 {
		t.Fatalf("pair count: %+v", tallies)
	}
	// Sorted by pair ids: (a,b), (a,c), (b,c).
	if tallies[0].WinsA != 1 || tallies[1].WinsA != 1 || tallies[2].WinsA != 1 {
		t.Fatalf("wins: %+v %+v %+v", tallies[0], tallies[1], tallies[2])
	}
	for _, tally := range tallies {
		if tally.Plays != 1 || tally.WinsB != 0 || tally.Ties != 0 {
			t.Fatalf("counts: %+v", tally)
		}
	}
}
