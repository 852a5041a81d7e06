package bga

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatsFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extracted", "daveplusplus-extracted-stats.json")

	rating := 412
	pct := 40.0
	in := PlayerStats{
		PlayerName: "daveplusplus",
		Overall:    OverallStats{TotalXP: 12500, TotalGamesPlayed: 1238, TotalFriends: 17},
		Games: []RawStatsRecord{
			{
				GameName:       "Carcassonne",
				GameRef:        "carcassonne",
				ExternalGameID: "1000",
				RankClass:      "good",
				ArenaRating:    &rating,
				GamesPlayed:    128,
				TrainingGames:  12,
				Victories:      51,
				WinPercentage:  &pct,
				Extra:          map[string]string{"game_slug": "carcassonne"},
			},
		},
		TotalGamesWithStats: 1,
	}

	if err := SaveStatsFile(path, in); err != nil {
		t.Fatalf("SaveStatsFile: %v", err)
	}

	out, err := LoadStatsFile(path)
	if err != nil {
		t.Fatalf("LoadStatsFile: %v", err)
	}
	if out.PlayerName != in.PlayerName {
		t.Fatalf("PlayerName: want=%q got=%q", in.PlayerName, out.PlayerName)
	}
	if out.Overall != in.Overall {
		t.Fatalf("Overall: want=%+v got=%+v", in.Overall, out.Overall)
	}
	if out.TotalGamesWithStats != 1 || len(out.Games) != 1 {
		t.Fatalf("Games: %+v", out)
	}
	g := out.Games[0]
	if g.GameName != "Carcassonne" || g.ExternalGameID != "1000" || g.GamesPlayed != 128 {
		t.Fatalf("game record: %+v", g)
	}
	if g.WinPercentage == nil || *g.WinPercentage != 40 {
		t.Fatalf("win percentage: %v", g.WinPercentage)
	}
	if g.ArenaRating == nil || *g.ArenaRating != 412 {
		t.Fatalf("arena rating: %v", g.ArenaRating)
	}
	if g.Extra["game_slug"] != "carcassonne" {
		t.Fatalf("Extra: %v", g.Extra)
	}
}

func TestLoadStatsFileErrors(t *testing.T) {
	if _, err := LoadStatsFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file: want error")
	} else if _, ok := err.(*ParseError); !ok {
		t.Fatalf("missing file: want *ParseError got %T", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadStatsFile(bad); err == nil {
		t.Fatal("malformed file: want error")
	} else if _, ok := err.(*ParseError); !ok {
		t.Fatalf("malformed file: want *ParseError got %T", err)
	}
}
