package compat

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/domain"
)

func defaultScorer() *Scorer {
	return NewScorer(config.Default().Scoring)
}

// A mid-weight strategy game that sits comfortably inside the stated
// preferences except for a small complexity offset.
func wellMatchedInputs() (*domain.Game, *domain.PlayerPreferences) {
	game := &domain.Game{
		ID:               uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
		Name:             "Agricola",
		MinPlayers:       2,
		MaxPlayers:       4,
		AveragePlayTime:  45,
		ComplexityRating: 2.4,
		Categories:       []*domain.GameCategory{{Name: "Strategy"}},
	}
	prefs := &domain.PlayerPreferences{
		MinPlayerCount:      2,
		MaxPlayerCount:      4,
		MinPlayTime:         30,
		MaxPlayTime:         60,
		MinComplexity:       2,
		MaxComplexity:       3,
		PreferredCategories: []*domain.GameCategory{{Name: "Strategy"}},
	}
	return game, prefs
}

func TestScoreWellMatchedGame(t *testing.T) {
	game, prefs := wellMatchedInputs()
	got := defaultScorer().Score(game, prefs, nil)

	want := Subscores{PlayerCount: 100, PlayTime: 100, Complexity: 95, Category: 100, Skill: 0}
	if got.Subscores != want {
		t.Fatalf("subscores: want=%+v got=%+v", want, got.Subscores)
	}
	if got.Overall != 84 {
		t.Fatalf("overall: want=84 got=%d", got.Overall)
	}
	if got.GameID != game.ID || got.GameName != "Agricola" {
		t.Fatalf("identity: %+v", got)
	}
}

func TestScoreHighSkillDelta(t *testing.T) {
	game, prefs := wellMatchedInputs()
	s := defaultScorer()
	base := s.Score(game, prefs, nil)

	rating := 85.0
	history := []*domain.PlayerGameHistory{{GameID: game.ID, Rating: &rating}}
	got := s.Score(game, prefs, history)

	if got.Subscores.Skill != 100 {
		t.Fatalf("skill: want=100 got=%v", got.Subscores.Skill)
	}
	if got.Overall != base.Overall+15 {
		t.Fatalf("delta: base=%d got=%d", base.Overall, got.Overall)
	}
	if got.Overall != 99 {
		t.Fatalf("overall: want=99 got=%d", got.Overall)
	}
}

func TestScoreDeterminism(t *testing.T) {
	game, prefs := wellMatchedInputs()
	rating := 80.0
	history := []*domain.PlayerGameHistory{{GameID: game.ID, Rating: &rating}}

	s := defaultScorer()
	first := s.Score(game, prefs, history)
	second := s.Score(game, prefs, history)
	if first != second {
		t.Fatalf("score changed between calls: %+v vs %+v", first, second)
	}
}

func TestPlayerCountScore(t *testing.T) {
	s := defaultScorer()
	cases := []struct {
		name                   string
		gmin, gmax, pmin, pmax int
		want                   float64
	}{
		{"exact match", 2, 4, 2, 4, 100},
		{"game covers preference", 1, 8, 2, 4, 100},
		{"disjoint", 2, 4, 5, 6, 0},
		{"partial overlap", 2, 4, 4, 6, 33.3},
	}
	for _, tc := range cases {
		game := &domain.Game{MinPlayers: tc.gmin, MaxPlayers: tc.gmax}
		prefs := &domain.PlayerPreferences{MinPlayerCount: tc.pmin, MaxPlayerCount: tc.pmax}
		got := s.Score(game, prefs, nil).Subscores.PlayerCount
		if got != tc.want {
			t.Errorf("%s: want=%v got=%v", tc.name, tc.want, got)
		}
	}
}

func TestPlayTimeDecay(t *testing.T) {
	s := defaultScorer()
	prefs := &domain.PlayerPreferences{MinPlayTime: 30, MaxPlayTime: 60}
	cases := []struct {
		minutes int
		want    float64
	}{
		{45, 100},
		{60, 100},
		{90, 50},
		{120, 0},
		{150, 0},
		{20, 83.3},
	}
	for _, tc := range cases {
		game := &domain.Game{AveragePlayTime: tc.minutes}
		got := s.Score(game, prefs, nil).Subscores.PlayTime
		if got != tc.want {
			t.Errorf("%d minutes: want=%v got=%v", tc.minutes, tc.want, got)
		}
	}
}

func TestCategoryMonotonicity(t *testing.T) {
	s := defaultScorer()
	prefs := &domain.PlayerPreferences{
		MinPlayerCount: 2, MaxPlayerCount: 4,
		MinPlayTime: 30, MaxPlayTime: 60,
		MinComplexity: 2, MaxComplexity: 3,
		PreferredCategories: []*domain.GameCategory{{Name: "Strategy"}, {Name: "Economy"}},
	}
	one := &domain.Game{
		MinPlayers: 2, MaxPlayers: 4, AveragePlayTime: 45, ComplexityRating: 2.5,
		Categories: []*domain.GameCategory{{Name: "Strategy"}},
	}
	two := &domain.Game{
		MinPlayers: 2, MaxPlayers: 4, AveragePlayTime: 45, ComplexityRating: 2.5,
		Categories: []*domain.GameCategory{{Name: "Strategy"}, {Name: "Economy"}},
	}

	lo := s.Score(one, prefs, nil)
	hi := s.Score(two, prefs, nil)
	if lo.Subscores.Category != 50 || hi.Subscores.Category != 100 {
		t.Fatalf("category subs: %v %v", lo.Subscores.Category, hi.Subscores.Category)
	}
	if hi.Overall < lo.Overall {
		t.Fatalf("extra category overlap lowered the score: %d -> %d", lo.Overall, hi.Overall)
	}
}

func TestScoreNeutralOnEmptyInputs(t *testing.T) {
	s := defaultScorer()
	game := &domain.Game{Name: "Azul", MinPlayers: 2, MaxPlayers: 4, AveragePlayTime: 40, ComplexityRating: 1.8}

	got := s.Score(game, nil, nil)
	want := Subscores{PlayerCount: 50, PlayTime: 50, Complexity: 50, Category: 50, Skill: 0}
	if got.Subscores != want {
		t.Fatalf("subscores: want=%+v got=%+v", want, got.Subscores)
	}
	if got.Overall != 43 {
		t.Fatalf("overall: want=43 got=%d", got.Overall)
	}

	if empty := s.Score(nil, nil, nil); empty != (CompatibilityScore{}) {
		t.Fatalf("nil game: %+v", empty)
	}
}

func TestSkillScore(t *testing.T) {
	s := defaultScorer()
	target := &domain.Game{
		ID:         uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"),
		Categories: []*domain.GameCategory{{Name: "Strategy"}},
	}
	otherID := uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	high, low := 80.0, 50.0

	related := []*domain.PlayerGameHistory{{
		GameID: otherID,
		Rating: &high,
		Game:   &domain.Game{ID: otherID, Categories: []*domain.GameCategory{{Name: "Strategy"}, {Name: "Tile Placement"}}},
	}}
	if got := s.Score(target, nil, related).Subscores.Skill; got != 60 {
		t.Fatalf("related bonus: want=60 got=%v", got)
	}

	unrelated := []*domain.PlayerGameHistory{{
		GameID: otherID,
		Rating: &high,
		Game:   &domain.Game{ID: otherID, Categories: []*domain.GameCategory{{Name: "Party"}}},
	}}
	if got := s.Score(target, nil, unrelated).Subscores.Skill; got != 0 {
		t.Fatalf("unrelated: want=0 got=%v", got)
	}

	weak := []*domain.PlayerGameHistory{{GameID: target.ID, Rating: &low}}
	if got := s.Score(target, nil, weak).Subscores.Skill; got != 0 {
		t.Fatalf("below threshold: want=0 got=%v", got)
	}

	unrated := []*domain.PlayerGameHistory{{GameID: target.ID}}
	if got := s.Score(target, nil, unrated).Subscores.Skill; got != 0 {
		t.Fatalf("nil rating: want=0 got=%v", got)
	}
}

func TestRank(t *testing.T) {
	scores := []CompatibilityScore{
		{GameName: "Beta", Overall: 80, Subscores: Subscores{Category: 50}},
		{GameName: "Alpha", Overall: 80, Subscores: Subscores{Category: 50}},
		{GameName: "Gamma", Overall: 80, Subscores: Subscores{Category: 100}},
		{GameName: "Delta", Overall: 90},
		{GameName: "Epsilon", Overall: 80, Subscores: Subscores{Category: 50, Skill: 60}},
	}
	Rank(scores)

	want := []string{"Delta", "Gamma", "Epsilon", "Alpha", "Beta"}
	for i, name := range want {
		if scores[i].GameName != name {
			t.Fatalf("position %d: want=%s got=%s", i, name, scores[i].GameName)
		}
	}
}
