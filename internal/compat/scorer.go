// Package compat scores how well a catalog game fits one player's stated
// preferences and play history. Scoring is pure computation; callers load
// the inputs and decide what to do with the verdicts.
package compat

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/domain"
)

// neutralScore stands in for any factor the player has expressed no
// preference about.
const neutralScore = 50

// Subscores are the weighted factors behind an overall score, each on a
// 0-100 scale and rounded to one decimal place.
type Subscores struct {
	PlayerCount float64 `json:"player_count"`
	PlayTime    float64 `json:"play_time"`
	Complexity  float64 `json:"complexity"`
	Category    float64 `json:"category"`
	Skill       float64 `json:"skill"`
}

// CompatibilityScore is the verdict for one (player, game) pair.
type CompatibilityScore struct {
	GameID    uuid.UUID `json:"game_id"`
	GameName  string    `json:"game_name"`
	Overall   int       `json:"overall"`
	Subscores Subscores `json:"subscores"`
}

// Scorer computes compatibility scores under a fixed parameter set. It holds
// no mutable state and is safe for concurrent use.
type Scorer struct {
	params config.ScoringConfig
}

// NewScorer builds a scorer. Zero-valued weights or distance limits fall
// back to the config defaults so a zero ScoringConfig stays usable.
func NewScorer(params config.ScoringConfig) *Scorer {
	def := config.Default().Scoring
	if params.PlayerCountWeight+params.PlayTimeWeight+params.ComplexityWeight+params.CategoryWeight+params.SkillWeight <= 0 {
		params.PlayerCountWeight = def.PlayerCountWeight
		params.PlayTimeWeight = def.PlayTimeWeight
		params.ComplexityWeight = def.ComplexityWeight
		params.CategoryWeight = def.CategoryWeight
		params.SkillWeight = def.SkillWeight
	}
	if params.MaxTimeDistance <= 0 {
		params.MaxTimeDistance = def.MaxTimeDistance
	}
	if params.MaxComplexityDistance <= 0 {
		params.MaxComplexityDistance = def.MaxComplexityDistance
	}
	if params.HighSkillThreshold <= 0 {
		params.HighSkillThreshold = def.HighSkillThreshold
	}
	if params.RelatedSkillBonus <= 0 {
		params.RelatedSkillBonus = def.RelatedSkillBonus
	}
	return &Scorer{params: params}
}

// Score is deterministic: identical inputs produce the identical result.
// Nil preferences and empty history are valid and degrade to neutral
// factors. History rows need their Game association loaded for the
// related-game skill bonus; rows without it only count for the exact game.
func (s *Scorer) Score(game *domain.Game, prefs *domain.PlayerPreferences, history []*domain.PlayerGameHistory) CompatibilityScore {
	if game == nil {
		return CompatibilityScore{}
	}
	sub := Subscores{
		PlayerCount: round1(s.playerCountScore(game, prefs)),
		PlayTime:    round1(s.playTimeScore(game, prefs)),
		Complexity:  round1(s.complexityScore(game, prefs)),
		Category:    round1(s.categoryScore(game, prefs)),
		Skill:       round1(s.skillScore(game, history)),
	}
	p := s.params
	total := p.PlayerCountWeight + p.PlayTimeWeight + p.ComplexityWeight + p.CategoryWeight + p.SkillWeight
	weighted := sub.PlayerCount*p.PlayerCountWeight +
		sub.PlayTime*p.PlayTimeWeight +
		sub.Complexity*p.ComplexityWeight +
		sub.Category*p.CategoryWeight +
		sub.Skill*p.SkillWeight
	return CompatibilityScore{
		GameID:    game.ID,
		GameName:  game.Name,
		Overall:   int(math.Round(weighted / total)),
		Subscores: sub,
	}
}

// playerCountScore is 100 when the game's seat range covers the preferred
// range, otherwise the inclusive overlap as a share of the preferred range.
func (s *Scorer) playerCountScore(game *domain.Game, prefs *domain.PlayerPreferences) float64 {
	if prefs == nil || prefs.MaxPlayerCount <= 0 || prefs.MaxPlayerCount < prefs.MinPlayerCount {
		return neutralScore
	}
	pmin, pmax := max(prefs.MinPlayerCount, 1), prefs.MaxPlayerCount
	if game.MinPlayers <= pmin && game.MaxPlayers >= pmax {
		return 100
	}
	overlap := min(game.MaxPlayers, pmax) - max(game.MinPlayers, pmin) + 1
	if overlap <= 0 {
		return 0
	}
	return 100 * float64(overlap) / float64(pmax-pmin+1)
}

func (s *Scorer) playTimeScore(game *domain.Game, prefs *domain.PlayerPreferences) float64 {
	if prefs == nil || prefs.MaxPlayTime <= 0 || prefs.MaxPlayTime < prefs.MinPlayTime {
		return neutralScore
	}
	t := float64(game.AveragePlayTime)
	lo, hi := float64(prefs.MinPlayTime), float64(prefs.MaxPlayTime)
	if t >= lo && t <= hi {
		return 100
	}
	dist := lo - t
	if t > hi {
		dist = t - hi
	}
	return decay(dist, s.params.MaxTimeDistance)
}

// complexityScore decays with distance from the midpoint of the preferred
// complexity range.
func (s *Scorer) complexityScore(game *domain.Game, prefs *domain.PlayerPreferences) float64 {
	if prefs == nil || prefs.MaxComplexity <= 0 || prefs.MaxComplexity < prefs.MinComplexity {
		return neutralScore
	}
	mid := (prefs.MinComplexity + prefs.MaxComplexity) / 2
	return decay(math.Abs(game.ComplexityRating-mid), s.params.MaxComplexityDistance)
}

func (s *Scorer) categoryScore(game *domain.Game, prefs *domain.PlayerPreferences) float64 {
	if prefs == nil || len(prefs.PreferredCategories) == 0 {
		return neutralScore
	}
	have := categorySet(game.Categories)
	hits := 0
	for _, c := range prefs.PreferredCategories {
		if c != nil && have[strings.ToLower(c.Name)] {
			hits++
		}
	}
	return 100 * float64(hits) / float64(len(prefs.PreferredCategories))
}

// skillScore is 100 when the player is highly rated at this exact game, a
// smaller fixed bonus when any highly rated history game shares a category
// with it, and 0 otherwise.
func (s *Scorer) skillScore(game *domain.Game, history []*domain.PlayerGameHistory) float64 {
	have := categorySet(game.Categories)
	related := false
	for _, h := range history {
		if h == nil || h.Rating == nil || *h.Rating < s.params.HighSkillThreshold {
			continue
		}
		if h.GameID == game.ID {
			return 100
		}
		if related || h.Game == nil {
			continue
		}
		for _, c := range h.Game.Categories {
			if c != nil && have[strings.ToLower(c.Name)] {
				related = true
				break
			}
		}
	}
	if related {
		return s.params.RelatedSkillBonus
	}
	return 0
}

// Rank orders scores best first. Ties break on higher category overlap,
// then higher skill, then name.
func Rank(scores []CompatibilityScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Overall != b.Overall {
			return a.Overall > b.Overall
		}
		if a.Subscores.Category != b.Subscores.Category {
			return a.Subscores.Category > b.Subscores.Category
		}
		if a.Subscores.Skill != b.Subscores.Skill {
			return a.Subscores.Skill > b.Subscores.Skill
		}
		return a.GameName < b.GameName
	})
}

func decay(dist, limit float64) float64 {
	if dist >= limit {
		return 0
	}
	return 100 * (1 - dist/limit)
}

func categorySet(cats []*domain.GameCategory) map[string]bool {
	out := make(map[string]bool, len(cats))
	for _, c := range cats {
		if c != nil && c.Name != "" {
			out[strings.ToLower(c.Name)] = true
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
