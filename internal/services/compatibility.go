package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/gamenight-backend/internal/clients/redis"
	"github.com/yungbote/gamenight-backend/internal/compat"
	"github.com/yungbote/gamenight-backend/internal/data/repos"
	"github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/apierr"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
	"github.com/yungbote/gamenight-backend/internal/platform/metrics"
)

// CompatibilityService loads the inputs for the pure scorer and caches the
// verdicts.
type CompatibilityService interface {
	ScoreGame(ctx context.Context, playerID, gameID uuid.UUID) (*compat.CompatibilityScore, error)
	RankGames(ctx context.Context, playerID uuid.UUID) ([]compat.CompatibilityScore, error)
}

type compatibilityService struct {
	log     *logger.Logger
	repos   repos.Repos
	scorer  *compat.Scorer
	cache   redis.ScoreCache
	metrics *metrics.Metrics
}

// NewCompatibilityService wires the scorer to the store. cache may be nil,
// in which case every request recomputes.
func NewCompatibilityService(reg repos.Repos, scorer *compat.Scorer, cache redis.ScoreCache, m *metrics.Metrics, baseLog *logger.Logger) CompatibilityService {
	return &compatibilityService{
		log:     baseLog.With("service", "CompatibilityService"),
		repos:   reg,
		scorer:  scorer,
		cache:   cache,
		metrics: m,
	}
}

func (s *compatibilityService) ScoreGame(ctx context.Context, playerID, gameID uuid.UUID) (*compat.CompatibilityScore, error) {
	player, err := s.repos.Players.GetByID(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_player", err)
	}
	if player == nil {
		return nil, apierr.NotFound("player_not_found", fmt.Errorf("player %s", playerID))
	}
	prefs, err := s.repos.Preferences.GetByPlayerID(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_preferences", err)
	}

	key := scoreCacheKey(playerID, gameID, prefs)
	if raw, ok := s.cacheGet(ctx, key); ok {
		var out compat.CompatibilityScore
		if err := json.Unmarshal(raw, &out); err == nil {
			return &out, nil
		}
		s.log.Warn("Discarding undecodable cache entry", "key", key)
	}

	game, err := s.repos.Games.GetByIDWithCategories(ctx, nil, gameID)
	if err != nil {
		return nil, apierr.Internal("load_game", err)
	}
	if game == nil {
		return nil, apierr.NotFound("game_not_found", fmt.Errorf("game %s", gameID))
	}
	history, err := s.repos.Histories.ListByPlayerWithGames(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_history", err)
	}

	start := time.Now()
	score := s.scorer.Score(game, prefs, history)
	s.metrics.ObserveScore(time.Since(start))

	s.cacheSet(ctx, key, score)
	return &score, nil
}

func (s *compatibilityService) RankGames(ctx context.Context, playerID uuid.UUID) ([]compat.CompatibilityScore, error) {
	player, err := s.repos.Players.GetByID(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_player", err)
	}
	if player == nil {
		return nil, apierr.NotFound("player_not_found", fmt.Errorf("player %s", playerID))
	}
	prefs, err := s.repos.Preferences.GetByPlayerID(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_preferences", err)
	}

	key := rankCacheKey(playerID, prefs)
	if raw, ok := s.cacheGet(ctx, key); ok {
		var out []compat.CompatibilityScore
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		s.log.Warn("Discarding undecodable cache entry", "key", key)
	}

	games, err := s.repos.Games.ListActiveWithCategories(ctx, nil)
	if err != nil {
		return nil, apierr.Internal("load_games", err)
	}
	history, err := s.repos.Histories.ListByPlayerWithGames(ctx, nil, playerID)
	if err != nil {
		return nil, apierr.Internal("load_history", err)
	}

	start := time.Now()
	scores := make([]compat.CompatibilityScore, 0, len(games))
	for _, g := range games {
		scores = append(scores, s.scorer.Score(g, prefs, history))
	}
	compat.Rank(scores)
	s.metrics.ObserveScore(time.Since(start))

	s.cacheSet(ctx, key, scores)
	return scores, nil
}

func (s *compatibilityService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, key)
	if ok {
		s.metrics.CacheHit()
	} else {
		s.metrics.CacheMiss()
	}
	return raw, ok
}

func (s *compatibilityService) cacheSet(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, raw)
}

// Cache keys fold in the preferences version; history edits ride on the TTL
// instead because imports run rarely and off-peak.
func scoreCacheKey(playerID, gameID uuid.UUID, prefs *domain.PlayerPreferences) string {
	return fmt.Sprintf("score:v1:%s:%s:%d", playerID, gameID, prefsVersion(prefs))
}

func rankCacheKey(playerID uuid.UUID, prefs *domain.PlayerPreferences) string {
	return fmt.Sprintf("rank:v1:%s:%d", playerID, prefsVersion(prefs))
}

func prefsVersion(prefs *domain.PlayerPreferences) int64 {
	if prefs == nil {
		return 0
	}
	return prefs.UpdatedAt.UnixNano()
}
