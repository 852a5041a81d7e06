package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/gamenight-backend/internal/data/repos"
	"github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/apierr"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// StatsOverview is a snapshot of row counts across the imported tables.
type StatsOverview struct {
	Games       int64 `json:"games"`
	Players     int64 `json:"players"`
	Histories   int64 `json:"histories"`
	Preferences int64 `json:"preferences"`
	Categories  int64 `json:"categories"`
	Tags        int64 `json:"tags"`
	Aliases     int64 `json:"aliases"`
	Sessions    int64 `json:"sessions"`
	Tallies     int64 `json:"tallies"`
	ImportRuns  int64 `json:"import_runs"`
}

type OverviewService interface {
	Overview(ctx context.Context) (*StatsOverview, error)
	RecentImports(ctx context.Context, limit int) ([]*domain.ImportRun, error)
}

type overviewService struct {
	log   *logger.Logger
	repos repos.Repos
}

func NewOverviewService(reg repos.Repos, baseLog *logger.Logger) OverviewService {
	return &overviewService{log: baseLog.With("service", "OverviewService"), repos: reg}
}

func (s *overviewService) Overview(ctx context.Context) (*StatsOverview, error) {
	out := &StatsOverview{}
	counts := []struct {
		dst   *int64
		name  string
		count func(context.Context, *gorm.DB) (int64, error)
	}{
		{&out.Games, "games", s.repos.Games.Count},
		{&out.Players, "players", s.repos.Players.Count},
		{&out.Histories, "histories", s.repos.Histories.Count},
		{&out.Preferences, "preferences", s.repos.Preferences.Count},
		{&out.Categories, "categories", s.repos.Categories.Count},
		{&out.Tags, "tags", s.repos.Tags.Count},
		{&out.Aliases, "aliases", s.repos.Aliases.Count},
		{&out.Sessions, "sessions", s.repos.Sessions.Count},
		{&out.Tallies, "tallies", s.repos.Tallies.Count},
		{&out.ImportRuns, "import_runs", s.repos.Runs.Count},
	}
	for _, c := range counts {
		n, err := c.count(ctx, nil)
		if err != nil {
			return nil, apierr.Internal("count_"+c.name, err)
		}
		*c.dst = n
	}
	return out, nil
}

func (s *overviewService) RecentImports(ctx context.Context, limit int) ([]*domain.ImportRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.repos.Runs.ListRecent(ctx, nil, limit)
	if err != nil {
		return nil, apierr.Internal("list_import_runs", err)
	}
	return runs, nil
}
