package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/gamenight-backend/internal/bga"
	"github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// gameIndex resolves extracted records against the catalog. Lookups try the
// platform id first, then the normalized display name, then the curated alias
// table.
type gameIndex struct {
	byExternalID map[string]*domain.Game
	byName       map[string]*domain.Game
	byAlias      map[string]*domain.Game
}

func (p *Pipeline) buildGameIndex(ctx context.Context) (*gameIndex, error) {
	games, err := p.repos.Games.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	aliases, err := p.repos.Aliases.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	ix := &gameIndex{
		byExternalID: make(map[string]*domain.Game, len(games)),
		byName:       make(map[string]*domain.Game, len(games)),
		byAlias:      make(map[string]*domain.Game, len(aliases)),
	}
	byID := make(map[uuid.UUID]*domain.Game, len(games))
	for _, g := range games {
		byID[g.ID] = g
		ix.byExternalID[g.ExternalID] = g
		if key := bga.NormalizeName(g.Name); key != "" {
			ix.byName[key] = g
		}
	}
	for _, a := range aliases {
		if g, ok := byID[a.GameID]; ok {
			ix.byAlias[a.Alias] = g
		}
	}
	return ix, nil
}

func (ix *gameIndex) resolve(externalID, name string) *domain.Game {
	if externalID != "" {
		if g, ok := ix.byExternalID[externalID]; ok {
			return g
		}
	}
	key := bga.NormalizeName(name)
	if key == "" {
		return nil
	}
	if g, ok := ix.byName[key]; ok {
		return g
	}
	return ix.byAlias[key]
}

// hasName reports whether the normalized display name already resolves
// without the alias table.
func (ix *gameIndex) hasName(name string) bool {
	_, ok := ix.byName[bga.NormalizeName(name)]
	return ok
}

// Rank-class ladder on the canonical 0-100 rating scale. Records without a
// ladder class fall back to their win percentage.
var rankRatings = map[string]float64{
	"beginner":   20,
	"apprentice": 35,
	"average":    50,
	"good":       65,
	"strong":     80,
	"expert":     90,
	"master":     100,
}

func ratingFor(rec bga.RawStatsRecord) float64 {
	if v, ok := rankRatings[rec.RankClass]; ok {
		return v
	}
	pct := *rec.WinPercentage
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func validateRecord(player string, rec bga.RawStatsRecord) error {
	if rec.GamesPlayed < 0 || rec.Victories < 0 || rec.TrainingGames < 0 {
		return bga.NewValidationError(player, rec.GameName,
			"negative count (games=%d victories=%d training=%d)",
			rec.GamesPlayed, rec.Victories, rec.TrainingGames)
	}
	if rec.Victories > rec.GamesPlayed {
		return bga.NewValidationError(player, rec.GameName,
			"victories %d exceed games played %d", rec.Victories, rec.GamesPlayed)
	}
	// Markup parsing guarantees the percentage; snapshots may not.
	if rec.WinPercentage == nil {
		return bga.NewValidationError(player, rec.GameName, "win percentage missing")
	}
	if pct := *rec.WinPercentage; pct < 0 || pct > 100 {
		return bga.NewValidationError(player, rec.GameName,
			"win percentage %.1f outside [0,100]", pct)
	}
	return nil
}

// historyMetadata keeps source signals the aggregate columns do not model.
// Raw arena numbers live here only: cross-game scales are not comparable.
type historyMetadata struct {
	Source        string            `json:"source,omitempty"`
	RankClass     string            `json:"rank_class,omitempty"`
	ArenaRating   *int              `json:"arena_rating,omitempty"`
	GameRef       string            `json:"game_identifier,omitempty"`
	TrainingGames int               `json:"training_games,omitempty"`
	Extra         map[string]string `json:"extra,omitempty"`
}

func historyRow(gameID uuid.UUID, rec bga.RawStatsRecord, source string) (*domain.PlayerGameHistory, error) {
	meta, err := json.Marshal(historyMetadata{
		Source:        source,
		RankClass:     rec.RankClass,
		ArenaRating:   rec.ArenaRating,
		GameRef:       rec.GameRef,
		TrainingGames: rec.TrainingGames,
		Extra:         rec.Extra,
	})
	if err != nil {
		return nil, err
	}
	pct := *rec.WinPercentage
	rating := ratingFor(rec)
	return &domain.PlayerGameHistory{
		GameID:        gameID,
		GamesPlayed:   rec.GamesPlayed,
		Wins:          rec.Victories,
		WinPercentage: pct,
		Rating:        &rating,
		Notes:         aggregateNotes(rec.GamesPlayed, rec.Victories, pct),
		Metadata:      datatypes.JSON(meta),
	}, nil
}

func aggregateNotes(games, wins int, pct float64) string {
	return fmt.Sprintf("Aggregate stats: %d games, %d wins (%.1f%% wins)", games, wins, pct)
}

// aggregate folds every parsed record set into player and history rows, one
// transaction per source document.
func (p *Pipeline) aggregate(ctx context.Context, index *gameIndex, results []playerResult, source string, dryRun bool, report *bga.RunReport, log *logger.Logger) {
	for i := range results {
		if !results[i].ok {
			continue
		}
		p.aggregatePlayer(ctx, index, &results[i], source, dryRun, report, log)
	}
}

func (p *Pipeline) aggregatePlayer(ctx context.Context, index *gameIndex, res *playerResult, source string, dryRun bool, report *bga.RunReport, log *logger.Logger) {
	username := res.profile.ExternalUsername

	writes := make([]*domain.PlayerGameHistory, 0, len(res.stats.Games))
	for _, rec := range res.stats.Games {
		if rec.GamesPlayed == 0 {
			report.CountSkipped(bga.ComponentHistory, 1)
			continue
		}
		game := index.resolve(rec.ExternalGameID, rec.GameName)
		if game == nil {
			p.recordErrors(report, bga.ComponentHistory,
				bga.NewResolutionError(username, rec.GameName, "no catalog match"))
			continue
		}
		if err := validateRecord(username, rec); err != nil {
			p.recordErrors(report, bga.ComponentHistory, err)
			continue
		}
		row, err := historyRow(game.ID, rec, source)
		if err != nil {
			p.recordErrors(report, bga.ComponentHistory, err)
			continue
		}
		writes = append(writes, row)
	}

	if dryRun {
		report.CountProcessed(bga.ComponentProfiles, 1)
		report.CountProcessed(bga.ComponentHistory, len(writes))
		log.Info("Dry run; skipping player writes", "player", username, "history_rows", len(writes))
		return
	}

	var playerAction string
	historyActions := make([]string, 0, len(writes))
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := &domain.Player{
			ExternalUsername: username,
			DisplayName:      res.profile.DisplayName,
			AvatarReference:  res.dir.AvatarRef,
			IsActive:         true,
		}
		action, err := p.repos.Players.UpsertFromProfile(ctx, tx, row)
		if err != nil {
			return fmt.Errorf("player %s: %w", username, err)
		}
		playerAction = action
		for _, h := range writes {
			h.PlayerID = row.ID
			action, err := p.repos.Histories.Upsert(ctx, tx, h)
			if err != nil {
				return fmt.Errorf("history %s/%s: %w", username, h.GameID, err)
			}
			historyActions = append(historyActions, action)
		}
		return nil
	})
	if err != nil {
		p.recordErrors(report, bga.ComponentProfiles, err)
		return
	}

	report.CountAction(bga.ComponentProfiles, playerAction)
	p.metrics.RecordWritten(bga.ComponentProfiles, playerAction)
	for _, a := range historyActions {
		report.CountAction(bga.ComponentHistory, a)
		p.metrics.RecordWritten(bga.ComponentHistory, a)
	}
	log.Info("Player aggregated", "player", username, "action", playerAction, "history_rows", len(historyActions))
}
