package repos

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

type HistoryRepo interface {
	GetByPlayerAndGame(ctx context.Context, tx *gorm.DB, playerID, gameID uuid.UUID) (*types.PlayerGameHistory, error)
	ListByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.PlayerGameHistory, error)
	ListByPlayerWithGames(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.PlayerGameHistory, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// Upsert keeps at most one row per (player, game): inserts on first
	// sight, otherwise overwrites the aggregate fields in place.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.PlayerGameHistory) (string, error)
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return &historyRepo{db: db, log: baseLog.With("repo", "HistoryRepo")}
}

func (r *historyRepo) GetByPlayerAndGame(ctx context.Context, tx *gorm.DB, playerID, gameID uuid.UUID) (*types.PlayerGameHistory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if playerID == uuid.Nil || gameID == uuid.Nil {
		return nil, nil
	}
	var out types.PlayerGameHistory
	err := t.WithContext(ctx).
		Where("player_id = ? AND game_id = ?", playerID, gameID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *historyRepo) ListByPlayer(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.PlayerGameHistory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlayerGameHistory
	if playerID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("updated_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *historyRepo) ListByPlayerWithGames(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) ([]*types.PlayerGameHistory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.PlayerGameHistory
	if playerID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Game").
		Preload("Game.Categories").
		Where("player_id = ?", playerID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *historyRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.PlayerGameHistory{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *historyRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.PlayerGameHistory) (string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.PlayerID == uuid.Nil || row.GameID == uuid.Nil {
		return ActionUnchanged, nil
	}

	var existing types.PlayerGameHistory
	err := t.WithContext(ctx).
		Where("player_id = ? AND game_id = ?", row.PlayerID, row.GameID).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := t.WithContext(ctx).Create(row).Error; err != nil {
			return "", err
		}
		return ActionInserted, nil
	}
	if err != nil {
		return "", err
	}

	if historyEqual(&existing, row) {
		*row = existing
		return ActionUnchanged, nil
	}

	updates := map[string]interface{}{
		"games_played":   row.GamesPlayed,
		"wins":           row.Wins,
		"win_percentage": row.WinPercentage,
		"rating":         row.Rating,
		"notes":          row.Notes,
		"metadata":       row.Metadata,
		"updated_at":     time.Now().UTC(),
	}
	if err := t.WithContext(ctx).
		Model(&types.PlayerGameHistory{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return "", err
	}
	if err := t.WithContext(ctx).Where("id = ?", existing.ID).First(row).Error; err != nil {
		return "", err
	}
	return ActionUpdated, nil
}

func historyEqual(a, b *types.PlayerGameHistory) bool {
	if a.GamesPlayed != b.GamesPlayed || a.Wins != b.Wins || a.WinPercentage != b.WinPercentage {
		return false
	}
	if (a.Rating == nil) != (b.Rating == nil) {
		return false
	}
	if a.Rating != nil && b.Rating != nil && *a.Rating != *b.Rating {
		return false
	}
	if a.Notes != b.Notes {
		return false
	}
	return bytes.Equal(a.Metadata, b.Metadata)
}
