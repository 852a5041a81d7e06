package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// Write actions reported by upsert methods, consumed by run summaries.
const (
	ActionInserted  = "inserted"
	ActionUpdated   = "updated"
	ActionUnchanged = "unchanged"
)

type GameRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Game) ([]*types.Game, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Game, error)
	GetByIDWithCategories(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Game, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Game, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Game, error)
	ListActiveWithCategories(ctx context.Context, tx *gorm.DB) ([]*types.Game, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// UpsertFromCatalog inserts a new catalog row or fills only the empty
	// fields of an existing one; curated values are never overwritten.
	// Returns the write action taken.
	UpsertFromCatalog(ctx context.Context, tx *gorm.DB, row *types.Game) (string, error)

	ReplaceCategories(ctx context.Context, tx *gorm.DB, gameID uuid.UUID, categories []*types.GameCategory) error
}

type gameRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGameRepo(db *gorm.DB, baseLog *logger.Logger) GameRepo {
	return &gameRepo{db: db, log: baseLog.With("repo", "GameRepo")}
}

func (r *gameRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Game) ([]*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Game{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *gameRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Game
	err := t.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gameRepo) GetByIDWithCategories(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Game
	err := t.WithContext(ctx).Preload("Categories").Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gameRepo) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if externalID == "" {
		return nil, nil
	}
	var out types.Game
	err := t.WithContext(ctx).Where("external_id = ?", externalID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *gameRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Game
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gameRepo) ListActiveWithCategories(ctx context.Context, tx *gorm.DB) ([]*types.Game, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Game
	if err := t.WithContext(ctx).
		Preload("Categories").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gameRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Game{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *gameRepo) UpsertFromCatalog(ctx context.Context, tx *gorm.DB, row *types.Game) (string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ExternalID == "" {
		return ActionUnchanged, nil
	}

	var existing types.Game
	err := t.WithContext(ctx).Where("external_id = ?", row.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := t.WithContext(ctx).Create(row).Error; err != nil {
			return "", err
		}
		return ActionInserted, nil
	}
	if err != nil {
		return "", err
	}

	updates := map[string]interface{}{}
	if existing.Name == "" && row.Name != "" {
		updates["name"] = row.Name
	}
	if existing.Description == "" && row.Description != "" {
		updates["description"] = row.Description
	}
	if existing.MinPlayers == 0 && row.MinPlayers != 0 {
		updates["min_players"] = row.MinPlayers
	}
	if existing.MaxPlayers == 0 && row.MaxPlayers != 0 {
		updates["max_players"] = row.MaxPlayers
	}
	if existing.AveragePlayTime == 0 && row.AveragePlayTime != 0 {
		updates["average_play_time"] = row.AveragePlayTime
	}
	if existing.ComplexityRating == 0 && row.ComplexityRating != 0 {
		updates["complexity_rating"] = row.ComplexityRating
	}
	if existing.ImageURL == "" && row.ImageURL != "" {
		updates["image_url"] = row.ImageURL
	}

	if len(updates) == 0 {
		*row = existing
		return ActionUnchanged, nil
	}
	updates["updated_at"] = time.Now().UTC()
	if err := t.WithContext(ctx).
		Model(&types.Game{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return "", err
	}
	if err := t.WithContext(ctx).Where("id = ?", existing.ID).First(row).Error; err != nil {
		return "", err
	}
	return ActionUpdated, nil
}

func (r *gameRepo) ReplaceCategories(ctx context.Context, tx *gorm.DB, gameID uuid.UUID, categories []*types.GameCategory) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if gameID == uuid.Nil {
		return nil
	}
	game := types.Game{ID: gameID}
	return t.WithContext(ctx).Model(&game).Association("Categories").Replace(categories)
}
