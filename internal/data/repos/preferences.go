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

// PreferencesRepo reads what the CRUD layer writes. Upsert exists for that
// layer and for test seeding; the pipeline never writes preferences.
type PreferencesRepo interface {
	GetByPlayerID(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) (*types.PlayerPreferences, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.PlayerPreferences) error
	ReplacePreferredCategories(ctx context.Context, tx *gorm.DB, prefsID uuid.UUID, categories []*types.GameCategory) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type preferencesRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPreferencesRepo(db *gorm.DB, baseLog *logger.Logger) PreferencesRepo {
	return &preferencesRepo{db: db, log: baseLog.With("repo", "PreferencesRepo")}
}

func (r *preferencesRepo) GetByPlayerID(ctx context.Context, tx *gorm.DB, playerID uuid.UUID) (*types.PlayerPreferences, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if playerID == uuid.Nil {
		return nil, nil
	}
	var out types.PlayerPreferences
	err := t.WithContext(ctx).
		Preload("PreferredCategories").
		Where("player_id = ?", playerID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *preferencesRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.PlayerPreferences) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.PlayerID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(ctx).
		Where("player_id = ?", row.PlayerID).
		Assign(map[string]interface{}{
			"min_player_count": row.MinPlayerCount,
			"max_player_count": row.MaxPlayerCount,
			"min_play_time":    row.MinPlayTime,
			"max_play_time":    row.MaxPlayTime,
			"min_complexity":   row.MinComplexity,
			"max_complexity":   row.MaxComplexity,
			"updated_at":       row.UpdatedAt,
		}).
		FirstOrCreate(row).Error
}

func (r *preferencesRepo) ReplacePreferredCategories(ctx context.Context, tx *gorm.DB, prefsID uuid.UUID, categories []*types.GameCategory) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if prefsID == uuid.Nil {
		return nil
	}
	prefs := types.PlayerPreferences{ID: prefsID}
	return t.WithContext(ctx).Model(&prefs).Association("PreferredCategories").Replace(categories)
}

func (r *preferencesRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.PlayerPreferences{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
