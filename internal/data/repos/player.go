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

type PlayerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Player) ([]*types.Player, error)

	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Player, error)
	GetByExternalUsername(ctx context.Context, tx *gorm.DB, username string) (*types.Player, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Player, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)

	// UpsertFromProfile inserts a new roster row or refreshes the display
	// name; an empty avatar reference never clears a stored one.
	UpsertFromProfile(ctx context.Context, tx *gorm.DB, row *types.Player) (string, error)
}

type playerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlayerRepo(db *gorm.DB, baseLog *logger.Logger) PlayerRepo {
	return &playerRepo{db: db, log: baseLog.With("repo", "PlayerRepo")}
}

func (r *playerRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Player) ([]*types.Player, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Player{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *playerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Player, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Player
	err := t.WithContext(ctx).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *playerRepo) GetByExternalUsername(ctx context.Context, tx *gorm.DB, username string) (*types.Player, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if username == "" {
		return nil, nil
	}
	var out types.Player
	err := t.WithContext(ctx).Where("external_username = ?", username).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *playerRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Player, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Player
	if err := t.WithContext(ctx).Order("external_username ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *playerRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.Player{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *playerRepo) UpsertFromProfile(ctx context.Context, tx *gorm.DB, row *types.Player) (string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ExternalUsername == "" {
		return ActionUnchanged, nil
	}

	var existing types.Player
	err := t.WithContext(ctx).Where("external_username = ?", row.ExternalUsername).First(&existing).Error
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
	if row.DisplayName != "" && row.DisplayName != existing.DisplayName {
		updates["display_name"] = row.DisplayName
	}
	if row.AvatarReference != "" && row.AvatarReference != existing.AvatarReference {
		updates["avatar_reference"] = row.AvatarReference
	}

	if len(updates) == 0 {
		*row = existing
		return ActionUnchanged, nil
	}
	updates["updated_at"] = time.Now().UTC()
	if err := t.WithContext(ctx).
		Model(&types.Player{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return "", err
	}
	if err := t.WithContext(ctx).Where("id = ?", existing.ID).First(row).Error; err != nil {
		return "", err
	}
	return ActionUpdated, nil
}
