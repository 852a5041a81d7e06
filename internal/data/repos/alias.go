package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// AliasRepo stores known upstream name variants, keyed by normalized alias.
type AliasRepo interface {
	GetByAlias(ctx context.Context, tx *gorm.DB, alias string) (*types.GameNameAlias, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameNameAlias, error)
	Upsert(ctx context.Context, tx *gorm.DB, alias string, gameID uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type aliasRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAliasRepo(db *gorm.DB, baseLog *logger.Logger) AliasRepo {
	return &aliasRepo{db: db, log: baseLog.With("repo", "AliasRepo")}
}

func (r *aliasRepo) GetByAlias(ctx context.Context, tx *gorm.DB, alias string) (*types.GameNameAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if alias == "" {
		return nil, nil
	}
	var out types.GameNameAlias
	err := t.WithContext(ctx).Where("alias = ?", alias).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *aliasRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameNameAlias, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GameNameAlias
	if err := t.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *aliasRepo) Upsert(ctx context.Context, tx *gorm.DB, alias string, gameID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if alias == "" || gameID == uuid.Nil {
		return nil
	}
	row := &types.GameNameAlias{Alias: alias, GameID: gameID}
	return t.WithContext(ctx).
		Where("alias = ?", alias).
		Assign(map[string]interface{}{"game_id": gameID}).
		FirstOrCreate(row).Error
}

func (r *aliasRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.GameNameAlias{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
