package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

type CategoryRepo interface {
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.GameCategory, error)
	UpsertByName(ctx context.Context, tx *gorm.DB, row *types.GameCategory) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameCategory, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	return &categoryRepo{db: db, log: baseLog.With("repo", "CategoryRepo")}
}

func (r *categoryRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.GameCategory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var out types.GameCategory
	err := t.WithContext(ctx).Where("name = ?", name).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *categoryRepo) UpsertByName(ctx context.Context, tx *gorm.DB, row *types.GameCategory) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.Name == "" {
		return nil
	}
	return t.WithContext(ctx).
		Where("name = ?", row.Name).
		Assign(map[string]interface{}{"description": row.Description}).
		FirstOrCreate(row).Error
}

func (r *categoryRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameCategory, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GameCategory
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *categoryRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.GameCategory{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

type TagRepo interface {
	UpsertByName(ctx context.Context, tx *gorm.DB, row *types.GameTag) error
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameTag, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type tagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagRepo(db *gorm.DB, baseLog *logger.Logger) TagRepo {
	return &tagRepo{db: db, log: baseLog.With("repo", "TagRepo")}
}

func (r *tagRepo) UpsertByName(ctx context.Context, tx *gorm.DB, row *types.GameTag) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.Name == "" {
		return nil
	}
	return t.WithContext(ctx).
		Where("name = ?", row.Name).
		FirstOrCreate(row).Error
}

func (r *tagRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameTag, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GameTag
	if err := t.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.GameTag{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
