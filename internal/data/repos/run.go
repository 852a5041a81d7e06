package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

type RunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) error
	Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, success bool, summary datatypes.JSON, runErr string) error
	ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ImportRun, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type runRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRunRepo(db *gorm.DB, baseLog *logger.Logger) RunRepo {
	return &runRepo{db: db, log: baseLog.With("repo", "RunRepo")}
}

func (r *runRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	return t.WithContext(ctx).Create(run).Error
}

func (r *runRepo) Finish(ctx context.Context, tx *gorm.DB, id uuid.UUID, success bool, summary datatypes.JSON, runErr string) error {
	t := tx
	if t == nil {
		t = r.db
	}
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"finished_at": &now,
		"success":     success,
		"summary":     summary,
		"error":       runErr,
		"updated_at":  now,
	}
	return t.WithContext(ctx).
		Model(&types.ImportRun{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *runRepo) ListRecent(ctx context.Context, tx *gorm.DB, limit int) ([]*types.ImportRun, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 20
	}
	var out []*types.ImportRun
	if err := t.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *runRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.ImportRun{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
