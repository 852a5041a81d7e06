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

type SessionRepo interface {
	GetByExternalTableID(ctx context.Context, tx *gorm.DB, tableID string) (*types.GameSession, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameSession, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.GameSession) (string, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) GetByExternalTableID(ctx context.Context, tx *gorm.DB, tableID string) (*types.GameSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if tableID == "" {
		return nil, nil
	}
	var out types.GameSession
	err := t.WithContext(ctx).Where("external_table_id = ?", tableID).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *sessionRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.GameSession, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.GameSession
	if err := t.WithContext(ctx).Order("play_date ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sessionRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.GameSession) (string, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ExternalTableID == "" {
		return ActionUnchanged, nil
	}

	var existing types.GameSession
	err := t.WithContext(ctx).Where("external_table_id = ?", row.ExternalTableID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := t.WithContext(ctx).Create(row).Error; err != nil {
			return "", err
		}
		return ActionInserted, nil
	}
	if err != nil {
		return "", err
	}

	updates := map[string]interface{}{
		"external_game_id": row.ExternalGameID,
		"game_name":        row.GameName,
		"play_date":        row.PlayDate,
		"player_ids":       row.PlayerIDs,
		"player_names":     row.PlayerNames,
		"scores":           row.Scores,
		"rankings":         row.Rankings,
		"duration":         row.Duration,
		"metadata":         row.Metadata,
		"updated_at":       time.Now().UTC(),
	}
	if err := t.WithContext(ctx).
		Model(&types.GameSession{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error; err != nil {
		return "", err
	}
	if err := t.WithContext(ctx).Where("id = ?", existing.ID).First(row).Error; err != nil {
		return "", err
	}
	return ActionUpdated, nil
}

func (r *sessionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.GameSession{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// TallyRepo stores the reserved head-to-head pair records. Writes overwrite
// whole rows; tallies are recomputed from the full session set each run.
type TallyRepo interface {
	GetByPair(ctx context.Context, tx *gorm.DB, playerAID, playerBID uuid.UUID) (*types.HeadToHeadTally, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.HeadToHeadTally, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.HeadToHeadTally) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type tallyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTallyRepo(db *gorm.DB, baseLog *logger.Logger) TallyRepo {
	return &tallyRepo{db: db, log: baseLog.With("repo", "TallyRepo")}
}

func (r *tallyRepo) GetByPair(ctx context.Context, tx *gorm.DB, playerAID, playerBID uuid.UUID) (*types.HeadToHeadTally, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if playerAID == uuid.Nil || playerBID == uuid.Nil {
		return nil, nil
	}
	var out types.HeadToHeadTally
	err := t.WithContext(ctx).
		Where("player_a_id = ? AND player_b_id = ?", playerAID, playerBID).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *tallyRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.HeadToHeadTally, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.HeadToHeadTally
	if err := t.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tallyRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.HeadToHeadTally) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.PlayerAID == uuid.Nil || row.PlayerBID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Where("player_a_id = ? AND player_b_id = ?", row.PlayerAID, row.PlayerBID).
		Assign(map[string]interface{}{
			"wins_a":     row.WinsA,
			"wins_b":     row.WinsB,
			"ties":       row.Ties,
			"plays":      row.Plays,
			"updated_at": time.Now().UTC(),
		}).
		FirstOrCreate(row).Error
}

func (r *tallyRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var n int64
	if err := t.WithContext(ctx).Model(&types.HeadToHeadTally{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
