package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RunKindImport  = "import"
	RunKindExtract = "extract"
)

// ImportRun records one pipeline invocation and its structured summary.
type ImportRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Kind       string         `gorm:"not null;index;column:kind" json:"kind"`
	StartedAt  time.Time      `gorm:"not null;column:started_at" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	Success    bool           `gorm:"not null;column:success" json:"success"`
	Summary    datatypes.JSON `gorm:"column:summary;type:jsonb" json:"summary,omitempty"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ImportRun) TableName() string { return "import_runs" }

func (r *ImportRun) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
