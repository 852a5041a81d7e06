package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Player is one member of the fixed game-night roster. AvatarReference is a
// local path under the avatar mount, never a remote URL; empty means no
// avatar has been fetched for this player yet.
type Player struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalUsername string    `gorm:"uniqueIndex;not null;column:external_username" json:"external_username"`
	DisplayName      string    `gorm:"column:display_name" json:"display_name"`
	AvatarReference  string    `gorm:"column:avatar_reference" json:"avatar_reference,omitempty"`
	IsActive         bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Player) TableName() string { return "players" }

func (p *Player) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlayerPreferences is supplied by the CRUD layer and read by the scorer.
// Zero ranges mean the player has not stated that preference.
type PlayerPreferences struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlayerID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null;column:player_id" json:"player_id"`
	Player   *Player   `gorm:"foreignKey:PlayerID" json:"player,omitempty"`

	MinPlayerCount int     `gorm:"column:min_player_count" json:"min_player_count"`
	MaxPlayerCount int     `gorm:"column:max_player_count" json:"max_player_count"`
	MinPlayTime    int     `gorm:"column:min_play_time" json:"min_play_time"`
	MaxPlayTime    int     `gorm:"column:max_play_time" json:"max_play_time"`
	MinComplexity  float64 `gorm:"column:min_complexity" json:"min_complexity"`
	MaxComplexity  float64 `gorm:"column:max_complexity" json:"max_complexity"`

	PreferredCategories []*GameCategory `gorm:"many2many:player_preferred_categories" json:"preferred_categories,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PlayerPreferences) TableName() string { return "player_preferences" }

func (p *PlayerPreferences) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
