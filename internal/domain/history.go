package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlayerGameHistory is the durable aggregate: one row per (player, game)
// covering all-time play. Imports overwrite it in place. Rating sits on a
// 0-100 scale, either taken from an explicit source skill signal or derived
// from the win percentage; nil means no signal was available.
type PlayerGameHistory struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlayerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_game;column:player_id" json:"player_id"`
	GameID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_player_game;column:game_id" json:"game_id"`
	Player   *Player   `gorm:"foreignKey:PlayerID" json:"player,omitempty"`
	Game     *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`

	GamesPlayed   int      `gorm:"not null;column:games_played" json:"games_played"`
	Wins          int      `gorm:"not null;column:wins" json:"wins"`
	WinPercentage float64  `gorm:"not null;column:win_percentage" json:"win_percentage"`
	Rating        *float64 `gorm:"column:rating" json:"rating,omitempty"`

	Notes    string         `gorm:"column:notes" json:"notes,omitempty"`
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (PlayerGameHistory) TableName() string { return "player_game_histories" }

func (h *PlayerGameHistory) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
