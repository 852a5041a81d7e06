package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameSession is one played table from the external platform. The JSON
// array columns are rank-ordered: index 0 is the winner. The upstream source
// does not export these yet; the session normalizer writes them from table
// exports when explicitly asked to.
type GameSession struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalTableID string    `gorm:"uniqueIndex;not null;column:external_table_id" json:"external_table_id"`
	ExternalGameID  string    `gorm:"index;column:external_game_id" json:"external_game_id"`
	GameName        string    `gorm:"column:game_name" json:"game_name"`
	PlayDate        time.Time `gorm:"column:play_date" json:"play_date"`

	PlayerIDs   datatypes.JSON `gorm:"column:player_ids;type:jsonb" json:"player_ids,omitempty"`
	PlayerNames datatypes.JSON `gorm:"column:player_names;type:jsonb" json:"player_names,omitempty"`
	Scores      datatypes.JSON `gorm:"column:scores;type:jsonb" json:"scores,omitempty"`
	Rankings    datatypes.JSON `gorm:"column:rankings;type:jsonb" json:"rankings,omitempty"`

	Duration int            `gorm:"column:duration" json:"duration"`
	Notes    string         `gorm:"column:notes" json:"notes,omitempty"`
	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GameSession) TableName() string { return "game_sessions" }

func (s *GameSession) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// HeadToHeadTally is the reserved pairwise record: how often player A
// finished ahead of player B across shared sessions. Rows keep
// PlayerAID < PlayerBID by string order so each pair stores once.
type HeadToHeadTally struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PlayerAID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_h2h_pair;column:player_a_id" json:"player_a_id"`
	PlayerBID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_h2h_pair;column:player_b_id" json:"player_b_id"`

	WinsA int `gorm:"not null;column:wins_a" json:"wins_a"`
	WinsB int `gorm:"not null;column:wins_b" json:"wins_b"`
	Ties  int `gorm:"not null;column:ties" json:"ties"`
	Plays int `gorm:"not null;column:plays" json:"plays"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (HeadToHeadTally) TableName() string { return "head_to_head_tallies" }

func (t *HeadToHeadTally) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
