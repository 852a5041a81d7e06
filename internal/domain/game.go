package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Game is one catalog entry from the external platform. ExternalID is the
// platform's stable identifier and never changes once set; the catalog
// importer fills remaining fields only while they are empty so curated
// values survive re-imports.
type Game struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID       string    `gorm:"uniqueIndex;not null;column:external_id" json:"external_id"`
	Name             string    `gorm:"not null;column:name" json:"name"`
	Description      string    `gorm:"column:description" json:"description,omitempty"`
	MinPlayers       int       `gorm:"column:min_players" json:"min_players"`
	MaxPlayers       int       `gorm:"column:max_players" json:"max_players"`
	AveragePlayTime  int       `gorm:"column:average_play_time" json:"average_play_time"`
	ComplexityRating float64   `gorm:"column:complexity_rating" json:"complexity_rating"`
	ImageURL         string    `gorm:"column:image_url" json:"image_url,omitempty"`
	IsActive         bool      `gorm:"not null;default:true;column:is_active" json:"is_active"`

	Categories []*GameCategory `gorm:"many2many:games_categories" json:"categories,omitempty"`
	Tags       []*GameTag      `gorm:"many2many:games_tags" json:"tags,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Game) TableName() string { return "games" }

func (g *Game) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

type GameCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GameCategory) TableName() string { return "game_categories" }

func (c *GameCategory) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type GameTag struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"uniqueIndex;not null;column:name" json:"name"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GameTag) TableName() string { return "game_tags" }

func (t *GameTag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// GameNameAlias maps a normalized upstream name variant to a catalog game.
// Alias values are stored already normalized (see bga.NormalizeName).
type GameNameAlias struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Alias  string    `gorm:"uniqueIndex;not null;column:alias" json:"alias"`
	GameID uuid.UUID `gorm:"type:uuid;not null;index;column:game_id" json:"game_id"`
	Game   *Game     `gorm:"foreignKey:GameID" json:"game,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GameNameAlias) TableName() string { return "game_name_aliases" }

func (a *GameNameAlias) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
