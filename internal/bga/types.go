package bga

import "time"

// CatalogEntry is one parsed game-list row, defaults already applied.
type CatalogEntry struct {
	ExternalID       string
	Name             string
	MinPlayers       int
	MaxPlayers       int
	AveragePlayTime  int
	ComplexityRating float64
}

// Catalog row defaults for fields the list document does not carry.
const (
	DefaultMinPlayers       = 2
	DefaultMaxPlayers       = 4
	DefaultAveragePlayTime  = 60
	DefaultComplexityRating = 2.5
)

// Profile is the roster-facing slice of a profile document. AvatarReference
// is filled by the caller from the local directory, never from the document.
type Profile struct {
	ExternalUsername string
	DisplayName      string
	AvatarReference  string
}

// RawStatsRecord is one per-game results block. WinPercentage is required by
// the stats mapping; nil never leaves the parser. JSON tags follow the
// extracted-stats snapshot layout so saved files round-trip.
type RawStatsRecord struct {
	GameName       string            `json:"game_name"`
	GameRef        string            `json:"game_identifier,omitempty"`
	ExternalGameID string            `json:"bga_game_id,omitempty"`
	RankClass      string            `json:"rank_level,omitempty"`
	ArenaRating    *int              `json:"elo_rating,omitempty"`
	GamesPlayed    int               `json:"games_played"`
	TrainingGames  int               `json:"training_games,omitempty"`
	Victories      int               `json:"victories"`
	WinPercentage  *float64          `json:"win_percentage,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// OverallStats is the profile header summary; purely informational.
type OverallStats struct {
	TotalXP          int `json:"total_xp,omitempty"`
	TotalGamesPlayed int `json:"total_games_played,omitempty"`
	TotalFriends     int `json:"total_friends,omitempty"`
}

// PlayerStats is the full extraction result for one player, and the shape of
// the <name>-extracted-stats.json snapshot.
type PlayerStats struct {
	PlayerName          string           `json:"player_name"`
	Overall             OverallStats     `json:"overall_stats"`
	Games               []RawStatsRecord `json:"game_statistics"`
	TotalGamesWithStats int              `json:"total_games_with_stats"`
}

// TableExport is one decoded session table, seats still in source order.
type TableExport struct {
	TableID     string
	GameID      string
	GameName    string
	PlayDate    time.Time
	PlayerNames []string
	Scores      []int
	Ranks       []int
}
