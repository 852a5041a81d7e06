package bga

import "regexp"

// Field mappings bind each document type to the markup/JSON shape of one
// upstream layout version. Parsers read selectors and field keys from the
// mapping they are handed, so an upstream layout change becomes a new
// mapping version and a missing required field fails loudly by name instead
// of sliding through as a zero value.

// CatalogMapping describes the bulk game-list document.
type CatalogMapping struct {
	Version       string
	EntrySelector string
	IDAttr        string
	Placeholder   string
	BoundsRe      *regexp.Regexp
}

// ProfileMapping describes the player profile document.
type ProfileMapping struct {
	Version          string
	UsernameSelector string
	XPSelector       string
	ResultsSelector  string
	FriendsSelector  string
	XPRe             *regexp.Regexp
	GamesPlayedRe    *regexp.Regexp
	FriendsRe        *regexp.Regexp
}

// StatsMapping describes the per-game results blocks inside a profile
// document. WinPctRe is the one required detail field (see RequiredFields).
type StatsMapping struct {
	Version           string
	BlockSelector     string
	GameNameSelector  string
	GameIconSelector  string
	RankSelector      string
	RankValueSelector string
	DetailsSelector   string
	StatLinkSelector  string

	GameRefRe   *regexp.Regexp
	GameSlugRe  *regexp.Regexp
	GameIDRe    *regexp.Regexp
	GamesRe     *regexp.Regexp
	VictoriesRe *regexp.Regexp
	WinPctRe    *regexp.Regexp
}

// SessionMapping describes the table-export JSON envelope. Player order
// fields are comma-joined strings, one position per seat.
type SessionMapping struct {
	Version     string
	DataKey     string
	TablesKey   string
	TableIDKey  string
	GameIDKey   string
	GameNameKey string
	StartKey    string
	NamesKey    string
	ScoresKey   string
	RanksKey    string
}

// Current upstream layouts. New versions are added alongside, never edited
// in place.
var (
	CatalogMappingV1 = CatalogMapping{
		Version:       "catalog/v1",
		EntrySelector: "option",
		IDAttr:        "value",
		Placeholder:   "Any games",
		BoundsRe:      regexp.MustCompile(`\(\s*(\d+)\s*-\s*(\d+)\s*\)\s*$`),
	}

	ProfileMappingV1 = ProfileMapping{
		Version:          "profile/v1",
		UsernameSelector: "span#real_player_name",
		XPSelector:       "div.xp_container",
		ResultsSelector:  "div#pageheader_lastresults",
		FriendsSelector:  "div#pageheader_friends",
		XPRe:             regexp.MustCompile(`(\d+)\s*XP`),
		GamesPlayedRe:    regexp.MustCompile(`(\d+(?:\s*\d+)*)\s*games played`),
		FriendsRe:        regexp.MustCompile(`(\d+)\s*friends?`),
	}

	StatsMappingV1 = StatsMapping{
		Version:           "stats/v1",
		BlockSelector:     "div.palmares_game",
		GameNameSelector:  "a.gamename",
		GameIconSelector:  "img.palmares_gameicon",
		RankSelector:      "div[class*='gamerank']",
		RankValueSelector: "span.gamerank_value",
		DetailsSelector:   "div.palmares_details",
		StatLinkSelector:  "a[href*='playerstat']",

		GameRefRe:   regexp.MustCompile(`game=([^&]+)`),
		GameSlugRe:  regexp.MustCompile(`/gamemedia/([^/]+)/`),
		GameIDRe:    regexp.MustCompile(`game=(\d+)`),
		GamesRe:     regexp.MustCompile(`(\d+(?:\s\d{3})*)\s*(?:\(\+(\d+)\))?\s*[Gg]ames`),
		VictoriesRe: regexp.MustCompile(`(\d+(?:\s\d{3})*)\s*[Vv]ictories`),
		WinPctRe:    regexp.MustCompile(`(\d+(?:\.\d+)?)%\s*wins`),
	}

	SessionMappingV1 = SessionMapping{
		Version:     "session/v1",
		DataKey:     "data",
		TablesKey:   "tables",
		TableIDKey:  "table_id",
		GameIDKey:   "game_id",
		GameNameKey: "game_name",
		StartKey:    "start",
		NamesKey:    "player_names",
		ScoresKey:   "scores",
		RanksKey:    "ranks",
	}
)

// Rank-class ladder, worst to best. Aggregation maps these to the canonical
// 0-100 rating scale.
var RankClasses = []string{
	"beginner",
	"apprentice",
	"average",
	"good",
	"strong",
	"expert",
	"master",
}
