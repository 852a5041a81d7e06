package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// Repos bundles every repository so callers wire the data layer once.
type Repos struct {
	Games       GameRepo
	Players     PlayerRepo
	Histories   HistoryRepo
	Preferences PreferencesRepo
	Categories  CategoryRepo
	Tags        TagRepo
	Aliases     AliasRepo
	Sessions    SessionRepo
	Tallies     TallyRepo
	Runs        RunRepo
}

func New(db *gorm.DB, baseLog *logger.Logger) Repos {
	baseLog.Info("Wiring repos...")
	return Repos{
		Games:       NewGameRepo(db, baseLog),
		Players:     NewPlayerRepo(db, baseLog),
		Histories:   NewHistoryRepo(db, baseLog),
		Preferences: NewPreferencesRepo(db, baseLog),
		Categories:  NewCategoryRepo(db, baseLog),
		Tags:        NewTagRepo(db, baseLog),
		Aliases:     NewAliasRepo(db, baseLog),
		Sessions:    NewSessionRepo(db, baseLog),
		Tallies:     NewTallyRepo(db, baseLog),
		Runs:        NewRunRepo(db, baseLog),
	}
}
