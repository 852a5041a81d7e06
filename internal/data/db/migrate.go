package db

import (
	types "github.com/yungbote/gamenight-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Catalog
		// =========================
		&types.Game{},
		&types.GameCategory{},
		&types.GameTag{},
		&types.GameNameAlias{},

		// =========================
		// Roster + preferences
		// =========================
		&types.Player{},
		&types.PlayerPreferences{},

		// =========================
		// Imported history
		// =========================
		&types.PlayerGameHistory{},
		&types.GameSession{},
		&types.HeadToHeadTally{},

		// =========================
		// Pipeline bookkeeping
		// =========================
		&types.ImportRun{},
	)
}
