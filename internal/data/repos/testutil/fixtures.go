package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/gamenight-backend/internal/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func SeedGame(tb testing.TB, ctx context.Context, tx *gorm.DB, externalID, name string) *types.Game {
	tb.Helper()
	g := &types.Game{
		ID:               uuid.New(),
		ExternalID:       externalID,
		Name:             name,
		MinPlayers:       2,
		MaxPlayers:       4,
		AveragePlayTime:  60,
		ComplexityRating: 2.5,
		IsActive:         true,
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed game: %v", err)
	}
	return g
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.GameCategory {
	tb.Helper()
	c := &types.GameCategory{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedPlayer(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.Player {
	tb.Helper()
	p := &types.Player{
		ID:               uuid.New(),
		ExternalUsername: username,
		DisplayName:      username,
		IsActive:         true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed player: %v", err)
	}
	return p
}

func SeedPreferences(tb testing.TB, ctx context.Context, tx *gorm.DB, playerID uuid.UUID) *types.PlayerPreferences {
	tb.Helper()
	pp := &types.PlayerPreferences{
		ID:             uuid.New(),
		PlayerID:       playerID,
		MinPlayerCount: 2,
		MaxPlayerCount: 5,
		MinPlayTime:    30,
		MaxPlayTime:    90,
		MinComplexity:  1.5,
		MaxComplexity:  3.5,
	}
	if err := tx.WithContext(ctx).Create(pp).Error; err != nil {
		tb.Fatalf("seed preferences: %v", err)
	}
	return pp
}

func SeedHistory(tb testing.TB, ctx context.Context, tx *gorm.DB, playerID, gameID uuid.UUID, played, wins int) *types.PlayerGameHistory {
	tb.Helper()
	pct := 0.0
	if played > 0 {
		pct = float64(wins) / float64(played) * 100
	}
	h := &types.PlayerGameHistory{
		ID:            uuid.New(),
		PlayerID:      playerID,
		GameID:        gameID,
		GamesPlayed:   played,
		Wins:          wins,
		WinPercentage: pct,
		Metadata:      datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(h).Error; err != nil {
		tb.Fatalf("seed history: %v", err)
	}
	return h
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, tableID, gameName string, playDate time.Time) *types.GameSession {
	tb.Helper()
	s := &types.GameSession{
		ID:              uuid.New(),
		ExternalTableID: tableID,
		GameName:        gameName,
		PlayDate:        playDate,
		PlayerIDs:       datatypes.JSON([]byte("[]")),
		PlayerNames:     datatypes.JSON([]byte("[]")),
		Scores:          datatypes.JSON([]byte("[]")),
		Rankings:        datatypes.JSON([]byte("[]")),
		Metadata:        datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

func PtrFloat(v float64) *float64 { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
