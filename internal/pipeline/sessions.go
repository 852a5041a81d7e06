package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/gamenight-backend/internal/bga"
	"github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
)

// normalizedTable is one table export after roster matching and winner-first
// reordering. PlayerIDs aligns with PlayerNames; Nil marks a non-roster seat.
type normalizedTable struct {
	bga.TableExport
	PlayerIDs []uuid.UUID
	Roster    int
}

// normalizeTables dedupes by external table id, drops tables with fewer than
// two roster players and orders every table winner-first.
func normalizeTables(tables []bga.TableExport, roster map[string]uuid.UUID) (kept []normalizedTable, skipped int) {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if seen[t.TableID] {
			skipped++
			continue
		}
		seen[t.TableID] = true

		nt := winnerFirst(t)
		nt.PlayerIDs = make([]uuid.UUID, len(nt.PlayerNames))
		for i, name := range nt.PlayerNames {
			if id, ok := roster[name]; ok {
				nt.PlayerIDs[i] = id
				nt.Roster++
			}
		}
		if nt.Roster < 2 {
			skipped++
			continue
		}
		kept = append(kept, nt)
	}
	return kept, skipped
}

// winnerFirst reorders seats by rank, stable on the source order. Scores are
// left alone when their length does not line up with the seats.
func winnerFirst(t bga.TableExport) normalizedTable {
	idx := make([]int, len(t.PlayerNames))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return t.Ranks[idx[a]] < t.Ranks[idx[b]] })

	names := make([]string, len(idx))
	ranks := make([]int, len(idx))
	for i, j := range idx {
		names[i] = t.PlayerNames[j]
		ranks[i] = t.Ranks[j]
	}
	out := t
	out.PlayerNames = names
	out.Ranks = ranks
	if len(t.Scores) == len(idx) {
		scores := make([]int, len(idx))
		for i, j := range idx {
			scores[i] = t.Scores[j]
		}
		out.Scores = scores
	}
	return normalizedTable{TableExport: out}
}

func sessionRow(t normalizedTable) (*domain.GameSession, error) {
	ids := make([]string, len(t.PlayerIDs))
	for i, id := range t.PlayerIDs {
		if id != uuid.Nil {
			ids[i] = id.String()
		}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}
	namesJSON, err := json.Marshal(t.PlayerNames)
	if err != nil {
		return nil, err
	}
	scoresJSON, err := json.Marshal(t.Scores)
	if err != nil {
		return nil, err
	}
	ranksJSON, err := json.Marshal(t.Ranks)
	if err != nil {
		return nil, err
	}
	meta, err := json.Marshal(map[string]string{"source": "table-export"})
	if err != nil {
		return nil, err
	}
	return &domain.GameSession{
		ExternalTableID: t.TableID,
		ExternalGameID:  t.GameID,
		GameName:        t.GameName,
		PlayDate:        t.PlayDate,
		PlayerIDs:       datatypes.JSON(idsJSON),
		PlayerNames:     datatypes.JSON(namesJSON),
		Scores:          datatypes.JSON(scoresJSON),
		Rankings:        datatypes.JSON(ranksJSON),
		Metadata:        datatypes.JSON(meta),
	}, nil
}

type foldKey struct {
	player uuid.UUID
	game   uuid.UUID
}

type foldAgg struct {
	plays int
	wins  int
}

// foldHistories accumulates per-(player, game) counts from the kept tables.
// Rank 1 counts as a win, shared first place included.
func foldHistories(kept []normalizedTable, index *gameIndex) (map[foldKey]*foldAgg, []error) {
	out := map[foldKey]*foldAgg{}
	var errs []error
	for _, t := range kept {
		game := index.resolve(t.GameID, t.GameName)
		if game == nil {
			errs = append(errs, bga.NewResolutionError("", t.GameName, "no catalog match for table %s", t.TableID))
			continue
		}
		for i, id := range t.PlayerIDs {
			if id == uuid.Nil {
				continue
			}
			k := foldKey{player: id, game: game.ID}
			agg := out[k]
			if agg == nil {
				agg = &foldAgg{}
				out[k] = agg
			}
			agg.plays++
			if t.Ranks[i] == 1 {
				agg.wins++
			}
		}
	}
	return out, errs
}

// computeTallies rebuilds every head-to-head pair record from the stored
// session set. Pairs keep the smaller id first so each pair stores once.
func computeTallies(sessions []*domain.GameSession) []*domain.HeadToHeadTally {
	type pairKey struct{ a, b uuid.UUID }
	pairs := map[pairKey]*domain.HeadToHeadTally{}

	for _, s := range sessions {
		var ids []string
		var ranks []int
		if err := json.Unmarshal(s.PlayerIDs, &ids); err != nil {
			continue
		}
		if err := json.Unmarshal(s.Rankings, &ranks); err != nil {
			continue
		}
		if len(ranks) != len(ids) {
			continue
		}
		for i := 0; i < len(ids); i++ {
			if ids[i] == "" {
				continue
			}
			first, err := uuid.Parse(ids[i])
			if err != nil {
				continue
			}
			for j := i + 1; j < len(ids); j++ {
				if ids[j] == "" {
					continue
				}
				second, err := uuid.Parse(ids[j])
				if err != nil {
					continue
				}
				a, b, ra, rb := first, second, ranks[i], ranks[j]
				if b.String() < a.String() {
					a, b, ra, rb = b, a, rb, ra
				}
				k := pairKey{a: a, b: b}
				tally := pairs[k]
				if tally == nil {
					tally = &domain.HeadToHeadTally{PlayerAID: a, PlayerBID: b}
					pairs[k] = tally
				}
				tally.Plays++
				switch {
				case ra < rb:
					tally.WinsA++
				case rb < ra:
					tally.WinsB++
				default:
					tally.Ties++
				}
			}
		}
	}

	out := make([]*domain.HeadToHeadTally, 0, len(pairs))
	for _, t := range pairs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerAID != out[j].PlayerAID {
			return out[i].PlayerAID.String() < out[j].PlayerAID.String()
		}
		return out[i].PlayerBID.String() < out[j].PlayerBID.String()
	})
	return out
}

func (p *Pipeline) collectTables(layout *Layout, report *bga.RunReport) []bga.TableExport {
	var out []bga.TableExport
	for _, pd := range layout.Players {
		for _, path := range layout.SessionExports(pd.Name) {
			f, err := os.Open(path)
			if err != nil {
				p.recordErrors(report, bga.ComponentSessions,
					bga.NewParseError(filepath.Base(path), "", "", "unreadable: %v", err))
				continue
			}
			tables, errs := bga.DecodeSessionExport(f, filepath.Base(path), bga.SessionMappingV1)
			f.Close()
			p.metrics.DocumentProcessed(bga.ComponentSessions)
			p.recordErrors(report, bga.ComponentSessions, errs...)
			out = append(out, tables...)
		}
	}
	return out
}

// importSessions persists the kept tables, folds them into history rows for
// pairs the stats aggregation did not cover, and rebuilds the head-to-head
// tallies. The whole batch commits in one transaction.
func (p *Pipeline) importSessions(ctx context.Context, layout *Layout, index *gameIndex, dryRun bool, report *bga.RunReport, log *logger.Logger) {
	tables := p.collectTables(layout, report)
	if len(tables) == 0 {
		log.Info("No session exports found; nothing to import")
		return
	}

	players, err := p.repos.Players.ListAll(ctx, nil)
	if err != nil {
		p.recordErrors(report, bga.ComponentSessions, fmt.Errorf("load roster: %w", err))
		return
	}
	roster := make(map[string]uuid.UUID, len(players))
	for _, pl := range players {
		roster[pl.ExternalUsername] = pl.ID
	}

	kept, skipped := normalizeTables(tables, roster)
	report.CountSkipped(bga.ComponentSessions, skipped)
	log.Info("Session tables normalized", "decoded", len(tables), "kept", len(kept), "skipped", skipped)
	if len(kept) == 0 {
		return
	}

	folds, foldErrs := foldHistories(kept, index)
	p.recordErrors(report, bga.ComponentHistory, foldErrs...)
	foldKeys := make([]foldKey, 0, len(folds))
	for k := range folds {
		foldKeys = append(foldKeys, k)
	}
	sort.Slice(foldKeys, func(i, j int) bool {
		if foldKeys[i].player != foldKeys[j].player {
			return foldKeys[i].player.String() < foldKeys[j].player.String()
		}
		return foldKeys[i].game.String() < foldKeys[j].game.String()
	})

	if dryRun {
		report.CountProcessed(bga.ComponentSessions, len(kept))
		report.CountProcessed(bga.ComponentHistory, len(folds))
		log.Info("Dry run; skipping session writes", "sessions", len(kept), "history_rows", len(folds))
		return
	}

	sessionActions := make([]string, 0, len(kept))
	historyActions := make([]string, 0, len(folds))
	var historyCovered, tallyCount int
	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range kept {
			row, err := sessionRow(t)
			if err != nil {
				return fmt.Errorf("table %s: %w", t.TableID, err)
			}
			action, err := p.repos.Sessions.Upsert(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("table %s: %w", t.TableID, err)
			}
			sessionActions = append(sessionActions, action)

			// Exports pair the platform game id with the written name, so
			// teach the alias table any spelling the catalog lacks.
			if game := index.resolve(t.GameID, t.GameName); game != nil && !index.hasName(t.GameName) {
				if key := bga.NormalizeName(t.GameName); key != "" {
					if err := p.repos.Aliases.Upsert(ctx, tx, key, game.ID); err != nil {
						return fmt.Errorf("alias %q: %w", key, err)
					}
				}
			}
		}

		// Stats-derived aggregates cover all-time play; session folds only
		// fill pairs that have no row yet.
		for _, k := range foldKeys {
			existing, err := p.repos.Histories.GetByPlayerAndGame(ctx, tx, k.player, k.game)
			if err != nil {
				return err
			}
			if existing != nil {
				historyCovered++
				continue
			}
			agg := folds[k]
			pct := float64(agg.wins) / float64(agg.plays) * 100
			rating := pct
			meta, err := json.Marshal(historyMetadata{Source: "sessions"})
			if err != nil {
				return err
			}
			row := &domain.PlayerGameHistory{
				PlayerID:      k.player,
				GameID:        k.game,
				GamesPlayed:   agg.plays,
				Wins:          agg.wins,
				WinPercentage: pct,
				Rating:        &rating,
				Notes:         aggregateNotes(agg.plays, agg.wins, pct),
				Metadata:      datatypes.JSON(meta),
			}
			action, err := p.repos.Histories.Upsert(ctx, tx, row)
			if err != nil {
				return err
			}
			historyActions = append(historyActions, action)
		}

		all, err := p.repos.Sessions.ListAll(ctx, tx)
		if err != nil {
			return err
		}
		tallies := computeTallies(all)
		for _, t := range tallies {
			if err := p.repos.Tallies.Upsert(ctx, tx, t); err != nil {
				return err
			}
		}
		tallyCount = len(tallies)
		return nil
	})
	if err != nil {
		p.recordErrors(report, bga.ComponentSessions, err)
		return
	}

	for _, a := range sessionActions {
		report.CountAction(bga.ComponentSessions, a)
		p.metrics.RecordWritten(bga.ComponentSessions, a)
	}
	for _, a := range historyActions {
		report.CountAction(bga.ComponentHistory, a)
		p.metrics.RecordWritten(bga.ComponentHistory, a)
	}
	report.CountSkipped(bga.ComponentHistory, historyCovered)
	report.CountProcessed(bga.ComponentTallies, tallyCount)
	log.Info("Sessions imported",
		"sessions", len(sessionActions),
		"history_rows", len(historyActions),
		"tallies", tallyCount,
	)
}
