package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/gamenight-backend/internal/bga"
	"github.com/yungbote/gamenight-backend/internal/config"
	"github.com/yungbote/gamenight-backend/internal/data/repos"
	"github.com/yungbote/gamenight-backend/internal/domain"
	"github.com/yungbote/gamenight-backend/internal/platform/logger"
	"github.com/yungbote/gamenight-backend/internal/platform/metrics"
)

// Pipeline runs the batch ingestion stages: catalog import, profile import,
// stats extraction, history aggregation and the opt-in session import. One
// worker parses each input document; every document's writes run in their own
// transaction so a failing document never takes its siblings down.
type Pipeline struct {
	cfg     *config.Config
	db      *gorm.DB
	repos   repos.Repos
	metrics *metrics.Metrics
	log     *logger.Logger
}

// New wires the pipeline. db and reg stay zero for snapshot-only use:
// RunExtract touches no database.
func New(cfg *config.Config, db *gorm.DB, reg repos.Repos, m *metrics.Metrics, baseLog *logger.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, db: db, repos: reg, metrics: m, log: baseLog.With("service", "Pipeline")}
}

type ImportOptions struct {
	DataRoot      string
	Workers       int
	FromExtracted bool // aggregate from saved snapshots instead of re-parsing markup
	Sessions      bool // opt-in table-export import
	DryRun        bool
}

type ExtractOptions struct {
	DataRoot string
	Workers  int
}

// RunImport executes the full ingestion run. It returns a ConfigurationError
// before anything is written when the inputs are unusable; recorded parse,
// resolution and validation errors land in the report instead and leave the
// run partial, never aborted.
func (p *Pipeline) RunImport(ctx context.Context, opts ImportOptions) (*bga.RunReport, error) {
	opts = p.importDefaults(opts)

	layout, err := DiscoverLayout(opts.DataRoot)
	if err != nil {
		return nil, err
	}
	if layout.CatalogPath == "" {
		missing := filepath.Join(opts.DataRoot, filepath.FromSlash(catalogRelPath))
		return nil, bga.NewConfigurationError(missing, "catalog document missing", nil)
	}
	entries, skipped, catalogErrs, err := p.parseCatalog(layout.CatalogPath)
	if err != nil {
		return nil, err
	}

	report := bga.NewRunReport(domain.RunKindImport)
	report.DryRun = opts.DryRun
	log := p.log.With("kind", domain.RunKindImport, "dry_run", opts.DryRun)
	log.Info("Starting import run...",
		"data_root", opts.DataRoot,
		"workers", opts.Workers,
		"players", len(layout.Players),
		"catalog_entries", len(entries),
	)
	if len(layout.Players) == 0 {
		log.Warn("No player directories found", "dir", filepath.Join(opts.DataRoot, filepath.FromSlash(profilesRelPath)))
	}

	var run *domain.ImportRun
	if !opts.DryRun {
		run = &domain.ImportRun{Kind: domain.RunKindImport, StartedAt: report.StartedAt}
		if err := p.repos.Runs.Create(ctx, nil, run); err != nil {
			return nil, fmt.Errorf("create import run: %w", err)
		}
	}

	p.metrics.DocumentProcessed(bga.ComponentCatalog)
	report.CountSkipped(bga.ComponentCatalog, skipped)
	p.recordErrors(report, bga.ComponentCatalog, catalogErrs...)
	p.writeCatalog(ctx, entries, opts.DryRun, report, log)

	results, werr := p.parsePlayers(ctx, layout, opts, report, log)

	// Extraction barrier: aggregation only ever sees the full record set.
	if werr != nil {
		p.recordErrors(report, bga.ComponentProfiles, werr)
		log.Warn("Parse phase interrupted; skipping aggregation", "error", werr)
	} else {
		index, err := p.buildGameIndex(ctx)
		if err != nil {
			p.recordErrors(report, bga.ComponentHistory, fmt.Errorf("load game index: %w", err))
		} else {
			source := "profile"
			if opts.FromExtracted {
				source = "snapshot"
			}
			p.aggregate(ctx, index, results, source, opts.DryRun, report, log)
			if opts.Sessions {
				p.importSessions(ctx, layout, index, opts.DryRun, report, log)
			}
		}
	}

	report.Finish()
	p.metrics.ObserveRun(domain.RunKindImport, report.FinishedAt.Sub(report.StartedAt))
	if run != nil {
		p.finishRun(context.WithoutCancel(ctx), run.ID, report, log)
	}
	log.Info("Import run finished",
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
		"errors", report.ErrorCount(),
	)
	return report, werr
}

// RunExtract parses every profile document and writes the per-player
// extracted-stats snapshot next to the raw inputs. No database is involved.
func (p *Pipeline) RunExtract(ctx context.Context, opts ExtractOptions) (*bga.RunReport, error) {
	if opts.DataRoot == "" {
		opts.DataRoot = p.cfg.Import.DataRoot
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = p.cfg.Import.Workers
	}
	if workers <= 0 {
		workers = 1
	}

	layout, err := DiscoverLayout(opts.DataRoot)
	if err != nil {
		return nil, err
	}

	report := bga.NewRunReport(domain.RunKindExtract)
	log := p.log.With("kind", domain.RunKindExtract)
	log.Info("Starting stats extraction...", "data_root", opts.DataRoot, "players", len(layout.Players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, pd := range layout.Players {
		pd := pd
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if pd.ProfilePath == "" {
				p.recordErrors(report, bga.ComponentProfiles,
					bga.NewParseError(pd.Name, "", "", "no profile document in directory"))
				return nil
			}
			doc := filepath.Base(pd.ProfilePath)
			f, err := os.Open(pd.ProfilePath)
			if err != nil {
				p.recordErrors(report, bga.ComponentStats,
					bga.NewParseError(doc, "", "", "unreadable: %v", err))
				return nil
			}
			stats, errs := bga.ParseStats(f, doc, pd.Name, bga.ProfileMappingV1, bga.StatsMappingV1)
			f.Close()
			p.metrics.DocumentProcessed(bga.ComponentStats)
			p.recordErrors(report, bga.ComponentStats, errs...)
			report.CountProcessed(bga.ComponentStats, len(stats.Games))

			snap := layout.SnapshotPath(pd.Name)
			if err := bga.SaveStatsFile(snap, stats); err != nil {
				p.recordErrors(report, bga.ComponentStats, err)
				return nil
			}
			log.Info("Snapshot written", "player", stats.PlayerName, "games", len(stats.Games), "path", snap)
			return nil
		})
	}
	werr := g.Wait()
	if werr != nil {
		p.recordErrors(report, bga.ComponentStats, werr)
	}

	report.Finish()
	p.metrics.ObserveRun(domain.RunKindExtract, report.FinishedAt.Sub(report.StartedAt))
	log.Info("Stats extraction finished",
		"duration", report.FinishedAt.Sub(report.StartedAt).String(),
		"errors", report.ErrorCount(),
	)
	return report, werr
}

func (p *Pipeline) importDefaults(opts ImportOptions) ImportOptions {
	if opts.DataRoot == "" {
		opts.DataRoot = p.cfg.Import.DataRoot
	}
	if opts.Workers <= 0 {
		opts.Workers = p.cfg.Import.Workers
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return opts
}

// parseCatalog runs before the first write so an unusable catalog document
// aborts the run with nothing persisted.
func (p *Pipeline) parseCatalog(path string) ([]bga.CatalogEntry, int, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, nil, bga.NewConfigurationError(path, "catalog document unreadable", err)
	}
	defer f.Close()
	return bga.ParseCatalog(f, filepath.Base(path), bga.CatalogMappingV1)
}

func (p *Pipeline) writeCatalog(ctx context.Context, entries []bga.CatalogEntry, dryRun bool, report *bga.RunReport, log *logger.Logger) {
	if dryRun {
		report.CountProcessed(bga.ComponentCatalog, len(entries))
		log.Info("Dry run; skipping catalog writes", "entries", len(entries))
		return
	}
	actions := make([]string, 0, len(entries))
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			row := &domain.Game{
				ExternalID:       e.ExternalID,
				Name:             e.Name,
				MinPlayers:       e.MinPlayers,
				MaxPlayers:       e.MaxPlayers,
				AveragePlayTime:  e.AveragePlayTime,
				ComplexityRating: e.ComplexityRating,
				IsActive:         true,
			}
			action, err := p.repos.Games.UpsertFromCatalog(ctx, tx, row)
			if err != nil {
				return fmt.Errorf("catalog entry %s: %w", e.ExternalID, err)
			}
			actions = append(actions, action)
		}
		return nil
	})
	if err != nil {
		p.recordErrors(report, bga.ComponentCatalog, err)
		return
	}
	for _, a := range actions {
		report.CountAction(bga.ComponentCatalog, a)
		p.metrics.RecordWritten(bga.ComponentCatalog, a)
	}
	log.Info("Catalog imported", "entries", len(entries))
}

// playerResult carries one parsed profile document across the extraction
// barrier. Workers write only their own slice slot.
type playerResult struct {
	dir     PlayerDir
	profile bga.Profile
	stats   bga.PlayerStats
	ok      bool
}

func (p *Pipeline) parsePlayers(ctx context.Context, layout *Layout, opts ImportOptions, report *bga.RunReport, log *logger.Logger) ([]playerResult, error) {
	results := make([]playerResult, len(layout.Players))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i, pd := range layout.Players {
		i, pd := i, pd
		results[i].dir = pd
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := &results[i]
			if pd.ProfilePath == "" {
				p.recordErrors(report, bga.ComponentProfiles,
					bga.NewParseError(pd.Name, "", "", "no profile document in directory"))
				return nil
			}
			doc := filepath.Base(pd.ProfilePath)
			raw, err := os.ReadFile(pd.ProfilePath)
			if err != nil {
				p.recordErrors(report, bga.ComponentProfiles,
					bga.NewParseError(doc, "", "", "unreadable: %v", err))
				return nil
			}
			p.metrics.DocumentProcessed(bga.ComponentProfiles)

			profile, err := bga.ParseProfile(bytes.NewReader(raw), doc, pd.Name, bga.ProfileMappingV1)
			if err != nil {
				p.recordErrors(report, bga.ComponentProfiles, err)
				return nil
			}
			res.profile = profile
			res.ok = true
			if pd.AvatarRef == "" {
				log.Warn("Avatar file missing; keeping any stored reference", "player", pd.Name)
			}

			if opts.FromExtracted {
				snap := layout.SnapshotPath(pd.Name)
				if _, err := os.Stat(snap); err != nil {
					log.Warn("No extracted-stats snapshot; skipping stats", "player", pd.Name, "path", snap)
					report.CountSkipped(bga.ComponentStats, 1)
					return nil
				}
				stats, err := bga.LoadStatsFile(snap)
				if err != nil {
					p.recordErrors(report, bga.ComponentStats, err)
					return nil
				}
				res.stats = stats
				return nil
			}

			stats, errs := bga.ParseStats(bytes.NewReader(raw), doc, pd.Name, bga.ProfileMappingV1, bga.StatsMappingV1)
			p.recordErrors(report, bga.ComponentStats, errs...)
			res.stats = stats
			return nil
		})
	}
	return results, g.Wait()
}

// recordErrors feeds the report and the error metrics together so the two
// never drift.
func (p *Pipeline) recordErrors(report *bga.RunReport, component string, errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		report.Record(component, err)
		p.metrics.PipelineError(component, errorCategory(err))
	}
}

func errorCategory(err error) string {
	switch err.(type) {
	case *bga.ParseError:
		return "parse"
	case *bga.ResolutionError:
		return "resolution"
	case *bga.ValidationError:
		return "validation"
	case *bga.ConfigurationError:
		return "configuration"
	default:
		return "other"
	}
}

func (p *Pipeline) finishRun(ctx context.Context, id uuid.UUID, report *bga.RunReport, log *logger.Logger) {
	summary, err := json.Marshal(report.Summary())
	if err != nil {
		log.Error("Marshaling run summary failed", "error", err)
		summary = nil
	}
	runErr := ""
	if report.HasErrors() {
		runErr = fmt.Sprintf("%d recorded errors", report.ErrorCount())
	}
	if err := p.repos.Runs.Finish(ctx, nil, id, !report.HasErrors(), summary, runErr); err != nil {
		log.Error("Persisting run summary failed", "run_id", id, "error", err)
	}
}
