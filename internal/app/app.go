package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/varoOP/nocomps/internal/anilist"
	"github.com/varoOP/nocomps/internal/dedupe"
	"github.com/varoOP/nocomps/internal/domain"
	"github.com/varoOP/nocomps/internal/filter"
	"github.com/varoOP/nocomps/internal/notification"
	"github.com/varoOP/nocomps/internal/report"
	"github.com/varoOP/nocomps/internal/repository"
	"github.com/varoOP/nocomps/internal/seadex"
)

const notifyTimeout = 10 * time.Second

// App represents the main application with all dependencies initialized
type App struct {
	log                 zerolog.Logger
	config              *domain.Config
	catalog             domain.CatalogSource
	media               domain.MediaLookup
	dedupeService       dedupe.Service
	reportRepo          domain.ReportRepository
	notificationService domain.NotificationService
}

// NewApp creates a new application instance with all dependencies initialized.
// The caller must Close it.
func NewApp(cfg *domain.Config, log zerolog.Logger) *App {
	return &App{
		log:                 log,
		config:              cfg,
		catalog:             seadex.NewService(log, cfg.SeaDexURL, cfg.HTTPTimeout),
		media:               anilist.NewService(log, cfg.AniListURL, cfg.AniListRequestInterval, cfg.HTTPTimeout),
		dedupeService:       dedupe.NewService(log),
		reportRepo:          repository.NewFileRepository(log),
		notificationService: notification.NewService(log, cfg.DiscordWebhookURL),
	}
}

// Run builds the report and writes it to the configured output. The output
// file is only written once every entry has been enriched.
func (a *App) Run(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			// The run context may already be canceled.
			notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()

			if notifyErr := a.notificationService.SendError(notifyCtx, err); notifyErr != nil {
				a.log.Warn().Err(notifyErr).Msg("Failed to send error notification")
			}
		}
	}()

	stats := domain.Statistics{Output: a.config.Output}

	a.log.Info().Msg("Fetching SeaDex entries..")
	entries := a.catalog.Entries(ctx)
	counted := func(yield func(domain.CatalogEntry, error) bool) {
		for entry, err := range entries {
			if err == nil {
				stats.TotalEntries++
			}
			if !yield(entry, err) {
				return
			}
		}
	}

	var survivors []domain.CatalogEntry
	for entry, err := range filter.MissingComparisons(counted, domain.ComparisonHost, a.log) {
		if err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}
		survivors = append(survivors, entry)
	}

	stats.WithoutComparisons = len(survivors)
	stats.WithComparisons = stats.TotalEntries - len(survivors)

	a.log.Info().
		Int("total_entries", stats.TotalEntries).
		Int("without_comparisons", stats.WithoutComparisons).
		Msg("Catalog filtered")

	unique, dupes := a.dedupeService.Unique(survivors)
	stats.Duplicates = dupes

	ids := make([]int, 0, len(unique))
	for _, entry := range unique {
		ids = append(ids, entry.ID)
	}

	a.log.Info().Int("ids", len(ids)).Msg("Fetching AniList metadata..")
	media, batches, err := a.media.Lookup(ctx, ids)
	stats.Batches = batches
	if err != nil {
		return fmt.Errorf("failed to fetch AniList metadata: %w", err)
	}

	rows, missing := report.Join(unique, media)
	for _, id := range missing {
		a.log.Warn().Int("anilist_id", id).Msg("Entry not found on AniList, skipping")
	}
	stats.MissingMedia = len(missing)
	stats.Rows = len(rows)

	report.Sort(rows)

	doc, err := report.Document(rows)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := a.reportRepo.Store(ctx, a.config.Output, doc); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	a.log.Info().
		Int("total_entries", stats.TotalEntries).
		Int("with_comparisons", stats.WithComparisons).
		Int("without_comparisons", stats.WithoutComparisons).
		Int("duplicates", stats.Duplicates).
		Int("anilist_requests", stats.Batches).
		Int("missing_on_anilist", stats.MissingMedia).
		Int("rows", stats.Rows).
		Str("output", stats.Output).
		Msg("=== REPORT WRITTEN ===")

	if notifyErr := a.notificationService.SendSuccess(ctx, stats); notifyErr != nil {
		a.log.Warn().Err(notifyErr).Msg("Failed to send success notification")
	}

	return nil
}

// Close releases the upstream clients.
func (a *App) Close() error {
	return errors.Join(a.catalog.Close(), a.media.Close())
}
