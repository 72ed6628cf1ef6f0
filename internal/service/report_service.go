package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pennywise/pennywise-backend/internal/analytics"
	"github.com/pennywise/pennywise-backend/internal/domain"
	"github.com/pennywise/pennywise-backend/internal/export"
	"github.com/pennywise/pennywise-backend/internal/repository/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ArchiveURLExpiry is how long a presigned archive link stays valid
const ArchiveURLExpiry = 15 * time.Minute

const reportCacheName = "report"

// ReportService builds period reports from a user's transactions, budgets and saving logs
type ReportService struct {
	transactionRepo domain.TransactionRepository
	budgetRepo      domain.BudgetRepository
	savingLogRepo   domain.SavingLogRepository
	clock           Clock
	cache           ReportCache
	recorder        Recorder
	store           storage.ReportStore
}

// NewReportService creates a new ReportService
func NewReportService(
	transactionRepo domain.TransactionRepository,
	budgetRepo domain.BudgetRepository,
	savingLogRepo domain.SavingLogRepository,
	clock Clock,
) *ReportService {
	return &ReportService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		savingLogRepo:   savingLogRepo,
		clock:           clock,
		cache:           NoOpReportCache{},
		recorder:        noOpRecorder{},
	}
}

// SetCache sets the report cache
func (s *ReportService) SetCache(cache ReportCache) {
	if cache != nil {
		s.cache = cache
	}
}

// SetRecorder sets the metrics recorder
func (s *ReportService) SetRecorder(recorder Recorder) {
	if recorder != nil {
		s.recorder = recorder
	}
}

// SetReportStore enables archiving exported reports to object storage
func (s *ReportService) SetReportStore(store storage.ReportStore) {
	s.store = store
}

// NormalizePeriod maps a period token to one the report understands.
// Anything other than "year" means the six month report.
func NormalizePeriod(period string) string {
	if period == domain.PeriodYear {
		return domain.PeriodYear
	}
	return domain.PeriodSixMonths
}

// GetReport returns the report for period ending today, served from cache when possible.
// The cache generation is read before loading data; a change that lands while the
// report is being built moves the generation, so the stale result is stored under
// a key that is never read again.
func (s *ReportService) GetReport(ctx context.Context, userID uuid.UUID, period string) (*domain.Report, error) {
	period = NormalizePeriod(period)
	today := s.clock.today()

	gen, err := s.cache.Generation(ctx, userID)
	cacheable := err == nil
	if err != nil {
		s.recorder.IncrCacheError(reportCacheName)
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to read report cache generation")
	}
	key := domain.ReportKey{UserID: userID, Period: period, Day: today, Generation: gen}

	if cacheable {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			s.recorder.IncrCacheError(reportCacheName)
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to read report cache")
		case cached != nil:
			s.recorder.IncrCacheHit(reportCacheName)
			return cached, nil
		default:
			s.recorder.IncrCacheMiss(reportCacheName)
		}
	}

	report, err := s.build(ctx, userID, period, today)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("period", period).Msg("Failed to build report")
		return nil, err
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, report); err != nil {
			s.recorder.IncrCacheError(reportCacheName)
			log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to write report cache")
		}
	}
	return report, nil
}

func (s *ReportService) build(ctx context.Context, userID uuid.UUID, period string, today time.Time) (*domain.Report, error) {
	started := time.Now()
	window := analytics.ResolveWindow(today, period)

	var (
		transactions []*domain.Transaction
		budgets      []*domain.Budget
		logs         []*domain.SavingLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.ListByUser(gctx, userID, &domain.TransactionFilters{
			StartDate: &window.Start,
			EndDate:   &window.End,
		})
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if budgets, err = s.budgetRepo.ListByUser(gctx, userID); err != nil {
			return fmt.Errorf("list budgets: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if logs, err = s.savingLogRepo.ListByUser(gctx, userID); err != nil {
			return fmt.Errorf("list saving logs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	monthly := analytics.MonthlySeries(transactions, logs, window)
	report := &domain.Report{
		Period:           period,
		StartDate:        window.Start,
		EndDate:          window.End,
		MonthlyData:      monthly,
		CategoryExpenses: analytics.CategoryBreakdown(transactions, window),
		BudgetComparison: analytics.CompareBudgets(budgets, transactions, window),
		Metrics:          analytics.Summarize(monthly),
	}

	s.recorder.ObserveReportBuild(reportCacheName, time.Since(started))
	return report, nil
}

// ExportXLSX renders the report for period as a spreadsheet
func (s *ReportService) ExportXLSX(ctx context.Context, userID uuid.UUID, period string) (string, []byte, error) {
	report, err := s.GetReport(ctx, userID, period)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteReport(&buf, report); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("Failed to render report workbook")
		return "", nil, err
	}
	return export.Filename(report), buf.Bytes(), nil
}

// Archive uploads the exported report to object storage and returns a
// short-lived download link
func (s *ReportService) Archive(ctx context.Context, userID uuid.UUID, period string) (*domain.ReportArchive, error) {
	if s.store == nil {
		return nil, domain.ErrExportDisabled
	}

	filename, data, err := s.ExportXLSX(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	key := fmt.Sprintf("reports/%s/%d-%s", userID, now.Unix(), filename)
	obj := storage.ReportObject{Key: key, Filename: filename, ContentType: export.ContentType, Body: data}
	if err := s.store.Put(ctx, obj); err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Str("key", key).Msg("Failed to upload report archive")
		return nil, err
	}

	url, err := s.store.SignedURL(ctx, key, ArchiveURLExpiry)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to presign report archive")
		return nil, err
	}

	log.Info().Str("user_id", userID.String()).Str("key", key).Msg("Report archived")
	return &domain.ReportArchive{
		Key:       key,
		URL:       url,
		ExpiresAt: now.Add(ArchiveURLExpiry),
	}, nil
}
