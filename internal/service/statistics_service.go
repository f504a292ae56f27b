package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/library-desk-api/internal/models"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
)

const statisticsCacheKey = "stats:library"

type loanStatsRepository interface {
	Count(ctx context.Context) (int, error)
	CountOverdue(ctx context.Context, now time.Time) (int, error)
	DurationDistribution(ctx context.Context) ([]models.DurationCount, error)
}

type memberStatsRepository interface {
	Count(ctx context.Context) (int, error)
	AgeDistribution(ctx context.Context) ([]models.AgeCount, error)
	GradeDistribution(ctx context.Context) ([]models.GradeCount, error)
}

type shelfStatsRepository interface {
	Count(ctx context.Context) (int, error)
	SubjectDistribution(ctx context.Context) ([]models.SubjectCount, error)
	FirstSubjectDistribution(ctx context.Context) ([]models.SubjectCount, error)
}

// StatisticsService aggregates dashboard counters across the three
// collections. Results are cached for a short TTL when Redis is wired.
type StatisticsService struct {
	loans   loanStatsRepository
	members memberStatsRepository
	shelf   shelfStatsRepository
	cache   *CacheService
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatisticsService constructs the statistics service.
func NewStatisticsService(loans loanStatsRepository, members memberStatsRepository, shelf shelfStatsRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatisticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		loans:   loans,
		members: members,
		shelf:   shelf,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
		now:     time.Now,
	}
}

// Collect builds the full statistics payload, serving from cache when fresh.
func (s *StatisticsService) Collect(ctx context.Context) (*models.LibraryStatistics, error) {
	if s.cache.Enabled() {
		var cached models.LibraryStatistics
		if hit, err := s.cache.Get(ctx, statisticsCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	stats, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, statisticsCacheKey, stats, s.ttl); err != nil {
			s.logger.Warn("failed to cache statistics", zap.Error(err))
		}
	}
	return stats, nil
}

// Invalidate drops the cached statistics payload after a write to any of the
// underlying collections.
func (s *StatisticsService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, statisticsCacheKey); err != nil {
		s.logger.Warn("failed to invalidate statistics cache", zap.Error(err))
	}
}

func (s *StatisticsService) collect(ctx context.Context) (*models.LibraryStatistics, error) {
	now := s.now().UTC()
	stats := &models.LibraryStatistics{LastUpdated: now}

	var err error
	if stats.TotalLoans, err = s.loans.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count loans")
	}
	if stats.OverdueLoans, err = s.loans.CountOverdue(ctx, now); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count overdue loans")
	}
	if stats.LoansByDuration, err = s.loans.DurationDistribution(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate loan durations")
	}
	if stats.TotalMembers, err = s.members.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count members")
	}
	if stats.MembersByAge, err = s.members.AgeDistribution(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate member ages")
	}
	if stats.MembersByGrade, err = s.members.GradeDistribution(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate member grades")
	}
	if stats.TotalShelfItems, err = s.shelf.Count(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count shelf items")
	}
	if stats.ShelfSubjectDistribution, err = s.shelf.SubjectDistribution(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate shelf subjects")
	}
	if stats.ShelfFirstSubjects, err = s.shelf.FirstSubjectDistribution(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate first shelf subjects")
	}
	return stats, nil
}
