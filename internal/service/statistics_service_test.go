package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/library-desk-api/internal/models"
)

type stubLoanStats struct {
	total     int
	overdue   int
	durations []models.DurationCount
}

func (s *stubLoanStats) Count(ctx context.Context) (int, error) { return s.total, nil }
func (s *stubLoanStats) CountOverdue(ctx context.Context, now time.Time) (int, error) {
	return s.overdue, nil
}
func (s *stubLoanStats) DurationDistribution(ctx context.Context) ([]models.DurationCount, error) {
	return s.durations, nil
}

type stubMemberStats struct {
	total  int
	ages   []models.AgeCount
	grades []models.GradeCount
}

func (s *stubMemberStats) Count(ctx context.Context) (int, error) { return s.total, nil }
func (s *stubMemberStats) AgeDistribution(ctx context.Context) ([]models.AgeCount, error) {
	return s.ages, nil
}
func (s *stubMemberStats) GradeDistribution(ctx context.Context) ([]models.GradeCount, error) {
	return s.grades, nil
}

type stubShelfStats struct {
	total    int
	subjects []models.SubjectCount
	first    []models.SubjectCount
}

func (s *stubShelfStats) Count(ctx context.Context) (int, error) { return s.total, nil }
func (s *stubShelfStats) SubjectDistribution(ctx context.Context) ([]models.SubjectCount, error) {
	return s.subjects, nil
}
func (s *stubShelfStats) FirstSubjectDistribution(ctx context.Context) ([]models.SubjectCount, error) {
	return s.first, nil
}

func TestStatisticsServiceCollect(t *testing.T) {
	loans := &stubLoanStats{
		total:     7,
		overdue:   2,
		durations: []models.DurationCount{{Duration: "1-week", Count: 5}, {Duration: "1-month", Count: 2}},
	}
	members := &stubMemberStats{
		total:  30,
		ages:   []models.AgeCount{{Age: 12, Count: 18}},
		grades: []models.GradeCount{{Grade: "7", Count: 18}, {Grade: "9", Count: 12}},
	}
	shelf := &stubShelfStats{
		total:    120,
		subjects: []models.SubjectCount{{Subject: "science fiction", Count: 40}},
		first:    []models.SubjectCount{{Subject: "science fiction", Count: 25}},
	}

	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc := NewStatisticsService(loans, members, shelf, nil, time.Minute, nil)
	svc.now = func() time.Time { return now }

	stats, err := svc.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.TotalLoans)
	assert.Equal(t, 2, stats.OverdueLoans)
	assert.Equal(t, 30, stats.TotalMembers)
	assert.Equal(t, 120, stats.TotalShelfItems)
	assert.Len(t, stats.LoansByDuration, 2)
	assert.Len(t, stats.MembersByGrade, 2)
	assert.Equal(t, "science fiction", stats.ShelfSubjectDistribution[0].Subject)
	assert.Equal(t, now, stats.LastUpdated)
}
