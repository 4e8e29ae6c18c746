package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ReportService derives aggregate views from current entity state. All
// reports are pure reads recomputed on every call; nothing is cached or
// mutated.
type ReportService struct {
	reports repository.ReportRepository
}

// NewReportService constructs the service.
func NewReportService(reports repository.ReportRepository) *ReportService {
	return &ReportService{reports: reports}
}

// TopAgents ranks agents with at least one assignment by resolution rate
// descending, ties broken by total resolved descending.
func (s *ReportService) TopAgents(ctx context.Context) ([]domain.AgentRanking, error) {
	rows, err := s.reports.AgentPerformanceRows(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	rankings := make([]domain.AgentRanking, 0, len(rows))
	for _, row := range rows {
		rankings = append(rankings, domain.AgentRanking{
			AgentID:        row.Agent.ID,
			Name:           row.Agent.Name,
			Email:          row.Agent.Email,
			TotalResolved:  row.Metrics.TotalResolved,
			TotalAssigned:  row.Metrics.TotalAssigned,
			ResolutionRate: row.Metrics.ResolutionRate(),
		})
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].ResolutionRate != rankings[j].ResolutionRate {
			return rankings[i].ResolutionRate > rankings[j].ResolutionRate
		}
		if rankings[i].TotalResolved != rankings[j].TotalResolved {
			return rankings[i].TotalResolved > rankings[j].TotalResolved
		}
		return rankings[i].AgentID < rankings[j].AgentID
	})
	return rankings, nil
}

// CategoryPerformance averages minutes from creation to close over closed
// tickets, grouped by category and ordered by average ascending.
func (s *ReportService) CategoryPerformance(ctx context.Context) ([]domain.CategoryPerformance, error) {
	samples, err := s.reports.ClosedTicketSamples(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	type bucket struct {
		name  string
		total int64
		count int64
	}
	buckets := make(map[int64]*bucket)
	for _, sample := range samples {
		minutes := int64(sample.ClosedAt.Sub(sample.CreatedAt) / time.Minute)
		if minutes < 0 {
			minutes = 0
		}
		b, ok := buckets[sample.CategoryID]
		if !ok {
			b = &bucket{name: sample.CategoryName}
			buckets[sample.CategoryID] = b
		}
		b.total += minutes
		b.count++
	}

	result := make([]domain.CategoryPerformance, 0, len(buckets))
	for id, b := range buckets {
		avg := math.Round(float64(b.total)/float64(b.count)*100) / 100
		result = append(result, domain.CategoryPerformance{
			CategoryID:           id,
			CategoryName:         b.name,
			ClosedTickets:        b.count,
			AvgResolutionMinutes: avg,
		})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgResolutionMinutes != result[j].AvgResolutionMinutes {
			return result[i].AvgResolutionMinutes < result[j].AvgResolutionMinutes
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result, nil
}

// MonthlyVolume counts tickets created within the given year and month,
// grouped by calendar day and category, ordered by day ascending.
func (s *ReportService) MonthlyVolume(ctx context.Context, year, month int) ([]domain.VolumeEntry, error) {
	if month < 1 || month > 12 {
		return nil, apperrors.NewValidationError("month must be between 1 and 12", map[string]any{"month": month})
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	samples, err := s.reports.CreationSamples(ctx, from, to)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	type key struct {
		day      time.Time
		category string
	}
	counts := make(map[key]int64)
	for _, sample := range samples {
		created := sample.CreatedAt.UTC()
		day := time.Date(created.Year(), created.Month(), created.Day(), 0, 0, 0, 0, time.UTC)
		counts[key{day: day, category: sample.CategoryName}]++
	}

	result := make([]domain.VolumeEntry, 0, len(counts))
	for k, n := range counts {
		result = append(result, domain.VolumeEntry{Day: k.day, CategoryName: k.category, Count: n})
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Day.Equal(result[j].Day) {
			return result[i].Day.Before(result[j].Day)
		}
		return result[i].CategoryName < result[j].CategoryName
	})
	return result, nil
}
