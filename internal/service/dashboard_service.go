package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/repository"
)

// DashboardService serves the admin overview statistics.
type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
	log           zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(dashboardRepo *repository.DashboardRepository, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		log:           log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetStats returns learner counts, submission counts, and per-chapter
// performance averages.
func (s *DashboardService) GetStats(ctx context.Context) (*repository.DashboardStats, error) {
	stats, err := s.dashboardRepo.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Chapters == nil {
		stats.Chapters = []repository.ChapterStat{}
	}
	return stats, nil
}
