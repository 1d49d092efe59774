package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChapterStat is one row of the per-chapter performance breakdown.
type ChapterStat struct {
	ChapterNumber int     `json:"chapter_number"`
	ChapterTitle  string  `json:"chapter_title"`
	Attempts      int     `json:"attempts"`
	AvgPercentage float64 `json:"avg_percentage"`
}

// DashboardStats aggregates the admin dashboard counters.
type DashboardStats struct {
	TotalLearners    int           `json:"total_learners"`
	TotalSubmissions int           `json:"total_submissions"`
	PendingReview    int           `json:"pending_review"`
	AvgPercentage    float64       `json:"avg_percentage"`
	Chapters         []ChapterStat `json:"chapters"`
}

// DashboardRepository computes aggregate statistics for the admin overview.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetStats runs the dashboard aggregate queries.
func (r *DashboardRepository) GetStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM users WHERE is_admin = FALSE),
		   (SELECT COUNT(*) FROM submissions),
		   (SELECT COUNT(*) FROM submissions WHERE status = 'pending_review'),
		   COALESCE((SELECT AVG(percentage) FROM submissions), 0)`,
	).Scan(&stats.TotalLearners, &stats.TotalSubmissions, &stats.PendingReview, &stats.AvgPercentage)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT chapter_number, MAX(chapter_title), COUNT(*), AVG(percentage)
		 FROM submissions
		 GROUP BY chapter_number
		 ORDER BY chapter_number ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c ChapterStat
		if err := rows.Scan(&c.ChapterNumber, &c.ChapterTitle, &c.Attempts, &c.AvgPercentage); err != nil {
			return nil, err
		}
		stats.Chapters = append(stats.Chapters, c)
	}
	return stats, rows.Err()
}
