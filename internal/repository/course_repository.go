package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vinealms/vinea-backend/internal/model"
)

// CourseRepository handles course catalog data access.
type CourseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

// GetByID retrieves a course by its UUID.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	c := &model.Course{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, is_active, created_at, updated_at
		 FROM courses WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all courses, newest first.
func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, false)
}

// ListActive retrieves only active courses, for the learner catalog.
func (r *CourseRepository) ListActive(ctx context.Context) ([]model.Course, error) {
	return r.list(ctx, true)
}

func (r *CourseRepository) list(ctx context.Context, activeOnly bool) ([]model.Course, error) {
	query := `SELECT id, name, description, is_active, created_at, updated_at FROM courses`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO courses (name, description, is_active)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Name, c.Description, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update replaces a course's mutable fields.
func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE courses SET name = $1, description = $2, is_active = $3, updated_at = NOW()
		 WHERE id = $4`,
		c.Name, c.Description, c.IsActive, c.ID)
	return err
}

// Delete removes a course.
func (r *CourseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	return err
}
