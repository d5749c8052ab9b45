package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/pkg/database"
)

// ReviewRepository appends and reads reviews. There is no update or delete path.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create appends a review.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO reviews (id, parent_id, teacher_id, rating, comment, created_at) VALUES (:id, :parent_id, :teacher_id, :rating, :comment, :created_at)`
	if _, err := database.Conn(ctx, r.db).NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByTeacher returns a teacher's reviews, newest first.
func (r *ReviewRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Review, error) {
	const query = `SELECT id, parent_id, teacher_id, rating, comment, created_at FROM reviews WHERE teacher_id = $1 ORDER BY created_at DESC, id ASC`
	var reviews []models.Review
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &reviews, query, teacherID); err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
