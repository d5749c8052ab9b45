package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/pkg/database"
)

const userColumns = `id, email, password_hash, first_name, last_name, profile_picture, role, created_at, updated_at`

// UserRepository persists accounts together with their role profile.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// ExistsByEmail reports whether any account uses email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var exists int
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// Create inserts the user and whichever profile its role carries.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	conn := database.Conn(ctx, r.db)
	const query = `INSERT INTO users (id, email, password_hash, first_name, last_name, profile_picture, role, created_at, updated_at) VALUES (:id, :email, :password_hash, :first_name, :last_name, :profile_picture, :role, :created_at, :updated_at)`
	if _, err := conn.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if user.Teacher != nil {
		user.Teacher.UserID = user.ID
		const profileQuery = `INSERT INTO teacher_profiles (user_id, subject, hourly_rate, teaching_locations, skills, bio, cv_url, status, rating) VALUES (:user_id, :subject, :hourly_rate, :teaching_locations, :skills, :bio, :cv_url, :status, :rating)`
		if _, err := conn.NamedExecContext(ctx, profileQuery, user.Teacher); err != nil {
			return fmt.Errorf("create teacher profile: %w", err)
		}
	}

	if user.Parent != nil {
		for i := range user.Parent.Children {
			child := &user.Parent.Children[i]
			child.ParentID = user.ID
			if err := r.createChild(ctx, conn, child); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *UserRepository) createChild(ctx context.Context, conn database.Executor, child *models.Child) error {
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	if child.CreatedAt.IsZero() {
		child.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO children (id, parent_id, name, age, grade, created_at) VALUES (:id, :parent_id, :name, :age, :grade, :created_at)`
	if _, err := conn.NamedExecContext(ctx, query, child); err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	return nil
}

// FindByEmail loads an account by email without its profile.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	var user models.User
	if err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads an account by id without its profile.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user models.User
	if err := database.Conn(ctx, r.db).GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListParents returns every parent with their children attached.
func (r *UserRepository) ListParents(ctx context.Context) ([]models.User, error) {
	conn := database.Conn(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY last_name ASC, first_name ASC, id ASC`
	var parents []models.User
	if err := conn.SelectContext(ctx, &parents, query, models.RoleParent); err != nil {
		return nil, fmt.Errorf("list parents: %w", err)
	}
	if len(parents) == 0 {
		return parents, nil
	}

	ids := make([]string, len(parents))
	for i := range parents {
		ids[i] = parents[i].ID
		parents[i].Parent = &models.ParentProfile{Children: []models.Child{}}
	}

	const childQuery = `SELECT id, parent_id, name, age, grade, created_at FROM children WHERE parent_id = ANY($1) ORDER BY name ASC, id ASC`
	var children []models.Child
	if err := conn.SelectContext(ctx, &children, childQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}

	index := make(map[string]int, len(parents))
	for i := range parents {
		index[parents[i].ID] = i
	}
	for _, child := range children {
		if i, ok := index[child.ParentID]; ok {
			parents[i].Parent.Children = append(parents[i].Parent.Children, child)
		}
	}
	return parents, nil
}

// CountByRole counts accounts with the given role.
func (r *UserRepository) CountByRole(ctx context.Context, role models.UserRole) (int, error) {
	const query = `SELECT COUNT(*) FROM users WHERE role = $1`
	var total int
	if err := database.Conn(ctx, r.db).GetContext(ctx, &total, query, role); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
