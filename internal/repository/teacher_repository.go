package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	"github.com/noah-isme/tuteur-adom-api/pkg/database"
)

const teacherSelect = `SELECT u.id, u.email, u.password_hash, u.first_name, u.last_name, u.profile_picture, u.role, u.created_at, u.updated_at,
	t.user_id, t.subject, t.hourly_rate, t.teaching_locations, t.skills, t.bio, t.cv_url, t.status, t.rating
FROM users u
JOIN teacher_profiles t ON t.user_id = u.id`

const teacherOrder = ` ORDER BY t.rating DESC, u.last_name ASC, u.id ASC`

type teacherRow struct {
	models.User
	models.TeacherProfile
}

func (r teacherRow) toUser() models.User {
	user := r.User
	profile := r.TeacherProfile
	user.Teacher = &profile
	return user
}

func toTeachers(rows []teacherRow) []models.User {
	out := make([]models.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toUser())
	}
	return out
}

// TeacherRepository reads and mutates teacher accounts and their vetting profile.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByID fetches a teacher by user id. Non-teachers yield sql.ErrNoRows.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, teacherSelect+` WHERE u.id = $1`, id)
}

// FindByIDForUpdate is FindByID holding a row lock on the profile until the transaction ends.
func (r *TeacherRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, teacherSelect+` WHERE u.id = $1 FOR UPDATE OF t`, id)
}

func (r *TeacherRepository) findOne(ctx context.Context, query, id string) (*models.User, error) {
	var row teacherRow
	if err := database.Conn(ctx, r.db).GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	user := row.toUser()
	return &user, nil
}

// Search returns ACTIVE teachers matching every supplied filter.
func (r *TeacherRepository) Search(ctx context.Context, filter models.TeacherSearch) ([]models.User, error) {
	args := []interface{}{models.TeacherActive}
	conditions := []string{"t.status = $1"}

	if subject := strings.TrimSpace(filter.Subject); subject != "" {
		args = append(args, "%"+escapeLike(strings.ToLower(subject))+"%")
		conditions = append(conditions, fmt.Sprintf("LOWER(t.subject) LIKE $%d", len(args)))
	}
	if filter.MinRate != nil {
		args = append(args, *filter.MinRate)
		conditions = append(conditions, fmt.Sprintf("t.hourly_rate >= $%d", len(args)))
	}
	if filter.MaxRate != nil {
		args = append(args, *filter.MaxRate)
		conditions = append(conditions, fmt.Sprintf("t.hourly_rate <= $%d", len(args)))
	}
	if filter.Location != nil {
		args = append(args, string(*filter.Location))
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(t.teaching_locations)", len(args)))
	}

	query := teacherSelect + " WHERE " + strings.Join(conditions, " AND ") + teacherOrder
	var rows []teacherRow
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("search teachers: %w", err)
	}
	return toTeachers(rows), nil
}

// List returns teachers, optionally by status, with the total count. A zero PageSize returns every row.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherListFilter) ([]models.User, int, error) {
	conn := database.Conn(ctx, r.db)
	where := ""
	var args []interface{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = " WHERE t.status = $1"
	}

	query := teacherSelect + where + " ORDER BY u.created_at DESC, u.id ASC"
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		size := filter.PageSize
		if size > 100 {
			size = 100
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", size, (page-1)*size)
	}
	var rows []teacherRow
	if err := conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	var total int
	if err := conn.GetContext(ctx, &total, "SELECT COUNT(*) FROM teacher_profiles t"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return toTeachers(rows), total, nil
}

// UpdateStatus writes a new vetting status.
func (r *TeacherRepository) UpdateStatus(ctx context.Context, id string, status models.TeacherStatus) error {
	const query = `UPDATE teacher_profiles SET status = $2, updated_at = $3 WHERE user_id = $1`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update teacher status: %w", err)
	}
	return nil
}

// UpdateRating stores the derived rating.
func (r *TeacherRepository) UpdateRating(ctx context.Context, id string, rating float64) error {
	const query = `UPDATE teacher_profiles SET rating = $2, updated_at = $3 WHERE user_id = $1`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id, rating, time.Now().UTC()); err != nil {
		return fmt.Errorf("update teacher rating: %w", err)
	}
	return nil
}

// UpdateProfile persists editable account and profile fields. Status and rating are left alone.
func (r *TeacherRepository) UpdateProfile(ctx context.Context, teacher *models.User) error {
	if teacher.Teacher == nil {
		return fmt.Errorf("update teacher profile: user %s has no teacher profile", teacher.ID)
	}
	conn := database.Conn(ctx, r.db)
	teacher.UpdatedAt = time.Now().UTC()
	teacher.Teacher.UserID = teacher.ID

	const userQuery = `UPDATE users SET first_name = :first_name, last_name = :last_name, profile_picture = :profile_picture, updated_at = :updated_at WHERE id = :id`
	if _, err := conn.NamedExecContext(ctx, userQuery, teacher); err != nil {
		return fmt.Errorf("update teacher account: %w", err)
	}
	const profileQuery = `UPDATE teacher_profiles SET subject = :subject, hourly_rate = :hourly_rate, teaching_locations = :teaching_locations, skills = :skills, bio = :bio, cv_url = :cv_url, updated_at = NOW() WHERE user_id = :user_id`
	if _, err := conn.NamedExecContext(ctx, profileQuery, teacher.Teacher); err != nil {
		return fmt.Errorf("update teacher profile: %w", err)
	}
	return nil
}

// CountByStatus aggregates teachers per vetting status.
func (r *TeacherRepository) CountByStatus(ctx context.Context) ([]models.StatusCount, error) {
	return countByStatus(ctx, database.Conn(ctx, r.db), "teacher_profiles")
}

func countByStatus(ctx context.Context, conn database.Executor, table string) ([]models.StatusCount, error) {
	query := fmt.Sprintf("SELECT status, COUNT(*) AS count FROM %s GROUP BY status", table)
	var counts []models.StatusCount
	if err := conn.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count %s by status: %w", table, err)
	}
	return counts, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
