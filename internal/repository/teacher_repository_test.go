package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

var teacherCols = []string{
	"id", "email", "password_hash", "first_name", "last_name", "profile_picture", "role", "created_at", "updated_at",
	"user_id", "subject", "hourly_rate", "teaching_locations", "skills", "bio", "cv_url", "status", "rating",
}

func teacherRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(teacherCols).
		AddRow("t1", "t1@example.com", "h", "Ada", "Lovelace", nil, "TEACHER", now, now,
			"t1", "Math", 30.0, []byte(`{ONLINE,HOME}`), "algebra", "bio", nil, "ACTIVE", 4.5)
}

func TestTeacherRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN teacher_profiles t ON t.user_id = u.id WHERE u.id = $1")).
		WithArgs("t1").
		WillReturnRows(teacherRows())

	teacher, err := repo.FindByID(context.Background(), "t1")
	require.NoError(t, err)
	require.True(t, teacher.IsTeacher())
	assert.Equal(t, "Math", teacher.Teacher.Subject)
	assert.Equal(t, models.Locations{models.LocationOnline, models.LocationHome}, teacher.Teacher.TeachingLocations)
	assert.Equal(t, models.TeacherActive, teacher.Teacher.Status)
	assert.Equal(t, 4.5, teacher.Teacher.Rating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryFindByIDForUpdateLocks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.id = $1 FOR UPDATE OF t")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(teacherCols))

	_, err := repo.FindByIDForUpdate(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearchActiveOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.status = $1 ORDER BY t.rating DESC, u.last_name ASC, u.id ASC")).
		WithArgs("ACTIVE").
		WillReturnRows(teacherRows())

	teachers, err := repo.Search(context.Background(), models.TeacherSearch{})
	require.NoError(t, err)
	assert.Len(t, teachers, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositorySearchAllFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	min, max := 10.0, 40.0
	loc := models.LocationHome
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.status = $1 AND LOWER(t.subject) LIKE $2 AND t.hourly_rate >= $3 AND t.hourly_rate <= $4 AND $5 = ANY(t.teaching_locations)")).
		WithArgs("ACTIVE", `%100\%%`, 10.0, 40.0, "HOME").
		WillReturnRows(sqlmock.NewRows(teacherCols))

	teachers, err := repo.Search(context.Background(), models.TeacherSearch{Subject: " 100% ", MinRate: &min, MaxRate: &max, Location: &loc})
	require.NoError(t, err)
	assert.Empty(t, teachers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	status := models.TeacherPending
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.status = $1 ORDER BY u.created_at DESC, u.id ASC LIMIT 20 OFFSET 20")).
		WithArgs("PENDING").
		WillReturnRows(teacherRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teacher_profiles t WHERE t.status = $1")).
		WithArgs("PENDING").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherListFilter{Status: &status, Page: 2, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_profiles SET status = $2, updated_at = $3 WHERE user_id = $1")).
		WithArgs("t1", "SUSPENDED", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_profiles SET rating = $2, updated_at = $3 WHERE user_id = $1")).
		WithArgs("t1", 4.67, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "t1", models.TeacherSuspended))
	require.NoError(t, repo.UpdateRating(context.Background(), "t1", 4.67))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryUpdateProfile(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET first_name = ?, last_name = ?, profile_picture = ?, updated_at = ? WHERE id = ?")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE teacher_profiles SET subject = ?, hourly_rate = ?, teaching_locations = ?, skills = ?, bio = ?, cv_url = ?, updated_at = NOW() WHERE user_id = ?")).
		WithArgs("Physics", 45.0, `{"TEACHER_PLACE"}`, "", "", nil, "t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	teacher := &models.User{ID: "t1", FirstName: "Ada", LastName: "Lovelace", Role: models.RoleTeacher, Teacher: &models.TeacherProfile{
		Subject: "Physics", HourlyRate: 45, TeachingLocations: models.Locations{models.LocationTeacherPlace},
	}}
	require.NoError(t, repo.UpdateProfile(context.Background(), teacher))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.Error(t, repo.UpdateProfile(context.Background(), &models.User{ID: "p1"}))
}

func TestTeacherRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) AS count FROM teacher_profiles GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).AddRow("ACTIVE", 3).AddRow("PENDING", 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.StatusCount{{Status: "ACTIVE", Count: 3}, {Status: "PENDING", Count: 1}}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeacherRepositoryListUnpaged(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeacherRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN teacher_profiles t ON t.user_id = u.id ORDER BY u.created_at DESC, u.id ASC")).
		WillReturnRows(teacherRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM teacher_profiles t")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.TeacherListFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
