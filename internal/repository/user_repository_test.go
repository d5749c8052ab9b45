package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var userCols = []string{"id", "email", "password_hash", "first_name", "last_name", "profile_picture", "role", "created_at", "updated_at"}

func TestUserRepositoryExistsByEmail(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("b@example.com").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(sqlmock.AnyArg(), "t@example.com", "hash", "Ada", "Lovelace", nil, "TEACHER", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_profiles").
		WithArgs(sqlmock.AnyArg(), "Math", 30.0, `{"ONLINE"}`, "", "", nil, "PENDING", 0.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		Email:        "t@example.com",
		PasswordHash: "hash",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         models.RoleTeacher,
		Teacher: &models.TeacherProfile{
			Subject:           "Math",
			HourlyRate:        30,
			TeachingLocations: models.Locations{models.LocationOnline},
			Status:            models.TeacherPending,
		},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, user.Teacher.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateParentWithChildren(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO children").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Lea", 8, "CE2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	user := &models.User{
		Email:  "p@example.com",
		Role:   models.RoleParent,
		Parent: &models.ParentProfile{Children: []models.Child{{Name: "Lea", Age: 8, Grade: "CE2"}}},
	}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, user.ID, user.Parent.Children[0].ParentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryListParents(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE role = $1 ORDER BY last_name ASC")).
		WithArgs("PARENT").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("p1", "p1@example.com", "h", "Jean", "Dupont", nil, "PARENT", now, now).
			AddRow("p2", "p2@example.com", "h", "Marie", "Martin", nil, "PARENT", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM children WHERE parent_id = ANY($1)")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id", "name", "age", "grade", "created_at"}).
			AddRow("c1", "p1", "Lea", 8, "CE2", now))

	parents, err := repo.ListParents(context.Background())
	require.NoError(t, err)
	require.Len(t, parents, 2)
	assert.Len(t, parents[0].Parent.Children, 1)
	assert.Empty(t, parents[1].Parent.Children)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
