package repositories

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/ssis/internal/app/models"
	"github.com/yigit/ssis/internal/pkg/apperrors"
)

func strPtr(s string) *string { return &s }

var studentRowColumns = []string{"id", "student_id", "first_name", "last_name", "gender", "year_level", "course", "college", "profile_image"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestStudentRepositoryListJoinsCollege(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	rows := pgxmock.NewRows(studentRowColumns).
		AddRow(int64(1), "2021-0001", "Ana", "Cruz", "Female", "1st Year", "BSCS", strPtr("CCS"), strPtr("ana.png")).
		AddRow(int64(2), "2021-0002", "Ben", "Reyes", "Male", "2nd Year", "GONE", nil, nil)

	mock.ExpectQuery(`SELECT s.id, .* p.college, s.profile_image FROM students s LEFT JOIN programs p ON s.course = p.program_code ORDER BY s.id ASC`).
		WillReturnRows(rows)

	students, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 2)

	assert.Equal(t, int64(1), students[0].ID)
	require.NotNil(t, students[0].College)
	assert.Equal(t, "CCS", *students[0].College)
	assert.Equal(t, "ana.png", *students[0].ProfileImage)

	assert.Nil(t, students[1].College)
	assert.Nil(t, students[1].ProfileImage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryListDatabaseError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

	_, err := NewStudentRepository(mock).List(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrDatabase)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestStudentRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)
	s := &models.Student{StudentID: "2021-0003", FirstName: "Cy", LastName: "Lim", Gender: "Male", YearLevel: "3rd Year", Course: "BSIT"}

	mock.ExpectQuery(`INSERT INTO students \(student_id,first_name,last_name,gender,year_level,course,profile_image\) VALUES .* RETURNING id`).
		WithArgs("2021-0003", "Cy", "Lim", "Male", "3rd Year", "BSIT", s.ProfileImage).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(9)))

	id, err := repo.Create(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, int64(9), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("INSERT INTO students").
		WithArgs("dup", "", "", "", "", "", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_student_id_key"})

	_, err := NewStudentRepository(mock).Create(context.Background(), &models.Student{StudentID: "dup"})
	assert.ErrorIs(t, err, apperrors.ErrStudentIDAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdateMissing(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("UPDATE students SET").
		WithArgs("", "", "", "", "", "", pgxmock.AnyArg(), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewStudentRepository(mock).Update(context.Background(), &models.Student{ID: 42})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryGetProfileImage(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectQuery("SELECT profile_image FROM students WHERE id = \\$1").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"profile_image"}).AddRow(strPtr("a.png")))
	mock.ExpectQuery("SELECT profile_image FROM students WHERE id = \\$1").
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows([]string{"profile_image"}))

	img, err := repo.GetProfileImage(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "a.png", *img)

	_, err = repo.GetProfileImage(context.Background(), 2)
	assert.ErrorIs(t, err, apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewStudentRepository(mock)

	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").WithArgs(int64(3)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM students WHERE id = \\$1").WithArgs(int64(4)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), apperrors.ErrStudentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
