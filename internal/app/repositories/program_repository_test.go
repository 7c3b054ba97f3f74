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

func TestProgramRepositoryRenameCascadesStudents(t *testing.T) {
	mock := newMock(t)
	repo := NewProgramRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE programs SET program_code = \\$1, program_name = \\$2, college = \\$3 WHERE program_code = \\$4").
		WithArgs("BSCS2", "Computer Science", "CCS", "BSCS").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE students SET course = \\$1 WHERE course = \\$2").
		WithArgs("BSCS2", "BSCS").
		WillReturnResult(pgxmock.NewResult("UPDATE", 12))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), "BSCS", &models.Program{Code: "BSCS2", Name: "Computer Science", College: "CCS"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryUpdateSameCodeSkipsCascade(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE programs SET").
		WithArgs("BSCS", "CS", "CCS", "BSCS").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := NewProgramRepository(mock).Update(context.Background(), "BSCS", &models.Program{Code: "BSCS", Name: "CS", College: "CCS"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryUpdateMissingRollsBack(t *testing.T) {
	mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE programs SET").
		WithArgs("X", "X", "CCS", "NOPE").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := NewProgramRepository(mock).Update(context.Background(), "NOPE", &models.Program{Code: "X", Name: "X", College: "CCS"})
	assert.ErrorIs(t, err, apperrors.ErrProgramNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryCreateUnknownCollege(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec("INSERT INTO programs").
		WithArgs("BSX", "X", "NONE").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := NewProgramRepository(mock).Create(context.Background(), &models.Program{Code: "BSX", Name: "X", College: "NONE"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryDeleteWithStudents(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT EXISTS \\( SELECT 1 FROM students WHERE course = \\$1").
		WithArgs("BSCS").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := NewProgramRepository(mock).Delete(context.Background(), "BSCS")
	assert.ErrorIs(t, err, apperrors.ErrProgramHasStudents)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryGetAll(t *testing.T) {
	mock := newMock(t)
	mock.ExpectQuery("SELECT program_code, program_name, college FROM programs ORDER BY program_code ASC").
		WillReturnRows(pgxmock.NewRows([]string{"program_code", "program_name", "college"}).
			AddRow("BSCS", "Computer Science", "CCS").
			AddRow("BSN", "Nursing", "CON"))

	programs, err := NewProgramRepository(mock).GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Program{
		{Code: "BSCS", Name: "Computer Science", College: "CCS"},
		{Code: "BSN", Name: "Nursing", College: "CON"},
	}, programs)
}
