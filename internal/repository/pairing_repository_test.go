package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

func TestPairingRepositoryListByProgram(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPairingRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "program_id", "tutor_id", "student_id", "created_at"}).
		AddRow("p-1", "prog-1", "tutor-1", "student-1", now).
		AddRow("p-2", "prog-1", "tutor-2", "student-2", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, program_id, tutor_id, student_id, created_at FROM program_pairings WHERE program_id = $1")).
		WithArgs("prog-1").
		WillReturnRows(rows)

	pairings, err := repo.ListByProgram(context.Background(), "prog-1")
	require.NoError(t, err)
	require.Len(t, pairings, 2)
	assert.Equal(t, "tutor-2", pairings[1].TutorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPairingRepositoryAddReportsCreation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPairingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO program_pairings")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (program_id, tutor_id, student_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	pairing := &models.ProgramPairing{ProgramID: "prog-1", TutorID: "tutor-1", StudentID: "student-1"}
	created, err := repo.Add(context.Background(), pairing)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, pairing.ID)

	created, err = repo.Add(context.Background(), &models.ProgramPairing{ProgramID: "prog-1", TutorID: "tutor-1", StudentID: "student-1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPairingRepositoryAddError(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPairingRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO program_pairings")).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Add(context.Background(), &models.ProgramPairing{ProgramID: "prog-1", TutorID: "t", StudentID: "s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add program pairing")
}
