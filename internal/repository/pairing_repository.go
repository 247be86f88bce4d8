package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

// PairingRepository persists confirmed program pairings.
type PairingRepository struct {
	db *sqlx.DB
}

// NewPairingRepository constructs the repository.
func NewPairingRepository(db *sqlx.DB) *PairingRepository {
	return &PairingRepository{db: db}
}

// ListByProgram returns the pairings of a program ordered by creation.
func (r *PairingRepository) ListByProgram(ctx context.Context, programID string) ([]models.ProgramPairing, error) {
	const query = `SELECT id, program_id, tutor_id, student_id, created_at FROM program_pairings WHERE program_id = $1 ORDER BY created_at ASC, id ASC`
	var pairings []models.ProgramPairing
	if err := r.db.SelectContext(ctx, &pairings, query, programID); err != nil {
		return nil, fmt.Errorf("list program pairings: %w", err)
	}
	return pairings, nil
}

// Add inserts a pairing and reports whether a row was created; existing pairs are left untouched.
func (r *PairingRepository) Add(ctx context.Context, pairing *models.ProgramPairing) (bool, error) {
	if pairing.ID == "" {
		pairing.ID = uuid.NewString()
	}
	if pairing.CreatedAt.IsZero() {
		pairing.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO program_pairings (id, program_id, tutor_id, student_id, created_at)
		VALUES (:id, :program_id, :tutor_id, :student_id, :created_at)
		ON CONFLICT (program_id, tutor_id, student_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, pairing)
	if err != nil {
		return false, fmt.Errorf("add program pairing: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add program pairing rows affected: %w", err)
	}
	return affected > 0, nil
}
