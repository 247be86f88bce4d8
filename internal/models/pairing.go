package models

import "time"

// ProgramPairing is a confirmed tutor/student pair within a program.
type ProgramPairing struct {
	ID        string    `db:"id" json:"id"`
	ProgramID string    `db:"program_id" json:"program_id"`
	TutorID   string    `db:"tutor_id" json:"tutor_id"`
	StudentID string    `db:"student_id" json:"student_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ConfirmPairingsResult summarises a confirmation batch.
type ConfirmPairingsResult struct {
	ProgramID string           `json:"program_id"`
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Pairings  []ProgramPairing `json:"pairings"`
}

// SlotSideResult is the outcome of persisting one user's schedule.
type SlotSideResult struct {
	UserID string `json:"user_id"`
	Saved  bool   `json:"saved"`
	Error  string `json:"error,omitempty"`
}

// SlotAssignmentResult reports both sides of a slot write.
type SlotAssignmentResult struct {
	Day     Weekday          `json:"day"`
	Start   string           `json:"start"`
	End     string           `json:"end"`
	Sides   []SlotSideResult `json:"sides"`
	Partial bool             `json:"partial"`
}

// Failed reports whether neither side was saved.
func (r *SlotAssignmentResult) Failed() bool {
	for _, side := range r.Sides {
		if side.Saved {
			return false
		}
	}
	return true
}
