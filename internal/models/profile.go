package models

import "time"

// ProfileKind identifies a questionnaire family.
type ProfileKind string

const (
	ProfileBFI  ProfileKind = "BFI"
	ProfileVARK ProfileKind = "VARK"
)

// BFIScores holds the five personality traits.
type BFIScores struct {
	Openness          float64 `json:"openness"`
	Conscientiousness float64 `json:"conscientiousness"`
	Extroversion      float64 `json:"extroversion"`
	Agreeableness     float64 `json:"agreeableness"`
	Neuroticism       float64 `json:"neuroticism"`
}

// VARKScores holds the four learning-style channels.
type VARKScores struct {
	Visual      float64 `json:"visual"`
	Auditory    float64 `json:"auditory"`
	ReadWrite   float64 `json:"read_write"`
	Kinesthetic float64 `json:"kinesthetic"`
}

// ProfileResult reports a provider lookup. Success=false carries a reason in Message.
type ProfileResult[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    *T     `json:"data,omitempty"`
}

// ParticipantProfile gathers the scores used for vectorization.
type ParticipantProfile struct {
	UserID string      `json:"user_id"`
	BFI    *BFIScores  `json:"bfi,omitempty"`
	VARK   *VARKScores `json:"vark,omitempty"`
}

// QuestionnaireAttempt is a row of questionnaire_attempts.
type QuestionnaireAttempt struct {
	ID         string      `db:"id" json:"id"`
	UserID     string      `db:"user_id" json:"user_id"`
	Kind       ProfileKind `db:"kind" json:"kind"`
	Finished   bool        `db:"finished" json:"finished"`
	Scores     []byte      `db:"scores" json:"-"`
	FinishedAt *time.Time  `db:"finished_at" json:"finished_at,omitempty"`
}

// ProfileToggle enables a profile type and sets its weight.
type ProfileToggle struct {
	Enabled bool    `json:"enabled"`
	Weight  float64 `json:"weight"`
}

// PairingOptions configures one matching run.
type PairingOptions struct {
	MaxStudentsPerTutor int           `json:"max_students_per_tutor"`
	BFI                 ProfileToggle `json:"bfi"`
	VARK                ProfileToggle `json:"vark"`
}

// DefaultPairingOptions enables both profile types at weight 1.
func DefaultPairingOptions() PairingOptions {
	return PairingOptions{
		MaxStudentsPerTutor: 1,
		BFI:                 ProfileToggle{Enabled: true, Weight: 1},
		VARK:                ProfileToggle{Enabled: true, Weight: 1},
	}
}

// PairingSuggestion is one transient matcher outcome.
type PairingSuggestion struct {
	Matched    bool     `json:"matched"`
	TutorID    string   `json:"tutor_id,omitempty"`
	StudentID  string   `json:"student_id,omitempty"`
	Similarity *float64 `json:"similarity,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}
