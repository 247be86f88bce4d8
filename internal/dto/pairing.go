package dto

import "github.com/noah-isme/tutor-pairing-api/internal/models"

// ProfileToggleRequest overrides one profile type; nil fields keep defaults.
type ProfileToggleRequest struct {
	Enabled *bool    `json:"enabled"`
	Weight  *float64 `json:"weight" validate:"omitempty,gte=0"`
}

// PairingOptionsRequest is the optional options block of a suggestion run.
type PairingOptionsRequest struct {
	MaxStudentsPerTutor *int                  `json:"max_students_per_tutor" validate:"omitempty,min=1"`
	BFI                 *ProfileToggleRequest `json:"bfi"`
	VARK                *ProfileToggleRequest `json:"vark"`
}

// Resolve overlays the request on top of defaults.
func (r *PairingOptionsRequest) Resolve(defaults models.PairingOptions) models.PairingOptions {
	opts := defaults
	if r == nil {
		return opts
	}
	if r.MaxStudentsPerTutor != nil {
		opts.MaxStudentsPerTutor = *r.MaxStudentsPerTutor
	}
	opts.BFI = r.BFI.apply(opts.BFI)
	opts.VARK = r.VARK.apply(opts.VARK)
	return opts
}

func (r *ProfileToggleRequest) apply(base models.ProfileToggle) models.ProfileToggle {
	if r == nil {
		return base
	}
	if r.Enabled != nil {
		base.Enabled = *r.Enabled
	}
	if r.Weight != nil {
		base.Weight = *r.Weight
	}
	return base
}

// SuggestPairingsRequest asks for greedy suggestions over a tutor and student pool.
type SuggestPairingsRequest struct {
	TutorIDs   []string               `json:"tutor_ids" validate:"unique,dive,required"`
	StudentIDs []string               `json:"student_ids" validate:"required,min=1,unique,dive,required"`
	Options    *PairingOptionsRequest `json:"options"`
}

// SuggestPairingsResponse wraps suggestions with summary counts.
type SuggestPairingsResponse struct {
	Suggestions []models.PairingSuggestion `json:"suggestions"`
	Matched     int                        `json:"matched"`
	Unmatched   int                        `json:"unmatched"`
	Options     models.PairingOptions      `json:"options"`
}

// ConfirmPairingsRequest carries the suggestions an admin accepted.
type ConfirmPairingsRequest struct {
	Suggestions []models.PairingSuggestion `json:"suggestions" validate:"required,min=1"`
}

// ProfileVectorResponse shows the provider results and the resulting vector.
type ProfileVectorResponse struct {
	UserID  string                                   `json:"user_id"`
	BFI     *models.ProfileResult[models.BFIScores]  `json:"bfi,omitempty"`
	VARK    *models.ProfileResult[models.VARKScores] `json:"vark,omitempty"`
	Vector  []float64                                `json:"vector"`
	Options models.PairingOptions                    `json:"options"`
}

// ProfileVectorQuery binds the option overrides of the profile vector endpoint.
type ProfileVectorQuery struct {
	BFIEnabled  *bool    `form:"bfi"`
	BFIWeight   *float64 `form:"bfi_weight"`
	VARKEnabled *bool    `form:"vark"`
	VARKWeight  *float64 `form:"vark_weight"`
}

// Options converts the query into an options overlay.
func (q ProfileVectorQuery) Options() *PairingOptionsRequest {
	return &PairingOptionsRequest{
		BFI:  &ProfileToggleRequest{Enabled: q.BFIEnabled, Weight: q.BFIWeight},
		VARK: &ProfileToggleRequest{Enabled: q.VARKEnabled, Weight: q.VARKWeight},
	}
}
