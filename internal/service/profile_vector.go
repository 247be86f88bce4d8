package service

import "github.com/noah-isme/tutor-pairing-api/internal/models"

// Vectorize flattens a profile into [V,A,R,K]*varkWeight followed by [O,C,E,A,N]*bfiWeight.
// Disabled or absent profile types contribute no elements, so the length depends on opts and
// on which scores are present. Compare only vectors built with the same options.
func Vectorize(profile models.ParticipantProfile, opts models.PairingOptions) []float64 {
	vector := make([]float64, 0, 9)
	if opts.VARK.Enabled && profile.VARK != nil {
		w := opts.VARK.Weight
		v := profile.VARK
		vector = append(vector, v.Visual*w, v.Auditory*w, v.ReadWrite*w, v.Kinesthetic*w)
	}
	if opts.BFI.Enabled && profile.BFI != nil {
		w := opts.BFI.Weight
		b := profile.BFI
		vector = append(vector, b.Openness*w, b.Conscientiousness*w, b.Extroversion*w, b.Agreeableness*w, b.Neuroticism*w)
	}
	return vector
}
