package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/tutor-pairing-api/internal/dto"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
	appErrors "github.com/noah-isme/tutor-pairing-api/pkg/errors"
	"github.com/noah-isme/tutor-pairing-api/pkg/export"
)

const (
	pairingResource      = "program_pairings"
	reasonNoTutors       = "No available tutors"
	defaultFetchParallel = 4
)

type profileProvider interface {
	GetBFIResult(ctx context.Context, userID string) models.ProfileResult[models.BFIScores]
	GetVARKResult(ctx context.Context, userID string) models.ProfileResult[models.VARKScores]
}

type pairingStore interface {
	ListByProgram(ctx context.Context, programID string) ([]models.ProgramPairing, error)
	Add(ctx context.Context, pairing *models.ProgramPairing) (bool, error)
}

// PairingServiceConfig carries run defaults and limits.
type PairingServiceConfig struct {
	Defaults         models.PairingOptions
	FetchConcurrency int
	MaxParticipants  int
	Renderers        map[string]export.Renderer
}

// PairingService suggests tutor/student pairs greedily and persists accepted ones.
type PairingService struct {
	profiles        profileProvider
	pairings        pairingStore
	audit           auditRecorder
	metrics         *MetricsService
	validator       *validator.Validate
	logger          *zap.Logger
	defaults        models.PairingOptions
	concurrency     int
	maxParticipants int
	renderers       map[string]export.Renderer
}

// NewPairingService constructs the matcher.
func NewPairingService(profiles profileProvider, pairings pairingStore, audit auditRecorder, metrics *MetricsService, cfg PairingServiceConfig, validate *validator.Validate, logger *zap.Logger) *PairingService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = defaultFetchParallel
	}
	if cfg.Defaults == (models.PairingOptions{}) {
		cfg.Defaults = models.DefaultPairingOptions()
	}
	if cfg.Renderers == nil {
		cfg.Renderers = map[string]export.Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter("tutor-pairing-api"),
		}
	}
	return &PairingService{
		profiles:        profiles,
		pairings:        pairings,
		audit:           audit,
		metrics:         metrics,
		validator:       validate,
		logger:          logger,
		defaults:        cfg.Defaults,
		concurrency:     cfg.FetchConcurrency,
		maxParticipants: cfg.MaxParticipants,
		renderers:       cfg.Renderers,
	}
}

// DefaultOptions returns the configured run defaults.
func (s *PairingService) DefaultOptions() models.PairingOptions {
	return s.defaults
}

type participant struct {
	id      string
	profile models.ParticipantProfile
	reasons []string
}

func (p participant) valid() bool { return len(p.reasons) == 0 }

type candidate struct {
	id     string
	vector []float64
}

// SuggestPairings pairs each valid student, in input order, with the most similar tutor still
// in the pool and removes that tutor. Participants missing an enabled profile are reported first.
func (s *PairingService) SuggestPairings(ctx context.Context, req dto.SuggestPairingsRequest) (*dto.SuggestPairingsResponse, error) {
	started := time.Now()
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pairing request")
	}
	if s.maxParticipants > 0 && len(req.TutorIDs)+len(req.StudentIDs) > s.maxParticipants {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d participants per run", s.maxParticipants))
	}
	if id, ok := sharedID(req.TutorIDs, req.StudentIDs); ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("participant %s is listed as both tutor and student", id))
	}
	opts := req.Options.Resolve(s.defaults)
	if !opts.BFI.Enabled && !opts.VARK.Enabled {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one profile type must be enabled")
	}
	if opts.MaxStudentsPerTutor < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "max_students_per_tutor must be at least 1")
	}
	if opts.MaxStudentsPerTutor > 1 {
		s.logger.Warn("max_students_per_tutor above 1 is not enforced, each tutor takes one student",
			zap.Int("max_students_per_tutor", opts.MaxStudentsPerTutor))
	}

	ids := make([]string, 0, len(req.TutorIDs)+len(req.StudentIDs))
	ids = append(ids, req.TutorIDs...)
	ids = append(ids, req.StudentIDs...)
	loaded, err := s.loadParticipants(ctx, ids, opts)
	if err != nil {
		return nil, err
	}
	tutors, students := loaded[:len(req.TutorIDs)], loaded[len(req.TutorIDs):]

	rejected := make([]models.PairingSuggestion, 0)
	pool := make([]candidate, 0, len(tutors))
	for _, tutor := range tutors {
		if !tutor.valid() {
			rejected = append(rejected, models.PairingSuggestion{TutorID: tutor.id, Reason: strings.Join(tutor.reasons, "; ")})
			continue
		}
		pool = append(pool, candidate{id: tutor.id, vector: Vectorize(tutor.profile, opts)})
	}
	eligible := make([]participant, 0, len(students))
	for _, student := range students {
		if !student.valid() {
			rejected = append(rejected, models.PairingSuggestion{StudentID: student.id, Reason: strings.Join(student.reasons, "; ")})
			continue
		}
		eligible = append(eligible, student)
	}

	suggestions := rejected
	for _, student := range eligible {
		if len(pool) == 0 {
			suggestions = append(suggestions, models.PairingSuggestion{StudentID: student.id, Reason: reasonNoTutors})
			continue
		}
		best, similarity, err := pickTutor(Vectorize(student.profile, opts), pool)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to score tutors")
		}
		score := similarity
		suggestions = append(suggestions, models.PairingSuggestion{
			Matched:    true,
			TutorID:    pool[best].id,
			StudentID:  student.id,
			Similarity: &score,
		})
		pool = append(pool[:best], pool[best+1:]...)
	}

	resp := &dto.SuggestPairingsResponse{Suggestions: suggestions, Options: opts}
	for _, suggestion := range suggestions {
		if suggestion.Matched {
			resp.Matched++
		} else {
			resp.Unmatched++
		}
	}
	s.metrics.ObservePairingRun(resp.Matched, resp.Unmatched, time.Since(started))
	s.logger.Info("pairing suggestions computed",
		zap.Int("tutors", len(req.TutorIDs)),
		zap.Int("students", len(req.StudentIDs)),
		zap.Int("matched", resp.Matched),
		zap.Int("unmatched", resp.Unmatched))
	return resp, nil
}

func sharedID(tutors, students []string) (string, bool) {
	seen := make(map[string]struct{}, len(tutors))
	for _, id := range tutors {
		seen[id] = struct{}{}
	}
	for _, id := range students {
		if _, ok := seen[id]; ok {
			return id, true
		}
	}
	return "", false
}

// pickTutor ranks the pool by similarity, descending. Ties keep pool order.
func pickTutor(student []float64, pool []candidate) (int, float64, error) {
	type scored struct {
		index      int
		similarity float64
	}
	ranked := make([]scored, 0, len(pool))
	for i, tutor := range pool {
		similarity, err := CosineSimilarity(student, tutor.vector)
		if err != nil {
			return 0, 0, err
		}
		ranked = append(ranked, scored{index: i, similarity: similarity})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].similarity > ranked[j].similarity })
	return ranked[0].index, ranked[0].similarity, nil
}

// loadParticipants fetches profiles with bounded parallelism; results keep input order.
func (s *PairingService) loadParticipants(ctx context.Context, ids []string, opts models.PairingOptions) ([]participant, error) {
	out := make([]participant, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = s.loadParticipant(gctx, id, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "profile fetch cancelled")
	}
	return out, nil
}

func (s *PairingService) loadParticipant(ctx context.Context, id string, opts models.PairingOptions) participant {
	p := participant{id: id, profile: models.ParticipantProfile{UserID: id}}
	if opts.BFI.Enabled {
		result := s.profiles.GetBFIResult(ctx, id)
		if result.Success && result.Data != nil {
			p.profile.BFI = result.Data
		} else {
			p.reasons = append(p.reasons, failureReason(result.Message, models.ProfileBFI, id))
		}
	}
	if opts.VARK.Enabled {
		result := s.profiles.GetVARKResult(ctx, id)
		if result.Success && result.Data != nil {
			p.profile.VARK = result.Data
		} else {
			p.reasons = append(p.reasons, failureReason(result.Message, models.ProfileVARK, id))
		}
	}
	return p
}

func failureReason(message string, kind models.ProfileKind, id string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("%s results unavailable for participant %s", kind, id)
}

// Confirm persists matched suggestions with both ids, skipping pairs the program already has.
func (s *PairingService) Confirm(ctx context.Context, programID string, req dto.ConfirmPairingsRequest, actor *models.JWTClaims) (*models.ConfirmPairingsResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.Role.Privileged() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only administrators can confirm pairings")
	}
	if strings.TrimSpace(programID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "program id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid confirmation payload")
	}

	existing, err := s.pairings.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program pairings")
	}
	seen := make(map[string]struct{}, len(existing)+len(req.Suggestions))
	for _, pairing := range existing {
		seen[pairKey(pairing.TutorID, pairing.StudentID)] = struct{}{}
	}

	result := &models.ConfirmPairingsResult{ProgramID: programID, Pairings: []models.ProgramPairing{}}
	for _, suggestion := range req.Suggestions {
		if !suggestion.Matched || suggestion.TutorID == "" || suggestion.StudentID == "" {
			result.Skipped++
			continue
		}
		key := pairKey(suggestion.TutorID, suggestion.StudentID)
		if _, dup := seen[key]; dup {
			result.Skipped++
			continue
		}
		seen[key] = struct{}{}

		pairing := &models.ProgramPairing{ProgramID: programID, TutorID: suggestion.TutorID, StudentID: suggestion.StudentID}
		created, err := s.pairings.Add(ctx, pairing)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store pairing")
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		result.Pairings = append(result.Pairings, *pairing)
	}

	s.metrics.AddConfirmedPairings(result.Created)
	s.emitAudit(ctx, actor, result)
	return result, nil
}

func pairKey(tutorID, studentID string) string {
	return tutorID + "\x00" + studentID
}

// ListPairings returns the confirmed pairings of a program.
func (s *PairingService) ListPairings(ctx context.Context, programID string) ([]models.ProgramPairing, error) {
	if strings.TrimSpace(programID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "program id is required")
	}
	pairings, err := s.pairings.ListByProgram(ctx, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program pairings")
	}
	if pairings == nil {
		pairings = []models.ProgramPairing{}
	}
	return pairings, nil
}

// ExportedDocument is a rendered suggestion run.
type ExportedDocument struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportSuggestions runs SuggestPairings and renders the outcome in the requested format.
func (s *PairingService) ExportSuggestions(ctx context.Context, format string, req dto.SuggestPairingsRequest) (*ExportedDocument, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	resp, err := s.SuggestPairings(ctx, req)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Pairing suggestions (%d matched, %d unmatched)", resp.Matched, resp.Unmatched),
		Headers: []string{"Student", "Tutor", "Matched", "Similarity", "Reason"},
	}
	for _, suggestion := range resp.Suggestions {
		similarity := ""
		if suggestion.Similarity != nil {
			similarity = strconv.FormatFloat(*suggestion.Similarity, 'f', 4, 64)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":    suggestion.StudentID,
			"Tutor":      suggestion.TutorID,
			"Matched":    strconv.FormatBool(suggestion.Matched),
			"Similarity": similarity,
			"Reason":     suggestion.Reason,
		})
	}

	content, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render suggestions")
	}
	return &ExportedDocument{
		Filename:    fmt.Sprintf("pairing-suggestions-%s.%s", time.Now().UTC().Format("20060102-150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

func (s *PairingService) emitAudit(ctx context.Context, actor *models.JWTClaims, result *models.ConfirmPairingsResult) {
	if s.audit == nil || result.Created == 0 {
		return
	}
	newValues, _ := json.Marshal(map[string]interface{}{
		"program_id": result.ProgramID,
		"created":    result.Created,
		"skipped":    result.Skipped,
	})
	log := &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionPairingConfirm,
		Resource:   pairingResource,
		ResourceID: &result.ProgramID,
		NewValues:  newValues,
		IPAddress:  "system",
		UserAgent:  "pairing-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to record pairing audit", zap.Error(err))
	}
}
