package progress

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=progress_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rehastep/rehastep-backend/internal/plans"
	"github.com/rehastep/rehastep-backend/internal/telemetry/tracing"

	"github.com/google/uuid"
)

const (
	irritabilityScoreMin = 0
	irritabilityScoreMax = 10

	adherenceWindowMin = 1
	adherenceWindowMax = 90
)

type progressRepo interface {
	Get(ctx context.Context, userID, planID string) (*Doc, error)
	AppendExerciseCompletion(ctx context.Context, c ExerciseCompletion, userID, planID string, totalPlanExercises int) (int, error)
	AppendSessionCompletion(ctx context.Context, c SessionCompletion, userID, planID string) (Streaks, error)
}

type planSource interface {
	GetSchedule(ctx context.Context, planID string) (*plans.Schedule, error)
}

// Service validates completion submissions, normalizes their timestamps and
// runs them through the repo's atomic unit. All reads derive their view from
// the ledger on the fly.
type Service struct {
	repo  progressRepo
	plans planSource
	now   func() time.Time
}

func NewService(repo progressRepo, plans planSource) *Service {
	return &Service{
		repo:  repo,
		plans: plans,
		now:   time.Now,
	}
}

// ExerciseCompletionRequest is a client submission for one finished exercise.
type ExerciseCompletionRequest struct {
	SessionID         string    `json:"sessionId"`
	ExerciseID        string    `json:"exerciseId"`
	IrritabilityScore int       `json:"irritabilityScore"`
	CompletedAt       time.Time `json:"completedAt"`
	Timezone          string    `json:"timezone"`
}

// SessionCompletionRequest is a client submission for one finished session.
type SessionCompletionRequest struct {
	SessionID   string           `json:"sessionId"`
	Difficulty  DifficultyRating `json:"difficultyRating"`
	UserNote    string           `json:"userNote"`
	CompletedAt time.Time        `json:"completedAt"`
	Timezone    string           `json:"timezone"`
}

// ExerciseCompletionResult is what the recorder reports back after the unit
// commits: the stored event plus the freshly recomputed percent.
type ExerciseCompletionResult struct {
	Completion      ExerciseCompletion `json:"completion"`
	ProgressPercent int                `json:"progressPercent"`
}

// SessionCompletionResult carries the stored event and the new streak counters.
type SessionCompletionResult struct {
	Completion SessionCompletion `json:"completion"`
	Streaks    Streaks           `json:"streaks"`
}

// RecordExerciseCompletion validates the submission, confirms the plan exists,
// stamps the event and appends it. Duplicate submissions surface as
// ErrAlreadyCompleted with no state change.
func (s *Service) RecordExerciseCompletion(
	ctx context.Context,
	userID, planID string,
	req ExerciseCompletionRequest,
) (_ *ExerciseCompletionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.recordexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if req.SessionID == "" {
		return nil, &ValidationError{Field: "sessionId", Reason: "must not be empty"}
	}
	if req.ExerciseID == "" {
		return nil, &ValidationError{Field: "exerciseId", Reason: "must not be empty"}
	}
	if req.IrritabilityScore < irritabilityScoreMin || req.IrritabilityScore > irritabilityScoreMax {
		return nil, &ValidationError{
			Field:  "irritabilityScore",
			Reason: fmt.Sprintf("must be between %d and %d", irritabilityScoreMin, irritabilityScoreMax),
		}
	}

	schedule, err := s.plans.GetSchedule(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan schedule: %w", err)
	}

	// the ledger is append-only, so a completion for a session or exercise
	// outside the plan would be permanent and poison every derived number
	session, ok := schedule.Sessions[req.SessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, req.SessionID)
	}
	if !session.HasExercise(req.ExerciseID) {
		return nil, fmt.Errorf("%w: %q in session %q", ErrExerciseNotFound, req.ExerciseID, req.SessionID)
	}

	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	local, err := NormalizeCompletionTime(completedAt, req.Timezone)
	if err != nil {
		return nil, err
	}

	completion := ExerciseCompletion{
		ID:                uuid.New(),
		SessionID:         req.SessionID,
		ExerciseID:        req.ExerciseID,
		IrritabilityScore: req.IrritabilityScore,
		CompletedAtUTC:    completedAt.UTC(),
		CompletedAtLocal:  local.Local,
		Timezone:          req.Timezone,
		DayKey:            local.DayKey,
	}

	percent, err := s.repo.AppendExerciseCompletion(ctx, completion, userID, planID, schedule.TotalExercises())
	if err != nil {
		return nil, err
	}

	return &ExerciseCompletionResult{
		Completion:      completion,
		ProgressPercent: percent,
	}, nil
}

// RecordSessionCompletion validates and appends a session completion, then
// returns the recomputed streak counters. The difficulty rating is optional,
// but when present it must be one of the known values.
func (s *Service) RecordSessionCompletion(
	ctx context.Context,
	userID, planID string,
	req SessionCompletionRequest,
) (_ *SessionCompletionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.recordsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if req.SessionID == "" {
		return nil, &ValidationError{Field: "sessionId", Reason: "must not be empty"}
	}
	if req.Difficulty != "" && !req.Difficulty.Valid() {
		return nil, &ValidationError{Field: "difficultyRating", Reason: fmt.Sprintf("unknown rating %q", req.Difficulty)}
	}

	schedule, err := s.plans.GetSchedule(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan schedule: %w", err)
	}
	if _, ok := schedule.Sessions[req.SessionID]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, req.SessionID)
	}

	completedAt := req.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}
	local, err := NormalizeCompletionTime(completedAt, req.Timezone)
	if err != nil {
		return nil, err
	}

	completion := SessionCompletion{
		ID:               uuid.New(),
		SessionID:        req.SessionID,
		Difficulty:       req.Difficulty,
		CompletedAtUTC:   completedAt.UTC(),
		CompletedAtLocal: local.Local,
		Timezone:         req.Timezone,
		DayKey:           local.DayKey,
		UserNote:         strings.TrimSpace(req.UserNote),
	}

	streaks, err := s.repo.AppendSessionCompletion(ctx, completion, userID, planID)
	if err != nil {
		return nil, err
	}

	return &SessionCompletionResult{
		Completion: completion,
		Streaks:    streaks,
	}, nil
}

// ProgressView recomputes the full unlock/progress structure for the user and
// plan. A user with no completions yet gets the pristine view, not an error.
func (s *Service) ProgressView(ctx context.Context, userID, planID string) (_ *View, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.view")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	schedule, err := s.plans.GetSchedule(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan schedule: %w", err)
	}

	doc, err := s.repo.Get(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			doc = &Doc{UserID: userID, PlanID: planID}
		} else {
			return nil, fmt.Errorf("get progress: %w", err)
		}
	}

	return BuildView(schedule, doc.CompletedSessionIDs(), doc.CompletedExerciseKeys()), nil
}

// Adherence reports expected vs actual session completions over a trailing
// window of calendar days, evaluated in the given timezone.
func (s *Service) Adherence(
	ctx context.Context,
	userID, planID string,
	windowDays int,
	timezone string,
) (_ *AdherenceReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.progress.adherence")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if windowDays < adherenceWindowMin || windowDays > adherenceWindowMax {
		return nil, &ValidationError{
			Field:  "windowDays",
			Reason: fmt.Sprintf("must be between %d and %d", adherenceWindowMin, adherenceWindowMax),
		}
	}
	if timezone == "" {
		return nil, &ValidationError{Field: "timezone", Reason: "must not be empty"}
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	schedule, err := s.plans.GetSchedule(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("get plan schedule: %w", err)
	}

	doc, err := s.repo.Get(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, ErrProgressNotFound) {
			doc = &Doc{UserID: userID, PlanID: planID}
		} else {
			return nil, fmt.Errorf("get progress: %w", err)
		}
	}

	return Adherence(doc.CompletedSessions, schedule.TotalSessions(), windowDays, s.now(), loc), nil
}
