package progress

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=progress_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rehastep/rehastep-backend/internal/auth"
	"github.com/rehastep/rehastep-backend/internal/plans"
	"github.com/rehastep/rehastep-backend/internal/telemetry/metrics"
	"github.com/rehastep/rehastep-backend/internal/telemetry/tracing"
	"github.com/rehastep/rehastep-backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type progressService interface {
	RecordExerciseCompletion(ctx context.Context, userID, planID string, req ExerciseCompletionRequest) (*ExerciseCompletionResult, error)
	RecordSessionCompletion(ctx context.Context, userID, planID string, req SessionCompletionRequest) (*SessionCompletionResult, error)
	ProgressView(ctx context.Context, userID, planID string) (*View, error)
	Adherence(ctx context.Context, userID, planID string, windowDays int, timezone string) (*AdherenceReport, error)
}

const defaultAdherenceWindowDays = 7

type Handler struct {
	service progressService
	metrics *metrics.Manager
}

func NewHandler(service progressService, metrics *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metrics,
	}
}

func (handler *Handler) HandleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.completeexercise")
	defer span.End()

	userID, planID, ok := handler.requestScope(w, r)
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req ExerciseCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("complete exercise, unmarshal json params: %s", err)
		http.Error(w, "invalid completion payload", http.StatusBadRequest)
		return
	}

	result, err := handler.service.RecordExerciseCompletion(ctx, userID, planID, req)
	if err != nil {
		handler.writeCompletionError(w, err, "exercise", planID, req.SessionID)
		return
	}

	handler.metrics.CounterExerciseCompletions.Inc()
	log.Debugf("exercise completion recorded: plan %s, session %s, exercise %s, progress %d%%",
		planID, req.SessionID, req.ExerciseID, result.ProgressPercent)

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal exercise completion result: %s", err)
		http.Error(w, "error, failed to record completion", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}

func (handler *Handler) HandleCompleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.completesession")
	defer span.End()

	userID, planID, ok := handler.requestScope(w, r)
	if !ok {
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SessionCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Errorf("complete session, unmarshal json params: %s", err)
		http.Error(w, "invalid completion payload", http.StatusBadRequest)
		return
	}

	result, err := handler.service.RecordSessionCompletion(ctx, userID, planID, req)
	if err != nil {
		handler.writeCompletionError(w, err, "session", planID, req.SessionID)
		return
	}

	handler.metrics.CounterSessionCompletions.Inc()
	log.Debugf("session completion recorded: plan %s, session %s, streaks %d/%d",
		planID, req.SessionID, result.Streaks.Weekly, result.Streaks.Monthly)

	resultJson, err := json.Marshal(result)
	if err != nil {
		log.Errorf("failed to marshal session completion result: %s", err)
		http.Error(w, "error, failed to record completion", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusCreated)
}

func (handler *Handler) HandleGetProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.get")
	defer span.End()

	userID, planID, ok := handler.requestScope(w, r)
	if !ok {
		return
	}

	view, err := handler.service.ProgressView(ctx, userID, planID)
	if err != nil {
		if errors.Is(err, plans.ErrPlanNotFound) {
			http.Error(w, "plan not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get progress for plan %s: %s", planID, err)
		http.Error(w, "error, failed to get progress", http.StatusInternalServerError)
		return
	}

	viewJson, err := json.Marshal(view)
	if err != nil {
		log.Errorf("failed to marshal progress view: %s", err)
		http.Error(w, "error, failed to get progress", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, viewJson, http.StatusOK)
}

func (handler *Handler) HandleGetAdherence(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.adherence")
	defer span.End()

	userID, planID, ok := handler.requestScope(w, r)
	if !ok {
		return
	}

	windowDays := defaultAdherenceWindowDays
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		var err error
		windowDays, err = strconv.Atoi(windowStr)
		if err != nil {
			http.Error(w, "error, window NaN", http.StatusBadRequest)
			return
		}
	}
	timezone := r.URL.Query().Get("tz")

	report, err := handler.service.Adherence(ctx, userID, planID, windowDays, timezone)
	if err != nil {
		var validationErr *ValidationError
		switch {
		case errors.As(err, &validationErr), errors.Is(err, ErrInvalidTimezone):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, plans.ErrPlanNotFound):
			http.Error(w, "plan not found", http.StatusNotFound)
		default:
			log.Errorf("failed to get adherence for plan %s: %s", planID, err)
			http.Error(w, "error, failed to get adherence", http.StatusInternalServerError)
		}
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal adherence report: %s", err)
		http.Error(w, "error, failed to get adherence", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}

// requestScope pulls the authenticated user from the request context and the
// plan id from the route. Writes the error response itself when either is missing.
func (handler *Handler) requestScope(w http.ResponseWriter, r *http.Request) (userID, planID string, ok bool) {
	userID, ok = auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no user", http.StatusUnauthorized)
		return "", "", false
	}

	planID = mux.Vars(r)["id"]
	if planID == "" {
		http.Error(w, "error, plan id empty", http.StatusBadRequest)
		return "", "", false
	}
	return userID, planID, true
}

func (handler *Handler) writeCompletionError(w http.ResponseWriter, err error, kind, planID, sessionID string) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, ErrInvalidTimezone):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrAlreadyCompleted):
		handler.metrics.CounterCompletionConflicts.Inc()
		http.Error(w, "completion already recorded", http.StatusConflict)
	case errors.Is(err, plans.ErrPlanNotFound):
		http.Error(w, "plan not found", http.StatusNotFound)
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrExerciseNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrTxAborted):
		log.Warnf("%s completion aborted for plan %s, session %s: %s", kind, planID, sessionID, err)
		http.Error(w, "temporary conflict, retry the request", http.StatusServiceUnavailable)
	default:
		log.Errorf("failed to record %s completion for plan %s, session %s: %s", kind, planID, sessionID, err)
		http.Error(w, "error, failed to record completion", http.StatusInternalServerError)
	}
}
