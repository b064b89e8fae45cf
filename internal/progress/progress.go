package progress

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAlreadyCompleted - the exercise or session completion was already recorded.
	ErrAlreadyCompleted = errors.New("completion already recorded")
	// ErrInvalidTimezone - the given timezone is not a recognized IANA zone.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrProgressNotFound - no progress exists yet for the (user, plan) pair.
	ErrProgressNotFound = errors.New("progress not found")
	// ErrSessionNotFound - the session id is not part of the plan.
	ErrSessionNotFound = errors.New("session not found in plan")
	// ErrExerciseNotFound - the exercise id is not part of the session.
	ErrExerciseNotFound = errors.New("exercise not found in session")
	// ErrTxAborted - the atomic unit could not be committed (lock timeout or
	// serialization conflict); the whole operation must be retried by the caller.
	ErrTxAborted = errors.New("transaction aborted, retry the operation")
)

// ValidationError - malformed or out of range input, reported before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type DifficultyRating string

const (
	DifficultyTooEasy   DifficultyRating = "too easy"
	DifficultyJustRight DifficultyRating = "just right"
	DifficultyTooHard   DifficultyRating = "too hard"
)

func (d DifficultyRating) Valid() bool {
	switch d {
	case DifficultyTooEasy, DifficultyJustRight, DifficultyTooHard:
		return true
	default:
		return false
	}
}

// ExerciseCompletion is one immutable ledger event: the user finished one
// exercise of one session. At most one entry exists per (sessionId, exerciseId).
type ExerciseCompletion struct {
	ID                uuid.UUID `json:"id"`
	SessionID         string    `json:"sessionId"`
	ExerciseID        string    `json:"exerciseId"`
	IrritabilityScore int       `json:"irritabilityScore"`
	CompletedAtUTC    time.Time `json:"completedAt"`
	CompletedAtLocal  time.Time `json:"completedAtLocal"`
	Timezone          string    `json:"timezone"`
	DayKey            string    `json:"dayKey"`
}

// SessionCompletion is one immutable ledger event: the user finished a whole
// session. At most one entry exists per sessionId.
type SessionCompletion struct {
	ID               uuid.UUID        `json:"id"`
	SessionID        string           `json:"sessionId"`
	Difficulty       DifficultyRating `json:"difficultyRating,omitempty"`
	CompletedAtUTC   time.Time        `json:"completedAt"`
	CompletedAtLocal time.Time        `json:"completedAtLocal"`
	Timezone         string           `json:"timezone"`
	DayKey           string           `json:"dayKey"`
	UserNote         string           `json:"userNote,omitempty"`
}

// Streaks holds the daily adherence counters over the weekly and monthly windows.
type Streaks struct {
	Weekly  int `json:"streakCountWeekly"`
	Monthly int `json:"streakCountMonthly"`
}

// Doc is the persisted progress aggregate for one (user, plan) pair:
// the append-only completion ledger plus the derived scalars. Derived fields
// are always fully recomputed from the ledger on write, never patched.
type Doc struct {
	UserID             string               `json:"userId"`
	PlanID             string               `json:"planId"`
	CompletedExercises []ExerciseCompletion `json:"completedExercises"`
	CompletedSessions  []SessionCompletion  `json:"completedSessions"`
	ProgressPercent    int                  `json:"progressPercent"`
	Streaks            Streaks              `json:"streaks"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// CompletedSessionIDs returns the set of session ids with an explicit
// session completion event.
func (d *Doc) CompletedSessionIDs() map[string]bool {
	ids := make(map[string]bool, len(d.CompletedSessions))
	for _, c := range d.CompletedSessions {
		ids[c.SessionID] = true
	}
	return ids
}

// ExerciseKey identifies an exercise within a session.
type ExerciseKey struct {
	SessionID  string
	ExerciseID string
}

// CompletedExerciseKeys returns the set of (sessionId, exerciseId) pairs
// with a completion event.
func (d *Doc) CompletedExerciseKeys() map[ExerciseKey]bool {
	keys := make(map[ExerciseKey]bool, len(d.CompletedExercises))
	for _, c := range d.CompletedExercises {
		keys[ExerciseKey{SessionID: c.SessionID, ExerciseID: c.ExerciseID}] = true
	}
	return keys
}

// Percent computes the overall completion percentage: completed over total,
// rounded, capped at 100. A plan with no exercises yields 0.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	p := int(math.Round(float64(completed) / float64(total) * 100))
	if p > 100 {
		p = 100
	}
	return p
}
