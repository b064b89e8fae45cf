package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/rehastep/rehastep-backend/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// lockTimeout bounds how long a completion write waits for the progress row
// lock before the whole unit aborts with ErrTxAborted.
const lockTimeout = "3s"

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Get loads the full progress doc: derived scalars plus both ledgers.
// Returns ErrProgressNotFound when the user has not completed anything yet.
func (r *Repo) Get(ctx context.Context, userID, planID string) (_ *Doc, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("plan.id", planID))

	doc := &Doc{UserID: userID, PlanID: planID}
	err = r.db.QueryRow(ctx, `
		SELECT progress_percent, streak_weekly, streak_monthly, created_at, updated_at
		FROM progress
		WHERE user_id = $1 AND plan_id = $2;`,
		userID, planID,
	).Scan(&doc.ProgressPercent, &doc.Streaks.Weekly, &doc.Streaks.Monthly, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress row: %w", err)
	}

	doc.CompletedExercises, err = r.exerciseCompletions(ctx, r.db, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("load exercise completions: %w", err)
	}
	doc.CompletedSessions, err = r.sessionCompletions(ctx, r.db, userID, planID)
	if err != nil {
		return nil, fmt.Errorf("load session completions: %w", err)
	}

	return doc, nil
}

// AppendExerciseCompletion runs the whole check-append-recompute unit for an
// exercise completion in one serializable transaction: lock the progress row
// (creating it lazily on first write), reject duplicates, append the ledger
// entry and recompute the progress percent from the full ledger.
func (r *Repo) AppendExerciseCompletion(
	ctx context.Context,
	c ExerciseCompletion,
	userID, planID string,
	totalPlanExercises int,
) (percent int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.appendexercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("plan.id", planID))
	span.SetAttributes(attribute.String("session.id", c.SessionID))
	span.SetAttributes(attribute.String("exercise.id", c.ExerciseID))

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return 0, mapDBErr(err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback: %w: %w", rollbackErr, err)
			}
		} else {
			err = mapDBErr(tx.Commit(ctx))
		}
	}()

	if err = r.lockProgressRow(ctx, tx, userID, planID); err != nil {
		return 0, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM progress_exercise_completion
			WHERE user_id = $1 AND plan_id = $2 AND session_id = $3 AND exercise_id = $4
		);`,
		userID, planID, c.SessionID, c.ExerciseID,
	).Scan(&exists)
	if err != nil {
		return 0, mapDBErr(err)
	}
	if exists {
		return 0, ErrAlreadyCompleted
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO progress_exercise_completion
			(id, user_id, plan_id, session_id, exercise_id, irritability_score,
			 completed_at_utc, completed_at_local, timezone, day_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);`,
		c.ID, userID, planID, c.SessionID, c.ExerciseID, c.IrritabilityScore,
		c.CompletedAtUTC, c.CompletedAtLocal, c.Timezone, c.DayKey,
	)
	if err != nil {
		return 0, mapDBErr(err)
	}

	var completedCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM progress_exercise_completion
		WHERE user_id = $1 AND plan_id = $2;`,
		userID, planID,
	).Scan(&completedCount)
	if err != nil {
		return 0, mapDBErr(err)
	}

	percent = Percent(completedCount, totalPlanExercises)
	_, err = tx.Exec(ctx, `
		UPDATE progress SET progress_percent = $1, updated_at = NOW()
		WHERE user_id = $2 AND plan_id = $3;`,
		percent, userID, planID,
	)
	if err != nil {
		return 0, mapDBErr(err)
	}

	span.SetAttributes(attribute.Int("progress.percent", percent))
	return percent, nil
}

// AppendSessionCompletion runs the session completion unit: lock, duplicate
// check, streak recomputation over the prior ledger plus the new event, and
// the append - all committed or rolled back together.
func (r *Repo) AppendSessionCompletion(
	ctx context.Context,
	c SessionCompletion,
	userID, planID string,
) (streaks Streaks, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.progress.appendsession")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", userID))
	span.SetAttributes(attribute.String("plan.id", planID))
	span.SetAttributes(attribute.String("session.id", c.SessionID))

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				err = fmt.Errorf("rollback: %w: %w", rollbackErr, err)
			}
		} else {
			err = mapDBErr(tx.Commit(ctx))
		}
	}()

	if err = r.lockProgressRow(ctx, tx, userID, planID); err != nil {
		return Streaks{}, err
	}

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM progress_session_completion
			WHERE user_id = $1 AND plan_id = $2 AND session_id = $3
		);`,
		userID, planID, c.SessionID,
	).Scan(&exists)
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}
	if exists {
		return Streaks{}, ErrAlreadyCompleted
	}

	prior, err := r.sessionCompletions(ctx, tx, userID, planID)
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}

	var current Streaks
	err = tx.QueryRow(ctx, `
		SELECT streak_weekly, streak_monthly FROM progress
		WHERE user_id = $1 AND plan_id = $2;`,
		userID, planID,
	).Scan(&current.Weekly, &current.Monthly)
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}

	streaks, err = NextStreaks(prior, c.DayKey, current)
	if err != nil {
		return Streaks{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO progress_session_completion
			(id, user_id, plan_id, session_id, difficulty_rating,
			 completed_at_utc, completed_at_local, timezone, day_key, user_note)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, NULLIF($10, ''));`,
		c.ID, userID, planID, c.SessionID, string(c.Difficulty),
		c.CompletedAtUTC, c.CompletedAtLocal, c.Timezone, c.DayKey, c.UserNote,
	)
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE progress SET streak_weekly = $1, streak_monthly = $2, updated_at = NOW()
		WHERE user_id = $3 AND plan_id = $4;`,
		streaks.Weekly, streaks.Monthly, userID, planID,
	)
	if err != nil {
		return Streaks{}, mapDBErr(err)
	}

	span.SetAttributes(attribute.Int("streak.weekly", streaks.Weekly))
	span.SetAttributes(attribute.Int("streak.monthly", streaks.Monthly))
	return streaks, nil
}

// lockProgressRow creates the progress row lazily and takes the row lock
// that serializes all writes for this (user, plan) pair.
func (r *Repo) lockProgressRow(ctx context.Context, tx pgx.Tx, userID, planID string) error {
	if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL lock_timeout = '%s'", lockTimeout)); err != nil {
		return mapDBErr(err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO progress (user_id, plan_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, plan_id) DO NOTHING;`,
		userID, planID,
	); err != nil {
		return mapDBErr(err)
	}

	var locked bool
	if err := tx.QueryRow(ctx, `
		SELECT TRUE FROM progress
		WHERE user_id = $1 AND plan_id = $2
		FOR UPDATE;`,
		userID, planID,
	).Scan(&locked); err != nil {
		return mapDBErr(err)
	}
	return nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repo) exerciseCompletions(ctx context.Context, q queryer, userID, planID string) ([]ExerciseCompletion, error) {
	rows, err := q.Query(ctx, `
		SELECT id, session_id, exercise_id, irritability_score,
		       completed_at_utc, completed_at_local, timezone, day_key
		FROM progress_exercise_completion
		WHERE user_id = $1 AND plan_id = $2
		ORDER BY completed_at_utc;`,
		userID, planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]ExerciseCompletion, 0)
	for rows.Next() {
		var c ExerciseCompletion
		if err := rows.Scan(
			&c.ID, &c.SessionID, &c.ExerciseID, &c.IrritabilityScore,
			&c.CompletedAtUTC, &c.CompletedAtLocal, &c.Timezone, &c.DayKey,
		); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

func (r *Repo) sessionCompletions(ctx context.Context, q queryer, userID, planID string) ([]SessionCompletion, error) {
	rows, err := q.Query(ctx, `
		SELECT id, session_id, COALESCE(difficulty_rating, ''),
		       completed_at_utc, completed_at_local, timezone, day_key, COALESCE(user_note, '')
		FROM progress_session_completion
		WHERE user_id = $1 AND plan_id = $2
		ORDER BY completed_at_utc;`,
		userID, planID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completions := make([]SessionCompletion, 0)
	for rows.Next() {
		var c SessionCompletion
		var difficulty string
		if err := rows.Scan(
			&c.ID, &c.SessionID, &difficulty,
			&c.CompletedAtUTC, &c.CompletedAtLocal, &c.Timezone, &c.DayKey, &c.UserNote,
		); err != nil {
			return nil, err
		}
		c.Difficulty = DifficultyRating(difficulty)
		completions = append(completions, c)
	}
	return completions, rows.Err()
}

// mapDBErr translates storage failures into the recorder error taxonomy:
// unique violations are duplicate completions, serialization failures,
// deadlocks and lock timeouts are retryable aborts.
func mapDBErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrAlreadyCompleted
		case "40001", "40P01", "55P03":
			return fmt.Errorf("%w: %s", ErrTxAborted, pgErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", ErrTxAborted, err)
	}
	return err
}
