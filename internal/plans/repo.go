package plans

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rehastep/rehastep-backend/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const planCacheKeyPrefix = "plan::"

// Repo reads authored plan schedules. Schedules never change once a user has
// begun progress on them, so a TTL cache in front of postgres is safe.
type Repo struct {
	db       *pgxpool.Pool
	cache    *freecache.Cache
	cacheTTL int // seconds
}

func NewRepo(db *pgxpool.Pool, cache *freecache.Cache, cacheTTLSeconds int) *Repo {
	return &Repo{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTLSeconds,
	}
}

func (r *Repo) GetSchedule(ctx context.Context, planID string) (_ *Schedule, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.getschedule")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("plan.id", planID))

	cacheKey := []byte(planCacheKeyPrefix + planID)
	if cached, cacheErr := r.cache.Get(cacheKey); cacheErr == nil {
		var schedule Schedule
		if err := json.Unmarshal(cached, &schedule); err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return &schedule, nil
		}
		log.Warnf("failed to unmarshal cached schedule for plan %s, falling back to db", planID)
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	schedule, err := r.loadSchedule(ctx, planID)
	if err != nil {
		return nil, err
	}

	scheduleJson, err := json.Marshal(schedule)
	if err != nil {
		return nil, fmt.Errorf("marshal schedule: %w", err)
	}
	if err := r.cache.Set(cacheKey, scheduleJson, r.cacheTTL); err != nil {
		// cache full or entry too big, not a reason to fail the read
		log.Warnf("failed to cache schedule for plan %s: %s", planID, err)
	}

	return schedule, nil
}

func (r *Repo) loadSchedule(ctx context.Context, planID string) (*Schedule, error) {
	var planExists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM plan WHERE id = $1)`, planID,
	).Scan(&planExists); err != nil {
		return nil, fmt.Errorf("check plan exists: %w", err)
	}
	if !planExists {
		return nil, ErrPlanNotFound
	}

	schedule := &Schedule{
		PlanID:   planID,
		Sessions: make(map[string]Session),
	}

	rows, err := r.db.Query(ctx, `
		SELECT week, day, session_id
		FROM plan_schedule_entry
		WHERE plan_id = $1
		ORDER BY week, day, position;`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("query schedule entries: %w", err)
	}
	defer rows.Close()

	// entries keep their (week, day) grouping as authored - duplicates for
	// the same pair are possible and handled downstream
	entryIdx := make(map[[2]int]int)
	for rows.Next() {
		var week, day int
		var sessionID string
		if err := rows.Scan(&week, &day, &sessionID); err != nil {
			return nil, fmt.Errorf("scan schedule entry: %w", err)
		}

		key := [2]int{week, day}
		idx, ok := entryIdx[key]
		if !ok {
			schedule.Entries = append(schedule.Entries, ScheduleEntry{Week: week, Day: day})
			idx = len(schedule.Entries) - 1
			entryIdx[key] = idx
		}
		schedule.Entries[idx].SessionIDs = append(schedule.Entries[idx].SessionIDs, sessionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("schedule entry rows: %w", err)
	}

	sessionRows, err := r.db.Query(ctx, `
		SELECT s.id, s.name, se.exercise_id
		FROM plan_session s
		JOIN plan_session_exercise se ON se.session_id = s.id
		WHERE s.plan_id = $1
		ORDER BY s.id, se.position;`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer sessionRows.Close()

	for sessionRows.Next() {
		var id, name, exerciseID string
		if err := sessionRows.Scan(&id, &name, &exerciseID); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		session := schedule.Sessions[id]
		session.ID = id
		session.Name = name
		session.ExerciseIDs = append(session.ExerciseIDs, exerciseID)
		schedule.Sessions[id] = session
	}
	if err := sessionRows.Err(); err != nil {
		return nil, fmt.Errorf("session rows: %w", err)
	}

	return schedule, nil
}

// InvalidateCache drops the cached schedule for a plan. Used by the authoring
// sync job after a plan import.
func (r *Repo) InvalidateCache(planID string) {
	r.cache.Del([]byte(planCacheKeyPrefix + planID))
}
