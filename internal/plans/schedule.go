package plans

import "errors"

var ErrPlanNotFound = errors.New("plan not found")

// ScheduleEntry is one scheduled day of a treatment plan: week and day are
// 1-based ordinals, SessionIDs are the sessions assigned to that day.
type ScheduleEntry struct {
	Week       int      `json:"week"`
	Day        int      `json:"day"`
	SessionIDs []string `json:"sessions"`
}

// Session resolves a session id to the exercises it contains.
type Session struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ExerciseIDs []string `json:"exercises"`
}

// HasExercise reports whether the session contains the given exercise.
func (s Session) HasExercise(exerciseID string) bool {
	for _, id := range s.ExerciseIDs {
		if id == exerciseID {
			return true
		}
	}
	return false
}

// Schedule is the read-only view of an authored treatment plan:
// a fixed week -> day -> sessions -> exercises hierarchy. Authoring lives
// in a separate service; this backend only consumes it.
type Schedule struct {
	PlanID   string             `json:"planId"`
	Entries  []ScheduleEntry    `json:"schedule"`
	Sessions map[string]Session `json:"sessionsById"`
}

// TotalExercises is the number of exercises across all sessions across
// all scheduled days, counting repeated sessions once per occurrence.
func (s *Schedule) TotalExercises() int {
	total := 0
	for _, entry := range s.Entries {
		for _, sessionID := range entry.SessionIDs {
			total += len(s.Sessions[sessionID].ExerciseIDs)
		}
	}
	return total
}

// TotalSessions is the number of session occurrences across the whole plan.
func (s *Schedule) TotalSessions() int {
	total := 0
	for _, entry := range s.Entries {
		total += len(entry.SessionIDs)
	}
	return total
}
