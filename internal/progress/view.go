package progress

import (
	"sort"

	"github.com/rehastep/rehastep-backend/internal/plans"

	log "github.com/sirupsen/logrus"
)

// View is the request-scoped unlock/progress structure computed fresh on
// every read from the plan schedule and the completion ledger. Never persisted.
type View struct {
	PlanID             string     `json:"planId"`
	Weeks              []WeekView `json:"weeks"`
	CurrentWeek        int        `json:"currentWeek"`
	CurrentDay         int        `json:"currentDay"`
	TotalSessions      int        `json:"totalSessions"`
	CompletedSessions  int        `json:"completedSessions"`
	TotalExercises     int        `json:"totalExercises"`
	CompletedExercises int        `json:"completedExercises"`
}

type WeekView struct {
	Week      int       `json:"week"`
	Unlocked  bool      `json:"unlocked"`
	Completed bool      `json:"completed"`
	Days      []DayView `json:"days"`
}

type DayView struct {
	Week               int           `json:"week"`
	Day                int           `json:"day"`
	Unlocked           bool          `json:"unlocked"`
	Completed          bool          `json:"completed"`
	Sessions           []SessionView `json:"sessions"`
	TotalExercises     int           `json:"totalExercises"`
	CompletedExercises int           `json:"completedExercises"`
}

type SessionView struct {
	SessionID          string         `json:"sessionId"`
	Name               string         `json:"name,omitempty"`
	Completed          bool           `json:"completed"`
	Exercises          []ExerciseView `json:"exercises"`
	TotalExercises     int            `json:"totalExercises"`
	CompletedExercises int            `json:"completedExercises"`
}

type ExerciseView struct {
	ExerciseID string `json:"exerciseId"`
	Completed  bool   `json:"completed"`
}

// BuildView derives the unlocked/completed state of every week, day, session
// and exercise of a plan, plus the user's current position. Pure: it reads
// the schedule and the two completion sets and touches nothing else.
//
// A session counts as completed only when an explicit session completion
// event exists - per-exercise counts never complete a session implicitly.
func BuildView(
	schedule *plans.Schedule,
	completedSessionIDs map[string]bool,
	completedExerciseKeys map[ExerciseKey]bool,
) *View {
	view := &View{PlanID: schedule.PlanID}

	weeks := groupByWeek(schedule)

	prevWeekCompleted := false
	for i := range weeks {
		week := &weeks[i]
		week.Unlocked = i == 0 || prevWeekCompleted

		prevDayCompleted := false
		for j := range week.Days {
			day := &week.Days[j]

			for _, sessionID := range daySessionIDs(schedule, week.Week, day.Day) {
				sessionView := buildSessionView(schedule, sessionID, completedSessionIDs, completedExerciseKeys)
				day.Sessions = append(day.Sessions, sessionView)
				day.TotalExercises += sessionView.TotalExercises
				day.CompletedExercises += sessionView.CompletedExercises
			}

			// a day with no sessions can never be completed; it permanently
			// blocks the next day, so flag it loudly
			if len(day.Sessions) == 0 {
				log.Warnf("plan %s week %d day %d has no sessions and will block progression",
					schedule.PlanID, week.Week, day.Day)
			}

			day.Completed = dayCompleted(day)
			if week.Unlocked {
				day.Unlocked = j == 0 || prevDayCompleted
			}
			prevDayCompleted = day.Completed
		}

		week.Completed = weekCompleted(week)
		prevWeekCompleted = week.Completed
	}

	view.Weeks = weeks
	view.CurrentWeek, view.CurrentDay = currentPosition(weeks)

	// totals cover the entire plan, not just the unlocked part
	for _, week := range weeks {
		for _, day := range week.Days {
			view.TotalExercises += day.TotalExercises
			view.CompletedExercises += day.CompletedExercises
			for _, session := range day.Sessions {
				view.TotalSessions++
				if session.Completed {
					view.CompletedSessions++
				}
			}
		}
	}

	return view
}

func buildSessionView(
	schedule *plans.Schedule,
	sessionID string,
	completedSessionIDs map[string]bool,
	completedExerciseKeys map[ExerciseKey]bool,
) SessionView {
	session, ok := schedule.Sessions[sessionID]
	if !ok {
		log.Warnf("plan %s schedule references unknown session %s", schedule.PlanID, sessionID)
	}

	sessionView := SessionView{
		SessionID:      sessionID,
		Name:           session.Name,
		Completed:      completedSessionIDs[sessionID],
		TotalExercises: len(session.ExerciseIDs),
		Exercises:      make([]ExerciseView, 0, len(session.ExerciseIDs)),
	}
	for _, exerciseID := range session.ExerciseIDs {
		completed := completedExerciseKeys[ExerciseKey{SessionID: sessionID, ExerciseID: exerciseID}]
		sessionView.Exercises = append(sessionView.Exercises, ExerciseView{
			ExerciseID: exerciseID,
			Completed:  completed,
		})
		if completed {
			sessionView.CompletedExercises++
		}
	}
	return sessionView
}

// groupByWeek groups schedule entries into weeks and days, both sorted
// ascending. Duplicate (week, day) entries are merged into one day.
func groupByWeek(schedule *plans.Schedule) []WeekView {
	type dayKey struct{ week, day int }
	seenDays := make(map[dayKey]bool)
	week2days := make(map[int][]int)

	for _, entry := range schedule.Entries {
		key := dayKey{entry.Week, entry.Day}
		if seenDays[key] {
			log.Warnf("plan %s has duplicate schedule entries for week %d day %d, merging",
				schedule.PlanID, entry.Week, entry.Day)
			continue
		}
		seenDays[key] = true
		week2days[entry.Week] = append(week2days[entry.Week], entry.Day)
	}

	weekNumbers := make([]int, 0, len(week2days))
	for week := range week2days {
		weekNumbers = append(weekNumbers, week)
	}
	sort.Ints(weekNumbers)

	weeks := make([]WeekView, 0, len(weekNumbers))
	for _, week := range weekNumbers {
		days := week2days[week]
		sort.Ints(days)
		weekView := WeekView{Week: week, Days: make([]DayView, 0, len(days))}
		for _, day := range days {
			weekView.Days = append(weekView.Days, DayView{Week: week, Day: day})
		}
		weeks = append(weeks, weekView)
	}
	return weeks
}

// daySessionIDs returns the session ids of all schedule entries for the
// (week, day) pair, in entry order.
func daySessionIDs(schedule *plans.Schedule, week, day int) []string {
	var sessionIDs []string
	for _, entry := range schedule.Entries {
		if entry.Week == week && entry.Day == day {
			sessionIDs = append(sessionIDs, entry.SessionIDs...)
		}
	}
	return sessionIDs
}

// dayCompleted: at least one session and all of them completed.
func dayCompleted(day *DayView) bool {
	if len(day.Sessions) == 0 {
		return false
	}
	for _, session := range day.Sessions {
		if !session.Completed {
			return false
		}
	}
	return true
}

func weekCompleted(week *WeekView) bool {
	for _, day := range week.Days {
		if !day.Completed {
			return false
		}
	}
	return len(week.Days) > 0
}

// currentPosition scans unlocked weeks in order and returns the first
// unlocked, not yet completed day. When every unlocked day is completed
// (plan caught up or finished) it defaults to the last day of the last
// unlocked week. Zero values mean an empty schedule.
func currentPosition(weeks []WeekView) (currentWeek, currentDay int) {
	var lastUnlockedWeek *WeekView
	for i := range weeks {
		week := &weeks[i]
		if !week.Unlocked {
			break
		}
		lastUnlockedWeek = week

		if week.Completed {
			continue
		}
		for _, day := range week.Days {
			if day.Unlocked && !day.Completed {
				return week.Week, day.Day
			}
		}
	}

	if lastUnlockedWeek == nil || len(lastUnlockedWeek.Days) == 0 {
		return 0, 0
	}
	lastDay := lastUnlockedWeek.Days[len(lastUnlockedWeek.Days)-1]
	return lastUnlockedWeek.Week, lastDay.Day
}
