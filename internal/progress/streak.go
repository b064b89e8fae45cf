package progress

import (
	log "github.com/sirupsen/logrus"
)

// NextStreaks computes the streak counters after a new session completion on
// newDayKey. prior are the already recorded session completions, current the
// persisted counters. Each day key carries its event's local calendar date,
// so the gap between entries recorded in different timezones (user travel)
// is the difference of the local dates, nothing is re-evaluated.
//
// Rules:
//   - first ever session completion for the plan: both counters become 1
//   - gap of 0 or 1 calendar days since the latest recorded day: increment
//   - gap larger than 1 day: streak broken, both counters reset to 1
//   - negative gap (clock skew, out of order submission): counters are kept
//     unchanged and a warning is logged; nothing is silently normalized
func NextStreaks(prior []SessionCompletion, newDayKey string, current Streaks) (Streaks, error) {
	if len(prior) == 0 {
		return Streaks{Weekly: 1, Monthly: 1}, nil
	}

	// day keys are YYYY-MM-DD, so lexicographic max is the latest calendar day
	lastDayKey := prior[0].DayKey
	for _, c := range prior[1:] {
		if c.DayKey > lastDayKey {
			lastDayKey = c.DayKey
		}
	}

	diffDays, err := DiffDays(lastDayKey, newDayKey)
	if err != nil {
		return current, err
	}

	switch {
	case diffDays < 0:
		log.Warnf("session completed on %s arrived after day %s already recorded, keeping streaks", newDayKey, lastDayKey)
		return current, nil
	case diffDays <= 1:
		return Streaks{Weekly: current.Weekly + 1, Monthly: current.Monthly + 1}, nil
	default:
		return Streaks{Weekly: 1, Monthly: 1}, nil
	}
}
