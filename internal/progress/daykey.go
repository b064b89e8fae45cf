package progress

import (
	"fmt"
	"time"
)

// DayKeyLayout - calendar date key, computed in the user's timezone.
const DayKeyLayout = "2006-01-02"

// LocalCompletion is a completion instant normalized to the user's timezone.
type LocalCompletion struct {
	Local  time.Time
	DayKey string
}

// NormalizeCompletionTime converts a UTC instant and an IANA timezone into
// the local timestamp and the calendar day key in that zone. The calendar
// date in the target zone determines the day key, so DST transitions and
// odd UTC offsets are handled by the timezone database, not by hour math.
func NormalizeCompletionTime(instant time.Time, timezone string) (LocalCompletion, error) {
	if timezone == "" {
		return LocalCompletion{}, fmt.Errorf("%w: empty", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return LocalCompletion{}, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	local := instant.In(loc)
	return LocalCompletion{
		Local:  local,
		DayKey: local.Format(DayKeyLayout),
	}, nil
}

// DiffDays returns the whole calendar days between two day keys (positive
// when newKey is after prevKey). Day keys are plain calendar dates, already
// computed in each event's timezone by NormalizeCompletionTime, so the
// difference is pure date math and DST transitions in between cannot
// produce off-by-one results.
func DiffDays(prevKey, newKey string) (int, error) {
	prev, err := time.Parse(DayKeyLayout, prevKey)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", prevKey, err)
	}
	next, err := time.Parse(DayKeyLayout, newKey)
	if err != nil {
		return 0, fmt.Errorf("parse day key %q: %w", newKey, err)
	}

	return int(next.Sub(prev) / (24 * time.Hour)), nil
}
