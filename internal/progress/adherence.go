package progress

import "time"

// AdherenceReport summarizes expected vs actual session completions over a
// trailing window of calendar days, for compliance reporting.
type AdherenceReport struct {
	WindowDays        int     `json:"windowDays"`
	CompletedInWindow int     `json:"completedInWindow"`
	MissedInWindow    int     `json:"missedInWindow"`
	AvailableInWindow int     `json:"availableInWindow"`
	ComplianceRate    float64 `json:"complianceRate"`
	RemainingTotal    int     `json:"remainingTotal"`
	IsPlanComplete    bool    `json:"isPlanComplete"`
}

// Adherence walks each calendar day of the trailing window (ending today in
// the given timezone). While obligations remain, each day is "available":
// completed when a session completion landed on it, missed otherwise, and
// either way it consumes one obligation. Days after the obligations run out
// are neither available nor missed - the plan is simply done.
func Adherence(
	completions []SessionCompletion,
	totalAssigned int,
	windowDays int,
	now time.Time,
	loc *time.Location,
) *AdherenceReport {
	report := &AdherenceReport{WindowDays: windowDays}

	localNow := now.In(loc)
	windowStart := time.Date(
		localNow.Year(), localNow.Month(), localNow.Day(),
		0, 0, 0, 0, loc,
	).AddDate(0, 0, -(windowDays - 1))
	windowStartKey := windowStart.Format(DayKeyLayout)

	completedDayKeys := make(map[string]bool)
	completedBeforeWindow := 0
	for _, c := range completions {
		if c.DayKey < windowStartKey {
			completedBeforeWindow++
			continue
		}
		completedDayKeys[c.DayKey] = true
	}

	remainingObligations := totalAssigned - completedBeforeWindow

	todayKey := localNow.Format(DayKeyLayout)
	for day := windowStart; ; day = day.AddDate(0, 0, 1) {
		dayKey := day.Format(DayKeyLayout)
		if dayKey > todayKey {
			break
		}
		if remainingObligations <= 0 {
			break
		}

		report.AvailableInWindow++
		if completedDayKeys[dayKey] {
			report.CompletedInWindow++
		} else {
			report.MissedInWindow++
		}
		remainingObligations--
	}

	if report.AvailableInWindow == 0 {
		report.ComplianceRate = 100
	} else {
		report.ComplianceRate = float64(report.CompletedInWindow) / float64(report.AvailableInWindow) * 100
	}

	report.RemainingTotal = totalAssigned - len(completions)
	if report.RemainingTotal < 0 {
		report.RemainingTotal = 0
	}
	report.IsPlanComplete = report.RemainingTotal == 0

	return report
}
