package core

import (
	"fmt"
	"time"
)

// PeriodPreset names a predefined reporting range.
type PeriodPreset string

const (
	PresetAllTime    PeriodPreset = "all_time"
	PresetNext30Days PeriodPreset = "next_30_days"
	PresetNext60Days PeriodPreset = "next_60_days"
	PresetNext90Days PeriodPreset = "next_90_days"
)

// Period is a resolved [Start, End] interval with a display label.
// It is a value object, constructed fresh per request, never persisted.
// Invariant: Start <= End.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
}

// PeriodQuery is the caller's range selection. Either Preset is set, or From
// and To are set for a custom range. MinDate/MaxDate are the observed data
// bounds used by the all_time preset; nil means fall back to the fixed
// 3-months-back / 12-months-forward window around now.
type PeriodQuery struct {
	Preset  PeriodPreset
	From    *time.Time
	To      *time.Time
	MinDate *time.Time
	MaxDate *time.Time
}

// ResolvePeriod turns a range selection into a concrete Period. It is a pure
// function of the query and the supplied clock: the same query and now always
// yield an identical Period.
func ResolvePeriod(q PeriodQuery, now time.Time) (Period, error) {
	if q.From != nil || q.To != nil {
		return resolveCustom(q.From, q.To)
	}

	switch q.Preset {
	case PresetAllTime:
		start := now.AddDate(0, -3, 0)
		if q.MinDate != nil {
			start = *q.MinDate
		}
		end := now.AddDate(0, 12, 0)
		if q.MaxDate != nil {
			end = *q.MaxDate
		}
		return Period{Start: dayStart(start), End: dayEnd(end), Label: "All time"}, nil
	case PresetNext30Days:
		return nextDays(now, 30), nil
	case PresetNext60Days:
		return nextDays(now, 60), nil
	case PresetNext90Days:
		return nextDays(now, 90), nil
	case "":
		return Period{}, Validationf("period selection is empty: supply a preset or a custom range")
	default:
		return Period{}, Validationf("unknown period preset %q", q.Preset)
	}
}

func resolveCustom(from, to *time.Time) (Period, error) {
	if from == nil || to == nil {
		return Period{}, Validationf("custom period requires both from and to dates")
	}
	start := dayStart(*from)
	end := dayEnd(*to)
	if start.After(end) {
		return Period{}, Validationf("custom period start %s is after end %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	label := fmt.Sprintf("%s to %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	return Period{Start: start, End: end, Label: label}, nil
}

func nextDays(now time.Time, n int) Period {
	return Period{
		Start: dayStart(now),
		End:   dayEnd(now.AddDate(0, 0, n)),
		Label: fmt.Sprintf("Next %d days", n),
	}
}

// dayStart truncates t to 00:00:00 in its own location.
func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayEnd extends t to the last nanosecond of its day.
func dayEnd(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
