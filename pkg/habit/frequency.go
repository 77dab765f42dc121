package habit

import (
	"fmt"
	"slices"
)

type FrequencyType string

const (
	Daily  FrequencyType = "daily"
	Weekly FrequencyType = "weekly"
	Custom FrequencyType = "custom"
)

// Frequency is a tagged variant keyed by Type. Days applies to Weekly,
// TimesPerWeek or TimesPerMonth to Custom.
type Frequency struct {
	Type          FrequencyType `json:"type"`
	Days          []int         `json:"days,omitempty"`
	TimesPerWeek  int           `json:"timesPerWeek,omitempty"`
	TimesPerMonth int           `json:"timesPerMonth,omitempty"`
}

func DailyFrequency() Frequency {
	return Frequency{Type: Daily}
}

func WeeklyFrequency(days ...int) Frequency {
	d := append([]int(nil), days...)
	slices.Sort(d)
	return Frequency{Type: Weekly, Days: slices.Compact(d)}
}

func TimesPerWeek(n int) Frequency {
	return Frequency{Type: Custom, TimesPerWeek: n}
}

func TimesPerMonth(n int) Frequency {
	return Frequency{Type: Custom, TimesPerMonth: n}
}

func (f Frequency) Validate() error {
	switch f.Type {
	case Daily:
		return nil
	case Weekly:
		if len(f.Days) == 0 {
			return fmt.Errorf("weekly frequency needs at least one day")
		}
		for _, d := range f.Days {
			if d < 0 || d > 6 {
				return fmt.Errorf("weekday %d out of range 0-6", d)
			}
		}
		return nil
	case Custom:
		if f.TimesPerWeek > 0 && f.TimesPerMonth > 0 {
			return fmt.Errorf("custom frequency takes timesPerWeek or timesPerMonth, not both")
		}
		if f.TimesPerWeek <= 0 && f.TimesPerMonth <= 0 {
			return fmt.Errorf("custom frequency needs a positive timesPerWeek or timesPerMonth")
		}
		return nil
	default:
		return fmt.Errorf("unknown frequency type %q", f.Type)
	}
}

func (f Frequency) String() string {
	switch f.Type {
	case Weekly:
		return fmt.Sprintf("weekly %v", f.Days)
	case Custom:
		if f.TimesPerMonth > 0 {
			return fmt.Sprintf("%dx/month", f.TimesPerMonth)
		}
		return fmt.Sprintf("%dx/week", f.TimesPerWeek)
	default:
		return string(Daily)
	}
}

// Normalize returns a copy with weekly days sorted and de-duplicated.
func (f Frequency) Normalize() Frequency {
	if f.Type == Weekly {
		return WeeklyFrequency(f.Days...)
	}
	return f.clone()
}

func (f Frequency) clone() Frequency {
	out := f
	out.Days = slices.Clone(f.Days)
	return out
}
