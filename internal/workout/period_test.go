package workout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryOn(id string, date time.Time) ReconciledWorkout {
	return ReconciledWorkout{ID: id, Category: CategoryBarbell, Target: "Legs", Completed: true, Date: date, CompletedDate: TimePtr(date)}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 18, 30, 0, 0, time.UTC)
}

func TestDeriveMonthsSortedMostRecentFirst(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2024, time.December, 31)),
		entryOn("b", day(2025, time.April, 2)),
		entryOn("c", day(2025, time.January, 15)),
		entryOn("d", day(2025, time.April, 20)),
		{ID: "undated"},
	}

	months := DeriveMonths(entries)

	require.Len(t, months, 3)
	assert.Equal(t, "April 2025", months[0].Label)
	assert.Equal(t, "January 2025", months[1].Label)
	assert.Equal(t, "December 2024", months[2].Label)
	assert.Len(t, months[0].Entries, 2)
	assert.Equal(t, "2025-04", months[0].Key())
	assert.Equal(t, 30, months[0].End.Day())
}

func TestDeriveMonthsUsesCompletedDateOverPlannedDate(t *testing.T) {
	entry := ReconciledWorkout{ID: "a", Date: day(2025, time.March, 30), CompletedDate: TimePtr(day(2025, time.April, 1))}
	planned := ReconciledWorkout{ID: "b", Date: day(2025, time.March, 12)}

	months := DeriveMonths([]ReconciledWorkout{entry, planned})

	require.Len(t, months, 2)
	assert.Equal(t, time.April, months[0].Month)
	assert.Equal(t, time.March, months[1].Month)
}

func TestDeriveWeeksForMonthScenario(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("wed", day(2025, time.April, 2)),
		entryOn("sun", day(2025, time.April, 6)),
		entryOn("wed2", day(2025, time.April, 9)),
	}
	months := DeriveMonths(entries)
	require.Len(t, months, 1)

	weeks := DeriveWeeksForMonth(months[0])

	require.Len(t, weeks, 2)
	assert.Equal(t, "2025-04-06", weeks[0].Key)
	assert.Equal(t, "Apr 6 - Apr 12", weeks[0].Label)
	assert.Len(t, weeks[0].Entries, 2)
	assert.Equal(t, "2025-03-30", weeks[1].Key)
	assert.Equal(t, "Mar 30 - Apr 5", weeks[1].Label)
	require.Len(t, weeks[1].Entries, 1)
	assert.Equal(t, "wed", weeks[1].Entries[0].ID)
}

func TestCalendarWeeksCoverEveryDayOnce(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := time.January; month <= time.December; month++ {
			weeks := CalendarWeeks(year, month, time.UTC)
			for _, week := range weeks {
				assert.Equal(t, time.Sunday, week.Start.Weekday())
				assert.Equal(t, time.Saturday, week.End.Weekday())
				assert.Equal(t, week.Start.AddDate(0, 0, 6), week.End)
			}

			for d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); d.Month() == month; d = d.AddDate(0, 0, 1) {
				hits := 0
				for _, week := range weeks {
					if !d.Before(week.Start) && !d.After(week.End) {
						hits++
					}
				}
				assert.Equal(t, 1, hits, d.Format(WeekKeyLayout))
			}
		}
	}
}

func TestDeriveWeeksForMonthIsDeterministic(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2024, time.February, 1)),
		entryOn("b", day(2024, time.February, 29)),
		entryOn("c", day(2024, time.February, 14)),
	}
	month := DeriveMonths(entries)[0]

	assert.Equal(t, DeriveWeeksForMonth(month), DeriveWeeksForMonth(month))
	assert.Len(t, DeriveWeeksForMonth(month), 3)
}

func TestFilterAllSortsByEffectiveDateDescending(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("old", day(2024, time.May, 1)),
		entryOn("new", day(2025, time.May, 1)),
		entryOn("mid", day(2024, time.December, 1)),
	}

	got := Filter(entries, PeriodAll, Selection{})

	require.Len(t, got, 3)
	assert.Equal(t, []string{"new", "mid", "old"}, ids(got))
	assert.Equal(t, "old", entries[0].ID)
}

func TestFilterMonthly(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2025, time.April, 1)),
		entryOn("b", day(2025, time.March, 31)),
		entryOn("c", day(2024, time.April, 30)),
		entryOn("d", day(2025, time.April, 30)),
	}

	got := Filter(entries, PeriodMonthly, Selection{Year: 2025, Month: time.April})

	assert.Equal(t, []string{"a", "d"}, ids(got))
	assert.Empty(t, Filter(entries, PeriodMonthly, Selection{}))
}

func TestFilterWeeklyIsInclusiveAtDayGranularity(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("before", time.Date(2025, time.March, 29, 23, 59, 0, 0, time.UTC)),
		entryOn("start", time.Date(2025, time.March, 30, 0, 0, 0, 0, time.UTC)),
		entryOn("end", time.Date(2025, time.April, 5, 23, 59, 59, 0, time.UTC)),
		entryOn("after", time.Date(2025, time.April, 6, 0, 0, 0, 0, time.UTC)),
	}

	sel := Selection{Year: 2025, Month: time.April, WeekStart: time.Date(2025, time.March, 30, 12, 0, 0, 0, time.UTC)}
	got := Filter(entries, PeriodWeekly, sel)

	assert.Equal(t, []string{"start", "end"}, ids(got))
	assert.Empty(t, Filter(entries, PeriodWeekly, Selection{Year: 2025, Month: time.April}))
}

func TestFilterIsIdempotent(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2025, time.April, 2)),
		entryOn("b", day(2025, time.April, 6)),
		entryOn("c", day(2025, time.March, 3)),
		entryOn("d", day(2025, time.April, 9)),
	}
	selections := []struct {
		period Period
		sel    Selection
	}{
		{period: PeriodAll},
		{period: PeriodMonthly, sel: Selection{Year: 2025, Month: time.April}},
		{period: PeriodWeekly, sel: Selection{WeekStart: day(2025, time.April, 6)}},
	}

	for _, tc := range selections {
		once := Filter(entries, tc.period, tc.sel)
		twice := Filter(once, tc.period, tc.sel)
		assert.Equal(t, once, twice, string(tc.period))
	}
}

func TestResolveSelectionDefaults(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2025, time.April, 2)),
		entryOn("b", day(2025, time.April, 9)),
		entryOn("c", day(2025, time.February, 3)),
	}

	current := ResolveSelection(entries, PeriodWeekly, Selection{}, day(2025, time.February, 20))
	assert.Equal(t, 2025, current.Year)
	assert.Equal(t, time.February, current.Month)
	assert.Equal(t, "2025-02-02", current.WeekStart.Format(WeekKeyLayout))

	recent := ResolveSelection(entries, PeriodWeekly, Selection{}, day(2025, time.June, 1))
	assert.Equal(t, time.April, recent.Month)
	assert.Equal(t, "2025-04-06", recent.WeekStart.Format(WeekKeyLayout))

	monthly := ResolveSelection(entries, PeriodMonthly, Selection{}, day(2025, time.June, 1))
	assert.Equal(t, time.April, monthly.Month)
	assert.False(t, monthly.HasWeek())

	explicit := ResolveSelection(entries, PeriodMonthly, Selection{Year: 2025, Month: time.February}, day(2025, time.April, 1))
	assert.Equal(t, time.February, explicit.Month)

	empty := ResolveSelection(nil, PeriodWeekly, Selection{}, day(2025, time.April, 1))
	assert.False(t, empty.HasMonth())
}

func TestResolveSelectionWeekWithoutMonth(t *testing.T) {
	entries := []ReconciledWorkout{
		entryOn("a", day(2025, time.March, 31)),
		entryOn("b", day(2025, time.June, 3)),
	}
	now := day(2025, time.June, 10)

	sel := ResolveSelection(entries, PeriodWeekly, Selection{WeekStart: day(2025, time.March, 30)}, now)
	assert.Equal(t, 2025, sel.Year)
	assert.Equal(t, time.March, sel.Month)
	assert.Equal(t, "2025-03-30", sel.WeekStart.Format(WeekKeyLayout))

	entries = append(entries, entryOn("c", day(2025, time.April, 2)))
	sel = ResolveSelection(entries, PeriodWeekly, Selection{WeekStart: day(2025, time.March, 30)}, now)
	assert.Equal(t, time.April, sel.Month)

	unknown := ResolveSelection(entries, PeriodWeekly, Selection{WeekStart: day(2024, time.December, 29)}, now)
	assert.Equal(t, 2024, unknown.Year)
	assert.Equal(t, time.December, unknown.Month)
}

func TestParsePeriodAndSelection(t *testing.T) {
	p, err := ParsePeriod("Weekly")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeekly, p)

	p, err = ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodAll, p)

	_, err = ParsePeriod("yearly")
	assert.ErrorIs(t, err, ErrUnknownPeriod)

	sel, err := ParseSelection("2025-04", "2025-04-09", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2025, sel.Year)
	assert.Equal(t, time.April, sel.Month)
	assert.Equal(t, "2025-04-06", sel.WeekStart.Format(WeekKeyLayout))

	_, err = ParseSelection("April", "", time.UTC)
	assert.Error(t, err)
}

func ids(entries []ReconciledWorkout) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
