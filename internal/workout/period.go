package workout

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// WeekKeyLayout 周键与周选择参数的日期格式（周日开始日）
	WeekKeyLayout = "2006-01-02"
	// MonthKeyLayout 月份选择参数的格式
	MonthKeyLayout = "2006-01"
)

// ErrUnknownPeriod 在无法识别的筛选周期时返回
var ErrUnknownPeriod = errors.New("unknown period")

// Period 历史记录的筛选周期
type Period string

const (
	PeriodAll     Period = "all"
	PeriodMonthly Period = "monthly"
	PeriodWeekly  Period = "weekly"
)

// ParsePeriod 解析筛选周期，空字符串视为 all
func ParsePeriod(raw string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PeriodAll:
		return PeriodAll, nil
	case PeriodMonthly:
		return PeriodMonthly, nil
	case PeriodWeekly:
		return PeriodWeekly, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPeriod, raw)
}

// MonthBucket 一个自然月窗口（1 日至月末）
type MonthBucket struct {
	Year    int
	Month   time.Month
	Label   string
	Start   time.Time
	End     time.Time
	Entries []ReconciledWorkout
}

// Key 返回 2006-01 形式的月份键
func (m MonthBucket) Key() string {
	return m.Start.Format(MonthKeyLayout)
}

// WeekBucket 一个周日至周六的自然周窗口，可能跨越相邻月份
type WeekBucket struct {
	Key     string
	Label   string
	Start   time.Time
	End     time.Time
	Entries []ReconciledWorkout
}

// Selection 用户在筛选器中选择的月份与周
type Selection struct {
	Year      int
	Month     time.Month
	WeekStart time.Time
}

// HasMonth 是否已选择月份
func (s Selection) HasMonth() bool {
	return s.Year > 0 && s.Month >= time.January && s.Month <= time.December
}

// HasWeek 是否已选择周
func (s Selection) HasWeek() bool {
	return !s.WeekStart.IsZero()
}

// WeekEnd 返回所选周的周六
func (s Selection) WeekEnd() time.Time {
	return civilDay(s.WeekStart).AddDate(0, 0, 6)
}

// ParseSelection 解析 2006-01 形式的月份与 2006-01-02 形式的周开始日，空值表示未选择
func ParseSelection(month, week string, loc *time.Location) (Selection, error) {
	if loc == nil {
		loc = time.Local
	}

	var sel Selection
	if month = strings.TrimSpace(month); month != "" {
		parsed, err := time.ParseInLocation(MonthKeyLayout, month, loc)
		if err != nil {
			return Selection{}, fmt.Errorf("parse month %q: %w", month, err)
		}
		sel.Year, sel.Month = parsed.Year(), parsed.Month()
	}
	if week = strings.TrimSpace(week); week != "" {
		parsed, err := time.ParseInLocation(WeekKeyLayout, week, loc)
		if err != nil {
			return Selection{}, fmt.Errorf("parse week %q: %w", week, err)
		}
		sel.WeekStart = WeekStart(parsed)
	}
	return sel, nil
}

// DeriveMonths 按生效日期的 (年, 月) 分组，最近的月份在前。没有日期的记录不参与分组。
func DeriveMonths(entries []ReconciledWorkout) []MonthBucket {
	months := make([]MonthBucket, 0)
	index := make(map[int]int)

	for _, entry := range entries {
		date := entry.EffectiveDate()
		if date.IsZero() {
			continue
		}
		key := date.Year()*100 + int(date.Month())
		pos, exists := index[key]
		if !exists {
			start := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
			months = append(months, MonthBucket{
				Year:  date.Year(),
				Month: date.Month(),
				Label: fmt.Sprintf("%s %d", date.Month(), date.Year()),
				Start: start,
				End:   start.AddDate(0, 1, -1),
			})
			pos = len(months) - 1
			index[key] = pos
		}
		months[pos].Entries = append(months[pos].Entries, entry)
	}

	slices.SortStableFunc(months, func(a, b MonthBucket) int {
		if diff := cmp.Compare(b.Year, a.Year); diff != 0 {
			return diff
		}
		return cmp.Compare(b.Month, a.Month)
	})
	return months
}

// FindMonth 在派生月份中查找指定年月
func FindMonth(months []MonthBucket, year int, month time.Month) (MonthBucket, bool) {
	for _, m := range months {
		if m.Year == year && m.Month == month {
			return m, true
		}
	}
	return MonthBucket{}, false
}

// WeekStart 返回当天或之前最近的周日
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// CalendarWeeks 遍历月份中的每一天，返回覆盖该月的全部自然周（按开始日升序，未过滤空周）
func CalendarWeeks(year int, month time.Month, loc *time.Location) []WeekBucket {
	if loc == nil {
		loc = time.Local
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	weeks := make([]WeekBucket, 0, 6)
	seen := make(map[string]struct{}, 6)

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		start := WeekStart(day)
		key := start.Format(WeekKeyLayout)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		end := start.AddDate(0, 0, 6)
		weeks = append(weeks, WeekBucket{
			Key:   key,
			Label: fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2")),
			Start: start,
			End:   end,
		})
	}
	return weeks
}

// DeriveWeeksForMonth 将月份内的记录分配到自然周，丢弃空周，最近的周在前
func DeriveWeeksForMonth(month MonthBucket) []WeekBucket {
	loc := month.Start.Location()
	if month.Start.IsZero() {
		loc = time.Local
	}

	weeks := CalendarWeeks(month.Year, month.Month, loc)
	for _, entry := range month.Entries {
		day := civilDay(entry.EffectiveDate())
		for i := range weeks {
			if withinDays(day, weeks[i].Start, weeks[i].End) {
				weeks[i].Entries = append(weeks[i].Entries, entry)
				break
			}
		}
	}

	nonEmpty := make([]WeekBucket, 0, len(weeks))
	for _, week := range weeks {
		if len(week.Entries) > 0 {
			nonEmpty = append(nonEmpty, week)
		}
	}

	slices.SortStableFunc(nonEmpty, func(a, b WeekBucket) int {
		return b.Start.Compare(a.Start)
	})
	return nonEmpty
}

// Filter 按周期筛选记录，返回新切片。
// all 按生效日期倒序；monthly/weekly 保持输入顺序，未选择对应月份或周时返回空结果。
func Filter(entries []ReconciledWorkout, period Period, sel Selection) []ReconciledWorkout {
	out := make([]ReconciledWorkout, 0, len(entries))

	switch period {
	case PeriodAll:
		out = append(out, entries...)
		slices.SortStableFunc(out, func(a, b ReconciledWorkout) int {
			return b.EffectiveDate().Compare(a.EffectiveDate())
		})
	case PeriodMonthly:
		if !sel.HasMonth() {
			return out
		}
		for _, entry := range entries {
			date := entry.EffectiveDate()
			if date.IsZero() {
				continue
			}
			if date.Year() == sel.Year && date.Month() == sel.Month {
				out = append(out, entry)
			}
		}
	case PeriodWeekly:
		if !sel.HasWeek() {
			return out
		}
		start, end := civilDay(sel.WeekStart), sel.WeekEnd()
		for _, entry := range entries {
			date := entry.EffectiveDate()
			if date.IsZero() {
				continue
			}
			if withinDays(civilDay(date), start, end) {
				out = append(out, entry)
			}
		}
	}

	return out
}

// ResolveSelection 补全缺省选择：只选了周时取该周所在的月份；
// 未选月份时优先使用当前月份（若存在记录），否则使用最近的月份；
// weekly 未选周时使用该月最近的非空周。
func ResolveSelection(entries []ReconciledWorkout, period Period, sel Selection, now time.Time) Selection {
	if period == PeriodAll {
		return sel
	}

	months := DeriveMonths(entries)
	if sel.HasWeek() && !sel.HasMonth() {
		sel.Year, sel.Month = monthForWeek(months, sel.WeekStart)
	}
	if len(months) == 0 {
		return sel
	}

	if !sel.HasMonth() {
		chosen := months[0]
		if current, ok := FindMonth(months, now.Year(), now.Month()); ok {
			chosen = current
		}
		sel.Year, sel.Month = chosen.Year, chosen.Month
	}

	if period == PeriodWeekly && !sel.HasWeek() {
		if month, ok := FindMonth(months, sel.Year, sel.Month); ok {
			if weeks := DeriveWeeksForMonth(month); len(weeks) > 0 {
				sel.WeekStart = weeks[0].Start
			}
		}
	}

	return sel
}

// monthForWeek 跨月的周优先取包含该周记录的月份，先看周六所在月，再看周日所在月
func monthForWeek(months []MonthBucket, weekStart time.Time) (int, time.Month) {
	start := civilDay(weekStart)
	end := start.AddDate(0, 0, 6)
	key := start.Format(WeekKeyLayout)
	for _, day := range []time.Time{end, start} {
		month, ok := FindMonth(months, day.Year(), day.Month())
		if !ok {
			continue
		}
		for _, week := range DeriveWeeksForMonth(month) {
			if week.Key == key {
				return day.Year(), day.Month()
			}
		}
	}
	return start.Year(), start.Month()
}

// civilDay 取日期部分并统一到 UTC，避免时区与时刻差异影响按天比较
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func withinDays(day, start, end time.Time) bool {
	day = civilDay(day)
	return !day.Before(civilDay(start)) && !day.After(civilDay(end))
}
