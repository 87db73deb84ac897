package service

import (
	"fmt"
	"time"

	"github.com/zelrazel/tracktechfit-sub001/internal/logging"
	"github.com/zelrazel/tracktechfit-sub001/internal/observability"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
)

// RecordSource 提供合并所需的计划训练与完成记录
type RecordSource interface {
	PlannedRecords() ([]workout.WorkoutRecord, error)
	CompletionRecords() ([]workout.CompletionRecord, error)
}

// HistoryService 负责历史记录视图：合并、分桶、筛选与分布统计
// 每次调用都从数据源重新读取并重新计算，不缓存中间结果
type HistoryService struct {
	source RecordSource
	logger *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

// HistoryQuery 历史视图的查询条件
type HistoryQuery struct {
	Period    workout.Period
	Selection workout.Selection
}

// HistorySummary 汇总计数
type HistorySummary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Orphaned  int `json:"orphaned"`
}

// HistoryOverview 历史视图所需的全部数据
type HistoryOverview struct {
	Period      workout.Period
	Selection   workout.Selection
	Months      []workout.MonthBucket
	Weeks       []workout.WeekBucket
	Entries     []workout.ReconciledWorkout
	Categories  []workout.Bucket
	Targets     []workout.Bucket
	Summary     HistorySummary
	GeneratedAt time.Time
}

// NewHistoryService 构造 HistoryService，默认使用本地时区
func NewHistoryService(source RecordSource, logger *zap.Logger) *HistoryService {
	return &HistoryService{
		source: source,
		logger: logging.OrNop(logger),
		now:    time.Now,
		loc:    time.Local,
	}
}

// WithClock 允许在测试中替换当前时间
func (s *HistoryService) WithClock(now func() time.Time) *HistoryService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithLocation 指定按周/月分桶使用的时区
func (s *HistoryService) WithLocation(loc *time.Location) *HistoryService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

// Location 返回当前分桶时区
func (s *HistoryService) Location() *time.Location {
	return s.loc
}

// Reconcile 读取全部记录并合并
func (s *HistoryService) Reconcile() (workout.Reconciliation, error) {
	planned, err := s.source.PlannedRecords()
	if err != nil {
		return workout.Reconciliation{}, fmt.Errorf("load planned workouts: %w", err)
	}
	completions, err := s.source.CompletionRecords()
	if err != nil {
		return workout.Reconciliation{}, fmt.Errorf("load completions: %w", err)
	}

	result := workout.Reconcile(planned, completions)
	observability.RecordOrphanCompletions(len(result.Orphaned))
	if len(result.Orphaned) > 0 {
		s.logger.Debug("completions without workout", zap.Int("count", len(result.Orphaned)))
	}
	return result, nil
}

// Overview 计算历史视图。monthly/weekly 未指定选择时补全为默认月份与周。
func (s *HistoryService) Overview(query HistoryQuery) (*HistoryOverview, error) {
	period := query.Period
	if period == "" {
		period = workout.PeriodAll
	}

	rec, err := s.Reconcile()
	if err != nil {
		return nil, err
	}

	completed := s.localize(rec.Completed)
	now := s.now().In(s.loc)
	sel := workout.ResolveSelection(completed, period, query.Selection, now)

	months := workout.DeriveMonths(completed)
	var weeks []workout.WeekBucket
	if sel.HasMonth() {
		if month, ok := workout.FindMonth(months, sel.Year, sel.Month); ok {
			weeks = workout.DeriveWeeksForMonth(month)
		}
	}
	// 跨月的周按整周计数，与 weekly 筛选结果一致
	for i := range weeks {
		weeks[i].Entries = workout.Filter(completed, workout.PeriodWeekly, workout.Selection{WeekStart: weeks[i].Start})
	}

	entries := workout.Filter(completed, period, sel)

	overview := &HistoryOverview{
		Period:     period,
		Selection:  sel,
		Months:     months,
		Weeks:      weeks,
		Entries:    entries,
		Categories: workout.CategoryDistribution(entries),
		Targets:    workout.TargetDistribution(entries),
		Summary: HistorySummary{
			Total:     len(rec.Records),
			Completed: len(rec.Completed),
			Pending:   len(rec.Pending),
			Orphaned:  len(rec.Orphaned),
		},
		GeneratedAt: now,
	}

	s.logger.Debug("history overview computed",
		zap.String("period", string(period)),
		zap.Int("entries", len(entries)),
		zap.Int("months", len(months)),
		zap.Int("weeks", len(weeks)))
	return overview, nil
}

// localize 将日期转换到分桶时区，返回新切片
func (s *HistoryService) localize(records []workout.ReconciledWorkout) []workout.ReconciledWorkout {
	out := make([]workout.ReconciledWorkout, len(records))
	for i, record := range records {
		if !record.Date.IsZero() {
			record.Date = record.Date.In(s.loc)
		}
		if record.CompletedDate != nil {
			record.CompletedDate = workout.TimePtr(record.CompletedDate.In(s.loc))
		}
		out[i] = record
	}
	return out
}
