// Package workout 实现训练记录的合并、校验、时间分桶与分布统计。
// 包内所有函数均为纯函数：不读写数据库，不持有全局可变状态。
package workout

import (
	"strings"
	"time"
)

// Category 表示训练器械类别
type Category string

const (
	CategoryDumbbell   Category = "Dumbbell"
	CategoryMachine    Category = "Machine"
	CategoryBarbell    Category = "Barbell"
	CategoryBodyweight Category = "Bodyweight"
)

// Categories 按图表展示顺序返回固定类别集合
func Categories() []Category {
	return []Category{CategoryDumbbell, CategoryMachine, CategoryBarbell, CategoryBodyweight}
}

// ParseCategory 忽略大小写与首尾空白解析类别，未知类别返回 false
func ParseCategory(raw string) (Category, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, category := range Categories() {
		if strings.EqualFold(trimmed, string(category)) {
			return category, true
		}
	}
	return "", false
}

// Known 判断类别是否属于固定枚举
func (c Category) Known() bool {
	switch c {
	case CategoryDumbbell, CategoryMachine, CategoryBarbell, CategoryBodyweight:
		return true
	}
	return false
}

// WorkoutRecord 计划中的训练条目
type WorkoutRecord struct {
	ID            string
	Category      Category
	Target        string
	ExerciseName  string
	Sets          int
	Reps          int
	Weight        int
	Description   string
	Completed     bool
	CreatedDate   time.Time
	CompletedDate *time.Time
}

// CompletionRecord 训练完成记录。
// 上游对同一数值使用不同字段名（sets/setsCompleted 等），nil 表示字段缺失。
// WorkoutID 与 ID 均可能承载对原始训练的引用。
type CompletionRecord struct {
	ID            string
	WorkoutID     string
	CompletedDate *time.Time
	Date          *time.Time

	Category     Category
	Target       string
	ExerciseName string
	Description  string

	Sets          *int
	SetsCompleted *int
	Reps          *int
	RepsCompleted *int
	Weight        *int
	WeightLifted  *int
}

// ReconciledWorkout 合并后的统一视图，是分桶与统计唯一接受的输入形态
type ReconciledWorkout struct {
	ID            string
	CompletionID  string
	Category      Category
	Target        string
	ExerciseName  string
	Sets          int
	Reps          int
	Weight        int
	Description   string
	Completed     bool
	Date          time.Time
	CompletedDate *time.Time
}

// EffectiveDate 返回用于分桶的日期：优先完成时间，其次计划日期
func (w ReconciledWorkout) EffectiveDate() time.Time {
	if w.CompletedDate != nil && !w.CompletedDate.IsZero() {
		return *w.CompletedDate
	}
	return w.Date
}

// IntPtr 便于构造可选数值字段
func IntPtr(v int) *int {
	return &v
}

// TimePtr 便于构造可选时间字段
func TimePtr(t time.Time) *time.Time {
	return &t
}
