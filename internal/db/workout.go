package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Workout 计划训练
// ID 使用 uuid 字符串，对外保持不透明
// Completed 由完成流程写入，仅作为完成状态的来源之一，权威状态以合并结果为准
// ScheduledFor 为计划日期，为空时以创建时间为准
type Workout struct {
	ID           string `gorm:"primaryKey;size:36"`
	Category     string `gorm:"size:32;index"`
	Target       string `gorm:"size:64"`
	ExerciseName string `gorm:"size:128"`
	Sets         int
	Reps         int
	Weight       int
	Description  string
	Completed    bool `gorm:"index"`
	ScheduledFor *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// BeforeCreate 为缺失 ID 的记录生成 uuid
func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

// WorkoutCompletion 训练完成记录，只读
// WorkoutID 为弱引用：原训练可能已被删除，因此不设外键约束
// 数值字段保留上游的多种命名（sets/sets_completed 等），由合并逻辑统一
type WorkoutCompletion struct {
	ID            string    `gorm:"primaryKey;size:36"`
	WorkoutID     string    `gorm:"size:36;index"`
	CompletedAt   time.Time `gorm:"index"`
	WorkoutDate   *time.Time
	Category      string `gorm:"size:32"`
	Target        string `gorm:"size:64"`
	ExerciseName  string `gorm:"size:128"`
	Description   string
	Sets          *int
	SetsCompleted *int
	Reps          *int
	RepsCompleted *int
	Weight        *int
	WeightLifted  *int
	CreatedAt     time.Time
}

// BeforeCreate 为缺失 ID 的记录生成 uuid
func (c *WorkoutCompletion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// PlannedDate 返回计划日期，未设置时回退到创建时间
func (w Workout) PlannedDate() time.Time {
	if w.ScheduledFor != nil && !w.ScheduledFor.IsZero() {
		return *w.ScheduledFor
	}
	return w.CreatedAt
}
