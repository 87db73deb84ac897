package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"github.com/zelrazel/tracktechfit-sub001/internal/logging"
	"github.com/zelrazel/tracktechfit-sub001/internal/observability"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrWorkoutNotFound 在指定训练不存在时返回
	ErrWorkoutNotFound = errors.New("workout not found")
	// ErrWorkoutInvalid 训练记录未通过校验
	ErrWorkoutInvalid = errors.New("invalid workout")
	// ErrWorkoutAlreadyCompleted 重复完成同一训练
	ErrWorkoutAlreadyCompleted = errors.New("workout already completed")
	// ErrWorkoutInPast 计划日期早于今天
	ErrWorkoutInPast = errors.New("workout cannot be scheduled in the past")
)

// ValidationError 携带校验失败的字段与原因，可通过 errors.Is(err, ErrWorkoutInvalid) 识别
type ValidationError struct {
	Result workout.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrWorkoutInvalid, e.Result.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrWorkoutInvalid
}

// WorkoutService 负责计划训练与完成记录的增删改查
// 写入前统一经过 workout.Validator，整条记录校验失败即拒绝
type WorkoutService struct {
	db        *gorm.DB
	validator *workout.Validator
	logger    *zap.Logger
	now       func() time.Time
}

// WorkoutFilter 描述列表过滤条件
type WorkoutFilter struct {
	Category string
	Target   string
}

// WorkoutInput 定义创建/更新训练时可配置字段
type WorkoutInput struct {
	Category     string
	Target       string
	ExerciseName string
	Sets         int
	Reps         int
	Weight       int
	Description  string
	ScheduledFor *time.Time
}

// CompletionInput 完成训练时实际达成的数值，nil 表示与计划一致
type CompletionInput struct {
	Sets        *int
	Reps        *int
	Weight      *int
	CompletedAt time.Time
}

// NewWorkoutService 构造 WorkoutService
func NewWorkoutService(gdb *gorm.DB, catalog workout.Catalog, logger *zap.Logger) *WorkoutService {
	return &WorkoutService{
		db:        gdb,
		validator: workout.NewValidator(catalog),
		logger:    logging.OrNop(logger),
		now:       time.Now,
	}
}

// WithClock 允许在测试中替换当前时间
func (s *WorkoutService) WithClock(now func() time.Time) *WorkoutService {
	if now != nil {
		s.now = now
	}
	return s
}

// Validator 暴露校验器，用于表单逐项校验
func (s *WorkoutService) Validator() *workout.Validator {
	return s.validator
}

// List 返回训练集合，按创建时间倒序
func (s *WorkoutService) List(filter WorkoutFilter) ([]db.Workout, error) {
	var workouts []db.Workout

	query := s.db.Model(&db.Workout{})
	if category, ok := workout.ParseCategory(filter.Category); ok {
		query = query.Where("category = ?", string(category))
	}
	if target := strings.TrimSpace(filter.Target); target != "" {
		query = query.Where("target = ?", target)
	}

	if err := query.Order("created_at DESC").Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

// Get 根据 ID 获取训练
func (s *WorkoutService) Get(id string) (*db.Workout, error) {
	var item db.Workout
	if err := s.db.Where("id = ?", strings.TrimSpace(id)).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout: %w", err)
	}
	return &item, nil
}

// Create 新建训练
func (s *WorkoutService) Create(input WorkoutInput) (*db.Workout, error) {
	record, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}

	if input.ScheduledFor != nil && s.scheduledInPast(*input.ScheduledFor) {
		return nil, ErrWorkoutInPast
	}

	item := db.Workout{
		Category:     string(record.Category),
		Target:       record.Target,
		ExerciseName: record.ExerciseName,
		Sets:         record.Sets,
		Reps:         record.Reps,
		Weight:       record.Weight,
		Description:  record.Description,
		ScheduledFor: input.ScheduledFor,
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create workout: %w", err)
	}

	observability.RecordMutation("created")
	s.logger.Info("workout created",
		zap.String("id", item.ID),
		zap.String("category", item.Category),
		zap.String("exercise", item.ExerciseName))
	return &item, nil
}

// Update 更新训练
func (s *WorkoutService) Update(id string, input WorkoutInput) (*db.Workout, error) {
	record, err := s.checkInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	existing.Category = string(record.Category)
	existing.Target = record.Target
	existing.ExerciseName = record.ExerciseName
	existing.Sets = record.Sets
	existing.Reps = record.Reps
	existing.Weight = record.Weight
	existing.Description = record.Description
	if input.ScheduledFor != nil {
		existing.ScheduledFor = input.ScheduledFor
	}

	if err := s.db.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}

	observability.RecordMutation("updated")
	s.logger.Info("workout updated", zap.String("id", existing.ID))
	return existing, nil
}

// Delete 删除训练，完成记录保留为弱引用
func (s *WorkoutService) Delete(id string) error {
	result := s.db.Where("id = ?", strings.TrimSpace(id)).Delete(&db.Workout{})
	if result.Error != nil {
		return fmt.Errorf("delete workout: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWorkoutNotFound
	}

	observability.RecordMutation("deleted")
	s.logger.Info("workout deleted", zap.String("id", id))
	return nil
}

// Complete 写入完成记录并标记训练已完成，二者在同一事务内
func (s *WorkoutService) Complete(id string, input CompletionInput) (*db.WorkoutCompletion, error) {
	var completion db.WorkoutCompletion

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var item db.Workout
		if err := tx.Where("id = ?", strings.TrimSpace(id)).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkoutNotFound
			}
			return fmt.Errorf("find workout: %w", err)
		}

		var existing int64
		if err := tx.Model(&db.WorkoutCompletion{}).Where("workout_id = ?", item.ID).Count(&existing).Error; err != nil {
			return fmt.Errorf("count completions: %w", err)
		}
		if item.Completed || existing > 0 {
			return ErrWorkoutAlreadyCompleted
		}

		achieved := workout.WorkoutRecord{
			ID:           item.ID,
			Category:     workout.Category(item.Category),
			Target:       item.Target,
			ExerciseName: item.ExerciseName,
			Sets:         valueOr(input.Sets, item.Sets),
			Reps:         valueOr(input.Reps, item.Reps),
			Weight:       valueOr(input.Weight, item.Weight),
		}
		if res := s.validator.Validate(achieved); !res.Valid {
			observability.RecordValidationFailure(string(res.Field))
			return &ValidationError{Result: res}
		}
		achieved = workout.ApplyCategoryRules(achieved)

		completedAt := input.CompletedAt
		if completedAt.IsZero() {
			completedAt = s.now()
		}
		planned := item.PlannedDate()

		completion = db.WorkoutCompletion{
			WorkoutID:     item.ID,
			CompletedAt:   completedAt,
			WorkoutDate:   &planned,
			Category:      item.Category,
			Target:        item.Target,
			ExerciseName:  item.ExerciseName,
			Description:   item.Description,
			Sets:          workout.IntPtr(item.Sets),
			Reps:          workout.IntPtr(item.Reps),
			Weight:        workout.IntPtr(item.Weight),
			SetsCompleted: workout.IntPtr(achieved.Sets),
			RepsCompleted: workout.IntPtr(achieved.Reps),
			WeightLifted:  workout.IntPtr(achieved.Weight),
		}
		if err := tx.Create(&completion).Error; err != nil {
			return fmt.Errorf("create completion: %w", err)
		}

		if err := tx.Model(&item).Update("completed", true).Error; err != nil {
			return fmt.Errorf("mark workout completed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordMutation("completed")
	s.logger.Info("workout completed",
		zap.String("id", completion.WorkoutID),
		zap.String("completion_id", completion.ID),
		zap.Time("completed_at", completion.CompletedAt))
	return &completion, nil
}

// ListCompletions 返回全部完成记录，按完成时间倒序
func (s *WorkoutService) ListCompletions() ([]db.WorkoutCompletion, error) {
	var completions []db.WorkoutCompletion
	if err := s.db.Order("completed_at DESC").Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list completions: %w", err)
	}
	return completions, nil
}

// PlannedRecords 读取全部计划训练并转换为合并输入
func (s *WorkoutService) PlannedRecords() ([]workout.WorkoutRecord, error) {
	var workouts []db.Workout
	if err := s.db.Order("created_at ASC").Find(&workouts).Error; err != nil {
		return nil, fmt.Errorf("fetch planned workouts: %w", err)
	}

	records := make([]workout.WorkoutRecord, 0, len(workouts))
	for _, item := range workouts {
		records = append(records, toWorkoutRecord(item))
	}
	return records, nil
}

// CompletionRecords 读取全部完成记录并转换为合并输入
func (s *WorkoutService) CompletionRecords() ([]workout.CompletionRecord, error) {
	var completions []db.WorkoutCompletion
	if err := s.db.Order("completed_at ASC, created_at ASC").Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("fetch completion records: %w", err)
	}

	records := make([]workout.CompletionRecord, 0, len(completions))
	for _, item := range completions {
		records = append(records, toCompletionRecord(item))
	}
	return records, nil
}

func (s *WorkoutService) checkInput(input WorkoutInput) (workout.WorkoutRecord, error) {
	category, _ := workout.ParseCategory(input.Category)
	if category == "" {
		category = workout.Category(strings.TrimSpace(input.Category))
	}

	record := workout.WorkoutRecord{
		Category:     category,
		Target:       strings.TrimSpace(input.Target),
		ExerciseName: strings.TrimSpace(input.ExerciseName),
		Sets:         input.Sets,
		Reps:         input.Reps,
		Weight:       input.Weight,
		Description:  strings.TrimSpace(input.Description),
	}

	if res := s.validator.Validate(record); !res.Valid {
		observability.RecordValidationFailure(string(res.Field))
		s.logger.Debug("workout rejected",
			zap.String("field", string(res.Field)),
			zap.String("reason", res.Message))
		return workout.WorkoutRecord{}, &ValidationError{Result: res}
	}

	return workout.ApplyCategoryRules(record), nil
}

func (s *WorkoutService) scheduledInPast(scheduled time.Time) bool {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return normalizeToDate(scheduled.In(now.Location())).Before(today)
}

func toWorkoutRecord(item db.Workout) workout.WorkoutRecord {
	return workout.WorkoutRecord{
		ID:           item.ID,
		Category:     workout.Category(item.Category),
		Target:       item.Target,
		ExerciseName: item.ExerciseName,
		Sets:         item.Sets,
		Reps:         item.Reps,
		Weight:       item.Weight,
		Description:  item.Description,
		Completed:    item.Completed,
		CreatedDate:  item.PlannedDate(),
	}
}

func toCompletionRecord(item db.WorkoutCompletion) workout.CompletionRecord {
	record := workout.CompletionRecord{
		ID:            item.ID,
		WorkoutID:     item.WorkoutID,
		Date:          item.WorkoutDate,
		Category:      workout.Category(item.Category),
		Target:        item.Target,
		ExerciseName:  item.ExerciseName,
		Description:   item.Description,
		Sets:          item.Sets,
		SetsCompleted: item.SetsCompleted,
		Reps:          item.Reps,
		RepsCompleted: item.RepsCompleted,
		Weight:        item.Weight,
		WeightLifted:  item.WeightLifted,
	}
	if !item.CompletedAt.IsZero() {
		completedAt := item.CompletedAt
		record.CompletedDate = &completedAt
	}
	return record
}

func normalizeToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
