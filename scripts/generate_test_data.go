package main

import (
	"fmt"
	"log"
	"time"

	"github.com/zelrazel/tracktechfit-sub001/internal/config"
	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"gorm.io/gorm"
)

// 测试数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("时区配置无效:", err)
	}

	fmt.Println("开始生成测试数据...")

	summary, err := seedWorkoutHistory(db.DB, time.Now().In(loc))
	if err != nil {
		log.Fatal("生成训练数据失败:", err)
	}
	if summary.skipped {
		fmt.Println("训练数据已存在，跳过创建")
		return
	}

	fmt.Println("测试数据生成完成！")
	fmt.Printf("计划训练: %d 条\n", summary.workouts)
	fmt.Printf("完成记录: %d 条（含重复、旧字段与孤立记录）\n", summary.completions)
}

type seedSummary struct {
	workouts    int
	completions int
	skipped     bool
}

type seedWorkout struct {
	id        string
	category  string
	target    string
	exercise  string
	sets      int
	reps      int
	weight    int
	daysAgo   int
	completed bool
	note      string
}

var demoWorkouts = []seedWorkout{
	{id: "demo-squat", category: "Barbell", target: "Legs", exercise: "Back Squat", sets: 5, reps: 5, weight: 100, daysAgo: 2, completed: true, note: "**热身** 两组空杆"},
	{id: "demo-bench", category: "Barbell", target: "Chest", exercise: "Barbell Bench Press", sets: 5, reps: 5, weight: 70, daysAgo: 4},
	{id: "demo-row", category: "Dumbbell", target: "Back", exercise: "One-Arm Dumbbell Row", sets: 3, reps: 10, weight: 28, daysAgo: 6},
	{id: "demo-curl", category: "Dumbbell", target: "Biceps", exercise: "Hammer Curl", sets: 3, reps: 12, weight: 14, daysAgo: 9},
	{id: "demo-press", category: "Machine", target: "Legs", exercise: "Leg Press", sets: 4, reps: 12, weight: 180, daysAgo: 12},
	{id: "demo-pulldown", category: "Machine", target: "Back", exercise: "Lat Pulldown", sets: 4, reps: 10, weight: 55, daysAgo: 20},
	{id: "demo-plank", category: "Bodyweight", target: "Core", exercise: "Plank", sets: 3, reps: 60, daysAgo: 25},
	{id: "demo-pullup", category: "Bodyweight", target: "Back", exercise: "Pull-Up", sets: 4, reps: 8, daysAgo: 33},
	{id: "demo-lateral", category: "Dumbbell", target: "Shoulders", exercise: "Lateral Raise", sets: 3, reps: 15, weight: 8, daysAgo: 40},
	{id: "demo-deadlift", category: "Barbell", target: "Back", exercise: "Deadlift", sets: 3, reps: 5, weight: 140, daysAgo: 47},
	{id: "demo-calf", category: "Machine", target: "Calves", exercise: "Seated Calf Raise", sets: 4, reps: 15, weight: 40, daysAgo: 0},
	{id: "demo-pushup", category: "Bodyweight", target: "Chest", exercise: "Push-Up", sets: 3, reps: 20, daysAgo: -2},
}

// seedWorkoutHistory 写入演示用计划训练与多种形态的完成记录，已有数据时跳过
func seedWorkoutHistory(gdb *gorm.DB, now time.Time) (seedSummary, error) {
	var count int64
	if err := gdb.Model(&db.Workout{}).Count(&count).Error; err != nil {
		return seedSummary{}, err
	}
	if count > 0 {
		return seedSummary{skipped: true}, nil
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location())
	var summary seedSummary

	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, item := range demoWorkouts {
			scheduled := today.AddDate(0, 0, -item.daysAgo)
			workout := db.Workout{
				ID:           item.id,
				Category:     item.category,
				Target:       item.target,
				ExerciseName: item.exercise,
				Sets:         item.sets,
				Reps:         item.reps,
				Weight:       item.weight,
				Description:  item.note,
				Completed:    item.completed,
				ScheduledFor: &scheduled,
			}
			if err := tx.Create(&workout).Error; err != nil {
				return fmt.Errorf("seed workout %s: %w", item.id, err)
			}
			summary.workouts++
		}

		for _, completion := range demoCompletions(today) {
			if err := tx.Create(&completion).Error; err != nil {
				return fmt.Errorf("seed completion %s: %w", completion.ID, err)
			}
			summary.completions++
		}
		return nil
	})
	if err != nil {
		return seedSummary{}, err
	}
	return summary, nil
}

func demoCompletions(today time.Time) []db.WorkoutCompletion {
	at := func(daysAgo, hour int) time.Time {
		return today.AddDate(0, 0, -daysAgo).Add(time.Duration(hour) * time.Hour)
	}
	planned := func(daysAgo int) *time.Time {
		t := today.AddDate(0, 0, -daysAgo)
		return &t
	}

	return []db.WorkoutCompletion{
		// 标准形态：workout_id + *_completed
		{ID: "done-squat", WorkoutID: "demo-squat", CompletedAt: at(2, 9), WorkoutDate: planned(2), SetsCompleted: intPtr(5), RepsCompleted: intPtr(4), WeightLifted: intPtr(105)},
		// 旧字段：只有 sets/reps/weight
		{ID: "done-row", WorkoutID: "demo-row", CompletedAt: at(6, 10), WorkoutDate: planned(6), Sets: intPtr(3), Reps: intPtr(12), Weight: intPtr(28)},
		// 同一训练的两条记录，较新的一条生效
		{ID: "done-curl-1", WorkoutID: "demo-curl", CompletedAt: at(9, 8), Sets: intPtr(3), Reps: intPtr(10)},
		{ID: "done-curl-2", WorkoutID: "demo-curl", CompletedAt: at(9, 11), SetsCompleted: intPtr(3), RepsCompleted: intPtr(12), WeightLifted: intPtr(16)},
		// 完成记录自身 ID 即训练 ID
		{ID: "demo-press", CompletedAt: at(12, 12), SetsCompleted: intPtr(4), RepsCompleted: intPtr(12), WeightLifted: intPtr(190)},
		{ID: "done-plank", WorkoutID: "demo-plank", CompletedAt: at(25, 7), SetsCompleted: intPtr(3), RepsCompleted: intPtr(75)},
		{ID: "done-deadlift", WorkoutID: "demo-deadlift", CompletedAt: at(47, 10), SetsCompleted: intPtr(3), RepsCompleted: intPtr(5), WeightLifted: intPtr(145)},
		// 原训练已删除，仅保留快照
		{ID: "done-orphan", WorkoutID: "demo-removed", CompletedAt: at(52, 18), Category: "Machine", Target: "Chest", ExerciseName: "Pec Deck", Sets: intPtr(3), Reps: intPtr(12), Weight: intPtr(45)},
	}
}

func intPtr(v int) *int {
	return &v
}
