package db

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestWorkoutBeforeCreateAssignsID(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open("file:db-workout?mode=memory&cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	defer func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	workout := Workout{Category: "Barbell", Target: "Legs", ExerciseName: "Back Squat", Sets: 5, Reps: 5, Weight: 100}
	if err := gdb.Create(&workout).Error; err != nil {
		t.Fatalf("create workout: %v", err)
	}
	if len(workout.ID) != 36 {
		t.Fatalf("expected uuid id, got %q", workout.ID)
	}

	completion := WorkoutCompletion{WorkoutID: workout.ID, CompletedAt: time.Now()}
	if err := gdb.Create(&completion).Error; err != nil {
		t.Fatalf("create completion: %v", err)
	}
	if completion.ID == "" || completion.ID == workout.ID {
		t.Fatalf("expected distinct completion id, got %q", completion.ID)
	}

	preset := WorkoutCompletion{ID: "fixed-id", WorkoutID: workout.ID, CompletedAt: time.Now()}
	if err := gdb.Create(&preset).Error; err != nil {
		t.Fatalf("create preset completion: %v", err)
	}
	if preset.ID != "fixed-id" {
		t.Fatalf("expected preset id to be kept, got %q", preset.ID)
	}
}

func TestWorkoutPlannedDate(t *testing.T) {
	created := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	scheduled := time.Date(2025, 4, 3, 8, 0, 0, 0, time.UTC)

	w := Workout{CreatedAt: created}
	if !w.PlannedDate().Equal(created) {
		t.Fatalf("expected created date fallback, got %v", w.PlannedDate())
	}

	w.ScheduledFor = &scheduled
	if !w.PlannedDate().Equal(scheduled) {
		t.Fatalf("expected scheduled date, got %v", w.PlannedDate())
	}
}
