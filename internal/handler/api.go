package handler

import (
	"time"

	"github.com/zelrazel/tracktechfit-sub001/internal/logging"
	"github.com/zelrazel/tracktechfit-sub001/internal/service"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db       *gorm.DB
	workouts *service.WorkoutService
	history  *service.HistoryService
	catalog  *workout.StaticCatalog
	logger   *zap.Logger
}

// Options 可选依赖，零值时使用内置默认值
type Options struct {
	Catalog  *workout.StaticCatalog
	Logger   *zap.Logger
	Location *time.Location
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	logger := logging.OrNop(opts.Logger)

	catalog := opts.Catalog
	if catalog == nil {
		if fallback, err := workout.DefaultCatalog(); err == nil {
			catalog = fallback
		} else {
			logger.Warn("default catalog unavailable", zap.Error(err))
		}
	}

	var source workout.Catalog
	if catalog != nil {
		source = catalog
	}
	workouts := service.NewWorkoutService(db, source, logger)

	return &API{
		db:       db,
		workouts: workouts,
		history:  service.NewHistoryService(workouts, logger).WithLocation(opts.Location),
		catalog:  catalog,
		logger:   logger,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}

// Workouts 暴露训练服务，供命令行与测试复用
func (a *API) Workouts() *service.WorkoutService {
	return a.workouts
}

// History 暴露历史记录服务
func (a *API) History() *service.HistoryService {
	return a.history
}
