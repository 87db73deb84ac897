package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zelrazel/tracktechfit-sub001/internal/config"
	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"github.com/zelrazel/tracktechfit-sub001/internal/handler"
	"github.com/zelrazel/tracktechfit-sub001/internal/logging"
	"github.com/zelrazel/tracktechfit-sub001/internal/router"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		logger.Fatal("failed to initialize database", zap.String("path", cfg.DatabasePath), zap.Error(err))
	}

	catalog, err := workout.LoadCatalogFile(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load exercise catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid TIMEZONE", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	api := handler.NewAPI(db.DB, handler.Options{
		Catalog:  catalog,
		Logger:   logger,
		Location: loc,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(cfg.SessionSecret, api)
	logger.Info("server starting", zap.String("addr", cfg.ListenAddr), zap.String("database", cfg.DatabasePath))
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("failed to run server", zap.Error(err))
	}
}
