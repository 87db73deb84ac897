package router

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zelrazel/tracktechfit-sub001/internal/handler"
)

const sessionName = "tracktechfit_session"

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(sessionSecret string, api *handler.API) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// 配置会话中间件，用于保存历史视图的筛选选择
	secret := strings.TrimSpace(sessionSecret)
	if secret == "" {
		secret = "tracktechfit-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   30 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group("/api")
	apiGroup.Use(api.LocaleMiddleware())
	{
		apiGroup.GET("/workouts", api.ListWorkouts)
		apiGroup.POST("/workouts", api.CreateWorkout)
		// 静态路径需在 :id 之前注册
		apiGroup.GET("/workouts/validate", api.ValidateWorkoutField)
		apiGroup.GET("/workouts/:id", api.GetWorkout)
		apiGroup.PUT("/workouts/:id", api.UpdateWorkout)
		apiGroup.DELETE("/workouts/:id", api.DeleteWorkout)
		apiGroup.POST("/workouts/:id/complete", api.CompleteWorkout)

		apiGroup.GET("/catalog", api.ListCatalog)
		apiGroup.GET("/history", api.GetHistory)
	}

	return r
}
