package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"github.com/zelrazel/tracktechfit-sub001/internal/service"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
)

const (
	workoutStatusPending   = "pending"
	workoutStatusCompleted = "completed"
)

type workoutPayload struct {
	Category     string `json:"category"`
	Target       string `json:"target"`
	ExerciseName string `json:"exercise_name"`
	Sets         int    `json:"sets"`
	Reps         int    `json:"reps"`
	Weight       int    `json:"weight"`
	Description  string `json:"description"`
	ScheduledFor string `json:"scheduled_for"`
}

type completionPayload struct {
	Sets        *int   `json:"sets"`
	Reps        *int   `json:"reps"`
	Weight      *int   `json:"weight"`
	CompletedAt string `json:"completed_at"`
}

// ListWorkouts 返回合并后的训练列表，支持按状态与类别筛选
func (a *API) ListWorkouts(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status != "" && status != workoutStatusPending && status != workoutStatusCompleted {
		respondError(c, http.StatusBadRequest, "无效的训练状态")
		return
	}

	var category workout.Category
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, ok := workout.ParseCategory(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "无效的训练类别")
			return
		}
		category = parsed
	}

	rec, err := a.history.Reconcile()
	if err != nil {
		a.logger.Error("reconcile workouts", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "获取训练列表失败")
		return
	}

	records := rec.Records
	switch status {
	case workoutStatusPending:
		records = rec.Pending
	case workoutStatusCompleted:
		records = rec.Completed
	}

	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		if category != "" && record.Category != category {
			continue
		}
		items = append(items, reconciledToPayload(record))
	}

	c.JSON(http.StatusOK, gin.H{"workouts": items, "total": len(items)})
}

// GetWorkout 返回单个训练详情
func (a *API) GetWorkout(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练ID")
		return
	}

	item, err := a.workouts.Get(id)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}

	completed := item.Completed
	if rec, err := a.history.Reconcile(); err == nil {
		completed = rec.IsCompleted(item.ID)
	} else {
		c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{"workout": workoutToPayload(*item, completed)})
}

// CreateWorkout 创建计划训练
func (a *API) CreateWorkout(c *gin.Context) {
	input, ok := a.parseWorkoutInput(c)
	if !ok {
		return
	}

	item, err := a.workouts.Create(input)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"workout": workoutToPayload(*item, item.Completed)})
}

// UpdateWorkout 更新计划训练
func (a *API) UpdateWorkout(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练ID")
		return
	}

	input, ok := a.parseWorkoutInput(c)
	if !ok {
		return
	}

	item, err := a.workouts.Update(id, input)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"workout": workoutToPayload(*item, item.Completed)})
}

// DeleteWorkout 删除计划训练，已有完成记录保留
func (a *API) DeleteWorkout(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练ID")
		return
	}

	if err := a.workouts.Delete(id); err != nil {
		handleWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// CompleteWorkout 记录一次训练完成
func (a *API) CompleteWorkout(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的训练ID")
		return
	}

	var payload completionPayload
	if c.Request.ContentLength > 0 {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return
		}
	}

	input := service.CompletionInput{Sets: payload.Sets, Reps: payload.Reps, Weight: payload.Weight}
	if raw := strings.TrimSpace(payload.CompletedAt); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的完成时间")
			return
		}
		input.CompletedAt = parsed
	}

	completion, err := a.workouts.Complete(id, input)
	if err != nil {
		handleWorkoutError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": completionToPayload(*completion)})
}

// ValidateWorkoutField 表单逐项校验，返回 valid/field/message
func (a *API) ValidateWorkoutField(c *gin.Context) {
	category, ok := workout.ParseCategory(c.Query("category"))
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的训练类别")
		return
	}
	field, ok := workout.ParseField(c.Query("field"))
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的校验字段")
		return
	}

	result := a.workouts.Validator().ValidateField(c.Query("value"), category, field)
	c.JSON(http.StatusOK, result)
}

// ListCatalog 返回动作目录，可按类别与肌群筛选
func (a *API) ListCatalog(c *gin.Context) {
	if a.catalog == nil {
		respondError(c, http.StatusServiceUnavailable, "动作目录不可用")
		return
	}

	categories := workout.Categories()
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		parsed, ok := workout.ParseCategory(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "无效的训练类别")
			return
		}
		categories = []workout.Category{parsed}
	}
	target := strings.TrimSpace(c.Query("target"))

	items := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		targets := a.catalog.Targets(category)
		if target != "" {
			targets = []string{target}
		}
		exercises := make(map[string][]string, len(targets))
		for _, t := range targets {
			exercises[t] = a.catalog.Exercises(category, t)
		}
		items = append(items, gin.H{
			"category":  category,
			"exercises": exercises,
		})
	}

	c.JSON(http.StatusOK, gin.H{"catalog": items})
}

func (a *API) parseWorkoutInput(c *gin.Context) (service.WorkoutInput, bool) {
	var payload workoutPayload

	if strings.Contains(c.GetHeader("Content-Type"), "application/json") {
		if !bindJSON(c, &payload, "请求参数不合法") {
			return service.WorkoutInput{}, false
		}
	} else {
		payload.Category = c.PostForm("category")
		payload.Target = c.PostForm("target")
		payload.ExerciseName = c.PostForm("exercise_name")
		payload.Description = c.PostForm("description")
		payload.ScheduledFor = c.PostForm("scheduled_for")

		numbers := map[string]*int{"sets": &payload.Sets, "reps": &payload.Reps, "weight": &payload.Weight}
		for key, dst := range numbers {
			raw := strings.TrimSpace(c.PostForm(key))
			if raw == "" {
				continue
			}
			val, err := strconv.Atoi(raw)
			if err != nil {
				respondError(c, http.StatusBadRequest, "组数、次数与重量应为数字")
				return service.WorkoutInput{}, false
			}
			*dst = val
		}
	}

	scheduled, ok := parseOptionalDate(payload.ScheduledFor, a.history.Location())
	if !ok {
		respondError(c, http.StatusBadRequest, "无效的计划日期")
		return service.WorkoutInput{}, false
	}

	return service.WorkoutInput{
		Category:     payload.Category,
		Target:       payload.Target,
		ExerciseName: payload.ExerciseName,
		Sets:         payload.Sets,
		Reps:         payload.Reps,
		Weight:       payload.Weight,
		Description:  payload.Description,
		ScheduledFor: scheduled,
	}, true
}

func workoutToPayload(item db.Workout, completed bool) gin.H {
	payload := gin.H{
		"id":            item.ID,
		"category":      item.Category,
		"target":        item.Target,
		"exercise_name": item.ExerciseName,
		"sets":          item.Sets,
		"reps":          item.Reps,
		"weight":        item.Weight,
		"description":   item.Description,
		"completed":     completed,
		"date":          item.PlannedDate().Format(dateFormat),
		"created_at":    item.CreatedAt.Format(time.RFC3339),
	}
	if html, err := renderMarkdown(item.Description); err == nil && html != "" {
		payload["description_html"] = string(html)
	}
	return payload
}

func reconciledToPayload(record workout.ReconciledWorkout) gin.H {
	payload := gin.H{
		"id":            record.ID,
		"category":      record.Category,
		"target":        record.Target,
		"exercise_name": record.ExerciseName,
		"sets":          record.Sets,
		"reps":          record.Reps,
		"weight":        record.Weight,
		"description":   record.Description,
		"completed":     record.Completed,
	}
	if !record.Date.IsZero() {
		payload["date"] = record.Date.Format(dateFormat)
	}
	if completedAt := formatOptionalTime(record.CompletedDate); completedAt != "" {
		payload["completed_at"] = completedAt
	}
	if record.CompletionID != "" {
		payload["completion_id"] = record.CompletionID
	}
	if html, err := renderMarkdown(record.Description); err == nil && html != "" {
		payload["description_html"] = string(html)
	}
	return payload
}

func completionToPayload(item db.WorkoutCompletion) gin.H {
	payload := gin.H{
		"id":            item.ID,
		"workout_id":    item.WorkoutID,
		"completed_at":  item.CompletedAt.Format(time.RFC3339),
		"category":      item.Category,
		"target":        item.Target,
		"exercise_name": item.ExerciseName,
	}
	if item.SetsCompleted != nil {
		payload["sets_completed"] = *item.SetsCompleted
	}
	if item.RepsCompleted != nil {
		payload["reps_completed"] = *item.RepsCompleted
	}
	if item.WeightLifted != nil {
		payload["weight_lifted"] = *item.WeightLifted
	}
	return payload
}

func handleWorkoutError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "训练数据不合法",
			"field":  verr.Result.Field,
			"reason": verr.Result.Message,
		})
	case errors.Is(err, service.ErrWorkoutNotFound):
		respondError(c, http.StatusNotFound, "训练不存在")
	case errors.Is(err, service.ErrWorkoutAlreadyCompleted):
		respondError(c, http.StatusConflict, "训练已完成")
	case errors.Is(err, service.ErrWorkoutInPast):
		respondError(c, http.StatusBadRequest, "不能安排过去日期的训练")
	default:
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
