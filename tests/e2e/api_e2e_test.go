package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zelrazel/tracktechfit-sub001/internal/db"
	"github.com/zelrazel/tracktechfit-sub001/internal/handler"
	"github.com/zelrazel/tracktechfit-sub001/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler http.Handler
	client  httpClient
	baseURL string
	gdb     *gorm.DB
}

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler) *localClient {
	jar, _ := cookiejar.New(nil)
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_WorkoutLifecycle(t *testing.T) {
	suite := newE2ESuite(t)

	t.Run("create and list", suite.testCreateAndList)
	t.Run("complete and history", suite.testCompleteAndHistory)
	t.Run("delete keeps completion", suite.testDeleteKeepsCompletion)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file:e2e-workouts?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	api := handler.NewAPI(gdb, handler.Options{Location: time.UTC})
	engine := router.SetupRouter("test-session-secret", api)

	return &e2eSuite{
		handler: engine,
		client:  newLocalClient(engine),
		baseURL: "http://example.test",
		gdb:     gdb,
	}
}

func (s *e2eSuite) do(t *testing.T, method, path string, payload any) (int, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	decoded := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%s %s returned non-json body %q", method, path, string(data))
		}
	}
	return resp.StatusCode, decoded
}

func (s *e2eSuite) createWorkout(t *testing.T, payload map[string]any) string {
	t.Helper()
	status, body := s.do(t, http.MethodPost, "/api/workouts", payload)
	if status != http.StatusCreated {
		t.Fatalf("create workout: expected 201, got %d (%v)", status, body)
	}
	item, _ := body["workout"].(map[string]any)
	id, _ := item["id"].(string)
	if id == "" {
		t.Fatalf("create workout: missing id in %v", body)
	}
	return id
}

func (s *e2eSuite) testCreateAndList(t *testing.T) {
	s.createWorkout(t, map[string]any{"category": "Dumbbell", "target": "Shoulders", "exercise_name": "Lateral Raise", "sets": 3, "reps": 15, "weight": 8})
	s.createWorkout(t, map[string]any{"category": "Bodyweight", "target": "Back", "exercise_name": "Pull-Up", "sets": 4, "reps": 8, "weight": 30})

	status, body := s.do(t, http.MethodGet, "/api/workouts?status=pending", nil)
	if status != http.StatusOK {
		t.Fatalf("list workouts: expected 200, got %d", status)
	}
	items, _ := body["workouts"].([]any)
	if len(items) != 2 {
		t.Fatalf("expected 2 pending workouts, got %d", len(items))
	}
	for _, raw := range items {
		item := raw.(map[string]any)
		if item["category"] == "Bodyweight" && item["weight"].(float64) != 0 {
			t.Fatalf("expected bodyweight weight to be stored as 0, got %v", item["weight"])
		}
	}

	status, body = s.do(t, http.MethodPost, "/api/workouts", map[string]any{"category": "Dumbbell", "target": "Shoulders", "exercise_name": "Lateral Raise", "sets": 9, "reps": 15, "weight": 8})
	if status != http.StatusBadRequest || body["field"] != "sets" {
		t.Fatalf("expected sets rejection, got %d (%v)", status, body)
	}
}

func (s *e2eSuite) testCompleteAndHistory(t *testing.T) {
	id := s.createWorkout(t, map[string]any{"category": "Barbell", "target": "Legs", "exercise_name": "Front Squat", "sets": 4, "reps": 6, "weight": 80})

	completedAt := time.Date(2025, time.April, 8, 7, 30, 0, 0, time.UTC)
	status, body := s.do(t, http.MethodPost, fmt.Sprintf("/api/workouts/%s/complete", id), map[string]any{
		"reps":         5,
		"weight":       85,
		"completed_at": completedAt.Format(time.RFC3339),
	})
	if status != http.StatusOK {
		t.Fatalf("complete workout: expected 200, got %d (%v)", status, body)
	}

	status, _ = s.do(t, http.MethodPost, fmt.Sprintf("/api/workouts/%s/complete", id), map[string]any{})
	if status != http.StatusConflict {
		t.Fatalf("second completion: expected 409, got %d", status)
	}

	status, body = s.do(t, http.MethodGet, "/api/history?period=weekly&month=2025-04&lang=en", nil)
	if status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d (%v)", status, body)
	}
	selection, _ := body["selection"].(map[string]any)
	if selection["week"] != "2025-04-06" {
		t.Fatalf("expected default week 2025-04-06, got %v", selection)
	}
	entries, _ := body["entries"].([]any)
	if len(entries) != 1 {
		t.Fatalf("expected 1 weekly entry, got %d", len(entries))
	}
	entry := entries[0].(map[string]any)
	if entry["reps"].(float64) != 5 || entry["weight"].(float64) != 85 {
		t.Fatalf("expected achieved values in history, got %v", entry)
	}

	// 会话保留选择，不带参数的请求沿用上一次的月份与周
	status, body = s.do(t, http.MethodGet, "/api/history?period=weekly", nil)
	if status != http.StatusOK {
		t.Fatalf("history reuse: expected 200, got %d", status)
	}
	selection, _ = body["selection"].(map[string]any)
	if selection["month"] != "2025-04" || selection["week"] != "2025-04-06" {
		t.Fatalf("expected session selection to be reused, got %v", selection)
	}

	q := url.Values{"category": {"Barbell"}, "field": {"weight"}, "value": {"601"}}
	status, body = s.do(t, http.MethodGet, "/api/workouts/validate?"+q.Encode(), nil)
	if status != http.StatusOK || body["valid"] != false {
		t.Fatalf("expected weight rejection, got %d (%v)", status, body)
	}
}

func (s *e2eSuite) testDeleteKeepsCompletion(t *testing.T) {
	id := s.createWorkout(t, map[string]any{"category": "Machine", "target": "Chest", "exercise_name": "Pec Deck", "sets": 3, "reps": 12, "weight": 40})

	status, _ := s.do(t, http.MethodPost, fmt.Sprintf("/api/workouts/%s/complete", id), map[string]any{"completed_at": "2025-03-12T18:00:00Z"})
	if status != http.StatusOK {
		t.Fatalf("complete workout: expected 200, got %d", status)
	}

	status, _ = s.do(t, http.MethodDelete, "/api/workouts/"+id, nil)
	if status != http.StatusOK {
		t.Fatalf("delete workout: expected 200, got %d", status)
	}
	status, _ = s.do(t, http.MethodGet, "/api/workouts/"+id, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected deleted workout to 404, got %d", status)
	}

	status, body := s.do(t, http.MethodGet, "/api/history?period=monthly&month=2025-03&lang=zh", nil)
	if status != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", status)
	}
	entries, _ := body["entries"].([]any)
	if len(entries) != 1 || entries[0].(map[string]any)["exercise_name"] != "Pec Deck" {
		t.Fatalf("expected orphaned completion in march history, got %v", entries)
	}
	summary, _ := body["summary"].(map[string]any)
	if summary["orphaned"].(float64) != 1 {
		t.Fatalf("expected 1 orphaned completion, got %v", summary)
	}
	months, _ := body["months"].([]any)
	found := false
	for _, raw := range months {
		if m := raw.(map[string]any); m["key"] == "2025-03" && strings.Contains(m["label"].(string), "2025年3月") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected localized march label, got %v", months)
	}
}
