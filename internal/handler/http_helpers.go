package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateFormat = "2006-01-02"

var errEmptyParam = errors.New("empty path parameter")

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseIDParam 读取字符串 ID 路径参数
func parseIDParam(c *gin.Context, key string) (string, error) {
	raw := strings.TrimSpace(c.Param(key))
	if raw == "" {
		return "", errEmptyParam
	}
	return raw, nil
}

// parseOptionalDate 解析 2006-01-02 或 RFC3339 日期，空字符串返回 nil
func parseOptionalDate(raw string, loc *time.Location) (*time.Time, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}
	if loc == nil {
		loc = time.Local
	}
	if parsed, err := time.ParseInLocation(dateFormat, trimmed, loc); err == nil {
		return &parsed, true
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, true
	}
	return nil, false
}

func formatOptionalTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
