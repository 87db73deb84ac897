package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/zelrazel/tracktechfit-sub001/internal/locale"
	"github.com/zelrazel/tracktechfit-sub001/internal/service"
	"github.com/zelrazel/tracktechfit-sub001/internal/workout"
	"go.uber.org/zap"
)

const (
	sessionHistoryMonth = "history_month"
	sessionHistoryWeek  = "history_week"
)

type historySelection struct {
	Month string `json:"month,omitempty"`
	Week  string `json:"week,omitempty"`
}

type historyMonth struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type historyWeek struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
	Count int    `json:"count"`
}

type historyBucket struct {
	Label       string `json:"label"`
	Key         string `json:"key"`
	Count       int    `json:"count"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

type historyPayload struct {
	Period      workout.Period         `json:"period"`
	Language    string                 `json:"language"`
	Selection   historySelection       `json:"selection"`
	Months      []historyMonth         `json:"months"`
	Weeks       []historyWeek          `json:"weeks"`
	Entries     []gin.H                `json:"entries"`
	Categories  []historyBucket        `json:"categories"`
	Targets     []historyBucket        `json:"targets"`
	Summary     service.HistorySummary `json:"summary"`
	Languages   map[string]string      `json:"languages"`
	GeneratedAt string                 `json:"generated_at"`
}

// GetHistory 返回训练历史视图。
// 月份与周的选择保存在会话中，后续请求未携带参数时沿用上一次的选择。
func (a *API) GetHistory(c *gin.Context) {
	period, err := workout.ParsePeriod(c.Query("period"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的筛选周期")
		return
	}

	session := sessions.Default(c)
	month, week := a.historySelectionInput(c, session)

	sel, err := workout.ParseSelection(month, week, a.history.Location())
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的月份或周")
		return
	}

	overview, err := a.history.Overview(service.HistoryQuery{Period: period, Selection: sel})
	if err != nil {
		a.logger.Error("compute history overview", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "获取训练历史失败")
		return
	}

	resolved := encodeSelection(overview.Selection)
	session.Set(sessionHistoryMonth, resolved.Month)
	session.Set(sessionHistoryWeek, resolved.Week)
	if err := session.Save(); err != nil {
		a.logger.Warn("save history selection", zap.Error(err))
	}

	c.JSON(http.StatusOK, buildHistoryPayload(overview, a.requestLocale(c), languageLinks(c)))
}

// historySelectionInput 读取查询参数，缺失时回退到会话中保存的选择。
// 切换月份时丢弃旧的周选择；只传周时月份由该周推导。
func (a *API) historySelectionInput(c *gin.Context, session sessions.Session) (string, string) {
	storedMonth, _ := session.Get(sessionHistoryMonth).(string)
	storedWeek, _ := session.Get(sessionHistoryWeek).(string)

	month := strings.TrimSpace(c.Query("month"))
	week := strings.TrimSpace(c.Query("week"))

	if month == "" && week != "" {
		return "", week
	}
	if month == "" {
		month = storedMonth
	} else if month != storedMonth {
		storedWeek = ""
	}
	if week == "" {
		week = storedWeek
	}
	return month, week
}

func encodeSelection(sel workout.Selection) historySelection {
	var out historySelection
	if sel.HasMonth() {
		out.Month = time.Date(sel.Year, sel.Month, 1, 0, 0, 0, 0, time.UTC).Format(workout.MonthKeyLayout)
	}
	if sel.HasWeek() {
		out.Week = sel.WeekStart.Format(workout.WeekKeyLayout)
	}
	return out
}

func buildHistoryPayload(overview *service.HistoryOverview, pref locale.Preference, links map[string]string) historyPayload {
	payload := historyPayload{
		Period:     overview.Period,
		Language:   pref.Language,
		Selection:  encodeSelection(overview.Selection),
		Months:     make([]historyMonth, 0, len(overview.Months)),
		Weeks:      make([]historyWeek, 0, len(overview.Weeks)),
		Entries:    make([]gin.H, 0, len(overview.Entries)),
		Categories: localizeBuckets(overview.Categories, pref),
		Targets:    localizeBuckets(overview.Targets, pref),
		Summary:    overview.Summary,
		Languages:  links,
	}

	for _, month := range overview.Months {
		payload.Months = append(payload.Months, historyMonth{
			Key:   month.Key(),
			Label: pref.MonthLabel(month.Year, month.Month),
			Count: len(month.Entries),
		})
	}
	for _, week := range overview.Weeks {
		payload.Weeks = append(payload.Weeks, historyWeek{
			Key:   week.Key,
			Label: pref.WeekLabel(week.Start, week.End),
			Start: week.Start.Format(dateFormat),
			End:   week.End.Format(dateFormat),
			Count: len(week.Entries),
		})
	}
	for _, entry := range overview.Entries {
		payload.Entries = append(payload.Entries, reconciledToPayload(entry))
	}
	if !overview.GeneratedAt.IsZero() {
		payload.GeneratedAt = overview.GeneratedAt.Format(time.RFC3339)
	}
	return payload
}

func localizeBuckets(buckets []workout.Bucket, pref locale.Preference) []historyBucket {
	out := make([]historyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, historyBucket{
			Label:       pref.BucketLabel(bucket.Label),
			Key:         bucket.Label,
			Count:       bucket.Count,
			Placeholder: bucket.Placeholder,
		})
	}
	return out
}
