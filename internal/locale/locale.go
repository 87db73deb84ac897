// Package locale 决定训练历史的展示语言，并生成月份、周与图表分组的本地化标签。
// 默认中文。
package locale

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// 按这些地区的访问默认展示中文
var chineseRegions = map[string]struct{}{
	"CN": {},
	"TW": {},
	"HK": {},
	"MO": {},
}

// 图表中的固定分组名，肌群等自由文本不在此列
var bucketLabelsZh = map[string]string{
	"Other":      "其他",
	"No Data":    "暂无数据",
	"Dumbbell":   "哑铃",
	"Machine":    "器械",
	"Barbell":    "杠铃",
	"Bodyweight": "自重",
}

// Preference 一次请求最终使用的语言设置
type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

func PreferenceForLanguage(language string) Preference {
	if NormalizeLanguage(language) == LanguageEnglish {
		return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
	}
	return Preference{Language: LanguageChinese, Locale: "zh_CN", HTMLLang: "zh-CN"}
}

// Pick 按偏好语言取文本，缺失时回退到另一种语言
func (p Preference) Pick(english, chinese string) string {
	if p.Language == LanguageEnglish && english != "" {
		return english
	}
	if chinese != "" {
		return chinese
	}
	return english
}

// MonthLabel 如 "April 2025" / "2025年4月"
func (p Preference) MonthLabel(year int, month time.Month) string {
	return p.Pick(
		fmt.Sprintf("%s %d", month, year),
		fmt.Sprintf("%d年%d月", year, int(month)))
}

// WeekLabel 如 "Mar 30 - Apr 5" / "3月30日 - 4月5日"
func (p Preference) WeekLabel(start, end time.Time) string {
	return p.Pick(
		fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2")),
		fmt.Sprintf("%d月%d日 - %d月%d日", int(start.Month()), start.Day(), int(end.Month()), end.Day()))
}

func (p Preference) BucketLabel(label string) string {
	if zh, ok := bucketLabelsZh[label]; ok {
		return p.Pick(label, zh)
	}
	return label
}

// SupportedLanguages 返回可切换的语言，顺序即展示顺序
func SupportedLanguages() []string {
	return []string{LanguageChinese, LanguageEnglish}
}

// NormalizeLanguage 将 zh-CN / en_US 等写法归一为 zh / en，无法识别时返回空
func NormalizeLanguage(raw string) string {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "cn" {
		return LanguageChinese
	}
	primary, _, _ := strings.Cut(strings.ReplaceAll(tag, "_", "-"), "-")
	switch primary {
	case LanguageChinese:
		return LanguageChinese
	case LanguageEnglish:
		return LanguageEnglish
	}
	return ""
}

func LanguageFromCountryCode(code string) string {
	region := strings.ToUpper(strings.TrimSpace(code))
	if region == "" {
		return ""
	}
	if _, ok := chineseRegions[region]; ok {
		return LanguageChinese
	}
	return LanguageEnglish
}

// LanguageFromAcceptLanguage 按 q 权重取第一个支持的语言，权重相同时保留出现顺序
func LanguageFromAcceptLanguage(header string) string {
	type weighted struct {
		language string
		q        float64
	}

	candidates := make([]weighted, 0, 4)
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(part, ";")
		language := NormalizeLanguage(tag)
		if language == "" {
			continue
		}
		q := 1.0
		if value, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				continue
			}
			q = parsed
		}
		if q > 0 {
			candidates = append(candidates, weighted{language: language, q: q})
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	slices.SortStableFunc(candidates, func(a, b weighted) int {
		return cmp.Compare(b.q, a.q)
	})
	return candidates[0].language
}

// MonthLabel 等包级函数供只持有语言代码的调用方使用
func MonthLabel(language string, year int, month time.Month) string {
	return PreferenceForLanguage(language).MonthLabel(year, month)
}

func WeekLabel(language string, start, end time.Time) string {
	return PreferenceForLanguage(language).WeekLabel(start, end)
}

func BucketLabel(language, label string) string {
	return PreferenceForLanguage(language).BucketLabel(label)
}

func Pick(language, english, chinese string) string {
	return PreferenceForLanguage(language).Pick(english, chinese)
}
