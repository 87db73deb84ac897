package workout

import (
	"fmt"
	"strconv"
	"strings"
)

// Bounds 描述某一类别允许的最大组数、次数与重量
type Bounds struct {
	MaxSets   int
	MaxReps   int
	MaxWeight int
	// WeightApplies 为 false 时重量被忽略并强制为 0
	WeightApplies bool
}

var categoryBounds = map[Category]Bounds{
	CategoryDumbbell:   {MaxSets: 8, MaxReps: 50, MaxWeight: 120, WeightApplies: true},
	CategoryBarbell:    {MaxSets: 12, MaxReps: 50, MaxWeight: 600, WeightApplies: true},
	CategoryMachine:    {MaxSets: 12, MaxReps: 50, MaxWeight: 400, WeightApplies: true},
	CategoryBodyweight: {MaxSets: 12, MaxReps: 100},
}

// BoundsFor 返回类别对应的上限
func BoundsFor(category Category) (Bounds, bool) {
	b, ok := categoryBounds[category]
	return b, ok
}

func (b Bounds) max(field Field) int {
	switch field {
	case FieldSets:
		return b.MaxSets
	case FieldReps:
		return b.MaxReps
	case FieldWeight:
		return b.MaxWeight
	}
	return 0
}

func (b Bounds) min(field Field) int {
	if field == FieldWeight {
		return 0
	}
	return 1
}

// Result 为校验结果，失败时 Field 与 Message 给出出错字段和原因
type Result struct {
	Valid   bool   `json:"valid"`
	Field   Field  `json:"field,omitempty"`
	Message string `json:"message,omitempty"`
}

func passed() Result {
	return Result{Valid: true}
}

func fail(field Field, format string, args ...any) Result {
	return Result{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Validator 按类别上限与动作目录校验训练记录
type Validator struct {
	catalog Catalog
}

// NewValidator 构造 Validator；catalog 为 nil 时跳过动作目录校验
func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate 校验整条记录，任一规则失败即整体拒绝，返回第一处错误
func (v *Validator) Validate(record WorkoutRecord) Result {
	bounds, known := BoundsFor(record.Category)
	if !known {
		return fail(FieldCategory, "category %q is not supported", record.Category)
	}

	if strings.TrimSpace(record.Target) == "" {
		return fail(FieldTarget, "target is required")
	}

	if strings.TrimSpace(record.ExerciseName) == "" {
		return fail(FieldExerciseName, "exercise name is required")
	}
	if v != nil && v.catalog != nil && !Contains(v.catalog, record.Category, record.Target, record.ExerciseName) {
		return fail(FieldExerciseName, "%s is not a %s exercise for %s", record.ExerciseName, record.Category, record.Target)
	}

	values := map[Field]int{
		FieldSets:   record.Sets,
		FieldReps:   record.Reps,
		FieldWeight: record.Weight,
	}
	for _, field := range NumericFields() {
		if res := checkValue(values[field], record.Category, bounds, field); !res.Valid {
			return res
		}
	}

	return passed()
}

// IsValid 是 Validate 的布尔形式
func (v *Validator) IsValid(record WorkoutRecord) bool {
	return v.Validate(record).Valid
}

// ValidateField 用于表单实时反馈：输入为原始字符串
func (v *Validator) ValidateField(value string, category Category, field Field) Result {
	bounds, known := BoundsFor(category)
	if !known {
		return fail(FieldCategory, "category %q is not supported", category)
	}
	parsedField, numeric := ParseField(string(field))
	if !numeric {
		return fail(field, "field %q cannot be validated", field)
	}
	field = parsedField
	if field == FieldWeight && !bounds.WeightApplies {
		return passed()
	}

	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fail(field, "%s is required", field)
	}

	limit := bounds.max(field)
	if isDigits(trimmed) && len(strings.TrimLeft(trimmed, "0")) > len(strconv.Itoa(limit)) {
		return fail(field, "%s cannot exceed %d for %s", field, limit, category)
	}

	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return fail(field, "%s must be a whole number", field)
	}

	return checkValue(parsed, category, bounds, field)
}

// ApplyCategoryRules 返回应用类别规则后的副本：自重训练重量强制为 0
func ApplyCategoryRules(record WorkoutRecord) WorkoutRecord {
	if bounds, ok := BoundsFor(record.Category); ok && !bounds.WeightApplies {
		record.Weight = 0
	}
	return record
}

func checkValue(value int, category Category, bounds Bounds, field Field) Result {
	if field == FieldWeight && !bounds.WeightApplies {
		return passed()
	}

	lo, hi := bounds.min(field), bounds.max(field)
	if value < lo || value > hi {
		return fail(field, "%s must be between %d and %d for %s", field, lo, hi, category)
	}
	return passed()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
