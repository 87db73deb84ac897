package workout

import "strings"

// Field 标识校验结果中出错的字段
type Field string

const (
	FieldSets         Field = "sets"
	FieldReps         Field = "reps"
	FieldWeight       Field = "weight"
	FieldCategory     Field = "category"
	FieldTarget       Field = "target"
	FieldExerciseName Field = "exerciseName"
)

// NumericFields 返回可合并、可逐项校验的数值字段
func NumericFields() []Field {
	return []Field{FieldSets, FieldReps, FieldWeight}
}

// ParseField 解析数值字段名，未知字段返回 false
func ParseField(raw string) (Field, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, field := range NumericFields() {
		if string(field) == raw {
			return field, true
		}
	}
	return "", false
}

type aliasLookup func(CompletionRecord) *int

// fieldAliases 每个字段的别名按优先级排列，靠前者优先
var fieldAliases = map[Field][]aliasLookup{
	FieldSets: {
		func(r CompletionRecord) *int { return r.SetsCompleted },
		func(r CompletionRecord) *int { return r.Sets },
	},
	FieldReps: {
		func(r CompletionRecord) *int { return r.RepsCompleted },
		func(r CompletionRecord) *int { return r.Reps },
	},
	FieldWeight: {
		func(r CompletionRecord) *int { return r.WeightLifted },
		func(r CompletionRecord) *int { return r.Weight },
	},
}

// NormalizedCompletion 规整后的完成记录，只暴露 sets/reps/weight 三个字段
type NormalizedCompletion struct {
	Record CompletionRecord
	Sets   *int
	Reps   *int
	Weight *int
}

// Value 按字段返回规整后的值，nil 表示需要回退到原始训练
func (n NormalizedCompletion) Value(field Field) *int {
	switch field {
	case FieldSets:
		return n.Sets
	case FieldReps:
		return n.Reps
	case FieldWeight:
		return n.Weight
	}
	return nil
}

// Normalize 将别名字段折叠成统一字段，缺失时保持 nil，不返回错误
func Normalize(record CompletionRecord) NormalizedCompletion {
	return NormalizedCompletion{
		Record: record,
		Sets:   resolveAlias(record, FieldSets),
		Reps:   resolveAlias(record, FieldReps),
		Weight: resolveAlias(record, FieldWeight),
	}
}

func resolveAlias(record CompletionRecord, field Field) *int {
	for _, lookup := range fieldAliases[field] {
		if value := lookup(record); value != nil {
			v := *value
			return &v
		}
	}
	return nil
}
