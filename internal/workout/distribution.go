package workout

import (
	"cmp"
	"slices"
	"strings"
)

const (
	// TopTargets 目标肌群分布保留的最大桶数
	TopTargets = 8
	// OtherLabel 超出 TopTargets 的肌群合并后的桶名
	OtherLabel = "Other"
	// NoDataLabel 无数据时的占位桶名
	NoDataLabel = "No Data"
)

// Bucket 图表中的一个扇区/柱
type Bucket struct {
	Label       string `json:"label"`
	Count       int    `json:"count"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

func noData() []Bucket {
	return []Bucket{{Label: NoDataLabel, Count: 1, Placeholder: true}}
}

// CategoryDistribution 统计固定类别的次数，未知类别忽略；输入为空时返回 No Data 占位桶
func CategoryDistribution(entries []ReconciledWorkout) []Bucket {
	if len(entries) == 0 {
		return noData()
	}

	categories := Categories()
	counts := make(map[Category]int, len(categories))
	for _, entry := range entries {
		if entry.Category.Known() {
			counts[entry.Category]++
		}
	}

	buckets := make([]Bucket, 0, len(categories))
	for _, category := range categories {
		buckets = append(buckets, Bucket{Label: string(category), Count: counts[category]})
	}
	return buckets
}

// TargetDistribution 统计目标肌群次数，按次数倒序取前 TopTargets 个，其余合并为 Other
func TargetDistribution(entries []ReconciledWorkout) []Bucket {
	if len(entries) == 0 {
		return noData()
	}

	buckets := make([]Bucket, 0)
	index := make(map[string]int)
	for _, entry := range entries {
		target := strings.TrimSpace(entry.Target)
		if target == "" {
			continue
		}
		pos, exists := index[target]
		if !exists {
			buckets = append(buckets, Bucket{Label: target})
			pos = len(buckets) - 1
			index[target] = pos
		}
		buckets[pos].Count++
	}

	if len(buckets) == 0 {
		return noData()
	}
	return TopN(buckets, TopTargets, OtherLabel)
}

// TopN 稳定排序后保留前 n 个桶，剩余计数合并为 otherLabel 追加在末尾
func TopN(buckets []Bucket, n int, otherLabel string) []Bucket {
	sorted := slices.Clone(buckets)
	slices.SortStableFunc(sorted, func(a, b Bucket) int {
		return cmp.Compare(b.Count, a.Count)
	})

	if n <= 0 || len(sorted) <= n {
		return sorted
	}

	other := Bucket{Label: otherLabel}
	for _, bucket := range sorted[n:] {
		other.Count += bucket.Count
	}
	return append(sorted[:n:n], other)
}
