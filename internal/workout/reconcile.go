package workout

import "strings"

// Reconciliation 是一次合并的结果，每次调用都会重新构建，不在原数据上修改状态
type Reconciliation struct {
	// Records 所有计划训练（已解析完成状态），末尾追加找不到原始训练的完成记录
	Records []ReconciledWorkout
	// Completed 去重后的已完成列表：先按完成记录出现顺序，再补充仅带 completed 标记的训练
	Completed []ReconciledWorkout
	// Pending 尚未完成的计划训练
	Pending []ReconciledWorkout
	// Orphaned 原训练不在当前数据集中的完成记录
	Orphaned []ReconciledWorkout

	completed map[string]struct{}
}

// IsCompleted 判断指定训练是否已完成，既识别训练 ID 也识别完成记录引用的 ID
func (r Reconciliation) IsCompleted(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, ok := r.completed[id]
	return ok
}

// Reconcile 合并计划训练与完成记录。
// 完成记录的 workoutId 或自身 ID 等于训练 ID 即视为匹配，多条匹配时以最近产生的一条为准；
// 缺少标识的记录会被跳过。
func Reconcile(planned []WorkoutRecord, completions []CompletionRecord) Reconciliation {
	entries := collectCompletions(completions)
	workouts := dedupePlanned(planned)

	loaded := make(map[string]struct{}, len(workouts))
	for _, p := range workouts {
		loaded[p.ID] = struct{}{}
	}

	// owners[i] 是第 i 条完成记录归属的单元：匹配到的训练 ID，匹配不到时为孤立记录的引用键
	owners := make([][]string, len(entries))
	winners := make(map[string]int, len(entries))
	for i, e := range entries {
		for _, ref := range e.refs() {
			if _, ok := loaded[ref]; ok {
				owners[i] = append(owners[i], ref)
			}
		}
		if len(owners[i]) == 0 {
			// 引用键不会与已加载训练冲突，否则上面已经匹配
			owners[i] = []string{e.key}
		}
		for _, unit := range owners[i] {
			if cur, ok := winners[unit]; !ok || producedAfter(e.raw, e.pos, entries[cur].raw, entries[cur].pos) {
				winners[unit] = i
			}
		}
	}

	result := Reconciliation{
		Records:   make([]ReconciledWorkout, 0, len(workouts)+len(winners)),
		Completed: make([]ReconciledWorkout, 0, len(winners)),
		Pending:   make([]ReconciledWorkout, 0, len(workouts)),
		completed: make(map[string]struct{}),
	}

	recordPos := make(map[string]int, len(workouts))
	for _, p := range workouts {
		record := fromPlanned(p)
		if i, ok := winners[p.ID]; ok {
			record = mergeCompletion(record, Normalize(entries[i].raw))
		}
		if record.Completed {
			result.completed[record.ID] = struct{}{}
		} else {
			result.Pending = append(result.Pending, record)
		}
		recordPos[record.ID] = len(result.Records)
		result.Records = append(result.Records, record)
	}

	seen := make(map[string]struct{})
	orphans := make([]ReconciledWorkout, 0)

	for i, e := range entries {
		for _, ref := range e.refs() {
			result.completed[ref] = struct{}{}
		}
		for _, unit := range owners[i] {
			if _, dup := seen[unit]; dup {
				continue
			}
			seen[unit] = struct{}{}

			var record ReconciledWorkout
			if pos, ok := recordPos[unit]; ok {
				record = result.Records[pos]
			} else {
				record = fromOrphan(unit, Normalize(entries[winners[unit]].raw))
				orphans = append(orphans, record)
			}
			result.completed[record.ID] = struct{}{}
			result.Completed = append(result.Completed, record)
		}
	}

	for _, record := range result.Records {
		if !record.Completed {
			continue
		}
		if _, dup := seen[record.ID]; dup {
			continue
		}
		seen[record.ID] = struct{}{}
		result.Completed = append(result.Completed, record)
	}

	result.Orphaned = orphans
	result.Records = append(result.Records, orphans...)
	return result
}

type completionEntry struct {
	raw CompletionRecord
	key string
	pos int
}

// refs 返回 workoutId 与自身 ID，去空去重
func (e completionEntry) refs() []string {
	refs := make([]string, 0, 2)
	if e.raw.WorkoutID != "" {
		refs = append(refs, e.raw.WorkoutID)
	}
	if e.raw.ID != "" && e.raw.ID != e.raw.WorkoutID {
		refs = append(refs, e.raw.ID)
	}
	return refs
}

func collectCompletions(completions []CompletionRecord) []completionEntry {
	entries := make([]completionEntry, 0, len(completions))
	for pos, raw := range completions {
		raw.ID = strings.TrimSpace(raw.ID)
		raw.WorkoutID = strings.TrimSpace(raw.WorkoutID)

		key := referenceKey(raw)
		if key == "" {
			continue
		}
		entries = append(entries, completionEntry{raw: raw, key: key, pos: pos})
	}
	return entries
}

func referenceKey(record CompletionRecord) string {
	if record.WorkoutID != "" {
		return record.WorkoutID
	}
	return record.ID
}

// producedAfter 带完成时间的记录优先于无时间记录；时间相同或均缺失时以靠后的位置为准
func producedAfter(candidate CompletionRecord, candidatePos int, current CompletionRecord, currentPos int) bool {
	switch {
	case candidate.CompletedDate == nil && current.CompletedDate == nil:
		return candidatePos > currentPos
	case candidate.CompletedDate == nil:
		return false
	case current.CompletedDate == nil:
		return true
	case candidate.CompletedDate.Equal(*current.CompletedDate):
		return candidatePos > currentPos
	default:
		return candidate.CompletedDate.After(*current.CompletedDate)
	}
}

func dedupePlanned(planned []WorkoutRecord) []WorkoutRecord {
	out := make([]WorkoutRecord, 0, len(planned))
	positions := make(map[string]int, len(planned))
	for _, p := range planned {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			continue
		}
		if pos, exists := positions[p.ID]; exists {
			out[pos] = p
			continue
		}
		positions[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func fromPlanned(p WorkoutRecord) ReconciledWorkout {
	record := ReconciledWorkout{
		ID:           p.ID,
		Category:     p.Category,
		Target:       p.Target,
		ExerciseName: p.ExerciseName,
		Sets:         p.Sets,
		Reps:         p.Reps,
		Weight:       p.Weight,
		Description:  p.Description,
		Completed:    p.Completed,
		Date:         p.CreatedDate,
	}
	if p.CompletedDate != nil {
		record.CompletedDate = TimePtr(*p.CompletedDate)
	}
	if record.Category == CategoryBodyweight {
		record.Weight = 0
	}
	return record
}

func mergeCompletion(record ReconciledWorkout, completion NormalizedCompletion) ReconciledWorkout {
	if completion.Sets != nil {
		record.Sets = *completion.Sets
	}
	if completion.Reps != nil {
		record.Reps = *completion.Reps
	}
	if completion.Weight != nil {
		record.Weight = *completion.Weight
	}
	if record.Category == CategoryBodyweight {
		record.Weight = 0
	}
	if completion.Record.CompletedDate != nil {
		record.CompletedDate = TimePtr(*completion.Record.CompletedDate)
	}
	record.CompletionID = completion.Record.ID
	record.Completed = true
	return record
}

func fromOrphan(key string, completion NormalizedCompletion) ReconciledWorkout {
	raw := completion.Record
	record := ReconciledWorkout{
		ID:           key,
		Category:     raw.Category,
		Target:       raw.Target,
		ExerciseName: raw.ExerciseName,
		Description:  raw.Description,
	}
	if raw.Date != nil {
		record.Date = *raw.Date
	}
	return mergeCompletion(record, completion)
}
