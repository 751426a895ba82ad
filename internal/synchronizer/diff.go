package synchronizer

import (
	"sort"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// Snapshot 每个 EVSE 的最新状态
type Snapshot map[emobility.EVSEID]emobility.StatusRecord

// Reduce 把状态历史归并为每个 EVSE 一条记录。
// 取时间戳最大的一条；时间戳相同时输入顺序靠后的记录胜出。
func Reduce(records []emobility.StatusRecord) Snapshot {
	out := make(Snapshot, len(records))
	for _, r := range records {
		cur, ok := out[r.ID]
		if !ok || !r.Timestamp.Before(cur.Timestamp) {
			out[r.ID] = r
		}
	}
	return out
}

// ComputeDiff 计算两次快照之间的差异，输入允许包含同一 EVSE 的多条历史
func ComputeDiff(operatorID emobility.OperatorID, previous, current []emobility.StatusRecord) emobility.StatusDiff {
	return ComputeDiffMaps(operatorID, Reduce(previous), Reduce(current))
}

// ComputeDiffMaps 在已归并的快照上计算差异。
// 状态比较只看枚举值，时间戳变化不算变更。
func ComputeDiffMaps(operatorID emobility.OperatorID, previous, current Snapshot) emobility.StatusDiff {
	diff := emobility.StatusDiff{
		OperatorID:    operatorID,
		NewStatus:     make(map[emobility.EVSEID]emobility.EVSEStatus),
		ChangedStatus: make(map[emobility.EVSEID]emobility.EVSEStatus),
		RemovedIDs:    make(map[emobility.EVSEID]struct{}),
	}

	for id, cur := range current {
		prev, ok := previous[id]
		switch {
		case !ok:
			diff.NewStatus[id] = cur.Status
		case prev.Status != cur.Status:
			diff.ChangedStatus[id] = cur.Status
		}
	}
	for id := range previous {
		if _, ok := current[id]; !ok {
			diff.RemovedIDs[id] = struct{}{}
		}
	}
	return diff
}

// Batch 一次推送请求的内容
type Batch struct {
	Action  emobility.SyncAction
	Records []emobility.StatusRecord
}

// Plan 把差异转换为推送计划，顺序固定为 Insert、Update、Delete，空桶不产生批次。
// 删除桶中的记录状态强制为 OutOfService。
func Plan(diff emobility.StatusDiff, at time.Time) []Batch {
	var plan []Batch
	if len(diff.NewStatus) > 0 {
		plan = append(plan, Batch{Action: emobility.ActionInsert, Records: records(diff.NewStatus, at)})
	}
	if len(diff.ChangedStatus) > 0 {
		plan = append(plan, Batch{Action: emobility.ActionUpdate, Records: records(diff.ChangedStatus, at)})
	}
	if len(diff.RemovedIDs) > 0 {
		removed := make(map[emobility.EVSEID]emobility.EVSEStatus, len(diff.RemovedIDs))
		for id := range diff.RemovedIDs {
			removed[id] = emobility.StatusOutOfService
		}
		plan = append(plan, Batch{Action: emobility.ActionDelete, Records: records(removed, at)})
	}
	return plan
}

func records(bucket map[emobility.EVSEID]emobility.EVSEStatus, at time.Time) []emobility.StatusRecord {
	out := make([]emobility.StatusRecord, 0, len(bucket))
	for id, st := range bucket {
		out = append(out, emobility.StatusRecord{ID: id, Status: st, Timestamp: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
