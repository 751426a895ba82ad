package storage

import (
	"context"
	"sort"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// SnapshotStore 保存每个运营商上一次成功推送的状态快照。
// 同步核心本身不持有状态，快照由调用方通过此接口管理。
type SnapshotStore interface {
	// Load 读取运营商的快照，不存在时返回空切片和 nil
	Load(ctx context.Context, operatorID emobility.OperatorID) ([]emobility.StatusRecord, error)

	// Save 用 records 整体替换运营商的快照
	Save(ctx context.Context, operatorID emobility.OperatorID, records []emobility.StatusRecord) error

	// Close 关闭与存储后端的连接
	Close() error
}

func sortByID(records []emobility.StatusRecord) {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
}
