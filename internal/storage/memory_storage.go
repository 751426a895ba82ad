package storage

import (
	"context"
	"sync"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// MemorySnapshotStore 进程内快照存储，适合单实例部署和测试
type MemorySnapshotStore struct {
	data map[emobility.OperatorID][]emobility.StatusRecord
	mu   sync.RWMutex
}

// NewMemorySnapshotStore 创建一个空的内存快照存储
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{
		data: make(map[emobility.OperatorID][]emobility.StatusRecord),
	}
}

// Load 返回快照副本
func (s *MemorySnapshotStore) Load(_ context.Context, operatorID emobility.OperatorID) ([]emobility.StatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]emobility.StatusRecord(nil), s.data[operatorID]...), nil
}

// Save 保存快照副本
func (s *MemorySnapshotStore) Save(_ context.Context, operatorID emobility.OperatorID, records []emobility.StatusRecord) error {
	snapshot := append([]emobility.StatusRecord(nil), records...)
	sortByID(snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[operatorID] = snapshot
	return nil
}

// Close 内存存储无需释放资源
func (s *MemorySnapshotStore) Close() error { return nil }
