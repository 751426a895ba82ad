package service

import (
	"context"
	"sort"
	"sync"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// StatusBuffer 按运营商缓存每个 EVSE 最新的状态，同一 EVSE 时间戳更早的记录被忽略
type StatusBuffer struct {
	mu   sync.RWMutex
	data map[emobility.OperatorID]map[emobility.EVSEID]emobility.StatusRecord
}

// NewStatusBuffer 创建空缓冲区
func NewStatusBuffer() *StatusBuffer {
	return &StatusBuffer{data: make(map[emobility.OperatorID]map[emobility.EVSEID]emobility.StatusRecord)}
}

// Record 记录一次状态变化
func (b *StatusBuffer) Record(operatorID emobility.OperatorID, record emobility.StatusRecord) {
	b.mu.Lock()
	defer b.mu.Unlock()

	evses, ok := b.data[operatorID]
	if !ok {
		evses = make(map[emobility.EVSEID]emobility.StatusRecord)
		b.data[operatorID] = evses
	}
	if cur, ok := evses[record.ID]; ok && record.Timestamp.Before(cur.Timestamp) {
		return
	}
	evses[record.ID] = record
}

// Remove 删除一个 EVSE，下次同步时作为删除推送
func (b *StatusBuffer) Remove(operatorID emobility.OperatorID, id emobility.EVSEID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data[operatorID], id)
}

// Lookup 查询单个 EVSE 的最新状态
func (b *StatusBuffer) Lookup(operatorID emobility.OperatorID, id emobility.EVSEID) (emobility.StatusRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.data[operatorID][id]
	return r, ok
}

// Find 在所有运营商中查询 EVSE
func (b *StatusBuffer) Find(id emobility.EVSEID) (emobility.OperatorID, emobility.StatusRecord, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for op, evses := range b.data {
		if r, ok := evses[id]; ok {
			return op, r, true
		}
	}
	return "", emobility.StatusRecord{}, false
}

// Operators 实现 StatusSource
func (b *StatusBuffer) Operators() []emobility.OperatorID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ops := make([]emobility.OperatorID, 0, len(b.data))
	for op := range b.data {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Current 实现 StatusSource，按 EVSE 编号排序
func (b *StatusBuffer) Current(_ context.Context, operatorID emobility.OperatorID) ([]emobility.StatusRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	evses := b.data[operatorID]
	records := make([]emobility.StatusRecord, 0, len(evses))
	for _, r := range evses {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}
