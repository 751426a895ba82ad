package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
	"github.com/charging-platform/oicp-roaming/internal/storage"
	"github.com/charging-platform/oicp-roaming/internal/synchronizer"
)

// StatusSyncService 周期性地把本地状态与上次成功推送的快照比较，只推送差异
type StatusSyncService struct {
	pusher       synchronizer.Pusher
	source       StatusSource
	store        storage.SnapshotStore
	sync         *synchronizer.Synchronizer
	operatorName *string
	serialize    bool
	log          *logger.Logger

	mu    sync.Mutex
	locks map[emobility.OperatorID]*sync.Mutex
}

// StatusSyncOption 配置 StatusSyncService
type StatusSyncOption func(*statusSyncOptions)

type statusSyncOptions struct {
	operatorName string
	serialize    bool
	log          *logger.Logger
	now          func() time.Time
}

// WithSerialization 同一运营商的同步周期串行执行
func WithSerialization(enabled bool) StatusSyncOption {
	return func(o *statusSyncOptions) { o.serialize = enabled }
}

// WithOperatorName 推送时携带运营商名称
func WithOperatorName(name string) StatusSyncOption {
	return func(o *statusSyncOptions) { o.operatorName = name }
}

// WithLogger 设置日志器
func WithLogger(l *logger.Logger) StatusSyncOption {
	return func(o *statusSyncOptions) { o.log = l }
}

// WithClock 替换时钟
func WithClock(now func() time.Time) StatusSyncOption {
	return func(o *statusSyncOptions) { o.now = now }
}

// NewStatusSyncService 创建状态同步服务
func NewStatusSyncService(pusher synchronizer.Pusher, source StatusSource, store storage.SnapshotStore, opts ...StatusSyncOption) *StatusSyncService {
	o := statusSyncOptions{log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	s := &StatusSyncService{
		pusher:    pusher,
		source:    source,
		store:     store,
		serialize: o.serialize,
		log:       o.log,
		locks:     make(map[emobility.OperatorID]*sync.Mutex),
		sync: synchronizer.New(pusher,
			synchronizer.WithOperatorName(o.operatorName),
			synchronizer.WithClock(o.now),
			synchronizer.WithLogger(o.log)),
	}
	if o.operatorName != "" {
		s.operatorName = &o.operatorName
	}
	return s
}

func (s *StatusSyncService) lock(operatorID emobility.OperatorID) func() {
	if !s.serialize {
		return func() {}
	}
	s.mu.Lock()
	l, ok := s.locks[operatorID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[operatorID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// RunOnce 执行一个运营商的同步周期。
// 只有所有批次都成功时才保存新快照，失败的周期会在下次重新计算差异。
func (s *StatusSyncService) RunOnce(ctx context.Context, operatorID emobility.OperatorID) (synchronizer.Report, error) {
	unlock := s.lock(operatorID)
	defer unlock()

	previous, err := s.store.Load(ctx, operatorID)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("error").Inc()
		return synchronizer.Report{OperatorID: operatorID}, fmt.Errorf("load previous snapshot: %w", err)
	}
	current, err := s.source.Current(ctx, operatorID)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("error").Inc()
		return synchronizer.Report{OperatorID: operatorID}, fmt.Errorf("read current status: %w", err)
	}

	diff := synchronizer.ComputeDiff(operatorID, previous, current)
	if diff.IsEmpty() {
		metrics.SyncCycles.WithLabelValues("unchanged").Inc()
		return synchronizer.Report{OperatorID: operatorID}, nil
	}

	report, err := s.sync.Sync(ctx, diff)
	if err != nil {
		metrics.SyncCycles.WithLabelValues("failed").Inc()
		return report, err
	}

	if err := s.store.Save(ctx, operatorID, snapshotRecords(current)); err != nil {
		metrics.SyncCycles.WithLabelValues("error").Inc()
		return report, fmt.Errorf("save snapshot: %w", err)
	}
	metrics.SyncCycles.WithLabelValues("succeeded").Inc()
	return report, nil
}

// FullLoad 以全量方式推送运营商的当前状态，成功后用它替换快照
func (s *StatusSyncService) FullLoad(ctx context.Context, operatorID emobility.OperatorID) (*emobility.PushResult, error) {
	unlock := s.lock(operatorID)
	defer unlock()

	current, err := s.source.Current(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("read current status: %w", err)
	}
	records := snapshotRecords(current)

	res := s.pusher.PushStatus(ctx, emobility.PushStatusRequest{
		OperatorID:   operatorID,
		OperatorName: s.operatorName,
		Action:       emobility.ActionFullLoad,
		Records:      records,
	})
	if res == nil || res.Status != emobility.PushSuccess {
		status := emobility.PushError
		if res != nil {
			status = res.Status
		}
		return res, synchronizer.BatchFailedError{Action: emobility.ActionFullLoad, Status: status}
	}

	if err := s.store.Save(ctx, operatorID, records); err != nil {
		return res, fmt.Errorf("save snapshot: %w", err)
	}
	s.log.InfoEvent().
		Str("operator_id", string(operatorID)).
		Int("records", len(records)).
		Msg("status full load completed")
	return res, nil
}

// Run 按间隔对所有运营商执行同步，直到 ctx 结束
func (s *StatusSyncService) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *StatusSyncService) runAll(ctx context.Context) {
	for _, op := range s.source.Operators() {
		if ctx.Err() != nil {
			return
		}
		if _, err := s.RunOnce(ctx, op); err != nil {
			s.log.WarnEvent().
				Err(err).
				Str("operator_id", string(op)).
				Msg("status sync cycle failed")
		}
	}
}

// snapshotRecords 去重后的记录，同一 EVSE 只保留最新一条
func snapshotRecords(records []emobility.StatusRecord) []emobility.StatusRecord {
	snapshot := synchronizer.Reduce(records)
	out := make([]emobility.StatusRecord, 0, len(snapshot))
	for _, r := range snapshot {
		out = append(out, r)
	}
	return out
}
