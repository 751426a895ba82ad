package synchronizer

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
)

// Pusher 推送状态的出站接口，由漫游门面实现
type Pusher interface {
	PushStatus(ctx context.Context, req emobility.PushStatusRequest) *emobility.PushResult
}

// Synchronizer 把差异按计划推送给对端
type Synchronizer struct {
	pusher       Pusher
	operatorName *string
	now          func() time.Time
	log          *logger.Logger
}

// Option 配置 Synchronizer
type Option func(*Synchronizer)

// WithOperatorName 推送时携带运营商名称
func WithOperatorName(name string) Option {
	return func(s *Synchronizer) {
		if name != "" {
			s.operatorName = &name
		}
	}
}

// WithClock 替换时钟，测试使用
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// WithLogger 设置日志器
func WithLogger(l *logger.Logger) Option {
	return func(s *Synchronizer) { s.log = l }
}

// New 创建同步器
func New(pusher Pusher, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		pusher: pusher,
		now:    time.Now,
		log:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BatchResult 单个批次的推送结果
type BatchResult struct {
	Batch  Batch
	Result *emobility.PushResult
}

// Succeeded 批次是否被对端接受
func (r BatchResult) Succeeded() bool {
	return r.Result != nil && r.Result.Status == emobility.PushSuccess
}

// Report 一次同步的汇总
type Report struct {
	OperatorID emobility.OperatorID
	Results    []BatchResult
}

// Requests 发出的请求数
func (r Report) Requests() int { return len(r.Results) }

// Succeeded 所有批次都成功，空同步也视为成功
func (r Report) Succeeded() bool {
	for _, res := range r.Results {
		if !res.Succeeded() {
			return false
		}
	}
	return true
}

// BatchFailedError 某个批次没有被对端接受
type BatchFailedError struct {
	Action emobility.SyncAction
	Status emobility.PushStatus
}

func (e BatchFailedError) Error() string {
	return fmt.Sprintf("%s batch failed: %s", e.Action, e.Status)
}

// Sync 并发推送差异中的各个非空桶。
// 返回的 Report 包含所有批次的结果；error 为第一个失败的批次。
func (s *Synchronizer) Sync(ctx context.Context, diff emobility.StatusDiff) (Report, error) {
	report := Report{OperatorID: diff.OperatorID}
	plan := Plan(diff, s.now().UTC())
	if len(plan) == 0 {
		s.log.Debugf("operator %s: no status changes", diff.OperatorID)
		return report, nil
	}

	report.Results = make([]BatchResult, len(plan))
	var g errgroup.Group
	for i, batch := range plan {
		i, batch := i, batch
		metrics.SyncRecords.WithLabelValues(batch.Action.String()).Add(float64(len(batch.Records)))

		g.Go(func() error {
			res := s.pusher.PushStatus(ctx, emobility.PushStatusRequest{
				OperatorID:   diff.OperatorID,
				OperatorName: s.operatorName,
				Action:       batch.Action,
				Records:      batch.Records,
			})
			report.Results[i] = BatchResult{Batch: batch, Result: res}
			if res == nil || res.Status != emobility.PushSuccess {
				status := emobility.PushError
				if res != nil {
					status = res.Status
				}
				return BatchFailedError{Action: batch.Action, Status: status}
			}
			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		s.log.WarnEvent().
			Err(err).
			Str("operator_id", string(diff.OperatorID)).
			Int("batches", len(plan)).
			Msg("status synchronization incomplete")
		return report, err
	}

	s.log.InfoEvent().
		Str("operator_id", string(diff.OperatorID)).
		Int("inserted", len(diff.NewStatus)).
		Int("updated", len(diff.ChangedStatus)).
		Int("deleted", len(diff.RemovedIDs)).
		Msg("status synchronization completed")
	return report, nil
}
