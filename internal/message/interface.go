package message

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/roaming"
)

// EventPublisher 向消息队列发布漫游观测事件
type EventPublisher interface {
	// PublishEvent 异步发布一个事件
	PublishEvent(event roaming.Event) error
	// Close 关闭生产者
	Close() error
}

// SaramaConsumerGroup 消费者组中用到的方法，便于测试替换
type SaramaConsumerGroup interface {
	Consume(ctx context.Context, topics []string, handler sarama.ConsumerGroupHandler) error
	Close() error
}

// StatusChange 本地充电网络上报的一次 EVSE 状态变化
type StatusChange struct {
	OperatorID string    `json:"operator_id"`
	EVSEID     string    `json:"evse_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// StatusSink 接收解析后的状态变化
type StatusSink interface {
	Record(operatorID emobility.OperatorID, record emobility.StatusRecord)
}

// StatusSinkFunc 函数形式的 StatusSink
type StatusSinkFunc func(operatorID emobility.OperatorID, record emobility.StatusRecord)

// Record 实现 StatusSink
func (f StatusSinkFunc) Record(operatorID emobility.OperatorID, record emobility.StatusRecord) {
	f(operatorID, record)
}
