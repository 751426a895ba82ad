package message

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"github.com/charging-platform/oicp-roaming/internal/config"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
)

// KafkaConsumer 从 Kafka 消费本地 EVSE 状态变化
type KafkaConsumer struct {
	consumerGroup SaramaConsumerGroup
	topic         string
	logger        *logger.Logger
	sink          StatusSink
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewKafkaConsumer 初始化 KafkaConsumer
func NewKafkaConsumer(cfg config.KafkaConfig, log *logger.Logger) (*KafkaConsumer, error) {
	sc := sarama.NewConfig()
	sc.Consumer.Return.Errors = cfg.Consumer.ReturnErrors
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cfg.Consumer.OffsetsInitial == "oldest" {
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	}
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRange()}
	sc.Consumer.Group.Session.Timeout = 10 * time.Second
	sc.Consumer.Group.Heartbeat.Interval = 3 * time.Second

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama consumer group: %w", err)
	}

	if cfg.Consumer.ReturnErrors {
		go func() {
			for err := range group.Errors() {
				log.Errorf("Sarama consumer group error: %v", err)
			}
		}()
	}

	return NewKafkaConsumerWithGroup(group, cfg.StatusTopic, log), nil
}

// NewKafkaConsumerWithGroup 注入消费者组，测试使用
func NewKafkaConsumerWithGroup(group SaramaConsumerGroup, topic string, log *logger.Logger) *KafkaConsumer {
	if log == nil {
		log = logger.Nop()
	}
	return &KafkaConsumer{
		consumerGroup: group,
		topic:         topic,
		logger:        log,
	}
}

// Start 启动消费循环，状态变化交给 sink
func (c *KafkaConsumer) Start(sink StatusSink) error {
	if sink == nil {
		return fmt.Errorf("status sink is required")
	}
	c.sink = sink

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		for {
			if err := c.consumerGroup.Consume(ctx, []string{c.topic}, c); err != nil {
				c.logger.Errorf("Error from Kafka consumer group: %v", err)
			}
			if ctx.Err() != nil {
				c.logger.Info("Kafka consumer context cancelled, stopping consumption")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}()
	return nil
}

// Close 关闭消费者
func (c *KafkaConsumer) Close() error {
	if c.cancel != nil {
		c.cancel()
		<-c.done
	}
	if c.consumerGroup != nil {
		return c.consumerGroup.Close()
	}
	return nil
}

// Setup 实现 sarama.ConsumerGroupHandler
func (c *KafkaConsumer) Setup(sarama.ConsumerGroupSession) error {
	c.logger.Debug("Kafka consumer group setup completed")
	return nil
}

// Cleanup 实现 sarama.ConsumerGroupHandler
func (c *KafkaConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	c.logger.Debug("Kafka consumer group cleanup completed")
	return nil
}

// ConsumeClaim 解析每条状态变化，无法解析的消息记录日志后跳过，但仍然提交位移
func (c *KafkaConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		if operatorID, record, err := decodeStatusChange(msg.Value); err != nil {
			c.logger.WarnEvent().
				Err(err).
				Str("topic", msg.Topic).
				Int32("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("skipping invalid status change")
		} else {
			c.sink.Record(operatorID, record)
			metrics.StatusChangesConsumed.Inc()
		}
		session.MarkMessage(msg, "")
	}
	return nil
}

func decodeStatusChange(value []byte) (emobility.OperatorID, emobility.StatusRecord, error) {
	var change StatusChange
	if err := json.Unmarshal(value, &change); err != nil {
		return "", emobility.StatusRecord{}, fmt.Errorf("unmarshal status change: %w", err)
	}
	if change.OperatorID == "" || change.EVSEID == "" {
		return "", emobility.StatusRecord{}, fmt.Errorf("status change without operator or EVSE id")
	}
	status, err := emobility.ParseEVSEStatus(change.Status)
	if err != nil {
		return "", emobility.StatusRecord{}, err
	}
	ts := change.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return emobility.OperatorID(change.OperatorID), emobility.StatusRecord{
		ID:        emobility.EVSEID(change.EVSEID),
		Status:    status,
		Timestamp: ts.UTC(),
	}, nil
}
