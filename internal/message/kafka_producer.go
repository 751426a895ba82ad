package message

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/IBM/sarama"

	"github.com/charging-platform/oicp-roaming/internal/config"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
	"github.com/charging-platform/oicp-roaming/internal/roaming"
)

// ErrProducerBusy 生产者输入队列已满，事件被丢弃
var ErrProducerBusy = errors.New("producer input full")

// KafkaProducer 把漫游事件以 JSON 发布到 Kafka，关联编号作为消息键
type KafkaProducer struct {
	producer sarama.AsyncProducer
	topic    string
	log      *logger.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewKafkaProducer 创建一个新的 KafkaProducer
func NewKafkaProducer(cfg config.KafkaConfig, log *logger.Logger) (*KafkaProducer, error) {
	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.WaitForLocal
	sc.Producer.Compression = sarama.CompressionSnappy
	sc.Producer.Flush.Frequency = cfg.Producer.FlushFrequency
	sc.Producer.Retry.Max = cfg.Producer.RetryMax
	sc.Producer.Return.Successes = cfg.Producer.ReturnSuccess
	sc.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka async producer: %w", err)
	}
	return NewKafkaProducerWithProducer(producer, cfg.EventsTopic, log), nil
}

// NewKafkaProducerWithProducer 使用已有的 AsyncProducer，测试时注入 mock
func NewKafkaProducerWithProducer(producer sarama.AsyncProducer, topic string, log *logger.Logger) *KafkaProducer {
	if log == nil {
		log = logger.Nop()
	}
	p := &KafkaProducer{producer: producer, topic: topic, log: log}
	p.wg.Add(2)
	go p.handleSuccesses()
	go p.handleErrors()
	return p
}

// PublishEvent 异步发布一个事件，输入队列已满时丢弃并返回 ErrProducerBusy，不阻塞调用方
func (p *KafkaProducer) PublishEvent(event roaming.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event to JSON: %w", err)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("producer closed")
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.CorrelationID),
		Value: sarama.ByteEncoder(data),
	}
	select {
	case p.producer.Input() <- msg:
		metrics.EventsPublished.WithLabelValues(string(event.Kind)).Inc()
		return nil
	default:
		metrics.EventsDropped.WithLabelValues(string(event.Kind)).Inc()
		return ErrProducerBusy
	}
}

// Subscribe 订阅事件中心的全部事件，返回取消订阅函数
func (p *KafkaProducer) Subscribe(hub *roaming.EventHub) func() {
	return hub.OnAll(func(e roaming.Event) {
		if err := p.PublishEvent(e); err != nil {
			p.log.WarnEvent().Err(err).Str("correlation_id", e.CorrelationID).Msg("roaming event dropped")
		}
	})
}

// Close 关闭生产者并等待回执处理结束
func (p *KafkaProducer) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	p.mu.Unlock()

	err := p.producer.Close()
	p.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

func (p *KafkaProducer) handleSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		p.log.DebugEvent().
			Str("topic", msg.Topic).
			Str("key", keyString(msg.Key)).
			Msg("Kafka message sent successfully")
	}
}

func (p *KafkaProducer) handleErrors() {
	defer p.wg.Done()
	for err := range p.producer.Errors() {
		p.log.ErrorEvent().
			Err(err.Err).
			Str("topic", err.Msg.Topic).
			Str("key", keyString(err.Msg.Key)).
			Msg("Failed to send Kafka message")
	}
}

func keyString(key sarama.Encoder) string {
	if key == nil {
		return ""
	}
	b, err := key.Encode()
	if err != nil {
		return ""
	}
	return string(b)
}
