package roaming

import (
	"fmt"
	"sync"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
)

// EventKind 观测事件类型
type EventKind string

const (
	EventRequest   EventKind = "request"
	EventResponse  EventKind = "response"
	EventException EventKind = "exception"
)

// Direction 消息方向
type Direction string

const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
)

// Event 一次请求/响应/异常的观测记录。默认不携带负载原文。
type Event struct {
	Kind          EventKind      `json:"kind"`
	Direction     Direction      `json:"direction"`
	Timestamp     time.Time      `json:"timestamp"`
	CorrelationID string         `json:"correlation_id"`
	Operation     oicp.Operation `json:"operation"`
	Endpoint      string         `json:"endpoint,omitempty"`
	PayloadSize   int            `json:"payload_size"`
	Runtime       time.Duration  `json:"runtime,omitempty"`
	Outcome       string         `json:"outcome,omitempty"`
	Result        string         `json:"result,omitempty"`
	Error         string         `json:"error,omitempty"`
	Payload       []byte         `json:"payload,omitempty"`
}

// EventHandler 事件订阅回调
type EventHandler func(Event)

type subscription struct {
	id uint64
	fn EventHandler
}

// EventHub 三个相互独立的订阅点，回调按注册顺序调用，单个回调 panic 不影响其他回调和调用方
type EventHub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[EventKind][]subscription
	log    *logger.Logger
}

// NewEventHub 创建事件中心
func NewEventHub(log *logger.Logger) *EventHub {
	if log == nil {
		log = logger.Nop()
	}
	return &EventHub{
		subs: make(map[EventKind][]subscription),
		log:  log,
	}
}

// OnRequest 订阅请求事件，返回取消订阅函数
func (h *EventHub) OnRequest(fn EventHandler) func() { return h.subscribe(EventRequest, fn) }

// OnResponse 订阅响应事件
func (h *EventHub) OnResponse(fn EventHandler) func() { return h.subscribe(EventResponse, fn) }

// OnException 订阅异常事件
func (h *EventHub) OnException(fn EventHandler) func() { return h.subscribe(EventException, fn) }

// OnAll 同时订阅三类事件
func (h *EventHub) OnAll(fn EventHandler) func() {
	unsubs := []func(){h.OnRequest(fn), h.OnResponse(fn), h.OnException(fn)}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (h *EventHub) subscribe(kind EventKind, fn EventHandler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	h.subs[kind] = append(h.subs[kind], subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { h.unsubscribe(kind, id) })
	}
}

func (h *EventHub) unsubscribe(kind EventKind, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.subs[kind]
	for i, s := range subs {
		if s.id == id {
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			h.subs[kind] = append(next, subs[i+1:]...)
			return
		}
	}
}

// Emit 分发事件，锁只在复制订阅列表时持有
func (h *EventHub) Emit(e Event) {
	h.mu.RLock()
	subs := h.subs[e.Kind]
	h.mu.RUnlock()

	for _, s := range subs {
		h.invoke(s.fn, e)
	}
}

func (h *EventHub) invoke(fn EventHandler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserverPanics.WithLabelValues(string(e.Kind)).Inc()
			h.log.ErrorEvent().
				Str("hook", string(e.Kind)).
				Str("correlation_id", e.CorrelationID).
				Str("panic", fmt.Sprint(r)).
				Msg("event handler panicked")
		}
	}()
	fn(e)
}
