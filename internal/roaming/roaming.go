package roaming

import (
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/transport"
)

// Roaming 双向漫游门面：出站客户端和入站命令服务共享同一个事件中心
type Roaming struct {
	*Client
	*Server

	events *EventHub
}

// New 创建门面
func New(t transport.Transport, cfg Config, log *logger.Logger, opts ...ClientOption) *Roaming {
	if log == nil {
		log = logger.Nop()
	}
	hub := NewEventHub(log.WithComponent("events"))
	opts = append([]ClientOption{WithClientLogger(log.WithComponent("outbound"))}, opts...)
	return &Roaming{
		Client: NewClient(t, cfg, hub, opts...),
		Server: NewServer(cfg, hub, log.WithComponent("inbound")),
		events: hub,
	}
}

// Events 共享的事件中心
func (r *Roaming) Events() *EventHub { return r.events }
