package roaming

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/mapper"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
	"github.com/charging-platform/oicp-roaming/internal/transport"
)

// Client 出站调用。所有方法都返回结果对象，预期内的失败体现在结果中而不是 error。
type Client struct {
	transport transport.Transport
	config    Config
	events    *EventHub
	log       *logger.Logger
	now       func() time.Time
	newID     func() string
}

// ClientOption 配置 Client
type ClientOption func(*Client)

// WithClock 替换时钟
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) { c.now = now }
}

// WithIDGenerator 替换关联编号生成器
func WithIDGenerator(fn func() string) ClientOption {
	return func(c *Client) { c.newID = fn }
}

// WithClientLogger 设置日志器
func WithClientLogger(l *logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// NewClient 创建出站客户端，hub 为空时新建一个
func NewClient(t transport.Transport, cfg Config, hub *EventHub, opts ...ClientOption) *Client {
	c := &Client{
		transport: t,
		config:    cfg,
		events:    hub,
		log:       logger.Nop(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.events == nil {
		c.events = NewEventHub(c.log)
	}
	return c
}

// Events 事件中心
func (c *Client) Events() *EventHub { return c.events }

// call 一次出站调用的过程：补齐元数据、编码、发送、解释、发出事件
func call[R emobility.Result](
	ctx context.Context,
	c *Client,
	meta *emobility.RequestMeta,
	op oicp.Operation,
	encode func() (codec.WireMessage, error),
	interpret func(raw []byte, err error) (R, error),
) R {
	if meta.CorrelationID == "" {
		meta.CorrelationID = c.newID()
	}
	if meta.RequestTimestamp.IsZero() {
		meta.RequestTimestamp = c.now().UTC()
	}
	timeout := meta.Timeout
	if timeout <= 0 {
		timeout = c.config.RequestTimeout
	}
	endpoint := c.config.Endpoints.Path(op.Service())
	started := time.Now()

	msg, err := encode()

	request := Event{
		Kind:          EventRequest,
		Direction:     Outbound,
		Timestamp:     meta.RequestTimestamp,
		CorrelationID: meta.CorrelationID,
		Operation:     op,
		Endpoint:      endpoint,
		PayloadSize:   msg.Size(),
	}
	if c.config.IncludePayload {
		request.Payload = msg.Payload
	}
	c.events.Emit(request)

	var raw []byte
	if err == nil {
		raw, err = c.transport.Send(ctx, endpoint, msg, timeout)
	}

	result, err := interpret(raw, err)
	runtime := time.Since(started)

	ex := result.Exchanged()
	ex.CorrelationID = meta.CorrelationID
	ex.RequestTimestamp = meta.RequestTimestamp
	ex.Runtime = runtime

	metrics.OutboundRequests.WithLabelValues(string(op), ex.Outcome.String()).Inc()
	metrics.OutboundDuration.WithLabelValues(string(op)).Observe(runtime.Seconds())

	if err != nil {
		c.events.Emit(Event{
			Kind:          EventException,
			Direction:     Outbound,
			Timestamp:     c.now().UTC(),
			CorrelationID: meta.CorrelationID,
			Operation:     op,
			Endpoint:      endpoint,
			Runtime:       runtime,
			Outcome:       ex.Outcome.String(),
			Error:         err.Error(),
		})
		c.log.WarnEvent().
			Err(err).
			Str("correlation_id", meta.CorrelationID).
			Str("operation", string(op)).
			Str("outcome", ex.Outcome.String()).
			Msg("outbound request failed")
	}

	response := Event{
		Kind:          EventResponse,
		Direction:     Outbound,
		Timestamp:     c.now().UTC(),
		CorrelationID: meta.CorrelationID,
		Operation:     op,
		Endpoint:      endpoint,
		PayloadSize:   len(raw),
		Runtime:       runtime,
		Outcome:       ex.Outcome.String(),
		Result:        result.Summary(),
	}
	if c.config.IncludePayload {
		response.Payload = raw
	}
	c.events.Emit(response)

	return result
}

// acknowledged 解码通用应答后交给映射函数
func acknowledged[R emobility.Result](m func(*oicp.Acknowledgement, error) R) func([]byte, error) (R, error) {
	return func(raw []byte, err error) (R, error) {
		var ack *oicp.Acknowledgement
		if err == nil {
			ack, err = codec.DecodeAcknowledgement(raw)
		}
		return m(ack, err), err
	}
}

// PushStationData 推送站点静态数据
func (c *Client) PushStationData(ctx context.Context, req emobility.PushStationDataRequest) *emobility.PushResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPushEvseData,
		func() (codec.WireMessage, error) {
			return codec.EncodeStationPush(req.Records, req.Action, req.OperatorID, req.OperatorName)
		},
		acknowledged(func(ack *oicp.Acknowledgement, err error) *emobility.PushResult {
			return mapper.Push(req.Action, len(req.Records), ack, err)
		}))
}

// PushStatus 推送实时状态
func (c *Client) PushStatus(ctx context.Context, req emobility.PushStatusRequest) *emobility.PushResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPushEvseStatus,
		func() (codec.WireMessage, error) {
			return codec.EncodeStatusPush(req.Records, req.Action, req.OperatorID, req.OperatorName)
		},
		acknowledged(func(ack *oicp.Acknowledgement, err error) *emobility.PushResult {
			return mapper.Push(req.Action, len(req.Records), ack, err)
		}))
}

// AuthorizeStart 启动授权
func (c *Client) AuthorizeStart(ctx context.Context, req emobility.AuthorizeStartRequest) *emobility.AuthorizationResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeStart,
		func() (codec.WireMessage, error) { return codec.EncodeAuthorizeStart(req) },
		func(raw []byte, err error) (*emobility.AuthorizationResult, error) {
			var resp *oicp.AuthorizationStart
			if err == nil {
				resp, err = codec.DecodeAuthorizationStart(raw)
			}
			return mapper.AuthorizeStart(resp, err), err
		})
}

// AuthorizeStop 停止授权
func (c *Client) AuthorizeStop(ctx context.Context, req emobility.AuthorizeStopRequest) *emobility.AuthorizationResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeStop,
		func() (codec.WireMessage, error) { return codec.EncodeAuthorizeStop(req) },
		func(raw []byte, err error) (*emobility.AuthorizationResult, error) {
			var resp *oicp.AuthorizationStop
			if err == nil {
				resp, err = codec.DecodeAuthorizationStop(raw)
			}
			return mapper.AuthorizeStop(resp, err), err
		})
}

// Reserve 预约充电点
func (c *Client) Reserve(ctx context.Context, req emobility.ReserveRequest) *emobility.ReservationResponse {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeRemoteReservationStart,
		func() (codec.WireMessage, error) { return codec.EncodeReserve(req) },
		acknowledged(mapper.Reservation))
}

// CancelReservation 取消预约
func (c *Client) CancelReservation(ctx context.Context, req emobility.CancelReservationRequest) *emobility.CancelReservationResponse {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeRemoteReservationStop,
		func() (codec.WireMessage, error) { return codec.EncodeCancelReservation(req) },
		acknowledged(mapper.CancelReservation))
}

// RemoteStart 远程启动
func (c *Client) RemoteStart(ctx context.Context, req emobility.RemoteStartRequest) *emobility.RemoteStartResponse {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeRemoteStart,
		func() (codec.WireMessage, error) { return codec.EncodeRemoteStart(req) },
		acknowledged(mapper.RemoteStart))
}

// RemoteStop 远程停止
func (c *Client) RemoteStop(ctx context.Context, req emobility.RemoteStopRequest) *emobility.RemoteStopResponse {
	return call(ctx, c, &req.RequestMeta, oicp.OperationAuthorizeRemoteStop,
		func() (codec.WireMessage, error) { return codec.EncodeRemoteStop(req) },
		acknowledged(mapper.RemoteStop))
}

// SendChargeRecord 上报充电明细
func (c *Client) SendChargeRecord(ctx context.Context, req emobility.SendChargeRecordRequest) *emobility.SendCDRResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationSendChargeDetailRecord,
		func() (codec.WireMessage, error) { return codec.EncodeSendChargeRecord(req) },
		acknowledged(mapper.SendChargeRecord))
}

// PullStatus 全量或按区域拉取状态
func (c *Client) PullStatus(ctx context.Context, req emobility.PullStatusRequest) *emobility.PullStatusResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPullEvseStatus,
		func() (codec.WireMessage, error) { return codec.EncodePullStatus(req) },
		func(raw []byte, err error) (*emobility.PullStatusResult, error) {
			var resp *oicp.EvseStatus
			if err == nil {
				resp, err = codec.DecodeEvseStatus(raw)
			}
			return mapper.PullStatus(resp, err), err
		})
}

// PullStatusByID 按编号拉取状态
func (c *Client) PullStatusByID(ctx context.Context, req emobility.PullStatusByIDRequest) *emobility.PullStatusResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPullEvseStatusByID,
		func() (codec.WireMessage, error) { return codec.EncodePullStatusByID(req) },
		func(raw []byte, err error) (*emobility.PullStatusResult, error) {
			var resp *oicp.EvseStatusByID
			if err == nil {
				resp, err = codec.DecodeEvseStatusByID(raw)
			}
			return mapper.PullStatusByID(resp, err), err
		})
}

// PullData 拉取站点数据
func (c *Client) PullData(ctx context.Context, req emobility.PullDataRequest) *emobility.PullDataResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPullEvseData,
		func() (codec.WireMessage, error) { return codec.EncodePullData(req) },
		func(raw []byte, err error) (*emobility.PullDataResult, error) {
			var resp *oicp.EvseData
			if err == nil {
				resp, err = codec.DecodeEvseData(raw)
			}
			res := mapper.PullData(resp, err)
			if err == nil && res.Outcome != emobility.OutcomeCompleted {
				err = codecFailure(res.Description)
			}
			return res, err
		})
}

// PullAuthenticationData 拉取授权白名单
func (c *Client) PullAuthenticationData(ctx context.Context, req emobility.PullAuthenticationDataRequest) *emobility.PullAuthenticationDataResult {
	return call(ctx, c, &req.RequestMeta, oicp.OperationPullAuthenticationData,
		func() (codec.WireMessage, error) { return codec.EncodePullAuthenticationData(req) },
		func(raw []byte, err error) (*emobility.PullAuthenticationDataResult, error) {
			var resp *oicp.AuthenticationData
			if err == nil {
				resp, err = codec.DecodeAuthenticationData(raw)
			}
			return mapper.PullAuthenticationData(resp, err), err
		})
}

func codecFailure(description string) error {
	return codec.MalformedResponseError{Expected: oicp.RootEvseData.Local, Message: description}
}
