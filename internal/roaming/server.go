package roaming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/mapper"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
)

const maxRequestSize = 4 << 20

// ReservationHandler 处理远程预约，返回零值表示没有结果
type ReservationHandler func(ctx context.Context, cmd emobility.ReservationCommand) (emobility.ReservationResult, error)

// CancelReservationHandler 处理取消预约
type CancelReservationHandler func(ctx context.Context, cmd emobility.SessionCommand) (emobility.CancelReservationResult, error)

// RemoteStartHandler 处理远程启动
type RemoteStartHandler func(ctx context.Context, cmd emobility.ReservationCommand) (emobility.RemoteStartResult, error)

// RemoteStopHandler 处理远程停止
type RemoteStopHandler func(ctx context.Context, cmd emobility.SessionCommand) (emobility.RemoteStopResult, error)

// CommandHandler 本地领域层对四类对端命令的实现
type CommandHandler interface {
	Reserve(ctx context.Context, cmd emobility.ReservationCommand) (emobility.ReservationResult, error)
	CancelReservation(ctx context.Context, cmd emobility.SessionCommand) (emobility.CancelReservationResult, error)
	RemoteStart(ctx context.Context, cmd emobility.ReservationCommand) (emobility.RemoteStartResult, error)
	RemoteStop(ctx context.Context, cmd emobility.SessionCommand) (emobility.RemoteStopResult, error)
}

// Reply 入站命令的应答
type Reply struct {
	Message         codec.WireMessage
	HTTPStatus      int
	Acknowledgement *oicp.Acknowledgement
}

// Server 入站命令通道
type Server struct {
	config Config
	events *EventHub
	log    *logger.Logger
	newID  func() string

	mu                sync.RWMutex
	reservation       ReservationHandler
	cancelReservation CancelReservationHandler
	remoteStart       RemoteStartHandler
	remoteStop        RemoteStopHandler
}

// NewServer 创建入站服务，hub 为空时新建一个
func NewServer(cfg Config, hub *EventHub, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if hub == nil {
		hub = NewEventHub(log)
	}
	return &Server{config: cfg, events: hub, log: log, newID: uuid.NewString}
}

// Events 事件中心
func (s *Server) Events() *EventHub { return s.events }

// OnRemoteReservationStart 注册远程预约处理器
func (s *Server) OnRemoteReservationStart(h ReservationHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservation = h
}

// OnRemoteReservationStop 注册取消预约处理器
func (s *Server) OnRemoteReservationStop(h CancelReservationHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelReservation = h
}

// OnRemoteStart 注册远程启动处理器
func (s *Server) OnRemoteStart(h RemoteStartHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteStart = h
}

// OnRemoteStop 注册远程停止处理器
func (s *Server) OnRemoteStop(h RemoteStopHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remoteStop = h
}

// RegisterCommandHandler 一次注册四个处理器
func (s *Server) RegisterCommandHandler(h CommandHandler) {
	s.OnRemoteReservationStart(h.Reserve)
	s.OnRemoteReservationStop(h.CancelReservation)
	s.OnRemoteStart(h.RemoteStart)
	s.OnRemoteStop(h.RemoteStop)
}

// errNoResult 处理器未注册或返回零值
var errNoResult = errors.New("no result from local handler")

// await 在独立 goroutine 中调用处理器，超时或 panic 都按没有结果处理
func await[T comparable](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("handler panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- outcome{value: v, err: err}
	}()

	select {
	case o := <-done:
		if o.err == nil && o.value == zero {
			return zero, errNoResult
		}
		return o.value, o.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Process 处理一条入站命令并生成应答。
// 只有本地结果无法映射时返回 error，此时 Reply 为 SOAP Fault。
func (s *Server) Process(ctx context.Context, raw []byte) (Reply, error) {
	started := time.Now()
	correlationID := s.newID()

	cmd, decodeErr := codec.DecodeInbound(raw)
	var op oicp.Operation
	if cmd != nil {
		op = cmd.Operation()
	}

	s.events.Emit(s.inboundEvent(EventRequest, correlationID, op, raw, 0))

	var (
		ack     oicp.Acknowledgement
		failure error
		reply   Reply
		err     error
	)

	switch {
	case cmd == nil:
		failure = decodeErr
		reply, _ = s.faultReply(op, "soapenv:Client", decodeErr.Error(), http.StatusBadRequest)

	case decodeErr != nil:
		failure = decodeErr
		session, partner := commandSessions(cmd)
		ack = mapper.DataError(session, partner, decodeErr.Error())
		reply, err = s.ackReply(op, ack)

	default:
		ack, failure, err = s.dispatch(ctx, correlationID, cmd)
		if err != nil {
			failure = err
			reply, _ = s.faultReply(op, "soapenv:Server", err.Error(), http.StatusInternalServerError)
		} else {
			reply, err = s.ackReply(op, ack)
		}
	}

	runtime := time.Since(started)
	if failure != nil {
		e := s.inboundEvent(EventException, correlationID, op, nil, runtime)
		e.Error = failure.Error()
		s.events.Emit(e)
		s.log.WarnEvent().
			Err(failure).
			Str("correlation_id", correlationID).
			Str("operation", string(op)).
			Msg("inbound command not completed")
	}

	code := "fault"
	if reply.Acknowledgement != nil && reply.Acknowledgement.StatusCode != nil {
		code = reply.Acknowledgement.StatusCode.Code
	}
	metrics.InboundCommands.WithLabelValues(string(op), code).Inc()

	e := s.inboundEvent(EventResponse, correlationID, op, reply.Message.Payload, runtime)
	e.Outcome = code
	if reply.Acknowledgement != nil && reply.Acknowledgement.StatusCode != nil && reply.Acknowledgement.StatusCode.Description != nil {
		e.Result = *reply.Acknowledgement.StatusCode.Description
	}
	s.events.Emit(e)

	return reply, err
}

// dispatch 调用本地处理器并把结果映射为应答。failure 为需要记录但不影响应答的错误。
func (s *Server) dispatch(ctx context.Context, correlationID string, cmd codec.InboundCommand) (ack oicp.Acknowledgement, failure error, err error) {
	s.mu.RLock()
	reservation, cancelReservation := s.reservation, s.cancelReservation
	remoteStart, remoteStop := s.remoteStart, s.remoteStop
	s.mu.RUnlock()

	timeout := s.config.HandlerTimeout
	session, partner := commandSessions(cmd)

	switch c := cmd.(type) {
	case codec.RemoteReservationStart:
		c.CorrelationID = correlationID
		if reservation == nil {
			return mapper.ServiceNotAvailable(session, partner, "no reservation handler"), errNoResult, nil
		}
		r, herr := await(ctx, timeout, func(ctx context.Context) (emobility.ReservationResult, error) {
			return reservation(ctx, c.ReservationCommand)
		})
		if herr != nil {
			return mapper.ServiceNotAvailable(session, partner, herr.Error()), herr, nil
		}
		ack, err = mapper.ReservationAcknowledgement(r, session, partner)
		return ack, nil, err

	case codec.RemoteReservationStop:
		c.CorrelationID = correlationID
		if cancelReservation == nil {
			return mapper.ServiceNotAvailable(session, partner, "no cancel reservation handler"), errNoResult, nil
		}
		r, herr := await(ctx, timeout, func(ctx context.Context) (emobility.CancelReservationResult, error) {
			return cancelReservation(ctx, c.SessionCommand)
		})
		if herr != nil {
			return mapper.ServiceNotAvailable(session, partner, herr.Error()), herr, nil
		}
		ack, err = mapper.CancelReservationAcknowledgement(r, session, partner)
		return ack, nil, err

	case codec.RemoteStart:
		c.CorrelationID = correlationID
		if remoteStart == nil {
			return mapper.ServiceNotAvailable(session, partner, "no remote start handler"), errNoResult, nil
		}
		r, herr := await(ctx, timeout, func(ctx context.Context) (emobility.RemoteStartResult, error) {
			return remoteStart(ctx, c.ReservationCommand)
		})
		if herr != nil {
			return mapper.ServiceNotAvailable(session, partner, herr.Error()), herr, nil
		}
		ack, err = mapper.RemoteStartAcknowledgement(r, session, partner)
		return ack, nil, err

	case codec.RemoteStop:
		c.CorrelationID = correlationID
		if remoteStop == nil {
			return mapper.ServiceNotAvailable(session, partner, "no remote stop handler"), errNoResult, nil
		}
		r, herr := await(ctx, timeout, func(ctx context.Context) (emobility.RemoteStopResult, error) {
			return remoteStop(ctx, c.SessionCommand)
		})
		if herr != nil {
			return mapper.ServiceNotAvailable(session, partner, herr.Error()), herr, nil
		}
		ack, err = mapper.RemoteStopAcknowledgement(r, session, partner)
		return ack, nil, err
	}

	return mapper.ServiceNotAvailable(session, partner, "unsupported command"), errNoResult, nil
}

func commandSessions(cmd codec.InboundCommand) (session, partner *string) {
	switch c := cmd.(type) {
	case codec.RemoteReservationStart:
		return c.SessionID, c.PartnerSessionID
	case codec.RemoteStart:
		return c.SessionID, c.PartnerSessionID
	case codec.RemoteReservationStop:
		return &c.SessionID, c.PartnerSessionID
	case codec.RemoteStop:
		return &c.SessionID, c.PartnerSessionID
	}
	return nil, nil
}

func (s *Server) ackReply(op oicp.Operation, ack oicp.Acknowledgement) (Reply, error) {
	msg, err := codec.EncodeAcknowledgement(op, ack)
	if err != nil {
		return s.faultReply(op, "soapenv:Server", err.Error(), http.StatusInternalServerError)
	}
	return Reply{Message: msg, HTTPStatus: http.StatusOK, Acknowledgement: &ack}, nil
}

func (s *Server) faultReply(op oicp.Operation, code, description string, status int) (Reply, error) {
	msg, err := codec.EncodeFault(op, code, description)
	return Reply{Message: msg, HTTPStatus: status}, err
}

func (s *Server) inboundEvent(kind EventKind, correlationID string, op oicp.Operation, payload []byte, runtime time.Duration) Event {
	e := Event{
		Kind:          kind,
		Direction:     Inbound,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Operation:     op,
		PayloadSize:   len(payload),
		Runtime:       runtime,
	}
	if s.config.IncludePayload {
		e.Payload = payload
	}
	return e
}

// ServeHTTP 实现 http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestSize))
	if err != nil {
		http.Error(w, "cannot read request body", http.StatusBadRequest)
		return
	}

	reply, err := s.Process(r.Context(), body)
	if err != nil {
		s.log.ErrorWithErr(err, "inbound command could not be mapped")
	}

	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(reply.HTTPStatus)
	_, _ = w.Write(reply.Message.Payload)
}
