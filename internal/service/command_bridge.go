package service

import (
	"context"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/roaming"
)

// CommandBridge 处理对端命令：先按缓冲区中的 EVSE 状态做预检，再交给本地控制器执行。
// 控制器执行成功后更新缓冲区，下一个同步周期把新状态推送给对端。
// 没有控制器时预检通过的命令返回零值，由入站服务应答 ServiceNotAvailable。
type CommandBridge struct {
	statuses   *StatusBuffer
	controller roaming.CommandHandler
	now        func() time.Time
	log        *logger.Logger
}

// NewCommandBridge 创建命令桥，controller 可以为空
func NewCommandBridge(statuses *StatusBuffer, controller roaming.CommandHandler, log *logger.Logger) *CommandBridge {
	if log == nil {
		log = logger.Nop()
	}
	return &CommandBridge{statuses: statuses, controller: controller, now: time.Now, log: log}
}

var _ roaming.CommandHandler = (*CommandBridge)(nil)

func (b *CommandBridge) lookup(id emobility.EVSEID) (emobility.OperatorID, emobility.EVSEStatus, bool) {
	op, rec, ok := b.statuses.Find(id)
	if !ok || rec.Status == emobility.StatusEvseNotFound {
		return "", 0, false
	}
	return op, rec.Status, true
}

func (b *CommandBridge) update(op emobility.OperatorID, id emobility.EVSEID, status emobility.EVSEStatus) {
	b.statuses.Record(op, emobility.StatusRecord{ID: id, Status: status, Timestamp: b.now().UTC()})
	b.log.DebugEvent().
		Str("operator_id", string(op)).
		Str("evse_id", string(id)).
		Str("status", status.String()).
		Msg("local status updated by remote command")
}

// Reserve 实现 roaming.CommandHandler
func (b *CommandBridge) Reserve(ctx context.Context, cmd emobility.ReservationCommand) (emobility.ReservationResult, error) {
	op, status, ok := b.lookup(cmd.EVSEID)
	switch {
	case !ok:
		return emobility.ReservationUnknownEVSE, nil
	case status == emobility.StatusOutOfService:
		return emobility.ReservationOutOfService, nil
	case status == emobility.StatusReserved:
		return emobility.ReservationAlreadyReserved, nil
	case status == emobility.StatusOccupied:
		return emobility.ReservationAlreadyInUse, nil
	case b.controller == nil:
		return 0, nil
	}

	r, err := b.controller.Reserve(ctx, cmd)
	if err == nil && r == emobility.ReservationSuccess {
		b.update(op, cmd.EVSEID, emobility.StatusReserved)
	}
	return r, err
}

// CancelReservation 实现 roaming.CommandHandler
func (b *CommandBridge) CancelReservation(ctx context.Context, cmd emobility.SessionCommand) (emobility.CancelReservationResult, error) {
	op, status, ok := b.lookup(cmd.EVSEID)
	switch {
	case !ok:
		return emobility.CancelReservationUnknownEVSE, nil
	case status != emobility.StatusReserved:
		return emobility.CancelReservationUnknownReservation, nil
	case b.controller == nil:
		return 0, nil
	}

	r, err := b.controller.CancelReservation(ctx, cmd)
	if err == nil && r == emobility.CancelReservationSuccess {
		b.update(op, cmd.EVSEID, emobility.StatusAvailable)
	}
	return r, err
}

// RemoteStart 实现 roaming.CommandHandler。已预约的 EVSE 交给控制器判断是否为同一预约。
func (b *CommandBridge) RemoteStart(ctx context.Context, cmd emobility.ReservationCommand) (emobility.RemoteStartResult, error) {
	op, status, ok := b.lookup(cmd.EVSEID)
	switch {
	case !ok:
		return emobility.RemoteStartUnknownEVSE, nil
	case status == emobility.StatusOutOfService:
		return emobility.RemoteStartOutOfService, nil
	case status == emobility.StatusOccupied:
		return emobility.RemoteStartAlreadyInUse, nil
	case b.controller == nil:
		return 0, nil
	}

	r, err := b.controller.RemoteStart(ctx, cmd)
	if err == nil && r == emobility.RemoteStartSuccess {
		b.update(op, cmd.EVSEID, emobility.StatusOccupied)
	}
	return r, err
}

// RemoteStop 实现 roaming.CommandHandler
func (b *CommandBridge) RemoteStop(ctx context.Context, cmd emobility.SessionCommand) (emobility.RemoteStopResult, error) {
	op, status, ok := b.lookup(cmd.EVSEID)
	switch {
	case !ok:
		return emobility.RemoteStopUnknownEVSE, nil
	case status == emobility.StatusOutOfService:
		return emobility.RemoteStopOutOfService, nil
	case status != emobility.StatusOccupied:
		return emobility.RemoteStopInvalidSessionID, nil
	case b.controller == nil:
		return 0, nil
	}

	r, err := b.controller.RemoteStop(ctx, cmd)
	if err == nil && r == emobility.RemoteStopSuccess {
		b.update(op, cmd.EVSEID, emobility.StatusAvailable)
	}
	return r, err
}
