package codec

import (
	"bytes"
	"encoding/xml"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// InboundCommand 对端发起的命令，只有本包内的四种实现
type InboundCommand interface {
	Operation() oicp.Operation
	isInboundCommand()
}

// RemoteReservationStart 远程预约
type RemoteReservationStart struct{ emobility.ReservationCommand }

// RemoteReservationStop 取消预约
type RemoteReservationStop struct{ emobility.SessionCommand }

// RemoteStart 远程启动
type RemoteStart struct{ emobility.ReservationCommand }

// RemoteStop 远程停止
type RemoteStop struct{ emobility.SessionCommand }

func (RemoteReservationStart) Operation() oicp.Operation {
	return oicp.OperationAuthorizeRemoteReservationStart
}
func (RemoteReservationStop) Operation() oicp.Operation {
	return oicp.OperationAuthorizeRemoteReservationStop
}
func (RemoteStart) Operation() oicp.Operation { return oicp.OperationAuthorizeRemoteStart }
func (RemoteStop) Operation() oicp.Operation  { return oicp.OperationAuthorizeRemoteStop }

func (RemoteReservationStart) isInboundCommand() {}
func (RemoteReservationStop) isInboundCommand()  {}
func (RemoteStart) isInboundCommand()            {}
func (RemoteStop) isInboundCommand()             {}

// DecodeInbound 解析对端命令。
// 产品描述不合法时同时返回命令（Product 为空）和 ValidationError，便于服务端回带会话编号的应答。
func DecodeInbound(raw []byte) (InboundCommand, error) {
	if err := wellFormed(raw); err != nil {
		return nil, MalformedResponseError{Expected: "inbound command", Message: "invalid XML", Cause: err}
	}
	dec := xml.NewDecoder(bytes.NewReader(raw))
	start, err := seekPayload(dec)
	if err != nil || start == nil {
		return nil, MalformedResponseError{Expected: "inbound command", Message: "empty SOAP body", Cause: err}
	}

	switch start.Name.Local {
	case oicp.RootAuthorizeRemoteReservationStart.Local, oicp.RootAuthorizeRemoteStart.Local:
		var msg oicp.AuthorizeRemoteStart
		if err := dec.DecodeElement(&msg, start); err != nil {
			return nil, MalformedResponseError{Expected: start.Name.Local, Message: "cannot decode command", Cause: err}
		}
		cmd, err := reservationCommand(&msg)
		if start.Name.Local == oicp.RootAuthorizeRemoteStart.Local {
			return RemoteStart{cmd}, err
		}
		return RemoteReservationStart{cmd}, err

	case oicp.RootAuthorizeRemoteReservationStop.Local, oicp.RootAuthorizeRemoteStop.Local:
		var msg oicp.AuthorizeRemoteStop
		if err := dec.DecodeElement(&msg, start); err != nil {
			return nil, MalformedResponseError{Expected: start.Name.Local, Message: "cannot decode command", Cause: err}
		}
		cmd := emobility.SessionCommand{
			SessionID:        msg.SessionID,
			PartnerSessionID: msg.PartnerSessionID,
			ProviderID:       emobility.ProviderID(msg.ProviderID),
			EVSEID:           emobility.EVSEID(msg.EVSEID),
		}
		if start.Name.Local == oicp.RootAuthorizeRemoteStop.Local {
			return RemoteStop{cmd}, nil
		}
		return RemoteReservationStop{cmd}, nil
	}

	return nil, ValidationError{Operation: "DecodeInbound", Field: "root", Message: "unsupported command " + start.Name.Local}
}

func reservationCommand(msg *oicp.AuthorizeRemoteStart) (emobility.ReservationCommand, error) {
	cmd := emobility.ReservationCommand{
		SessionID:        msg.SessionID,
		PartnerSessionID: msg.PartnerSessionID,
		ProviderID:       emobility.ProviderID(msg.ProviderID),
		EVSEID:           emobility.EVSEID(msg.EVSEID),
	}
	id, err := identificationFromWire(msg.Identification)
	if err != nil {
		return cmd, ValidationError{Operation: "DecodeInbound", Field: "Identification", Message: err.Error()}
	}
	cmd.Identification = id

	product, err := ParseProductDescriptor(deref(msg.PartnerProductID))
	if err != nil {
		return cmd, err
	}
	cmd.Product = product
	return cmd, nil
}

// DecodeStatusPush 解析状态推送请求，时间戳不在线上传输
func DecodeStatusPush(raw []byte) (*emobility.PushStatusRequest, error) {
	msg, err := decodeInto[oicp.PushEvseStatus](raw, oicp.RootPushEvseStatus)
	if err != nil {
		return nil, err
	}
	action, ok := parseActionType(msg.ActionType)
	if !ok {
		return nil, MalformedResponseError{Expected: oicp.RootPushEvseStatus.Local, Message: "unknown action type " + msg.ActionType}
	}
	return &emobility.PushStatusRequest{
		OperatorID:   emobility.OperatorID(msg.OperatorEvseStatus.OperatorID),
		OperatorName: msg.OperatorEvseStatus.OperatorName,
		Action:       action,
		Records:      statusesFromWire(msg.OperatorEvseStatus.EvseStatusRecord),
	}, nil
}

// DecodeStationPush 解析站点数据推送请求
func DecodeStationPush(raw []byte) (*emobility.PushStationDataRequest, error) {
	msg, err := decodeInto[oicp.PushEvseData](raw, oicp.RootPushEvseData)
	if err != nil {
		return nil, err
	}
	action, ok := parseActionType(msg.ActionType)
	if !ok {
		return nil, MalformedResponseError{Expected: oicp.RootPushEvseData.Local, Message: "unknown action type " + msg.ActionType}
	}
	groups, err := StationsFromOperators([]oicp.OperatorEvseData{msg.OperatorEvseData})
	if err != nil {
		return nil, MalformedResponseError{Expected: oicp.RootPushEvseData.Local, Message: "invalid station record", Cause: err}
	}
	return &emobility.PushStationDataRequest{
		OperatorID:   groups[0].OperatorID,
		OperatorName: groups[0].OperatorName,
		Action:       action,
		Records:      groups[0].Records,
	}, nil
}

// DecodeAuthorizeStart 解析启动授权请求
func DecodeAuthorizeStart(raw []byte) (*emobility.AuthorizeStartRequest, error) {
	msg, err := decodeInto[oicp.AuthorizeStart](raw, oicp.RootAuthorizeStart)
	if err != nil {
		return nil, err
	}
	id, err := identificationFromWire(msg.Identification)
	if err != nil {
		return nil, MalformedResponseError{Expected: oicp.RootAuthorizeStart.Local, Message: err.Error()}
	}
	req := &emobility.AuthorizeStartRequest{
		OperatorID:       emobility.OperatorID(msg.OperatorID),
		Identification:   id,
		SessionID:        msg.SessionID,
		PartnerSessionID: msg.PartnerSessionID,
		PartnerProductID: msg.PartnerProductID,
	}
	if msg.EVSEID != nil {
		req.EVSEID = ptr(emobility.EVSEID(*msg.EVSEID))
	}
	return req, nil
}

// DecodeChargeRecord 解析充电明细记录
func DecodeChargeRecord(raw []byte) (*emobility.ChargeDetailRecord, error) {
	msg, err := decodeInto[oicp.ChargeDetailRecord](raw, oicp.RootChargeDetailRecord)
	if err != nil {
		return nil, err
	}
	fail := func(field string, cause error) error {
		return MalformedResponseError{Expected: oicp.RootChargeDetailRecord.Local, Message: "invalid " + field, Cause: cause}
	}

	id, err := identificationFromWire(msg.Identification)
	if err != nil {
		return nil, fail("Identification", err)
	}
	cdr := &emobility.ChargeDetailRecord{
		SessionID:        msg.SessionID,
		PartnerSessionID: msg.PartnerSessionID,
		PartnerProductID: msg.PartnerProductID,
		EVSEID:           emobility.EVSEID(msg.EvseID),
		Identification:   id,
	}
	if cdr.SessionStart, err = ParseTimestamp(msg.SessionStart); err != nil {
		return nil, fail("SessionStart", err)
	}
	if cdr.SessionEnd, err = ParseTimestamp(msg.SessionEnd); err != nil {
		return nil, fail("SessionEnd", err)
	}
	if cdr.ChargingStart, err = parseOptionalTimestamp(msg.ChargingStart); err != nil {
		return nil, fail("ChargingStart", err)
	}
	if cdr.ChargingEnd, err = parseOptionalTimestamp(msg.ChargingEnd); err != nil {
		return nil, fail("ChargingEnd", err)
	}
	if cdr.MeterValueStart, err = parseOptionalDecimal(msg.MeterValueStart); err != nil {
		return nil, fail("MeterValueStart", err)
	}
	if cdr.MeterValueEnd, err = parseOptionalDecimal(msg.MeterValueEnd); err != nil {
		return nil, fail("MeterValueEnd", err)
	}
	if cdr.ConsumedEnergy, err = parseOptionalDecimal(msg.ConsumedEnergy); err != nil {
		return nil, fail("ConsumedEnergy", err)
	}
	if msg.MeterValuesInBetween != nil {
		cdr.MeterValuesInBetween = make([]float64, 0, len(msg.MeterValuesInBetween.MeterValue))
		for _, v := range msg.MeterValuesInBetween.MeterValue {
			f, err := parseDecimal(v)
			if err != nil {
				return nil, fail("MeterValueInBetween", err)
			}
			cdr.MeterValuesInBetween = append(cdr.MeterValuesInBetween, f)
		}
	}
	if msg.HubOperatorID != nil {
		cdr.HubOperatorID = ptr(emobility.OperatorID(*msg.HubOperatorID))
	}
	if msg.HubProviderID != nil {
		cdr.HubProviderID = ptr(emobility.ProviderID(*msg.HubProviderID))
	}
	return cdr, nil
}

// DecodePullData 解析拉取站点数据请求
func DecodePullData(raw []byte) (*emobility.PullDataRequest, error) {
	msg, err := decodeInto[oicp.PullEvseData](raw, oicp.RootPullEvseData)
	if err != nil {
		return nil, err
	}
	req := &emobility.PullDataRequest{ProviderID: emobility.ProviderID(msg.ProviderID)}
	if msg.SearchCenter != nil {
		geo, err := geoFromWire(msg.SearchCenter.GeoCoordinates)
		if err != nil {
			return nil, MalformedResponseError{Expected: oicp.RootPullEvseData.Local, Message: "invalid search center", Cause: err}
		}
		radius, err := parseDecimal(msg.SearchCenter.Radius)
		if err != nil {
			return nil, MalformedResponseError{Expected: oicp.RootPullEvseData.Local, Message: "invalid radius", Cause: err}
		}
		req.SearchCenter, req.RadiusKM = geo, radius
	}
	if req.LastCall, err = parseOptionalTimestamp(msg.LastCall); err != nil {
		return nil, MalformedResponseError{Expected: oicp.RootPullEvseData.Local, Message: "invalid last call", Cause: err}
	}
	return req, nil
}

func parseOptionalTimestamp(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseTimestamp(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseOptionalDecimal(s *string) (*float64, error) {
	if s == nil {
		return nil, nil
	}
	f, err := parseDecimal(*s)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
