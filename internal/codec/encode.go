package codec

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/domain/validation"
)

// MaxPullByIDCount 单次按编号拉取状态的上限
const MaxPullByIDCount = 100

var validator = validation.NewValidator()

// WireMessage 已编码的 SOAP 请求或响应
type WireMessage struct {
	Operation oicp.Operation
	Root      xml.Name
	Payload   []byte
}

// Size 负载字节数
func (m WireMessage) Size() int { return len(m.Payload) }

// Marshal 将根元素包入 SOAP 信封，payload 的 XMLName 必须已设置为 root
func Marshal(op oicp.Operation, root xml.Name, payload interface{}) (WireMessage, error) {
	env := oicp.Envelope{Body: oicp.EnvelopeBody{Content: payload}}
	body, err := xml.Marshal(env)
	if err != nil {
		return WireMessage{}, fmt.Errorf("marshal %s: %w", root.Local, err)
	}
	payloadBytes := make([]byte, 0, len(xml.Header)+len(body))
	payloadBytes = append(payloadBytes, xml.Header...)
	payloadBytes = append(payloadBytes, body...)
	return WireMessage{Operation: op, Root: root, Payload: payloadBytes}, nil
}

func invalid(op oicp.Operation, field, format string, args ...interface{}) ValidationError {
	return ValidationError{Operation: string(op), Field: field, Message: fmt.Sprintf(format, args...)}
}

func checkOperatorID(op oicp.Operation, id emobility.OperatorID) error {
	if err := validator.ValidateOperatorID(string(id)); err != nil {
		return ValidationError{Operation: string(op), Field: "OperatorID", Message: "invalid operator id", Cause: err}
	}
	return nil
}

func checkProviderID(op oicp.Operation, id emobility.ProviderID) error {
	if err := validator.ValidateProviderID(string(id)); err != nil {
		return ValidationError{Operation: string(op), Field: "ProviderID", Message: "invalid provider id", Cause: err}
	}
	return nil
}

func checkEVSEID(op oicp.Operation, id emobility.EVSEID) error {
	if err := validator.ValidateEVSEID(string(id)); err != nil {
		return ValidationError{Operation: string(op), Field: "EvseID", Message: "invalid EVSE id", Cause: err}
	}
	return nil
}

func wireIdentification(op oicp.Operation, id emobility.Identification) (oicp.Identification, error) {
	w, err := identificationToWire(id)
	if err != nil {
		return w, ValidationError{Operation: string(op), Field: "Identification", Message: err.Error()}
	}
	return w, nil
}

// EncodeStationPush 编码站点静态数据推送，记录须已按运营商分组
func EncodeStationPush(records []emobility.StationRecord, action emobility.SyncAction, operatorID emobility.OperatorID, operatorName *string) (WireMessage, error) {
	const op = oicp.OperationPushEvseData

	at, ok := actionType(action)
	if !ok {
		return WireMessage{}, invalid(op, "ActionType", "unsupported action %s", action)
	}
	if err := checkOperatorID(op, operatorID); err != nil {
		return WireMessage{}, err
	}
	if len(records) == 0 && action.Incremental() {
		return WireMessage{}, invalid(op, "EvseDataRecord", "%s requires at least one record", action)
	}

	wire := make([]oicp.EvseDataRecord, 0, len(records))
	for i, r := range records {
		if r.OperatorID != operatorID {
			return WireMessage{}, invalid(op, "OperatorID", "record %d belongs to operator %s, batch is for %s", i, r.OperatorID, operatorID)
		}
		if err := validator.ValidateStruct(r); err != nil {
			return WireMessage{}, ValidationError{Operation: string(op), Field: "EvseDataRecord", Message: fmt.Sprintf("record %d (%s) is incomplete", i, r.EVSEID), Cause: err}
		}
		wire = append(wire, stationToWire(r))
	}

	return Marshal(op, oicp.RootPushEvseData, &oicp.PushEvseData{
		XMLName:    oicp.RootPushEvseData,
		ActionType: at,
		OperatorEvseData: oicp.OperatorEvseData{
			OperatorID:     string(operatorID),
			OperatorName:   operatorName,
			EvseDataRecord: wire,
		},
	})
}

// EncodeStatusPush 编码实时状态推送
func EncodeStatusPush(records []emobility.StatusRecord, action emobility.SyncAction, operatorID emobility.OperatorID, operatorName *string) (WireMessage, error) {
	const op = oicp.OperationPushEvseStatus

	at, ok := actionType(action)
	if !ok {
		return WireMessage{}, invalid(op, "ActionType", "unsupported action %s", action)
	}
	if err := checkOperatorID(op, operatorID); err != nil {
		return WireMessage{}, err
	}
	if len(records) == 0 && action.Incremental() {
		return WireMessage{}, invalid(op, "EvseStatusRecord", "%s requires at least one record", action)
	}

	wire := make([]oicp.EvseStatusRecord, 0, len(records))
	for _, r := range records {
		if err := checkEVSEID(op, r.ID); err != nil {
			return WireMessage{}, err
		}
		name, ok := evseStatusName(r.Status)
		if !ok {
			return WireMessage{}, invalid(op, "EvseStatus", "evse %s has unsupported status %s", r.ID, r.Status)
		}
		wire = append(wire, oicp.EvseStatusRecord{EvseID: string(r.ID), EvseStatus: name})
	}

	return Marshal(op, oicp.RootPushEvseStatus, &oicp.PushEvseStatus{
		XMLName:    oicp.RootPushEvseStatus,
		ActionType: at,
		OperatorEvseStatus: oicp.OperatorEvseStatus{
			OperatorID:       string(operatorID),
			OperatorName:     operatorName,
			EvseStatusRecord: wire,
		},
	})
}

// EncodeAuthorizeStart 编码启动授权请求
func EncodeAuthorizeStart(req emobility.AuthorizeStartRequest) (WireMessage, error) {
	const op = oicp.OperationAuthorizeStart

	if err := checkOperatorID(op, req.OperatorID); err != nil {
		return WireMessage{}, err
	}
	ident, err := wireIdentification(op, req.Identification)
	if err != nil {
		return WireMessage{}, err
	}
	msg := &oicp.AuthorizeStart{
		XMLName:          oicp.RootAuthorizeStart,
		SessionID:        req.SessionID,
		PartnerSessionID: req.PartnerSessionID,
		OperatorID:       string(req.OperatorID),
		Identification:   ident,
		PartnerProductID: req.PartnerProductID,
	}
	if req.EVSEID != nil {
		if err := checkEVSEID(op, *req.EVSEID); err != nil {
			return WireMessage{}, err
		}
		msg.EVSEID = ptr(string(*req.EVSEID))
	}
	return Marshal(op, oicp.RootAuthorizeStart, msg)
}

// EncodeAuthorizeStop 编码停止授权请求
func EncodeAuthorizeStop(req emobility.AuthorizeStopRequest) (WireMessage, error) {
	const op = oicp.OperationAuthorizeStop

	if req.SessionID == "" {
		return WireMessage{}, invalid(op, "SessionID", "session id is required")
	}
	if err := checkOperatorID(op, req.OperatorID); err != nil {
		return WireMessage{}, err
	}
	ident, err := wireIdentification(op, req.Identification)
	if err != nil {
		return WireMessage{}, err
	}
	msg := &oicp.AuthorizeStop{
		XMLName:          oicp.RootAuthorizeStop,
		SessionID:        req.SessionID,
		PartnerSessionID: req.PartnerSessionID,
		OperatorID:       string(req.OperatorID),
		Identification:   ident,
	}
	if req.EVSEID != nil {
		if err := checkEVSEID(op, *req.EVSEID); err != nil {
			return WireMessage{}, err
		}
		msg.EVSEID = ptr(string(*req.EVSEID))
	}
	return Marshal(op, oicp.RootAuthorizeStop, msg)
}

func encodeRemoteStart(op oicp.Operation, root xml.Name, provider emobility.ProviderID, evse emobility.EVSEID,
	ident emobility.Identification, sessionID, partnerSessionID *string, product *emobility.ProductDescriptor) (WireMessage, error) {
	if err := checkProviderID(op, provider); err != nil {
		return WireMessage{}, err
	}
	if err := checkEVSEID(op, evse); err != nil {
		return WireMessage{}, err
	}
	w, err := wireIdentification(op, ident)
	if err != nil {
		return WireMessage{}, err
	}
	msg := &oicp.AuthorizeRemoteStart{
		XMLName:          root,
		SessionID:        sessionID,
		PartnerSessionID: partnerSessionID,
		ProviderID:       string(provider),
		EVSEID:           string(evse),
		Identification:   w,
	}
	if product != nil {
		if product.Duration != nil && *product.Duration < 0 {
			return WireMessage{}, invalid(op, "PartnerProductID", "negative duration %s", *product.Duration)
		}
		if product.Duration != nil && *product.Duration%time.Second != 0 {
			return WireMessage{}, invalid(op, "PartnerProductID", "duration %s is not a whole number of seconds", *product.Duration)
		}
		msg.PartnerProductID = optional(FormatProductDescriptor(*product))
	}
	return Marshal(op, root, msg)
}

func encodeRemoteStop(op oicp.Operation, root xml.Name, provider emobility.ProviderID, evse emobility.EVSEID,
	sessionID string, partnerSessionID *string) (WireMessage, error) {
	if sessionID == "" {
		return WireMessage{}, invalid(op, "SessionID", "session id is required")
	}
	if err := checkProviderID(op, provider); err != nil {
		return WireMessage{}, err
	}
	if err := checkEVSEID(op, evse); err != nil {
		return WireMessage{}, err
	}
	return Marshal(op, root, &oicp.AuthorizeRemoteStop{
		XMLName:          root,
		SessionID:        sessionID,
		PartnerSessionID: partnerSessionID,
		ProviderID:       string(provider),
		EVSEID:           string(evse),
	})
}

// EncodeReserve 编码远程预约请求
func EncodeReserve(req emobility.ReserveRequest) (WireMessage, error) {
	return encodeRemoteStart(oicp.OperationAuthorizeRemoteReservationStart, oicp.RootAuthorizeRemoteReservationStart,
		req.ProviderID, req.EVSEID, req.Identification, req.SessionID, req.PartnerSessionID, req.Product)
}

// EncodeCancelReservation 编码取消预约请求
func EncodeCancelReservation(req emobility.CancelReservationRequest) (WireMessage, error) {
	return encodeRemoteStop(oicp.OperationAuthorizeRemoteReservationStop, oicp.RootAuthorizeRemoteReservationStop,
		req.ProviderID, req.EVSEID, req.SessionID, req.PartnerSessionID)
}

// EncodeRemoteStart 编码远程启动请求
func EncodeRemoteStart(req emobility.RemoteStartRequest) (WireMessage, error) {
	return encodeRemoteStart(oicp.OperationAuthorizeRemoteStart, oicp.RootAuthorizeRemoteStart,
		req.ProviderID, req.EVSEID, req.Identification, req.SessionID, req.PartnerSessionID, req.Product)
}

// EncodeRemoteStop 编码远程停止请求
func EncodeRemoteStop(req emobility.RemoteStopRequest) (WireMessage, error) {
	return encodeRemoteStop(oicp.OperationAuthorizeRemoteStop, oicp.RootAuthorizeRemoteStop,
		req.ProviderID, req.EVSEID, req.SessionID, req.PartnerSessionID)
}

// EncodeSendChargeRecord 编码充电明细记录
func EncodeSendChargeRecord(req emobility.SendChargeRecordRequest) (WireMessage, error) {
	const op = oicp.OperationSendChargeDetailRecord
	cdr := req.Record

	if cdr.SessionID == "" {
		return WireMessage{}, invalid(op, "SessionID", "session id is required")
	}
	if err := checkEVSEID(op, cdr.EVSEID); err != nil {
		return WireMessage{}, err
	}
	if cdr.SessionStart.IsZero() || cdr.SessionEnd.IsZero() {
		return WireMessage{}, invalid(op, "SessionStart", "session start and end are required")
	}
	if cdr.SessionEnd.Before(cdr.SessionStart) {
		return WireMessage{}, invalid(op, "SessionEnd", "session ends before it starts")
	}
	if cdr.ChargingStart != nil && cdr.ChargingEnd != nil && cdr.ChargingEnd.Before(*cdr.ChargingStart) {
		return WireMessage{}, invalid(op, "ChargingEnd", "charging ends before it starts")
	}
	ident, err := wireIdentification(op, cdr.Identification)
	if err != nil {
		return WireMessage{}, err
	}

	msg := &oicp.ChargeDetailRecord{
		XMLName:          oicp.RootChargeDetailRecord,
		SessionID:        cdr.SessionID,
		PartnerSessionID: cdr.PartnerSessionID,
		PartnerProductID: cdr.PartnerProductID,
		EvseID:           string(cdr.EVSEID),
		Identification:   ident,
		ChargingStart:    formatOptionalTimestamp(cdr.ChargingStart),
		ChargingEnd:      formatOptionalTimestamp(cdr.ChargingEnd),
		SessionStart:     FormatTimestamp(cdr.SessionStart),
		SessionEnd:       FormatTimestamp(cdr.SessionEnd),
		MeterValueStart:  formatOptionalDecimal(cdr.MeterValueStart),
		MeterValueEnd:    formatOptionalDecimal(cdr.MeterValueEnd),
		ConsumedEnergy:   formatOptionalDecimal(cdr.ConsumedEnergy),
	}
	if cdr.MeterValuesInBetween != nil {
		values := make([]string, 0, len(cdr.MeterValuesInBetween))
		for _, v := range cdr.MeterValuesInBetween {
			values = append(values, FormatDecimal(v))
		}
		msg.MeterValuesInBetween = &oicp.MeterValues{MeterValue: values}
	}
	if cdr.HubOperatorID != nil {
		msg.HubOperatorID = ptr(string(*cdr.HubOperatorID))
	}
	if cdr.HubProviderID != nil {
		msg.HubProviderID = ptr(string(*cdr.HubProviderID))
	}
	return Marshal(op, oicp.RootChargeDetailRecord, msg)
}

// searchCenter 半径为 0 时不输出区域条件
func searchCenter(op oicp.Operation, center *emobility.GeoCoordinates, radiusKM float64) (*oicp.SearchCenter, error) {
	if radiusKM < 0 {
		return nil, invalid(op, "Radius", "radius must not be negative, got %s", FormatDecimal(radiusKM))
	}
	if center == nil || radiusKM == 0 {
		return nil, nil
	}
	return &oicp.SearchCenter{GeoCoordinates: *geoToWire(*center), Radius: FormatDecimal(radiusKM)}, nil
}

// EncodePullStatus 编码全量或按区域拉取状态
func EncodePullStatus(req emobility.PullStatusRequest) (WireMessage, error) {
	const op = oicp.OperationPullEvseStatus

	if err := checkProviderID(op, req.ProviderID); err != nil {
		return WireMessage{}, err
	}
	sc, err := searchCenter(op, req.SearchCenter, req.RadiusKM)
	if err != nil {
		return WireMessage{}, err
	}
	msg := &oicp.PullEvseStatus{
		XMLName:      oicp.RootPullEvseStatus,
		ProviderID:   string(req.ProviderID),
		SearchCenter: sc,
	}
	if req.StatusFilter != nil {
		name, ok := evseStatusName(*req.StatusFilter)
		if !ok {
			return WireMessage{}, invalid(op, "EvseStatus", "unsupported status filter %s", *req.StatusFilter)
		}
		msg.EvseStatus = &name
	}
	return Marshal(op, oicp.RootPullEvseStatus, msg)
}

// EncodePullStatusByID 编码按编号拉取状态
func EncodePullStatusByID(req emobility.PullStatusByIDRequest) (WireMessage, error) {
	const op = oicp.OperationPullEvseStatusByID

	if err := checkProviderID(op, req.ProviderID); err != nil {
		return WireMessage{}, err
	}
	if len(req.EVSEIDs) == 0 {
		return WireMessage{}, invalid(op, "EvseId", "at least one EVSE id is required")
	}
	if len(req.EVSEIDs) > MaxPullByIDCount {
		return WireMessage{}, invalid(op, "EvseId", "at most %d EVSE ids per request, got %d", MaxPullByIDCount, len(req.EVSEIDs))
	}
	ids := make([]string, 0, len(req.EVSEIDs))
	for _, id := range req.EVSEIDs {
		if err := checkEVSEID(op, id); err != nil {
			return WireMessage{}, err
		}
		ids = append(ids, string(id))
	}
	return Marshal(op, oicp.RootPullEvseStatusByID, &oicp.PullEvseStatusByID{
		XMLName:    oicp.RootPullEvseStatusByID,
		ProviderID: string(req.ProviderID),
		EvseID:     ids,
	})
}

// EncodePullData 编码拉取站点数据，区域条件与 LastCall 同时出现时拒绝
func EncodePullData(req emobility.PullDataRequest) (WireMessage, error) {
	const op = oicp.OperationPullEvseData

	if req.SearchCenter != nil && req.LastCall != nil {
		return WireMessage{}, invalid(op, "SearchCenter", "search center and last call are mutually exclusive")
	}
	if err := checkProviderID(op, req.ProviderID); err != nil {
		return WireMessage{}, err
	}
	sc, err := searchCenter(op, req.SearchCenter, req.RadiusKM)
	if err != nil {
		return WireMessage{}, err
	}
	return Marshal(op, oicp.RootPullEvseData, &oicp.PullEvseData{
		XMLName:                      oicp.RootPullEvseData,
		ProviderID:                   string(req.ProviderID),
		SearchCenter:                 sc,
		LastCall:                     formatOptionalTimestamp(req.LastCall),
		GeoCoordinatesResponseFormat: oicp.GeoFormatDecimal,
	})
}

// EncodePullAuthenticationData 编码拉取授权白名单
func EncodePullAuthenticationData(req emobility.PullAuthenticationDataRequest) (WireMessage, error) {
	const op = oicp.OperationPullAuthenticationData

	if err := checkOperatorID(op, req.OperatorID); err != nil {
		return WireMessage{}, err
	}
	return Marshal(op, oicp.RootPullAuthenticationData, &oicp.PullAuthenticationData{
		XMLName:    oicp.RootPullAuthenticationData,
		OperatorID: string(req.OperatorID),
	})
}

// EncodeAcknowledgement 服务端应答
func EncodeAcknowledgement(op oicp.Operation, ack oicp.Acknowledgement) (WireMessage, error) {
	ack.XMLName = oicp.RootAcknowledgement
	return Marshal(op, oicp.RootAcknowledgement, &ack)
}

// EncodeFault 服务端无法给出应答时返回 SOAP Fault
func EncodeFault(op oicp.Operation, code, description string) (WireMessage, error) {
	root := xml.Name{Space: oicp.NamespaceSOAPEnvelope, Local: "Fault"}
	return Marshal(op, root, &oicp.Fault{
		XMLName:     root,
		FaultCode:   code,
		FaultString: description,
	})
}
