package mapper

import (
	"errors"

	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
	"github.com/charging-platform/oicp-roaming/internal/transport"
)

// MissingStatusCode 传输成功但应答缺少状态码块时的描述
const MissingStatusCode = "missing status code"

// Classify 把出站调用过程中的错误归类为交互结果
func Classify(err error) emobility.Outcome {
	if err == nil {
		return emobility.OutcomeCompleted
	}

	var (
		fault     codec.ProtocolFault
		invalid   codec.ValidationError
		malformed codec.MalformedResponseError
	)
	switch {
	case errors.As(err, &fault):
		return emobility.OutcomeRejected
	case errors.As(err, &invalid):
		return emobility.OutcomeInvalidRequest
	case errors.As(err, &malformed):
		return emobility.OutcomeMalformedResponse
	}

	switch transport.ContextError(err) {
	case transport.ErrTimeout:
		return emobility.OutcomeTimeout
	case transport.ErrCancelled:
		return emobility.OutcomeCancelled
	}
	return emobility.OutcomeCommunicationError
}

func statusCode(sc *oicp.StatusCode) *emobility.StatusCode {
	if sc == nil {
		return nil
	}
	out := &emobility.StatusCode{Code: sc.Code}
	if sc.Description != nil {
		out.Description = *sc.Description
	}
	if sc.AdditionalInfo != nil {
		out.AdditionalInfo = *sc.AdditionalInfo
	}
	return out
}

// exchange 根据状态码块和错误构造公共响应信息，关联编号和耗时由门面补齐
func exchange(sc *oicp.StatusCode, err error) emobility.Exchange {
	ex := emobility.Exchange{
		Outcome:    Classify(err),
		StatusCode: statusCode(sc),
	}

	var fault codec.ProtocolFault
	if errors.As(err, &fault) {
		if ex.StatusCode == nil {
			ex.StatusCode = &emobility.StatusCode{Code: fault.Code, Description: fault.Description, AdditionalInfo: fault.AdditionalInfo}
		}
		if fault.Acknowledgement != nil {
			ex.SessionID = fault.Acknowledgement.SessionID
			ex.PartnerSessionID = fault.Acknowledgement.PartnerSessionID
		}
		ex.Description = fault.Description
		return ex
	}
	if err != nil {
		ex.Description = err.Error()
		return ex
	}
	if ex.StatusCode != nil {
		ex.Description = ex.StatusCode.Description
	}
	return ex
}

// acknowledgementExchange 写操作应答的公共响应信息
func acknowledgementExchange(ack *oicp.Acknowledgement, err error) emobility.Exchange {
	var sc *oicp.StatusCode
	if ack != nil {
		sc = ack.StatusCode
	}
	ex := exchange(sc, err)
	if ack != nil {
		ex.SessionID = ack.SessionID
		ex.PartnerSessionID = ack.PartnerSessionID
	}
	return ex
}

func rejectedCode(ex emobility.Exchange) string {
	if ex.StatusCode == nil {
		return ""
	}
	return ex.StatusCode.Code
}

// Push 推送应答转换为推送结果
func Push(action emobility.SyncAction, count int, ack *oicp.Acknowledgement, err error) *emobility.PushResult {
	res := &emobility.PushResult{
		Exchange:    acknowledgementExchange(ack, err),
		Action:      action,
		RecordCount: count,
	}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Status = emobility.PushSuccess
	case emobility.OutcomeRejected:
		res.Status = emobility.PushRejected
	case emobility.OutcomeInvalidRequest:
		res.Status = emobility.PushInvalidRequest
	case emobility.OutcomeTimeout:
		res.Status = emobility.PushTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Status = emobility.PushCommunicationError
	default:
		res.Status = emobility.PushError
	}
	return res
}

// SendChargeRecord 充电明细应答转换为上报结果
func SendChargeRecord(ack *oicp.Acknowledgement, err error) *emobility.SendCDRResult {
	res := &emobility.SendCDRResult{Exchange: acknowledgementExchange(ack, err)}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Status = emobility.SendCDRForwarded
	case emobility.OutcomeRejected:
		if rejectedCode(res.Exchange) == oicp.StatusCodeSessionIsInvalid {
			res.Status = emobility.SendCDRInvalidSessionID
		} else {
			res.Status = emobility.SendCDRRejected
		}
	case emobility.OutcomeInvalidRequest:
		res.Status = emobility.SendCDRInvalidRequest
	case emobility.OutcomeTimeout:
		res.Status = emobility.SendCDRTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Status = emobility.SendCDRCommunicationError
	default:
		res.Status = emobility.SendCDRError
	}
	return res
}

// Reservation 对端预约应答转换为本地预约结果
func Reservation(ack *oicp.Acknowledgement, err error) *emobility.ReservationResponse {
	res := &emobility.ReservationResponse{Exchange: acknowledgementExchange(ack, err)}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Result = emobility.ReservationSuccess
	case emobility.OutcomeTimeout:
		res.Result = emobility.ReservationTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Result = emobility.ReservationCommunicationError
	case emobility.OutcomeRejected:
		switch code := rejectedCode(res.Exchange); {
		case isCredentialCode(code):
			res.Result = emobility.ReservationInvalidCredentials
		case code == oicp.StatusCodeEVSEAlreadyReserved:
			res.Result = emobility.ReservationAlreadyReserved
		case code == oicp.StatusCodeEVSEAlreadyInUse:
			res.Result = emobility.ReservationAlreadyInUse
		case isUnknownEVSECode(code):
			res.Result = emobility.ReservationUnknownEVSE
		case code == oicp.StatusCodeEVSEOutOfService:
			res.Result = emobility.ReservationOutOfService
		case code == oicp.StatusCodeCommunicationToEVSEFailed:
			res.Result = emobility.ReservationCommunicationError
		default:
			res.Result = emobility.ReservationError
		}
	default:
		res.Result = emobility.ReservationError
	}
	return res
}

// CancelReservation 对端取消预约应答转换为本地结果
func CancelReservation(ack *oicp.Acknowledgement, err error) *emobility.CancelReservationResponse {
	res := &emobility.CancelReservationResponse{Exchange: acknowledgementExchange(ack, err)}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Result = emobility.CancelReservationSuccess
	case emobility.OutcomeTimeout:
		res.Result = emobility.CancelReservationTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Result = emobility.CancelReservationCommunicationError
	case emobility.OutcomeRejected:
		switch code := rejectedCode(res.Exchange); {
		case code == oicp.StatusCodeSessionIsInvalid:
			res.Result = emobility.CancelReservationUnknownReservation
		case isUnknownEVSECode(code):
			res.Result = emobility.CancelReservationUnknownEVSE
		case code == oicp.StatusCodeCommunicationToEVSEFailed:
			res.Result = emobility.CancelReservationCommunicationError
		default:
			res.Result = emobility.CancelReservationError
		}
	default:
		res.Result = emobility.CancelReservationError
	}
	return res
}

// RemoteStart 对端远程启动应答转换为本地结果
func RemoteStart(ack *oicp.Acknowledgement, err error) *emobility.RemoteStartResponse {
	res := &emobility.RemoteStartResponse{Exchange: acknowledgementExchange(ack, err)}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Result = emobility.RemoteStartSuccess
	case emobility.OutcomeTimeout:
		res.Result = emobility.RemoteStartTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Result = emobility.RemoteStartCommunicationError
	case emobility.OutcomeRejected:
		switch code := rejectedCode(res.Exchange); {
		case isCredentialCode(code):
			res.Result = emobility.RemoteStartInvalidCredentials
		case code == oicp.StatusCodeSessionIsInvalid:
			res.Result = emobility.RemoteStartInvalidSessionID
		case code == oicp.StatusCodeEVSEAlreadyReserved:
			res.Result = emobility.RemoteStartAlreadyReserved
		case code == oicp.StatusCodeEVSEAlreadyInUse:
			res.Result = emobility.RemoteStartAlreadyInUse
		case isUnknownEVSECode(code):
			res.Result = emobility.RemoteStartUnknownEVSE
		case code == oicp.StatusCodeEVSEOutOfService:
			res.Result = emobility.RemoteStartOutOfService
		case code == oicp.StatusCodeNoEVConnectedToEVSE:
			res.Result = emobility.RemoteStartNoEVConnected
		case code == oicp.StatusCodeCommunicationToEVSEFailed:
			res.Result = emobility.RemoteStartCommunicationError
		default:
			res.Result = emobility.RemoteStartError
		}
	default:
		res.Result = emobility.RemoteStartError
	}
	return res
}

// RemoteStop 对端远程停止应答转换为本地结果
func RemoteStop(ack *oicp.Acknowledgement, err error) *emobility.RemoteStopResponse {
	res := &emobility.RemoteStopResponse{Exchange: acknowledgementExchange(ack, err)}
	switch res.Outcome {
	case emobility.OutcomeCompleted:
		res.Result = emobility.RemoteStopSuccess
	case emobility.OutcomeTimeout:
		res.Result = emobility.RemoteStopTimeout
	case emobility.OutcomeCancelled, emobility.OutcomeCommunicationError:
		res.Result = emobility.RemoteStopCommunicationError
	case emobility.OutcomeRejected:
		switch code := rejectedCode(res.Exchange); {
		case code == oicp.StatusCodeSessionIsInvalid:
			res.Result = emobility.RemoteStopInvalidSessionID
		case isUnknownEVSECode(code):
			res.Result = emobility.RemoteStopUnknownEVSE
		case code == oicp.StatusCodeEVSEOutOfService:
			res.Result = emobility.RemoteStopOutOfService
		case code == oicp.StatusCodeCommunicationToEVSEFailed:
			res.Result = emobility.RemoteStopCommunicationError
		default:
			res.Result = emobility.RemoteStopError
		}
	default:
		res.Result = emobility.RemoteStopError
	}
	return res
}

func isCredentialCode(code string) bool {
	switch code {
	case oicp.StatusCodeUnauthorizedAccess, oicp.StatusCodeInconsistentEvcoID,
		oicp.StatusCodeQRCodeAuthenticationFailed, oicp.StatusCodeRFIDAuthenticationFailed,
		oicp.StatusCodeRFIDCardNotReadable, oicp.StatusCodePINAuthenticationFailed,
		oicp.StatusCodeNoPositiveAuthentication:
		return true
	}
	return false
}

func isUnknownEVSECode(code string) bool {
	return code == oicp.StatusCodeUnknownEVSEID || code == oicp.StatusCodeInconsistentEvseID
}
