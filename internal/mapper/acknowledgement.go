package mapper

import (
	"fmt"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// UnmappedOutcomeError 本地结果枚举的取值没有对应的协议状态码，属于程序错误
type UnmappedOutcomeError struct {
	Enum  string
	Value int
}

// Error 实现error接口
func (e UnmappedOutcomeError) Error() string {
	return fmt.Sprintf("unmapped %s value %d", e.Enum, e.Value)
}

// descriptions 协议状态码的标准描述
var descriptions = map[string]string{
	oicp.StatusCodeSuccess:                    "Success",
	oicp.StatusCodeHubjectSystemError:         "Hubject system error",
	oicp.StatusCodeHubjectDatabaseError:       "Hubject database error",
	oicp.StatusCodeDataTransactionError:       "Data transaction error",
	oicp.StatusCodeUnauthorizedAccess:         "Unauthorized Access",
	oicp.StatusCodeInconsistentEvseID:         "Inconsistent EvseID",
	oicp.StatusCodeInconsistentEvcoID:         "Inconsistent EvcoID",
	oicp.StatusCodeSystemError:                "System error",
	oicp.StatusCodeDataError:                  "Data error",
	oicp.StatusCodeQRCodeAuthenticationFailed: "QR Code Authentication failed",
	oicp.StatusCodeRFIDAuthenticationFailed:   "RFID Authentication failed",
	oicp.StatusCodeRFIDCardNotReadable:        "RFID card not readable",
	oicp.StatusCodePINAuthenticationFailed:    "PIN Authentication failed",
	oicp.StatusCodeNoPositiveAuthentication:   "No positive authentication response",
	oicp.StatusCodeSessionIsInvalid:           "Session is invalid",
	oicp.StatusCodeCommunicationToEVSEFailed:  "Communication to EVSE failed",
	oicp.StatusCodeNoEVConnectedToEVSE:        "No EV connected to EVSE",
	oicp.StatusCodeEVSEAlreadyReserved:        "EVSE already reserved",
	oicp.StatusCodeEVSEAlreadyInUse:           "EVSE already in use/ wrong token",
	oicp.StatusCodeUnknownEVSEID:              "Unknown EVSE ID",
	oicp.StatusCodeServiceNotAvailable:        "Service not available",
	oicp.StatusCodeEVSEOutOfService:           "EVSE out of service",
}

// Description 返回状态码的标准描述，未知状态码返回空串
func Description(code string) string {
	return descriptions[code]
}

func acknowledgement(code string, sessionID, partnerSessionID *string) oicp.Acknowledgement {
	desc := descriptions[code]
	return oicp.Acknowledgement{
		Result: oicp.IsSuccessCode(code),
		StatusCode: &oicp.StatusCode{
			Code:        code,
			Description: &desc,
		},
		SessionID:        sessionID,
		PartnerSessionID: partnerSessionID,
	}
}

// ReservationAcknowledgement 本地预约结果转换为协议应答
func ReservationAcknowledgement(r emobility.ReservationResult, sessionID, partnerSessionID *string) (oicp.Acknowledgement, error) {
	var code string
	switch r {
	case emobility.ReservationSuccess:
		code = oicp.StatusCodeSuccess
	case emobility.ReservationInvalidCredentials:
		code = oicp.StatusCodeUnauthorizedAccess
	case emobility.ReservationTimeout, emobility.ReservationCommunicationError:
		code = oicp.StatusCodeCommunicationToEVSEFailed
	case emobility.ReservationAlreadyReserved:
		code = oicp.StatusCodeEVSEAlreadyReserved
	case emobility.ReservationAlreadyInUse:
		code = oicp.StatusCodeEVSEAlreadyInUse
	case emobility.ReservationUnknownEVSE:
		code = oicp.StatusCodeUnknownEVSEID
	case emobility.ReservationOutOfService:
		code = oicp.StatusCodeEVSEOutOfService
	case emobility.ReservationError:
		code = oicp.StatusCodeSystemError
	default:
		return oicp.Acknowledgement{}, UnmappedOutcomeError{Enum: "ReservationResult", Value: int(r)}
	}
	return acknowledgement(code, sessionID, partnerSessionID), nil
}

// CancelReservationAcknowledgement 本地取消预约结果转换为协议应答
func CancelReservationAcknowledgement(r emobility.CancelReservationResult, sessionID, partnerSessionID *string) (oicp.Acknowledgement, error) {
	var code string
	switch r {
	case emobility.CancelReservationSuccess:
		code = oicp.StatusCodeSuccess
	case emobility.CancelReservationUnknownReservation:
		code = oicp.StatusCodeSessionIsInvalid
	case emobility.CancelReservationUnknownEVSE:
		code = oicp.StatusCodeUnknownEVSEID
	case emobility.CancelReservationTimeout, emobility.CancelReservationCommunicationError:
		code = oicp.StatusCodeCommunicationToEVSEFailed
	case emobility.CancelReservationError:
		code = oicp.StatusCodeSystemError
	default:
		return oicp.Acknowledgement{}, UnmappedOutcomeError{Enum: "CancelReservationResult", Value: int(r)}
	}
	return acknowledgement(code, sessionID, partnerSessionID), nil
}

// RemoteStartAcknowledgement 本地远程启动结果转换为协议应答
func RemoteStartAcknowledgement(r emobility.RemoteStartResult, sessionID, partnerSessionID *string) (oicp.Acknowledgement, error) {
	var code string
	switch r {
	case emobility.RemoteStartSuccess:
		code = oicp.StatusCodeSuccess
	case emobility.RemoteStartInvalidCredentials:
		code = oicp.StatusCodeUnauthorizedAccess
	case emobility.RemoteStartInvalidSessionID:
		code = oicp.StatusCodeSessionIsInvalid
	case emobility.RemoteStartTimeout, emobility.RemoteStartCommunicationError:
		code = oicp.StatusCodeCommunicationToEVSEFailed
	case emobility.RemoteStartAlreadyReserved:
		code = oicp.StatusCodeEVSEAlreadyReserved
	case emobility.RemoteStartAlreadyInUse:
		code = oicp.StatusCodeEVSEAlreadyInUse
	case emobility.RemoteStartUnknownEVSE:
		code = oicp.StatusCodeUnknownEVSEID
	case emobility.RemoteStartOutOfService:
		code = oicp.StatusCodeEVSEOutOfService
	case emobility.RemoteStartNoEVConnected:
		code = oicp.StatusCodeNoEVConnectedToEVSE
	case emobility.RemoteStartError:
		code = oicp.StatusCodeSystemError
	default:
		return oicp.Acknowledgement{}, UnmappedOutcomeError{Enum: "RemoteStartResult", Value: int(r)}
	}
	return acknowledgement(code, sessionID, partnerSessionID), nil
}

// RemoteStopAcknowledgement 本地远程停止结果转换为协议应答
func RemoteStopAcknowledgement(r emobility.RemoteStopResult, sessionID, partnerSessionID *string) (oicp.Acknowledgement, error) {
	var code string
	switch r {
	case emobility.RemoteStopSuccess:
		code = oicp.StatusCodeSuccess
	case emobility.RemoteStopInvalidSessionID:
		code = oicp.StatusCodeSessionIsInvalid
	case emobility.RemoteStopUnknownEVSE:
		code = oicp.StatusCodeUnknownEVSEID
	case emobility.RemoteStopOutOfService:
		code = oicp.StatusCodeEVSEOutOfService
	case emobility.RemoteStopTimeout, emobility.RemoteStopCommunicationError:
		code = oicp.StatusCodeCommunicationToEVSEFailed
	case emobility.RemoteStopError:
		code = oicp.StatusCodeSystemError
	default:
		return oicp.Acknowledgement{}, UnmappedOutcomeError{Enum: "RemoteStopResult", Value: int(r)}
	}
	return acknowledgement(code, sessionID, partnerSessionID), nil
}

// ServiceNotAvailable 本地没有给出结果（无处理器、超时或空结果）时的应答
func ServiceNotAvailable(sessionID, partnerSessionID *string, additionalInfo string) oicp.Acknowledgement {
	ack := acknowledgement(oicp.StatusCodeServiceNotAvailable, sessionID, partnerSessionID)
	if additionalInfo != "" {
		ack.StatusCode.AdditionalInfo = &additionalInfo
	}
	return ack
}

// DataError 命令参数不合法时的应答
func DataError(sessionID, partnerSessionID *string, additionalInfo string) oicp.Acknowledgement {
	ack := acknowledgement(oicp.StatusCodeDataError, sessionID, partnerSessionID)
	if additionalInfo != "" {
		ack.StatusCode.AdditionalInfo = &additionalInfo
	}
	return ack
}
