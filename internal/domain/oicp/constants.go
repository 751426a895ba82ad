package oicp

import "encoding/xml"

// 协议命名空间
const (
	NamespaceSOAPEnvelope       = "http://schemas.xmlsoap.org/soap/envelope/"
	NamespaceCommonTypes        = "http://www.hubject.com/b2b/services/commontypes/v2.0"
	NamespaceEVSEData           = "http://www.hubject.com/b2b/services/evsedata/v2.0"
	NamespaceEVSEStatus         = "http://www.hubject.com/b2b/services/evsestatus/v2.0"
	NamespaceAuthorization      = "http://www.hubject.com/b2b/services/authorization/v2.0"
	NamespaceReservation        = "http://www.hubject.com/b2b/services/reservation/v1.0"
	NamespaceAuthenticationData = "http://www.hubject.com/b2b/services/authenticationdata/v2.0"
)

// 请求/响应根元素
var (
	RootPushEvseData                    = xml.Name{Space: NamespaceEVSEData, Local: "eRoamingPushEvseData"}
	RootPullEvseData                    = xml.Name{Space: NamespaceEVSEData, Local: "eRoamingPullEvseData"}
	RootEvseData                        = xml.Name{Space: NamespaceEVSEData, Local: "eRoamingEvseData"}
	RootPushEvseStatus                  = xml.Name{Space: NamespaceEVSEStatus, Local: "eRoamingPushEvseStatus"}
	RootPullEvseStatus                  = xml.Name{Space: NamespaceEVSEStatus, Local: "eRoamingPullEvseStatus"}
	RootPullEvseStatusByID              = xml.Name{Space: NamespaceEVSEStatus, Local: "eRoamingPullEvseStatusById"}
	RootEvseStatus                      = xml.Name{Space: NamespaceEVSEStatus, Local: "eRoamingEvseStatus"}
	RootEvseStatusByID                  = xml.Name{Space: NamespaceEVSEStatus, Local: "eRoamingEvseStatusById"}
	RootAuthorizeStart                  = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizeStart"}
	RootAuthorizationStart              = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizationStart"}
	RootAuthorizeStop                   = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizeStop"}
	RootAuthorizationStop               = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizationStop"}
	RootChargeDetailRecord              = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingChargeDetailRecord"}
	RootAuthorizeRemoteStart            = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizeRemoteStart"}
	RootAuthorizeRemoteStop             = xml.Name{Space: NamespaceAuthorization, Local: "eRoamingAuthorizeRemoteStop"}
	RootAuthorizeRemoteReservationStart = xml.Name{Space: NamespaceReservation, Local: "eRoamingAuthorizeRemoteReservationStart"}
	RootAuthorizeRemoteReservationStop  = xml.Name{Space: NamespaceReservation, Local: "eRoamingAuthorizeRemoteReservationStop"}
	RootPullAuthenticationData          = xml.Name{Space: NamespaceAuthenticationData, Local: "eRoamingPullAuthenticationData"}
	RootAuthenticationData              = xml.Name{Space: NamespaceAuthenticationData, Local: "eRoamingAuthenticationData"}
	RootAcknowledgement                 = xml.Name{Space: NamespaceCommonTypes, Local: "eRoamingAcknowledgement"}
)

// Service 协议服务（决定请求发往哪个端点）
type Service string

const (
	ServiceEVSEData           Service = "EVSEData"
	ServiceEVSEStatus         Service = "EVSEStatus"
	ServiceAuthorization      Service = "Authorization"
	ServiceReservation        Service = "Reservation"
	ServiceAuthenticationData Service = "AuthenticationData"
)

// Operation 协议操作
type Operation string

const (
	OperationPushEvseData                    Operation = "PushEvseData"
	OperationPullEvseData                    Operation = "PullEvseData"
	OperationPushEvseStatus                  Operation = "PushEvseStatus"
	OperationPullEvseStatus                  Operation = "PullEvseStatus"
	OperationPullEvseStatusByID              Operation = "PullEvseStatusById"
	OperationAuthorizeStart                  Operation = "AuthorizeStart"
	OperationAuthorizeStop                   Operation = "AuthorizeStop"
	OperationSendChargeDetailRecord          Operation = "SendChargeDetailRecord"
	OperationAuthorizeRemoteStart            Operation = "AuthorizeRemoteStart"
	OperationAuthorizeRemoteStop             Operation = "AuthorizeRemoteStop"
	OperationAuthorizeRemoteReservationStart Operation = "AuthorizeRemoteReservationStart"
	OperationAuthorizeRemoteReservationStop  Operation = "AuthorizeRemoteReservationStop"
	OperationPullAuthenticationData          Operation = "PullAuthenticationData"
)

// Service 返回操作所属的服务
func (o Operation) Service() Service {
	switch o {
	case OperationPushEvseData, OperationPullEvseData:
		return ServiceEVSEData
	case OperationPushEvseStatus, OperationPullEvseStatus, OperationPullEvseStatusByID:
		return ServiceEVSEStatus
	case OperationAuthorizeStart, OperationAuthorizeStop, OperationSendChargeDetailRecord,
		OperationAuthorizeRemoteStart, OperationAuthorizeRemoteStop:
		return ServiceAuthorization
	case OperationAuthorizeRemoteReservationStart, OperationAuthorizeRemoteReservationStop:
		return ServiceReservation
	case OperationPullAuthenticationData:
		return ServiceAuthenticationData
	}
	return ""
}

// ActionType 同步动作的线上取值
const (
	ActionTypeFullLoad = "fullLoad"
	ActionTypeUpdate   = "update"
	ActionTypeInsert   = "insert"
	ActionTypeDelete   = "delete"
)

// EvseStatusType 线上取值
const (
	EvseStatusAvailable    = "Available"
	EvseStatusReserved     = "Reserved"
	EvseStatusOccupied     = "Occupied"
	EvseStatusOutOfService = "OutOfService"
	EvseStatusEvseNotFound = "EvseNotFound"
	EvseStatusUnknown      = "Unknown"
)

// AuthorizationStatusType 线上取值
const (
	AuthorizationStatusAuthorized    = "Authorized"
	AuthorizationStatusNotAuthorized = "NotAuthorized"
)

// 协议状态码
const (
	StatusCodeSuccess                    = "000"
	StatusCodeHubjectSystemError         = "001"
	StatusCodeHubjectDatabaseError       = "002"
	StatusCodeDataTransactionError       = "009"
	StatusCodeUnauthorizedAccess         = "017"
	StatusCodeInconsistentEvseID         = "018"
	StatusCodeInconsistentEvcoID         = "019"
	StatusCodeSystemError                = "021"
	StatusCodeDataError                  = "022"
	StatusCodeQRCodeAuthenticationFailed = "101"
	StatusCodeRFIDAuthenticationFailed   = "102"
	StatusCodeRFIDCardNotReadable        = "103"
	StatusCodePINAuthenticationFailed    = "105"
	StatusCodeNoPositiveAuthentication   = "210"
	StatusCodeSessionIsInvalid           = "300"
	StatusCodeCommunicationToEVSEFailed  = "310"
	StatusCodeNoEVConnectedToEVSE        = "320"
	StatusCodeEVSEAlreadyReserved        = "400"
	StatusCodeEVSEAlreadyInUse           = "401"
	StatusCodeUnknownEVSEID              = "402"
	StatusCodeServiceNotAvailable        = "501"
	StatusCodeEVSEOutOfService           = "700"
)

// IsSuccessCode 判断状态码是否处于成功区间
func IsSuccessCode(code string) bool {
	return code == StatusCodeSuccess
}

// 时间与坐标格式
const (
	TimestampLayout     = "2006-01-02T15:04:05.000Z07:00"
	CoordinatePrecision = 6
	GeoFormatDecimal    = "DecimalDegree"
)
