package emobility

import (
	"fmt"
	"time"
)

// Outcome 一次协议交互的结果分类
type Outcome int

const (
	OutcomeCompleted Outcome = iota + 1
	OutcomeRejected
	OutcomeInvalidRequest
	OutcomeMalformedResponse
	OutcomeTimeout
	OutcomeCancelled
	OutcomeCommunicationError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "Completed"
	case OutcomeRejected:
		return "Rejected"
	case OutcomeInvalidRequest:
		return "InvalidRequest"
	case OutcomeMalformedResponse:
		return "MalformedResponse"
	case OutcomeTimeout:
		return "Timeout"
	case OutcomeCancelled:
		return "Cancelled"
	case OutcomeCommunicationError:
		return "CommunicationError"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// StatusCode 对端返回的状态码
type StatusCode struct {
	Code           string `json:"code"`
	Description    string `json:"description,omitempty"`
	AdditionalInfo string `json:"additional_info,omitempty"`
}

// Exchange 每个出站调用的公共响应信息
type Exchange struct {
	CorrelationID    string
	RequestTimestamp time.Time
	Runtime          time.Duration
	Outcome          Outcome
	StatusCode       *StatusCode
	SessionID        *string
	PartnerSessionID *string
	// Description 失败时的诊断信息
	Description string
}

// Exchanged 返回公共响应信息
func (e *Exchange) Exchanged() *Exchange { return e }

// Result 所有出站结果都携带 Exchange
type Result interface {
	Exchanged() *Exchange
	Summary() string
}

// ReservationResult 预约结果
type ReservationResult int

const (
	ReservationSuccess ReservationResult = iota + 1
	ReservationInvalidCredentials
	ReservationTimeout
	ReservationCommunicationError
	ReservationAlreadyReserved
	ReservationAlreadyInUse
	ReservationUnknownEVSE
	ReservationOutOfService
	ReservationError
)

func (r ReservationResult) String() string {
	switch r {
	case ReservationSuccess:
		return "Success"
	case ReservationInvalidCredentials:
		return "InvalidCredentials"
	case ReservationTimeout:
		return "Timeout"
	case ReservationCommunicationError:
		return "CommunicationError"
	case ReservationAlreadyReserved:
		return "AlreadyReserved"
	case ReservationAlreadyInUse:
		return "AlreadyInUse"
	case ReservationUnknownEVSE:
		return "UnknownEVSE"
	case ReservationOutOfService:
		return "OutOfService"
	case ReservationError:
		return "Error"
	}
	return fmt.Sprintf("ReservationResult(%d)", int(r))
}

// AllReservationResults 返回全部取值
func AllReservationResults() []ReservationResult {
	return []ReservationResult{
		ReservationSuccess, ReservationInvalidCredentials, ReservationTimeout,
		ReservationCommunicationError, ReservationAlreadyReserved, ReservationAlreadyInUse,
		ReservationUnknownEVSE, ReservationOutOfService, ReservationError,
	}
}

// CancelReservationResult 取消预约结果
type CancelReservationResult int

const (
	CancelReservationSuccess CancelReservationResult = iota + 1
	CancelReservationUnknownReservation
	CancelReservationUnknownEVSE
	CancelReservationTimeout
	CancelReservationCommunicationError
	CancelReservationError
)

func (r CancelReservationResult) String() string {
	switch r {
	case CancelReservationSuccess:
		return "Success"
	case CancelReservationUnknownReservation:
		return "UnknownReservation"
	case CancelReservationUnknownEVSE:
		return "UnknownEVSE"
	case CancelReservationTimeout:
		return "Timeout"
	case CancelReservationCommunicationError:
		return "CommunicationError"
	case CancelReservationError:
		return "Error"
	}
	return fmt.Sprintf("CancelReservationResult(%d)", int(r))
}

func AllCancelReservationResults() []CancelReservationResult {
	return []CancelReservationResult{
		CancelReservationSuccess, CancelReservationUnknownReservation, CancelReservationUnknownEVSE,
		CancelReservationTimeout, CancelReservationCommunicationError, CancelReservationError,
	}
}

// RemoteStartResult 远程启动结果
type RemoteStartResult int

const (
	RemoteStartSuccess RemoteStartResult = iota + 1
	RemoteStartInvalidCredentials
	RemoteStartInvalidSessionID
	RemoteStartTimeout
	RemoteStartCommunicationError
	RemoteStartAlreadyReserved
	RemoteStartAlreadyInUse
	RemoteStartUnknownEVSE
	RemoteStartOutOfService
	RemoteStartNoEVConnected
	RemoteStartError
)

func (r RemoteStartResult) String() string {
	switch r {
	case RemoteStartSuccess:
		return "Success"
	case RemoteStartInvalidCredentials:
		return "InvalidCredentials"
	case RemoteStartInvalidSessionID:
		return "InvalidSessionID"
	case RemoteStartTimeout:
		return "Timeout"
	case RemoteStartCommunicationError:
		return "CommunicationError"
	case RemoteStartAlreadyReserved:
		return "AlreadyReserved"
	case RemoteStartAlreadyInUse:
		return "AlreadyInUse"
	case RemoteStartUnknownEVSE:
		return "UnknownEVSE"
	case RemoteStartOutOfService:
		return "OutOfService"
	case RemoteStartNoEVConnected:
		return "NoEVConnected"
	case RemoteStartError:
		return "Error"
	}
	return fmt.Sprintf("RemoteStartResult(%d)", int(r))
}

func AllRemoteStartResults() []RemoteStartResult {
	return []RemoteStartResult{
		RemoteStartSuccess, RemoteStartInvalidCredentials, RemoteStartInvalidSessionID,
		RemoteStartTimeout, RemoteStartCommunicationError, RemoteStartAlreadyReserved,
		RemoteStartAlreadyInUse, RemoteStartUnknownEVSE, RemoteStartOutOfService,
		RemoteStartNoEVConnected, RemoteStartError,
	}
}

// RemoteStopResult 远程停止结果
type RemoteStopResult int

const (
	RemoteStopSuccess RemoteStopResult = iota + 1
	RemoteStopInvalidSessionID
	RemoteStopUnknownEVSE
	RemoteStopOutOfService
	RemoteStopTimeout
	RemoteStopCommunicationError
	RemoteStopError
)

func (r RemoteStopResult) String() string {
	switch r {
	case RemoteStopSuccess:
		return "Success"
	case RemoteStopInvalidSessionID:
		return "InvalidSessionID"
	case RemoteStopUnknownEVSE:
		return "UnknownEVSE"
	case RemoteStopOutOfService:
		return "OutOfService"
	case RemoteStopTimeout:
		return "Timeout"
	case RemoteStopCommunicationError:
		return "CommunicationError"
	case RemoteStopError:
		return "Error"
	}
	return fmt.Sprintf("RemoteStopResult(%d)", int(r))
}

func AllRemoteStopResults() []RemoteStopResult {
	return []RemoteStopResult{
		RemoteStopSuccess, RemoteStopInvalidSessionID, RemoteStopUnknownEVSE,
		RemoteStopOutOfService, RemoteStopTimeout, RemoteStopCommunicationError, RemoteStopError,
	}
}

// AuthorizationStatus 授权结论
type AuthorizationStatus int

const (
	Authorized AuthorizationStatus = iota + 1
	NotAuthorized
	AuthorizationError
)

func (s AuthorizationStatus) String() string {
	switch s {
	case Authorized:
		return "Authorized"
	case NotAuthorized:
		return "NotAuthorized"
	case AuthorizationError:
		return "Error"
	}
	return fmt.Sprintf("AuthorizationStatus(%d)", int(s))
}

// PushStatus 推送结果
type PushStatus int

const (
	PushSuccess PushStatus = iota + 1
	PushRejected
	PushInvalidRequest
	PushTimeout
	PushCommunicationError
	PushError
)

func (s PushStatus) String() string {
	switch s {
	case PushSuccess:
		return "Success"
	case PushRejected:
		return "Rejected"
	case PushInvalidRequest:
		return "InvalidRequest"
	case PushTimeout:
		return "Timeout"
	case PushCommunicationError:
		return "CommunicationError"
	case PushError:
		return "Error"
	}
	return fmt.Sprintf("PushStatus(%d)", int(s))
}

// SendCDRStatus 充电明细上报结果
type SendCDRStatus int

const (
	SendCDRForwarded SendCDRStatus = iota + 1
	SendCDRInvalidSessionID
	SendCDRRejected
	SendCDRInvalidRequest
	SendCDRTimeout
	SendCDRCommunicationError
	SendCDRError
)

func (s SendCDRStatus) String() string {
	switch s {
	case SendCDRForwarded:
		return "Forwarded"
	case SendCDRInvalidSessionID:
		return "InvalidSessionID"
	case SendCDRRejected:
		return "Rejected"
	case SendCDRInvalidRequest:
		return "InvalidRequest"
	case SendCDRTimeout:
		return "Timeout"
	case SendCDRCommunicationError:
		return "CommunicationError"
	case SendCDRError:
		return "Error"
	}
	return fmt.Sprintf("SendCDRStatus(%d)", int(s))
}

// PullStatus 拉取类操作的结果
type PullStatus int

const (
	PullSuccess PullStatus = iota + 1
	PullRejected
	PullInvalidRequest
	PullTimeout
	PullCommunicationError
	PullError
)

func (s PullStatus) String() string {
	switch s {
	case PullSuccess:
		return "Success"
	case PullRejected:
		return "Rejected"
	case PullInvalidRequest:
		return "InvalidRequest"
	case PullTimeout:
		return "Timeout"
	case PullCommunicationError:
		return "CommunicationError"
	case PullError:
		return "Error"
	}
	return fmt.Sprintf("PullStatus(%d)", int(s))
}
