package emobility

import "fmt"

// PushResult 推送站点数据或状态的结果
type PushResult struct {
	Exchange
	Status      PushStatus
	Action      SyncAction
	RecordCount int
}

func (r *PushResult) Summary() string {
	return fmt.Sprintf("%s %d record(s): %s", r.Action, r.RecordCount, r.Status)
}

// AuthorizationResult 启动/停止授权的结果
type AuthorizationResult struct {
	Exchange
	Status              AuthorizationStatus
	ProviderID          *ProviderID
	StopIdentifications []Identification
}

func (r *AuthorizationResult) Summary() string {
	if r.Description != "" {
		return fmt.Sprintf("%s: %s", r.Status, r.Description)
	}
	return r.Status.String()
}

// ReservationResponse 出站预约的结果
type ReservationResponse struct {
	Exchange
	Result ReservationResult
}

func (r *ReservationResponse) Summary() string { return r.Result.String() }

// CancelReservationResponse 出站取消预约的结果
type CancelReservationResponse struct {
	Exchange
	Result CancelReservationResult
}

func (r *CancelReservationResponse) Summary() string { return r.Result.String() }

// RemoteStartResponse 出站远程启动的结果
type RemoteStartResponse struct {
	Exchange
	Result RemoteStartResult
}

func (r *RemoteStartResponse) Summary() string { return r.Result.String() }

// RemoteStopResponse 出站远程停止的结果
type RemoteStopResponse struct {
	Exchange
	Result RemoteStopResult
}

func (r *RemoteStopResponse) Summary() string { return r.Result.String() }

// SendCDRResult 充电明细上报结果
type SendCDRResult struct {
	Exchange
	Status SendCDRStatus
}

func (r *SendCDRResult) Summary() string { return r.Status.String() }

// OperatorStatuses 一个运营商下的状态记录
type OperatorStatuses struct {
	OperatorID   OperatorID
	OperatorName *string
	Records      []StatusRecord
}

// PullStatusResult 拉取状态的结果
type PullStatusResult struct {
	Exchange
	Status    PullStatus
	Operators []OperatorStatuses
}

func (r *PullStatusResult) Summary() string {
	n := 0
	for _, op := range r.Operators {
		n += len(op.Records)
	}
	return fmt.Sprintf("%s: %d status record(s)", r.Status, n)
}

// OperatorStations 一个运营商下的站点数据
type OperatorStations struct {
	OperatorID   OperatorID
	OperatorName *string
	Records      []StationRecord
}

// PullDataResult 拉取站点数据的结果
type PullDataResult struct {
	Exchange
	Status    PullStatus
	Operators []OperatorStations
}

func (r *PullDataResult) Summary() string {
	n := 0
	for _, op := range r.Operators {
		n += len(op.Records)
	}
	return fmt.Sprintf("%s: %d station record(s)", r.Status, n)
}

// ProviderAuthentication 一个服务商的授权标识
type ProviderAuthentication struct {
	ProviderID      ProviderID
	Identifications []Identification
}

// PullAuthenticationDataResult 拉取授权白名单的结果
type PullAuthenticationDataResult struct {
	Exchange
	Status    PullStatus
	Providers []ProviderAuthentication
}

func (r *PullAuthenticationDataResult) Summary() string {
	n := 0
	for _, p := range r.Providers {
		n += len(p.Identifications)
	}
	return fmt.Sprintf("%s: %d identification(s) from %d provider(s)", r.Status, n, len(r.Providers))
}
