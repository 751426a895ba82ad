package emobility

import "time"

// RequestMeta 出站请求的公共参数，零值字段由门面补齐
type RequestMeta struct {
	CorrelationID    string
	RequestTimestamp time.Time
	// Timeout 为 0 时使用客户端默认超时
	Timeout time.Duration
}

// Meta 返回公共参数
func (m *RequestMeta) Meta() *RequestMeta { return m }

// PushStationDataRequest 推送站点静态数据，调用方保证记录已按运营商分组
type PushStationDataRequest struct {
	RequestMeta
	OperatorID   OperatorID
	OperatorName *string
	Action       SyncAction
	Records      []StationRecord
}

// PushStatusRequest 推送实时状态
type PushStatusRequest struct {
	RequestMeta
	OperatorID   OperatorID
	OperatorName *string
	Action       SyncAction
	Records      []StatusRecord
}

// AuthorizeStartRequest 启动授权
type AuthorizeStartRequest struct {
	RequestMeta
	OperatorID       OperatorID
	Identification   Identification
	EVSEID           *EVSEID
	SessionID        *string
	PartnerSessionID *string
	PartnerProductID *string
}

// AuthorizeStopRequest 停止授权
type AuthorizeStopRequest struct {
	RequestMeta
	OperatorID       OperatorID
	SessionID        string
	Identification   Identification
	EVSEID           *EVSEID
	PartnerSessionID *string
}

// ReserveRequest 预约充电点
type ReserveRequest struct {
	RequestMeta
	ProviderID       ProviderID
	EVSEID           EVSEID
	Identification   Identification
	SessionID        *string
	PartnerSessionID *string
	Product          *ProductDescriptor
}

// CancelReservationRequest 取消预约
type CancelReservationRequest struct {
	RequestMeta
	ProviderID       ProviderID
	EVSEID           EVSEID
	SessionID        string
	PartnerSessionID *string
}

// RemoteStartRequest 远程启动
type RemoteStartRequest struct {
	RequestMeta
	ProviderID       ProviderID
	EVSEID           EVSEID
	Identification   Identification
	SessionID        *string
	PartnerSessionID *string
	Product          *ProductDescriptor
}

// RemoteStopRequest 远程停止
type RemoteStopRequest struct {
	RequestMeta
	ProviderID       ProviderID
	EVSEID           EVSEID
	SessionID        string
	PartnerSessionID *string
}

// SendChargeRecordRequest 上报充电明细
type SendChargeRecordRequest struct {
	RequestMeta
	Record ChargeDetailRecord
}

// PullStatusRequest 全量或按区域拉取状态；SearchCenter 为空或 RadiusKM 为 0 时不带区域条件
type PullStatusRequest struct {
	RequestMeta
	ProviderID   ProviderID
	SearchCenter *GeoCoordinates
	RadiusKM     float64
	StatusFilter *EVSEStatus
}

// PullStatusByIDRequest 按编号拉取状态
type PullStatusByIDRequest struct {
	RequestMeta
	ProviderID ProviderID
	EVSEIDs    []EVSEID
}

// PullDataRequest 拉取站点数据，区域条件与 LastCall 互斥
type PullDataRequest struct {
	RequestMeta
	ProviderID   ProviderID
	SearchCenter *GeoCoordinates
	RadiusKM     float64
	LastCall     *time.Time
}

// PullAuthenticationDataRequest 拉取授权白名单
type PullAuthenticationDataRequest struct {
	RequestMeta
	OperatorID OperatorID
}

// ReservationCommand 对端发起的预约或远程启动命令
type ReservationCommand struct {
	CorrelationID    string
	SessionID        *string
	PartnerSessionID *string
	ProviderID       ProviderID
	EVSEID           EVSEID
	Identification   Identification
	Product          *ProductDescriptor
}

// SessionCommand 对端发起的取消预约或远程停止命令
type SessionCommand struct {
	CorrelationID    string
	SessionID        string
	PartnerSessionID *string
	ProviderID       ProviderID
	EVSEID           EVSEID
}
