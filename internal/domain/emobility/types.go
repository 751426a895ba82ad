package emobility

import (
	"fmt"
	"time"
)

// EVSEID 充电点编号，例如 DE*ABC*E123456
type EVSEID string

// OperatorID 运营商编号，例如 DE*ABC
type OperatorID string

// ProviderID 服务商编号，例如 DE*XYZ
type ProviderID string

// EVSEStatus 充电点实时状态
type EVSEStatus int

const (
	StatusAvailable EVSEStatus = iota + 1
	StatusReserved
	StatusOccupied
	StatusOutOfService
	StatusEvseNotFound
	StatusUnknown
)

// String 实现 fmt.Stringer
func (s EVSEStatus) String() string {
	switch s {
	case StatusAvailable:
		return "Available"
	case StatusReserved:
		return "Reserved"
	case StatusOccupied:
		return "Occupied"
	case StatusOutOfService:
		return "OutOfService"
	case StatusEvseNotFound:
		return "EvseNotFound"
	case StatusUnknown:
		return "Unknown"
	}
	return fmt.Sprintf("EVSEStatus(%d)", int(s))
}

// ParseEVSEStatus 将状态名解析为枚举
func ParseEVSEStatus(s string) (EVSEStatus, error) {
	for _, st := range AllEVSEStatuses() {
		if st.String() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown EVSE status %q", s)
}

// AllEVSEStatuses 返回全部状态
func AllEVSEStatuses() []EVSEStatus {
	return []EVSEStatus{StatusAvailable, StatusReserved, StatusOccupied, StatusOutOfService, StatusEvseNotFound, StatusUnknown}
}

// SyncAction 同步动作
type SyncAction int

const (
	ActionFullLoad SyncAction = iota + 1
	ActionInsert
	ActionUpdate
	ActionDelete
)

func (a SyncAction) String() string {
	switch a {
	case ActionFullLoad:
		return "FullLoad"
	case ActionInsert:
		return "Insert"
	case ActionUpdate:
		return "Update"
	case ActionDelete:
		return "Delete"
	}
	return fmt.Sprintf("SyncAction(%d)", int(a))
}

// Incremental 增量动作要求非空负载
func (a SyncAction) Incremental() bool {
	return a == ActionInsert || a == ActionUpdate || a == ActionDelete
}

// Address 站点地址
type Address struct {
	Country     string `json:"country" validate:"required"`
	City        string `json:"city" validate:"required"`
	Street      string `json:"street" validate:"required"`
	PostalCode  string `json:"postal_code,omitempty"`
	HouseNumber string `json:"house_number,omitempty"`
}

// GeoCoordinates 十进制经纬度
type GeoCoordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// StationRecord 充电点静态数据，由领域层构造，编解码层只读
type StationRecord struct {
	EVSEID              EVSEID          `json:"evse_id" validate:"required,evse_id"`
	OperatorID          OperatorID      `json:"operator_id" validate:"required,operator_id"`
	ChargingStationID   string          `json:"charging_station_id,omitempty"`
	ChargingStationName string          `json:"charging_station_name,omitempty"`
	Address             *Address        `json:"address,omitempty" validate:"omitempty"`
	GeoCoordinates      *GeoCoordinates `json:"geo_coordinates,omitempty" validate:"omitempty"`
	Plugs               []string        `json:"plugs,omitempty"`
	ChargingFacilities  []string        `json:"charging_facilities,omitempty"`
	AuthenticationModes []string        `json:"authentication_modes,omitempty"`
	PaymentOptions      []string        `json:"payment_options,omitempty"`
	Accessibility       string          `json:"accessibility,omitempty"`
	HotlinePhoneNumber  string          `json:"hotline_phone_number,omitempty"`
	IsOpen24Hours       bool            `json:"is_open_24_hours"`
	IsHubjectCompatible bool            `json:"is_hubject_compatible"`
}

// StatusRecord 某一时刻的充电点状态，同一 EVSE 可以有多条历史
type StatusRecord struct {
	ID        EVSEID     `json:"id"`
	Status    EVSEStatus `json:"status"`
	Timestamp time.Time  `json:"timestamp"`
}

// StatusDiff 一次同步周期的差异
type StatusDiff struct {
	OperatorID    OperatorID
	NewStatus     map[EVSEID]EVSEStatus
	ChangedStatus map[EVSEID]EVSEStatus
	RemovedIDs    map[EVSEID]struct{}
}

// IsEmpty 三个桶都为空
func (d StatusDiff) IsEmpty() bool {
	return len(d.NewStatus) == 0 && len(d.ChangedStatus) == 0 && len(d.RemovedIDs) == 0
}

// IdentificationKind 身份标识类型
type IdentificationKind int

const (
	IdentificationRFID IdentificationKind = iota + 1
	IdentificationQRCode
	IdentificationPlugAndCharge
	IdentificationRemote
)

// Identification 授权令牌
type Identification struct {
	Kind   IdentificationKind `json:"kind"`
	UID    string             `json:"uid,omitempty"`
	EVCOID string             `json:"evco_id,omitempty"`
	PIN    *string            `json:"pin,omitempty"`
}

// RFID 构造卡片标识
func RFID(uid string) Identification {
	return Identification{Kind: IdentificationRFID, UID: uid}
}

// RemoteEVCO 构造远程（合约号）标识
func RemoteEVCO(evcoID string) Identification {
	return Identification{Kind: IdentificationRemote, EVCOID: evcoID}
}

// ChargeDetailRecord 充电明细记录
type ChargeDetailRecord struct {
	SessionID            string
	PartnerSessionID     *string
	PartnerProductID     *string
	EVSEID               EVSEID
	Identification       Identification
	SessionStart         time.Time
	SessionEnd           time.Time
	ChargingStart        *time.Time
	ChargingEnd          *time.Time
	MeterValueStart      *float64
	MeterValueEnd        *float64
	MeterValuesInBetween []float64
	ConsumedEnergy       *float64
	HubOperatorID        *OperatorID
	HubProviderID        *ProviderID
}

// ProductDescriptor 远程启动时随 PartnerProductID 传入的产品描述
type ProductDescriptor struct {
	Product       string
	Duration      *time.Duration
	ReservationID *string
}
