package oicp

import "encoding/xml"

// Envelope SOAP 1.1 信封
type Envelope struct {
	XMLName xml.Name     `xml:"http://schemas.xmlsoap.org/soap/envelope/ Envelope"`
	Body    EnvelopeBody `xml:"http://schemas.xmlsoap.org/soap/envelope/ Body"`
}

// EnvelopeBody 信封体，Content 的元素名取自其 XMLName
type EnvelopeBody struct {
	Content interface{}
}

// Fault SOAP 故障元素，同时兼容 1.1 和 1.2 的写法
type Fault struct {
	XMLName     xml.Name
	FaultCode   string       `xml:"faultcode,omitempty"`
	FaultString string       `xml:"faultstring,omitempty"`
	Code12      string       `xml:"Code>Value,omitempty"`
	Reason12    string       `xml:"Reason>Text,omitempty"`
	Detail      *FaultDetail `xml:"detail,omitempty"`
}

// FaultDetail 故障详情原文
type FaultDetail struct {
	Content string `xml:",innerxml"`
}

// StatusCode 通用状态码块
type StatusCode struct {
	Code           string  `xml:"Code"`
	Description    *string `xml:"Description,omitempty"`
	AdditionalInfo *string `xml:"AdditionalInfo,omitempty"`
}

// Acknowledgement 通用写操作应答
type Acknowledgement struct {
	XMLName          xml.Name
	Result           bool        `xml:"Result"`
	StatusCode       *StatusCode `xml:"StatusCode,omitempty"`
	SessionID        *string     `xml:"SessionID,omitempty"`
	PartnerSessionID *string     `xml:"PartnerSessionID,omitempty"`
}

// GeoCoordinates 地理坐标，编码时只使用 DecimalDegree
type GeoCoordinates struct {
	DecimalDegree *DecimalDegree     `xml:"DecimalDegree,omitempty"`
	Google        *GoogleCoordinates `xml:"Google,omitempty"`
}

type DecimalDegree struct {
	Longitude string `xml:"Longitude"`
	Latitude  string `xml:"Latitude"`
}

type GoogleCoordinates struct {
	Coordinates string `xml:"Coordinates"`
}

// SearchCenter 区域检索条件
type SearchCenter struct {
	GeoCoordinates GeoCoordinates `xml:"GeoCoordinates"`
	Radius         string         `xml:"Radius"`
}

// Identification 用户身份标识（四选一）
type Identification struct {
	RFIDMifareFamily *RFIDMifareFamilyIdentification `xml:"RFIDmifarefamilyIdentification,omitempty"`
	QRCode           *QRCodeIdentification           `xml:"QRCodeIdentification,omitempty"`
	PlugAndCharge    *EVCOIdentification             `xml:"PlugAndChargeIdentification,omitempty"`
	Remote           *EVCOIdentification             `xml:"RemoteIdentification,omitempty"`
}

type RFIDMifareFamilyIdentification struct {
	UID string `xml:"UID"`
}

type QRCodeIdentification struct {
	EVCOID string  `xml:"EVCOID"`
	PIN    *string `xml:"PIN,omitempty"`
}

type EVCOIdentification struct {
	EVCOID string `xml:"EVCOID"`
}

// Address 站点地址
type Address struct {
	Country    string  `xml:"Country"`
	City       string  `xml:"City"`
	Street     string  `xml:"Street"`
	PostalCode *string `xml:"PostalCode,omitempty"`
	HouseNum   *string `xml:"HouseNum,omitempty"`
}

// EvseDataRecord 单个 EVSE 的静态数据
type EvseDataRecord struct {
	EvseID              string               `xml:"EvseId"`
	ChargingStationID   *string              `xml:"ChargingStationId,omitempty"`
	ChargingStationName *string              `xml:"ChargingStationName,omitempty"`
	Address             *Address             `xml:"Address,omitempty"`
	GeoCoordinates      *GeoCoordinates      `xml:"GeoCoordinates,omitempty"`
	Plugs               *Plugs               `xml:"Plugs,omitempty"`
	ChargingFacilities  *ChargingFacilities  `xml:"ChargingFacilities,omitempty"`
	AuthenticationModes *AuthenticationModes `xml:"AuthenticationModes,omitempty"`
	PaymentOptions      *PaymentOptions      `xml:"PaymentOptions,omitempty"`
	Accessibility       *string              `xml:"Accessibility,omitempty"`
	HotlinePhoneNum     *string              `xml:"HotlinePhoneNum,omitempty"`
	IsOpen24Hours       bool                 `xml:"IsOpen24Hours"`
	IsHubjectCompatible bool                 `xml:"IsHubjectCompatible"`
}

// 列表容器为 nil 时不输出元素，非 nil 的空容器输出空元素

type Plugs struct {
	Plug []string `xml:"Plug"`
}

type ChargingFacilities struct {
	ChargingFacility []string `xml:"ChargingFacility"`
}

type AuthenticationModes struct {
	AuthenticationMode []string `xml:"AuthenticationMode"`
}

type PaymentOptions struct {
	PaymentOption []string `xml:"PaymentOption"`
}

type OperatorEvseData struct {
	OperatorID     string           `xml:"OperatorID"`
	OperatorName   *string          `xml:"OperatorName,omitempty"`
	EvseDataRecord []EvseDataRecord `xml:"EvseDataRecord"`
}

// PushEvseData 推送站点数据
type PushEvseData struct {
	XMLName          xml.Name
	ActionType       string           `xml:"ActionType"`
	OperatorEvseData OperatorEvseData `xml:"OperatorEvseData"`
}

type EvseStatusRecord struct {
	EvseID     string `xml:"EvseId"`
	EvseStatus string `xml:"EvseStatus"`
}

type OperatorEvseStatus struct {
	OperatorID       string             `xml:"OperatorID"`
	OperatorName     *string            `xml:"OperatorName,omitempty"`
	EvseStatusRecord []EvseStatusRecord `xml:"EvseStatusRecord"`
}

// PushEvseStatus 推送实时状态
type PushEvseStatus struct {
	XMLName            xml.Name
	ActionType         string             `xml:"ActionType"`
	OperatorEvseStatus OperatorEvseStatus `xml:"OperatorEvseStatus"`
}

// PullEvseData 拉取站点数据
type PullEvseData struct {
	XMLName                      xml.Name
	ProviderID                   string        `xml:"ProviderID"`
	SearchCenter                 *SearchCenter `xml:"SearchCenter,omitempty"`
	LastCall                     *string       `xml:"LastCall,omitempty"`
	GeoCoordinatesResponseFormat string        `xml:"GeoCoordinatesResponseFormat"`
}

// EvseData 拉取站点数据的响应
type EvseData struct {
	XMLName          xml.Name
	OperatorEvseData []OperatorEvseData `xml:"EvseData>OperatorEvseData"`
	StatusCode       *StatusCode        `xml:"StatusCode,omitempty"`
}

// PullEvseStatus 按区域或全量拉取状态
type PullEvseStatus struct {
	XMLName      xml.Name
	ProviderID   string        `xml:"ProviderID"`
	SearchCenter *SearchCenter `xml:"SearchCenter,omitempty"`
	EvseStatus   *string       `xml:"EvseStatus,omitempty"`
}

// PullEvseStatusByID 按 EVSE 编号拉取状态
type PullEvseStatusByID struct {
	XMLName    xml.Name
	ProviderID string   `xml:"ProviderID"`
	EvseID     []string `xml:"EvseId"`
}

type EvseStatus struct {
	XMLName            xml.Name
	OperatorEvseStatus []OperatorEvseStatus `xml:"EvseStatuses>OperatorEvseStatus"`
	StatusCode         *StatusCode          `xml:"StatusCode,omitempty"`
}

type EvseStatusByID struct {
	XMLName          xml.Name
	EvseStatusRecord []EvseStatusRecord `xml:"EvseStatusRecords>EvseStatusRecord"`
	StatusCode       *StatusCode        `xml:"StatusCode,omitempty"`
}

// AuthorizeStart 启动授权请求
type AuthorizeStart struct {
	XMLName          xml.Name
	SessionID        *string        `xml:"SessionID,omitempty"`
	PartnerSessionID *string        `xml:"PartnerSessionID,omitempty"`
	OperatorID       string         `xml:"OperatorID"`
	EVSEID           *string        `xml:"EVSEID,omitempty"`
	Identification   Identification `xml:"Identification"`
	PartnerProductID *string        `xml:"PartnerProductID,omitempty"`
}

// AuthorizationStart 启动授权应答
type AuthorizationStart struct {
	XMLName                          xml.Name
	SessionID                        *string          `xml:"SessionID,omitempty"`
	PartnerSessionID                 *string          `xml:"PartnerSessionID,omitempty"`
	ProviderID                       *string          `xml:"ProviderID,omitempty"`
	AuthorizationStatus              string           `xml:"AuthorizationStatus"`
	StatusCode                       *StatusCode      `xml:"StatusCode,omitempty"`
	AuthorizationStopIdentifications []Identification `xml:"AuthorizationStopIdentifications>Identification"`
}

// AuthorizeStop 停止授权请求
type AuthorizeStop struct {
	XMLName          xml.Name
	SessionID        string         `xml:"SessionID"`
	PartnerSessionID *string        `xml:"PartnerSessionID,omitempty"`
	OperatorID       string         `xml:"OperatorID"`
	EVSEID           *string        `xml:"EVSEID,omitempty"`
	Identification   Identification `xml:"Identification"`
}

// AuthorizationStop 停止授权应答
type AuthorizationStop struct {
	XMLName             xml.Name
	SessionID           *string     `xml:"SessionID,omitempty"`
	PartnerSessionID    *string     `xml:"PartnerSessionID,omitempty"`
	ProviderID          *string     `xml:"ProviderID,omitempty"`
	AuthorizationStatus string      `xml:"AuthorizationStatus"`
	StatusCode          *StatusCode `xml:"StatusCode,omitempty"`
}

// ChargeDetailRecord 充电明细记录
type ChargeDetailRecord struct {
	XMLName              xml.Name
	SessionID            string         `xml:"SessionID"`
	PartnerSessionID     *string        `xml:"PartnerSessionID,omitempty"`
	PartnerProductID     *string        `xml:"PartnerProductID,omitempty"`
	EvseID               string         `xml:"EvseID"`
	Identification       Identification `xml:"Identification"`
	ChargingStart        *string        `xml:"ChargingStart,omitempty"`
	ChargingEnd          *string        `xml:"ChargingEnd,omitempty"`
	SessionStart         string         `xml:"SessionStart"`
	SessionEnd           string         `xml:"SessionEnd"`
	MeterValueStart      *string        `xml:"MeterValueStart,omitempty"`
	MeterValueEnd        *string        `xml:"MeterValueEnd,omitempty"`
	MeterValuesInBetween *MeterValues   `xml:"MeterValueInBetween,omitempty"`
	ConsumedEnergy       *string        `xml:"ConsumedEnergy,omitempty"`
	HubOperatorID        *string        `xml:"HubOperatorID,omitempty"`
	HubProviderID        *string        `xml:"HubProviderID,omitempty"`
}

// MeterValues 充电过程中的表计读数
type MeterValues struct {
	MeterValue []string `xml:"MeterValue"`
}

// AuthorizeRemoteStart 远程启动/预约启动共用的结构
type AuthorizeRemoteStart struct {
	XMLName          xml.Name
	SessionID        *string        `xml:"SessionID,omitempty"`
	PartnerSessionID *string        `xml:"PartnerSessionID,omitempty"`
	ProviderID       string         `xml:"ProviderID"`
	EVSEID           string         `xml:"EVSEID"`
	Identification   Identification `xml:"Identification"`
	PartnerProductID *string        `xml:"PartnerProductID,omitempty"`
}

// AuthorizeRemoteStop 远程停止/预约取消共用的结构
type AuthorizeRemoteStop struct {
	XMLName          xml.Name
	SessionID        string  `xml:"SessionID"`
	PartnerSessionID *string `xml:"PartnerSessionID,omitempty"`
	ProviderID       string  `xml:"ProviderID"`
	EVSEID           string  `xml:"EVSEID"`
}

// PullAuthenticationData 拉取授权数据
type PullAuthenticationData struct {
	XMLName    xml.Name
	OperatorID string `xml:"OperatorID"`
}

type AuthenticationDataRecord struct {
	Identification Identification `xml:"Identification"`
}

type ProviderAuthenticationData struct {
	ProviderID               string                     `xml:"ProviderID"`
	AuthenticationDataRecord []AuthenticationDataRecord `xml:"AuthenticationDataRecord"`
}

type AuthenticationData struct {
	XMLName                    xml.Name
	ProviderAuthenticationData []ProviderAuthenticationData `xml:"AuthenticationData>ProviderAuthenticationData"`
	StatusCode                 *StatusCode                  `xml:"StatusCode,omitempty"`
}
