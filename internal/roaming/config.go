package roaming

import (
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// Endpoints 各服务的端点路径，相对于传输层的基础地址
type Endpoints struct {
	EVSEData           string `mapstructure:"evse_data"`
	EVSEStatus         string `mapstructure:"evse_status"`
	Authorization      string `mapstructure:"authorization"`
	Reservation        string `mapstructure:"reservation"`
	AuthenticationData string `mapstructure:"authentication_data"`
}

// DefaultEndpoints 对端默认路径
func DefaultEndpoints() Endpoints {
	return Endpoints{
		EVSEData:           "/ibis/ws/eRoamingEvseData_V2.1",
		EVSEStatus:         "/ibis/ws/eRoamingEvseStatus_V2.1",
		Authorization:      "/ibis/ws/eRoamingAuthorization_V2.0",
		Reservation:        "/ibis/ws/eRoamingReservation_V1.0",
		AuthenticationData: "/ibis/ws/eRoamingAuthenticationData_V2.0",
	}
}

// Path 返回服务对应的路径
func (e Endpoints) Path(s oicp.Service) string {
	switch s {
	case oicp.ServiceEVSEData:
		return e.EVSEData
	case oicp.ServiceEVSEStatus:
		return e.EVSEStatus
	case oicp.ServiceAuthorization:
		return e.Authorization
	case oicp.ServiceReservation:
		return e.Reservation
	case oicp.ServiceAuthenticationData:
		return e.AuthenticationData
	}
	return ""
}

// Config 漫游门面配置
type Config struct {
	// RequestTimeout 请求未指定超时时使用
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	// HandlerTimeout 入站命令等待本地处理器的最长时间
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	// IncludePayload 观测事件是否携带负载原文
	IncludePayload bool      `mapstructure:"include_payload"`
	Endpoints      Endpoints `mapstructure:"endpoints"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 20 * time.Second,
		HandlerTimeout: 30 * time.Second,
		Endpoints:      DefaultEndpoints(),
	}
}
