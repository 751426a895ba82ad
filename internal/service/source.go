package service

import (
	"context"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
)

// StatusSource 本地充电网络的当前状态
type StatusSource interface {
	// Operators 返回有状态数据的运营商
	Operators() []emobility.OperatorID
	// Current 返回运营商当前的全部状态记录
	Current(ctx context.Context, operatorID emobility.OperatorID) ([]emobility.StatusRecord, error)
}

// StationSource 本地充电网络的站点静态数据
type StationSource interface {
	Stations(ctx context.Context, operatorID emobility.OperatorID) ([]emobility.StationRecord, error)
}
