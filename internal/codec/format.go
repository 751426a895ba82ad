package codec

import (
	"strconv"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// 数值一律用 strconv 输出：小数点为 '.'，无千分位，与宿主区域设置无关

// FormatCoordinate 经纬度固定 6 位小数
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', oicp.CoordinatePrecision, 64)
}

// FormatDecimal 最短精确表示
func FormatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatTimestamp 统一转为 UTC 毫秒精度
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(oicp.TimestampLayout)
}

// ParseTimestamp 兼容带或不带毫秒的 ISO 8601
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(oicp.TimestampLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func actionType(a emobility.SyncAction) (string, bool) {
	switch a {
	case emobility.ActionFullLoad:
		return oicp.ActionTypeFullLoad, true
	case emobility.ActionInsert:
		return oicp.ActionTypeInsert, true
	case emobility.ActionUpdate:
		return oicp.ActionTypeUpdate, true
	case emobility.ActionDelete:
		return oicp.ActionTypeDelete, true
	}
	return "", false
}

func parseActionType(s string) (emobility.SyncAction, bool) {
	switch s {
	case oicp.ActionTypeFullLoad:
		return emobility.ActionFullLoad, true
	case oicp.ActionTypeInsert:
		return emobility.ActionInsert, true
	case oicp.ActionTypeUpdate:
		return emobility.ActionUpdate, true
	case oicp.ActionTypeDelete:
		return emobility.ActionDelete, true
	}
	return 0, false
}

func evseStatusName(s emobility.EVSEStatus) (string, bool) {
	switch s {
	case emobility.StatusAvailable:
		return oicp.EvseStatusAvailable, true
	case emobility.StatusReserved:
		return oicp.EvseStatusReserved, true
	case emobility.StatusOccupied:
		return oicp.EvseStatusOccupied, true
	case emobility.StatusOutOfService:
		return oicp.EvseStatusOutOfService, true
	case emobility.StatusEvseNotFound:
		return oicp.EvseStatusEvseNotFound, true
	case emobility.StatusUnknown:
		return oicp.EvseStatusUnknown, true
	}
	return "", false
}

// parseEvseStatusName 未知取值按 Unknown 处理
func parseEvseStatusName(s string) emobility.EVSEStatus {
	switch s {
	case oicp.EvseStatusAvailable:
		return emobility.StatusAvailable
	case oicp.EvseStatusReserved:
		return emobility.StatusReserved
	case oicp.EvseStatusOccupied:
		return emobility.StatusOccupied
	case oicp.EvseStatusOutOfService:
		return emobility.StatusOutOfService
	case oicp.EvseStatusEvseNotFound:
		return emobility.StatusEvseNotFound
	}
	return emobility.StatusUnknown
}

func ptr[T any](v T) *T { return &v }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional 空串视为缺省
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatOptionalDecimal(v *float64) *string {
	if v == nil {
		return nil
	}
	return ptr(FormatDecimal(*v))
}

func formatOptionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	return ptr(FormatTimestamp(*t))
}
