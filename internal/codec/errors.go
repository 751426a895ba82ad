package codec

import (
	"fmt"

	"github.com/charging-platform/oicp-roaming/internal/domain/oicp"
)

// ValidationError 调用方传入的数据不合法或自相矛盾，发送前即拒绝
type ValidationError struct {
	Operation string
	Field     string
	Message   string
	Cause     error
}

// Error 实现error接口
func (e ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s: %s", e.Operation, e.Field, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

func (e ValidationError) Unwrap() error { return e.Cause }

// MalformedResponseError 响应不是合法 XML，或既没有期望的根元素也没有故障元素
type MalformedResponseError struct {
	Expected string
	Message  string
	Cause    error
}

// Error 实现error接口
func (e MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed response (expected %s): %s (caused by: %v)", e.Expected, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed response (expected %s): %s", e.Expected, e.Message)
}

func (e MalformedResponseError) Unwrap() error { return e.Cause }

// ProtocolFault 结构合法但对端报告失败（SOAP Fault 或 Result=false 的应答）
type ProtocolFault struct {
	Code           string
	Description    string
	AdditionalInfo string
	// Acknowledgement 故障来自应答元素时保留原文，便于上层取会话编号
	Acknowledgement *oicp.Acknowledgement
}

// Error 实现error接口
func (e ProtocolFault) Error() string {
	if e.AdditionalInfo != "" {
		return fmt.Sprintf("protocol fault %s: %s (%s)", e.Code, e.Description, e.AdditionalInfo)
	}
	return fmt.Sprintf("protocol fault %s: %s", e.Code, e.Description)
}

func faultFromAcknowledgement(ack *oicp.Acknowledgement) ProtocolFault {
	fault := ProtocolFault{Acknowledgement: ack}
	if ack.StatusCode != nil {
		fault.Code = ack.StatusCode.Code
		fault.Description = deref(ack.StatusCode.Description)
		fault.AdditionalInfo = deref(ack.StatusCode.AdditionalInfo)
	}
	return fault
}

func faultFromSOAP(f *oicp.Fault) ProtocolFault {
	fault := ProtocolFault{Code: f.FaultCode, Description: f.FaultString}
	if fault.Code == "" {
		fault.Code = f.Code12
	}
	if fault.Description == "" {
		fault.Description = f.Reason12
	}
	if f.Detail != nil {
		fault.AdditionalInfo = f.Detail.Content
	}
	return fault
}
