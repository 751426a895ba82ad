package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/codec"
)

var (
	// ErrTimeout 调用超时
	ErrTimeout = errors.New("transport: request timed out")
	// ErrCancelled 调用方取消
	ErrCancelled = errors.New("transport: request cancelled")
)

// Transport 出站消息的传输接口
type Transport interface {
	// Send 发送一条消息并返回原始响应。timeout 为 0 时只受 ctx 约束。
	Send(ctx context.Context, endpointPath string, msg codec.WireMessage, timeout time.Duration) ([]byte, error)
}

// TransportError 网络层失败或对端返回非成功且不含 SOAP 内容的 HTTP 响应
type TransportError struct {
	Endpoint   string
	StatusCode int
	Cause      error
}

// Error 实现error接口
func (e TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("transport error on %s: HTTP %d: %v", e.Endpoint, e.StatusCode, e.Cause)
	case e.StatusCode != 0:
		return fmt.Sprintf("transport error on %s: HTTP %d", e.Endpoint, e.StatusCode)
	default:
		return fmt.Sprintf("transport error on %s: %v", e.Endpoint, e.Cause)
	}
}

func (e TransportError) Unwrap() error { return e.Cause }

// ContextError 把 context 错误转换为 ErrTimeout/ErrCancelled，其他错误返回 nil
func ContextError(err error) error {
	switch {
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	case errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
		return ErrCancelled
	}
	return nil
}
