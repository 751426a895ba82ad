package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/charging-platform/oicp-roaming/internal/codec"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
	"github.com/charging-platform/oicp-roaming/internal/transport"
)

const (
	contentType     = "text/xml; charset=utf-8"
	maxResponseSize = 16 << 20
)

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	Name         string        `mapstructure:"name"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// Config SOAP 客户端配置
type Config struct {
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Breaker   BreakerConfig `mapstructure:"breaker"`
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		UserAgent: "oicp-roaming",
		Breaker: BreakerConfig{
			Name:         "oicp-soap",
			MaxRequests:  3,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  5,
			FailureRatio: 0.6,
		},
	}
}

// Client 基于 HTTP 的 SOAP 传输，外层包一层熔断器
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker
	log       *logger.Logger
}

// Option 配置 Client
type Option func(*Client)

// WithHTTPClient 替换底层 HTTP 客户端（TLS、连接池由调用方配置）
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger 设置日志器
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient 创建 SOAP 客户端
func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{},
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	bc := cfg.Breaker
	if bc.Name == "" {
		bc.Name = DefaultConfig().Breaker.Name
	}
	metrics.BreakerState.WithLabelValues(bc.Name).Set(float64(gobreaker.StateClosed))

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        bc.Name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests || counts.Requests == 0 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			c.log.WarnEvent().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
		// 调用方取消或超时不计入熔断
		IsSuccessful: func(err error) bool {
			return err == nil || transport.ContextError(err) != nil
		},
	})
	return c
}

// State 当前熔断状态
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}

// Send 实现 transport.Transport。
// 非 2xx 响应若携带 SOAP 内容则原样返回，由编解码层识别故障。
func (c *Client) Send(ctx context.Context, endpointPath string, msg codec.WireMessage, timeout time.Duration) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	endpoint := c.baseURL + endpointPath

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, endpoint, msg)
	})
	if err != nil {
		if ctxErr := transport.ContextError(err); ctxErr != nil {
			return nil, ctxErr
		}
		if ctxErr := transport.ContextError(ctx.Err()); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, transport.TransportError{Endpoint: endpoint, Cause: err}
		}
		return nil, err
	}
	return out.([]byte), nil
}

func (c *Client) do(ctx context.Context, endpoint string, msg codec.WireMessage) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(msg.Payload))
	if err != nil {
		return nil, transport.TransportError{Endpoint: endpoint, Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("SOAPAction", fmt.Sprintf("%q", string(msg.Operation)))
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := transport.ContextError(err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transport.TransportError{Endpoint: endpoint, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		if ctxErr := transport.ContextError(err); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, transport.TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode, Cause: err}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}
	if resp.StatusCode >= 500 && isSOAP(body) {
		c.log.Debugf("SOAP fault from %s (HTTP %d)", endpoint, resp.StatusCode)
		return body, nil
	}
	return nil, transport.TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
}

func isSOAP(body []byte) bool {
	return bytes.Contains(body, []byte("Envelope")) && bytes.Contains(body, []byte("Fault"))
}
