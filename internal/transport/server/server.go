package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charging-platform/oicp-roaming/internal/logger"
)

// Config 入站 HTTP 服务配置
type Config struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	KeepAlivePeriod time.Duration `mapstructure:"keep_alive_period"`
	TLSCertFile     string        `mapstructure:"tls_cert_file"`
	TLSKeyFile      string        `mapstructure:"tls_key_file"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            8443,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		MaxHeaderBytes:  1 << 20, // 1MB
		KeepAlivePeriod: 30 * time.Second,
	}
}

// Addr 监听地址
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server 承载对端命令通道的 HTTP 服务
type Server struct {
	config *Config
	server *http.Server
	logger *logger.Logger

	mu       sync.RWMutex
	listener net.Listener
}

// New 创建服务，routes 为路径到处理器的映射，/health 自动注册
func New(config *Config, routes map[string]http.Handler, log *logger.Logger) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}

	s := &Server{config: config, logger: log}

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.Handle(path, h)
	}
	mux.HandleFunc("/health", s.handleHealth)

	s.server = &http.Server{
		Addr:           config.Addr(),
		Handler:        mux,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		IdleTimeout:    config.IdleTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}
	return s
}

// Listen 建立监听，端口为 0 时由系统分配
func (s *Server) Listen() (net.Addr, error) {
	lc := net.ListenConfig{KeepAlive: s.config.KeepAlivePeriod}
	ln, err := lc.Listen(context.Background(), "tcp", s.config.Addr())
	if err != nil {
		return nil, err
	}
	if tcp, ok := ln.(*net.TCPListener); ok {
		ln = &tcpKeepAliveListener{TCPListener: tcp, period: s.config.KeepAlivePeriod}
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Infof("inbound server listening on %s", ln.Addr().String())
	return ln.Addr(), nil
}

// Serve 在已建立的监听上提供服务，直到 Stop
func (s *Server) Serve() error {
	s.mu.RLock()
	ln := s.listener
	s.mu.RUnlock()
	if ln == nil {
		return net.ErrClosed
	}

	var err error
	if s.config.TLSCertFile != "" && s.config.TLSKeyFile != "" {
		err = s.server.ServeTLS(ln, s.config.TLSCertFile, s.config.TLSKeyFile)
	} else {
		err = s.server.Serve(ln)
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Start 监听并阻塞提供服务
func (s *Server) Start() error {
	if _, err := s.Listen(); err != nil {
		return err
	}
	return s.Serve()
}

// Stop 优雅关闭，失败时强制关闭
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping inbound server")
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Errorf("error during server shutdown: %v", err)
		return s.server.Close()
	}
	s.logger.Info("inbound server stopped")
	return nil
}

// GetAddr 获取监听地址
func (s *Server) GetAddr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// HealthCheck 健康检查
func (s *Server) HealthCheck() error {
	if s.GetAddr() == nil {
		return net.ErrClosed
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{"status": "ok"}
	code := http.StatusOK
	if err := s.HealthCheck(); err != nil {
		status["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// tcpKeepAliveListener 为每个连接开启 keep-alive 并关闭 Nagle
type tcpKeepAliveListener struct {
	*net.TCPListener
	period time.Duration
}

func (l *tcpKeepAliveListener) Accept() (net.Conn, error) {
	conn, err := l.TCPListener.AcceptTCP()
	if err != nil {
		return nil, err
	}
	if l.period > 0 {
		_ = conn.SetKeepAlive(true)
		_ = conn.SetKeepAlivePeriod(l.period)
	}
	_ = conn.SetNoDelay(true)
	return conn, nil
}
