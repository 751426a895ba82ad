package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 OICP_ROAMING_OPERATOR_ID
const EnvPrefix = "OICP"

// Config 应用程序配置结构
type Config struct {
	Roaming   RoamingConfig   `mapstructure:"roaming"`
	Endpoints EndpointsConfig `mapstructure:"endpoints"`
	Breaker   BreakerConfig   `mapstructure:"breaker"`
	Server    ServerConfig    `mapstructure:"server"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Sync      SyncConfig      `mapstructure:"sync"`
}

// RoamingConfig 本方身份与漫游门面参数
type RoamingConfig struct {
	Role           string        `mapstructure:"role"` // cpo, emp
	OperatorID     string        `mapstructure:"operator_id"`
	OperatorName   string        `mapstructure:"operator_name"`
	ProviderID     string        `mapstructure:"provider_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	IncludePayload bool          `mapstructure:"include_payload"`
}

// EndpointsConfig 对端地址及各服务路径
type EndpointsConfig struct {
	BaseURL            string `mapstructure:"base_url"`
	UserAgent          string `mapstructure:"user_agent"`
	EVSEData           string `mapstructure:"evse_data"`
	EVSEStatus         string `mapstructure:"evse_status"`
	Authorization      string `mapstructure:"authorization"`
	Reservation        string `mapstructure:"reservation"`
	AuthenticationData string `mapstructure:"authentication_data"`
}

// BreakerConfig 出站熔断配置
type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// ServerConfig 入站服务配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Path            string        `mapstructure:"path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	KeepAlivePeriod time.Duration `mapstructure:"keep_alive_period"`
	TLSCertFile     string        `mapstructure:"tls_cert_file"`
	TLSKeyFile      string        `mapstructure:"tls_key_file"`
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	SnapshotTTL  time.Duration `mapstructure:"snapshot_ttl"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	Enabled       bool           `mapstructure:"enabled"`
	Brokers       []string       `mapstructure:"brokers"`
	EventsTopic   string         `mapstructure:"events_topic"`
	StatusTopic   string         `mapstructure:"status_topic"`
	ConsumerGroup string         `mapstructure:"consumer_group"`
	Producer      ProducerConfig `mapstructure:"producer"`
	Consumer      ConsumerConfig `mapstructure:"consumer"`
}

// ProducerConfig Kafka生产者配置
type ProducerConfig struct {
	RetryMax       int           `mapstructure:"retry_max"`
	ReturnSuccess  bool          `mapstructure:"return_successes"`
	FlushFrequency time.Duration `mapstructure:"flush_frequency"`
}

// ConsumerConfig Kafka消费者配置
type ConsumerConfig struct {
	ReturnErrors   bool   `mapstructure:"return_errors"`
	OffsetsInitial string `mapstructure:"offsets_initial"` // oldest, newest
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	Async  bool   `mapstructure:"async"`
}

// MetricsConfig 监控指标配置
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// SyncConfig 状态同步配置
type SyncConfig struct {
	Interval             time.Duration `mapstructure:"interval"`
	SerializePerOperator bool          `mapstructure:"serialize_per_operator"`
	FullLoadOnStart      bool          `mapstructure:"full_load_on_start"`
	// StationsFile JSON 格式的站点目录，为空时不推送静态数据
	StationsFile         string        `mapstructure:"stations_file"`
}

// SetDefaults 注册默认值。
// AutomaticEnv 只覆盖已知的键，所以每个配置项都需要一个默认值，哪怕是零值。
func SetDefaults(v *viper.Viper) {
	v.SetDefault("roaming.role", "cpo")
	v.SetDefault("roaming.operator_id", "")
	v.SetDefault("roaming.operator_name", "")
	v.SetDefault("roaming.provider_id", "")
	v.SetDefault("roaming.request_timeout", 20*time.Second)
	v.SetDefault("roaming.handler_timeout", 30*time.Second)
	v.SetDefault("roaming.include_payload", false)

	v.SetDefault("endpoints.base_url", "https://service.hubject.com")
	v.SetDefault("endpoints.user_agent", "oicp-roaming")
	v.SetDefault("endpoints.evse_data", "/ibis/ws/eRoamingEvseData_V2.1")
	v.SetDefault("endpoints.evse_status", "/ibis/ws/eRoamingEvseStatus_V2.1")
	v.SetDefault("endpoints.authorization", "/ibis/ws/eRoamingAuthorization_V2.0")
	v.SetDefault("endpoints.reservation", "/ibis/ws/eRoamingReservation_V1.0")
	v.SetDefault("endpoints.authentication_data", "/ibis/ws/eRoamingAuthenticationData_V2.0")

	v.SetDefault("breaker.max_requests", 3)
	v.SetDefault("breaker.interval", time.Minute)
	v.SetDefault("breaker.timeout", 30*time.Second)
	v.SetDefault("breaker.min_requests", 10)
	v.SetDefault("breaker.failure_ratio", 0.6)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8443)
	v.SetDefault("server.path", "/ws")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.keep_alive_period", 30*time.Second)
	v.SetDefault("server.tls_cert_file", "")
	v.SetDefault("server.tls_key_file", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.key_prefix", "oicp:status:")
	v.SetDefault("redis.snapshot_ttl", time.Duration(0))

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.events_topic", "oicp-roaming-events")
	v.SetDefault("kafka.status_topic", "evse-status-changes")
	v.SetDefault("kafka.consumer_group", "oicp-roaming")
	v.SetDefault("kafka.producer.retry_max", 3)
	v.SetDefault("kafka.producer.return_successes", false)
	v.SetDefault("kafka.producer.flush_frequency", 500*time.Millisecond)
	v.SetDefault("kafka.consumer.return_errors", true)
	v.SetDefault("kafka.consumer.offsets_initial", "newest")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.async", true)

	v.SetDefault("metrics.addr", ":9090")

	v.SetDefault("sync.interval", time.Minute)
	v.SetDefault("sync.serialize_per_operator", true)
	v.SetDefault("sync.full_load_on_start", false)
	v.SetDefault("sync.stations_file", "")
}

// New 创建带默认值和环境变量绑定的 viper 实例。
// configFile 为空时只使用默认值和环境变量。
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load 加载配置
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return Unmarshal(v)
}

// Unmarshal 把 viper 实例解析为配置并校验
func Unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验必填项
func (c *Config) Validate() error {
	switch c.Roaming.Role {
	case "cpo":
		if c.Roaming.OperatorID == "" {
			return fmt.Errorf("roaming.operator_id is required for role cpo")
		}
	case "emp":
		if c.Roaming.ProviderID == "" {
			return fmt.Errorf("roaming.provider_id is required for role emp")
		}
	default:
		return fmt.Errorf("unknown roaming.role %q", c.Roaming.Role)
	}
	if c.Endpoints.BaseURL == "" {
		return fmt.Errorf("endpoints.base_url is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka is enabled")
	}
	return nil
}

// GetServerAddr 获取服务器地址
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetMetricsAddr 获取监控地址
func (c *Config) GetMetricsAddr() string {
	return c.Metrics.Addr
}

// IsCPO 本方是否为充电运营商
func (c *Config) IsCPO() bool {
	return c.Roaming.Role == "cpo"
}
