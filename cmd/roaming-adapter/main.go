package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/charging-platform/oicp-roaming/internal/config"
	"github.com/charging-platform/oicp-roaming/internal/domain/emobility"
	"github.com/charging-platform/oicp-roaming/internal/logger"
	"github.com/charging-platform/oicp-roaming/internal/message"
	"github.com/charging-platform/oicp-roaming/internal/metrics"
	"github.com/charging-platform/oicp-roaming/internal/roaming"
	"github.com/charging-platform/oicp-roaming/internal/service"
	"github.com/charging-platform/oicp-roaming/internal/storage"
	"github.com/charging-platform/oicp-roaming/internal/transport/server"
	"github.com/charging-platform/oicp-roaming/internal/transport/soap"
)

func main() {
	configFile := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.RFC3339,
		Async:      cfg.Log.Async,
	})
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	log.Infof("Logger initialized, role %s", cfg.Roaming.Role)

	// 3. 初始化出站 SOAP 传输
	soapClient := soap.NewClient(soap.Config{
		BaseURL:   cfg.Endpoints.BaseURL,
		UserAgent: cfg.Endpoints.UserAgent,
		Breaker: soap.BreakerConfig{
			Name:         "oicp-soap",
			MaxRequests:  cfg.Breaker.MaxRequests,
			Interval:     cfg.Breaker.Interval,
			Timeout:      cfg.Breaker.Timeout,
			MinRequests:  cfg.Breaker.MinRequests,
			FailureRatio: cfg.Breaker.FailureRatio,
		},
	}, soap.WithLogger(log.WithComponent("soap")))
	log.Infof("SOAP transport initialized for %s", cfg.Endpoints.BaseURL)

	// 4. 初始化漫游门面
	adapter := roaming.New(soapClient, roaming.Config{
		RequestTimeout: cfg.Roaming.RequestTimeout,
		HandlerTimeout: cfg.Roaming.HandlerTimeout,
		IncludePayload: cfg.Roaming.IncludePayload,
		Endpoints: roaming.Endpoints{
			EVSEData:           cfg.Endpoints.EVSEData,
			EVSEStatus:         cfg.Endpoints.EVSEStatus,
			Authorization:      cfg.Endpoints.Authorization,
			Reservation:        cfg.Endpoints.Reservation,
			AuthenticationData: cfg.Endpoints.AuthenticationData,
		},
	}, log)
	adapter.Events().OnException(func(e roaming.Event) {
		log.Warnf("%s %s failed: %s", e.Direction, e.Operation, e.Outcome)
	})
	log.Info("Roaming facade initialized")

	// 5. 初始化快照存储
	var snapshots storage.SnapshotStore
	if cfg.Redis.Enabled {
		redisStore, err := storage.NewRedisSnapshotStore(cfg.Redis)
		if err != nil {
			log.Fatalf("Failed to initialize snapshot storage: %v", err)
		}
		snapshots = redisStore
		log.Infof("Redis snapshot storage initialized at %s", cfg.Redis.Addr)
	} else {
		snapshots = storage.NewMemorySnapshotStore()
		log.Warn("Redis disabled, snapshots are kept in memory and lost on restart")
	}

	// 6. 本地状态缓冲
	statuses := service.NewStatusBuffer()

	// 7. Kafka 事件发布与状态消费
	var (
		producer *message.KafkaProducer
		consumer *message.KafkaConsumer
	)
	if cfg.Kafka.Enabled {
		producer, err = message.NewKafkaProducer(cfg.Kafka, log.WithComponent("kafka-producer"))
		if err != nil {
			log.Fatalf("Failed to initialize Kafka producer: %v", err)
		}
		producer.Subscribe(adapter.Events())
		log.Infof("Kafka producer publishing roaming events to %s", cfg.Kafka.EventsTopic)

		consumer, err = message.NewKafkaConsumer(cfg.Kafka, log.WithComponent("kafka-consumer"))
		if err != nil {
			log.Fatalf("Failed to initialize Kafka consumer: %v", err)
		}
		if err := consumer.Start(statuses); err != nil {
			log.Fatalf("Failed to start Kafka consumer: %v", err)
		}
		log.Infof("Kafka consumer initialized with brokers: %v, group: %s", cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup)
	}

	// 8. 入站命令处理
	bridge := service.NewCommandBridge(statuses, nil, log.WithComponent("commands"))
	adapter.RegisterCommandHandler(bridge)
	log.Info("Inbound command handlers registered")

	// 9. 同步服务
	statusSync := service.NewStatusSyncService(adapter.Client, statuses, snapshots,
		service.WithSerialization(cfg.Sync.SerializePerOperator),
		service.WithOperatorName(cfg.Roaming.OperatorName),
		service.WithLogger(log.WithComponent("status-sync")),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.IsCPO() {
		operatorID := emobility.OperatorID(cfg.Roaming.OperatorID)
		if cfg.Sync.FullLoadOnStart {
			// 缓冲区为空时全量推送会清空对端数据
			if current, _ := statuses.Current(ctx, operatorID); len(current) == 0 {
				log.Warnf("No buffered status for %s, skipping initial full load", operatorID)
			} else if _, err := statusSync.FullLoad(ctx, operatorID); err != nil {
				log.Errorf("Initial status full load failed: %v", err)
			}
		}
		if cfg.Sync.StationsFile != "" {
			pushStations(ctx, adapter.Client, cfg, log)
		}
	}

	// 10. 启动服务
	inbound := server.New(&server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     cfg.Server.IdleTimeout,
		MaxHeaderBytes:  1 << 20,
		KeepAlivePeriod: cfg.Server.KeepAlivePeriod,
		TLSCertFile:     cfg.Server.TLSCertFile,
		TLSKeyFile:      cfg.Server.TLSKeyFile,
	}, map[string]http.Handler{cfg.Server.Path: adapter.Server}, log.WithComponent("http"))

	metricsServer := &http.Server{Addr: cfg.GetMetricsAddr(), Handler: metricsMux()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Inbound server starting on %s%s", cfg.GetServerAddr(), cfg.Server.Path)
		return inbound.Start()
	})
	g.Go(func() error {
		log.Infof("Metrics server starting on %s", cfg.GetMetricsAddr())
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.IsCPO() {
		g.Go(func() error {
			log.Infof("Status sync running every %s", cfg.Sync.Interval)
			if err := statusSync.Run(gctx, cfg.Sync.Interval); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	log.Info("OICP roaming adapter started successfully")

	// 11. 监听并处理优雅停机
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		log.Info("Shutting down server...")
	case <-gctx.Done():
		log.Error("A component stopped unexpectedly, shutting down")
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// 1. 关闭入站服务
	if err := inbound.Stop(shutdownCtx); err != nil {
		log.Errorf("Error shutting down inbound server: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics server: %v", err)
	}

	// 2. 关闭 Kafka
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Errorf("Error closing Kafka consumer: %v", err)
		}
		log.Info("Kafka consumer closed")
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Errorf("Error closing Kafka producer: %v", err)
		}
		log.Info("Kafka producer closed")
	}

	// 3. 关闭快照存储
	if err := snapshots.Close(); err != nil {
		log.Errorf("Error closing storage: %v", err)
	}
	log.Info("Storage closed")

	if err := g.Wait(); err != nil {
		log.Errorf("Component error: %v", err)
	}
	log.Info("Server gracefully stopped.")
}

// pushStations 启动时全量推送站点静态数据
func pushStations(ctx context.Context, pusher service.StationPusher, cfg *config.Config, log *logger.Logger) {
	catalog, err := service.LoadStationCatalog(cfg.Sync.StationsFile)
	if err != nil {
		log.Errorf("Failed to load station catalog: %v", err)
		return
	}
	stations := service.NewStationSyncService(pusher, catalog, cfg.Roaming.OperatorName, log.WithComponent("station-sync"))
	for _, op := range catalog.Operators() {
		res, err := stations.FullLoad(ctx, op)
		if err != nil {
			log.Errorf("Station full load for %s failed: %v", op, err)
			continue
		}
		log.Infof("Station full load for %s: %s", op, res.Summary())
	}
}

// metricsMux 监控端点
func metricsMux() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
