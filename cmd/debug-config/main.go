package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charging-platform/oicp-roaming/internal/config"
)

// 配置调试工具
// 用于验证配置文件和环境变量的合并结果
func main() {
	configFile := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	fmt.Println("=== OICP Roaming Adapter Configuration Test ===")

	// 显示环境变量
	fmt.Println("\n--- Environment Variables ---")
	envVars := []string{
		"OICP_ROAMING_ROLE",
		"OICP_ROAMING_OPERATOR_ID",
		"OICP_ROAMING_PROVIDER_ID",
		"OICP_ENDPOINTS_BASE_URL",
		"OICP_REDIS_ADDR",
		"OICP_KAFKA_BROKERS",
		"OICP_SERVER_PORT",
		"OICP_LOG_LEVEL",
	}

	for _, env := range envVars {
		value := os.Getenv(env)
		if value != "" {
			fmt.Printf("%s = %s\n", env, value)
		} else {
			fmt.Printf("%s = (not set)\n", env)
		}
	}

	// 加载配置
	fmt.Println("\n--- Loading Configuration ---")
	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// 显示最终配置
	fmt.Println("\n--- Final Configuration ---")
	fmt.Printf("Role: %s\n", cfg.Roaming.Role)
	fmt.Printf("Operator ID: %s\n", cfg.Roaming.OperatorID)
	fmt.Printf("Provider ID: %s\n", cfg.Roaming.ProviderID)
	fmt.Printf("Partner Base URL: %s\n", cfg.Endpoints.BaseURL)
	fmt.Printf("Request Timeout: %s\n", cfg.Roaming.RequestTimeout)
	fmt.Printf("Inbound Address: %s%s\n", cfg.GetServerAddr(), cfg.Server.Path)
	fmt.Printf("Redis Enabled: %v (%s)\n", cfg.Redis.Enabled, cfg.Redis.Addr)
	fmt.Printf("Kafka Enabled: %v %v\n", cfg.Kafka.Enabled, cfg.Kafka.Brokers)
	fmt.Printf("Sync Interval: %s\n", cfg.Sync.Interval)
	fmt.Printf("Log Level: %s\n", cfg.Log.Level)
	fmt.Printf("Metrics Address: %s\n", cfg.GetMetricsAddr())

	fmt.Println("\n=== Configuration Test Complete ===")
}
