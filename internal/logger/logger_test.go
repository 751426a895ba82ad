package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	
	assert.Equal(t, "info", config.Level)
	assert.Equal(t, "console", config.Format)
	assert.Equal(t, "stdout", config.Output)
	assert.Equal(t, time.RFC3339, config.TimeFormat)
	assert.True(t, config.Caller)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "nil config uses default",
			config:  nil,
			wantErr: false,
		},
		{
			name: "valid config",
			config: &Config{
				Level:      "debug",
				Format:     "json",
				Output:     "stdout",
				TimeFormat: time.RFC3339,
				Caller:     false,
			},
			wantErr: false,
		},
		{
			name: "invalid log level",
			config: &Config{
				Level:  "invalid",
				Format: "console",
				Output: "stdout",
			},
			wantErr: true,
		},
		{
			name: "invalid format",
			config: &Config{
				Level:  "info",
				Format: "invalid",
				Output: "stdout",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, logger)
				
				if tt.config == nil {
					// 使用默认配置
					assert.Equal(t, "info", logger.config.Level)
				} else {
					assert.Equal(t, tt.config.Level, logger.config.Level)
				}
			}
		})
	}
}

func TestLogger_LogLevels(t *testing.T) {
	// 使用内存缓冲区捕获日志输出
	var buf bytes.Buffer

	config := &Config{
		Level:      "debug",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
		Caller:     false,
	}

	// 临时设置全局日志级别为debug
	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(originalLevel)

	// 创建日志器，输出到缓冲区
	logger := zerolog.New(&buf).With().Timestamp().Logger()

	testLogger := &Logger{
		logger: logger,
		config: config,
	}

	// 测试不同级别的日志
	testLogger.Debug("debug message")
	testLogger.Info("info message")
	testLogger.Warn("warn message")
	testLogger.Error("error message")

	output := buf.String()

	// 验证输出不为空
	assert.NotEmpty(t, output)

	// 验证包含所有级别的日志
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")

	// 验证JSON格式
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		var logEntry map[string]interface{}
		err := json.Unmarshal([]byte(line), &logEntry)
		assert.NoError(t, err, "Line %d should be valid JSON: %s", i, line)

		// 验证必要字段存在
		assert.Contains(t, logEntry, "time")
		assert.Contains(t, logEntry, "level")
		assert.Contains(t, logEntry, "message")
	}
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	
	config := &Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
		Caller: false,
	}
	
	logger := zerolog.New(&buf).With().Timestamp().Logger()
	testLogger := &Logger{
		logger: logger,
		config: config,
	}
	
	// 测试添加字段
	testLogger.WithField("user_id", "12345").Msg("user action")
	
	output := buf.String()
	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(output)), &logEntry)
	require.NoError(t, err)
	
	assert.Equal(t, "12345", logEntry["user_id"])
	assert.Equal(t, "user action", logEntry["message"])
}

func TestLogger_SetLevel(t *testing.T) {
	config := &Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
	
	logger, err := New(config)
	require.NoError(t, err)
	
	// 测试设置有效级别
	err = logger.SetLevel("debug")
	assert.NoError(t, err)
	assert.Equal(t, "debug", logger.GetLevel())
	
	// 测试设置无效级别
	err = logger.SetLevel("invalid")
	assert.Error(t, err)
	assert.Equal(t, "debug", logger.GetLevel()) // 级别不应该改变
}

func TestLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "roaming.log")

	logger, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Info("written to file")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	base := FromZerolog(zerolog.New(&buf))

	child := base.WithComponent("roaming").With(map[string]interface{}{"operator_id": "DE*ABC"})
	child.Warn("push failed")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "roaming", logEntry["component"])
	assert.Equal(t, "DE*ABC", logEntry["operator_id"])
	assert.Equal(t, "warn", logEntry["level"])

	buf.Reset()
	base.Info("plain entry")
	assert.NotContains(t, buf.String(), `"component"`)
}

func TestLogger_LevelEvents(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(originalLevel)

	tests := []struct {
		name  string
		event func(*Logger) *zerolog.Event
		level string
	}{
		{"debug", (*Logger).DebugEvent, "debug"},
		{"info", (*Logger).InfoEvent, "info"},
		{"warn", (*Logger).WarnEvent, "warn"},
		{"error", (*Logger).ErrorEvent, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := FromZerolog(zerolog.New(&buf).Level(zerolog.DebugLevel)).WithComponent("sync")

			tt.event(l).Str("operator_id", "DE*ABC").Int("records", 3).Msg("cycle done")

			var logEntry map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
			assert.Equal(t, tt.level, logEntry["level"])
			assert.Equal(t, "sync", logEntry["component"])
			assert.Equal(t, "DE*ABC", logEntry["operator_id"])
			assert.Equal(t, float64(3), logEntry["records"])
			assert.Equal(t, "cycle done", logEntry["message"])
		})
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() {
		l.Info("dropped")
		l.WithComponent("x").Errorf("dropped %d", 1)
	})
}

func TestGlobalLogger(t *testing.T) {
	// 保存原始的全局日志器
	originalLogger := globalLogger
	defer func() {
		globalLogger = originalLogger
	}()
	
	config := &Config{
		Level:  "debug",
		Format: "console",
		Output: "stdout",
	}
	
	err := InitGlobalLogger(config)
	assert.NoError(t, err)
	assert.NotNil(t, globalLogger)
	
	// 测试全局函数（这些函数不会产生可见输出，但不应该panic）
	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")
	
	Debugf("debug %s", "formatted")
	Infof("info %s", "formatted")
	Warnf("warn %s", "formatted")
	Errorf("error %s", "formatted")
}

func TestLogger_ErrorWithErr(t *testing.T) {
	var buf bytes.Buffer
	
	config := &Config{
		Level:  "error",
		Format: "json",
		Output: "stdout",
		Caller: false,
	}
	
	logger := zerolog.New(&buf).With().Timestamp().Logger()
	testLogger := &Logger{
		logger: logger,
		config: config,
	}
	
	// 测试带错误对象的日志
	testErr := assert.AnError
	testLogger.ErrorWithErr(testErr, "operation failed")
	
	output := buf.String()
	var logEntry map[string]interface{}
	err := json.Unmarshal([]byte(strings.TrimSpace(output)), &logEntry)
	require.NoError(t, err)
	
	assert.Equal(t, "operation failed", logEntry["message"])
	assert.Equal(t, "error", logEntry["level"])
	assert.Contains(t, logEntry, "error")
}

func TestEnsureDir(t *testing.T) {
	tempDir := t.TempDir()
	testDir := filepath.Join(tempDir, "nested", "directory")
	
	err := ensureDir(testDir)
	assert.NoError(t, err)
	
	// 验证目录是否创建
	info, err := os.Stat(testDir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
	
	// 测试空目录路径
	err = ensureDir("")
	assert.NoError(t, err)
}
