// =============================================================================
// 📦 HumanLoop 配置加载器
// =============================================================================
// 统一配置加载，支持 YAML 文件 + 环境变量覆盖
//
// 配置优先级: 默认值 → YAML 文件 → 环境变量
// =============================================================================
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/humanloop/store"
)

// EnvPrefix 是环境变量覆盖的前缀。
const EnvPrefix = "HUMANLOOP"

// Config 是 HumanLoop 的完整配置结构。
type Config struct {
	// Endpoint 远端运行部署配置
	Endpoint EndpointConfig `yaml:"endpoint"`

	// Redis 会话存储配置
	Redis store.RedisConfig `yaml:"redis"`

	// History 决策审计库配置
	History HistoryConfig `yaml:"history"`

	// Log 日志配置
	Log LogConfig `yaml:"log"`
}

// EndpointConfig 远端运行部署配置。
type EndpointConfig struct {
	// WebSocket 恢复端点
	URL string `yaml:"url"`
	// 助手标识
	AssistantID string `yaml:"assistant_id"`
	// 单次恢复调用超时
	ResumeTimeout time.Duration `yaml:"resume_timeout"`
	// 心跳间隔
	PingInterval time.Duration `yaml:"ping_interval"`
}

// HistoryConfig 决策审计库配置。
type HistoryConfig struct {
	// 是否启用审计
	Enabled bool `yaml:"enabled"`
	// SQLite 文件路径
	Path string `yaml:"path"`
}

// LogConfig 日志配置。
type LogConfig struct {
	// 日志级别: debug, info, warn, error
	Level string `yaml:"level"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() *Config {
	return &Config{
		Endpoint: EndpointConfig{
			ResumeTimeout: 5 * time.Minute,
			PingInterval:  15 * time.Second,
		},
		Redis: store.DefaultRedisConfig(),
		History: HistoryConfig{
			Enabled: true,
			Path:    "humanloop_history.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 加载配置：从默认值出发，依次应用 YAML 文件与环境变量。
// path 为空时跳过文件加载。
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 检查配置的基本一致性。
func (c *Config) Validate() error {
	if c.Endpoint.ResumeTimeout <= 0 {
		return fmt.Errorf("endpoint.resume_timeout must be positive")
	}
	if c.Endpoint.PingInterval <= 0 {
		return fmt.Errorf("endpoint.ping_interval must be positive")
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	return nil
}

// applyEnv 应用环境变量覆盖。
func (c *Config) applyEnv() {
	setString(&c.Endpoint.URL, "ENDPOINT_URL")
	setString(&c.Endpoint.AssistantID, "ASSISTANT_ID")
	setDuration(&c.Endpoint.ResumeTimeout, "RESUME_TIMEOUT")
	setDuration(&c.Endpoint.PingInterval, "PING_INTERVAL")

	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setInt(&c.Redis.DB, "REDIS_DB")
	setDuration(&c.Redis.TTL, "REDIS_TTL")

	setBool(&c.History.Enabled, "HISTORY_ENABLED")
	setString(&c.History.Path, "HISTORY_PATH")

	setString(&c.Log.Level, "LOG_LEVEL")
}

func envKey(name string) string {
	return EnvPrefix + "_" + name
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(envKey(name)); ok {
		*dst = v
	}
}

func setInt(dst *int, name string) {
	if v, ok := os.LookupEnv(envKey(name)); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, name string) {
	if v, ok := os.LookupEnv(envKey(name)); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, name string) {
	if v, ok := os.LookupEnv(envKey(name)); ok {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
