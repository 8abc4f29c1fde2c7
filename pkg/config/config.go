package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LogConfig 日志配置
type LogConfig struct {
	Level      string // 日志级别
	File       string // 日志文件路径（可选）
	MaxSize    int    // 单个日志文件最大大小（MB）
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧日志
}

// TerminalConfig 终端接入配置
type TerminalConfig struct {
	MaxRetries            int // 断线重连的重试上限（默认3）
	NotConnectedCode      int // 终端「未连接」哨兵错误码（默认 -10001，不同终端构建可覆盖）
	RequestTimeoutSeconds int // 边界侧单请求超时（秒，默认30）
	MaxInFlight           int // 全局在途请求上限（含已被放弃的调用，默认64）
}

// DealerConfig 单个券商终端配置
type DealerConfig struct {
	Name         string // 券商标识，必须属于已知券商枚举
	TerminalPath string // 终端实例路径（initialize 参数）
	BridgeURL    string // 终端 RPC 桥地址
}

// Config 应用配置
type Config struct {
	Listen   string // HTTP 监听地址
	Log      LogConfig
	Terminal TerminalConfig
	Dealers  []DealerConfig
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	Listen string `yaml:"listen" json:"listen"`
	Log    struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSize    int    `yaml:"max_size" json:"max_size"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
		MaxAge     int    `yaml:"max_age" json:"max_age"`
		Compress   bool   `yaml:"compress" json:"compress"`
	} `yaml:"log" json:"log"`
	Terminal struct {
		MaxRetries            int `yaml:"max_retries" json:"max_retries"`
		NotConnectedCode      int `yaml:"not_connected_code" json:"not_connected_code"`
		RequestTimeoutSeconds int `yaml:"request_timeout_seconds" json:"request_timeout_seconds"`
		MaxInFlight           int `yaml:"max_in_flight" json:"max_in_flight"`
	} `yaml:"terminal" json:"terminal"`
	Dealers []struct {
		Name         string `yaml:"name" json:"name"`
		TerminalPath string `yaml:"terminal_path" json:"terminal_path"`
		BridgeURL    string `yaml:"bridge_url" json:"bridge_url"`
	} `yaml:"dealers" json:"dealers"`
}

// LoadFromFile 从文件加载配置（支持 .yaml/.yml/.json），并套用默认值和环境变量覆盖
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var file ConfigFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置失败: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置失败: %w", err)
		}
	}

	cfg := fromFile(file)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromFile(file ConfigFile) *Config {
	cfg := &Config{
		Listen: file.Listen,
		Log: LogConfig{
			Level:      file.Log.Level,
			File:       file.Log.File,
			MaxSize:    file.Log.MaxSize,
			MaxBackups: file.Log.MaxBackups,
			MaxAge:     file.Log.MaxAge,
			Compress:   file.Log.Compress,
		},
		Terminal: TerminalConfig{
			MaxRetries:            file.Terminal.MaxRetries,
			NotConnectedCode:      file.Terminal.NotConnectedCode,
			RequestTimeoutSeconds: file.Terminal.RequestTimeoutSeconds,
			MaxInFlight:           file.Terminal.MaxInFlight,
		},
	}
	for _, d := range file.Dealers {
		cfg.Dealers = append(cfg.Dealers, DealerConfig{
			Name:         d.Name,
			TerminalPath: d.TerminalPath,
			BridgeURL:    d.BridgeURL,
		})
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.MaxSize == 0 {
		cfg.Log.MaxSize = 100
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = 5
	}
	if cfg.Terminal.MaxRetries == 0 {
		cfg.Terminal.MaxRetries = 3
	}
	if cfg.Terminal.NotConnectedCode == 0 {
		cfg.Terminal.NotConnectedCode = -10001
	}
	if cfg.Terminal.RequestTimeoutSeconds == 0 {
		cfg.Terminal.RequestTimeoutSeconds = 30
	}
	if cfg.Terminal.MaxInFlight == 0 {
		cfg.Terminal.MaxInFlight = 64
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MT5GATE_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("MT5GATE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate 检查配置有效性
func (c *Config) Validate() error {
	if len(c.Dealers) == 0 {
		return fmt.Errorf("配置中没有任何券商（dealers 为空）")
	}
	seen := map[string]bool{}
	for _, d := range c.Dealers {
		if d.Name == "" {
			return fmt.Errorf("券商配置缺少 name")
		}
		if seen[d.Name] {
			return fmt.Errorf("券商 %s 配置重复", d.Name)
		}
		seen[d.Name] = true
		if d.BridgeURL == "" {
			return fmt.Errorf("券商 %s 缺少 bridge_url", d.Name)
		}
		if d.TerminalPath == "" {
			return fmt.Errorf("券商 %s 缺少 terminal_path", d.Name)
		}
	}
	return nil
}
