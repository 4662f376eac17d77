package config

import (
	"anchor-gateway-sol/internal/pkg/logger"

	"github.com/zeromicro/go-zero/rest"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// SolanaConfig 表示链交互相关配置
type SolanaConfig struct {
	// 默认 RPC 地址，请求未携带 rpc_url 时使用
	DefaultRpcURL string `yaml:"default_rpc_url"`

	// 后端签名私钥，JSON 字节数组或 base58 字符串，建议通过环境变量注入
	BackendKeypair string `yaml:"backend_keypair,optional"`

	// 允许后端签名的 RPC 端点白名单（仅 testnet / devnet）
	SigningAllowlist []string `yaml:"signing_allowlist"`
}

// GatewayConfig 是主配置结构体，用于驱动网关服务
type GatewayConfig struct {
	rest.RestConf `yaml:",inline"`

	LogConf    LogConfig    `yaml:"logger"` // 日志配置
	SolanaConf SolanaConfig `yaml:"solana"` // 链交互配置
}
