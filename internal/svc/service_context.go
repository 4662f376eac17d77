package svc

import (
	"anchor-gateway-sol/internal/config"
	"anchor-gateway-sol/internal/tx"
)

// GatewayServiceContext 聚合网关服务的共享依赖。
// 注意：这里只放配置与无状态组件，RPC 连接按请求创建，不进上下文。
type GatewayServiceContext struct {
	Config       config.GatewayConfig
	Orchestrator *tx.Orchestrator
}

func NewGatewayServiceContext(c config.GatewayConfig) *GatewayServiceContext {
	orchestrator := tx.NewOrchestrator(tx.Config{
		DefaultEndpoint:  c.SolanaConf.DefaultRpcURL,
		BackendKeypair:   c.SolanaConf.BackendKeypair,
		SigningAllowlist: c.SolanaConf.SigningAllowlist,
	})
	return &GatewayServiceContext{
		Config:       c,
		Orchestrator: orchestrator,
	}
}
