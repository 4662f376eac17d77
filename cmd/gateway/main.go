package main

import (
	"flag"
	"runtime/debug"

	"anchor-gateway-sol/internal/config"
	"anchor-gateway-sol/internal/handler"
	"anchor-gateway-sol/internal/pkg/logger"
	"anchor-gateway-sol/internal/svc"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest"
)

var configFile = flag.String("f", "etc/gateway.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
		}
	}()

	flag.Parse()

	var c config.GatewayConfig
	conf.MustLoad(*configFile, &c, conf.UseEnv())

	logger.Init(c.LogConf.ToLogOption())
	defer logger.Sync()

	serviceContext := svc.NewGatewayServiceContext(c)

	server := rest.MustNewServer(c.RestConf)
	defer server.Stop()

	handler.RegisterHandlers(server, serviceContext)

	logx.Infof("Starting gateway server at %s:%d", c.Host, c.Port)
	server.Start()
}
