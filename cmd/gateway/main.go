// GraphQLゲートウェイのエントリポイント。
// JWTを検証したうえで、従業員のCRUD操作を上流のEmployee REST APIに転送する。
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/nao1215/employee-gateway/internal/config"
	"github.com/nao1215/employee-gateway/internal/gateway"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定の読み込みに失敗: %v\n", err)
		os.Exit(1)
	}

	log := cfg.NewLogger()
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server, err := gateway.NewServer(cfg, log, reg)
	if err != nil {
		log.WithError(err).Error("Gatewayサーバーの初期化に失敗")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.WithError(err).Error("Gatewayサービスが異常終了しました")
		stop()
		os.Exit(1)
	}
}
