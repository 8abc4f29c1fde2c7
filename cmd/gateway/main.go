package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/betbot/mt5gate/internal/dealers"
	"github.com/betbot/mt5gate/internal/terminal"
	"github.com/betbot/mt5gate/internal/terminal/bridge"
	"github.com/betbot/mt5gate/internal/web"
	"github.com/betbot/mt5gate/pkg/config"
	"github.com/betbot/mt5gate/pkg/logger"
	"github.com/betbot/mt5gate/pkg/shutdown"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "配置文件路径")
	flag.Parse()

	// .env 不存在不算错
	_ = godotenv.Load()

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		logger.InitDefault()
		logger.Errorf("加载配置失败: %v", err)
		os.Exit(1)
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		OutputFile: cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		logger.InitDefault()
		logger.Errorf("初始化日志失败: %v", err)
		os.Exit(1)
	}

	registry, err := dealers.NewRegistry(cfg, func(bridgeURL string) terminal.API {
		return bridge.NewClient(bridgeURL)
	})
	if err != nil {
		logger.Errorf("初始化券商注册表失败: %v", err)
		os.Exit(1)
	}

	server := web.New(registry, cfg.Terminal)
	httpServer := &http.Server{
		Addr:    cfg.Listen,
		Handler: server.Router(),
	}

	manager := shutdown.NewManager()
	manager.OnShutdown(func(ctx context.Context) {
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Warnf("HTTP 服务关闭出错: %v", err)
		}
	})
	manager.OnShutdown(func(context.Context) {
		registry.Close()
	})

	go func() {
		logger.Infof("网关已启动，监听 %s", cfg.Listen)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("HTTP 服务异常退出: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("收到退出信号，开始优雅关闭")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	manager.Shutdown(ctx)
}
