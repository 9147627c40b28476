// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/config"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/nacos"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/tracing"
)

// AppCtx 暴露给路由注册回调的共享组件
type AppCtx struct {
	Mux *http.ServeMux
}

// AppInfo 包含了启动服务所需的特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx)
}

// Init 加载配置并初始化日志，在 main 中最先调用。
func Init() {
	config.Init()
	cfg := config.GetCurrentConfig()
	logger.Init(cfg.App.Name, cfg.App.LogLevel)
}

// StartService 封装了通用的启动与优雅关停逻辑：
// 追踪、Nacos 注册、HTTP 服务、信号处理，清理按后进先出执行。
func StartService(info AppInfo) {
	cfg := config.GetCurrentConfig()
	log := logger.Logger()

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracer provider")
	}

	var registry *nacos.Client
	ip, err := outboundIP()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve outbound IP")
	}
	if cfg.Infra.Nacos.ServerAddrs != "" {
		registry, err = nacos.NewClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize nacos client")
		}
		if err := registry.Register(info.ServiceName, ip, info.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to register service with nacos")
		}
	}

	mux := http.NewServeMux()
	if info.RegisterHandlers != nil {
		info.RegisterHandlers(AppCtx{Mux: mux})
	}
	server := &http.Server{Addr: ":" + strconv.Itoa(info.Port), Handler: mux}

	g, gCtx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Str("service", info.ServiceName).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
		case <-gCtx.Done():
		}
		return shutdown(server, registry, tp, info, ip)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("service exited with error")
	}
	log.Info().Str("service", info.ServiceName).Msg("service gracefully shut down")
}

type tracerProvider interface {
	Shutdown(ctx context.Context) error
}

func shutdown(server *http.Server, registry *nacos.Client, tp tracerProvider, info AppInfo, ip string) error {
	log := logger.Logger()
	log.Info().Str("service", info.ServiceName).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if registry != nil {
		if err := registry.Deregister(info.ServiceName, ip, info.Port); err != nil {
			log.Error().Err(err).Msg("failed to deregister from nacos")
		}
	}
	if err := tp.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to shut down tracer provider")
	}
	return server.Shutdown(ctx)
}

// outboundIP 获取本机对外 IP，用于服务注册
func outboundIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String(), nil
}
