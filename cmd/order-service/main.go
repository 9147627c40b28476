// cmd/order-service/main.go
package main

import (
	"go.opentelemetry.io/otel"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/redis/go-redis/v9"

	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/bootstrap"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/config"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/httpclient"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/logger"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/pkg/mq"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/application"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/domain"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/infrastructure"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/infrastructure/adapter"
	"github.com/MinoruSoga/tsunaguma-sub004/internal/service/order/interfaces"
)

const serviceName = "order-service"

// main 是应用的组装根：创建并组装所有依赖项，然后启动服务。
func main() {
	bootstrap.Init()
	cfg := config.GetCurrentConfig()
	log := logger.Logger()

	db, err := gorm.Open(mysql.Open(cfg.Infra.MysqlDSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Infra.Redis.Addr,
		Password: cfg.Infra.Redis.Password,
		DB:       cfg.Infra.Redis.DB,
	})

	kafkaWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.Topic)
	defer kafkaWriter.Close()

	tracer := otel.Tracer(serviceName)
	httpClient := httpclient.NewClient(tracer)

	// 出站适配器
	uow := infrastructure.NewGormUnitOfWork(db)
	inventory := adapter.NewInventoryGormAdapter(db)
	payments := adapter.NewPaymentHTTPAdapter(httpClient, cfg.Infra.PaymentBaseURL)
	points := adapter.NewPointHTTPAdapter(httpClient, cfg.Infra.PointBaseURL)
	stores := adapter.NewStoreRedisAdapter(db, rdb, cfg.Billing.StoreCacheTTL.Std())
	totals := adapter.NewTotalsAdapter()

	// 事件：Kafka 外发 + 进程内订阅
	events := application.NewDispatcher(adapter.NewEventKafkaAdapter(kafkaWriter))
	pointRefund := application.NewPointRefundHandler(uow, points, tracer)
	events.OnCanceled(pointRefund.Handle)

	// 应用服务
	cancelRequest := application.NewCancelRequestService(uow, events, tracer)
	cancellation := application.NewCancellationSaga(uow, inventory, payments, events, tracer)
	settlement := application.NewSettlementService(uow, totals, tracer)
	billing := application.NewBillingService(uow, stores, settlement, application.BillingConfig{
		Commission: domain.CommissionDefaults{
			Standard: cfg.Billing.StandardRate,
			Prime:    cfg.Billing.PrimeRate,
		},
		CompleteLag: cfg.Billing.OrderCompleteDuration.Std(),
	}, tracer)

	handler := interfaces.NewOrderHandler(cancelRequest, cancellation, settlement, billing)

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        cfg.App.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
	})
}
