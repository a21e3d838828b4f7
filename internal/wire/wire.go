package wire

import (
	"Clipper/internal/api"
	"Clipper/internal/api/config"
	"Clipper/internal/api/handler"
	"Clipper/internal/api/middleware"
	"Clipper/internal/job"
	"Clipper/internal/pkg/cron"
	"Clipper/internal/pkg/kafka"
	"Clipper/internal/pkg/queue"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/pkg/security"
	"Clipper/internal/repository"
	"Clipper/internal/service"
	"context"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	CronMgr      *cron.Manager
	KafkaManager *kafka.ConsumerManager
	LocalQueue   *queue.LocalQueue
	IngestSvc    service.IngestService

	producer *kafka.IngestProducer
}

func BuildApplication(db *gorm.DB, rdb *redis.Client, sc scraper.Scraper, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	accountRepo := repository.NewLinkedAccountRepo(db)
	metricsRepo := repository.NewMetricsRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)
	clipRepo := repository.NewClipRepo(db)

	app := &ApplicationContainer{DB: db}

	// 抓取任务队列：Kafka 或进程内
	var enqueuer queue.Enqueuer
	if cfg.Kafka.Enable {
		producer, err := kafka.NewIngestProducer(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		app.producer = producer
		enqueuer = producer
	} else {
		app.LocalQueue = queue.NewLocalQueue(cfg.Ingest.QueueSize, cfg.Ingest.Workers)
		enqueuer = app.LocalQueue
	}

	leaderboardService := service.NewLeaderboardService(userRepo, snapshotRepo, clipRepo, rdb, cfg.Cache)
	ingestService := service.NewIngestService(sc, metricsRepo, leaderboardService)
	otpService := service.NewOTPService(userRepo, enqueuer, cfg.OTP)
	bioService := service.NewBioService(userRepo, accountRepo, sc, enqueuer, cfg.Bio)
	userService := service.NewUserService(userRepo)
	webhookService := service.NewWebhookService(otpService, cfg.Webhook, cfg.Server.IsRelease())
	refreshService := service.NewRefreshService(userRepo, ingestService, rdb, cfg.Refresh)
	app.IngestSvc = ingestService

	handlers := &api.HandlersGroup{
		UserHandler:        handler.NewUserHandler(userService, otpService),
		BioHandler:         handler.NewBioHandler(bioService),
		WebhookHandler:     handler.NewWebhookHandler(webhookService),
		LeaderboardHandler: handler.NewLeaderboardHandler(leaderboardService),
		CronHandler:        handler.NewCronHandler(refreshService),
		WsHandler:          handler.NewWsHandler(rdb),
	}

	app.Router = api.SetupRouter(handlers, api.RouterOptions{
		Identity:       security.NewIdentityVerifier(cfg.Identity.TokenSecret),
		IdentityHeader: cfg.Identity.Header,
		RateLimiter:    middleware.NewIPRateLimiter(cfg.RateLimit.PerMinute),
		CronSecret:     cfg.Server.CronSecret,
		LogIndex:       cfg.Logstash.Index,
	})

	app.CronMgr = cron.NewCronManager(cfg.Refresh.Schedule, job.NewMetricsRefreshJob(refreshService))

	if cfg.Kafka.Enable {
		kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, ingestService.HandleJob)
		if err != nil {
			_ = app.producer.Close()
			return nil, err
		}
		app.KafkaManager = kafkaMgr
	}

	return app, nil
}

// RunWorkers 启动抓取任务消费端，阻塞到 ctx 结束
func (a *ApplicationContainer) RunWorkers(ctx context.Context) error {
	if a.KafkaManager != nil {
		log.Info("Kafka Consumers starting...")
		return a.KafkaManager.Start(ctx)
	}
	log.Info("Local ingest workers starting...")
	return a.LocalQueue.Start(ctx, a.IngestSvc.HandleJob)
}

func (a *ApplicationContainer) Close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			log.Error("Kafka producer close failed", "err", err)
		}
	}
}
