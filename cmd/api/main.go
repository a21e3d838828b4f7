package main

import (
	"Clipper/internal/api/config"
	"Clipper/internal/pkg/cron"
	"Clipper/internal/pkg/database"
	"Clipper/internal/pkg/logger"
	"Clipper/internal/pkg/redis"
	"Clipper/internal/pkg/scraper"
	"Clipper/internal/wire"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	// 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("Fatal error: failed to load configuration", "err", err)
		panic(err)
	}
	if cfg.Server.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化日志
	logger.InitLogger(cfg.Logstash)

	// 数据库连接
	db, err := database.NewGormDB(&cfg.DB)
	if err != nil {
		log.Error("Fatal error: failed to create database connection", "err", err)
		panic(err)
	}

	// Redis 连接
	rdb, err := redis.NewClient(context.Background(), cfg.Redis)
	if err != nil {
		log.Error("Fatal error: failed to create redis connection", "err", err)
		panic(err)
	}
	defer func() {
		_ = rdb.Close()
	}()

	// Apify 抓取客户端
	if cfg.Apify.Token == "" {
		log.Warn("Apify token is empty, every scrape will fail")
	}
	sc := scraper.NewApifyScraper(cfg.Apify)

	// 依赖注入
	app, err := wire.BuildApplication(db, rdb, sc, cfg)
	if err != nil {
		log.Error("Fatal error: failed to create application", "err", err)
		panic(err)
	}
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// 定时任务
	err = cron.InitCron(app.CronMgr)
	if err != nil {
		log.Error("Fatal error: failed to start cron jobs", "err", err)
		panic(err)
	}
	g.Go(func() error {
		<-ctx.Done()
		log.Info("Cron Jobs stopping...")
		app.CronMgr.Stop()
		return nil
	})

	// 抓取任务消费
	g.Go(func() error {
		return app.RunWorkers(ctx)
	})

	// HTTP 服务器
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		log.Info("HTTP Server starting...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// 优雅退出
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case sig := <-quit:
			log.Info("Received signal, shutting down...", "signal", sig)
			cancel()
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP Server shutdown failed", "err", err)
		}
		return nil
	})

	if err = g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("App exited with error", "err", err)
	}
	log.Info("App exited successfully.")
}
