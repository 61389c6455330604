package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"evalhub/backend/config"
	"evalhub/backend/internal/repository"
	"evalhub/backend/internal/service"
	"evalhub/backend/pkg/database"
	"evalhub/backend/pkg/lock"
	applogger "evalhub/backend/pkg/logger"
	"evalhub/backend/pkg/metrics"
	"evalhub/backend/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("重算 Worker 启动中...",
		zap.String("cron_spec", cfg.Recalc.CronSpec),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 4. 连接 Redis（可选：连接失败时降级为进程内锁，不中断启动）
	var locker lock.PairLocker
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，重算锁降级为进程内互斥", zap.Error(err))
		rdb = nil
		locker = lock.NewLocalLocker()
	} else {
		locker = lock.NewRedisLocker(rdb, cfg.Recalc.LockTTL, logger)
	}

	// 5. 初始化指标
	m := metrics.NewManager(nil)
	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Addr, logger); err != nil {
				logger.Error("指标服务异常", zap.Error(err))
			}
		}()
	}

	// 6. 依赖注入: Repository → Service
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, locker, m, logger)

	// 7. 注册定时任务：对所有 active 评估期做全量重算
	c := cron.New()
	_, err = c.AddFunc(cfg.Recalc.CronSpec, func() {
		ctx := context.Background()

		periods, err := repo.Period.ListActive(ctx)
		if err != nil {
			logger.Error("枚举活动评估期失败", zap.Error(err))
			return
		}

		for _, period := range periods {
			summary, err := svc.Recalc.RecalculateAllForPeriod(ctx, period.PeriodID)
			if err != nil {
				logger.Error("定时重算失败",
					zap.String("periodId", period.PeriodID),
					zap.Error(err),
				)
				continue
			}
			logger.Info("定时重算完成",
				zap.String("periodId", period.PeriodID),
				zap.Int("totalEmployees", summary.TotalEmployees),
				zap.Int("successCount", summary.SuccessCount),
				zap.Int("errorCount", summary.ErrorCount),
			)
		}
	})
	if err != nil {
		logger.Fatal("注册定时任务失败", zap.Error(err))
	}
	c.Start()
	logger.Info("定时重算任务已注册", zap.String("spec", cfg.Recalc.CronSpec))

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	// 等待进行中的定时任务结束
	<-c.Stop().Done()

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("Worker 已关闭")
}
