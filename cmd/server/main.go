package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/api/handler"
	"github.com/mamunbiswass/school-management/internal/api/router"
	"github.com/mamunbiswass/school-management/internal/document"
	"github.com/mamunbiswass/school-management/internal/repository"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/database"
	applogger "github.com/mamunbiswass/school-management/pkg/logger"
	"github.com/mamunbiswass/school-management/pkg/redis"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认查找 ./config/config.yaml）")
	flag.Parse()

	// 0. 加载 .env（可选）
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "读取 .env 失败: %v\n", err)
	}

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
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

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("base_url", cfg.Server.BaseURL),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时入学草稿保存在进程内，限流关闭）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，入学草稿改为进程内保存", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 上传存储与文档渲染器
	files, err := storage.NewLocalStorage(&cfg.Storage, logger)
	if err != nil {
		logger.Fatal("初始化上传存储失败", zap.Error(err))
	}
	renderer, err := document.NewRenderer(files, document.Options{PixelsPerMM: cfg.Document.PixelsPerMM}, logger)
	if err != nil {
		logger.Fatal("初始化文档渲染器失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db, rdb, cfg.Admission.DraftTTL)
	svc := service.NewService(cfg, repo, files, renderer, logger)
	h := handler.NewHandler(svc)

	// 7. 初始化路由
	engine, err := router.Setup(cfg, h, rdb, db, logger)
	if err != nil {
		logger.Fatal("初始化路由失败", zap.Error(err))
	}

	// 7.1 定期清理过期草稿遗留的暂存照片
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepDraftPhotos(sweepCtx, svc.Admission, cfg.Admission.DraftTTL, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second, // 批量生成学生证 PDF 较慢
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	sqlDB.Close()

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// sweepDraftPhotos 按 TTL 的四分之一周期清理，最短一分钟
func sweepDraftPhotos(ctx context.Context, admission service.AdmissionService, ttl time.Duration, logger *zap.Logger) {
	interval := ttl / 4
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := admission.SweepStagedPhotos(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("暂存照片清理失败", zap.Error(err))
			}
		}
	}
}
