package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/shelfd/shelfd/internal/config"
	"github.com/shelfd/shelfd/internal/db"
	"github.com/shelfd/shelfd/internal/handler"
	"github.com/shelfd/shelfd/internal/job"
	"github.com/shelfd/shelfd/internal/middleware"
	"github.com/shelfd/shelfd/internal/repo"
	"github.com/shelfd/shelfd/internal/schedule"
	"github.com/shelfd/shelfd/internal/service"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "shelfd",
		Short: "shelfd backend server",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run shelfd server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))

			conn, err := db.Open(cfg.Database)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			if err := db.ApplyMigrations(conn); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			return runServer(cfg, conn)
		},
	}

	runCmd.Flags().StringVar(&configPath, "config", "", "path to config.json")
	rootCmd.AddCommand(runCmd)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("startup error", zap.Error(err))
	}
}

func runServer(cfg *config.Config, conn *sql.DB) error {
	logutil.GetLogger(context.Background()).Info(
		"starting server",
		zap.Int("port", cfg.Port),
	)

	userRepo := repo.NewUserRepo(conn)
	collectionRepo := repo.NewCollectionRepo(conn)
	collectionItemRepo := repo.NewCollectionItemRepo(conn)
	sourceRepo := repo.NewSourceRepo(conn)
	sourceItemRepo := repo.NewSourceItemRepo(conn)
	voteRepo := repo.NewVoteRepo(conn)
	reportRepo := repo.NewReportRepo(conn)
	achievementRepo := repo.NewAchievementRepo(conn)

	authService := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), time.Hour*time.Duration(cfg.JWTTTLHours))
	achievementService := service.NewAchievementService(achievementRepo)
	collectionService := service.NewCollectionService(collectionRepo, collectionItemRepo, sourceRepo, sourceItemRepo, achievementService)
	sourceService := service.NewSourceService(sourceRepo, sourceItemRepo, collectionRepo, collectionItemRepo, achievementService)
	voteService := service.NewVoteService(voteRepo, sourceRepo, achievementService)
	reportService := service.NewReportService(reportRepo, sourceRepo)

	deps := handler.RouterDeps{
		Auth:         handler.NewAuthHandler(authService),
		Collections:  handler.NewCollectionHandler(collectionService),
		Sources:      handler.NewSourceHandler(sourceService, collectionService, authService),
		Votes:        handler.NewVoteHandler(voteService),
		Reports:      handler.NewReportHandler(reportService, authService),
		Achievements: handler.NewAchievementHandler(achievementService),
		JWTSecret:    []byte(cfg.JWTSecret),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		fmt.Sprintf("0.0.0.0:%d", cfg.Port),
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			middleware.RateLimit(time.Duration(cfg.RateLimitMillis)*time.Millisecond),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("http server listening", zap.String("addr", fmt.Sprintf("0.0.0.0:%d", cfg.Port)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	scheduler := schedule.NewScheduler()
	if err := scheduler.AddJob(job.NewPopularityRefreshJob(sourceRepo, voteRepo, achievementService), cfg.Jobs.PopularityRefreshSpec); err != nil {
		return err
	}
	keep := time.Duration(cfg.Jobs.ReportKeepDays) * 24 * time.Hour
	if err := scheduler.AddJob(job.NewReportCleanupJob(reportRepo, keep), cfg.Jobs.ReportCleanupSpec); err != nil {
		return err
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
