package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	authapp "github.com/dcastano/cafeteriapos/internal/auth/application"
	authmysql "github.com/dcastano/cafeteriapos/internal/auth/infrastructure/persistence/mysql"
	authredis "github.com/dcastano/cafeteriapos/internal/auth/infrastructure/persistence/redis"
	authhttp "github.com/dcastano/cafeteriapos/internal/auth/interfaces/http"
	catalogapp "github.com/dcastano/cafeteriapos/internal/catalog/application"
	catalogdomain "github.com/dcastano/cafeteriapos/internal/catalog/domain"
	catalogmysql "github.com/dcastano/cafeteriapos/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/dcastano/cafeteriapos/internal/catalog/interfaces/http"
	salesapp "github.com/dcastano/cafeteriapos/internal/sales/application"
	salesdomain "github.com/dcastano/cafeteriapos/internal/sales/domain"
	salesmysql "github.com/dcastano/cafeteriapos/internal/sales/infrastructure/persistence/mysql"
	saleshttp "github.com/dcastano/cafeteriapos/internal/sales/interfaces/http"
	"github.com/dcastano/cafeteriapos/pkg/cache"
	"github.com/dcastano/cafeteriapos/pkg/config"
	"github.com/dcastano/cafeteriapos/pkg/db"
	"github.com/dcastano/cafeteriapos/pkg/logger"
	"github.com/dcastano/cafeteriapos/pkg/metrics"
	"github.com/dcastano/cafeteriapos/pkg/middleware"
)

var configPath = flag.String("config", "configs/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	if err := logger.Init(cfg.Logger); err != nil {
		panic(fmt.Sprintf("failed to init logger: %v", err))
	}

	// 3. 指标
	m := metrics.New(cfg.Server.Name)
	if cfg.Metrics.Enabled {
		if err := m.Register(); err != nil {
			logger.Fatal(context.Background(), "failed to register metrics", "error", err)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 4. 数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
		Metrics:            m,
	})
	if err != nil {
		logger.Fatal(context.Background(), "failed to connect database", "error", err)
	}
	defer database.Close()

	if cfg.Server.Environment == "dev" {
		if err := database.AutoMigrate(&authmysql.UserModel{}, &catalogdomain.Product{}, &salesdomain.Sale{}); err != nil {
			logger.Error(context.Background(), "failed to migrate database", "error", err)
		}
	}

	// 5. Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(context.Background(), "failed to init redis", "error", err)
	}
	defer redisCache.Close()

	// 6. 仓储
	userRepo := authmysql.NewUserRepository(database.DB)
	sessionRepo := authredis.NewSessionRepository(redisCache)
	productRepo := catalogmysql.NewProductRepository(database.DB)
	saleRepo := salesmysql.NewSaleRepository(database)

	// 7. 应用服务
	tokenSvc := authapp.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLMinutes)*time.Minute, sessionRepo)
	authCmd := authapp.NewAuthCommandService(userRepo, tokenSvc)
	authQuery := authapp.NewAuthQueryService(userRepo)
	catalogCmd := catalogapp.NewCatalogCommandService(productRepo, saleRepo)
	catalogQuery := catalogapp.NewCatalogQueryService(productRepo)
	saleCmd := salesapp.NewSaleCommandService(saleRepo, m)
	saleQuery := salesapp.NewSaleQueryService(saleRepo)

	// 8. 接口层
	if cfg.Server.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.GinLogging(),
		middleware.GinRecovery(),
		middleware.GinCORS(),
		middleware.GinTimeout(time.Duration(cfg.Server.RequestTimeout)*time.Second),
		middleware.GinMetrics(m),
		middleware.GinRateLimit(middleware.NewRateLimiter(1000, 500)),
	)

	authn := middleware.Authenticated(tokenSvc)
	api := r.Group("")
	authhttp.NewHandler(authCmd, authQuery).RegisterRoutes(api, authn)
	cataloghttp.NewHandler(catalogCmd, catalogQuery).RegisterRoutes(api, authn)
	saleshttp.NewHandler(saleCmd, saleQuery).RegisterRoutes(api, authn)

	// 9. 启动
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", server.Addr)
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
			slog.Info("shutting down server...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
