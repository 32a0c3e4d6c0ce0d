package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/core/config"
	"goeat-backend/internal/core/database"
	"goeat-backend/internal/core/logger"
	"goeat-backend/internal/core/server"
	"goeat-backend/internal/gateway"
	"goeat-backend/internal/repo"
	"goeat-backend/internal/service"
	"goeat-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// DB 连接（失败直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHr) * time.Hour,
	}

	// 管理端不发注册邮件、不建缓存；订单服务仍要网关实例
	// 以复用同一套 service（Create 在管理面不会被调用）
	gw := gateway.NewRazorpay(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.TimeoutSec)*time.Second, log,
	)

	users := repo.NewUserRepo(db)
	catalog := repo.NewCatalogRepo(db)
	carts := repo.NewCartRepo(db)
	wishlist := repo.NewWishlistRepo(db)
	orders := repo.NewOrderRepo(db)
	media := service.Media{BaseURL: cfg.Media.BaseURL}

	deps := router.Deps{
		JWT:      jwter,
		Users:    service.NewUserService(users, orders, jwter, nil, log),
		Catalog:  service.NewCatalogService(catalog, nil, media, log),
		Cart:     service.NewCartService(carts, catalog, media, log),
		Wishlist: service.NewWishlistService(wishlist, catalog, media, log),
		Orders:   service.NewOrderService(orders, catalog, gw, media, log),
		Admin:    service.NewAdminService(users, catalog, orders),
	}

	r := router.NewAdminEngine(log, deps)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, r, 5*time.Second, 10*time.Second, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("admin api start FAILED", zap.Error(err))
		}
	}()
	log.Info("admin api started SUCCESS")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("admin api stopped gracefully")
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
