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
	"goeat-backend/internal/core/cache"
	"goeat-backend/internal/core/config"
	"goeat-backend/internal/core/database"
	"goeat-backend/internal/core/logger"
	"goeat-backend/internal/core/server"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/gateway"
	"goeat-backend/internal/mail"
	"goeat-backend/internal/repo"
	"goeat-backend/internal/service"
	"goeat-backend/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{},
			&domain.Category{},
			&domain.Product{},
			&domain.CartItem{},
			&domain.WishlistItem{},
			&domain.Order{},
			&domain.OrderItem{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret:     []byte(cfg.JWT.Secret),
		Issuer:     cfg.JWT.Issuer,
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenTTLHr) * time.Hour,
	}

	// 目录缓存（redis 未配置则直连库）
	var catalogCache *cache.Cache
	if cfg.Redis.Addr != "" {
		catalogCache = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		log.Info("redis cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 支付网关与注册邮件
	gw := gateway.NewRazorpay(
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret,
		time.Duration(cfg.Razorpay.TimeoutSec)*time.Second, log,
	)
	var notifier mail.Notifier
	if cfg.SMTP.Enabled {
		notifier = mail.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username,
			cfg.SMTP.Password, cfg.SMTP.From, cfg.SMTP.OperatorEmail)
	}

	deps := buildDeps(db, jwter, catalogCache, gw, notifier, cfg, log)
	r := router.NewAPIEngine(log, deps)

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("user api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("user api start FAILED", zap.Error(err))
		}
	}()
	log.Info("user api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	log.Info("user api stopped gracefully")
}

func buildDeps(db *gorm.DB, jwter *auth.JWTer, c *cache.Cache, gw gateway.Client, notifier mail.Notifier, cfg *config.Config, log *zap.Logger) router.Deps {
	users := repo.NewUserRepo(db)
	catalog := repo.NewCatalogRepo(db)
	carts := repo.NewCartRepo(db)
	wishlist := repo.NewWishlistRepo(db)
	orders := repo.NewOrderRepo(db)
	media := service.Media{BaseURL: cfg.Media.BaseURL}

	return router.Deps{
		JWT:      jwter,
		Users:    service.NewUserService(users, orders, jwter, notifier, log),
		Catalog:  service.NewCatalogService(catalog, c, media, log),
		Cart:     service.NewCartService(carts, catalog, media, log),
		Wishlist: service.NewWishlistService(wishlist, catalog, media, log),
		Orders:   service.NewOrderService(orders, catalog, gw, media, log),
		Admin:    service.NewAdminService(users, catalog, orders),
	}
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
