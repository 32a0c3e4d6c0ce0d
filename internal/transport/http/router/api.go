package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/service"
	mdw "goeat-backend/internal/transport/http/middleware"
)

// Deps 两个引擎共用的依赖集合，在 main 里组装好传进来
type Deps struct {
	JWT      *auth.JWTer
	Users    *service.UserService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Orders   *service.OrderService
	Admin    *service.AdminService
}

func registerModules(d Deps) {
	Register(&identityModule{svc: d.Users, jwter: d.JWT})
	Register(&catalogModule{svc: d.Catalog, jwter: d.JWT})
	Register(&cartModule{cart: d.Cart, wishlist: d.Wishlist, jwter: d.JWT})
	Register(&orderModule{svc: d.Orders, jwter: d.JWT})
	Register(&statsModule{svc: d.Admin})
}

func NewAPIEngine(l *zap.Logger, d Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		ginzap.RecoveryWithZap(l, true),
		mdw.Metrics(),
		mdw.AccessLog(l),
		cors.Default(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	registerModules(d)
	MountAllAPI(api)

	return r
}
