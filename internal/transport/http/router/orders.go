package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/service"
	httpez "goeat-backend/internal/transport/http/ez"
	mdw "goeat-backend/internal/transport/http/middleware"
)

type orderModule struct {
	svc   *service.OrderService
	jwter *auth.JWTer
}

func (m *orderModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("", mdw.AuthJWT(m.jwter, "")))

	httpez.Register(ez, httpez.Action[service.CreateOrderInput, *service.CreateOrderResult]{
		Method: http.MethodPost,
		Path:   "/orders/create",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateOrderInput) (*service.CreateOrderResult, error) {
			return m.svc.Create(c.Request.Context(), c.GetString(mdw.KeyUserID), *in)
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, []service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.OrderView, error) {
			isAdmin := c.GetString(mdw.KeyRole) == domain.RoleAdmin
			return m.svc.List(c.Request.Context(), c.GetString(mdw.KeyUserID), isAdmin)
		},
	})

	httpez.Register(ez, httpez.Action[service.VerifyPaymentInput, gin.H]{
		Method: http.MethodPost,
		Path:   "/orders/verify-payment",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.VerifyPaymentInput) (gin.H, error) {
			if err := m.svc.VerifyPayment(c.Request.Context(), *in); err != nil {
				return nil, err
			}
			return gin.H{"message": "Payment verified successfully"}, nil
		},
	})
}

func (m *orderModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.Register(ez, httpez.Action[struct{}, []service.OrderView]{
		Method: http.MethodGet,
		Path:   "/orders",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.OrderView, error) {
			return m.svc.List(c.Request.Context(), "", true)
		},
	})

	type statusIn struct {
		Status string `json:"status" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[statusIn, *service.OrderView]{
		Method: http.MethodPatch,
		Path:   "/orders/:id/status",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *statusIn) (*service.OrderView, error) {
			return m.svc.UpdateStatus(c.Request.Context(), c.Param("id"), in.Status)
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/orders/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Order deleted successfully"}, nil
		},
	})
}
