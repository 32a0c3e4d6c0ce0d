package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goeat-backend/internal/service"
	httpez "goeat-backend/internal/transport/http/ez"
)

type statsModule struct {
	svc *service.AdminService
}

func (m *statsModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.Register(ez, httpez.Action[struct{}, *service.Stats]{
		Method: http.MethodGet,
		Path:   "/stats",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.Stats, error) {
			return m.svc.Stats(c.Request.Context())
		},
	})
}
