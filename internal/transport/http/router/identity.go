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

type identityModule struct {
	svc   *service.UserService
	jwter *auth.JWTer
}

func (m *identityModule) Priority() int { return 10 } // 注册/登录最先挂

func (m *identityModule) MountAPI(api *gin.RouterGroup) {
	ezPublic := httpez.New(api)

	httpez.Register(ezPublic, httpez.Action[service.RegisterInput, gin.H]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (gin.H, error) {
			u, err := m.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return nil, err
			}
			return gin.H{"message": "User registered successfully.", "user": u}, nil
		},
	})

	type loginIn struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	httpez.Register(ezPublic, httpez.Action[loginIn, *service.LoginResult]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (*service.LoginResult, error) {
			return m.svc.Login(c.Request.Context(), in.Email, in.Password)
		},
	})

	type refreshIn struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	httpez.Register(ezPublic, httpez.Action[refreshIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/login/refresh",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *refreshIn) (gin.H, error) {
			access, err := m.svc.Refresh(c.Request.Context(), in.Refresh)
			if err != nil {
				return nil, err
			}
			return gin.H{"access": access}, nil
		},
	})

	// 历史接口在 /api 前缀下也暴露了这两个管理员操作，保持不变
	adminOnly := api.Group("", mdw.AuthJWT(m.jwter, domain.RoleAdmin))
	mountUserAdmin(httpez.New(adminOnly), m.svc)
}

func (m *identityModule) MountAdmin(admin *gin.RouterGroup) {
	mountUserAdmin(httpez.New(admin), m.svc)
}

// mountUserAdmin 用户列表 + 封禁开关，API/Admin 两个面共用
func mountUserAdmin(ez httpez.EZ, svc *service.UserService) {
	httpez.Register(ez, httpez.Action[struct{}, []service.AdminUser]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.AdminUser, error) {
			return svc.ListUsers(c.Request.Context())
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodPatch,
		Path:   "/users/:id/block",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			active, err := svc.BlockToggle(c.Request.Context(), c.Param("id"))
			if err != nil {
				return nil, err
			}
			if active {
				return gin.H{"message": "User unblocked successfully."}, nil
			}
			return gin.H{"message": "User blocked successfully."}, nil
		},
	})
}
