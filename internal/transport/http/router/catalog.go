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

type catalogModule struct {
	svc   *service.CatalogService
	jwter *auth.JWTer
}

func (m *catalogModule) MountAPI(api *gin.RouterGroup) {
	ezPublic := httpez.New(api)
	ezAdmin := httpez.New(api.Group("", mdw.AuthJWT(m.jwter, domain.RoleAdmin)))

	// 读公开，写要 admin
	httpez.Register(ezPublic, httpez.Action[struct{}, []service.CategoryView]{
		Method: http.MethodGet,
		Path:   "/categories",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.CategoryView, error) {
			return m.svc.ListCategories(c.Request.Context())
		},
	})
	httpez.Register(ezAdmin, httpez.Action[service.CreateCategoryInput, *service.CategoryView]{
		Method: http.MethodPost,
		Path:   "/categories",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateCategoryInput) (*service.CategoryView, error) {
			return m.svc.CreateCategory(c.Request.Context(), *in)
		},
	})

	httpez.Register(ezPublic, httpez.Action[struct{}, []service.ProductView]{
		Method: http.MethodGet,
		Path:   "/products",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.ProductView, error) {
			return m.svc.ListProducts(c.Request.Context(), c.Query("category"))
		},
	})
	httpez.Register(ezAdmin, httpez.Action[service.CreateProductInput, *service.ProductView]{
		Method: http.MethodPost,
		Path:   "/products",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateProductInput) (*service.ProductView, error) {
			return m.svc.CreateProduct(c.Request.Context(), *in)
		},
	})
	httpez.Register(ezPublic, httpez.Action[struct{}, *service.ProductView]{
		Method: http.MethodGet,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*service.ProductView, error) {
			return m.svc.GetProduct(c.Request.Context(), c.Param("id"))
		},
	})
}

func (m *catalogModule) MountAdmin(admin *gin.RouterGroup) {
	ez := httpez.New(admin)

	httpez.Register(ez, httpez.Action[service.UpdateProductInput, *service.ProductView]{
		Method: http.MethodPut,
		Path:   "/products/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateProductInput) (*service.ProductView, error) {
			return m.svc.UpdateProduct(c.Request.Context(), c.Param("id"), *in)
		},
	})
	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/products/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Product deleted successfully"}, nil
		},
	})
}
