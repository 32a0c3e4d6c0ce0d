package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/service"
	httpez "goeat-backend/internal/transport/http/ez"
	mdw "goeat-backend/internal/transport/http/middleware"
)

type cartModule struct {
	cart     *service.CartService
	wishlist *service.WishlistService
	jwter    *auth.JWTer
}

func (m *cartModule) MountAPI(api *gin.RouterGroup) {
	ez := httpez.New(api.Group("", mdw.AuthJWT(m.jwter, "")))

	httpez.Register(ez, httpez.Action[struct{}, []service.CartView]{
		Method: http.MethodGet,
		Path:   "/cart",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.CartView, error) {
			return m.cart.List(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	type addIn struct {
		ProductID string `json:"product" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	httpez.Register(ez, httpez.Action[addIn, *service.CartView]{
		Method: http.MethodPost,
		Path:   "/cart",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *addIn) (*service.CartView, error) {
			qty := in.Quantity
			if qty == 0 {
				qty = 1 // 不传数量按 1 算
			}
			return m.cart.Add(c.Request.Context(), c.GetString(mdw.KeyUserID), in.ProductID, qty)
		},
	})

	type patchIn struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[patchIn, gin.H]{
		Method: http.MethodPatch,
		Path:   "/cart/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *patchIn) (gin.H, error) {
			v, removed, err := m.cart.SetQuantity(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id"), *in.Quantity)
			if err != nil {
				return nil, err
			}
			if removed {
				return gin.H{"message": "Item removed from cart"}, nil
			}
			return gin.H{"item": v}, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/cart/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			if err := m.cart.Remove(c.Request.Context(), c.GetString(mdw.KeyUserID), c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"message": "Item removed from cart"}, nil
		},
	})

	httpez.Register(ez, httpez.Action[struct{}, []service.WishlistView]{
		Method: http.MethodGet,
		Path:   "/wishlist",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]service.WishlistView, error) {
			return m.wishlist.List(c.Request.Context(), c.GetString(mdw.KeyUserID))
		},
	})

	type productIn struct {
		ProductID string `json:"product" binding:"required"`
	}
	httpez.Register(ez, httpez.Action[productIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/wishlist",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *productIn) (gin.H, error) {
			added, err := m.wishlist.Toggle(c.Request.Context(), c.GetString(mdw.KeyUserID), in.ProductID)
			if err != nil {
				return nil, err
			}
			if added {
				return gin.H{"message": "Item added to wishlist"}, nil
			}
			return gin.H{"message": "Item removed from wishlist"}, nil
		},
	})

	httpez.Register(ez, httpez.Action[productIn, gin.H]{
		Method: http.MethodDelete,
		Path:   "/wishlist",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *productIn) (gin.H, error) {
			if err := m.wishlist.Remove(c.Request.Context(), c.GetString(mdw.KeyUserID), in.ProductID); err != nil {
				return nil, err
			}
			return gin.H{"message": "Item removed from wishlist"}, nil
		},
	})
}
