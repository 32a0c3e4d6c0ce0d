package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"goeat-backend/internal/apperr"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON body 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.Query 取
)

// Action 非 CRUD 接口一行注册：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // GET / POST / PUT / PATCH / DELETE
	Path    string // 例："/orders/create"、"/cart/:id"
	Binder  Binder
	Status  int // 成功状态码，0 取 200
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// Register 挂载动作：绑定入参 → 执行 → 统一错误映射。
// 错误响应一律 {"error": msg}，非 *apperr.E 的错误收敛成裸 500，
// 不把内部错误串漏给客户端。
func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone
		}
		if bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": bindErr.Error()})
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}

func WriteError(c *gin.Context, err error) {
	var ae *apperr.E
	if errors.As(err, &ae) {
		// Err 只进访问日志的 errors 字段
		_ = c.Error(err)
		c.JSON(ae.Code, gin.H{"error": ae.Msg})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
