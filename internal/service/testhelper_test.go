package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/gateway"
	"goeat-backend/pkg/utils"
)

var testMedia = Media{BaseURL: "https://media.test"}

// newTestDB 每个用例独立的内存库，cache=shared 保证连接池
// 里的所有连接看到同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", utils.NewID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.CartItem{},
		&domain.WishlistItem{},
		&domain.Order{},
		&domain.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: utils.HashPassword(password),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{ID: utils.NewID(), Name: name, Image: "categories/" + name + ".jpg"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedProduct(t *testing.T, db *gorm.DB, cat *domain.Category, name, price string, active bool) *domain.Product {
	t.Helper()
	p := &domain.Product{
		ID:         utils.NewID(),
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Brand:      "Goeat",
		Image:      "products/" + name + ".jpg",
		CategoryID: cat.ID,
		Active:     active,
	}
	require.NoError(t, db.Create(p).Error)
	// gorm 对带 default:true 的零值字段会改写成默认值，false 需要用列更新落库
	if !active {
		require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", p.ID).Update("active", false).Error)
	}
	return p
}

func seedOrder(t *testing.T, db *gorm.DB, userID, total string, status domain.OrderStatus) *domain.Order {
	t.Helper()
	o := &domain.Order{
		ID:     utils.NewID(),
		UserID: userID,
		Total:  decimal.RequireFromString(total),
		Status: status,
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

// requireCode 断言错误是带该 HTTP 码的业务错误
func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	var ae *apperr.E
	require.ErrorAs(t, err, &ae)
	require.Equal(t, code, ae.Code)
}

const goodSignature = "sig-accepted"

// fakeGateway 可编程的支付网关替身：记录调用、可注入失败，
// 签名只认固定的 goodSignature
type fakeGateway struct {
	mu         sync.Mutex
	fail       bool
	creates    int
	lastAmount int64
	lastCcy    string
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*gateway.PaymentOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.creates++
	g.lastAmount = amount
	g.lastCcy = currency
	if g.fail {
		return nil, errors.New("gateway down")
	}
	return &gateway.PaymentOrder{ID: "order_rzp_" + receipt, Amount: amount, Currency: currency}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return orderID != "" && paymentID != "" && signature == goodSignature
}

func (g *fakeGateway) createCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates
}

// fakeNotifier 两封邮件各发一个信号到 done，便于测试等待
// fire-and-forget 的 goroutine 跑完
type fakeNotifier struct {
	mu        sync.Mutex
	sendErr   error
	panicMode bool
	welcomed  []string
	done      chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 2)}
}

func (n *fakeNotifier) WelcomeUser(_, email string) error {
	if n.panicMode {
		panic("smtp exploded")
	}
	n.mu.Lock()
	n.welcomed = append(n.welcomed, email)
	n.mu.Unlock()
	n.done <- struct{}{}
	return n.sendErr
}

func (n *fakeNotifier) NewUserAlert(_, _ string) error {
	n.done <- struct{}{}
	return n.sendErr
}
