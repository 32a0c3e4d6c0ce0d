package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"goeat-backend/internal/domain"
	"goeat-backend/internal/repo"
)

type orderFixture struct {
	db      *gorm.DB
	gw      *fakeGateway
	svc     *OrderService
	user    *domain.User
	cake    *domain.Product
	brownie *domain.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	db := newTestDB(t)
	cat := seedCategory(t, db, "Cakes")
	gw := &fakeGateway{}
	return &orderFixture{
		db:      db,
		gw:      gw,
		svc:     NewOrderService(repo.NewOrderRepo(db), repo.NewCatalogRepo(db), gw, testMedia, zap.NewNop()),
		user:    seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser),
		cake:    seedProduct(t, db, cat, "Chocolate Cake", "120.50", true),
		brownie: seedProduct(t, db, cat, "Brownie", "40.25", true),
	}
}

func (f *orderFixture) countRows(t *testing.T) (orders, items int64) {
	t.Helper()
	require.NoError(t, f.db.Model(&domain.Order{}).Count(&orders).Error)
	require.NoError(t, f.db.Model(&domain.OrderItem{}).Count(&items).Error)
	return
}

func TestOrderCreate(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: f.cake.ID, Quantity: 2},
			{ProductID: f.brownie.ID, Quantity: 1},
		},
		Total: decimal.RequireFromString("281.25"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.OrderID)
	assert.Equal(t, "order_rzp_"+res.OrderID, res.RazorpayOrderID)
	assert.Equal(t, int64(28125), res.Amount) // paise
	assert.Equal(t, "INR", res.Currency)

	var o domain.Order
	require.NoError(t, f.db.Preload("Items").First(&o, "id = ?", res.OrderID).Error)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Equal(t, f.user.ID, o.UserID)
	assert.Equal(t, res.RazorpayOrderID, o.RazorpayOrderID)
	require.Len(t, o.Items, 2)
	byProduct := map[string]domain.OrderItem{}
	for _, it := range o.Items {
		byProduct[it.ProductID] = it
	}
	assert.Equal(t, 2, byProduct[f.cake.ID].Quantity)
	assert.True(t, byProduct[f.cake.ID].Price.Equal(f.cake.Price))
	assert.Equal(t, 1, byProduct[f.brownie.ID].Quantity)
	assert.True(t, byProduct[f.brownie.ID].Price.Equal(f.brownie.Price))
}

func TestOrderCreateDefaultsZeroQuantityToOne(t *testing.T) {
	f := newOrderFixture(t)

	res, err := f.svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 0}},
		Total: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)

	var it domain.OrderItem
	require.NoError(t, f.db.First(&it, "order_id = ?", res.OrderID).Error)
	assert.Equal(t, 1, it.Quantity)
}

func TestOrderCreateValidation(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	one := decimal.RequireFromString("1")

	_, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{Total: one})
	requireCode(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.Zero,
	})
	requireCode(t, err, http.StatusBadRequest)

	_, err = f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: -1}},
		Total: one,
	})
	requireCode(t, err, http.StatusBadRequest)

	// 校验阶段失败不应该碰网关
	assert.Equal(t, 0, f.gw.createCalls())
	orders, items := f.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderCreateUnknownProductPersistsNothing(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{
			{ProductID: f.cake.ID, Quantity: 1},
			{ProductID: "missing", Quantity: 1},
		},
		Total: decimal.RequireFromString("120.50"),
	})
	requireCode(t, err, http.StatusNotFound)

	assert.Equal(t, 0, f.gw.createCalls())
	orders, items := f.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderCreateGatewayDownPersistsNothing(t *testing.T) {
	f := newOrderFixture(t)
	f.gw.fail = true

	_, err := f.svc.Create(context.Background(), f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.RequireFromString("120.50"),
	})
	requireCode(t, err, http.StatusBadGateway)

	orders, items := f.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}

func TestOrderItemPriceSurvivesRepricing(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)

	require.NoError(t, f.db.Model(&domain.Product{}).
		Where("id = ?", f.cake.ID).
		Update("price", decimal.RequireFromString("999.99")).Error)

	views, err := f.svc.List(ctx, f.user.ID, false)
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Items, 1)
	assert.True(t, views[0].Items[0].Price.Equal(decimal.RequireFromString("120.50")),
		"got %s", views[0].Items[0].Price)
}

func TestVerifyPayment(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)

	// 签名被篡改：状态不动，支付 ID 不落库
	err = f.svc.VerifyPayment(ctx, VerifyPaymentInput{
		RazorpayOrderID:   res.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "forged",
		OrderID:           res.OrderID,
	})
	requireCode(t, err, http.StatusBadRequest)

	var o domain.Order
	require.NoError(t, f.db.First(&o, "id = ?", res.OrderID).Error)
	assert.Equal(t, domain.OrderPending, o.Status)
	assert.Empty(t, o.RazorpayPaymentID)

	// 签名合法：completed + 支付 ID
	err = f.svc.VerifyPayment(ctx, VerifyPaymentInput{
		RazorpayOrderID:   res.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: goodSignature,
		OrderID:           res.OrderID,
	})
	require.NoError(t, err)

	require.NoError(t, f.db.First(&o, "id = ?", res.OrderID).Error)
	assert.Equal(t, domain.OrderCompleted, o.Status)
	assert.Equal(t, "pay_123", o.RazorpayPaymentID)
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	f := newOrderFixture(t)

	err := f.svc.VerifyPayment(context.Background(), VerifyPaymentInput{
		RazorpayOrderID:   "order_rzp_x",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: goodSignature,
		OrderID:           "missing",
	})
	requireCode(t, err, http.StatusNotFound)
}

func TestVerifyPaymentMissingFields(t *testing.T) {
	f := newOrderFixture(t)

	err := f.svc.VerifyPayment(context.Background(), VerifyPaymentInput{
		RazorpayOrderID: "order_rzp_x",
	})
	requireCode(t, err, http.StatusBadRequest)
}

func TestOrderListScoping(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	other := seedUser(t, f.db, "other@example.com", "secret1", domain.RoleUser)

	_, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, other.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.brownie.ID, Quantity: 1}},
		Total: decimal.RequireFromString("40.25"),
	})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.user.ID, false)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.user.Email, mine[0].Email)

	all, err := f.svc.List(ctx, f.user.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrderUpdateStatus(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()
	o := seedOrder(t, f.db, f.user.ID, "120.50", domain.OrderPending)

	_, err := f.svc.UpdateStatus(ctx, o.ID, "teleported")
	requireCode(t, err, http.StatusBadRequest)

	_, err = f.svc.UpdateStatus(ctx, "missing", "shipped")
	requireCode(t, err, http.StatusNotFound)

	v, err := f.svc.UpdateStatus(ctx, o.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, "shipped", v.Status)
}

func TestOrderDelete(t *testing.T) {
	f := newOrderFixture(t)
	ctx := context.Background()

	res, err := f.svc.Create(ctx, f.user.ID, CreateOrderInput{
		Items: []OrderItemInput{{ProductID: f.cake.ID, Quantity: 1}},
		Total: decimal.RequireFromString("120.50"),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, res.OrderID))
	orders, items := f.countRows(t)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	requireCode(t, f.svc.Delete(ctx, res.OrderID), http.StatusNotFound)
}
