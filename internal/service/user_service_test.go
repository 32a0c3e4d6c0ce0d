package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/mail"
	"goeat-backend/internal/repo"
)

func newTestJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "goeat-test",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newUserFixture(t *testing.T, n *fakeNotifier) (*gorm.DB, *UserService) {
	t.Helper()
	db := newTestDB(t)
	// 带 nil 指针的非 nil 接口会绕过服务里的 nil 判断
	var notifier mail.Notifier
	if n != nil {
		notifier = n
	}
	svc := NewUserService(repo.NewUserRepo(db), repo.NewOrderRepo(db), newTestJWTer(), notifier, zap.NewNop())
	return db, svc
}

func TestRegister(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "  Buyer@Example.COM ",
		Name:     "Buyer",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", u.Email) // 邮箱归一成小写
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.True(t, u.IsActive)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, svc := newUserFixture(t, nil)
	ctx := context.Background()

	in := RegisterInput{Email: "dup@example.com", Name: "A", Password: "secret1"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	_, err = svc.Register(ctx, in)
	requireCode(t, err, http.StatusConflict)
}

func TestRegisterSendsMailBestEffort(t *testing.T) {
	n := newFakeNotifier()
	_, svc := newUserFixture(t, n)

	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "mail@example.com", Name: "M", Password: "secret1",
	})
	require.NoError(t, err)

	// 欢迎信 + 运营通知各一发
	for i := 0; i < 2; i++ {
		select {
		case <-n.done:
		case <-time.After(2 * time.Second):
			t.Fatal("mail dispatch not observed")
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	assert.Equal(t, []string{"mail@example.com"}, n.welcomed)
}

func TestRegisterSurvivesMailerFailure(t *testing.T) {
	n := newFakeNotifier()
	n.sendErr = assert.AnError
	db, svc := newUserFixture(t, n)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email: "mail@example.com", Name: "M", Password: "secret1",
	})
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
}

func TestRegisterSurvivesMailerPanic(t *testing.T) {
	n := newFakeNotifier()
	n.panicMode = true
	db, svc := newUserFixture(t, n)

	u, err := svc.Register(context.Background(), RegisterInput{
		Email: "mail@example.com", Name: "M", Password: "secret1",
	})
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, db.First(&stored, "id = ?", u.ID).Error)
}

func TestLogin(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()
	seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser)

	res, err := svc.Login(ctx, "Buyer@Example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token.Access)
	assert.NotEmpty(t, res.Token.Refresh)
	assert.Equal(t, "buyer@example.com", res.User.Email)
}

// 查无此人 / 密码错误 / 已封禁统一报 invalid credentials
func TestLoginUniformFailure(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()
	u := seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser)

	_, err := svc.Login(ctx, "ghost@example.com", "secret1")
	requireCode(t, err, http.StatusUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())

	_, err = svc.Login(ctx, "buyer@example.com", "wrong")
	requireCode(t, err, http.StatusUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())

	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "buyer@example.com", "secret1")
	requireCode(t, err, http.StatusUnauthorized)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestRefresh(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()
	u := seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser)

	res, err := svc.Login(ctx, u.Email, "secret1")
	require.NoError(t, err)

	access, err := svc.Refresh(ctx, res.Token.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// access token 不能当 refresh token 用
	_, err = svc.Refresh(ctx, res.Token.Access)
	requireCode(t, err, http.StatusUnauthorized)

	// 封禁后 refresh 立即失效
	require.NoError(t, db.Model(u).Update("is_active", false).Error)
	_, err = svc.Refresh(ctx, res.Token.Refresh)
	requireCode(t, err, http.StatusUnauthorized)
}

func TestBlockToggle(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()
	u := seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser)

	active, err := svc.BlockToggle(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, active)

	// 两次翻转回到原状态
	active, err = svc.BlockToggle(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, active)

	_, err = svc.BlockToggle(ctx, "missing")
	requireCode(t, err, http.StatusNotFound)
}

func TestListUsersWithTotalSpent(t *testing.T) {
	db, svc := newUserFixture(t, nil)
	ctx := context.Background()
	buyer := seedUser(t, db, "buyer@example.com", "secret1", domain.RoleUser)
	seedUser(t, db, "admin@example.com", "secret1", domain.RoleAdmin)

	seedOrder(t, db, buyer.ID, "120.50", domain.OrderCompleted)
	seedOrder(t, db, buyer.ID, "40.25", domain.OrderCompleted)
	seedOrder(t, db, buyer.ID, "999.00", domain.OrderPending) // 未支付，不入账

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1) // 管理员不出现在用户列表
	assert.Equal(t, buyer.Email, users[0].Email)
	assert.True(t, users[0].TotalSpent.Equal(decimal.RequireFromString("160.75")),
		"got %s", users[0].TotalSpent)
}
