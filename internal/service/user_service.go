package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"goeat-backend/internal/apperr"
	"goeat-backend/internal/core/auth"
	"goeat-backend/internal/domain"
	"goeat-backend/internal/mail"
	"goeat-backend/internal/repo"
	"goeat-backend/pkg/utils"
)

type UserService struct {
	users    domain.UserRepository
	orders   domain.OrderRepository
	jwter    *auth.JWTer
	notifier mail.Notifier
	log      *zap.Logger
}

func NewUserService(users domain.UserRepository, orders domain.OrderRepository, jwter *auth.JWTer, notifier mail.Notifier, log *zap.Logger) *UserService {
	return &UserService{users: users, orders: orders, jwter: jwter, notifier: notifier, log: log}
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6"`
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*PublicUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, apperr.Validation("email, name and password are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("failed to check email", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}

	u := &domain.User{
		ID:           utils.NewID(),
		Email:        email,
		Name:         name,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if repo.IsDupKey(err) {
			// 并发注册撞唯一索引
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	s.notifyRegistered(u.Name, u.Email)

	out := newPublicUser(u)
	return &out, nil
}

// notifyRegistered 注册通知是 fire-and-forget：投递失败或 panic
// 只记日志，绝不影响已经成功的注册。
func (s *UserService) notifyRegistered(name, email string) {
	if s.notifier == nil {
		return
	}
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("registration mail dispatch panicked", zap.Any("recover", rec))
			}
		}()
		if err := s.notifier.WelcomeUser(name, email); err != nil {
			s.log.Warn("welcome mail failed", zap.String("email", email), zap.Error(err))
		}
		if err := s.notifier.NewUserAlert(name, email); err != nil {
			s.log.Warn("operator alert mail failed", zap.Error(err))
		}
	}()
}

type LoginResult struct {
	User  PublicUser     `json:"user"`
	Token auth.TokenPair `json:"token"`
}

// Login 统一返回 invalid credentials，不区分“查无此人”和“密码错误”，
// 避免撞库探测
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("login failed", err)
	}
	if u == nil || !u.IsActive || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, apperr.Unauthenticated("invalid credentials")
	}
	pair, err := s.jwter.IssuePair(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal("issue token failed", err)
	}
	return &LoginResult{User: newPublicUser(u), Token: pair}, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperr.Validation("refresh token required")
	}
	claims, err := s.jwter.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperr.Unauthenticated("invalid refresh token")
	}
	// 封禁用户的 refresh token 立即失效
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return "", apperr.Internal("refresh failed", err)
	}
	if u == nil || !u.IsActive {
		return "", apperr.Unauthenticated("invalid refresh token")
	}
	access, err := s.jwter.IssueAccess(u.ID, u.Role)
	if err != nil {
		return "", apperr.Internal("issue token failed", err)
	}
	return access, nil
}

// BlockToggle 翻转 is_active；连续两次调用等于没调
func (s *UserService) BlockToggle(ctx context.Context, id string) (bool, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return false, apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return false, apperr.NotFound("user not found")
	}
	u.IsActive = !u.IsActive
	if err := s.users.Update(ctx, u); err != nil {
		return false, apperr.Internal("update user failed", err)
	}
	return u.IsActive, nil
}

// ListUsers 管理端用户列表：只含普通用户，带累计消费
// （只算 completed 订单）
func (s *UserService) ListUsers(ctx context.Context) ([]AdminUser, error) {
	users, err := s.users.ListByRole(ctx, domain.RoleUser)
	if err != nil {
		return nil, apperr.Internal("list users failed", err)
	}
	out := make([]AdminUser, 0, len(users))
	for i := range users {
		u := &users[i]
		spent, err := s.orders.RevenueByUser(ctx, u.ID)
		if err != nil {
			return nil, apperr.Internal("aggregate user spend failed", err)
		}
		out = append(out, AdminUser{PublicUser: newPublicUser(u), TotalSpent: spent})
	}
	return out, nil
}
