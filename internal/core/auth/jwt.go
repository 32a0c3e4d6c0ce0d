package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	typAccess  = "access"
	typRefresh = "refresh"
)

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // "user" or "admin"
	Typ  string `json:"typ"`  // access / refresh，两种 token 不可互换
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type JWTer struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// IssuePair 登录成功后同时签发 access + refresh
func (j *JWTer) IssuePair(uid, role string) (TokenPair, error) {
	access, err := j.issue(uid, role, typAccess, j.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := j.issue(uid, role, typRefresh, j.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (j *JWTer) IssueAccess(uid, role string) (string, error) {
	return j.issue(uid, role, typAccess, j.AccessTTL)
}

func (j *JWTer) issue(uid, role, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		Typ:  typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ParseAccess 校验 Bearer token；refresh token 在这里一律拒绝
func (j *JWTer) ParseAccess(tokenStr string) (*Claims, error) {
	c, err := j.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Typ != typAccess {
		return nil, errors.New("not an access token")
	}
	return c, nil
}

func (j *JWTer) ParseRefresh(tokenStr string) (*Claims, error) {
	c, err := j.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if c.Typ != typRefresh {
		return nil, errors.New("not a refresh token")
	}
	return c, nil
}

func (j *JWTer) parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
