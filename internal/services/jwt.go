package services

import (
	"fmt"
	"os"
	"time"

	"decisionshub/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// token 类型，refresh token 不能当 access token 用
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type Claims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenManager 签发和校验 JWT。显式传给需要它的 handler，
// 生命周期跟随进程启动，不做包级单例。
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenManager() *TokenManager {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  30 * time.Minute,
		refreshTTL: 7 * 24 * time.Hour,
	}
}

func (m *TokenManager) sign(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// IssueTokens 签发一对 access/refresh token
func (m *TokenManager) IssueTokens(user *models.User) (access, refresh string, err error) {
	if access, err = m.sign(user, tokenTypeAccess, m.accessTTL); err != nil {
		return "", "", err
	}
	if refresh, err = m.sign(user, tokenTypeRefresh, m.refreshTTL); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// IssueAccessToken 只签发 access token（刷新接口用）
func (m *TokenManager) IssueAccessToken(user *models.User) (string, error) {
	return m.sign(user, tokenTypeAccess, m.accessTTL)
}

// IssueRefreshToken 只签发 refresh token
func (m *TokenManager) IssueRefreshToken(user *models.User) (string, error) {
	return m.sign(user, tokenTypeRefresh, m.refreshTTL)
}

func (m *TokenManager) parse(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: 无效的令牌", ErrForbidden)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: 无效的令牌", ErrForbidden)
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: 令牌类型不符", ErrForbidden)
	}
	return claims, nil
}

// ParseAccessToken 校验 access token 并取出身份信息
func (m *TokenManager) ParseAccessToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, tokenTypeAccess)
}

// ParseRefreshToken 校验 refresh token
func (m *TokenManager) ParseRefreshToken(tokenString string) (*Claims, error) {
	return m.parse(tokenString, tokenTypeRefresh)
}
