package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrEmptySecret = errors.New("identity token secret is empty")

// HostClaims 宿主平台签发的身份令牌，Subject 为 whopId
type HostClaims struct {
	Username string `json:"username,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
	jwt.RegisteredClaims
}

// IdentityVerifier 校验宿主平台身份令牌
type IdentityVerifier struct {
	secret []byte
}

func NewIdentityVerifier(secret string) *IdentityVerifier {
	return &IdentityVerifier{secret: []byte(secret)}
}

// Enabled 未配置密钥时不校验令牌
func (v *IdentityVerifier) Enabled() bool {
	return len(v.secret) > 0
}

// GenerateToken 签发令牌，本地联调和测试使用
func (v *IdentityVerifier) GenerateToken(whopID string, ttl time.Duration) (string, error) {
	if !v.Enabled() {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := &HostClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   whopID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken 验证 Token 字符串并解析出 Claims
func (v *IdentityVerifier) ValidateToken(tokenString string) (*HostClaims, error) {
	if !v.Enabled() {
		return nil, ErrEmptySecret
	}
	claims := &HostClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("token is invalid")
	}
	return claims, nil
}
