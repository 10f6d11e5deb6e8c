package utils

import (
	"errors"
	"fmt"
	"time"

	"spectra-server/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenType = "access"
	tokenIssuer     = "spectra-server"
)

// AccessClaims 由身份服务签发，本服务只负责校验并读取调用者 ID。
type AccessClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

func getSecret() []byte {
	return []byte(config.Get().JWT.Secret)
}

// GenerateAccessToken 签发访问令牌，主要供测试与本地调试使用。
func GenerateAccessToken(id, username string, duration time.Duration) (string, error) {
	claims := AccessClaims{
		ID:       id,
		Username: username,
		Type:     accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getSecret())
}

func ParseAccessToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != accessTokenType {
		return nil, errors.New("invalid token type")
	}
	if claims.ID == "" {
		claims.ID = claims.Subject
	}
	if claims.ID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
