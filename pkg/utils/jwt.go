package utils

import (
	"errors"
	"time"

	"github.com/BinLe1988/soulmap-journal/configs"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenIssuer = "soulmap-journal"

// 全局JWT密钥
var jwtSecret []byte
var jwtExpiration time.Duration

// 初始化JWT配置
func InitJWT(cfg *configs.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
	jwtExpiration = time.Duration(cfg.JWT.ExpiresIn) * time.Hour
}

// Claims JWT声明，Subject 为用户ID
type Claims struct {
	jwt.RegisteredClaims
}

// UserID 解析 Subject 中的用户ID
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// GenerateToken 生成JWT令牌
func GenerateToken(userID uuid.UUID) (string, error) {
	if len(jwtSecret) == 0 {
		return "", errors.New("jwt secret not initialized")
	}

	nowTime := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(nowTime),
			ExpiresAt: jwt.NewNumericDate(nowTime.Add(jwtExpiration)),
		},
	}

	tokenClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenClaims.SignedString(jwtSecret)
}

// ParseToken 解析JWT令牌
func ParseToken(token string) (*Claims, error) {
	tokenClaims, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := tokenClaims.Claims.(*Claims); ok && tokenClaims.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
