package jwt

import (
	"time"

	"contract-tracking-system/config"
	"contract-tracking-system/tools"

	"github.com/golang-jwt/jwt"
)

// Payload 写入令牌的用户身份信息
type Payload struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	RoleID   int    `json:"role_id"` // 0 普通用户，1 管理员
}

type Claims struct {
	Payload
	jwt.StandardClaims
}

// CreateToken 签发 HS256 访问令牌，有效期取配置的 AccessExpire（秒）
func CreateToken(payload Payload) string {
	cfg := config.Get().JWT
	now := time.Now()
	claims := Claims{
		Payload: payload,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(time.Duration(cfg.AccessExpire) * time.Second).Unix(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(cfg.AccessSecret))
	tools.PanicOnErr(err)
	return token
}

// ParseToken 校验令牌并取出用户信息
func ParseToken(tokenString string) (*Claims, bool) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(config.Get().JWT.AccessSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, false
	}
	return claims, true
}
