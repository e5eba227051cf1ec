package jwt

import (
	"github.com/gin-gonic/gin"
)

// GetUserPayload 从 gin.Context 取出 Auth 中间件写入的用户信息
func GetUserPayload(c *gin.Context) (userPayload *Claims, exist bool) {
	payload, _ := c.Get("payload")
	userPayload, exist = payload.(*Claims)
	return
}

// IsAdmin 当前请求者是否为管理员
func IsAdmin(c *gin.Context) bool {
	payload, ok := GetUserPayload(c)
	return ok && payload.RoleID >= 1
}
