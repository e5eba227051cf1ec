package user

import (
	"contract-tracking-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 挂载用户模块路由，管理端点要求管理员角色
func (u *ModuleUser) InitRouter(r *gin.RouterGroup) {
	userGroup := r.Group("/user")

	// 登录不需要令牌
	userGroup.POST("/login", Login)

	commonGroup := userGroup.Group("")
	commonGroup.Use(middleware.Auth(0))
	{
		commonGroup.GET("/me", GetMe)
		commonGroup.PUT("/password", ChangePassword)
	}

	adminGroup := userGroup.Group("")
	adminGroup.Use(middleware.Auth(1))
	{
		adminGroup.POST("/add", AddUser)
		adminGroup.GET("/list", ListUsers)
		adminGroup.DELETE("/delete/:id", DeleteUser)
	}
}
