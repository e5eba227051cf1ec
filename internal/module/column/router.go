package column

import (
	"contract-tracking-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 挂载动态列路由。列的增删改查是管理员能力，
// 激活列清单对普通用户开放，供项目表单录入动态值
func (m *ModuleColumn) InitRouter(r *gin.RouterGroup) {
	commonGroup := r.Group("/column")
	commonGroup.Use(middleware.Auth(0))
	{
		commonGroup.GET("/active", ListActiveColumns)
	}

	adminGroup := r.Group("/column")
	adminGroup.Use(middleware.Auth(1))
	{
		adminGroup.GET("/list", ListColumns)
		adminGroup.POST("/add", AddColumn)
		adminGroup.PUT("/update/:id", UpdateColumn)
		adminGroup.PUT("/toggle/:id", ToggleColumn)
		adminGroup.DELETE("/delete/:id", DeleteColumn)
	}
}
