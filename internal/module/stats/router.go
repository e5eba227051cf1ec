package stats

import (
	"contract-tracking-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

func (*ModuleStats) InitRouter(r *gin.RouterGroup) {
	commonGroup := r.Group("/stats")
	commonGroup.Use(middleware.Auth(0))
	{
		commonGroup.GET("/dashboard", Dashboard)
	}
	adminGroup := r.Group("/stats")
	adminGroup.Use(middleware.Auth(1))
	{
		adminGroup.GET("/overview", Overview)
	}
}
