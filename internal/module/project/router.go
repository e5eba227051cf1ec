package project

import (
	"contract-tracking-system/internal/global/middleware"

	"github.com/gin-gonic/gin"
)

// InitRouter 挂载项目模块路由，全部端点要求登录
func (p *ModuleProject) InitRouter(r *gin.RouterGroup) {
	projectGroup := r.Group("/project")
	projectGroup.Use(middleware.Auth(0))
	{
		projectGroup.POST("/create", CreateProject)
		projectGroup.PUT("/update/:id", UpdateProject)
		projectGroup.DELETE("/delete/:id", DeleteProject)
		projectGroup.GET("/list", ListProjects)
		projectGroup.GET("/get/:id", GetProject)

		// 动态列取值
		projectGroup.PUT("/:id/dynamic_values", SetDynamicValues)

		// 备注
		projectGroup.POST("/:id/note/add", AddNote)
		projectGroup.GET("/:id/note/list", ListNotes)

		// 附件
		projectGroup.POST("/:id/file/upload", UploadFile)
		projectGroup.GET("/:id/file/list", ListFiles)
		projectGroup.GET("/file/download/:id", DownloadFile)
		projectGroup.POST("/file/delete/:id", DeleteFile)

		// 进度步骤
		projectGroup.GET("/:id/step/list", ListSteps)
		projectGroup.GET("/:id/progress", GetProgress)
		projectGroup.POST("/:id/step/add", AddStep)
		projectGroup.PUT("/step/toggle/:id", ToggleStep)
		projectGroup.DELETE("/step/delete/:id", DeleteStep)

		// 批量导入导出
		projectGroup.POST("/import_excel", ImportExcel)
		projectGroup.GET("/export_excel", ExportExcel)
	}
}
