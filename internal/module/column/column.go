package column

import (
	"strings"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddColumnReq 定义添加动态列请求的结构体
type AddColumnReq struct {
	Name     string `json:"name" binding:"required"`
	DataType string `json:"data_type" binding:"required"` // string/integer/date/boolean
}

// AddColumn 添加动态列，列名唯一且类型必须在枚举内
func AddColumn(c *gin.Context) {
	var req AddColumnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定添加列请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("列名称不能为空"))
		return
	}
	if !model.ValidDataType(req.DataType) {
		response.Fail(c, response.ErrInvalidRequest.WithTips("数据类型必须是 string/integer/date/boolean 之一"))
		return
	}

	var existing model.DynamicColumn
	err := database.DB.Where("name = ?", name).First(&existing).Error
	if err == nil {
		log.Warn("列名称已存在", "name", name)
		response.Fail(c, response.ErrAlreadyExists.WithTips("列名称 "+name+" 已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "name", name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	column := model.DynamicColumn{
		Name:     name,
		DataType: req.DataType,
		IsActive: true,
	}
	if err := database.DB.Create(&column).Error; err != nil {
		log.Error("创建动态列失败", "error", err, "name", name)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("动态列添加成功", "id", column.ID, "name", column.Name, "data_type", column.DataType)
	response.Success(c, column)
}

// UpdateColumnReq 定义编辑动态列请求的结构体，指针字段支持部分更新
type UpdateColumnReq struct {
	Name     *string `json:"name"`
	DataType *string `json:"data_type"`
	IsActive *bool   `json:"is_active"`
}

// UpdateColumn 编辑动态列。改名或改类型不迁移、不清理已有取值：
// 旧类型槽中的历史值会成为孤儿数据（已知限制）
func UpdateColumn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("列ID不能为空"))
		return
	}

	var req UpdateColumnReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定编辑列请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var column model.DynamicColumn
	if err := database.DB.First(&column, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("动态列不存在"))
			return
		}
		log.Error("查询动态列失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			response.Fail(c, response.ErrInvalidRequest.WithTips("列名称不能为空"))
			return
		}
		if name != column.Name {
			var existing model.DynamicColumn
			err := database.DB.Where("name = ? AND id != ?", name, column.ID).First(&existing).Error
			if err == nil {
				response.Fail(c, response.ErrAlreadyExists.WithTips("列名称 "+name+" 已存在"))
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Error("数据库查询失败", "error", err, "name", name)
				response.Fail(c, response.ErrDatabase.WithOrigin(err))
				return
			}
		}
		column.Name = name
	}
	if req.DataType != nil {
		if !model.ValidDataType(*req.DataType) {
			response.Fail(c, response.ErrInvalidRequest.WithTips("数据类型必须是 string/integer/date/boolean 之一"))
			return
		}
		if *req.DataType != column.DataType {
			log.Warn("动态列类型变更，旧类型槽的历史值将不可读",
				"id", column.ID, "old", column.DataType, "new", *req.DataType)
		}
		column.DataType = *req.DataType
	}
	if req.IsActive != nil {
		column.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&column).Error; err != nil {
		log.Error("更新动态列失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("动态列更新成功", "id", column.ID, "name", column.Name)
	response.Success(c, column)
}

// ToggleColumn 切换列激活状态。停用只隐藏新值录入，不删除历史值
func ToggleColumn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("列ID不能为空"))
		return
	}

	var column model.DynamicColumn
	if err := database.DB.First(&column, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("动态列不存在"))
			return
		}
		log.Error("查询动态列失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	column.IsActive = !column.IsActive
	if err := database.DB.Save(&column).Error; err != nil {
		log.Error("切换列状态失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("列状态已切换", "id", column.ID, "is_active", column.IsActive)
	response.Success(c, column)
}

// DeleteColumn 硬删除动态列，并在同一事务内级联清理其全部取值，
// 避免悬空外键
func DeleteColumn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("列ID不能为空"))
		return
	}

	var column model.DynamicColumn
	if err := database.DB.First(&column, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("动态列不存在"))
			return
		}
		log.Error("查询动态列失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("column_id = ?", column.ID).
			Delete(&model.ProjectDynamicValue{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&column).Error
	})
	if err != nil {
		log.Error("删除动态列失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("动态列删除成功", "id", column.ID, "name", column.Name)
	response.Success(c)
}

// ListColumns 按创建时间倒序返回全部动态列
func ListColumns(c *gin.Context) {
	var columns []model.DynamicColumn
	if err := database.DB.Order("created_at DESC").Find(&columns).Error; err != nil {
		log.Error("获取列列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, columns)
}

// ListActiveColumns 返回激活的动态列，供项目表单录入取值
func ListActiveColumns(c *gin.Context) {
	var columns []model.DynamicColumn
	if err := database.DB.Where("is_active = ?", true).
		Order("created_at DESC").Find(&columns).Error; err != nil {
		log.Error("获取激活列失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, columns)
}
