package project

import (
	"database/sql"
	"strings"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// loadSteps 取项目步骤，按排序号升序
func loadSteps(projectID interface{}) ([]model.ProjectStep, error) {
	var steps []model.ProjectStep
	err := database.DB.Where("project_id = ?", projectID).
		Order("sort_order ASC").Find(&steps).Error
	return steps, err
}

// ListSteps 返回项目步骤及实时进度
func ListSteps(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	steps, err := loadSteps(id)
	if err != nil {
		log.Error("查询步骤失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, map[string]interface{}{
		"steps":    steps,
		"progress": model.StepProgress(steps),
	})
}

// GetProgress 返回项目完成度。完成度永远由当前步骤行实时计算
func GetProgress(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	steps, err := loadSteps(id)
	if err != nil {
		log.Error("查询步骤失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, model.StepProgress(steps))
}

// AddStepReq 定义添加步骤请求的结构体
type AddStepReq struct {
	Title string `json:"title" binding:"required"`
}

// AddStep 追加非固定步骤，排序号取当前最大值加一
func AddStep(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var req AddStepReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定步骤请求失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("步骤标题不能为空"))
		return
	}

	var project model.Project
	if err := database.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("项目不存在"))
			return
		}
		log.Error("查询项目失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	var step model.ProjectStep
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// max+1 需要和插入在同一事务内，避免并发追加撞排序号
		var maxOrder sql.NullInt64
		if err := tx.Model(&model.ProjectStep{}).
			Where("project_id = ?", project.ID).
			Select("MAX(sort_order)").Scan(&maxOrder).Error; err != nil {
			return err
		}
		order := 0
		if maxOrder.Valid {
			order = int(maxOrder.Int64) + 1
		}

		step = model.ProjectStep{
			ProjectID: project.ID,
			Title:     title,
			Completed: false,
			Fixed:     false,
			SortOrder: order,
			CreatedBy: payload.UserID,
		}
		return tx.Create(&step).Error
	})
	if err != nil {
		log.Error("添加步骤失败", "error", err, "project_id", project.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("步骤添加成功", "step_id", step.ID, "project_id", project.ID, "title", title)
	response.Success(c, step)
}

// ToggleStep 无条件翻转步骤完成标记，重复调用自取反
func ToggleStep(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("步骤ID不能为空"))
		return
	}

	var step model.ProjectStep
	if err := database.DB.First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("步骤不存在"))
			return
		}
		log.Error("查询步骤失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	step.Completed = !step.Completed
	if err := database.DB.Model(&step).Update("completed", step.Completed).Error; err != nil {
		log.Error("切换步骤状态失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	steps, err := loadSteps(step.ProjectID)
	if err != nil {
		log.Error("查询步骤失败", "error", err, "project_id", step.ProjectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("步骤状态已切换", "step_id", step.ID, "completed", step.Completed)
	response.Success(c, map[string]interface{}{
		"step":     step,
		"progress": model.StepProgress(steps),
	})
}

// DeleteStep 删除非固定步骤。固定步骤和哨兵标题双层保护，
// 对任何身份都不可删；普通步骤要求创建者本人或管理员
func DeleteStep(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("步骤ID不能为空"))
		return
	}

	var step model.ProjectStep
	if err := database.DB.First(&step, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("步骤不存在"))
			return
		}
		log.Error("查询步骤失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if step.Protected() {
		log.Warn("拒绝删除受保护步骤", "step_id", step.ID, "title", step.Title, "fixed", step.Fixed)
		response.Fail(c, response.ErrProtected.WithTips("系统固定步骤不可删除"))
		return
	}

	if payload.RoleID < model.RoleAdmin && step.CreatedBy != payload.UserID {
		log.Warn("无权限删除步骤", "step_id", step.ID, "created_by", step.CreatedBy, "user_id", payload.UserID)
		response.Fail(c, response.ErrUnauthorized.WithTips("无权删除该步骤"))
		return
	}

	// 硬删除释放 (project_id, sort_order) 槽位，否则唯一索引会挡住同序号的再次追加
	if err := database.DB.Unscoped().Delete(&step).Error; err != nil {
		log.Error("删除步骤失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	steps, err := loadSteps(step.ProjectID)
	if err != nil {
		log.Error("查询步骤失败", "error", err, "project_id", step.ProjectID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("步骤删除成功", "step_id", step.ID, "project_id", step.ProjectID)
	response.Success(c, map[string]interface{}{
		"progress": model.StepProgress(steps),
	})
}
