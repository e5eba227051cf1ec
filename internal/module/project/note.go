package project

import (
	"strings"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddNoteReq 定义添加备注请求的结构体
type AddNoteReq struct {
	Content string `json:"content" binding:"required"`
}

// AddNote 添加项目备注，内容去除首尾空白后不能为空。备注一经创建不可修改
func AddNote(c *gin.Context) {
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

	var req AddNoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定备注请求失败", "error", err, "id", id)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("备注内容不能为空"))
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

	note := model.ProjectNote{
		Content:   content,
		ProjectID: project.ID,
		CreatedBy: payload.UserID,
	}
	if err := database.DB.Create(&note).Error; err != nil {
		log.Error("添加备注失败", "error", err, "project_id", project.ID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("备注添加成功", "note_id", note.ID, "project_id", project.ID, "created_by", payload.UserID)
	response.Success(c, note)
}

// ListNotes 按创建时间倒序返回项目备注
func ListNotes(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var notes []model.ProjectNote
	if err := database.DB.Where("project_id = ?", id).
		Order("created_at DESC").Find(&notes).Error; err != nil {
		log.Error("查询备注失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, notes)
}
