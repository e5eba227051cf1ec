package project

import (
	"mime"
	"path/filepath"
	"strings"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"
	"contract-tracking-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// allowedExtensions 附件扩展名白名单，大小写不敏感
var allowedExtensions = map[string]bool{
	".txt": true, ".pdf": true,
	".doc": true, ".docx": true,
	".xls": true, ".xlsx": true,
	".ppt": true, ".pptx": true,
	".jpg": true, ".jpeg": true,
	".png": true, ".gif": true,
}

func allowedFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return allowedExtensions[ext]
}

// UploadFile 上传项目附件。落盘名经净化并带纳秒后缀防碰撞，
// 原始文件名仅保留用于展示
func UploadFile(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("未选择文件"))
		return
	}

	if !allowedFile(fileHeader.Filename) {
		log.Warn("不支持的文件类型", "filename", fileHeader.Filename)
		response.Fail(c, response.ErrInvalidRequest.WithTips("不支持的文件类型"))
		return
	}

	fileType := model.NormalizeFileType(c.PostForm("file_type"))

	filename, path, err := store.Save(project.ID, fileHeader)
	if err != nil {
		log.Error("保存附件失败", "error", err, "project_id", project.ID)
		response.Fail(c, response.ErrFileSystem.WithOrigin(err))
		return
	}

	file := model.ProjectFile{
		ProjectID:        project.ID,
		Filename:         filename,
		OriginalFilename: fileHeader.Filename,
		FileType:         fileType,
		FilePath:         path,
		UploadedBy:       payload.UserID,
	}
	if err := database.DB.Create(&file).Error; err != nil {
		log.Error("写入附件记录失败", "error", err, "project_id", project.ID)
		// 记录失败时清掉刚落盘的字节，避免孤儿文件
		if delErr := store.Delete(project.ID, filename); delErr != nil {
			log.Warn("清理附件字节失败", "path", path, "error", delErr)
		}
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("附件上传成功",
		"file_id", file.ID,
		"project_id", project.ID,
		"file_type", fileType,
		"uploaded_by", payload.UserID)

	response.Success(c, file)
}

// groupFiles 附件按 file_type 分组
func groupFiles(files []model.ProjectFile) map[string][]model.ProjectFile {
	grouped := map[string][]model.ProjectFile{
		model.FileTypeContract:   {},
		model.FileTypeAcceptance: {},
		model.FileTypeOther:      {},
	}
	for _, f := range files {
		key := model.NormalizeFileType(f.FileType)
		grouped[key] = append(grouped[key], f)
	}
	return grouped
}

// ListFiles 返回项目附件，按类型分组
func ListFiles(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("项目ID不能为空"))
		return
	}

	var files []model.ProjectFile
	if err := database.DB.Where("project_id = ?", id).
		Order("created_at DESC").Find(&files).Error; err != nil {
		log.Error("查询附件失败", "error", err, "project_id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, groupFiles(files))
}

// DownloadFile 下载项目附件，展示名用原始文件名
func DownloadFile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("文件ID不能为空"))
		return
	}

	var file model.ProjectFile
	if err := database.DB.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("文件不存在"))
			return
		}
		log.Error("查询附件失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !store.Exists(file.ProjectID, file.Filename) {
		log.Warn("附件字节缺失", "file_id", file.ID, "path", file.FilePath)
		response.Fail(c, response.ErrNotFound.WithTips("附件文件已丢失"))
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(file.OriginalFilename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	tools.SendStoredFile(c, store.Path(file.ProjectID, file.Filename),
		file.OriginalFilename, contentType)
}

// DeleteFile 删除项目附件，要求上传者、项目创建者或管理员。
// 先删字节再删记录：字节删除失败只告警，记录照删
func DeleteFile(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("文件ID不能为空"))
		return
	}

	var file model.ProjectFile
	if err := database.DB.First(&file, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Fail(c, response.ErrNotFound.WithTips("文件不存在"))
			return
		}
		log.Error("查询附件失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if payload.RoleID < model.RoleAdmin && file.UploadedBy != payload.UserID {
		var project model.Project
		if err := database.DB.First(&project, "id = ?", file.ProjectID).Error; err != nil ||
			project.CreatedBy != payload.UserID {
			log.Warn("无权限删除附件", "file_id", file.ID, "user_id", payload.UserID)
			response.Fail(c, response.ErrUnauthorized.WithTips("无权删除该附件"))
			return
		}
	}

	var warning string
	if err := store.Delete(file.ProjectID, file.Filename); err != nil {
		log.Warn("删除附件字节失败", "path", file.FilePath, "error", err)
		warning = "附件字节删除失败: " + file.FilePath
	}

	if err := database.DB.Delete(&file).Error; err != nil {
		log.Error("删除附件记录失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("附件删除成功", "file_id", file.ID, "project_id", file.ProjectID)

	if warning != "" {
		response.Success(c, map[string]interface{}{"warning": warning})
		return
	}
	response.Success(c)
}
