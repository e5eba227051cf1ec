package user

import (
	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"
	"contract-tracking-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AddUserReq 定义管理员添加用户请求的结构体
type AddUserReq struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// AddUser 管理员创建用户，用户名与邮箱均需唯一
func AddUser(c *gin.Context) {
	var req AddUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定添加用户请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 用户名唯一性
	var existing model.User
	err := database.DB.Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		log.Warn("用户名已存在", "username", req.Username)
		response.Fail(c, response.ErrAlreadyExists.WithTips("用户名 "+req.Username+" 已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 邮箱唯一性
	err = database.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		log.Warn("邮箱已存在", "email", req.Email)
		response.Fail(c, response.ErrAlreadyExists.WithTips("邮箱 "+req.Email+" 已存在"))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error("数据库查询失败", "error", err, "email", req.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	roleID := model.RoleUser
	if req.IsAdmin {
		roleID = model.RoleAdmin
	}

	user := model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: tools.PasswordEncrypt(req.Password),
		RoleID:   roleID,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户添加成功",
		"user_id", user.ID,
		"username", user.Username,
		"role_id", user.RoleID)

	response.Success(c, user)
}

// ListUsers 按创建时间倒序返回全部用户
func ListUsers(c *gin.Context) {
	var users []model.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		log.Error("获取用户列表失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, users)
}

// DeleteUser 删除用户，不允许删除当前登录账号。
// 硬删除，用户名和邮箱随即可复用；
// 历史备注与附件对用户只是弱引用，不做级联清理
func DeleteUser(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	id := c.Param("id")
	if id == "" {
		response.Fail(c, response.ErrInvalidRequest.WithTips("用户ID不能为空"))
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn("用户不存在", "id", id)
			response.Fail(c, response.ErrNotFound.WithTips("用户不存在"))
			return
		}
		log.Error("查询用户失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if user.ID == payload.UserID {
		log.Warn("拒绝删除当前登录用户", "user_id", user.ID)
		response.Fail(c, response.ErrInvalidRequest.WithTips("不能删除当前登录用户"))
		return
	}

	if err := database.DB.Unscoped().Delete(&user).Error; err != nil {
		log.Error("删除用户失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户删除成功", "user_id", user.ID, "username", user.Username)
	response.Success(c)
}
