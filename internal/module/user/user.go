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

// LoginReq 定义登录请求的结构体
type LoginReq struct {
	Username string `json:"username" binding:"required"` // 用户名，唯一标识用户
	Password string `json:"password" binding:"required"` // 密码
}

// Login 处理用户登录请求
func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	// 查询用户是否存在
	var user model.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	// 验证密码
	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	log.Info("用户登录成功",
		"user_id", user.ID,
		"username", user.Username,
		"role_id", user.RoleID)

	// 生成 JWT 令牌并返回用户信息
	response.Success(c, map[string]interface{}{
		"token": jwt.CreateToken(jwt.Payload{
			UserID:   user.ID,
			Username: user.Username,
			RoleID:   user.RoleID,
		}),
		"user_id":  user.ID,
		"username": user.Username,
		"role_id":  user.RoleID,
	})
}

// GetMe 返回当前登录用户信息
func GetMe(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		log.Error("查询用户失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, user)
}

// ChangePasswordReq 定义修改密码请求的结构体
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"` // 旧密码，用于验证
	NewPassword string `json:"new_password" binding:"required"` // 新密码，加密后保存
}

// ChangePassword 验证旧密码后更新新密码
func ChangePassword(c *gin.Context) {
	payload, exists := jwt.GetUserPayload(c)
	if !exists {
		response.Fail(c, response.ErrUnauthorized)
		return
	}

	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定修改密码请求失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	if len(req.NewPassword) < 6 {
		response.Fail(c, response.ErrInvalidRequest.WithTips("密码长度至少6字符"))
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		log.Error("查询用户失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		log.Warn("旧密码错误", "user_id", payload.UserID)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	if err := database.DB.Model(&user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "user_id", payload.UserID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("用户修改密码成功", "user_id", user.ID, "username", user.Username)
	response.Success(c)
}
