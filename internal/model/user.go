package model

const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User 账号。删除走硬删除，用户名/邮箱唯一索引不会被历史行占位
type User struct {
	Model
	Username string `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	Email    string `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password string `gorm:"type:varchar(255);not null" json:"-"`
	RoleID   int    `gorm:"default:0;not null" json:"role_id"` // 0 普通用户，1 管理员
}

func (u *User) IsAdmin() bool {
	return u.RoleID >= RoleAdmin
}
