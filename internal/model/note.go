package model

// ProjectNote 项目备注，创建后不可修改
type ProjectNote struct {
	Model
	Content   string `gorm:"type:text;not null" json:"content"`
	ProjectID uint   `gorm:"index;not null" json:"project_id"`
	CreatedBy uint   `gorm:"index" json:"created_by"` // 弱引用用户表
}
