package model

// 新建项目时固定播种的三个步骤
const (
	StepTitleStart      = "项目启动"
	StepTitleAcceptance = "项目验收"
	StepTitlePayment    = "验收回款"

	// StepTitleAcceptanceDone 标题级保护哨兵，命中者与固定步骤同等不可删除
	StepTitleAcceptanceDone = "项目验收完成"
)

// ProjectStep 项目进度步骤。Fixed 步骤随项目创建播种，不可删除。
// 步骤删除走硬删除，(project_id, sort_order) 唯一索引不会被历史行占位
type ProjectStep struct {
	Model
	ProjectID uint   `gorm:"index;not null;uniqueIndex:idx_step_project_order,priority:1" json:"project_id"`
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	Completed bool   `gorm:"default:false;not null" json:"completed"`
	Fixed     bool   `gorm:"default:false;not null" json:"fixed"`
	SortOrder int    `gorm:"not null;uniqueIndex:idx_step_project_order,priority:2" json:"sort_order"`
	CreatedBy uint   `gorm:"index" json:"created_by"` // 弱引用用户表
}

// Protected 固定步骤和哨兵标题都不可删除，与调用者身份无关
func (s *ProjectStep) Protected() bool {
	return s.Fixed || s.Title == StepTitleAcceptanceDone
}

// SeedSteps 返回新项目的三个固定步骤：启动已完成，验收与回款待办
func SeedSteps(projectID, createdBy uint) []ProjectStep {
	return []ProjectStep{
		{ProjectID: projectID, Title: StepTitleStart, Completed: true, Fixed: true, SortOrder: 0, CreatedBy: createdBy},
		{ProjectID: projectID, Title: StepTitleAcceptance, Completed: false, Fixed: true, SortOrder: 1, CreatedBy: createdBy},
		{ProjectID: projectID, Title: StepTitlePayment, Completed: false, Fixed: true, SortOrder: 2, CreatedBy: createdBy},
	}
}

// Progress 步骤完成度，始终由当前步骤行实时计算，不落库
type Progress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Percent   int `json:"percent"`
}

// StepProgress 计算完成度，空集合返回 0 避免除零
func StepProgress(steps []ProjectStep) Progress {
	p := Progress{Total: len(steps)}
	for _, s := range steps {
		if s.Completed {
			p.Completed++
		}
	}
	if p.Total > 0 {
		p.Percent = 100 * p.Completed / p.Total
	}
	return p
}
