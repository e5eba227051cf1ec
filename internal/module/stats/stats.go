package stats

import (
	"time"

	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"

	"github.com/gin-gonic/gin"
)

// maintenanceWindowDays 维保提醒的时间窗口
const maintenanceWindowDays = 30

type maintenanceView struct {
	ID              uint   `json:"id"`
	ContractName    string `json:"contract_name"`
	ContractNumber  string `json:"contract_number"`
	MaintenanceTime string `json:"maintenance_time"`
	ProjectManager  string `json:"project_manager"`
}

// Dashboard 工作台统计：项目总量与金额、进度分布、收款分布、
// 按年与当年按月的签订走势、维保到期提醒
func Dashboard(c *gin.Context) {
	count, amount, err := selectTotals()
	if err != nil {
		log.Error("数据库 统计项目总量失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	progress, err := selectProgressCounts()
	if err != nil {
		log.Error("数据库 统计合同进度分布失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	payment, err := selectPaymentAmounts()
	if err != nil {
		log.Error("数据库 统计收款情况失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	signDates, err := selectSignDates()
	if err != nil {
		log.Error("数据库 查询签订日期失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	year := time.Now().Year()

	upcoming, err := selectUpcomingMaintenance(maintenanceWindowDays)
	if err != nil {
		log.Error("数据库 查询维保到期项目失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	views := make([]maintenanceView, 0, len(upcoming))
	for _, p := range upcoming {
		maintenance := ""
		if p.MaintenanceTime != nil {
			maintenance = p.MaintenanceTime.Format(model.DateLayout)
		}
		views = append(views, maintenanceView{
			ID:              p.ID,
			ContractName:    p.ContractName,
			ContractNumber:  p.ContractNumber,
			MaintenanceTime: maintenance,
			ProjectManager:  p.ProjectManager,
		})
	}

	response.Success(c, map[string]interface{}{
		"total_projects":       count,
		"total_amount":         amount,
		"progress_counts":      progress,
		"payment_counts":       payment,
		"yearly_counts":        bucketByYear(signDates),
		"monthly_counts":       bucketByMonth(signDates, year),
		"current_year":         year,
		"upcoming_maintenance": views,
	})
}

// Overview 管理端统计：项目/金额/用户/动态列四项总量，
// 外加按年与当年按月的签订走势
func Overview(c *gin.Context) {
	projectCount, amount, err := selectTotals()
	if err != nil {
		log.Error("数据库 统计项目总量失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	userCount, err := selectUserCount()
	if err != nil {
		log.Error("数据库 统计用户总量失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	columnCount, err := selectColumnCount()
	if err != nil {
		log.Error("数据库 统计动态列总量失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	signDates, err := selectSignDates()
	if err != nil {
		log.Error("数据库 查询签订日期失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	year := time.Now().Year()

	response.Success(c, map[string]interface{}{
		"total_projects": projectCount,
		"total_amount":   amount,
		"total_users":    userCount,
		"total_columns":  columnCount,
		"yearly_counts":  bucketByYear(signDates),
		"monthly_counts": bucketByMonth(signDates, year),
		"current_year":   year,
	})
}
