package stats

import (
	"fmt"
	"sort"
	"time"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/model"
)

type statusCount struct {
	Status string `gorm:"column:status" json:"status"`
	Count  int64  `gorm:"column:cnt" json:"count"`
}

type statusAmount struct {
	Status string  `gorm:"column:status" json:"status"`
	Count  int64   `gorm:"column:cnt" json:"count"`
	Amount float64 `gorm:"column:amount" json:"amount"`
}

type periodCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

func selectTotals() (count int64, amount float64, err error) {
	if err = database.DB.Model(&model.Project{}).Count(&count).Error; err != nil {
		return
	}
	err = database.DB.Model(&model.Project{}).
		Select("COALESCE(SUM(project_amount), 0)").
		Scan(&amount).Error
	return
}

func selectUserCount() (int64, error) {
	var count int64
	err := database.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}

func selectColumnCount() (int64, error) {
	var count int64
	err := database.DB.Model(&model.DynamicColumn{}).Count(&count).Error
	return count, err
}

func selectProgressCounts() ([]statusCount, error) {
	var r []statusCount
	err := database.DB.Model(&model.Project{}).
		Select("contract_progress AS status, COUNT(*) AS cnt").
		Group("contract_progress").
		Scan(&r).Error
	return r, err
}

func selectPaymentAmounts() ([]statusAmount, error) {
	var r []statusAmount
	err := database.DB.Model(&model.Project{}).
		Select("payment_status AS status, COUNT(*) AS cnt, COALESCE(SUM(project_amount), 0) AS amount").
		Group("payment_status").
		Scan(&r).Error
	return r, err
}

// selectUpcomingMaintenance 维保到期提醒，窗口为 [今天, 今天+days]
func selectUpcomingMaintenance(days int) ([]model.Project, error) {
	now := time.Now()
	deadline := now.AddDate(0, 0, days)
	var r []model.Project
	err := database.DB.Model(&model.Project{}).
		Where("maintenance_time IS NOT NULL").
		Where("maintenance_time >= ? AND maintenance_time <= ?",
			now.Format(model.DateLayout), deadline.Format(model.DateLayout)).
		Order("maintenance_time ASC").
		Find(&r).Error
	return r, err
}

// selectSignDates 取全部非空签订日期，分组在 Go 侧完成，不依赖方言日期函数
func selectSignDates() ([]time.Time, error) {
	var dates []time.Time
	err := database.DB.Model(&model.Project{}).
		Where("sign_date IS NOT NULL").
		Pluck("sign_date", &dates).Error
	return dates, err
}

func bucketByYear(dates []time.Time) []periodCount {
	buckets := make(map[string]int64)
	for _, d := range dates {
		buckets[fmt.Sprintf("%04d", d.Year())]++
	}
	return sortedCounts(buckets)
}

func bucketByMonth(dates []time.Time, year int) []periodCount {
	buckets := make(map[string]int64)
	for _, d := range dates {
		if d.Year() != year {
			continue
		}
		buckets[fmt.Sprintf("%04d-%02d", d.Year(), d.Month())]++
	}
	return sortedCounts(buckets)
}

func sortedCounts(buckets map[string]int64) []periodCount {
	r := make([]periodCount, 0, len(buckets))
	for period, cnt := range buckets {
		r = append(r, periodCount{Period: period, Count: cnt})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Period < r[j].Period })
	return r
}
