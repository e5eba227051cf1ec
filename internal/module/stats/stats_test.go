package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"
	"contract-tracking-system/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func doStatsRequest(t *testing.T, handler gin.HandlerFunc) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	handler(c)

	var resp response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Equal(t, int32(200), resp.Code)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func seedStatsData(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	test.SetupDB(t)
	(&ModuleStats{}).Init()

	year := time.Now().Year()
	d1 := time.Date(year, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(year, 2, 20, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(year-1, 6, 1, 0, 0, 0, 0, time.UTC)

	projects := []model.Project{
		{ContractName: "机房改造", ContractNumber: "HT-001", SignDate: &d1, ProjectAmount: 100, CreatedBy: 1},
		{ContractName: "网络升级", ContractNumber: "HT-002", SignDate: &d2, ProjectAmount: 50, CreatedBy: 1},
		{ContractName: "历史项目", ContractNumber: "HT-003", SignDate: &d3, ProjectAmount: 30, CreatedBy: 1},
	}
	require.NoError(t, database.DB.Create(&projects).Error)
	require.NoError(t, database.DB.Create(&model.User{
		Username: "admin", Email: "admin@example.com", Password: "x", RoleID: model.RoleAdmin,
	}).Error)
	require.NoError(t, database.DB.Create(&model.DynamicColumn{
		Name: "验收负责人", DataType: model.DataTypeString, IsActive: true,
	}).Error)
}

// 工作台要同时带总量、分布和签订走势
func TestDashboardPayload(t *testing.T) {
	seedStatsData(t)
	data := doStatsRequest(t, Dashboard)

	require.Equal(t, float64(3), data["total_projects"])
	require.Equal(t, float64(180), data["total_amount"])
	require.NotEmpty(t, data["progress_counts"])
	require.NotEmpty(t, data["payment_counts"])

	// 跨两个年份的签订记录
	require.Len(t, data["yearly_counts"].([]interface{}), 2)
	// 当年两个月份各一单
	require.Len(t, data["monthly_counts"].([]interface{}), 2)
	require.Contains(t, data, "upcoming_maintenance")
}

// 管理端总览要带项目/金额/用户/动态列四项总量
func TestOverviewPayload(t *testing.T) {
	seedStatsData(t)
	data := doStatsRequest(t, Overview)

	require.Equal(t, float64(3), data["total_projects"])
	require.Equal(t, float64(180), data["total_amount"])
	require.Equal(t, float64(1), data["total_users"])
	require.Equal(t, float64(1), data["total_columns"])
	require.Len(t, data["yearly_counts"].([]interface{}), 2)
	require.Len(t, data["monthly_counts"].([]interface{}), 2)
}

func TestBucketByYearAndMonth(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 2, 0, 0, 0, 0, time.UTC),
	}

	yearly := bucketByYear(dates)
	require.Equal(t, []periodCount{{"2025", 1}, {"2026", 3}}, yearly)

	monthly := bucketByMonth(dates, 2026)
	require.Equal(t, []periodCount{{"2026-01", 2}, {"2026-07", 1}}, monthly)
}
