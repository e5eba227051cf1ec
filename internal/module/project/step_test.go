package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/jwt"
	"contract-tracking-system/internal/global/response"
	"contract-tracking-system/internal/model"
	"contract-tracking-system/test"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func doAuthedRequest(t *testing.T, handler gin.HandlerFunc, method string, body any, params gin.Params, claims *jwt.Claims) response.ResponseBody {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	c.Request = httptest.NewRequest(method, "/test", reader)
	c.Params = params
	if claims != nil {
		c.Set("payload", claims)
	}
	handler(c)

	var resp response.ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func setupStepTest(t *testing.T) (model.Project, *jwt.Claims) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	test.SetupDB(t)
	(&ModuleProject{}).Init()

	admin := &jwt.Claims{Payload: jwt.Payload{UserID: 1, Username: "admin", RoleID: model.RoleAdmin}}

	proj := model.Project{ContractName: "机房改造", ContractNumber: "HT-2026-001", CreatedBy: 1}
	require.NoError(t, database.DB.Create(&proj).Error)
	steps := model.SeedSteps(proj.ID, 1)
	require.NoError(t, database.DB.Create(&steps).Error)
	return proj, admin
}

// 删除步骤后同一排序号必须可以重新使用
func TestStepOrderReusableAfterDelete(t *testing.T) {
	proj, admin := setupStepTest(t)
	projectParams := gin.Params{{Key: "id", Value: fmt.Sprint(proj.ID)}}

	resp := doAuthedRequest(t, AddStep, http.MethodPost,
		map[string]string{"title": "设备到货"}, projectParams, admin)
	require.Equal(t, int32(200), resp.Code)
	created := resp.Data.(map[string]interface{})
	require.Equal(t, float64(3), created["sort_order"])

	stepID := fmt.Sprintf("%.0f", created["ID"].(float64))
	resp = doAuthedRequest(t, DeleteStep, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: stepID}}, admin)
	require.Equal(t, int32(200), resp.Code)

	resp = doAuthedRequest(t, AddStep, http.MethodPost,
		map[string]string{"title": "重新安排到货"}, projectParams, admin)
	require.Equal(t, int32(200), resp.Code)
	recreated := resp.Data.(map[string]interface{})
	require.Equal(t, float64(3), recreated["sort_order"])
}

func TestDeleteStepProtected(t *testing.T) {
	proj, admin := setupStepTest(t)

	var fixed model.ProjectStep
	require.NoError(t, database.DB.
		Where("project_id = ? AND sort_order = 0", proj.ID).First(&fixed).Error)

	resp := doAuthedRequest(t, DeleteStep, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: fmt.Sprint(fixed.ID)}}, admin)
	require.Equal(t, response.ErrProtected.Code, resp.Code)

	// 行必须原样保留
	var count int64
	require.NoError(t, database.DB.Model(&model.ProjectStep{}).
		Where("id = ?", fixed.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
