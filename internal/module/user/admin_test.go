package user

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

func setupUserTest(t *testing.T) *jwt.Claims {
	t.Helper()
	gin.SetMode(gin.TestMode)
	test.SetupDB(t)
	(&ModuleUser{}).Init()
	return &jwt.Claims{Payload: jwt.Payload{UserID: 1, Username: "admin", RoleID: model.RoleAdmin}}
}

// 删除用户后其用户名和邮箱必须可以再次注册
func TestUsernameReusableAfterDelete(t *testing.T) {
	admin := setupUserTest(t)
	body := map[string]any{
		"username": "zhang",
		"email":    "zhang@example.com",
		"password": "secret123",
	}

	resp := doAuthedRequest(t, AddUser, http.MethodPost, body, nil, admin)
	require.Equal(t, int32(200), resp.Code)
	created := resp.Data.(map[string]interface{})
	userID := fmt.Sprintf("%.0f", created["ID"].(float64))

	resp = doAuthedRequest(t, DeleteUser, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: userID}}, admin)
	require.Equal(t, int32(200), resp.Code)

	// 重新创建同名同邮箱用户
	resp = doAuthedRequest(t, AddUser, http.MethodPost, body, nil, admin)
	require.Equal(t, int32(200), resp.Code)
}

func TestAddUserDuplicateName(t *testing.T) {
	admin := setupUserTest(t)
	body := map[string]any{
		"username": "lisi",
		"email":    "lisi@example.com",
		"password": "secret123",
	}
	resp := doAuthedRequest(t, AddUser, http.MethodPost, body, nil, admin)
	require.Equal(t, int32(200), resp.Code)

	resp = doAuthedRequest(t, AddUser, http.MethodPost, body, nil, admin)
	require.Equal(t, response.ErrAlreadyExists.Code, resp.Code)
}

func TestDeleteUserSelfGuard(t *testing.T) {
	admin := setupUserTest(t)
	self := model.User{Username: "admin", Email: "admin@example.com", Password: "x", RoleID: model.RoleAdmin}
	require.NoError(t, database.DB.Create(&self).Error)
	admin.UserID = self.ID

	resp := doAuthedRequest(t, DeleteUser, http.MethodDelete, nil,
		gin.Params{{Key: "id", Value: fmt.Sprint(self.ID)}}, admin)
	require.Equal(t, response.ErrInvalidRequest.Code, resp.Code)
}
