package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestWithOriginKeepsCode(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := ErrDatabase.WithOrigin(cause)

	require.Equal(t, ErrDatabase.Code, err.Code)
	require.Equal(t, ErrDatabase.Message, err.Message)
	require.NotEmpty(t, err.Origin)
	require.True(t, errors.Is(err, ErrDatabase))
	require.ErrorContains(t, err.Unwrap(), "duplicate entry")

	// 原始错误表不被污染
	require.Empty(t, ErrDatabase.Origin)
}

func TestWithTips(t *testing.T) {
	err := ErrInvalidRequest.WithTips("合同编号不能为空")
	require.Equal(t, ErrInvalidRequest.Code, err.Code)
	require.Contains(t, err.Message, "合同编号不能为空")
	require.True(t, errors.Is(err, ErrInvalidRequest))
}

func doJSON(t *testing.T, handler gin.HandlerFunc) ResponseBody {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	handler(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body ResponseBody
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestSuccess(t *testing.T) {
	body := doJSON(t, func(c *gin.Context) {
		Success(c, map[string]string{"hello": "world"})
	})
	require.Equal(t, int32(200), body.Code)
	require.Equal(t, "success", body.Msg)
	require.NotNil(t, body.Data)
}

func TestFailWrapsPlainError(t *testing.T) {
	body := doJSON(t, func(c *gin.Context) {
		Fail(c, errors.New("boom"))
	})
	require.Equal(t, ErrInternal.Code, body.Code)
	require.Equal(t, ErrInternal.Message, body.Msg)
}

func TestRecoveryCatchesPanic(t *testing.T) {
	body := doJSON(t, func(c *gin.Context) {
		defer Recovery(c)
		panic("出事了")
	})
	require.Equal(t, ErrInternal.Code, body.Code)
}
