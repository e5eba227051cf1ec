package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 业务错误码表。5xx 段为服务器内部错误，会触发 Sentry 上报
var (
	ErrInvalidRequest  = newError(400, "请求参数错误")
	ErrTokenInvalid    = newError(401, "登录状态无效")
	ErrUnauthorized    = newError(403, "没有操作权限")
	ErrNotFound        = newError(404, "资源不存在")
	ErrAlreadyExists   = newError(409, "资源已存在")
	ErrProtected       = newError(423, "系统固定数据不可删除")
	ErrInvalidPassword = newError(40001, "用户名或密码错误")
	ErrInternal        = newError(500, "服务器内部错误")
	ErrDatabase        = newError(501, "数据库操作失败")
	ErrFileSystem      = newError(502, "文件存储操作失败")
)

// ResponseBody 统一响应包装，业务码放在 code 字段，HTTP 状态恒为 200
type ResponseBody struct {
	Code   int32       `json:"code"`
	Msg    string      `json:"msg"`
	Origin string      `json:"origin,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Success 返回成功响应，data 至多一个
func Success(c *gin.Context, data ...interface{}) {
	body := ResponseBody{
		Code: 200,
		Msg:  "success",
	}
	if len(data) > 0 {
		body.Data = data[0]
	}
	c.JSON(http.StatusOK, body)
}

// Fail 返回失败响应。非 *Error 的错误统一归为内部错误
func Fail(c *gin.Context, err error) {
	e, ok := err.(*Error)
	if !ok {
		e = ErrInternal.WithOrigin(err)
	}

	body := ResponseBody{
		Code: e.Code,
		Msg:  e.Message,
	}
	if gin.Mode() == gin.DebugMode {
		body.Origin = e.Origin
	}

	// 留给日志与上报中间件
	c.Set(ErrorContextKey, e)

	c.JSON(http.StatusOK, body)
}

// Recovery 捕获 handler panic，统一落到内部错误响应
func Recovery(c *gin.Context) {
	if r := recover(); r != nil {
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("panic: %v", r)
		}
		Fail(c, ErrInternal.WithOrigin(err))
		c.Abort()
	}
}
