// Package tracing 提供 Sentry 性能追踪的集成，含 GORM 插件
package tracing

import (
	"context"

	"contract-tracking-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// IsEnabled 检查 Sentry 追踪是否已启用
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// ContextWithSpan 返回携带当前请求 span 的 context，供 GORM WithContext 使用
func ContextWithSpan(c *gin.Context) context.Context {
	if c == nil || c.Request == nil || c.Request.Context() == nil {
		return context.Background()
	}
	// sentrygin 中间件已将 span 写入 request context
	return c.Request.Context()
}

// StartSpan 在当前请求的 transaction 下创建业务子 span，需调用 Finish()
func StartSpan(c *gin.Context, operation, description string) *sentry.Span {
	var parentSpan *sentry.Span
	if c != nil && c.Request != nil && c.Request.Context() != nil {
		parentSpan = sentry.SpanFromContext(c.Request.Context())
	}
	if parentSpan == nil {
		// 请求没有 transaction 时退化为独立 span，Finish 仍然安全
		return sentry.StartSpan(context.Background(), operation)
	}

	span := parentSpan.StartChild(operation)
	span.Description = description
	return span
}
