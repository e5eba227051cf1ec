package middleware

import (
	"contract-tracking-system/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Trace 对每个请求创建 OTel span，仅在配置启用时挂载
func Trace() gin.HandlerFunc {
	return otelgin.Middleware(config.Get().OTel.ServiceName)
}
