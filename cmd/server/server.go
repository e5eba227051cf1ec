package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"contract-tracking-system/config"
	"contract-tracking-system/internal/global/database"
	"contract-tracking-system/internal/global/logger"
	"contract-tracking-system/internal/global/middleware"
	internalOtel "contract-tracking-system/internal/global/otel"
	"contract-tracking-system/internal/global/sentry"
	"contract-tracking-system/internal/module"
	"contract-tracking-system/tools"

	"github.com/gin-gonic/gin"
)

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if config.Get().Sentry.Dsn != "" {
		if err := sentry.Init(); err != nil {
			log.Error("Sentry 初始化失败", "error", err)
		}
	}

	database.Init()

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func Run() {
	gin.SetMode(string(config.Get().Mode))
	r := gin.New()

	switch config.Get().Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	if config.Get().Sentry.Dsn != "" {
		r.Use(sentry.Middleware())
		r.Use(middleware.SentryEnrichIP())
	}
	r.Use(middleware.Recovery())

	if config.Get().OTel.Enable {
		r.Use(middleware.Trace())
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + config.Get().Prefix))
	}

	defer func() {
		sentry.Flush(2 * time.Second)
		if config.Get().OTel.Enable {
			if err := internalOtel.Shutdown(context.Background()); err != nil {
				log.Error("关闭 TracerProvider 失败", "error", err)
			}
		}
	}()

	err := r.Run(config.Get().Host + ":" + config.Get().Port)
	tools.PanicOnErr(err)
}
