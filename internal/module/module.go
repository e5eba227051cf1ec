package module

import (
	"contract-tracking-system/internal/module/column"
	"contract-tracking-system/internal/module/ping"
	"contract-tracking-system/internal/module/project"
	"contract-tracking-system/internal/module/stats"
	"contract-tracking-system/internal/module/user"

	"github.com/gin-gonic/gin"
)

type Module interface {
	GetName() string
	Init()
	InitRouter(r *gin.RouterGroup)
}

var Modules []Module

func registerModule(m []Module) {
	Modules = append(Modules, m...)
}

func init() {
	// Register your module here
	registerModule([]Module{
		&user.ModuleUser{},
		&ping.ModulePing{},
		&project.ModuleProject{},
		&column.ModuleColumn{},
		&stats.ModuleStats{},
	})
}
