package project

import (
	"log/slog"

	"contract-tracking-system/internal/global/logger"
	"contract-tracking-system/internal/global/storage"
)

var (
	log   *slog.Logger
	store *storage.Store
)

type ModuleProject struct{}

func (p *ModuleProject) GetName() string {
	return "Project"
}

func (p *ModuleProject) Init() {
	log = logger.New("Project")
	store = storage.Default()
}
