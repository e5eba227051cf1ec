package column

import (
	"log/slog"

	"contract-tracking-system/internal/global/logger"
)

var log *slog.Logger

type ModuleColumn struct{}

func (m *ModuleColumn) GetName() string {
	return "Column"
}

func (m *ModuleColumn) Init() {
	log = logger.New("Column")
}
