package job

import (
	"github.com/MindDevsDavid/DragonScan/database"
	"github.com/MindDevsDavid/DragonScan/logger"
	"github.com/MindDevsDavid/DragonScan/util/common"
)

// CheckpointJob folds the WAL back into the main database file so the WAL
// cannot grow without bound between restarts.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	defer common.Recover("wal checkpoint")

	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}
