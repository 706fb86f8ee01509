package job

import (
	"github.com/forumkit/forumkit/database"
	"github.com/forumkit/forumkit/logger"
)

// CheckpointJob flushes the SQLite write-ahead log back into the main
// database file.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint err:", err)
	}
}
