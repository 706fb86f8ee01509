// Package job contains the scheduled background jobs of the web server.
package job

import (
	"github.com/forumkit/forumkit/logger"
	"github.com/forumkit/forumkit/web/service"
)

// ActivityStatsJob periodically logs the overall forum activity.
type ActivityStatsJob struct {
	topicService service.TopicService
}

func NewActivityStatsJob() *ActivityStatsJob {
	return new(ActivityStatsJob)
}

func (j *ActivityStatsJob) Run() {
	topics, replies, err := j.topicService.Totals()
	if err != nil {
		logger.Warning("activity stats err:", err)
		return
	}
	logger.Infof("forum activity: %d topics, %d replies", topics, replies)
}
