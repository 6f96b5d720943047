package cron

import (
	"fmt"
	"time"

	"github.com/Daskott/soilsense/shared"
	"github.com/go-co-op/gocron"
)

// NewCronScheduler returns a scheduler running in 'location' with unique job tags
func NewCronScheduler(location *time.Location) *gocron.Scheduler {
	if location == nil {
		location = time.Local
	}

	cronScheduler := gocron.NewScheduler(location)
	cronScheduler.TagsUnique()

	return cronScheduler
}

// ScheduleDaily runs 'task' every day at 'timeStamp' ("HH:MM").
// A run that is still going when the next one is due causes that run to be skipped.
func ScheduleDaily(cronScheduler *gocron.Scheduler, tag, timeStamp string, task func()) (*gocron.Job, error) {
	if _, _, ok := shared.ParseTimeStamp(timeStamp); !ok {
		return nil, fmt.Errorf("invalid daily time %q, expected HH:MM", timeStamp)
	}

	return cronScheduler.Every(1).Day().At(timeStamp).Tag(tag).SingletonMode().Do(task)
}

// ScheduleCron runs 'task' based on the 'cronExpression' provided
func ScheduleCron(cronScheduler *gocron.Scheduler, tag, cronExpression string, task func()) (*gocron.Job, error) {
	return cronScheduler.Cron(cronExpression).Tag(tag).SingletonMode().Do(task)
}
