package cron

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDaily(t *testing.T) {
	location, err := time.LoadLocation("Asia/Kolkata")
	require.Nil(t, err)

	scheduler := NewCronScheduler(location)
	job, err := ScheduleDaily(scheduler, "moisture-check", "09:00", func() {})
	require.Nil(t, err)

	scheduler.StartAsync()
	defer scheduler.Stop()

	assert.Eventually(t, func() bool { return !job.NextRun().IsZero() }, time.Second, 10*time.Millisecond)

	nextRun := job.NextRun().In(location)
	assert.Equal(t, 9, nextRun.Hour())
	assert.Equal(t, 0, nextRun.Minute())
	assert.True(t, nextRun.After(time.Now()))
	assert.True(t, time.Until(nextRun) <= 24*time.Hour)
}

func TestScheduleDailyRejectsBadTime(t *testing.T) {
	scheduler := NewCronScheduler(nil)

	for _, timeStamp := range []string{"", "9", "24:00", "09:60", "nine:00"} {
		_, err := ScheduleDaily(scheduler, "moisture-check-"+timeStamp, timeStamp, func() {})
		assert.NotNil(t, err, "Should reject %q", timeStamp)
	}
}

func TestTagsAreUnique(t *testing.T) {
	scheduler := NewCronScheduler(time.UTC)

	_, err := ScheduleDaily(scheduler, "moisture-check", "09:00", func() {})
	assert.Nil(t, err)

	_, err = ScheduleDaily(scheduler, "moisture-check", "10:00", func() {})
	assert.NotNil(t, err, "Should not allow two jobs with the same tag")
}

func TestScheduleCron(t *testing.T) {
	scheduler := NewCronScheduler(time.UTC)

	_, err := ScheduleCron(scheduler, "backup", "*/30 * * * *", func() {})
	assert.Nil(t, err)

	_, err = ScheduleCron(scheduler, "bad-backup", "not a cron", func() {})
	assert.NotNil(t, err)
}
