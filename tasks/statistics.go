package tasks

import (
	"context"
	"time"

	"chirp/monitoring"
	"chirp/storage"
)

// StatisticsUpdater periodically refreshes the exported user/post totals.
type StatisticsUpdater struct {
	storageManager *storage.Manager
	interval       time.Duration
}

func NewStatisticsUpdater(storageManager *storage.Manager, interval time.Duration) *StatisticsUpdater {
	return &StatisticsUpdater{
		storageManager: storageManager,
		interval:       interval,
	}
}

func (u *StatisticsUpdater) Run() {
	for {
		u.updateStatistics()
		time.Sleep(u.interval)
	}
}

func (u *StatisticsUpdater) updateStatistics() {
	ctx := context.Background()
	monitoring.UsersTotal.Set(float64(u.storageManager.CountUsers(ctx)))
	monitoring.PostsTotal.Set(float64(u.storageManager.CountPosts(ctx)))
}
