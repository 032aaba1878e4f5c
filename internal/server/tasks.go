package server

import (
	"time"

	"github.com/freshmandi/freshmandi/app/repositories"
	"github.com/freshmandi/freshmandi/pkg/logger"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"github.com/freshmandi/freshmandi/pkg/schedule"
)

// RegisterTasks wires the periodic maintenance tasks.
func RegisterTasks() {
	products := repositories.NewProductRepository()

	// Keeps the public farmer-areas endpoint warm; the cache entry expires
	// on the same five-minute cadence.
	schedule.Every(5).Minutes().Name("warm-farmer-areas").Run(func() {
		if _, err := products.FarmerAreas(); err != nil {
			logger.Warn("task: farmer areas refresh failed", "error", err)
		}
	})

	schedule.Daily().Name("prune-failed-jobs").Run(func() {
		rows, err := queue.PruneFailedBefore(time.Now().AddDate(0, 0, -7))
		if err != nil {
			logger.Warn("task: failed-job prune failed", "error", err)
			return
		}
		if rows > 0 {
			logger.Info("task: pruned failed jobs", "rows", rows)
		}
	})
}
