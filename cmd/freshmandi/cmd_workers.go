package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freshmandi/freshmandi/app/services"
	"github.com/freshmandi/freshmandi/internal/server"
	"github.com/freshmandi/freshmandi/pkg/app"
	"github.com/freshmandi/freshmandi/pkg/queue"
	"github.com/freshmandi/freshmandi/pkg/schedule"
)

var queueWorkersFlag int

// freshmandi queue:work — run queue workers without the HTTP server.
var queueWorkCmd = &cobra.Command{
	Use:   "queue:work",
	Short: "Start the queue workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Boot(); err != nil {
			return err
		}
		defer app.Shutdown()

		services.RegisterJobs()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		workers := queueWorkersFlag
		if workers < 1 {
			workers = 5
		}

		fmt.Printf("Queue workers started (%d). Press Ctrl+C to stop.\n", workers)
		queue.StartWorkers(ctx, workers)

		<-ctx.Done()
		fmt.Println("\nQueue workers stopped.")
		return nil
	},
}

// freshmandi schedule:list
var scheduleListCmd = &cobra.Command{
	Use:   "schedule:list",
	Short: "List the registered scheduled tasks",
	Run: func(cmd *cobra.Command, args []string) {
		server.RegisterTasks()
		for _, line := range schedule.List() {
			fmt.Println(line)
		}
	},
}

func init() {
	queueWorkCmd.Flags().IntVarP(&queueWorkersFlag, "workers", "w", 5, "Number of concurrent workers")
}
