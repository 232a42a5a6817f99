package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/plantarium-platform/trellis-go/internal/logger"
	"github.com/plantarium-platform/trellis-go/internal/planner"
	"github.com/plantarium-platform/trellis-go/internal/storage"
	"github.com/plantarium-platform/trellis-go/internal/storage/repos"
	"github.com/plantarium-platform/trellis-go/internal/topology"
	"github.com/plantarium-platform/trellis-go/internal/watch"
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the topology file and re-resolve the startup order on change",
	RunE:  runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	log := logger.New(logLevel, prettyLog)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher := watch.NewWatcher(
		topology.NewLoader(),
		planner.NewPlanManagerWithDI(),
		repos.NewPlanRepository(storage.GetPlanDB()),
		func(plan *models.StartupPlan) error {
			_, err := writePlanArtifacts(plan)
			return err
		},
		log,
	)

	log.Info("watching topology file", zap.String("path", topologyPath))
	return watcher.Run(ctx, topologyPath)
}
