package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/plantarium-platform/trellis-go/internal/planner"
	"github.com/plantarium-platform/trellis-go/internal/storage/repos"
	"github.com/plantarium-platform/trellis-go/internal/topology"
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"go.uber.org/zap"
)

// Watcher re-runs the planning pipeline whenever the topology file changes.
// The pipeline is idempotent and side-effect free, so a failed rebuild leaves
// the previous plan in place and the watcher keeps running.
type Watcher struct {
	Loader   topology.LoaderInterface
	Planner  planner.PlanManagerInterface
	PlanRepo repos.PlanRepositoryInterface
	OnPlan   func(plan *models.StartupPlan) error // Called after every successful rebuild.
	Logger   *zap.Logger
	Debounce time.Duration
}

// NewWatcher creates a Watcher with the default debounce interval.
func NewWatcher(loader topology.LoaderInterface, planManager planner.PlanManagerInterface,
	planRepo repos.PlanRepositoryInterface, onPlan func(*models.StartupPlan) error, log *zap.Logger) *Watcher {
	return &Watcher{
		Loader:   loader,
		Planner:  planManager,
		PlanRepo: planRepo,
		OnPlan:   onPlan,
		Logger:   log,
		Debounce: 200 * time.Millisecond,
	}
}

// Run plans once, then blocks watching the topology file until the context is
// canceled. The parent directory is watched because editors typically replace
// the file instead of writing it in place.
func (w *Watcher) Run(ctx context.Context, path string) error {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %v", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %v", filepath.Dir(path), err)
	}

	w.rebuild(path)

	debounce := time.NewTimer(w.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case event := <-fsWatcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(w.Debounce)
		case <-debounce.C:
			w.rebuild(path)
		case watchErr := <-fsWatcher.Errors:
			w.Logger.Warn("file watcher error", zap.Error(watchErr))
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) rebuild(path string) {
	topo, err := w.Loader.Load(path)
	if err != nil {
		w.Logger.Error("failed to load topology", zap.String("path", path), zap.Error(err))
		return
	}

	// Look up the previous plan before Plan overwrites it.
	previous, _ := w.PlanRepo.FindPlanByTopology(topo.Name)

	plan, err := w.Planner.Plan(topo)
	if err != nil {
		w.Logger.Error("failed to resolve startup order", zap.String("topology", topo.Name), zap.Error(err))
		return
	}

	if previous != nil && equalOrder(previous.Order, plan.Order) {
		w.Logger.Info("startup order unchanged",
			zap.String("topology", plan.Topology),
			zap.String("run_id", plan.RunID))
	} else {
		w.Logger.Info("startup order updated",
			zap.String("topology", plan.Topology),
			zap.String("run_id", plan.RunID),
			zap.Int("instances", len(plan.Order)))
	}

	if w.OnPlan != nil {
		if err := w.OnPlan(plan); err != nil {
			w.Logger.Error("failed to write plan artifacts", zap.Error(err))
		}
	}
}

func equalOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
