package main

import (
	"fmt"
	"strings"

	"github.com/plantarium-platform/trellis-go/internal/artifacts"
	"github.com/plantarium-platform/trellis-go/internal/logger"
	"github.com/plantarium-platform/trellis-go/internal/planner"
	"github.com/plantarium-platform/trellis-go/internal/render"
	"github.com/plantarium-platform/trellis-go/internal/topology"
	"github.com/plantarium-platform/trellis-go/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	topologyPath string
	orderPath    string
	dotPath      string
	renderURL    string
	logLevel     string
	prettyLog    bool
	dagOnly      bool
)

var rootCmd = &cobra.Command{
	Use:   "trellis",
	Short: "Resolve a service topology into a deterministic startup order",
	Long: `trellis expands a declarative YAML service topology (singletons plus
replicated shard groups) into concrete service instances, derives the
"must start before" dependency graph and computes a deterministic startup
order. It writes the order as a JSON array together with a Graphviz DOT
rendering of the graph.`,
	SilenceUsage: true,
	RunE:         runPlan,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&topologyPath, "topology", "t", "topology.yaml", "path to the topology YAML file")
	rootCmd.PersistentFlags().StringVarP(&orderPath, "out", "o", "startup_order.json", "path of the startup order artifact")
	rootCmd.PersistentFlags().StringVar(&dotPath, "dot", "dependency_dag.dot", "path of the DOT graph artifact")
	rootCmd.PersistentFlags().StringVar(&renderURL, "render-url", "", "base URL of a Graphviz rendering service; when set an SVG is written next to the DOT file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&prettyLog, "pretty", false, "human-readable colored log output")
	rootCmd.Flags().BoolVar(&dagOnly, "dag", false, "generate the simplified logical dependency graph only")
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logger.New(logLevel, prettyLog)
	defer log.Sync()

	topo, err := topology.NewLoader().Load(topologyPath)
	if err != nil {
		return err
	}

	planManager := planner.NewPlanManagerWithDI()

	if dagOnly {
		graph, err := planManager.LogicalGraph(topo)
		if err != nil {
			return err
		}
		dot := render.NewDotRenderer().RenderLogical(graph)
		written, err := writeGraph(simplifiedDotPath(dotPath), dot)
		if err != nil {
			return err
		}
		printConfirmation(written)
		return nil
	}

	plan, err := planManager.Plan(topo)
	if err != nil {
		return err
	}
	log.Info("startup order resolved",
		zap.String("topology", plan.Topology),
		zap.String("run_id", plan.RunID),
		zap.Int("instances", len(plan.Order)))

	written, err := writePlanArtifacts(plan)
	if err != nil {
		return err
	}
	printConfirmation(written)
	return nil
}

// writePlanArtifacts writes the startup order JSON and the detailed DOT graph
// (plus a rendered SVG when a render service is configured) and returns the
// written paths.
func writePlanArtifacts(plan *models.StartupPlan) ([]string, error) {
	if err := artifacts.WriteStartupOrder(orderPath, plan.Order); err != nil {
		return nil, err
	}
	written := []string{orderPath}

	dot := render.NewDotRenderer().RenderDetailed(plan.Graph)
	graphFiles, err := writeGraph(dotPath, dot)
	if err != nil {
		return nil, err
	}
	return append(written, graphFiles...), nil
}

func writeGraph(path, dot string) ([]string, error) {
	if err := artifacts.WriteDOT(path, dot); err != nil {
		return nil, err
	}
	written := []string{path}

	if renderURL != "" {
		svg, err := render.NewRenderClient(render.RenderConfig{APIURL: renderURL}).RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		svgPath := strings.TrimSuffix(path, ".dot") + ".svg"
		if err := artifacts.WriteSVG(svgPath, svg); err != nil {
			return nil, err
		}
		written = append(written, svgPath)
	}
	return written, nil
}

func simplifiedDotPath(path string) string {
	return strings.TrimSuffix(path, ".dot") + "_simple.dot"
}

func printConfirmation(written []string) {
	parts := make([]string, len(written))
	for i, path := range written {
		parts[i] = "✓ " + path
	}
	fmt.Println(strings.Join(parts, "  "))
}
