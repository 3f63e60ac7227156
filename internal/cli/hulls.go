package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spencrmartin/brainmap/internal/adapter"
	"github.com/spencrmartin/brainmap/internal/client"
	"github.com/spencrmartin/brainmap/internal/config"
	"github.com/spencrmartin/brainmap/internal/layout"
	"github.com/spencrmartin/brainmap/internal/render"
	"github.com/spencrmartin/brainmap/internal/zoom"
)

var (
	hullsMode  string
	hullsTicks int
	hullsScale float64
)

var hullsCmd = &cobra.Command{
	Use:   "hulls <snapshot.json>",
	Short: "Compute grouping hull outlines for a converged layout",
	Long: `Hulls converges a layout for the snapshot, then prints the smoothed
boundary outlines of every visible grouping as JSON. Groupings with
fewer than two placed members, or degenerate member geometry, produce
no outline.`,
	Args: cobra.ExactArgs(1),
	RunE: runHulls,
}

func init() {
	hullsCmd.Flags().StringVarP(&hullsMode, "mode", "m", "", "layout mode: flat or universe (default from env)")
	hullsCmd.Flags().IntVarP(&hullsTicks, "max-ticks", "n", 600, "tick budget for convergence")
	hullsCmd.Flags().Float64VarP(&hullsScale, "scale", "s", 1.0, "zoom scale for hull opacity")
}

func runHulls(cmd *cobra.Command, args []string) error {
	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer cleanup()

	snap, err := client.LoadFile(args[0])
	if err != nil {
		return err
	}
	graph, err := adapter.New(logger).Adapt(snap)
	if err != nil {
		return fmt.Errorf("adapt snapshot: %w", err)
	}

	layoutCfg, err := cfg.LayoutConfig()
	if err != nil {
		return err
	}
	layoutCfg.FrameInterval = 0

	mode := cfg.Mode
	if hullsMode != "" {
		mode = layout.Mode(hullsMode)
	}

	engine := layout.NewEngine(layoutCfg, logger, nil)
	sim, err := engine.Start(graph.Nodes, graph.Links, mode, nil)
	if err != nil {
		return err
	}
	defer engine.Stop()

	var info layout.TickInfo
	for i := 0; i < hullsTicks; i++ {
		var advanced bool
		info, advanced = sim.Step()
		if !advanced {
			break
		}
	}

	zoomCtrl := zoom.NewController(hullsScale, nil)
	sync := render.NewSync(graph, nil, zoomCtrl, render.RendererFunc(func(render.Frame) {}), nil)
	frame := sync.BuildFrame(info)

	data, err := json.MarshalIndent(frame.Hulls, "", "  ")
	if err != nil {
		return fmt.Errorf("encode hulls: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
