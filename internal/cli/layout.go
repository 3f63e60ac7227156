package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"charm.land/bubbles/v2/progress"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spencrmartin/brainmap/internal/adapter"
	"github.com/spencrmartin/brainmap/internal/client"
	"github.com/spencrmartin/brainmap/internal/config"
	"github.com/spencrmartin/brainmap/internal/layout"
)

var (
	layoutMode     string
	layoutOut      string
	layoutFormat   string
	layoutMaxTicks int
	layoutQuiet    bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout <snapshot.json>",
	Short: "Run the force simulation to convergence and output positions",
	Long: `Layout loads a snapshot file, runs the force simulation until it
settles (or the tick budget runs out; dense cyclic graphs may never
fully settle, which is fine), and writes the final node positions.

Examples:
  brainmap layout graph.json
  brainmap layout graph.json --mode flat --format yaml
  brainmap layout graph.json --out positions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutMode, "mode", "m", "", "layout mode: flat or universe (default from env)")
	layoutCmd.Flags().StringVarP(&layoutOut, "out", "o", "", "output file (default stdout)")
	layoutCmd.Flags().StringVarP(&layoutFormat, "format", "f", "json", "output format: json or yaml")
	layoutCmd.Flags().IntVarP(&layoutMaxTicks, "max-ticks", "n", 600, "tick budget before giving up on convergence")
	layoutCmd.Flags().BoolVarP(&layoutQuiet, "quiet", "q", false, "suppress the progress bar")
}

func runLayout(cmd *cobra.Command, args []string) error {
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
	// Caller-driven ticks: no frame loop for batch convergence.
	layoutCfg.FrameInterval = 0

	mode := cfg.Mode
	if layoutMode != "" {
		mode = layout.Mode(layoutMode)
	}

	engine := layout.NewEngine(layoutCfg, logger, nil)
	sim, err := engine.Start(graph.Nodes, graph.Links, mode, nil)
	if err != nil {
		return err
	}
	defer engine.Stop()

	bar := progress.New(progress.WithDefaultBlend(), progress.WithWidth(40))
	var info layout.TickInfo
	for i := 0; i < layoutMaxTicks; i++ {
		var advanced bool
		info, advanced = sim.Step()
		if !advanced {
			break
		}
		if !layoutQuiet && i%20 == 0 {
			fmt.Fprintf(os.Stderr, "\r%s tick %d", bar.ViewAs(convergence(info.Alpha, layoutCfg.AlphaMin)), info.Frame)
		}
	}
	if !layoutQuiet {
		fmt.Fprintf(os.Stderr, "\r%s settled=%v after %d ticks\n",
			bar.ViewAs(1.0), info.State == layout.StateSettled, info.Frame)
	}

	return writePositions(info.Positions)
}

// convergence maps the exponential alpha decay onto [0,1] so the bar
// advances linearly.
func convergence(alpha, alphaMin float64) float64 {
	if alpha >= 1 {
		return 0
	}
	if alpha <= alphaMin {
		return 1
	}
	return math.Log(alpha) / math.Log(alphaMin)
}

func writePositions(positions []layout.Position) error {
	var (
		data []byte
		err  error
	)
	switch layoutFormat {
	case "yaml":
		data, err = yaml.Marshal(positions)
	default:
		data, err = json.MarshalIndent(positions, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}

	if layoutOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(layoutOut, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d positions to %s\n", len(positions), layoutOut)
	return nil
}
