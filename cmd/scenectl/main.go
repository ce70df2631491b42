package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/milk9111/scenesim/common"
	"github.com/milk9111/scenesim/ecs/component"
	"github.com/milk9111/scenesim/config"
	"github.com/milk9111/scenesim/scene"
	"github.com/milk9111/scenesim/sim"
	"github.com/spf13/cobra"
)

var (
	sceneDir string
	width    float64
	height   float64
	seed     int64
	ticks    int
	verbose  bool
	plotRole string
	plotH    int
	plotW    int
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "scenectl",
		Short:        "inspect and run physics scenes without a window",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			scene.Dir = sceneDir
		},
	}
	rootCmd.PersistentFlags().StringVar(&sceneDir, "dir", cfg.SceneDir, "directory checked for scenes before the embedded samples")
	rootCmd.PersistentFlags().Float64Var(&width, "width", float64(cfg.Width), "viewport width")
	rootCmd.PersistentFlags().Float64Var(&height, "height", float64(cfg.Height), "viewport height")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", cfg.Seed, "random seed; 0 uses the scene's seed or the clock")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log build and teardown")

	validateCmd := &cobra.Command{
		Use:   "validate [scene...]",
		Short: "parse scenes and list the fields replaced by defaults",
		Args:  cobra.MinimumNArgs(1),
		RunE:  validateScenes,
	}

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "step a scene headless and print its stats",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	runCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to step")

	probeCmd := &cobra.Command{
		Use:   "probe [scene]",
		Short: "plot live body counts per tick",
		Args:  cobra.ExactArgs(1),
		RunE:  probeScene,
	}
	probeCmd.Flags().IntVar(&ticks, "ticks", 600, "ticks to step")
	probeCmd.Flags().StringVar(&plotRole, "role", "all", "role to count (boundary, primary, indicator, cosmetic, particle, all)")
	probeCmd.Flags().IntVar(&plotH, "plot-height", 12, "plot height in rows")
	probeCmd.Flags().IntVar(&plotW, "plot-width", 72, "plot width in columns")

	samplesCmd := &cobra.Command{
		Use:   "samples",
		Short: "list embedded sample scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.Samples() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
		},
	}

	rootCmd.AddCommand(validateCmd, runCmd, probeCmd, samplesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// readScene prefers a literal file path, then the scene directory and
// embedded samples.
func readScene(name string) ([]byte, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		return os.ReadFile(name)
	}
	return scene.Load(name)
}

func buildScene(name string) (*sim.Runtime, error) {
	data, err := readScene(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	vp, err := common.NewViewport(width, height)
	if err != nil {
		return nil, err
	}
	logger := log.New(io.Discard, "", 0)
	if verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	opts := []sim.Option{sim.WithLogger(logger)}
	if seed != 0 {
		opts = append(opts, sim.WithSeed(seed))
	}
	return sim.BuildFromJSON(data, vp, opts...)
}

func validateScenes(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0
	for _, name := range args {
		data, err := readScene(name)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", name, err)
			failed++
			continue
		}
		desc, err := scene.Parse(data)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", name, err)
			failed++
			continue
		}
		if len(desc.Issues) == 0 {
			fmt.Fprintf(out, "%s: ok (%d objects, %d forces, %d composites, %d emitters)\n",
				name, len(desc.Objects), len(desc.Forces), len(desc.Composites), len(desc.Emitters))
			continue
		}
		fmt.Fprintf(out, "%s: %d fields replaced by defaults\n", name, len(desc.Issues))
		for _, issue := range desc.Issues {
			fmt.Fprintf(out, "  %s\n", issue)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenes failed to parse", failed, len(args))
	}
	return nil
}

func runScene(cmd *cobra.Command, args []string) error {
	rt, err := buildScene(args[0])
	if err != nil {
		return err
	}
	defer rt.Teardown()

	for i := 0; i < ticks; i++ {
		rt.Tick()
	}
	printStats(cmd.OutOrStdout(), rt.Stats())
	return nil
}

func probeScene(cmd *cobra.Command, args []string) error {
	var role component.Role
	all := plotRole == "all"
	if !all {
		r, ok := component.ParseRole(plotRole)
		if !ok {
			return fmt.Errorf("unknown role %q", plotRole)
		}
		role = r
	}

	rt, err := buildScene(args[0])
	if err != nil {
		return err
	}
	defer rt.Teardown()

	series := make([]float64, 0, ticks)
	for i := 0; i < ticks; i++ {
		rt.Tick()
		counts := rt.Stats().Bodies
		if all {
			total := 0
			for _, n := range counts {
				total += n
			}
			series = append(series, float64(total))
		} else {
			series = append(series, float64(counts[role]))
		}
	}
	if len(series) == 0 {
		return fmt.Errorf("nothing to plot")
	}

	chart := asciigraph.Plot(series,
		asciigraph.Height(plotH),
		asciigraph.Width(plotW),
		asciigraph.Caption(fmt.Sprintf("%s bodies per tick", plotRole)),
	)
	fmt.Fprintln(cmd.OutOrStdout(), chart)
	return nil
}

func printStats(out io.Writer, s sim.Stats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "run\t%d\n", s.Run)
	fmt.Fprintf(w, "ticks\t%d\n", s.Ticks)
	fmt.Fprintf(w, "time\t%.0fms\n", s.Time)
	roles := make([]component.Role, 0, len(s.Bodies))
	for role := range s.Bodies {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	for _, role := range roles {
		fmt.Fprintf(w, "%s\t%d\n", role, s.Bodies[role])
	}
	fmt.Fprintf(w, "space\t%d bodies, %d shapes, %d constraints\n", s.Census.Bodies, s.Census.Shapes, s.Census.Constraints)
	fmt.Fprintf(w, "hooks\t%d\n", s.Hooks)
	fmt.Fprintf(w, "timers\t%d\n", s.Timers)
	fmt.Fprintf(w, "added\t%d\n", s.Added)
	fmt.Fprintf(w, "expired\t%d\n", s.Expired)
	w.Flush()
}
