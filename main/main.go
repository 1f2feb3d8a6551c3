package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/strata/geometry"
	"github.com/phil-mansfield/strata/io"
	"github.com/phil-mansfield/strata/topography"
	"github.com/phil-mansfield/strata/transport"
)

var logLevel string

func main() {
	rootCmd := &cobra.Command{
		Use: "strata",
		Short: "trace rays through stratified geometries",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
			level, err := log.ParseLevel(logLevel)
			if err != nil { return err }
			log.SetLevel(level)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "info",
		"Logging level: one of panic, fatal, error, warn, info, debug, trace.",
	)
	rootCmd.PersistentFlags().IntVar(
		&transport.NumCores, "threads", runtime.NumCPU(),
		"Number of threads used. Default is the number of logical cores.",
	)

	rootCmd.AddCommand(
		locateCmd(), traceCmd(), elevationCmd(), profileCmd(), exampleCmd(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// loadGeometry reads a geometry file and builds its geometry and probes.
func loadGeometry(
	fname string,
) (*geometry.Stratified, []io.Probe, error) {
	con, err := io.ReadConfig(fname)
	if err != nil { return nil, nil, err }
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("Read %s:\n%s", fname, spew.Sdump(con))
	}

	maps, err := con.Maps()
	if err != nil { return nil, nil, err }
	g, err := con.Stratified(maps)
	if err != nil { return nil, nil, err }
	probes, err := con.Probes()
	if err != nil { return nil, nil, err }

	return g, probes, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func sectorName(g geometry.Definition, i int) string {
	sectors := g.Sectors()
	if i >= len(sectors) { return "outside" }
	return sectors[i].Description
}

func locateCmd() *cobra.Command {
	return &cobra.Command{
		Use: "locate GEOMETRY_FILE RAY_FILE",
		Short: "print the sector containing each ray",
		Long: "Prints the index and description of the sector containing " +
			"each ray. RAY_FILE is a table whose columns are x y z ux uy uz.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGeometry(args[0])
			if err != nil { return err }
			states, _, err := readRays(args[1], false)
			if err != nil { return err }

			ctx, cancel := interruptContext()
			defer cancel()
			sectors, err := transport.Locate(ctx, g, states)
			if err != nil { return err }

			for i, s := range sectors {
				fmt.Printf("%8d %4d %s\n", i, s, sectorName(g, s))
			}
			return nil
		},
	}
}

func traceCmd() *cobra.Command {
	var (
		length float64
		withLengths, useDensity bool
	)
	cmd := &cobra.Command{
		Use: "trace GEOMETRY_FILE RAY_FILE",
		Short: "print the distance travelled by each ray in each sector",
		Long: "Prints, for each ray, the distance travelled in each sector " +
			"followed by the distance to each probe shape. RAY_FILE is a " +
			"table whose columns are x y z ux uy uz, with an optional " +
			"seventh column giving the length of each ray.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, probes, err := loadGeometry(args[0])
			if err != nil { return err }
			states, lengths, err := readRays(args[1], withLengths)
			if err != nil { return err }
			if !withLengths && length > 0 { lengths = []float64{length} }

			ctx, cancel := interruptContext()
			defer cancel()
			out, err := transport.Trace(ctx, g, states, lengths, useDensity)
			if err != nil { return err }

			fmt.Print("# ray")
			for _, s := range g.Sectors() { fmt.Printf(" %q", s.Description) }
			for _, p := range probes { fmt.Printf(" %q", p.Name) }
			fmt.Println()

			for i := range out {
				fmt.Printf("%8d", i)
				for _, x := range out[i] { fmt.Printf(" %12.6g", x) }
				for _, p := range probes {
					d := geomDistance(p, states[i])
					fmt.Printf(" %12.6g", d)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(
		&length, "length", 0, "Maximum length of every ray. Default is unbounded.",
	)
	cmd.Flags().BoolVar(
		&withLengths, "with-lengths", false,
		"Read the length of each ray from the seventh column of RAY_FILE.",
	)
	cmd.Flags().BoolVar(
		&useDensity, "density", false,
		"Print column depths instead of distances.",
	)
	return cmd
}

func elevationCmd() *cobra.Command {
	return &cobra.Command{
		Use: "elevation GEOMETRY_FILE X Y",
		Short: "print the elevation of every interface at (x, y)",
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, _, err := loadGeometry(args[0])
			if err != nil { return err }
			x, y, err := parsePoint(args[1], args[2])
			if err != nil { return err }

			zs, oks := g.Elevations(x, y)
			for i := range zs {
				if oks[i] {
					fmt.Printf("%4d %12.6g\n", i, zs[i])
				} else {
					fmt.Printf("%4d %12s\n", i, "undefined")
				}
			}
			return nil
		},
	}
}

func exampleCmd() *cobra.Command {
	return &cobra.Command{
		Use: "example-config",
		Short: "print an example geometry file",
		Args: cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(io.ExampleGeometryFile)
		},
	}
}

// chainString returns a human-readable version of a resolved interface.
func chainString(iface topography.Interface) string {
	if len(iface) == 0 { return "open" }
	return fmt.Sprintf("%d entries", len(iface))
}
