package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	plt "github.com/phil-mansfield/pyplot"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/strata/geometry"
)

var colors = []string{
	"k", "r", "b", "g", "darkorange", "purple", "c", "m",
}

func profileCmd() *cobra.Command {
	var (
		from, to, out string
		points int
	)
	cmd := &cobra.Command{
		Use: "profile GEOMETRY_FILE",
		Short: "plot interface elevations along a line",
		Long: "Plots the elevation of every interface along the horizontal " +
			"line between --from and --to. Requires python and matplotlib.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if points < 2 {
				return fmt.Errorf("--points must be at least 2, not %d.", points)
			}
			x0, y0, err := parsePair(from)
			if err != nil { return err }
			x1, y1, err := parsePair(to)
			if err != nil { return err }

			g, _, err := loadGeometry(args[0])
			if err != nil { return err }

			plotProfile(g, x0, y0, x1, y1, points, out)
			plt.Execute()
			log.Infof("Wrote %s", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "0,0", "Start of the line, as x,y.")
	cmd.Flags().StringVar(&to, "to", "1,0", "End of the line, as x,y.")
	cmd.Flags().IntVar(&points, "points", 200, "Number of samples.")
	cmd.Flags().StringVar(&out, "out", "profile.png", "Output image.")
	return cmd
}

func parsePair(s string) (x, y float64, err error) {
	tok := strings.Split(s, ",")
	if len(tok) != 2 {
		return 0, 0, fmt.Errorf("'%s' must have the form x,y.", s)
	}
	return parsePoint(strings.TrimSpace(tok[0]), strings.TrimSpace(tok[1]))
}

// profile samples every interface of g at n points along a line. ds is the
// distance along the line. Undefined elevations are dropped from each
// interface's samples.
func profile(
	g *geometry.Stratified, x0, y0, x1, y1 float64, n int,
) (ds [][]float64, zs [][]float64) {
	m := len(g.Interfaces())
	ds, zs = make([][]float64, m), make([][]float64, m)
	dx, dy := x1 - x0, y1 - y0
	length := math.Hypot(dx, dy)

	for i := 0; i < n; i++ {
		t := float64(i) / float64(n - 1)
		ifaceZs, oks := g.Elevations(x0 + t*dx, y0 + t*dy)
		for j := range ifaceZs {
			if !oks[j] { continue }
			ds[j] = append(ds[j], t*length)
			zs[j] = append(zs[j], ifaceZs[j])
		}
	}
	return ds, zs
}

func plotProfile(
	g *geometry.Stratified, x0, y0, x1, y1 float64, n int, fname string,
) {
	ds, zs := profile(g, x0, y0, x1, y1, n)

	plt.Figure(plt.FigSize(10, 6))
	for j := range ds {
		log.Debugf("Interface %d: %s", j, chainString(g.Interfaces()[j]))
		if len(ds[j]) == 0 { continue }
		plt.Plot(ds[j], zs[j], plt.LW(2), plt.C(colors[j % len(colors)]))
	}

	plt.Title(fmt.Sprintf(
		"(%s, %s) to (%s, %s)", fmtFloat(x0), fmtFloat(y0),
		fmtFloat(x1), fmtFloat(y1),
	))
	plt.XLabel("Distance along line", plt.FontSize(16))
	plt.YLabel("Elevation", plt.FontSize(16))
	plt.XLim(0, math.Hypot(x1 - x0, y1 - y0))
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

func fmtFloat(x float64) string { return strconv.FormatFloat(x, 'g', 4, 64) }
