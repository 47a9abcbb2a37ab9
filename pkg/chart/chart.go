package chart

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/spampipe/spampipe/pkg/eval"
)

// RenderSweep renders a threshold sweep as a line chart (spam rate and
// accuracy against decision threshold) and writes it to path. The output
// format follows the file extension (.png, .svg, .pdf).
func RenderSweep(points []eval.SweepPoint, path string) error {
	if len(points) == 0 {
		return fmt.Errorf("no sweep points to render")
	}

	p := plot.New()
	p.Title.Text = "Decision Threshold Sweep"
	p.X.Label.Text = "Threshold"
	p.Y.Label.Text = "Rate"
	p.Y.Min = 0
	p.Y.Max = 1

	spamRate := make(plotter.XYs, len(points))
	accuracy := make(plotter.XYs, len(points))
	for i, pt := range points {
		spamRate[i].X = pt.Threshold
		spamRate[i].Y = pt.SpamRate
		accuracy[i].X = pt.Threshold
		accuracy[i].Y = pt.Accuracy
	}

	if err := plotutil.AddLinePoints(p,
		"Spam rate", spamRate,
		"Accuracy", accuracy,
	); err != nil {
		return fmt.Errorf("failed to build sweep chart: %v", err)
	}

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save sweep chart: %v", err)
	}
	return nil
}
