package trajectory

import (
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// palette cycles across joint lines.
var palette = []color.RGBA{
	{R: 31, G: 119, B: 180, A: 255},
	{R: 255, G: 127, B: 14, A: 255},
	{R: 44, G: 160, B: 44, A: 255},
	{R: 214, G: 39, B: 40, A: 255},
	{R: 148, G: 103, B: 189, A: 255},
}

// SaveProfile renders the single-DoF joint positions and velocities of
// a trajectory against time and writes the plot to outputPath (format
// chosen by extension, e.g. .png or .svg).
func SaveProfile(tr *Trajectory, outputPath string) error {
	if tr == nil || len(tr.Points) < 2 {
		return fmt.Errorf("trajectory has no joint points to plot")
	}

	pPos := plot.New()
	pPos.Title.Text = "joint positions"
	pPos.X.Label.Text = "time (s)"
	pPos.Y.Label.Text = "position"

	for j, name := range tr.JointNames {
		posPts := make(plotter.XYs, 0, len(tr.Points))
		for _, pt := range tr.Points {
			posPts = append(posPts, plotter.XY{
				X: pt.TimeFromStart.Seconds(),
				Y: pt.Positions[j],
			})
		}
		line, err := plotter.NewLine(posPts)
		if err != nil {
			return fmt.Errorf("build position line for %s: %w", name, err)
		}
		line.Color = palette[j%len(palette)]
		pPos.Add(line)
		pPos.Legend.Add(name, line)
	}

	if err := pPos.Save(14*vg.Inch, 6*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("save profile plot: %w", err)
	}
	return nil
}

// SaveVelocityProfile renders finite-difference joint velocities
// against time and writes the plot to outputPath.
func SaveVelocityProfile(tr *Trajectory, outputPath string) error {
	if tr == nil || len(tr.Points) < 2 {
		return fmt.Errorf("trajectory has no joint points to plot")
	}

	pVel := plot.New()
	pVel.Title.Text = "joint velocities"
	pVel.X.Label.Text = "time (s)"
	pVel.Y.Label.Text = "velocity"

	for j, name := range tr.JointNames {
		velPts := make(plotter.XYs, 0, len(tr.Points)-1)
		for i := 1; i < len(tr.Points); i++ {
			dt := tr.Points[i].TimeFromStart - tr.Points[i-1].TimeFromStart
			if dt <= 0 {
				dt = time.Nanosecond
			}
			dv := tr.Points[i].Positions[j] - tr.Points[i-1].Positions[j]
			velPts = append(velPts, plotter.XY{
				X: tr.Points[i].TimeFromStart.Seconds(),
				Y: dv / dt.Seconds(),
			})
		}
		line, err := plotter.NewLine(velPts)
		if err != nil {
			return fmt.Errorf("build velocity line for %s: %w", name, err)
		}
		line.Color = palette[j%len(palette)]
		pVel.Add(line)
		pVel.Legend.Add(name, line)
	}

	if err := pVel.Save(14*vg.Inch, 6*vg.Inch, outputPath); err != nil {
		return fmt.Errorf("save velocity plot: %w", err)
	}
	return nil
}
