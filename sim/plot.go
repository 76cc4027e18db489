package sim

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// objectiveNames label control objective rows
var objectiveNames = []string{"roll", "pitch", "yaw", "thrust"}

// NewTrackingPlot creates new plot of control objective row tracking from the two data sources:
// requested: objective requested from the allocator
// achieved:  objective achieved by the actuators
// It returns error if the plot fails to be created. This can be due to either of the following conditions:
// * there are no samples
// * row is not a valid objective row
// * gonum plot fails to be created
func NewTrackingPlot(samples []*Sample, row int) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("invalid data supplied")
	}

	if row < 0 || row >= samples[0].V.Len() {
		return nil, fmt.Errorf("invalid objective row: %d", row)
	}

	name := fmt.Sprintf("objective %d", row)
	if row < len(objectiveNames) {
		name = objectiveNames[row]
	}

	p := plot.New()

	p.Title.Text = fmt.Sprintf("Tracking: %s", name)
	p.X.Label.Text = "t"
	p.Y.Label.Text = name

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	requested, err := plotter.NewLine(makePoints(samples, func(s *Sample) mat.Vector { return s.V }, row))
	if err != nil {
		return nil, fmt.Errorf("failed to create line: %v", err)
	}
	requested.LineStyle.Color = color.RGBA{R: 169, G: 169, B: 169, A: 255}
	requested.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	requested.LineStyle.Width = vg.Points(1)

	p.Add(requested)
	p.Legend.Add("requested", requested)

	achieved, err := plotter.NewScatter(makePoints(samples, func(s *Sample) mat.Vector { return s.Y }, row))
	if err != nil {
		return nil, fmt.Errorf("failed to create scatter: %v", err)
	}
	achieved.GlyphStyle.Color = color.RGBA{R: 255, B: 128, A: 255}
	achieved.Shape = draw.CrossGlyph{}
	achieved.GlyphStyle.Radius = vg.Points(2)

	p.Add(achieved)
	p.Legend.Add("achieved", achieved)

	return p, nil
}

// NewCommandPlot creates new plot of actuator commands, one line per actuator.
// It returns error if there are no samples or if gonum plot fails to be created.
func NewCommandPlot(samples []*Sample) (*plot.Plot, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("invalid data supplied")
	}

	p := plot.New()

	p.Title.Text = "Actuator commands"
	p.X.Label.Text = "t"
	p.Y.Label.Text = "u"

	legend := plot.NewLegend()
	legend.Top = true
	p.Legend = legend

	for i := 0; i < samples[0].U.Len(); i++ {
		line, err := plotter.NewLine(makePoints(samples, func(s *Sample) mat.Vector { return s.U }, i))
		if err != nil {
			return nil, fmt.Errorf("failed to create line: %v", err)
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(1)

		p.Add(line)
		p.Legend.Add(fmt.Sprintf("u%d", i), line)
	}

	return p, nil
}

func makePoints(samples []*Sample, vec func(*Sample) mat.Vector, i int) plotter.XYs {
	pts := make(plotter.XYs, len(samples))
	for k, s := range samples {
		pts[k].X = s.T
		pts[k].Y = vec(s).AtVec(i)
	}

	return pts
}
