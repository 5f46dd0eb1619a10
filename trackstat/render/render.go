// Copyright 2026 The Trackstat Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render turns tracked value snapshots into histogram plots.
//
// Each snapshot becomes one bar-chart panel: the x-axis spans the populated
// bucket range with one bucket of padding on each side, tick labels show the
// low endpoint of each bucket's integer range, and the count axis switches
// to a logarithmic scale when the populated counts span more than two orders
// of magnitude. Panels are composited into a single near-square PNG grid,
// one artifact per run.
//
// The package performs no bucket arithmetic of its own; everything it knows
// about the layout comes from trackstat.BucketBounds and snapshot fields.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/trackstat/trackstat-go/trackstat"
)

// Options control the plot artifact. The zero value is usable.
type Options struct {
	// Columns fixes the number of panel columns. Zero picks a near-square
	// grid.
	Columns int
	// PanelWidth and PanelHeight are the pixel dimensions of one panel.
	// Zero values default to 480x360.
	PanelWidth, PanelHeight int
}

// ErrNothingToPlot is returned by Plot when the snapshot collection is empty
// or every snapshot has a zero count.
var ErrNothingToPlot = errors.New("render: no tracked values with data to plot")

var (
	barFill   = drawing.Color{R: 0x46, G: 0x82, B: 0xb4, A: 0xb4} // steelblue
	barStroke = drawing.Color{R: 0x00, G: 0x00, B: 0x80, A: 0xff} // navy
)

// Plot renders one PNG artifact containing a panel per snapshot and writes
// it to w. Zero-count snapshots get a neutral placeholder panel; if there is
// no snapshot with data at all, Plot writes nothing and returns
// ErrNothingToPlot.
func Plot(w io.Writer, snaps []trackstat.Snapshot, opts Options) error {
	withData := 0
	for _, s := range snaps {
		if !s.IsEmpty() {
			withData++
		}
	}
	if withData == 0 {
		return ErrNothingToPlot
	}

	pw, ph := opts.PanelWidth, opts.PanelHeight
	if pw <= 0 {
		pw = 480
	}
	if ph <= 0 {
		ph = 360
	}
	cols := opts.Columns
	if cols <= 0 {
		cols = int(math.Ceil(math.Sqrt(float64(len(snaps)))))
	}
	rows := (len(snaps) + cols - 1) / cols

	grid := image.NewRGBA(image.Rect(0, 0, cols*pw, rows*ph))
	draw.Draw(grid, grid.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for i, s := range snaps {
		cell := image.Rect((i%cols)*pw, (i/cols)*ph, (i%cols+1)*pw, (i/cols+1)*ph)
		if s.IsEmpty() {
			continue // neutral blank panel
		}
		panel, err := renderPanel(s, pw, ph)
		if err != nil {
			return fmt.Errorf("render: panel for %q: %w", s.Name, err)
		}
		draw.Draw(grid, cell, panel, image.Point{}, draw.Over)
	}

	if err := png.Encode(w, grid); err != nil {
		return fmt.Errorf("render: encoding plot: %w", err)
	}
	return nil
}

// renderPanel draws one snapshot's histogram as a bar chart and decodes it
// back into an image for compositing.
func renderPanel(s trackstat.Snapshot, width, height int) (image.Image, error) {
	lo, hi, ok := populatedRange(s.Buckets)
	if !ok {
		return nil, errors.New("no populated buckets")
	}
	buckets := visibleBuckets(lo, hi)
	counts := make([]uint64, len(buckets))
	for i, b := range buckets {
		counts[i] = s.Buckets[b]
	}

	every := labelEvery(len(buckets))
	bars := make([]chart.Value, len(buckets))
	var maxCount uint64
	for i, b := range buckets {
		label := ""
		if i%every == 0 {
			label = bucketLabel(b)
		}
		bars[i] = chart.Value{
			Value: float64(counts[i]),
			Label: label,
			Style: chart.Style{FillColor: barFill, StrokeColor: barStroke, StrokeWidth: 1},
		}
		if counts[i] > maxCount {
			maxCount = counts[i]
		}
	}

	bc := chart.BarChart{
		Title:      panelTitle(s),
		TitleStyle: chart.Style{FontSize: 8},
		Width:      width,
		Height:     height,
		BarWidth:   barWidth(width, len(bars)),
		BarSpacing: 2,
		Background: chart.Style{Padding: chart.Box{Top: 28, Left: 12, Right: 12, Bottom: 12}},
		XAxis:      chart.Style{FontSize: 7},
		Bars:       bars,
	}
	if useLogScale(counts) {
		bc.YAxis = chart.YAxis{
			Style: chart.Style{FontSize: 7},
			Range: &chart.LogarithmicRange{Min: 1, Max: float64(maxCount)},
		}
	} else {
		bc.YAxis = chart.YAxis{Style: chart.Style{FontSize: 7}}
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// barWidth spreads the bars over the drawable panel width.
func barWidth(panelWidth, bars int) int {
	if bars == 0 {
		return 1
	}
	w := (panelWidth - 80) / bars
	if w < 2 {
		w = 2
	}
	if w > 40 {
		w = 40
	}
	return w
}
