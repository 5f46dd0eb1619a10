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

// Command trackplot renders a tracked value statistics dump as histogram
// plots.
//
// It reads a JSON record batch (as written by trackstat.DumpJSON or an
// instrumented program's stats dump) from stdin or --input and writes a
// single PNG artifact. Exit status: 0 on success, 1 on malformed input,
// 2 when there is nothing to plot.
package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/trackstat/trackstat-go/trackstat"
	"github.com/trackstat/trackstat-go/trackstat/render"
)

var log = logrus.New()

var app = &cli.App{
	Name:  "trackplot",
	Usage: "Render tracked value statistics dumps as histogram plots.",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "read the JSON record batch from `FILE` (default: stdin)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the plot to `FILE`",
			Value:   "stats_plot.png",
		},
		&cli.IntFlag{
			Name:  "columns",
			Usage: "number of panel columns (0 = near-square grid)",
		},
		&cli.IntFlag{
			Name:  "panel-width",
			Usage: "panel width in `pixels`",
			Value: 480,
		},
		&cli.IntFlag{
			Name:  "panel-height",
			Usage: "panel height in `pixels`",
			Value: 360,
		},
	},
	Action: run,
}

func run(c *cli.Context) error {
	var in io.Reader = os.Stdin
	if path := c.String("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}
		defer f.Close()
		in = f
	}

	recs, err := trackstat.DecodeRecords(in)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	snaps := make([]trackstat.Snapshot, 0, len(recs))
	withData := 0
	for _, rec := range recs {
		s := rec.Snapshot()
		if !s.IsEmpty() {
			withData++
		}
		snaps = append(snaps, s)
	}
	if withData == 0 {
		return cli.Exit("no tracked values with data to plot", 2)
	}

	out, err := os.Create(c.String("output"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	opts := render.Options{
		Columns:     c.Int("columns"),
		PanelWidth:  c.Int("panel-width"),
		PanelHeight: c.Int("panel-height"),
	}
	if err := render.Plot(out, snaps, opts); err != nil {
		out.Close()
		os.Remove(c.String("output"))
		return cli.Exit(err.Error(), 1)
	}
	if err := out.Close(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	log.WithFields(logrus.Fields{
		"path":    c.String("output"),
		"tracked": len(snaps),
		"plotted": withData,
	}).Info("saved plot")
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
