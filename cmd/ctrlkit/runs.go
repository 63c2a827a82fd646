package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ctrlkit/internal/analysis"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/export"
	"github.com/san-kum/ctrlkit/internal/storage"
)

// loadRun resolves a run ID, where "latest" means the newest run, and reads
// its samples.
func loadRun(g *globals, runID string) (*storage.RunMetadata, []storage.TraceRow, error) {
	st := storage.New(g.dataDir)
	var (
		meta *storage.RunMetadata
		err  error
	)
	if runID == "latest" {
		meta, err = st.Latest()
	} else {
		meta, err = st.Load(runID)
	}
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadTrace(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", meta.ID)
	}
	return meta, rows, nil
}

func series(samples []dynamo.Sample, f func(dynamo.Sample) float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = f(s)
	}
	return out
}

func newListCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(g.dataDir).List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLANT\tTIME\tDURATION\tDT\tGAINS\tSETPOINT\tIAE")
			for _, run := range runs {
				iae := "-"
				if v, ok := run.Metrics["iae"]; ok {
					iae = fmt.Sprintf("%.4f", v)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%g\t%s\n",
					run.ID,
					run.Plant,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Gains,
					run.Setpoint,
					iae,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd(g *globals) *cobra.Command {
	var (
		phase   bool
		svgPath string
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot measurement, setpoint and effort of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, rows, err := loadRun(g, args[0])
			if err != nil {
				return err
			}
			samples := storage.Samples(rows)
			out := cmd.OutOrStdout()

			if svgPath != "" {
				charts := export.TrackingSeries(samples)
				if phase {
					charts = []export.Series{export.PortraitSeries(analysis.ErrorPortrait(samples), "#00ffff")}
				}
				doc := export.SeriesToSVG(charts, 800, 400)
				if doc == "" {
					return fmt.Errorf("run %s has too few samples to draw", meta.ID)
				}
				if err := os.WriteFile(svgPath, []byte(doc), 0644); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", svgPath)
				return nil
			}

			fmt.Fprintf(out, "run: %s\n\n", meta.ID)
			if phase {
				portrait := analysis.ErrorPortrait(samples)
				fmt.Fprintln(out, analysis.PhasePortraitToASCII(portrait, 70, 24))
				return nil
			}

			tracking := asciigraph.PlotMany(
				[][]float64{
					series(samples, func(s dynamo.Sample) float64 { return s.Measurement }),
					series(samples, func(s dynamo.Sample) float64 { return s.Setpoint }),
				},
				asciigraph.Height(12),
				asciigraph.Width(80),
				asciigraph.SeriesColors(asciigraph.Green, asciigraph.Yellow),
				asciigraph.Caption("measurement (green) vs setpoint (yellow)"),
			)
			fmt.Fprintln(out, tracking)
			fmt.Fprintln(out)

			effort := asciigraph.Plot(
				series(samples, func(s dynamo.Sample) float64 { return s.Effort() }),
				asciigraph.Height(6),
				asciigraph.Width(80),
				asciigraph.Caption("effort"),
			)
			fmt.Fprintln(out, effort)
			return nil
		},
	}
	cmd.Flags().BoolVar(&phase, "phase", false, "plot the error phase portrait instead")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the plot to this SVG file instead")
	return cmd
}

func newExportCmd(g *globals) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, rows, err := loadRun(g, args[0])
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if err := storage.ExportJSON(w, *meta, rows); err != nil {
				return err
			}
			if outPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d samples to %s\n", len(rows), outPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newAnalyzeCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "step response and error spectrum of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, rows, err := loadRun(g, args[0])
			if err != nil {
				return err
			}
			samples := storage.Samples(rows)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "analysis: %s\n", meta.ID)
			fmt.Fprintf(out, "plant: %s  gains: %s  setpoint: %g\n\n", meta.Plant, meta.Gains, meta.Setpoint)

			resp := analysis.Response(samples)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			if resp.RiseTime < 0 {
				fmt.Fprintln(w, "rise time\tnot reached")
			} else {
				fmt.Fprintf(w, "rise time\t%.4fs\n", resp.RiseTime)
			}
			fmt.Fprintf(w, "peak\t%.4f at %.4fs\n", resp.Peak, resp.PeakTime)
			fmt.Fprintf(w, "steady-state error\t%.6f\n", resp.SteadyStateError)

			names := make([]string, 0, len(meta.Metrics))
			for name := range meta.Metrics {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%.6f\n", name, meta.Metrics[name])
			}
			if err := w.Flush(); err != nil {
				return err
			}

			errs := series(samples, func(s dynamo.Sample) float64 { return s.Error })
			freq, mag := analysis.DominantFrequency(errs, meta.Dt)
			fmt.Fprintln(out)
			if freq > 0 {
				fmt.Fprintf(out, "error oscillates at %.3f hz (period %.3fs, magnitude %.4g)\n", freq, 1/freq, mag)
			} else {
				fmt.Fprintln(out, "no dominant error frequency")
			}

			spectrum := analysis.PowerSpectrum(errs)
			if n := len(spectrum) / 4; n > 1 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, asciigraph.Plot(spectrum[1:n],
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption("error power spectrum"),
				))
			}
			return nil
		},
	}
}
