package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/optim"
	"github.com/san-kum/ctrlkit/internal/sim"
	"github.com/san-kum/ctrlkit/internal/storage"
	"github.com/san-kum/ctrlkit/internal/viz"
)

func newRunCmd(g *globals) *cobra.Command {
	var (
		f        runFlags
		ensemble int
		noSave   bool
	)
	cmd := &cobra.Command{
		Use:   "run [plant]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, g, args[0])
			if err != nil {
				return err
			}
			if ensemble > 1 {
				return runEnsemble(cmd, cfg, ensemble)
			}
			return runOnce(cmd, g, cfg, !noSave)
		},
	}
	f.bind(cmd.Flags())
	cmd.Flags().IntVar(&ensemble, "ensemble", 0, "run this many seeds and summarise the metrics")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func runOnce(cmd *cobra.Command, g *globals, cfg *config.Config, save bool) error {
	exp, err := experiment.New(cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s (%s)...\n", cfg.Plant, exp.PID().Gains())
	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	if save {
		st := storage.New(g.dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(exp.Metadata(), result, exp.Trace())
		if err != nil {
			return err
		}
		glog.Infof("stored run %s in %s", runID, st.Dir())
		fmt.Fprintf(out, "run id: %s\n", runID)
	}
	fmt.Fprintf(out, "steps: %d\n", result.StepsTaken)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "error: %v\n", e)
	}

	fmt.Fprintln(out, "\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, cfg *config.Config, n int) error {
	reg := experiment.NewRegistry()
	probe, err := experiment.New(cfg, reg)
	if err != nil {
		return err
	}

	glog.V(1).Infof("ensemble: %d runs of %s from seed %d", n, cfg.Plant, cfg.Seed)
	ens := sim.NewEnsemble(experiment.Factory(cfg, reg), n, cfg.Seed)
	results, err := ens.Run(cmd.Context(), probe.InitState(), probe.SimConfig())
	if err != nil {
		return err
	}

	summary := sim.Summarize(results)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ensemble of %d seeds from %d\n\n", n, cfg.Seed)
	fmt.Fprintln(w, "METRIC\tMEAN\tSTDDEV")
	for _, name := range summary.Names() {
		fmt.Fprintf(w, "%s\t%.6f\t%.6f\n", name, summary.Mean[name], summary.StdDev[name])
	}
	return w.Flush()
}

func newTuneCmd(g *globals) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "tune [plant]",
		Short: "tune a PID live in the terminal",
		Long:  "tune steps the loop in real time. Without a plant it opens a plant and preset picker.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			if len(args) == 0 {
				return viz.RunPicker(reg)
			}
			cfg, err := f.resolve(cmd, g, args[0])
			if err != nil {
				return err
			}
			exp, err := experiment.New(cfg, reg)
			if err != nil {
				return err
			}
			return viz.Run(exp)
		},
	}
	f.bind(cmd.Flags())
	return cmd
}

func newAutotuneCmd(g *globals) *cobra.Command {
	var (
		f       runFlags
		metric  string
		kpRange []float64
		kiRange []float64
		kdRange []float64
		steps   int
		write   string
	)
	cmd := &cobra.Command{
		Use:   "autotune [plant]",
		Short: "grid search PID gains for the lowest metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, g, args[0])
			if err != nil {
				return err
			}

			var names []string
			var ranges [][]float64
			for _, r := range []struct {
				name string
				span []float64
			}{{"kp", kpRange}, {"ki", kiRange}, {"kd", kdRange}} {
				switch len(r.span) {
				case 0:
					continue
				case 2:
					names = append(names, r.name)
					ranges = append(ranges, optim.Linspace(r.span[0], r.span[1], steps))
				default:
					return fmt.Errorf("--%s-range wants lo,hi", r.name)
				}
			}
			if len(names) == 0 {
				return fmt.Errorf("give at least one of --kp-range, --ki-range, --kd-range")
			}

			gs, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}
			best, err := gs.Search(cmd.Context(), cfg, experiment.NewRegistry(), metric)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "best %s: %.6f\n", metric, best.Score)
			for _, name := range names {
				fmt.Fprintf(out, "  %s = %.4f\n", name, best.Params[name])
			}

			if write != "" {
				cfg.PID.Kp = valueOr(best.Params, "kp", cfg.PID.Kp)
				cfg.PID.Ki = valueOr(best.Params, "ki", cfg.PID.Ki)
				cfg.PID.Kd = valueOr(best.Params, "kd", cfg.PID.Kd)
				if err := config.Save(write, cfg); err != nil {
					return err
				}
				fmt.Fprintf(out, "wrote %s\n", write)
			}
			return nil
		},
	}
	f.bind(cmd.Flags())
	cmd.Flags().StringVar(&metric, "metric", "iae", "metric to minimise")
	cmd.Flags().Float64SliceVar(&kpRange, "kp-range", nil, "kp search range lo,hi")
	cmd.Flags().Float64SliceVar(&kiRange, "ki-range", nil, "ki search range lo,hi")
	cmd.Flags().Float64SliceVar(&kdRange, "kd-range", nil, "kd search range lo,hi")
	cmd.Flags().IntVar(&steps, "steps", 5, "grid points per range")
	cmd.Flags().StringVar(&write, "write", "", "save the tuned config to this yaml file")
	return cmd
}

func valueOr(m map[string]float64, key string, fallback float64) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return fallback
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [plant]",
		Short: "list the presets of a plant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for plant: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, name := range presets {
				p := config.GetPreset(args[0], name)
				fmt.Fprintf(out, "  %-14s kp=%g ki=%g kd=%g setpoint=%g\n", name, p.PID.Kp, p.PID.Ki, p.PID.Kd, p.PID.Setpoint)
			}
			return nil
		},
	}
}
