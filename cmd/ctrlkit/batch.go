package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/optim"
	"github.com/san-kum/ctrlkit/internal/scenario"
	"github.com/san-kum/ctrlkit/internal/storage"
)

func newScenarioCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			st := storage.New(g.dataDir)
			if err := st.Init(); err != nil {
				return err
			}

			results, err := scenario.Run(cmd.Context(), s, experiment.NewRegistry(), st)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "scenario: %s\n\n", s.Name)
			fmt.Fprintln(w, "STEP\tPLANT\tIAE\tOVERSHOOT\tSETTLING\tRUN")
			for _, r := range results {
				runID := r.RunID
				if runID == "" {
					runID = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%.3f\t%s\n",
					r.Step.Name,
					r.Step.Plant,
					r.Result.Metrics["iae"],
					r.Result.Metrics["overshoot"],
					r.Result.Metrics["settling_time"],
					runID,
				)
			}
			if ferr := w.Flush(); ferr != nil && err == nil {
				err = ferr
			}
			return err
		},
	}
}

func newSweepCmd(g *globals) *cobra.Command {
	var (
		f        runFlags
		param    string
		from, to float64
		steps    int
	)
	cmd := &cobra.Command{
		Use:   "sweep [plant]",
		Short: "run once per value of a PID parameter and tabulate the metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, g, args[0])
			if err != nil {
				return err
			}
			results, err := scenario.Sweep(cmd.Context(), cfg, experiment.NewRegistry(), param, optim.Linspace(from, to, steps))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tIAE\tISE\tOVERSHOOT\tSETTLING\n", param)
			for _, r := range results {
				if r.Failed {
					fmt.Fprintf(w, "%.4f\tunstable\t\t\t\n", r.Value)
					continue
				}
				fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.3f\n",
					r.Value, r.Metrics["iae"], r.Metrics["ise"], r.Metrics["overshoot"], r.Metrics["settling_time"])
			}
			return w.Flush()
		},
	}
	f.bind(cmd.Flags())
	cmd.Flags().StringVar(&param, "param", "kp", "PID parameter to sweep")
	cmd.Flags().Float64Var(&from, "from", 0, "first value")
	cmd.Flags().Float64Var(&to, "to", 10, "last value")
	cmd.Flags().IntVar(&steps, "steps", 5, "number of values")
	return cmd
}
