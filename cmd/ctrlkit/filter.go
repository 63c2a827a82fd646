package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/experiment"
)

func newFilterCmd() *cobra.Command {
	var (
		fc config.FilterConfig
		dt float64
	)
	cmd := &cobra.Command{
		Use:   "filter [kind] [values...]",
		Short: "run a filter over numbers from the arguments or stdin",
		Long: "filter feeds each value through one filter stage with a fixed dt and prints every output.\n" +
			"Kinds: null, integrating, differentiating, moving_average, ema, rate_limiter.\n" +
			"Put -- before the values when any of them is negative.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fc.Kind = args[0]
			f, err := experiment.BuildFilter(fc)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			emit := func(raw string) error {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return fmt.Errorf("not a number: %q", raw)
				}
				_, err = fmt.Fprintln(out, strconv.FormatFloat(f.CalculateDt(v, dt), 'g', -1, 64))
				return err
			}

			if len(args) > 1 {
				for _, raw := range args[1:] {
					if err := emit(raw); err != nil {
						return err
					}
				}
				return nil
			}
			return scanValues(cmd.InOrStdin(), emit)
		},
	}
	cmd.Flags().IntVar(&fc.Window, "window", 0, "window length, 0 for unbounded")
	cmd.Flags().StringVar(&fc.Mean, "mean", "arithmetic", "moving average mean: arithmetic or geometric")
	cmd.Flags().Float64Var(&fc.Alpha, "alpha", 0.5, "ema smoothing factor, usually in (0, 1]")
	cmd.Flags().Float64Var(&fc.Rate, "rate", 1, "rate limit in units per second (sign ignored)")
	cmd.Flags().Float64Var(&dt, "dt", 1, "seconds between values")
	return cmd
}

func scanValues(r io.Reader, emit func(string) error) error {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		if err := emit(sc.Text()); err != nil {
			return err
		}
	}
	return sc.Err()
}
