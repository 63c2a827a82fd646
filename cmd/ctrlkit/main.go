package main

import (
	goflag "flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/san-kum/ctrlkit/internal/experiment"
	"github.com/san-kum/ctrlkit/internal/viz"
)

// globals are the persistent flags shared by every command.
type globals struct {
	dataDir string
	envFile string
}

func main() {
	_ = goflag.Set("logtostderr", "true")
	_ = goflag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		glog.Errorf("ctrlkit: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "ctrlkit",
		Short:         "pid controller and filter lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunPicker(experiment.NewRegistry())
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.dataDir, "data", ".ctrlkit", "data directory")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env", ".env", "env file with CTRLKIT_* overrides")
	rootCmd.PersistentFlags().AddGoFlagSet(goflag.CommandLine)

	rootCmd.AddCommand(
		newRunCmd(g),
		newTuneCmd(g),
		newAutotuneCmd(g),
		newPresetsCmd(),
		newListCmd(g),
		newPlotCmd(g),
		newExportCmd(g),
		newAnalyzeCmd(g),
		newFilterCmd(),
		newScenarioCmd(g),
		newSweepCmd(g),
	)
	return rootCmd
}
