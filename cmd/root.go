// Package cmd provides the command-line interface of the simulator.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/simulation"
)

var (
	configFile string
	dotFile    string
	flagValues = config.Defaults()
)

// rootCmd runs a simulation when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "nocsim",
	Short: "Simulate a real-time application on a many-core crossbar platform.",
	Long: `nocsim maps the runnables of a real-time application onto a grid ` +
		`of processing elements connected by a crossbar and reports when ` +
		`they complete. Parameters come from the defaults, a YAML file ` +
		`given with --config, NOCSIM_* environment variables and flags, ` +
		`in increasing priority.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runSimulation,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "",
		"YAML file with the simulation parameters")
	rootCmd.Flags().StringVar(&dotFile, "dot", "",
		"write the runnable dependency graph in Graphviz format to this file")

	registerParamFlags(rootCmd, &flagValues)
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	p, err := config.Load(configFile)
	if err != nil {
		return err
	}

	overrideChanged(cmd.Flags(), &p, flagValues)

	closeLog, err := setupLogging(p)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := simulation.MakeBuilder().WithParams(p).Build()
	if err != nil {
		return err
	}
	defer s.Terminate()

	if dotFile != "" {
		if err := writeDOT(s, dotFile); err != nil {
			return err
		}
	}

	report, runErr := s.Run()

	if err := report.Render(cmd.OutOrStdout()); err != nil {
		return err
	}

	return runErr
}

func writeDOT(s *simulation.Simulation, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := s.GetGraph().WriteDOT(f); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
