package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sarchlab/swmmdriver/engine"
	"github.com/sarchlab/swmmdriver/engine/replay"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the driver and engine versions.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		scenario, _ := cmd.Flags().GetString("scenario")
		return printVersion(cmd.OutOrStdout(), scenario)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().String("scenario", "",
		"Also print the engine version of this replay scenario.")
}

func printVersion(out io.Writer, scenarioPath string) error {
	fmt.Fprintf(out, "swmmdriver %s\n", Version)

	if scenarioPath == "" {
		return nil
	}

	sc, err := replay.LoadScenario(scenarioPath)
	if err != nil {
		return fmt.Errorf("reading scenario: %w", err)
	}

	e := replay.NewEngine()
	if sc.Version > 0 {
		e.WithVersion(sc.Version)
	}

	var v engine.Versioner = e
	fmt.Fprintf(out, "engine %s\n", engine.FormatVersion(v.Version()))

	return nil
}
