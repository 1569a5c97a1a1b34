// Package cmd provides the command-line interface of swmmdriver.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"
)

// Version is the version of the driver.
const Version = "0.1.0"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "swmmdriver",
	Short: "swmmdriver runs SWMM projects and reports their progress.",
	Long: `swmmdriver opens a SWMM project, steps it to completion while ` +
		`printing the simulated day and hour, and always ends, reports and ` +
		`closes the project, even when the run fails.`,
	SilenceUsage: true,
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringSlice("env-file", []string{".env"},
		"Read settings from these .env files.")
	fs.String("log-level", "", "Log level (debug, info, warn, error).")
	fs.Bool("log-dev", false, "Use the human readable development logger.")
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The process exits with status 1 on failure, after the
// registered exit handlers run.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
