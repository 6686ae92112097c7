package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/film-roulette/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the film-roulette version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "film-roulette", build.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
