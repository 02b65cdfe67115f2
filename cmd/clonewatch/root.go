package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "clonewatch",
	Short: "Detect near-duplicate submissions in a corpus of GNU ARM assembly projects",
	Long: `clonewatch tokenizes, fingerprints, and cross-compares a directory of
student ARM assembly submissions to surface project pairs that share
suspiciously long runs of identical tokens, the same robust winnowing
approach MOSS uses for plagiarism detection.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
