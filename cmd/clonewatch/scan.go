package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/coursewatch/clonewatch/internal/output"
	"github.com/coursewatch/clonewatch/internal/progress"
	"github.com/coursewatch/clonewatch/pkg/clone"
	"github.com/coursewatch/clonewatch/pkg/clone/token"
	"github.com/coursewatch/clonewatch/pkg/config"
	"github.com/coursewatch/clonewatch/pkg/corpus"
	"github.com/coursewatch/clonewatch/pkg/report"
)

var scanCmd = &cobra.Command{
	Use:   "scan <corpus-dir>",
	Short: "Scan a corpus directory and report near-duplicate project pairs",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown")
	scanCmd.Flags().StringP("output", "o", "", "Write output to file")
	scanCmd.Flags().Int("noise-threshold", 0, "Override clone.noise_threshold")
	scanCmd.Flags().Int("guarantee-threshold", 0, "Override clone.guarantee_threshold")
	scanCmd.Flags().Int("min-matches", -1, "Override clone.min_matches")
	scanCmd.Flags().String("starter-dir", "", "Starter-code subdirectory to subtract from all submissions")
	rootCmd.AddCommand(scanCmd)
}

func loadScanConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		result, err := config.LoadConfig(config.WithPath(cfgFile))
		if err != nil {
			return nil, err
		}
		cfg = result.Config
	} else {
		var err error
		cfg, err = config.LoadOrDefault()
		if err != nil {
			return nil, err
		}
	}

	if v, _ := cmd.Flags().GetInt("noise-threshold"); v > 0 {
		cfg.Clone.NoiseThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("guarantee-threshold"); v > 0 {
		cfg.Clone.GuaranteeThreshold = v
	}
	if v, _ := cmd.Flags().GetInt("min-matches"); v >= 0 {
		cfg.Clone.MinMatches = v
	}
	if v, _ := cmd.Flags().GetString("starter-dir"); v != "" {
		cfg.Corpus.StarterDir = v
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	root := args[0]

	cfg, err := loadScanConfig(cmd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	strategy, err := token.ParseStrategy(cfg.Clone.TokenizingStrategy)
	if err != nil {
		return err
	}

	scanner := corpus.NewScanner(cfg.Corpus, cfg.Cache, nil)
	tracker := progress.NewSpinner(fmt.Sprintf("Scanning %s...", root))
	scanResult, err := scanner.Scan(root)
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("scanning corpus: %w", err)
	}
	tracker.FinishSuccess()

	if len(scanResult.Documents) == 0 {
		color.Yellow("No .s/.S/.asm source files found under %s", root)
		return nil
	}
	for _, w := range scanResult.Warnings {
		color.Yellow("skipped %s: %s", w.Path, w.Message)
	}

	opts := clone.Options{
		NoiseThreshold:      cfg.Clone.NoiseThreshold,
		GuaranteeThreshold:  cfg.Clone.GuaranteeThreshold,
		MaxTokenOffset:      cfg.Clone.MaxTokenOffset,
		TokenizingStrategy:  strategy,
		IgnoreWhitespace:    cfg.Clone.IgnoreWhitespace,
		ExpandMatches:       cfg.Clone.ExpandMatches,
		MinMatches:          cfg.Clone.MinMatches,
		CommonHashThreshold: cfg.Clone.CommonHashThreshold,
		Documents:           scanResult.Documents,
		IgnoredDocuments:    scanResult.IgnoredDocuments,
	}

	analysisTracker := progress.NewSpinner("Analyzing for near-duplicates...")
	pairs, warnings, err := clone.Analyze(opts)
	if err != nil {
		analysisTracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	analysisTracker.FinishSuccess()

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	return formatter.Output(report.New(pairs, warnings))
}
