package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/ventuledger/ventu/pkg/config"
	"github.com/ventuledger/ventu/pkg/executors"
	"github.com/ventuledger/ventu/pkg/export"
	"github.com/ventuledger/ventu/pkg/rules"
)

var (
	cfgFile    string
	verbose    bool
	debugRules bool
)

var rootCmd = &cobra.Command{
	Use:   "ventu",
	Short: "Categorize bank and card exports across ventures",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newExecutor(cmd *cobra.Command) (*executors.Executor, *config.Config, error) {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "ventu",
		Level:           level,
	})

	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	if debugRules && cfg.RulesPath != "" {
		doc, err := rules.Load(cfg.RulesPath)
		if err != nil {
			return nil, nil, err
		}
		pp.Fprintln(os.Stderr, doc)
	}

	return executors.New(logger, cfg), cfg, nil
}

var importCmd = &cobra.Command{
	Use:   "import <input_path>",
	Short: "Normalize statements and preview the canonical transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, cfg, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Import(args[0], cfg.Source)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <input_path>",
	Short: "Preview categorization without writing anything (dry-run)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, cfg, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Plan(args[0], cfg.Source, cfg.RulesPath)
	},
}

var categorizeCmd = &cobra.Command{
	Use:   "categorize <input_path>",
	Short: "Categorize statements and write the full categorized CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, cfg, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Categorize(args[0], cfg.Source, cfg.RulesPath, cfg.OutputPath)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <input_path>",
	Short: "Categorize and export rows filtered by venture and year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, cfg, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		venture, _ := cmd.Flags().GetString("venture")
		year, _ := cmd.Flags().GetString("year")
		return exec.Export(args[0], cfg.Source, cfg.RulesPath, cfg.OutputPath, export.Filters{
			Venture: venture,
			Year:    year,
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <input_path>",
	Short: "Categorize and render the aggregate summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exec, cfg, err := newExecutor(cmd)
		if err != nil {
			return err
		}
		return exec.Report(args[0], cfg.Source, cfg.RulesPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is ventu.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVar(&debugRules, "debug-rules", false, "Dump the parsed rules document")
	rootCmd.PersistentFlags().String("source", "", "Source adapter (generic, card, bank, xls-generic)")
	rootCmd.PersistentFlags().String("rules", "", "Rules document path")
	rootCmd.PersistentFlags().String("output", "", "Output file (default stdout)")
	rootCmd.PersistentFlags().Bool("strict", false, "Report per-row errors instead of skipping bad rows")

	exportCmd.Flags().String("venture", "", "Keep only this venture")
	exportCmd.Flags().String("year", "", "Keep only this calendar year")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
