// Package main implements the regprofile CLI, which generates validation
// rules from a regulatory reporting template without running the server.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// verbose enables debug-level progress logging
	verbose bool
	// noPdftotext disables the pdftotext fallback for PDFs
	noPdftotext bool
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "regprofile",
	Short: "Generate validation rules from regulatory reporting templates",
	Long: `regprofile reads a reporting template (PDF, DOCX, HTML, Markdown, CSV or text),
splits it into numbered field blocks and turns each block into a validation rule.`,
	Version:      version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output")
	rootCmd.PersistentFlags().BoolVar(&noPdftotext, "no-pdftotext", false, "do not fall back to pdftotext for PDFs")
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(linesCmd)
}

// newLogger writes progress to stderr so stdout stays clean for output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
