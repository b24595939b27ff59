package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgallion1/regprofiler/internal/chunker"
	"github.com/dgallion1/regprofiler/internal/doctree"
	"github.com/dgallion1/regprofiler/internal/parser"
	"github.com/dgallion1/regprofiler/internal/pipeline"
	"github.com/spf13/cobra"
)

const defaultOutput = "generated_rules.json"

var (
	outputPath string
	category   string
)

// extractCmd generates rules from a template file
var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Generate rules from a template file",
	Long: `Generate validation rules from a reporting template and write them as JSON.

Examples:
  # Write generated_rules.json in the current directory
  regprofile extract schedule-h1.pdf

  # Print to stdout with a custom category
  regprofile extract -o - --category Derivatives fields.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

// linesCmd prints the normalized lines the chunker sees
var linesCmd = &cobra.Command{
	Use:   "lines <file>",
	Short: "Print normalized document lines",
	Long: `Print the normalized lines of a document, one per line. Lines that open a
field block are marked "H" and cross-reference lines "X", which helps explain
where chunk boundaries fall.`,
	Args: cobra.ExactArgs(1),
	RunE: runLines,
}

func init() {
	extractCmd.Flags().StringVarP(&outputPath, "output", "o", defaultOutput, `output file ("-" for stdout)`)
	extractCmd.Flags().StringVar(&category, "category", doctree.DefaultCategory, "category stamped on every rule")
}

func decodeFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	_, text, err := parser.Decode(f, filepath.Base(path), parser.Options{PDFFallbackPdftotext: !noPdftotext})
	if err != nil {
		return "", err
	}
	return text, nil
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := newLogger().With("file", args[0])

	text, err := decodeFile(args[0])
	if err != nil {
		return err
	}
	log.Info("progress", "message", fmt.Sprintf("Extracted text length: %d characters", len([]rune(text))))

	res, err := pipeline.RunText(text, pipeline.Options{
		Category: category,
		Sink:     pipeline.LogSink{Log: log},
		OnChunk: func(processed, total, rules int) {
			log.Debug("chunk processed", "processed", processed, "total", total, "rules", rules)
		},
	})
	if err != nil {
		return err
	}

	body, err := json.MarshalIndent(res.Rules, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	body = append(body, '\n')

	if outputPath == "-" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	log.Info("wrote rules", "path", outputPath, "rules", len(res.Rules))
	return nil
}

func runLines(cmd *cobra.Command, args []string) error {
	text, err := decodeFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, line := range chunker.Normalize(text) {
		mark := " "
		switch {
		case chunker.IsHeaderLine(line):
			mark = "H"
		case chunker.IsCrossReferenceMarker(line):
			mark = "X"
		}
		fmt.Fprintf(out, "%4d %s %s\n", i+1, mark, line)
	}
	return nil
}
