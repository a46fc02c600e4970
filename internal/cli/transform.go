package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfields/ctrlmig/internal/config"
	"github.com/mfields/ctrlmig/internal/journal"
	"github.com/mfields/ctrlmig/internal/pipeline"
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform an export directory into desired-state documents",
	Long: `Transform reads per-type JSON export documents, rewrites id-based
references to names, strips secret material, and writes one desired-state
YAML document per object type.

The output is deterministic: running twice on an unchanged export produces
byte-identical files. Any fatal error (malformed record, ambiguous name,
dangling reference) aborts before anything is written.

Examples:
  ctrlmig transform --export-dir ./_export --out ./_cac
  ctrlmig transform --strict                 # escalate schema warnings
  ctrlmig transform --types organizations,projects`,
	RunE: runTransform,
}

var (
	transformExportDir string
	transformOutDir    string
	transformStrict    bool
	transformTypes     string
	transformJSON      bool
	transformNoJournal bool
)

func init() {
	rootCmd.AddCommand(transformCmd)

	transformCmd.Flags().StringVar(&transformExportDir, "export-dir", "", "Directory containing per-type export JSON (default from config)")
	transformCmd.Flags().StringVar(&transformOutDir, "out", "", "Directory to write desired-state YAML into (default from config)")
	transformCmd.Flags().BoolVar(&transformStrict, "strict", false, "Escalate schema warnings to hard failures")
	transformCmd.Flags().StringVar(&transformTypes, "types", "", "Comma-separated object types to transform (default: all)")
	transformCmd.Flags().BoolVar(&transformJSON, "json", false, "Output run summary as JSON")
	transformCmd.Flags().BoolVar(&transformNoJournal, "no-journal", false, "Skip recording the run in the journal")
}

// TransformSummary is the machine-readable run summary.
type TransformSummary struct {
	OutputDir string         `json:"out"`
	Rev       string         `json:"rev"`
	Counts    map[string]int `json:"counts"`
	Warnings  int            `json:"warnings"`
	Files     []string       `json:"files"`
}

func runTransform(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	exportDir := cfg.ExportDir
	if transformExportDir != "" {
		exportDir = transformExportDir
	}
	outDir := cfg.OutputDir
	if transformOutDir != "" {
		outDir = transformOutDir
	}
	strict := cfg.Strict || transformStrict

	types, err := parseTypeFilter(transformTypes)
	if err != nil {
		return err
	}

	inputs, err := readExportDir(exportDir, types)
	if err != nil {
		return err
	}

	result, err := pipeline.Run(inputs, pipeline.Options{Strict: strict})
	if err != nil {
		return err
	}

	printWarnings(cmd, result.Warnings)

	if err := writeDocuments(outDir, result.Documents); err != nil {
		return err
	}

	if !transformNoJournal {
		recordTransformRun(cmd, cfg, exportDir, outDir, strict, result)
	}

	if transformJSON {
		summary := TransformSummary{
			OutputDir: outDir,
			Rev:       result.Rev,
			Counts:    make(map[string]int, len(result.Counts)),
			Warnings:  len(result.Warnings),
		}
		for t, n := range result.Counts {
			summary.Counts[t.Plural()] = n
		}
		for _, doc := range result.Documents {
			summary.Files = append(summary.Files, doc.Filename)
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summary)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d document(s) to %s\n", len(result.Documents), outDir)
	for _, doc := range result.Documents {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d record(s)\n", doc.Filename, result.Counts[doc.Type])
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rev %s\n", result.Rev)
	if n := len(result.Warnings); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d schema warning(s)\n", n)
	}
	return nil
}

func recordTransformRun(cmd *cobra.Command, cfg *config.Config, exportDir, outDir string, strict bool, result *pipeline.Result) {
	j, err := openJournal(cmd, cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not open run journal: %v\n", err)
		return
	}
	defer j.Close()

	_, err = j.Record(journal.Run{
		Kind:         "transform",
		ExportDir:    exportDir,
		OutputDir:    outDir,
		Rev:          result.Rev,
		Strict:       strict,
		WarningCount: len(result.Warnings),
		Status:       "ok",
	}, result.Counts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not record run: %v\n", err)
	}
}
