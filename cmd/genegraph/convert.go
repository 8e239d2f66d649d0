package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/inodb/genegraph/internal/store"
)

func newConvertCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert <input-file>",
		Short: "Convert a JSON locus document to a DuckDB database",
		Long: `Load a JSON locus document and persist the annotation graph to a
DuckDB database for faster repeated inspection.`,
		Example: `  genegraph convert locus.json --output annotations.duckdb`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output DuckDB file path (required)")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runConvert(inputPath, outputPath string) error {
	if filepath.Ext(outputPath) != ".duckdb" && filepath.Ext(outputPath) != ".db" {
		outputPath = outputPath + ".duckdb"
	}

	// Remove existing output file if it exists
	if _, err := os.Stat(outputPath); err == nil {
		if err := os.Remove(outputPath); err != nil {
			return fmt.Errorf("removing existing file: %w", err)
		}
	}

	m, si, err := store.LoadFile(inputPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Loaded %d records from %s\n", m.NodeCount(), inputPath)

	db, err := store.Open(outputPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, sl := range si.SuperLoci {
		if err := db.SaveLocus(sl); err != nil {
			return err
		}
	}

	count, err := db.LocusCount()
	if err != nil {
		return fmt.Errorf("verifying count: %w", err)
	}

	stat, err := os.Stat(outputPath)
	sizeStr := "unknown"
	if err == nil {
		sizeStr = fmt.Sprintf("%.2f MB", float64(stat.Size())/(1024*1024))
	}

	fmt.Fprintf(os.Stderr, "Conversion complete\n")
	fmt.Fprintf(os.Stderr, "  Loci: %d\n", count)
	fmt.Fprintf(os.Stderr, "  Output size: %s\n", sizeStr)
	fmt.Fprintf(os.Stderr, "  Output file: %s\n", outputPath)
	return nil
}
