package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/genegraph/internal/annotation"
	"github.com/inodb/genegraph/internal/interpret"
	"github.com/inodb/genegraph/internal/store"
)

func newInspectCmd() *cobra.Command {
	var transcriptID string

	cmd := &cobra.Command{
		Use:   "inspect <input-file>",
		Short: "Walk transcripts and report genic status transitions",
		Long: `Load an annotation graph from a JSON locus document or a DuckDB
database, order each transcript's pieces 5' to 3', and print the status at
every feature boundary.`,
		Example: `  genegraph inspect locus.json
  genegraph inspect annotations.duckdb
  genegraph inspect --transcript mRNA-1 locus.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], transcriptID)
		},
	}

	cmd.Flags().StringVarP(&transcriptID, "transcript", "t", "", "Only inspect the transcript with this given id")

	return cmd
}

func runInspect(path, transcriptID string) error {
	m, si, err := loadGraph(path)
	if err != nil {
		return err
	}

	region := "?"
	if len(si.Coordinates) > 0 {
		c := si.Coordinates[0]
		region = fmt.Sprintf("%s:%d-%d", c.Seqid, c.Start, c.End)
	}
	fmt.Fprintf(os.Stderr, "Loaded %d records over %s\n", m.NodeCount(), region)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	defer w.Flush()

	inspected := 0
	for _, sl := range si.SuperLoci {
		for _, t := range sl.Transcribeds {
			if transcriptID != "" && t.GivenID != transcriptID {
				continue
			}
			if err := inspectTranscript(w, sl, t, m); err != nil {
				return fmt.Errorf("transcript %q: %w", t.GivenID, err)
			}
			inspected++
		}
	}

	if transcriptID != "" && inspected == 0 {
		return fmt.Errorf("transcript %q not found", transcriptID)
	}
	return nil
}

func inspectTranscript(w *tabwriter.Writer, sl *annotation.SuperLocus, t *annotation.Transcribed, m *store.Memory) error {
	fmt.Fprintf(w, "\n%s / %s\n", sl.GivenID, t.GivenID)
	fmt.Fprintln(w, "piece\tposition\tfeatures\tregion\tphase")

	interp := interpret.New(t, m)
	interp.SetLogger(logger)

	walker := interp.Transition5pTo3p()
	for {
		step, err := walker.Next()
		if err != nil {
			return err
		}
		if step == nil {
			return nil
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n",
			step.Piece.GivenID,
			step.Features[0].Start,
			describeGroup(step.Features),
			describeStatus(step.Status),
			describePhase(step.Status.Phase))
	}
}

func describeGroup(features []*annotation.Feature) string {
	parts := make([]string, len(features))
	for i, f := range features {
		parts[i] = fmt.Sprintf("%s/%s", f.Type, f.Bearing)
	}
	return strings.Join(parts, ",")
}

func describeStatus(s interpret.Status) string {
	switch {
	case s.IsIntergenic():
		return "intergenic"
	case s.IsCoding():
		return "coding"
	case s.Is5pUTR():
		return "5'UTR"
	case s.Is3pUTR():
		return "3'UTR"
	case s.IsIntronic():
		return "intron"
	case s.IsTransIntronic():
		return "trans-intron"
	default:
		return "genic"
	}
}

func describePhase(phase int8) string {
	if phase == annotation.PhaseNone {
		return "-"
	}
	return fmt.Sprintf("%d", phase)
}

// loadGraph loads from DuckDB when the path looks like a database file,
// otherwise from a JSON locus document.
func loadGraph(path string) (*store.Memory, *annotation.SequenceInfo, error) {
	if store.IsDB(path) {
		db, err := store.Open(path)
		if err != nil {
			return nil, nil, err
		}
		defer db.Close()
		return db.LoadAll()
	}
	return store.LoadFile(path)
}
