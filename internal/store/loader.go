package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/inodb/genegraph/internal/annotation"
)

// The JSON locus document is the population-layer stand-in used by tests
// and the CLI: one sequence region with its loci, transcripts, pieces,
// features, and cross-piece pairs. Records are wired together exclusively
// through the link protocol, so a loaded graph is bidirectionally
// consistent by construction.

// Document is the top-level JSON form of an annotated region.
type Document struct {
	Species string     `json:"species"`
	Seqid   string     `json:"seqid"`
	Start   int64      `json:"start"`
	End     int64      `json:"end"`
	Loci    []LocusDoc `json:"loci"`
}

// LocusDoc is one gene locus.
type LocusDoc struct {
	GivenID     string          `json:"given_id"`
	Type        string          `json:"type"`
	Transcripts []TranscriptDoc `json:"transcripts"`
}

// TranscriptDoc is one transcript with its pieces and pair links.
type TranscriptDoc struct {
	GivenID string     `json:"given_id"`
	Type    string     `json:"type"`
	Pieces  []PieceDoc `json:"pieces"`
	Pairs   []PairDoc  `json:"pairs"`
}

// PieceDoc is one transcribed piece and its features.
type PieceDoc struct {
	GivenID  string       `json:"given_id"`
	Features []FeatureDoc `json:"features"`
}

// FeatureDoc is one structural feature. Phase is omitted for non-coding
// boundaries; Stream is "upstream", "downstream", or absent.
type FeatureDoc struct {
	GivenID      string  `json:"given_id"`
	Type         string  `json:"type"`
	Bearing      string  `json:"bearing"`
	Start        int64   `json:"start"`
	End          int64   `json:"end"`
	IsPlusStrand bool    `json:"is_plus_strand"`
	Phase        *int8   `json:"phase,omitempty"`
	Score        float64 `json:"score,omitempty"`
	Source       string  `json:"source,omitempty"`
	Stream       string  `json:"stream,omitempty"`
}

// PairDoc joins two stream features by their given ids.
type PairDoc struct {
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

// LoadFile reads a locus document from disk and populates a fresh store.
func LoadFile(path string) (*Memory, *annotation.SequenceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open locus file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes a locus document and builds the graph inside a new store,
// returning the populated sequence region.
func Load(r io.Reader) (*Memory, *annotation.SequenceInfo, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode locus document: %w", err)
	}
	m := NewMemory()
	si, err := build(m, &doc)
	if err != nil {
		return nil, nil, err
	}
	return m, si, nil
}

func build(m *Memory, doc *Document) (*annotation.SequenceInfo, error) {
	genome := &annotation.AnnotatedGenome{Species: doc.Species}
	m.Add(genome)

	coords := &annotation.Coordinates{Seqid: doc.Seqid, Start: doc.Start, End: doc.End}
	si := &annotation.SequenceInfo{Coordinates: []*annotation.Coordinates{coords}}
	m.Add(si)
	if err := genome.LinkTo(si); err != nil {
		return nil, err
	}

	for _, locusDoc := range doc.Loci {
		if err := buildLocus(m, si, coords, locusDoc); err != nil {
			return nil, fmt.Errorf("locus %q: %w", locusDoc.GivenID, err)
		}
	}
	return si, nil
}

func buildLocus(m *Memory, si *annotation.SequenceInfo, coords *annotation.Coordinates, doc LocusDoc) error {
	sl := &annotation.SuperLocus{GivenID: doc.GivenID, Type: doc.Type}
	m.Add(sl)
	if err := si.LinkTo(sl); err != nil {
		return err
	}

	for _, transcriptDoc := range doc.Transcripts {
		if err := buildTranscript(m, sl, coords, transcriptDoc); err != nil {
			return fmt.Errorf("transcript %q: %w", transcriptDoc.GivenID, err)
		}
	}
	return nil
}

func buildTranscript(m *Memory, sl *annotation.SuperLocus, coords *annotation.Coordinates, doc TranscriptDoc) error {
	t := &annotation.Transcribed{GivenID: doc.GivenID, Type: doc.Type}
	m.Add(t)
	if err := sl.LinkTo(t); err != nil {
		return err
	}

	features := make(map[string]*annotation.Feature)
	for _, pieceDoc := range doc.Pieces {
		piece := &annotation.TranscribedPiece{GivenID: pieceDoc.GivenID}
		m.Add(piece)
		if err := t.LinkTo(piece); err != nil {
			return err
		}
		if err := piece.LinkTo(sl); err != nil {
			return err
		}

		for _, featureDoc := range pieceDoc.Features {
			f, err := buildFeature(coords, featureDoc)
			if err != nil {
				return err
			}
			m.Add(f)
			if err := sl.LinkTo(f); err != nil {
				return err
			}
			if err := piece.LinkTo(f); err != nil {
				return err
			}
			if featureDoc.GivenID != "" {
				features[featureDoc.GivenID] = f
			}
		}
	}

	for _, pairDoc := range doc.Pairs {
		up, ok := features[pairDoc.Upstream]
		if !ok {
			return fmt.Errorf("pair references unknown upstream feature %q", pairDoc.Upstream)
		}
		down, ok := features[pairDoc.Downstream]
		if !ok {
			return fmt.Errorf("pair references unknown downstream feature %q", pairDoc.Downstream)
		}
		pair := &annotation.UpDownPair{}
		m.Add(pair)
		if err := t.LinkTo(pair); err != nil {
			return err
		}
		if err := pair.LinkTo(up); err != nil {
			return err
		}
		if err := pair.LinkTo(down); err != nil {
			return err
		}
	}
	return nil
}

func buildFeature(coords *annotation.Coordinates, doc FeatureDoc) (*annotation.Feature, error) {
	f := &annotation.Feature{
		GivenID:      doc.GivenID,
		Type:         annotation.FeatureType(doc.Type),
		Bearing:      annotation.Bearing(doc.Bearing),
		Start:        doc.Start,
		End:          doc.End,
		IsPlusStrand: doc.IsPlusStrand,
		Coordinates:  coords,
		Phase:        annotation.PhaseNone,
		Score:        doc.Score,
		Source:       doc.Source,
	}
	if doc.Phase != nil {
		f.Phase = *doc.Phase
	}
	switch doc.Stream {
	case "":
		f.Stream = annotation.StreamNone
	case "upstream":
		f.Stream = annotation.StreamUpstream
	case "downstream":
		f.Stream = annotation.StreamDownstream
	default:
		return nil, fmt.Errorf("feature %q: unknown stream role %q", doc.GivenID, doc.Stream)
	}
	return f, nil
}
