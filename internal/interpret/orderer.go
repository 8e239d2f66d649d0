package interpret

import (
	"slices"

	"go.uber.org/zap"

	"github.com/inodb/genegraph/internal/annotation"
)

// FeatureSource is the store-side subtype query used to resolve cross-piece
// links: every feature carrying the given stream role, across the process.
type FeatureSource interface {
	FeaturesByStream(role annotation.StreamRole) []*annotation.Feature
}

// Interpreter reads one transcript's structure: piece ordering, link
// resolution, and the transition stream. It never mutates the graph.
type Interpreter struct {
	transcript *annotation.Transcribed
	source     FeatureSource
	logger     *zap.Logger
}

// New creates an interpreter for a transcript backed by the given feature
// source.
func New(transcript *annotation.Transcribed, source FeatureSource) *Interpreter {
	return &Interpreter{
		transcript: transcript,
		source:     source,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger for structural diagnostics.
func (ti *Interpreter) SetLogger(l *zap.Logger) {
	ti.logger = l
}

// Transcript returns the transcript under interpretation.
func (ti *Interpreter) Transcript() *annotation.Transcribed {
	return ti.transcript
}

// SortPieces computes the unique 5'->3' ordering of the transcript's pieces
// consistent with its UpDownPair records. It seeds on an arbitrary piece
// and extends in both directions; cyclic, branching, or incomplete linkage
// fails with an IndecipherableLinkageError.
func (ti *Interpreter) SortPieces() ([]*annotation.TranscribedPiece, error) {
	pieces := ti.transcript.Pieces
	if len(pieces) == 0 {
		return nil, nil
	}

	ordered := []*annotation.TranscribedPiece{pieces[0]}
	var err error
	if ordered, err = ti.extendToEnd(ordered, true); err != nil {
		return nil, err
	}
	if ordered, err = ti.extendToEnd(ordered, false); err != nil {
		return nil, err
	}

	if len(ordered) != len(pieces) {
		return nil, annotation.Indecipherablef(
			"transcript %q: %d of %d pieces reachable from piece %q",
			ti.transcript.GivenID, len(ordered), len(pieces), pieces[0].GivenID)
	}
	return ordered, nil
}

// extendToEnd grows the ordered sequence in one direction until no further
// link is found.
func (ti *Interpreter) extendToEnd(ordered []*annotation.TranscribedPiece, downstream bool) ([]*annotation.TranscribedPiece, error) {
	for {
		var link *annotation.UpDownPair
		var err error
		if downstream {
			link, err = ti.DownstreamLink(ordered[len(ordered)-1])
		} else {
			link, err = ti.UpstreamLink(ordered[0])
		}
		if err != nil {
			return nil, err
		}
		if link == nil {
			return ordered, nil
		}

		// Following a downstream link, the continuing piece holds the
		// pair's upstream feature, and vice versa.
		var stream *annotation.Feature
		if downstream {
			stream = link.Upstream
		} else {
			stream = link.Downstream
		}
		next, err := ti.onePieceFromStream(stream)
		if err != nil {
			return nil, err
		}

		if slices.Contains(ordered, next) {
			return nil, annotation.Indecipherablef(
				"transcript %q: circular linkage re-entering piece %q",
				ti.transcript.GivenID, next.GivenID)
		}
		if downstream {
			ordered = append(ordered, next)
		} else {
			ordered = append([]*annotation.TranscribedPiece{next}, ordered...)
		}
	}
}

// onePieceFromStream resolves a stream feature to the single piece of this
// transcript it belongs to.
func (ti *Interpreter) onePieceFromStream(stream *annotation.Feature) (*annotation.TranscribedPiece, error) {
	if stream == nil {
		return nil, annotation.Indecipherablef(
			"transcript %q: pair with an empty stream slot", ti.transcript.GivenID)
	}
	var matches []*annotation.TranscribedPiece
	for _, p := range stream.Pieces {
		if slices.Contains(ti.transcript.Pieces, p) {
			matches = append(matches, p)
		}
	}
	if len(matches) != 1 {
		return nil, annotation.Indecipherablef(
			"transcript %q: stream feature %q belongs to %d of the transcript's pieces, want 1",
			ti.transcript.GivenID, stream.GivenID, len(matches))
	}
	return matches[0], nil
}

// DownstreamLink locates the unique pair whose downstream feature belongs
// to the piece, nil if no such pair exists. More than one distinct match is
// ambiguous within-transcript linkage and fails.
func (ti *Interpreter) DownstreamLink(piece *annotation.TranscribedPiece) (*annotation.UpDownPair, error) {
	candidates := ti.streamFeaturesOf(piece, annotation.StreamDownstream)
	links := ti.matchingPairs(candidates, annotation.StreamDownstream)
	return ti.collapseLinks(links, "downstream", piece)
}

// UpstreamLink locates the unique pair whose upstream feature belongs to
// the piece, nil if no such pair exists.
func (ti *Interpreter) UpstreamLink(piece *annotation.TranscribedPiece) (*annotation.UpDownPair, error) {
	candidates := ti.streamFeaturesOf(piece, annotation.StreamUpstream)
	links := ti.matchingPairs(candidates, annotation.StreamUpstream)
	return ti.collapseLinks(links, "upstream", piece)
}

// streamFeaturesOf narrows the store's stream subtype query to the features
// belonging to one piece.
func (ti *Interpreter) streamFeaturesOf(piece *annotation.TranscribedPiece, role annotation.StreamRole) []*annotation.Feature {
	var out []*annotation.Feature
	for _, f := range ti.source.FeaturesByStream(role) {
		if slices.Contains(f.Pieces, piece) {
			out = append(out, f)
		}
	}
	return out
}

// matchingPairs finds the transcript's pairs whose slot for the given role
// holds one of the candidate features.
func (ti *Interpreter) matchingPairs(candidates []*annotation.Feature, role annotation.StreamRole) []*annotation.UpDownPair {
	var links []*annotation.UpDownPair
	for _, cand := range candidates {
		for _, pair := range ti.transcript.Pairs {
			var slot *annotation.Feature
			if role == annotation.StreamDownstream {
				slot = pair.Downstream
			} else {
				slot = pair.Upstream
			}
			if slot == cand {
				links = appendMissingPair(links, pair)
			}
		}
	}
	return links
}

func appendMissingPair(links []*annotation.UpDownPair, pair *annotation.UpDownPair) []*annotation.UpDownPair {
	if slices.Contains(links, pair) {
		return links
	}
	return append(links, pair)
}

// collapseLinks reduces the matched pairs to the single expected link.
func (ti *Interpreter) collapseLinks(links []*annotation.UpDownPair, direction string, piece *annotation.TranscribedPiece) (*annotation.UpDownPair, error) {
	switch len(links) {
	case 0:
		return nil, nil
	case 1:
		return links[0], nil
	default:
		ti.logger.Warn("ambiguous within-transcript linkage",
			zap.String("transcript", ti.transcript.GivenID),
			zap.String("piece", piece.GivenID),
			zap.String("direction", direction),
			zap.Int("links", len(links)))
		return nil, annotation.Indecipherablef(
			"transcript %q: %d possible %s links from piece %q, want at most 1",
			ti.transcript.GivenID, len(links), direction, piece.GivenID)
	}
}
