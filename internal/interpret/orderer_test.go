package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genegraph/internal/annotation"
)

// sliceSource is a minimal in-test FeatureSource.
type sliceSource struct {
	features []*annotation.Feature
}

func (s *sliceSource) FeaturesByStream(role annotation.StreamRole) []*annotation.Feature {
	var out []*annotation.Feature
	for _, f := range s.features {
		if f.Stream == role {
			out = append(out, f)
		}
	}
	return out
}

func (s *sliceSource) add(fs ...*annotation.Feature) {
	s.features = append(s.features, fs...)
}

func streamFeature(t *testing.T, coords *annotation.Coordinates, start int64, role annotation.StreamRole, piece *annotation.TranscribedPiece) *annotation.Feature {
	t.Helper()
	f := &annotation.Feature{
		GivenID:      "stream",
		Type:         annotation.TypeTranscribed,
		Start:        start,
		End:          start + 1,
		IsPlusStrand: true,
		Coordinates:  coords,
		Phase:        annotation.PhaseNone,
		Stream:       role,
	}
	if role == annotation.StreamDownstream {
		f.Bearing = annotation.BearingCloseStatus
	} else {
		f.Bearing = annotation.BearingOpenStatus
	}
	require.NoError(t, piece.LinkTo(f))
	return f
}

func pairUp(t *testing.T, tr *annotation.Transcribed, up, down *annotation.Feature) *annotation.UpDownPair {
	t.Helper()
	pair := &annotation.UpDownPair{}
	require.NoError(t, tr.LinkTo(pair))
	require.NoError(t, pair.LinkTo(up))
	require.NoError(t, pair.LinkTo(down))
	return pair
}

// splitTranscript builds a two-piece plus-strand transcript joined by one
// pair: the downstream feature closes piece one, the upstream feature opens
// piece two.
func splitTranscript(t *testing.T) (*annotation.Transcribed, *annotation.TranscribedPiece, *annotation.TranscribedPiece, *sliceSource) {
	t.Helper()
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p1 := &annotation.TranscribedPiece{GivenID: "piece-1"}
	p2 := &annotation.TranscribedPiece{GivenID: "piece-2"}
	require.NoError(t, tr.LinkTo(p1))
	require.NoError(t, tr.LinkTo(p2))

	down := streamFeature(t, coords, 300, annotation.StreamDownstream, p1)
	up := streamFeature(t, coords, 400, annotation.StreamUpstream, p2)
	pairUp(t, tr, up, down)

	source := &sliceSource{}
	source.add(down, up)
	return tr, p1, p2, source
}

func TestSortPieces_EmptyTranscript(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-empty"}
	interp := New(tr, &sliceSource{})

	pieces, err := interp.SortPieces()
	require.NoError(t, err)
	assert.Nil(t, pieces)
}

func TestSortPieces_SinglePiece(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p := &annotation.TranscribedPiece{GivenID: "piece-1"}
	require.NoError(t, tr.LinkTo(p))

	pieces, err := New(tr, &sliceSource{}).SortPieces()
	require.NoError(t, err)
	assert.Equal(t, []*annotation.TranscribedPiece{p}, pieces)
}

func TestSortPieces_TwoPieces(t *testing.T) {
	tr, p1, p2, source := splitTranscript(t)

	pieces, err := New(tr, source).SortPieces()
	require.NoError(t, err)
	assert.Equal(t, []*annotation.TranscribedPiece{p1, p2}, pieces)
}

func TestSortPieces_SeedsAnywhere(t *testing.T) {
	// Same structure, but the later piece is linked first, so ordering must
	// extend upstream from its seed.
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p2 := &annotation.TranscribedPiece{GivenID: "piece-2"}
	p1 := &annotation.TranscribedPiece{GivenID: "piece-1"}
	require.NoError(t, tr.LinkTo(p2))
	require.NoError(t, tr.LinkTo(p1))

	down := streamFeature(t, coords, 300, annotation.StreamDownstream, p1)
	up := streamFeature(t, coords, 400, annotation.StreamUpstream, p2)
	pairUp(t, tr, up, down)

	source := &sliceSource{}
	source.add(down, up)

	pieces, err := New(tr, source).SortPieces()
	require.NoError(t, err)
	assert.Equal(t, []*annotation.TranscribedPiece{p1, p2}, pieces)
}

func TestSortPieces_ThreePieceChain(t *testing.T) {
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p1 := &annotation.TranscribedPiece{GivenID: "piece-1"}
	p2 := &annotation.TranscribedPiece{GivenID: "piece-2"}
	p3 := &annotation.TranscribedPiece{GivenID: "piece-3"}
	require.NoError(t, tr.LinkTo(p2))
	require.NoError(t, tr.LinkTo(p1))
	require.NoError(t, tr.LinkTo(p3))

	d1 := streamFeature(t, coords, 100, annotation.StreamDownstream, p1)
	u2 := streamFeature(t, coords, 200, annotation.StreamUpstream, p2)
	d2 := streamFeature(t, coords, 300, annotation.StreamDownstream, p2)
	u3 := streamFeature(t, coords, 400, annotation.StreamUpstream, p3)
	pairUp(t, tr, u2, d1)
	pairUp(t, tr, u3, d2)

	source := &sliceSource{}
	source.add(d1, u2, d2, u3)

	pieces, err := New(tr, source).SortPieces()
	require.NoError(t, err)
	assert.Equal(t, []*annotation.TranscribedPiece{p1, p2, p3}, pieces)
}

func TestSortPieces_AmbiguousLinkage(t *testing.T) {
	tr, p1, _, source := splitTranscript(t)

	// A second pair leaving piece one makes the downstream link ambiguous.
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	extraDown := streamFeature(t, coords, 310, annotation.StreamDownstream, p1)
	extraUp := streamFeature(t, coords, 420, annotation.StreamUpstream, p1)
	pairUp(t, tr, extraUp, extraDown)
	source.add(extraDown, extraUp)

	_, err := New(tr, source).SortPieces()
	var ile *annotation.IndecipherableLinkageError
	require.ErrorAs(t, err, &ile)
}

func TestSortPieces_CircularLinkage(t *testing.T) {
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-circle"}
	p1 := &annotation.TranscribedPiece{GivenID: "piece-1"}
	p2 := &annotation.TranscribedPiece{GivenID: "piece-2"}
	require.NoError(t, tr.LinkTo(p1))
	require.NoError(t, tr.LinkTo(p2))

	d1 := streamFeature(t, coords, 100, annotation.StreamDownstream, p1)
	u2 := streamFeature(t, coords, 200, annotation.StreamUpstream, p2)
	d2 := streamFeature(t, coords, 300, annotation.StreamDownstream, p2)
	u1 := streamFeature(t, coords, 400, annotation.StreamUpstream, p1)
	pairUp(t, tr, u2, d1)
	pairUp(t, tr, u1, d2)

	source := &sliceSource{}
	source.add(d1, u2, d2, u1)

	_, err := New(tr, source).SortPieces()
	var ile *annotation.IndecipherableLinkageError
	require.ErrorAs(t, err, &ile)
	assert.Contains(t, err.Error(), "circular")
}

func TestSortPieces_UnreachablePiece(t *testing.T) {
	tr, _, _, source := splitTranscript(t)
	orphan := &annotation.TranscribedPiece{GivenID: "piece-orphan"}
	require.NoError(t, tr.LinkTo(orphan))

	_, err := New(tr, source).SortPieces()
	var ile *annotation.IndecipherableLinkageError
	require.ErrorAs(t, err, &ile)
}

func TestDownstreamLink(t *testing.T) {
	tr, p1, p2, source := splitTranscript(t)
	interp := New(tr, source)

	link, err := interp.DownstreamLink(p1)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, tr.Pairs[0], link)

	// The last piece has no downstream continuation.
	link, err = interp.DownstreamLink(p2)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestUpstreamLink(t *testing.T) {
	tr, p1, p2, source := splitTranscript(t)
	interp := New(tr, source)

	link, err := interp.UpstreamLink(p2)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, tr.Pairs[0], link)

	link, err = interp.UpstreamLink(p1)
	require.NoError(t, err)
	assert.Nil(t, link)
}

func TestSortPieces_PairWithEmptySlot(t *testing.T) {
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p1 := &annotation.TranscribedPiece{GivenID: "piece-1"}
	p2 := &annotation.TranscribedPiece{GivenID: "piece-2"}
	require.NoError(t, tr.LinkTo(p1))
	require.NoError(t, tr.LinkTo(p2))

	down := streamFeature(t, coords, 300, annotation.StreamDownstream, p1)
	pair := &annotation.UpDownPair{}
	require.NoError(t, tr.LinkTo(pair))
	require.NoError(t, pair.LinkTo(down))

	source := &sliceSource{}
	source.add(down)

	_, err := New(tr, source).SortPieces()
	var ile *annotation.IndecipherableLinkageError
	require.ErrorAs(t, err, &ile)
}
