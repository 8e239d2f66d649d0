package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genegraph/internal/annotation"
)

func pieceFeature(t *testing.T, piece *annotation.TranscribedPiece, coords *annotation.Coordinates, start int64, ftype annotation.FeatureType, bearing annotation.Bearing) *annotation.Feature {
	t.Helper()
	f := &annotation.Feature{
		Type:         ftype,
		Bearing:      bearing,
		Start:        start,
		End:          start + 1,
		IsPlusStrand: true,
		Coordinates:  coords,
		Phase:        annotation.PhaseNone,
	}
	require.NoError(t, piece.LinkTo(f))
	return f
}

func collectSteps(t *testing.T, w *Walker) []*Step {
	t.Helper()
	var steps []*Step
	for {
		step, err := w.Next()
		require.NoError(t, err)
		if step == nil {
			return steps
		}
		steps = append(steps, step)
	}
}

func TestWalker_SinglePieceCodingGene(t *testing.T) {
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p := &annotation.TranscribedPiece{GivenID: "piece-1"}
	require.NoError(t, tr.LinkTo(p))

	pieceFeature(t, p, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)
	pieceFeature(t, p, coords, 200, annotation.TypeCoding, annotation.BearingStart)
	pieceFeature(t, p, coords, 500, annotation.TypeCoding, annotation.BearingEnd)
	pieceFeature(t, p, coords, 600, annotation.TypeTranscribed, annotation.BearingEnd)

	steps := collectSteps(t, New(tr, &sliceSource{}).Transition5pTo3p())
	require.Len(t, steps, 4)

	assert.True(t, steps[0].Status.Is5pUTR())
	assert.True(t, steps[1].Status.IsCoding())
	assert.Equal(t, int8(0), steps[1].Status.Phase)
	assert.True(t, steps[2].Status.Is3pUTR())
	assert.True(t, steps[3].Status.IsIntergenic())

	for _, step := range steps {
		assert.Equal(t, p, step.Piece)
	}
}

func TestWalker_SplitTranscript(t *testing.T) {
	tr, p1, p2, source := splitTranscript(t)
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}

	pieceFeature(t, p1, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)
	pieceFeature(t, p1, coords, 200, annotation.TypeCoding, annotation.BearingStart)
	pieceFeature(t, p2, coords, 500, annotation.TypeCoding, annotation.BearingEnd)
	pieceFeature(t, p2, coords, 600, annotation.TypeTranscribed, annotation.BearingEnd)

	steps := collectSteps(t, New(tr, source).Transition5pTo3p())
	require.Len(t, steps, 6)

	// Piece one: transcription start, coding start, boundary close.
	assert.Equal(t, p1, steps[0].Piece)
	assert.True(t, steps[1].Status.IsCoding())
	assert.True(t, steps[2].Status.IsIntergenic()) // boundary close_status

	// Piece two: boundary reopen, coding end, transcription end.
	assert.Equal(t, p2, steps[3].Piece)
	assert.True(t, steps[3].Status.Genic)
	assert.True(t, steps[3].Status.InTranslatedRegion)
	assert.True(t, steps[4].Status.Is3pUTR())
	assert.True(t, steps[5].Status.IsIntergenic())
}

func TestWalker_ExhaustionIsSticky(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p := &annotation.TranscribedPiece{GivenID: "piece-1"}
	require.NoError(t, tr.LinkTo(p))
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	pieceFeature(t, p, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)
	pieceFeature(t, p, coords, 200, annotation.TypeTranscribed, annotation.BearingEnd)

	w := New(tr, &sliceSource{}).Transition5pTo3p()
	collectSteps(t, w)

	for i := 0; i < 3; i++ {
		step, err := w.Next()
		require.NoError(t, err)
		assert.Nil(t, step)
	}
}

func TestWalker_EmptyTranscript(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-empty"}
	w := New(tr, &sliceSource{}).Transition5pTo3p()

	step, err := w.Next()
	require.NoError(t, err)
	assert.Nil(t, step)
}

func TestWalker_BoundaryOnlyPiece(t *testing.T) {
	tr, p1, _, source := splitTranscript(t)
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	pieceFeature(t, p1, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)

	steps := collectSteps(t, New(tr, source).Transition5pTo3p())
	// Piece one: transcription start plus boundary close; piece two holds
	// only its boundary reopen.
	assert.Len(t, steps, 3)
}

func TestWalker_FeaturelessPiece(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-bare"}
	p := &annotation.TranscribedPiece{GivenID: "piece-bare"}
	require.NoError(t, tr.LinkTo(p))

	w := New(tr, &sliceSource{}).Transition5pTo3p()
	step, err := w.Next()
	require.NoError(t, err)
	assert.Nil(t, step)
}

func TestWalker_StatusSnapshotsAreIndependent(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-1"}
	p := &annotation.TranscribedPiece{GivenID: "piece-1"}
	require.NoError(t, tr.LinkTo(p))
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}
	pieceFeature(t, p, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)
	pieceFeature(t, p, coords, 200, annotation.TypeTranscribed, annotation.BearingEnd)

	w := New(tr, &sliceSource{}).Transition5pTo3p()
	first, err := w.Next()
	require.NoError(t, err)
	first.Status.Genic = false

	// Mutating the returned snapshot must not leak into the walk.
	second, err := w.Next()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.True(t, second.Status.IsIntergenic())
	assert.False(t, second.Status.SeenStart)
}

func TestWalker_StructuralFaultEndsStream(t *testing.T) {
	tr := &annotation.Transcribed{GivenID: "mRNA-bad"}
	p := &annotation.TranscribedPiece{GivenID: "piece-bad"}
	require.NoError(t, tr.LinkTo(p))
	coords := &annotation.Coordinates{Seqid: "1", End: 1000}

	pieceFeature(t, p, coords, 100, annotation.TypeTranscribed, annotation.BearingStart)
	minus := pieceFeature(t, p, coords, 200, annotation.TypeTranscribed, annotation.BearingEnd)
	minus.IsPlusStrand = false

	w := New(tr, &sliceSource{}).Transition5pTo3p()
	_, err := w.Next()
	var sce *annotation.StructuralConsistencyError
	require.ErrorAs(t, err, &sce)

	step, err := w.Next()
	require.NoError(t, err)
	assert.Nil(t, step)
}

func TestWalker_LinkageFaultSurfaces(t *testing.T) {
	tr, _, _, source := splitTranscript(t)
	orphan := &annotation.TranscribedPiece{GivenID: "piece-orphan"}
	require.NoError(t, tr.LinkTo(orphan))

	w := New(tr, source).Transition5pTo3p()
	_, err := w.Next()
	var ile *annotation.IndecipherableLinkageError
	require.ErrorAs(t, err, &ile)
}
