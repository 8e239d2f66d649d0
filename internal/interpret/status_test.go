package interpret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/genegraph/internal/annotation"
)

func feat(ftype annotation.FeatureType, bearing annotation.Bearing) *annotation.Feature {
	return &annotation.Feature{Type: ftype, Bearing: bearing, Phase: annotation.PhaseNone}
}

func TestNewStatus_Intergenic(t *testing.T) {
	s := NewStatus()
	assert.True(t, s.IsIntergenic())
	assert.False(t, s.IsCoding())
	assert.False(t, s.IsUTR())
	assert.Equal(t, annotation.PhaseNone, s.Phase)
}

func TestStatus_SimpleCodingGene(t *testing.T) {
	s := NewStatus()

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingStart)}))
	assert.True(t, s.Is5pUTR())
	assert.False(t, s.IsIntergenic())

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeCoding, annotation.BearingStart)}))
	assert.True(t, s.IsCoding())
	assert.True(t, s.SeenStart)
	assert.Equal(t, int8(0), s.Phase)

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeCoding, annotation.BearingEnd)}))
	assert.True(t, s.Is3pUTR())
	assert.True(t, s.SeenStop)
	assert.Equal(t, annotation.PhaseNone, s.Phase)

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingEnd)}))
	assert.True(t, s.IsIntergenic())
}

func TestStatus_IntronWithinCoding(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{
		feat(annotation.TypeTranscribed, annotation.BearingStart),
		feat(annotation.TypeCoding, annotation.BearingStart),
	}))
	require.True(t, s.IsCoding())

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeIntron, annotation.BearingStart)}))
	assert.True(t, s.IsIntronic())
	assert.False(t, s.IsCoding())

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeIntron, annotation.BearingEnd)}))
	assert.True(t, s.IsCoding())
}

func TestStatus_TransIntron(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingStart)}))

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTransIntron, annotation.BearingStart)}))
	assert.True(t, s.IsTransIntronic())
	assert.False(t, s.IsUTR())

	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTransIntron, annotation.BearingEnd)}))
	assert.False(t, s.IsTransIntronic())
	assert.True(t, s.IsUTR())
}

func TestStatus_OpenStatusCarriesPhase(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingOpenStatus)}))
	assert.True(t, s.Genic)

	coding := feat(annotation.TypeCoding, annotation.BearingOpenStatus)
	coding.Phase = 2
	require.NoError(t, s.Apply([]*annotation.Feature{coding}))
	assert.True(t, s.IsCoding())
	assert.Equal(t, int8(2), s.Phase)
	assert.True(t, s.SeenStart)
}

func TestStatus_CloseStatusKeepsLandmarks(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{
		feat(annotation.TypeTranscribed, annotation.BearingStart),
		feat(annotation.TypeCoding, annotation.BearingStart),
	}))

	// Closing via close_status is an artificial piece boundary, not a stop
	// codon: no stop landmark is recorded.
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeCoding, annotation.BearingCloseStatus)}))
	assert.False(t, s.InTranslatedRegion)
	assert.False(t, s.SeenStop)
	assert.False(t, s.Is3pUTR())
}

func TestStatus_ErrorSpan(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeError, annotation.BearingStart)}))
	assert.True(t, s.Erroneous)
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeError, annotation.BearingEnd)}))
	assert.False(t, s.Erroneous)
}

func TestStatus_UnhandledBearing(t *testing.T) {
	s := NewStatus()
	err := s.Apply([]*annotation.Feature{feat(annotation.TypePoint, annotation.BearingPoint)})
	var sce *annotation.StructuralConsistencyError
	require.ErrorAs(t, err, &sce)
}

func TestStatus_UnhandledType(t *testing.T) {
	s := NewStatus()
	err := s.Apply([]*annotation.Feature{feat(annotation.FeatureType("mystery"), annotation.BearingStart)})
	var sce *annotation.StructuralConsistencyError
	require.ErrorAs(t, err, &sce)
}

func TestStatus_CopyIsSnapshot(t *testing.T) {
	s := NewStatus()
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingStart)}))

	snapshot := s
	require.NoError(t, s.Apply([]*annotation.Feature{feat(annotation.TypeTranscribed, annotation.BearingEnd)}))

	assert.True(t, snapshot.Genic)
	assert.False(t, s.Genic)
}
