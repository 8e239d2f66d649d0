// Package annotation defines the typed gene-structure graph: the data
// records (genome, sequence region, locus, transcript, piece, translation,
// feature, link pair), the closed set of node kinds, and the link/de-link/
// copy protocol that keeps the bidirectional graph referentially consistent.
package annotation

// FeatureType is the biological category a feature delimits.
type FeatureType string

const (
	TypeTranscribed FeatureType = "transcribed"
	TypeCoding      FeatureType = "coding"
	TypeIntron      FeatureType = "intron"
	TypeTransIntron FeatureType = "trans_intron"
	TypeError       FeatureType = "error"
	TypePoint       FeatureType = "point"
)

// Bearing is the role of a feature instant within a status span.
type Bearing string

const (
	BearingStart       Bearing = "start"
	BearingOpenStatus  Bearing = "open_status"
	BearingCloseStatus Bearing = "close_status"
	BearingEnd         Bearing = "end"
	BearingPoint       Bearing = "point"
)

// bearingPriority fixes the tie-break order for features stacked at one
// position. Point outranks everything: it is a single-base event that must
// be processed as its own atomic group.
var bearingPriority = map[Bearing]int{
	BearingEnd:         0,
	BearingCloseStatus: 1,
	BearingOpenStatus:  2,
	BearingStart:       3,
	BearingPoint:       4,
}

// BearingPriority returns the stacking priority of a bearing.
// ok is false for a bearing outside the known set.
func BearingPriority(b Bearing) (priority int, ok bool) {
	priority, ok = bearingPriority[b]
	return priority, ok
}

// PhaseNone marks a feature or status with no reading-frame offset.
const PhaseNone int8 = -1

// StreamRole distinguishes plain features from the upstream/downstream
// subtypes that participate in UpDownPair links across split transcripts.
type StreamRole int8

const (
	StreamNone StreamRole = iota
	StreamUpstream
	StreamDownstream
)

// String returns the role name used in persisted and loaded documents.
func (r StreamRole) String() string {
	switch r {
	case StreamUpstream:
		return "upstream"
	case StreamDownstream:
		return "downstream"
	default:
		return "none"
	}
}

// Kind identifies a node type within the closed graph variant set.
type Kind string

const (
	KindAnnotatedGenome   Kind = "AnnotatedGenome"
	KindSequenceInfo      Kind = "SequenceInfo"
	KindSuperLocus        Kind = "SuperLocus"
	KindTranscribed       Kind = "Transcribed"
	KindTranscribedPiece  Kind = "TranscribedPiece"
	KindTranslated        Kind = "Translated"
	KindFeature           Kind = "Feature"
	KindUpstreamFeature   Kind = "UpstreamFeature"
	KindDownstreamFeature Kind = "DownstreamFeature"
	KindUpDownPair        Kind = "UpDownPair"
)

// linkTargets declares, per source kind, which target kinds LinkTo and
// DeLink accept. Initialized once, never mutated; the per-kind match
// expressions in link.go implement the corresponding mutations.
var linkTargets = map[Kind][]Kind{
	KindAnnotatedGenome:  {KindSequenceInfo},
	KindSequenceInfo:     {KindAnnotatedGenome, KindSuperLocus},
	KindSuperLocus:       {KindSequenceInfo, KindTranscribed, KindTranslated, KindFeature, KindUpstreamFeature, KindDownstreamFeature},
	KindTranscribed:      {KindTranslated, KindSuperLocus, KindTranscribedPiece, KindUpDownPair},
	KindTranscribedPiece: {KindTranscribed, KindSuperLocus, KindFeature, KindUpstreamFeature, KindDownstreamFeature},
	KindTranslated:       {KindTranscribed, KindSuperLocus, KindFeature, KindUpstreamFeature, KindDownstreamFeature},
	KindFeature:          {KindTranscribedPiece, KindSuperLocus, KindTranslated},
	KindUpstreamFeature:  {KindTranscribedPiece, KindSuperLocus, KindTranslated, KindUpDownPair},
	KindDownstreamFeature: {KindTranscribedPiece, KindSuperLocus, KindTranslated, KindUpDownPair},
	KindUpDownPair:       {KindTranscribed, KindUpstreamFeature, KindDownstreamFeature},
}

// LinkTargets returns the kinds a node of kind k may link to or de-link
// from. The returned slice is a copy.
func LinkTargets(k Kind) []Kind {
	targets := linkTargets[k]
	out := make([]Kind, len(targets))
	copy(out, targets)
	return out
}
