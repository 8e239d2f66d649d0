package annotation

// Node is the capability interface every graph record implements: identity,
// kind, the link/de-link protocol, and deferred-delete marking. Records
// carry their own behavior, so no separate handler object or back-pointer
// is needed.
type Node interface {
	Kind() Kind
	NodeID() int64
	SetNodeID(id int64)
	LinkTo(other Node) error
	DeLink(other Node) error
	MarkForDeletion()
	MarkedForDeletion() bool
}

// node carries the identity and deletion flag shared by all records.
type node struct {
	id       int64
	deleteMe bool
}

// NodeID returns the store-assigned identity, zero before the record is
// added to a store.
func (n *node) NodeID() int64 { return n.id }

// SetNodeID assigns the record identity. Called by the store on Add.
func (n *node) SetNodeID(id int64) { n.id = id }

// MarkForDeletion sets the deferred-delete flag. The record stays in the
// graph until an explicit store sweep removes and commits it.
func (n *node) MarkForDeletion() { n.deleteMe = true }

// MarkedForDeletion reports whether the record is flagged for the next sweep.
func (n *node) MarkedForDeletion() bool { return n.deleteMe }

// AnnotatedGenome is the root record: one annotated genome owning zero or
// more sequence regions.
type AnnotatedGenome struct {
	node
	Species       string
	Accession     string
	Version       string
	AcquiredFrom  string
	SequenceInfos []*SequenceInfo
}

func (g *AnnotatedGenome) Kind() Kind { return KindAnnotatedGenome }

// SequenceInfo is a sequence/coordinate region of a genome, owning gene loci
// and the physical sequence coordinates.
type SequenceInfo struct {
	node
	Genome      *AnnotatedGenome
	Coordinates []*Coordinates
	SuperLoci   []*SuperLocus
}

func (si *SequenceInfo) Kind() Kind { return KindSequenceInfo }

// Coordinates identifies one physical sequence within a region. It is a
// plain value record outside the link protocol; features reference it to
// declare which sequence their positions are on.
type Coordinates struct {
	Seqid string
	Start int64
	End   int64
}

// SuperLocus is a gene-level grouping of transcripts, translations, and raw
// features sharing genomic position.
type SuperLocus struct {
	node
	GivenID      string
	Type         string
	SequenceInfo *SequenceInfo
	Transcribeds []*Transcribed
	Translateds  []*Translated
	Features     []*Feature
}

func (sl *SuperLocus) Kind() Kind { return KindSuperLocus }

// Transcribed is one transcript of a locus, represented as one or more
// pieces joined by UpDownPair records.
type Transcribed struct {
	node
	GivenID     string
	Type        string
	SuperLocus  *SuperLocus
	Pieces      []*TranscribedPiece
	Translateds []*Translated
	Pairs       []*UpDownPair
}

func (t *Transcribed) Kind() Kind { return KindTranscribed }

// TranscribedPiece is a contiguous fragment of a transcript's
// representation; multiple pieces model discontinuous or split transcripts.
type TranscribedPiece struct {
	node
	GivenID     string
	SuperLocus  *SuperLocus
	Transcribed *Transcribed
	Features    []*Feature
}

func (p *TranscribedPiece) Kind() Kind { return KindTranscribedPiece }

// Translated is a protein product, related many-to-many to transcripts and
// to the features delimiting its coding region.
type Translated struct {
	node
	GivenID      string
	SuperLocus   *SuperLocus
	Transcribeds []*Transcribed
	Features     []*Feature
}

func (tl *Translated) Kind() Kind { return KindTranslated }

// Feature is a positioned structural event: the type says which biological
// span it delimits and the bearing says whether it opens or closes that
// span at (Start, End) on the given sequence and strand. A non-zero Stream
// role makes the feature an endpoint of cross-piece UpDownPair links.
type Feature struct {
	node
	GivenID      string
	Type         FeatureType
	Bearing      Bearing
	Start        int64
	End          int64
	IsPlusStrand bool
	Coordinates  *Coordinates
	Phase        int8 // 0, 1, 2, or PhaseNone
	Score        float64
	Source       string
	Stream       StreamRole
	SuperLocus   *SuperLocus
	Pieces       []*TranscribedPiece
	Translateds  []*Translated
	Pairs        []*UpDownPair // populated only for stream features
}

// Kind returns the feature's node kind, which follows its stream role.
func (f *Feature) Kind() Kind {
	switch f.Stream {
	case StreamUpstream:
		return KindUpstreamFeature
	case StreamDownstream:
		return KindDownstreamFeature
	default:
		return KindFeature
	}
}

// PosKey is the strand-aware position key features are ordered and
// tie-grouped by. Two features are "positionally matched" when their keys
// are equal.
type PosKey struct {
	Seqid        string
	IsPlusStrand bool
	Start        int64
	End          int64
}

// PosKey returns the feature's position key.
func (f *Feature) PosKey() PosKey {
	key := PosKey{
		IsPlusStrand: f.IsPlusStrand,
		Start:        f.Start,
		End:          f.End,
	}
	if f.Coordinates != nil {
		key.Seqid = f.Coordinates.Seqid
	}
	return key
}

// UpDownPair joins two stream features of one transcript, representing
// continuity across a split: the Downstream feature sits on the piece being
// left, the Upstream feature on the piece that continues it.
type UpDownPair struct {
	node
	Upstream    *Feature
	Downstream  *Feature
	Transcribed *Transcribed
}

func (p *UpDownPair) Kind() Kind { return KindUpDownPair }
