package annotation

import "slices"

// The link protocol maintains both sides of every relationship in one
// mutation, so reads are immediately consistent without any ORM-style
// backref machinery. Re-linking a record with a singular back-reference
// moves it: the old owner's collection is updated in the same call.
//
// Each kind's LinkTo/DeLink is a match expression over the closed target
// set declared in linkTargets; any other target kind fails with a
// LinkKindError, and de-linking an absent relationship fails with a
// NotLinkedError.

// removeOne removes the first occurrence of v from s, reporting whether it
// was present.
func removeOne[T comparable](s []T, v T) ([]T, bool) {
	i := slices.Index(s, v)
	if i < 0 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}

// appendMissing appends v unless already present, keeping many-to-many
// collections duplicate-free under repeated linking.
func appendMissing[T comparable](s []T, v T) []T {
	if slices.Contains(s, v) {
		return s
	}
	return append(s, v)
}

// --- genome <-> sequence region ---

func attachGenomeSequence(g *AnnotatedGenome, si *SequenceInfo) {
	if si.Genome != nil {
		si.Genome.SequenceInfos, _ = removeOne(si.Genome.SequenceInfos, si)
	}
	si.Genome = g
	g.SequenceInfos = appendMissing(g.SequenceInfos, si)
}

func detachGenomeSequence(g *AnnotatedGenome, si *SequenceInfo) bool {
	var ok bool
	g.SequenceInfos, ok = removeOne(g.SequenceInfos, si)
	if ok {
		si.Genome = nil
	}
	return ok
}

func (g *AnnotatedGenome) LinkTo(other Node) error {
	switch o := other.(type) {
	case *SequenceInfo:
		attachGenomeSequence(g, o)
		return nil
	default:
		return newLinkKindError(g, other)
	}
}

func (g *AnnotatedGenome) DeLink(other Node) error {
	switch o := other.(type) {
	case *SequenceInfo:
		if !detachGenomeSequence(g, o) {
			return notLinked(g, other)
		}
		return nil
	default:
		return newLinkKindError(g, other)
	}
}

// --- sequence region <-> locus ---

func attachSequenceLocus(si *SequenceInfo, sl *SuperLocus) {
	if sl.SequenceInfo != nil {
		sl.SequenceInfo.SuperLoci, _ = removeOne(sl.SequenceInfo.SuperLoci, sl)
	}
	sl.SequenceInfo = si
	si.SuperLoci = appendMissing(si.SuperLoci, sl)
}

func detachSequenceLocus(si *SequenceInfo, sl *SuperLocus) bool {
	var ok bool
	si.SuperLoci, ok = removeOne(si.SuperLoci, sl)
	if ok {
		sl.SequenceInfo = nil
	}
	return ok
}

func (si *SequenceInfo) LinkTo(other Node) error {
	switch o := other.(type) {
	case *AnnotatedGenome:
		attachGenomeSequence(o, si)
		return nil
	case *SuperLocus:
		attachSequenceLocus(si, o)
		return nil
	default:
		return newLinkKindError(si, other)
	}
}

func (si *SequenceInfo) DeLink(other Node) error {
	switch o := other.(type) {
	case *AnnotatedGenome:
		if !detachGenomeSequence(o, si) {
			return notLinked(si, other)
		}
		return nil
	case *SuperLocus:
		if !detachSequenceLocus(si, o) {
			return notLinked(si, other)
		}
		return nil
	default:
		return newLinkKindError(si, other)
	}
}

// --- locus <-> transcript / translation / feature ---

func attachLocusTranscribed(sl *SuperLocus, t *Transcribed) {
	if t.SuperLocus != nil {
		t.SuperLocus.Transcribeds, _ = removeOne(t.SuperLocus.Transcribeds, t)
	}
	t.SuperLocus = sl
	sl.Transcribeds = appendMissing(sl.Transcribeds, t)
}

func detachLocusTranscribed(sl *SuperLocus, t *Transcribed) bool {
	var ok bool
	sl.Transcribeds, ok = removeOne(sl.Transcribeds, t)
	if ok {
		t.SuperLocus = nil
	}
	return ok
}

func attachLocusTranslated(sl *SuperLocus, tl *Translated) {
	if tl.SuperLocus != nil {
		tl.SuperLocus.Translateds, _ = removeOne(tl.SuperLocus.Translateds, tl)
	}
	tl.SuperLocus = sl
	sl.Translateds = appendMissing(sl.Translateds, tl)
}

func detachLocusTranslated(sl *SuperLocus, tl *Translated) bool {
	var ok bool
	sl.Translateds, ok = removeOne(sl.Translateds, tl)
	if ok {
		tl.SuperLocus = nil
	}
	return ok
}

func attachLocusFeature(sl *SuperLocus, f *Feature) {
	if f.SuperLocus != nil {
		f.SuperLocus.Features, _ = removeOne(f.SuperLocus.Features, f)
	}
	f.SuperLocus = sl
	sl.Features = appendMissing(sl.Features, f)
}

func detachLocusFeature(sl *SuperLocus, f *Feature) bool {
	var ok bool
	sl.Features, ok = removeOne(sl.Features, f)
	if ok {
		f.SuperLocus = nil
	}
	return ok
}

func (sl *SuperLocus) LinkTo(other Node) error {
	switch o := other.(type) {
	case *SequenceInfo:
		attachSequenceLocus(o, sl)
		return nil
	case *Transcribed:
		attachLocusTranscribed(sl, o)
		return nil
	case *Translated:
		attachLocusTranslated(sl, o)
		return nil
	case *Feature:
		attachLocusFeature(sl, o)
		return nil
	default:
		return newLinkKindError(sl, other)
	}
}

func (sl *SuperLocus) DeLink(other Node) error {
	switch o := other.(type) {
	case *SequenceInfo:
		if !detachSequenceLocus(o, sl) {
			return notLinked(sl, other)
		}
		return nil
	case *Transcribed:
		if !detachLocusTranscribed(sl, o) {
			return notLinked(sl, other)
		}
		return nil
	case *Translated:
		if !detachLocusTranslated(sl, o) {
			return notLinked(sl, other)
		}
		return nil
	case *Feature:
		if !detachLocusFeature(sl, o) {
			return notLinked(sl, other)
		}
		return nil
	default:
		return newLinkKindError(sl, other)
	}
}

// --- transcript <-> piece / pair / translation ---

func attachTranscribedPiece(t *Transcribed, p *TranscribedPiece) {
	if p.Transcribed != nil {
		p.Transcribed.Pieces, _ = removeOne(p.Transcribed.Pieces, p)
	}
	p.Transcribed = t
	t.Pieces = appendMissing(t.Pieces, p)
}

func detachTranscribedPiece(t *Transcribed, p *TranscribedPiece) bool {
	var ok bool
	t.Pieces, ok = removeOne(t.Pieces, p)
	if ok {
		p.Transcribed = nil
	}
	return ok
}

func attachTranscribedPair(t *Transcribed, pair *UpDownPair) {
	if pair.Transcribed != nil {
		pair.Transcribed.Pairs, _ = removeOne(pair.Transcribed.Pairs, pair)
	}
	pair.Transcribed = t
	t.Pairs = appendMissing(t.Pairs, pair)
}

func detachTranscribedPair(t *Transcribed, pair *UpDownPair) bool {
	var ok bool
	t.Pairs, ok = removeOne(t.Pairs, pair)
	if ok {
		pair.Transcribed = nil
	}
	return ok
}

func attachTranscribedTranslated(t *Transcribed, tl *Translated) {
	t.Translateds = appendMissing(t.Translateds, tl)
	tl.Transcribeds = appendMissing(tl.Transcribeds, t)
}

func detachTranscribedTranslated(t *Transcribed, tl *Translated) bool {
	var ok bool
	t.Translateds, ok = removeOne(t.Translateds, tl)
	if ok {
		tl.Transcribeds, _ = removeOne(tl.Transcribeds, t)
	}
	return ok
}

func (t *Transcribed) LinkTo(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		attachLocusTranscribed(o, t)
		return nil
	case *TranscribedPiece:
		attachTranscribedPiece(t, o)
		return nil
	case *UpDownPair:
		attachTranscribedPair(t, o)
		return nil
	case *Translated:
		attachTranscribedTranslated(t, o)
		return nil
	default:
		return newLinkKindError(t, other)
	}
}

func (t *Transcribed) DeLink(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		if !detachLocusTranscribed(o, t) {
			return notLinked(t, other)
		}
		return nil
	case *TranscribedPiece:
		if !detachTranscribedPiece(t, o) {
			return notLinked(t, other)
		}
		return nil
	case *UpDownPair:
		if !detachTranscribedPair(t, o) {
			return notLinked(t, other)
		}
		return nil
	case *Translated:
		if !detachTranscribedTranslated(t, o) {
			return notLinked(t, other)
		}
		return nil
	default:
		return newLinkKindError(t, other)
	}
}

// --- piece <-> feature, piece -> locus ---

func attachFeaturePiece(f *Feature, p *TranscribedPiece) {
	p.Features = appendMissing(p.Features, f)
	f.Pieces = appendMissing(f.Pieces, p)
}

func detachFeaturePiece(f *Feature, p *TranscribedPiece) bool {
	var ok bool
	p.Features, ok = removeOne(p.Features, f)
	if ok {
		f.Pieces, _ = removeOne(f.Pieces, p)
	}
	return ok
}

func (p *TranscribedPiece) LinkTo(other Node) error {
	switch o := other.(type) {
	case *Transcribed:
		attachTranscribedPiece(o, p)
		return nil
	case *SuperLocus:
		// The locus keeps no piece collection; only the singular
		// reference moves.
		p.SuperLocus = o
		return nil
	case *Feature:
		attachFeaturePiece(o, p)
		return nil
	default:
		return newLinkKindError(p, other)
	}
}

func (p *TranscribedPiece) DeLink(other Node) error {
	switch o := other.(type) {
	case *Transcribed:
		if !detachTranscribedPiece(o, p) {
			return notLinked(p, other)
		}
		return nil
	case *SuperLocus:
		if p.SuperLocus != o {
			return notLinked(p, other)
		}
		p.SuperLocus = nil
		return nil
	case *Feature:
		if !detachFeaturePiece(o, p) {
			return notLinked(p, other)
		}
		return nil
	default:
		return newLinkKindError(p, other)
	}
}

// --- translation <-> feature ---

func attachFeatureTranslated(f *Feature, tl *Translated) {
	tl.Features = appendMissing(tl.Features, f)
	f.Translateds = appendMissing(f.Translateds, tl)
}

func detachFeatureTranslated(f *Feature, tl *Translated) bool {
	var ok bool
	tl.Features, ok = removeOne(tl.Features, f)
	if ok {
		f.Translateds, _ = removeOne(f.Translateds, tl)
	}
	return ok
}

func (tl *Translated) LinkTo(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		attachLocusTranslated(o, tl)
		return nil
	case *Transcribed:
		attachTranscribedTranslated(o, tl)
		return nil
	case *Feature:
		attachFeatureTranslated(o, tl)
		return nil
	default:
		return newLinkKindError(tl, other)
	}
}

func (tl *Translated) DeLink(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		if !detachLocusTranslated(o, tl) {
			return notLinked(tl, other)
		}
		return nil
	case *Transcribed:
		if !detachTranscribedTranslated(o, tl) {
			return notLinked(tl, other)
		}
		return nil
	case *Feature:
		if !detachFeatureTranslated(o, tl) {
			return notLinked(tl, other)
		}
		return nil
	default:
		return newLinkKindError(tl, other)
	}
}

// --- feature <-> pair (stream subtypes only) ---

func attachPairStream(pair *UpDownPair, f *Feature) {
	switch f.Stream {
	case StreamUpstream:
		if pair.Upstream != nil {
			pair.Upstream.Pairs, _ = removeOne(pair.Upstream.Pairs, pair)
		}
		pair.Upstream = f
	case StreamDownstream:
		if pair.Downstream != nil {
			pair.Downstream.Pairs, _ = removeOne(pair.Downstream.Pairs, pair)
		}
		pair.Downstream = f
	}
	f.Pairs = appendMissing(f.Pairs, pair)
}

func detachPairStream(pair *UpDownPair, f *Feature) bool {
	switch f.Stream {
	case StreamUpstream:
		if pair.Upstream != f {
			return false
		}
		pair.Upstream = nil
	case StreamDownstream:
		if pair.Downstream != f {
			return false
		}
		pair.Downstream = nil
	default:
		return false
	}
	f.Pairs, _ = removeOne(f.Pairs, pair)
	return true
}

func (f *Feature) LinkTo(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		attachLocusFeature(o, f)
		return nil
	case *TranscribedPiece:
		attachFeaturePiece(f, o)
		return nil
	case *Translated:
		attachFeatureTranslated(f, o)
		return nil
	case *UpDownPair:
		if f.Stream == StreamNone {
			return newLinkKindError(f, other)
		}
		attachPairStream(o, f)
		return nil
	default:
		return newLinkKindError(f, other)
	}
}

func (f *Feature) DeLink(other Node) error {
	switch o := other.(type) {
	case *SuperLocus:
		if !detachLocusFeature(o, f) {
			return notLinked(f, other)
		}
		return nil
	case *TranscribedPiece:
		if !detachFeaturePiece(f, o) {
			return notLinked(f, other)
		}
		return nil
	case *Translated:
		if !detachFeatureTranslated(f, o) {
			return notLinked(f, other)
		}
		return nil
	case *UpDownPair:
		if f.Stream == StreamNone {
			return newLinkKindError(f, other)
		}
		if !detachPairStream(o, f) {
			return notLinked(f, other)
		}
		return nil
	default:
		return newLinkKindError(f, other)
	}
}

func (pair *UpDownPair) LinkTo(other Node) error {
	switch o := other.(type) {
	case *Transcribed:
		attachTranscribedPair(o, pair)
		return nil
	case *Feature:
		if o.Stream == StreamNone {
			return newLinkKindError(pair, other)
		}
		attachPairStream(pair, o)
		return nil
	default:
		return newLinkKindError(pair, other)
	}
}

func (pair *UpDownPair) DeLink(other Node) error {
	switch o := other.(type) {
	case *Transcribed:
		if !detachTranscribedPair(o, pair) {
			return notLinked(pair, other)
		}
		return nil
	case *Feature:
		if o.Stream == StreamNone {
			return newLinkKindError(pair, other)
		}
		if !detachPairStream(pair, o) {
			return notLinked(pair, other)
		}
		return nil
	default:
		return newLinkKindError(pair, other)
	}
}
