package annotation

import "slices"

// Attribute copying works off per-kind accessor tables rather than
// reflection: the closed kind set makes every copyable scalar explicit, and
// identity plus relationship fields are excluded by never appearing in a
// table. The tables are initialized once and never mutated.

type attrAccessor struct {
	get func(Node) any
	set func(Node, any)
}

// featureAttrs is shared by Feature and its stream subtypes.
var featureAttrs = map[string]attrAccessor{
	"given_id": {
		get: func(n Node) any { return n.(*Feature).GivenID },
		set: func(n Node, v any) { n.(*Feature).GivenID = v.(string) },
	},
	"type": {
		get: func(n Node) any { return n.(*Feature).Type },
		set: func(n Node, v any) { n.(*Feature).Type = v.(FeatureType) },
	},
	"bearing": {
		get: func(n Node) any { return n.(*Feature).Bearing },
		set: func(n Node, v any) { n.(*Feature).Bearing = v.(Bearing) },
	},
	"start": {
		get: func(n Node) any { return n.(*Feature).Start },
		set: func(n Node, v any) { n.(*Feature).Start = v.(int64) },
	},
	"end": {
		get: func(n Node) any { return n.(*Feature).End },
		set: func(n Node, v any) { n.(*Feature).End = v.(int64) },
	},
	"is_plus_strand": {
		get: func(n Node) any { return n.(*Feature).IsPlusStrand },
		set: func(n Node, v any) { n.(*Feature).IsPlusStrand = v.(bool) },
	},
	"coordinates": {
		get: func(n Node) any { return n.(*Feature).Coordinates },
		set: func(n Node, v any) { n.(*Feature).Coordinates = v.(*Coordinates) },
	},
	"phase": {
		get: func(n Node) any { return n.(*Feature).Phase },
		set: func(n Node, v any) { n.(*Feature).Phase = v.(int8) },
	},
	"score": {
		get: func(n Node) any { return n.(*Feature).Score },
		set: func(n Node, v any) { n.(*Feature).Score = v.(float64) },
	},
	"source": {
		get: func(n Node) any { return n.(*Feature).Source },
		set: func(n Node, v any) { n.(*Feature).Source = v.(string) },
	},
}

var attrTables = map[Kind]map[string]attrAccessor{
	KindAnnotatedGenome: {
		"species": {
			get: func(n Node) any { return n.(*AnnotatedGenome).Species },
			set: func(n Node, v any) { n.(*AnnotatedGenome).Species = v.(string) },
		},
		"accession": {
			get: func(n Node) any { return n.(*AnnotatedGenome).Accession },
			set: func(n Node, v any) { n.(*AnnotatedGenome).Accession = v.(string) },
		},
		"version": {
			get: func(n Node) any { return n.(*AnnotatedGenome).Version },
			set: func(n Node, v any) { n.(*AnnotatedGenome).Version = v.(string) },
		},
		"acquired_from": {
			get: func(n Node) any { return n.(*AnnotatedGenome).AcquiredFrom },
			set: func(n Node, v any) { n.(*AnnotatedGenome).AcquiredFrom = v.(string) },
		},
	},
	KindSequenceInfo: {},
	KindSuperLocus: {
		"given_id": {
			get: func(n Node) any { return n.(*SuperLocus).GivenID },
			set: func(n Node, v any) { n.(*SuperLocus).GivenID = v.(string) },
		},
		"type": {
			get: func(n Node) any { return n.(*SuperLocus).Type },
			set: func(n Node, v any) { n.(*SuperLocus).Type = v.(string) },
		},
	},
	KindTranscribed: {
		"given_id": {
			get: func(n Node) any { return n.(*Transcribed).GivenID },
			set: func(n Node, v any) { n.(*Transcribed).GivenID = v.(string) },
		},
		"type": {
			get: func(n Node) any { return n.(*Transcribed).Type },
			set: func(n Node, v any) { n.(*Transcribed).Type = v.(string) },
		},
	},
	KindTranscribedPiece: {
		"given_id": {
			get: func(n Node) any { return n.(*TranscribedPiece).GivenID },
			set: func(n Node, v any) { n.(*TranscribedPiece).GivenID = v.(string) },
		},
	},
	KindTranslated: {
		"given_id": {
			get: func(n Node) any { return n.(*Translated).GivenID },
			set: func(n Node, v any) { n.(*Translated).GivenID = v.(string) },
		},
	},
	KindFeature:           featureAttrs,
	KindUpstreamFeature:   featureAttrs,
	KindDownstreamFeature: featureAttrs,
	KindUpDownPair:        {},
}

// relationNames lists, per kind, the relationship fields; naming one in a
// copy include list is a programming error, as is naming "id".
var relationNames = map[Kind][]string{
	KindAnnotatedGenome:   {"sequence_infos"},
	KindSequenceInfo:      {"annotated_genome", "super_loci"},
	KindSuperLocus:        {"sequence_info", "transcribeds", "translateds", "features"},
	KindTranscribed:       {"super_locus", "transcribed_pieces", "translateds", "pairs"},
	KindTranscribedPiece:  {"super_locus", "transcribed", "features"},
	KindTranslated:        {"super_locus", "transcribeds", "features"},
	KindFeature:           {"super_locus", "transcribed_pieces", "translateds"},
	KindUpstreamFeature:   {"super_locus", "transcribed_pieces", "translateds", "pairs"},
	KindDownstreamFeature: {"super_locus", "transcribed_pieces", "translateds", "pairs"},
	KindUpDownPair:        {"upstream", "downstream", "transcribed"},
}

// copyableAttrs and linkableRelations fix the defaults DuplicateInto works
// from, mirroring which fields travel with a structural clone.
var copyableAttrs = map[Kind][]string{
	KindSuperLocus:        {"given_id", "type"},
	KindTranscribed:       {"given_id", "type"},
	KindTranscribedPiece:  {"given_id"},
	KindTranslated:        {"given_id"},
	KindFeature:           {"given_id", "type", "bearing", "start", "end", "coordinates", "is_plus_strand", "score", "source", "phase"},
	KindUpstreamFeature:   {"given_id", "type", "bearing", "start", "end", "coordinates", "is_plus_strand", "score", "source", "phase"},
	KindDownstreamFeature: {"given_id", "type", "bearing", "start", "end", "coordinates", "is_plus_strand", "score", "source", "phase"},
}

var linkableRelations = map[Kind][]string{
	KindTranscribed:       {"super_locus", "transcribed_pieces", "translateds"},
	KindTranscribedPiece:  {"super_locus", "features", "transcribed"},
	KindTranslated:        {"super_locus", "features", "transcribeds"},
	KindFeature:           {"super_locus", "transcribed_pieces", "translateds"},
	KindUpstreamFeature:   {"super_locus", "transcribed_pieces", "translateds", "pairs"},
	KindDownstreamFeature: {"super_locus", "transcribed_pieces", "translateds", "pairs"},
	KindUpDownPair:        {"upstream", "transcribed", "downstream"},
}

// CopyableAttrs returns the default attribute set a structural clone copies
// for the given kind.
func CopyableAttrs(k Kind) []string {
	return slices.Clone(copyableAttrs[k])
}

// LinkableRelations returns the default relation set a structural clone
// re-links for the given kind.
func LinkableRelations(k Kind) []string {
	return slices.Clone(linkableRelations[k])
}

// relatedNodes resolves a named relationship of n into the related nodes.
// Singular relations yield zero or one node.
func relatedNodes(n Node, relation string) ([]Node, bool) {
	switch rec := n.(type) {
	case *AnnotatedGenome:
		if relation == "sequence_infos" {
			return toNodes(rec.SequenceInfos), true
		}
	case *SequenceInfo:
		switch relation {
		case "annotated_genome":
			return singular(rec.Genome), true
		case "super_loci":
			return toNodes(rec.SuperLoci), true
		}
	case *SuperLocus:
		switch relation {
		case "sequence_info":
			return singular(rec.SequenceInfo), true
		case "transcribeds":
			return toNodes(rec.Transcribeds), true
		case "translateds":
			return toNodes(rec.Translateds), true
		case "features":
			return toNodes(rec.Features), true
		}
	case *Transcribed:
		switch relation {
		case "super_locus":
			return singular(rec.SuperLocus), true
		case "transcribed_pieces":
			return toNodes(rec.Pieces), true
		case "translateds":
			return toNodes(rec.Translateds), true
		case "pairs":
			return toNodes(rec.Pairs), true
		}
	case *TranscribedPiece:
		switch relation {
		case "super_locus":
			return singular(rec.SuperLocus), true
		case "transcribed":
			return singular(rec.Transcribed), true
		case "features":
			return toNodes(rec.Features), true
		}
	case *Translated:
		switch relation {
		case "super_locus":
			return singular(rec.SuperLocus), true
		case "transcribeds":
			return toNodes(rec.Transcribeds), true
		case "features":
			return toNodes(rec.Features), true
		}
	case *Feature:
		switch relation {
		case "super_locus":
			return singular(rec.SuperLocus), true
		case "transcribed_pieces":
			return toNodes(rec.Pieces), true
		case "translateds":
			return toNodes(rec.Translateds), true
		case "pairs":
			if rec.Stream != StreamNone {
				return toNodes(rec.Pairs), true
			}
		}
	case *UpDownPair:
		switch relation {
		case "upstream":
			return singular(rec.Upstream), true
		case "downstream":
			return singular(rec.Downstream), true
		case "transcribed":
			return singular(rec.Transcribed), true
		}
	}
	return nil, false
}

func toNodes[T Node](records []T) []Node {
	out := make([]Node, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

// singular wraps an optional pointer relation; a nil pointer resolves to no
// nodes. The typed-nil check matters because the pointer arrives as an
// interface value.
func singular[T Node](rec T) []Node {
	var zero T
	if any(rec) == any(zero) {
		return nil
	}
	return []Node{rec}
}

// CopyAttributes copies scalar/composite attributes from src to dst.
// A nil include selects every copyable attribute of src's kind; exclude
// removes names from that set. Identity and relationship fields are never
// copied, and naming one (or an unknown attribute) in an explicit include
// fails with an AttributeSelectionError.
func CopyAttributes(src, dst Node, include, exclude []string) error {
	srcTable := attrTables[src.Kind()]
	dstTable := attrTables[dst.Kind()]

	var selected []string
	if include == nil {
		selected = make([]string, 0, len(srcTable))
		for name := range srcTable {
			selected = append(selected, name)
		}
		slices.Sort(selected)
	} else {
		for _, name := range include {
			if err := checkSelectable(src.Kind(), name, srcTable); err != nil {
				return err
			}
		}
		selected = slices.Clone(include)
	}

	for _, name := range selected {
		if exclude != nil && slices.Contains(exclude, name) {
			continue
		}
		srcAcc := srcTable[name]
		dstAcc, ok := dstTable[name]
		if !ok {
			return &AttributeSelectionError{Kind: dst.Kind(), Attribute: name, Reason: "target kind has no such attribute"}
		}
		dstAcc.set(dst, srcAcc.get(src))
	}
	return nil
}

func checkSelectable(k Kind, name string, table map[string]attrAccessor) error {
	if name == "id" {
		return &AttributeSelectionError{Kind: k, Attribute: name, Reason: "identity is never copied"}
	}
	if slices.Contains(relationNames[k], name) {
		return &AttributeSelectionError{Kind: k, Attribute: name, Reason: "relationship fields are never copied"}
	}
	if _, ok := table[name]; !ok {
		return &AttributeSelectionError{Kind: k, Attribute: name, Reason: "unknown attribute"}
	}
	return nil
}

// CopyRelationships links dst to every node src relates to through the
// named relations, sharing the related records rather than deep-copying
// them. For a relation whose reverse side is a singular reference (a piece's
// transcript, a pair's slot) the link moves the record to dst.
func CopyRelationships(src, dst Node, relations []string) error {
	for _, relation := range relations {
		nodes, ok := relatedNodes(src, relation)
		if !ok {
			return &AttributeSelectionError{Kind: src.Kind(), Attribute: relation, Reason: "unknown relationship"}
		}
		// Linking may re-point records out of src's own collection;
		// relatedNodes returned a snapshot, so the walk stays complete.
		for _, n := range nodes {
			if err := dst.LinkTo(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReplaceRelationships transfers the named relations from src to
// replacement: each related node is de-linked from src and linked to
// replacement.
func ReplaceRelationships(src, replacement Node, relations []string) error {
	for _, relation := range relations {
		nodes, ok := relatedNodes(src, relation)
		if !ok {
			return &AttributeSelectionError{Kind: src.Kind(), Attribute: relation, Reason: "unknown relationship"}
		}
		for _, n := range nodes {
			if err := src.DeLink(n); err != nil {
				return err
			}
			if err := replacement.LinkTo(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// DuplicateInto makes dst a structural clone of src: the kind's copyable
// attributes minus skipCopy, then the kind's linkable relations minus
// skipLink. Downstream records end up shared, not duplicated.
func DuplicateInto(src, dst Node, skipCopy, skipLink []string) error {
	attrs := CopyableAttrs(src.Kind())
	if skipCopy != nil {
		attrs = slices.DeleteFunc(attrs, func(name string) bool {
			return slices.Contains(skipCopy, name)
		})
	}
	relations := LinkableRelations(src.Kind())
	if skipLink != nil {
		relations = slices.DeleteFunc(relations, func(name string) bool {
			return slices.Contains(skipLink, name)
		})
	}
	if err := CopyAttributes(src, dst, attrs, nil); err != nil {
		return err
	}
	return CopyRelationships(src, dst, relations)
}
