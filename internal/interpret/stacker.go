package interpret

import (
	"slices"
	"sort"

	"github.com/inodb/genegraph/internal/annotation"
)

// SortedFeatures returns a piece's features in strand-aware 5'->3' order:
// ascending position on the plus strand, descending on the minus strand.
// All features of a piece must share one sequence and one strand; a
// mismatch is a structural fault in the input data.
func SortedFeatures(piece *annotation.TranscribedPiece) ([]*annotation.Feature, error) {
	features := piece.Features
	if len(features) == 0 {
		return nil, nil
	}

	first := features[0]
	for _, f := range features {
		if f.Coordinates != first.Coordinates {
			return nil, annotation.Inconsistentf(
				"features of piece %q span multiple sequences (%q vs %q)",
				piece.GivenID, seqidOf(first), seqidOf(f))
		}
		if f.IsPlusStrand != first.IsPlusStrand {
			return nil, annotation.Inconsistentf(
				"features of piece %q mix strands", piece.GivenID)
		}
	}

	sorted := slices.Clone(features)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})
	if !first.IsPlusStrand {
		slices.Reverse(sorted)
	}
	return sorted, nil
}

func seqidOf(f *annotation.Feature) string {
	if f.Coordinates == nil {
		return ""
	}
	return f.Coordinates.Seqid
}

// PositionalMatch reports whether two features share the strand-aware
// position key and thus belong to one positional stack.
func PositionalMatch(a, b *annotation.Feature) bool {
	return a.PosKey() == b.PosKey()
}

// BearingMatch reports whether two features share a bearing.
func BearingMatch(a, b *annotation.Feature) bool {
	return a.Bearing == b.Bearing
}

// stackMatches groups consecutive features for which match holds against
// the previous feature.
func stackMatches(features []*annotation.Feature, match func(a, b *annotation.Feature) bool) [][]*annotation.Feature {
	var stacks [][]*annotation.Feature
	var current []*annotation.Feature
	for _, f := range features {
		if len(current) > 0 && !match(f, current[len(current)-1]) {
			stacks = append(stacks, current)
			current = nil
		}
		current = append(current, f)
	}
	if len(current) > 0 {
		stacks = append(stacks, current)
	}
	return stacks
}

// sortByBearing orders a positional stack highest bearing priority first,
// so simultaneous opens are processed before the closes sharing their
// coordinate. Whether a close-and-reopen at one coordinate should instead
// be visited close-first is unsettled biology; the order here preserves the
// long-standing behavior.
func sortByBearing(stack []*annotation.Feature) ([]*annotation.Feature, error) {
	for _, f := range stack {
		if _, ok := annotation.BearingPriority(f.Bearing); !ok {
			return nil, annotation.Inconsistentf("unknown bearing %q on feature %q", f.Bearing, f.GivenID)
		}
	}
	sorted := slices.Clone(stack)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, _ := annotation.BearingPriority(sorted[i].Bearing)
		pj, _ := annotation.BearingPriority(sorted[j].Bearing)
		return pi > pj
	})
	return sorted, nil
}

// FullStack converts position-ordered features into the emitted feature
// groups: consecutive features at one position form a stack, the stack is
// ordered by bearing priority, and runs of identical bearing become the
// final groups. Every feature lands in exactly one group.
func FullStack(features []*annotation.Feature) ([][]*annotation.Feature, error) {
	var groups [][]*annotation.Feature
	for _, positional := range stackMatches(features, PositionalMatch) {
		byPriority, err := sortByBearing(positional)
		if err != nil {
			return nil, err
		}
		groups = append(groups, stackMatches(byPriority, BearingMatch)...)
	}
	return groups, nil
}
