// Package interpret reconstructs the linear 5'->3' reading of a split
// transcript: it orders the transcript's pieces through their paired link
// records, stacks simultaneous features deterministically, and tracks the
// biological status (genic, coding, intronic, erroneous) along the ordered
// feature stream.
package interpret

import "github.com/inodb/genegraph/internal/annotation"

// Status is the transcript status machine's state: which spans are
// currently open, which coding landmarks have been seen, and the reading
// frame at the last coding boundary. It is a plain value, so a copy is an
// immutable snapshot.
type Status struct {
	Genic              bool
	InIntron           bool
	InTransIntron      bool
	InTranslatedRegion bool
	SeenStart          bool
	SeenStop           bool
	Erroneous          bool
	Phase              int8 // PhaseNone outside a coding region
}

// NewStatus returns the initial, intergenic status.
func NewStatus() Status {
	return Status{Phase: annotation.PhaseNone}
}

// Apply updates the status for one stacked feature group, feature by
// feature in group order.
func (s *Status) Apply(group []*annotation.Feature) error {
	for _, f := range group {
		if err := s.applyFeature(f); err != nil {
			return err
		}
	}
	return nil
}

// applyFeature is the transition table: feature type selects the tracked
// span, bearing selects open or close. Coding features additionally manage
// the start/stop landmarks and the phase.
func (s *Status) applyFeature(f *annotation.Feature) error {
	var open bool
	switch f.Bearing {
	case annotation.BearingStart, annotation.BearingOpenStatus:
		open = true
	case annotation.BearingEnd, annotation.BearingCloseStatus:
		open = false
	default:
		return annotation.Inconsistentf("unhandled bearing %q on feature %q", f.Bearing, f.GivenID)
	}

	switch f.Type {
	case annotation.TypeTranscribed:
		s.Genic = open
	case annotation.TypeCoding:
		if open {
			s.InTranslatedRegion = true
			s.SeenStart = true
			if f.Bearing == annotation.BearingStart {
				s.Phase = 0
			} else {
				s.Phase = f.Phase
			}
		} else {
			s.InTranslatedRegion = false
			if f.Bearing == annotation.BearingEnd {
				s.SeenStop = true
				s.Phase = annotation.PhaseNone
			}
		}
	case annotation.TypeIntron:
		s.InIntron = open
	case annotation.TypeTransIntron:
		s.InTransIntron = open
	case annotation.TypeError:
		s.Erroneous = open
	default:
		return annotation.Inconsistentf("unhandled feature type %q with bearing %q on feature %q",
			f.Type, f.Bearing, f.GivenID)
	}
	return nil
}

// IsIntergenic reports whether the position is outside any gene.
func (s Status) IsIntergenic() bool {
	return !s.Genic
}

// IsUTR reports whether the position is genic but neither translated nor
// within any intron.
func (s Status) IsUTR() bool {
	return s.Genic && !s.InIntron && !s.InTranslatedRegion && !s.InTransIntron
}

// Is5pUTR reports an untranslated region before any coding start.
func (s Status) Is5pUTR() bool {
	return s.IsUTR() && !s.SeenStart && !s.SeenStop
}

// Is3pUTR reports an untranslated region after a completed coding region.
func (s Status) Is3pUTR() bool {
	return s.IsUTR() && s.SeenStop && s.SeenStart
}

// IsCoding reports a translated, non-intronic genic position.
func (s Status) IsCoding() bool {
	return s.Genic && s.InTranslatedRegion && !s.InIntron && !s.InTransIntron
}

// IsIntronic reports a genic position inside a cis-spliced intron.
func (s Status) IsIntronic() bool {
	return s.InIntron && s.Genic
}

// IsTransIntronic reports a genic position inside a trans-spliced intron.
func (s Status) IsTransIntronic() bool {
	return s.InTransIntron && s.Genic
}
