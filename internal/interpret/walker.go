package interpret

import "github.com/inodb/genegraph/internal/annotation"

// Step is one element of the transition stream: a stacked feature group,
// the status snapshot taken after applying the group, and the piece the
// group came from. Status is a value copy; mutating it cannot reach the
// walker's state.
type Step struct {
	Features []*annotation.Feature
	Status   Status
	Piece    *annotation.TranscribedPiece
}

// Walker is the pull-based cursor over a transcript's 5'->3' transition
// stream. It is finite and non-restartable: Next computes one step on
// demand and returns nil once the stream is exhausted. The cursor state is
// the current piece index, the group index within that piece, and the
// status machine.
type Walker struct {
	interp    *Interpreter
	pieces    []*annotation.TranscribedPiece
	groups    [][]*annotation.Feature
	hasGroups bool
	pieceIdx  int
	groupIdx  int
	status    Status
	started   bool
	done      bool
}

// Transition5pTo3p starts a walk over the transcript: one step per stacked
// feature group, in piece order.
func (ti *Interpreter) Transition5pTo3p() *Walker {
	return &Walker{interp: ti, status: NewStatus()}
}

// Next returns the next step, or nil when the stream is exhausted. A
// structural or linkage fault ends the stream and is returned; subsequent
// calls return nil.
func (w *Walker) Next() (*Step, error) {
	if w.done {
		return nil, nil
	}
	if !w.started {
		pieces, err := w.interp.SortPieces()
		if err != nil {
			w.done = true
			return nil, err
		}
		w.pieces = pieces
		w.started = true
	}

	for {
		if w.pieceIdx >= len(w.pieces) {
			w.done = true
			return nil, nil
		}
		if !w.hasGroups {
			features, err := SortedFeatures(w.pieces[w.pieceIdx])
			if err != nil {
				w.done = true
				return nil, err
			}
			groups, err := FullStack(features)
			if err != nil {
				w.done = true
				return nil, err
			}
			w.groups = groups
			w.hasGroups = true
			w.groupIdx = 0
		}
		if w.groupIdx >= len(w.groups) {
			w.pieceIdx++
			w.groups = nil
			w.hasGroups = false
			continue
		}

		group := w.groups[w.groupIdx]
		w.groupIdx++
		if err := w.status.Apply(group); err != nil {
			w.done = true
			return nil, err
		}
		return &Step{
			Features: group,
			Status:   w.status,
			Piece:    w.pieces[w.pieceIdx],
		}, nil
	}
}
