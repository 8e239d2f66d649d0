// Package store holds the record store backing the annotation graph: an
// in-memory registry with the subtype queries the interpreter needs,
// two-phase deletion (mark, then sweep-and-commit), a JSON locus loader,
// and a DuckDB persistence backend.
package store

import (
	"fmt"

	"github.com/inodb/genegraph/internal/annotation"
)

// Committer persists the effect of a deletion sweep. The sweep is not
// atomic across unrelated loci.
type Committer interface {
	CommitDelete(nodes []annotation.Node) error
}

// Memory is the in-process record registry. Writes to one locus subgraph
// must be serialized by the caller; concurrent reads are fine.
type Memory struct {
	nextID    int64
	nodes     map[annotation.Kind][]annotation.Node
	committer Committer
}

// NewMemory creates an empty store.
func NewMemory() *Memory {
	return &Memory{nodes: make(map[annotation.Kind][]annotation.Node)}
}

// SetCommitter attaches the persistence backend deletion sweeps commit to.
// Without one, sweeps are in-memory only.
func (m *Memory) SetCommitter(c Committer) {
	m.committer = c
}

// Add registers a record, assigning its identity if it has none yet.
func (m *Memory) Add(n annotation.Node) {
	if n.NodeID() == 0 {
		m.nextID++
		n.SetNodeID(m.nextID)
	} else if n.NodeID() > m.nextID {
		m.nextID = n.NodeID()
	}
	kind := n.Kind()
	m.nodes[kind] = append(m.nodes[kind], n)
}

// NodesOfKind returns all records of one kind. The returned slice is a copy.
func (m *Memory) NodesOfKind(kind annotation.Kind) []annotation.Node {
	nodes := m.nodes[kind]
	out := make([]annotation.Node, len(nodes))
	copy(out, nodes)
	return out
}

// FeaturesByStream returns every feature carrying the given stream role.
// This is the subtype query link resolution runs on.
func (m *Memory) FeaturesByStream(role annotation.StreamRole) []*annotation.Feature {
	var out []*annotation.Feature
	for _, kind := range []annotation.Kind{annotation.KindFeature, annotation.KindUpstreamFeature, annotation.KindDownstreamFeature} {
		for _, n := range m.nodes[kind] {
			if f, ok := n.(*annotation.Feature); ok && f.Stream == role {
				out = append(out, f)
			}
		}
	}
	return out
}

// NodeCount returns the total number of registered records.
func (m *Memory) NodeCount() int {
	count := 0
	for _, nodes := range m.nodes {
		count += len(nodes)
	}
	return count
}

// Delete removes a record from the registry. The record's graph links are
// untouched; callers de-link first if they need a clean graph.
func (m *Memory) Delete(n annotation.Node) {
	kind := n.Kind()
	nodes := m.nodes[kind]
	for i, candidate := range nodes {
		if candidate == n {
			m.nodes[kind] = append(nodes[:i], nodes[i+1:]...)
			return
		}
	}
}

// SweepLocus performs the second phase of deletion for one locus: every
// feature, transcript, and translation of the locus that was marked for
// deletion is dropped from the locus, removed from the registry, and the
// batch is committed.
func (m *Memory) SweepLocus(sl *annotation.SuperLocus) error {
	var doomed []annotation.Node
	for _, f := range sl.Features {
		if f.MarkedForDeletion() {
			doomed = append(doomed, f)
		}
	}
	for _, t := range sl.Transcribeds {
		if t.MarkedForDeletion() {
			doomed = append(doomed, t)
		}
	}
	for _, tl := range sl.Translateds {
		if tl.MarkedForDeletion() {
			doomed = append(doomed, tl)
		}
	}

	for _, n := range doomed {
		if err := sl.DeLink(n); err != nil {
			return fmt.Errorf("sweep locus %q: %w", sl.GivenID, err)
		}
		m.Delete(n)
	}

	if m.committer != nil && len(doomed) > 0 {
		if err := m.committer.CommitDelete(doomed); err != nil {
			return fmt.Errorf("commit sweep of locus %q: %w", sl.GivenID, err)
		}
	}
	return nil
}
