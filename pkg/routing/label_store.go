package routing

import "github.com/paulmach/osm"

// labelStore per-query accumulated label sequence per vertex. Sequences are
// append-only: a run of unchanged labels shares one backing slice between
// consecutive vertices, a new label forces a copy before the append (full
// slice expression), so a shared prefix is never clobbered by a sibling
// branch of the search.
type labelStore struct {
	cons Constraints
	seqs map[int32][]Label
}

func newLabelStore(cons Constraints) *labelStore {
	return &labelStore{
		cons: cons,
		seqs: make(map[int32][]Label),
	}
}

// advance checks the label transition from cur onto an edge with the given
// tags and, when legal, records the resulting sequence for next. Reports
// false when the constraints forbid the transition. A nil-constraints store
// accepts everything.
func (ls *labelStore) advance(cur, next int32, tags osm.Tags) bool {
	if ls.cons == nil {
		return true
	}
	label := ls.cons.LabelFor(tags)
	seq := ls.seqs[cur]
	if n := len(seq); n > 0 && seq[n-1] == label {
		// unchanged-label run, share the sequence
		ls.seqs[next] = seq
		return true
	}
	if !ls.cons.ForwardSequenceAllowed(seq, label) {
		return false
	}
	ls.seqs[next] = append(seq[:len(seq):len(seq)], label)
	return true
}
