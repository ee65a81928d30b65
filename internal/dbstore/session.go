package dbstore

import "github.com/NateMachoka/AirBnB-clone-v2/pkg/types"

// Pending operation kinds.
const (
	opUpsert = "upsert"
	opDelete = "delete"
)

// pendingOp is a change staged in the session until Save.
type pendingOp struct {
	op  string
	obj types.Model // private copy taken when the change was staged
}

// session holds staged changes in the order they were made. Reads merge
// them over the committed rows, so a change is visible before Save.
type session struct {
	pending []pendingOp
}

func (s *session) stage(op string, obj types.Model) {
	s.pending = append(s.pending, pendingOp{op: op, obj: types.Clone(obj)})
}

func (s *session) reset() {
	s.pending = nil
}

// lookup returns the last staged operation for key.
func (s *session) lookup(key string) (pendingOp, bool) {
	for i := len(s.pending) - 1; i >= 0; i-- {
		if types.Key(s.pending[i].obj) == key {
			return s.pending[i], true
		}
	}
	return pendingOp{}, false
}

// effective returns the operations Save must run: one per key, carrying the
// key's last staged state. An upsert runs at the position the key was
// first staged, so rows are written before anything staged after them
// that refers to them. A delete runs at its own position.
func (s *session) effective() []pendingOp {
	first := make(map[string]int)
	last := make(map[string]int)
	for i, p := range s.pending {
		key := types.Key(p.obj)
		if _, ok := first[key]; !ok {
			first[key] = i
		}
		last[key] = i
	}

	var out []pendingOp
	for i, p := range s.pending {
		key := types.Key(p.obj)
		final := s.pending[last[key]]
		switch {
		case final.op == opUpsert && i == first[key]:
			out = append(out, final)
		case final.op == opDelete && i == last[key]:
			out = append(out, p)
		}
	}
	return out
}

// apply replays staged operations on objects of the given classes over out.
// keep, when non-nil, decides whether an upserted object belongs in out.
func (s *session) apply(out map[string]types.Model, classes map[string]bool, keep func(types.Model) bool) {
	for _, p := range s.pending {
		if !classes[p.obj.ClassName()] {
			continue
		}
		key := types.Key(p.obj)
		if p.op == opDelete || (keep != nil && !keep(p.obj)) {
			delete(out, key)
			continue
		}
		out[key] = types.Clone(p.obj)
	}
}
