package dom

import "sort"

// registry is the shared dispatcher for one event kind. Many engine
// instances (dismiss detectors, traps, gesture detectors) observe the same
// document-level event source; each holds a slot here and filters by its own
// container or exclude list. One registry per event kind replaces N
// independent host listeners.
type registry[E any] struct {
	seq  int
	subs map[int]func(E)
}

func newRegistry[E any]() *registry[E] {
	return &registry[E]{subs: make(map[int]func(E))}
}

// subscribe registers fn and returns its cancel function. Cancel is
// idempotent.
func (r *registry[E]) subscribe(fn func(E)) func() {
	r.seq++
	id := r.seq
	r.subs[id] = fn
	return func() { delete(r.subs, id) }
}

// emit delivers ev to every live subscriber in subscription order. The
// subscriber set is snapshotted first so a handler may subscribe or cancel
// (itself included) during delivery; handlers canceled mid-emit are skipped.
func (r *registry[E]) emit(ev E) {
	if len(r.subs) == 0 {
		return
	}
	ids := make([]int, 0, len(r.subs))
	for id := range r.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := r.subs[id]; ok {
			fn(ev)
		}
	}
}

// len returns the number of live subscribers.
func (r *registry[E]) size() int {
	return len(r.subs)
}
