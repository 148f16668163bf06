// Package blockstructure implements the two-sequence block-based priority
// structure of spec §4.3 ("Lemma 3.3"): a sorted-by-value container that
// supports ordinary insertion, batch-prepend of items known to be smaller
// than everything currently stored, and bounded extraction of the M
// smallest items along with a separator value bounding the remainder from
// below.
//
// A Structure is not safe for concurrent use; like the rest of the CORE, it
// assumes a single-threaded, non-suspending caller (spec §5).
package blockstructure

import (
	"container/heap"
	"sort"
)

// Key identifies a stored entry. Callers of this package typically pass
// graph vertex IDs converted to Key.
type Key int64

// Value is the value associated with a Key; smaller values sort first.
type Value float64

// Pair is a key/value pair, used by BatchPrepend.
type Pair struct {
	Key   Key
	Value Value
}

// PreconditionViolation is the typed panic value for fatal programmer
// errors: constructing a Structure with M < 1, or calling BatchPrepend with
// a pair whose value is not strictly less than the current minimum (spec
// §7).
type PreconditionViolation struct {
	Reason string
}

func (e PreconditionViolation) Error() string { return "blockstructure: " + e.Reason }

// entry is one (key, value) pair stored inside a block.
type entry struct {
	key   Key
	value Value
}

func lessEntry(a, b entry) bool {
	if a.value != b.value {
		return a.value < b.value
	}
	return a.key < b.key
}

// block is an ordered (by value, then key) collection of up to M entries.
type block struct {
	items []entry
	// bound is this block's upper bound. Only meaningful for D1 blocks;
	// unused for D0 blocks (whose values are globally smaller than all
	// D1 values by construction).
	bound Value
}

func newBlock() *block { return &block{} }

func (b *block) size() int { return len(b.items) }

func (b *block) min() (Value, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	return b.items[0].value, true
}

func (b *block) max() (Value, bool) {
	if len(b.items) == 0 {
		return 0, false
	}
	return b.items[len(b.items)-1].value, true
}

// insertSorted inserts e keeping b.items sorted by (value, key).
func (b *block) insertSorted(e entry) {
	i := sort.Search(len(b.items), func(i int) bool {
		return lessEntry(e, b.items[i]) || b.items[i] == e
	})
	b.items = append(b.items, entry{})
	copy(b.items[i+1:], b.items[i:])
	b.items[i] = e
}

// removeKey removes key from b if present, returning whether it was found.
func (b *block) removeKey(k Key) bool {
	for i, e := range b.items {
		if e.key == k {
			b.items = append(b.items[:i], b.items[i+1:]...)
			return true
		}
	}
	return false
}

// descriptor is the key_map entry: a key's current value, owning block, and
// whether that block lives in D0.
type descriptor struct {
	value Value
	blk   *block
	inD0  bool
}

// Structure is the Lemma 3.3 block structure.
type Structure struct {
	m int
	b Value

	d0 []*block // left to right; leftmost holds the smallest values
	d1 []*block // left to right; bounds non-decreasing

	keyMap map[Key]descriptor
}

// New constructs an empty Structure with block-size target m and global
// upper bound b. Panics with PreconditionViolation if m < 1 (spec §7).
func New(m int, b Value) *Structure {
	if m < 1 {
		panic(PreconditionViolation{Reason: "M must be >= 1"})
	}
	s := &Structure{
		m:      m,
		b:      b,
		keyMap: make(map[Key]descriptor),
	}
	s.d1 = []*block{{bound: b}}
	return s
}

// d1Bounds returns the current D1 bound sequence; it is recomputed from d1
// directly rather than cached, which keeps the D0/D1-removal logic simple
// at the cost of an O(len(d1)) scan per lookup — d1 has O(N/M) blocks, so
// this remains cheap relative to the O(M) work a block operation already
// does.
func (s *Structure) d1Bounds() []Value {
	bounds := make([]Value, len(s.d1))
	for i, blk := range s.d1 {
		bounds[i] = blk.bound
	}
	return bounds
}

// findD1BlockIndex returns the index of the leftmost D1 block whose bound
// is >= value, or the last block's index if none qualifies (Insert then
// raises that block's bound to cover the new value).
func (s *Structure) findD1BlockIndex(value Value) int {
	bounds := s.d1Bounds()
	idx := sort.Search(len(bounds), func(i int) bool { return bounds[i] >= value })
	if idx == len(bounds) {
		return len(bounds) - 1
	}
	return idx
}

// Insert inserts or updates (key, value) per spec §4.3.1.
func (s *Structure) Insert(key Key, value Value) {
	if d, ok := s.keyMap[key]; ok {
		if value >= d.value {
			return // no-op: only the smallest observed value is retained
		}
		s.removeFromOwner(key, d)
	}

	idx := s.findD1BlockIndex(value)
	blk := s.d1[idx]
	blk.insertSorted(entry{key: key, value: value})
	s.keyMap[key] = descriptor{value: value, blk: blk, inD0: false}

	if mx, ok := blk.max(); ok && mx > blk.bound {
		blk.bound = mx
	}

	if blk.size() > s.m {
		s.splitD1Block(idx)
	}
}

// splitD1Block splits the oversized block at index idx into two blocks at
// the median, replacing it in place in d1 and rewiring key_map.
func (s *Structure) splitD1Block(idx int) {
	blk := s.d1[idx]
	mid := blk.size() / 2

	left := &block{items: append([]entry(nil), blk.items[:mid]...)}
	right := &block{items: append([]entry(nil), blk.items[mid:]...)}

	if mx, ok := left.max(); ok {
		left.bound = mx
	} else {
		left.bound = s.b
	}
	// The right half inherits the original block's bound (it holds the
	// larger values, up to whatever the original over-approximated bound
	// was, typically B for the rightmost block).
	right.bound = blk.bound
	if mx, ok := right.max(); ok && mx > right.bound {
		right.bound = mx
	}

	s.d1[idx] = left
	s.d1 = append(s.d1, nil)
	copy(s.d1[idx+2:], s.d1[idx+1:])
	s.d1[idx+1] = right

	for _, e := range left.items {
		s.keyMap[e.key] = descriptor{value: e.value, blk: left, inD0: false}
	}
	for _, e := range right.items {
		s.keyMap[e.key] = descriptor{value: e.value, blk: right, inD0: false}
	}
}

// removeFromOwner removes key from the block recorded in its descriptor,
// garbage-collecting an emptied D1 block.
func (s *Structure) removeFromOwner(key Key, d descriptor) {
	d.blk.removeKey(key)
	if !d.inD0 && d.blk.size() == 0 {
		s.removeEmptyD1Block(d.blk)
	}
	if d.inD0 && d.blk.size() == 0 {
		s.removeEmptyD0Block(d.blk)
	}
}

// removeEmptyD1Block drops target from d1 and, if that empties d1
// entirely, re-seeds it with a single bound-B block — d1 must always have
// at least one block for findD1BlockIndex to return a valid index
// (original_source/Lemma_33.py's _find_d1_block_for_value guards the same
// case).
func (s *Structure) removeEmptyD1Block(target *block) {
	for i, blk := range s.d1 {
		if blk == target {
			s.d1 = append(s.d1[:i], s.d1[i+1:]...)
			break
		}
	}
	if len(s.d1) == 0 {
		s.d1 = []*block{{bound: s.b}}
	}
}

func (s *Structure) removeEmptyD0Block(target *block) {
	for i, blk := range s.d0 {
		if blk == target {
			s.d0 = append(s.d0[:i], s.d0[i+1:]...)
			return
		}
	}
}

// Delete removes key if present, returning whether it was found (spec §6's
// optional delete(key) -> bool, fully specified in
// original_source/Lemma_33.py and supplemented here per SPEC_FULL.md).
func (s *Structure) Delete(key Key) bool {
	d, ok := s.keyMap[key]
	if !ok {
		return false
	}
	delete(s.keyMap, key)
	s.removeFromOwner(key, d)
	return true
}

// BatchPrepend inserts pairs known to be globally smaller than every value
// currently stored (spec §4.3.2). Panics with PreconditionViolation if any
// pair's value is not strictly less than the current minimum — this is a
// best-effort check against the cheaply-known minimum, since fully
// validating "every value" against "every existing value" is exactly the
// precondition the caller is responsible for (spec §7).
func (s *Structure) BatchPrepend(pairs []Pair) {
	if len(pairs) == 0 {
		return
	}

	if curMin, ok := s.currentMin(); ok {
		for _, p := range pairs {
			if !(p.Value < curMin) {
				panic(PreconditionViolation{Reason: "batch_prepend value not strictly less than current minimum"})
			}
		}
	}

	best := make(map[Key]Value, len(pairs))
	for _, p := range pairs {
		if v, ok := best[p.Key]; !ok || p.Value < v {
			best[p.Key] = p.Value
		}
	}
	items := make([]entry, 0, len(best))
	for k, v := range best {
		items = append(items, entry{key: k, value: v})
	}
	sort.Slice(items, func(i, j int) bool { return lessEntry(items[i], items[j]) })

	chunkSize := s.m
	if len(items) > s.m {
		chunkSize = (s.m + 1) / 2
		if chunkSize < 1 {
			chunkSize = 1
		}
	}

	var chunks []*block
	for i := 0; i < len(items); i += chunkSize {
		end := i + chunkSize
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, &block{items: append([]entry(nil), items[i:end]...)})
	}

	// Prepend chunks so the smallest-valued chunk ends up leftmost:
	// chunks are already in ascending order, so prepending the whole
	// ordered slice to the front of d0 preserves that order.
	s.d0 = append(chunks, s.d0...)

	for _, blk := range chunks {
		for _, e := range blk.items {
			s.keyMap[e.key] = descriptor{value: e.value, blk: blk, inD0: true}
		}
	}
}

// currentMin returns the smallest value stored anywhere, if any.
func (s *Structure) currentMin() (Value, bool) {
	for _, blk := range s.d0 {
		if mv, ok := blk.min(); ok {
			return mv, true
		}
	}
	for _, blk := range s.d1 {
		if mv, ok := blk.min(); ok {
			return mv, true
		}
	}
	return 0, false
}

// Pull extracts the M smallest entries currently stored, per spec §4.3.3.
func (s *Structure) Pull() (keys []Key, separator Value) {
	type candidate struct {
		e   entry
		blk *block
	}

	var candidates []candidate
	count := 0

	var d0Prefix, d1Prefix []*block
	for _, blk := range s.d0 {
		if count >= s.m {
			break
		}
		d0Prefix = append(d0Prefix, blk)
		count += blk.size()
	}
	for _, blk := range s.d1 {
		if count >= s.m {
			break
		}
		d1Prefix = append(d1Prefix, blk)
		count += blk.size()
	}

	for _, blk := range d0Prefix {
		for _, e := range blk.items {
			candidates = append(candidates, candidate{e: e, blk: blk})
		}
	}
	for _, blk := range d1Prefix {
		for _, e := range blk.items {
			candidates = append(candidates, candidate{e: e, blk: blk})
		}
	}

	if len(candidates) == 0 {
		return nil, s.b
	}

	var selected []candidate
	if len(candidates) <= s.m {
		selected = candidates
	} else {
		selected = nSmallest(candidates, s.m, func(c candidate) entry { return c.e })
	}

	keys = make([]Key, 0, len(selected))
	for _, c := range selected {
		c.blk.removeKey(c.e.key)
		delete(s.keyMap, c.e.key)
		keys = append(keys, c.e.key)
	}

	s.gcEmptyBlocks()

	if mv, ok := s.currentMin(); ok {
		separator = mv
	} else {
		separator = s.b
	}
	return keys, separator
}

// gcEmptyBlocks drops any D1 block that became empty (removing it from the
// bound index implicitly, since d1Bounds() is derived from d1), and any
// now-empty leftmost D0 blocks.
func (s *Structure) gcEmptyBlocks() {
	kept := s.d1[:0]
	for _, blk := range s.d1 {
		if blk.size() > 0 {
			kept = append(kept, blk)
		}
	}
	s.d1 = kept
	if len(s.d1) == 0 {
		s.d1 = []*block{{bound: s.b}}
	}

	i := 0
	for i < len(s.d0) && s.d0[i].size() == 0 {
		i++
	}
	s.d0 = s.d0[i:]
}

// nSmallest selects the n smallest elements of items by the order induced
// by key(e1) vs key(e2), using a bounded max-heap (spec §4.3.3: "a
// heap-based nsmallest"). Runs in O(len(items) log n).
func nSmallest[T any](items []T, n int, key func(T) entry) []T {
	h := &boundedMaxHeap[T]{key: key}
	for _, it := range items {
		heap.Push(h, it)
		if h.Len() > n {
			heap.Pop(h)
		}
	}
	out := make([]T, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(T)
	}
	return out
}

type boundedMaxHeap[T any] struct {
	items []T
	key   func(T) entry
}

func (h *boundedMaxHeap[T]) Len() int { return len(h.items) }
func (h *boundedMaxHeap[T]) Less(i, j int) bool {
	// Max-heap: the largest entry (by the (value,key) order) sorts first,
	// so popping drops the current worst candidate once the heap exceeds n.
	return lessEntry(h.key(h.items[j]), h.key(h.items[i]))
}
func (h *boundedMaxHeap[T]) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *boundedMaxHeap[T]) Push(x any)    { h.items = append(h.items, x.(T)) }
func (h *boundedMaxHeap[T]) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}
