package qbridge

import (
	"errors"
	"fmt"
	"sync"
)

// Token layout: kind in the top 2 bits, generation in the next 30, slot
// index plus one in the low 32. The zero token is the null sentinel and can
// never be issued because the low half is at least 1.
const (
	kindShift = 62
	genShift  = 32
	genMask   = 1<<30 - 1
	slotMask  = 1<<32 - 1
)

// handleKind tags which arena issued a token.
type handleKind uint64

const (
	kindCircuit    handleKind = 1
	kindTranspiled handleKind = 2
)

func (k handleKind) String() string {
	switch k {
	case kindCircuit:
		return "circuit"
	case kindTranspiled:
		return "transpiled"
	default:
		return fmt.Sprintf("kind(%d)", uint64(k))
	}
}

var (
	// ErrNullHandle indicates the null sentinel was passed where a live handle is required
	ErrNullHandle = errors.New("null handle")

	// ErrStaleHandle indicates a token that does not name a live object:
	// already freed, consumed by transpile, never issued, or of the other kind
	ErrStaleHandle = errors.New("stale handle")
)

type slot[T any] struct {
	gen  uint32
	live bool
	val  T
}

// arena owns objects of one kind and hands out generation-tagged tokens for
// them. Removing an object bumps its slot's generation, so every token issued
// for the old occupant is rejected afterwards. A slot whose generation is
// exhausted is retired instead of reused.
type arena[T any] struct {
	mu    sync.Mutex
	kind  handleKind
	slots []slot[T]
	free  []uint32
	live  int
}

func newArena[T any](kind handleKind) *arena[T] {
	return &arena[T]{kind: kind}
}

// insert stores v and returns its token.
func (a *arena[T]) insert(v T) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot[T]{})
	}
	s := &a.slots[idx]
	s.live = true
	s.val = v
	a.live++
	return a.token(idx, s.gen)
}

func (a *arena[T]) token(idx, gen uint32) uint64 {
	return uint64(a.kind)<<kindShift | uint64(gen&genMask)<<genShift | (uint64(idx) + 1)
}

// lookup resolves tok to its slot index. Callers hold a.mu.
func (a *arena[T]) lookup(tok uint64) (uint32, error) {
	if tok == 0 {
		return 0, ErrNullHandle
	}
	if kind := handleKind(tok >> kindShift); kind != a.kind {
		return 0, fmt.Errorf("%w: %s token passed as %s", ErrStaleHandle, kind, a.kind)
	}
	low := tok & slotMask
	if low == 0 || low > uint64(len(a.slots)) {
		return 0, fmt.Errorf("%w: %s token %#x was never issued", ErrStaleHandle, a.kind, tok)
	}
	idx := uint32(low - 1)
	gen := uint32(tok>>genShift) & genMask
	s := &a.slots[idx]
	if !s.live || s.gen != gen {
		return 0, fmt.Errorf("%w: %s token %#x is no longer live", ErrStaleHandle, a.kind, tok)
	}
	return idx, nil
}

// get returns the object named by tok.
func (a *arena[T]) get(tok uint64) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	idx, err := a.lookup(tok)
	if err != nil {
		var zero T
		return zero, err
	}
	return a.slots[idx].val, nil
}

// take removes the object named by tok and returns it. tok and every copy of
// it are invalid afterwards.
func (a *arena[T]) take(tok uint64) (T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var zero T
	idx, err := a.lookup(tok)
	if err != nil {
		return zero, err
	}
	s := &a.slots[idx]
	v := s.val
	s.val = zero
	s.live = false
	s.gen = (s.gen + 1) & genMask
	a.live--
	if s.gen != 0 {
		a.free = append(a.free, idx)
	}
	return v, nil
}

// len returns the number of live objects.
func (a *arena[T]) len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}
