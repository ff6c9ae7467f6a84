package pool

import "unsafe"

// Array is a growable vector whose storage comes exclusively from a
// Pool. Capacity grows by doubling; a growth re-allocation abandons
// the old storage rather than freeing it, since the owning pool has no
// notion of freeing anything smaller than a whole block — the
// abandoned storage simply becomes dead space until the pool itself is
// cleared.
//
// Array is generic over its element type instead of carrying a
// byte-stride/element_size pair: Table builds directly on
// Array[TableEntry] to keep table pointers array-compatible, via
// embedding rather than raw struct-layout aliasing.
type Array[T any] struct {
	pool     *Pool
	elements []T
	count    int
}

// MakeArray allocates storage for max(n, 1) elements in p.
func MakeArray[T any](p *Pool, n int) *Array[T] {
	if n < 1 {
		n = 1
	}
	a := &Array[T]{pool: p, elements: make([]T, n)}
	p.accountBytes(elemFootprint[T](n))
	return a
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.count }

// Cap returns the current capacity.
func (a *Array[T]) Cap() int { return len(a.elements) }

// At returns a pointer to the i'th live element.
func (a *Array[T]) At(i int) *T { return &a.elements[i] }

// Slice returns the live prefix of the backing storage, valid until
// the next Push or ArrayCat triggers growth.
func (a *Array[T]) Slice() []T { return a.elements[:a.count] }

// Push grows the array by one element, doubling capacity first if
// necessary, and returns a pointer to the new, zero-valued slot.
func (a *Array[T]) Push() *T {
	if a.count == len(a.elements) {
		a.grow(max(1, len(a.elements)*2))
	}
	a.count++
	var zero T
	a.elements[a.count-1] = zero
	return &a.elements[a.count-1]
}

func (a *Array[T]) grow(newCap int) {
	if newCap < a.count {
		newCap = a.count
	}
	next := make([]T, newCap)
	copy(next, a.elements[:a.count])
	a.elements = next
	a.pool.accountBytes(elemFootprint[T](newCap))
}

// ArrayCat appends every live element of src to dst, growing dst by
// doubling until it fits in one shot.
func ArrayCat[T any](dst, src *Array[T]) {
	need := dst.count + src.count
	if need > len(dst.elements) {
		newCap := max(1, len(dst.elements))
		for newCap < need {
			newCap *= 2
		}
		dst.grow(newCap)
	}
	copy(dst.elements[dst.count:need], src.elements[:src.count])
	dst.count = need
}

// CopyArray deep-copies a into a fresh array allocated from p.
func CopyArray[T any](p *Pool, a *Array[T]) *Array[T] {
	out := MakeArray[T](p, max(1, a.count))
	copy(out.elements, a.elements[:a.count])
	out.count = a.count
	return out
}

// CopyArrayHdr copies only a's header into p, sharing the existing
// backing storage and pinning capacity to the current count, so the
// very next Push on the copy triggers a copy-on-write growth instead
// of mutating storage still visible through a.
//
// Under Config.DebugOwnership this asserts a.pool is an ancestor of
// (or equal to) p: the copy shares a's backing storage without
// extending its lifetime, so it is only safe when a.pool cannot be
// destroyed without p being destroyed along with it.
func CopyArrayHdr[T any](p *Pool, a *Array[T]) *Array[T] {
	if p.store.cfg.DebugOwnership && !poolIsAncestor(a.pool, p) {
		fatal("array shares storage from a pool that does not outlive the destination pool")
	}
	out := &Array[T]{pool: p, elements: a.elements[:a.count:a.count], count: a.count}
	return out
}

// AppendArrays returns CopyArrayHdr(p, a) with b concatenated onto it.
func AppendArrays[T any](p *Pool, a, b *Array[T]) *Array[T] {
	out := CopyArrayHdr(p, a)
	ArrayCat(out, b)
	return out
}

func elemFootprint[T any](n int) int {
	var zero T
	return int(unsafe.Sizeof(zero)) * n
}
