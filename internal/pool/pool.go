// Package pool provides typed wrappers over sync.Pool.
// Used by the clip parser to recycle per-parse run state and token buffers
// between Parse calls.
package pool

import (
	"sync"
)

// Pool is a type-safe sync.Pool with an optional reset hook run on Get.
// Objects handed out by Get are owned by the caller until Put; a Pool is
// safe for concurrent use.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// NewPool creates a pool with the given factory.
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool whose objects are reset before reuse.
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// SlicePool recycles slices, truncated to zero length on Get.
type SlicePool[E any] struct {
	*Pool[[]E]
	maxCap int
}

// NewSlicePool creates a slice pool. Slices that grew beyond maxCap are
// dropped on Put instead of being retained; maxCap <= 0 keeps everything.
func NewSlicePool[E any](defaultCap, maxCap int) *SlicePool[E] {
	return &SlicePool[E]{
		Pool: NewPoolWithReset(
			func() *[]E {
				s := make([]E, 0, defaultCap)
				return &s
			},
			func(s *[]E) {
				clear(*s)
				*s = (*s)[:0]
			},
		),
		maxCap: maxCap,
	}
}

// Put returns s to the pool unless it exceeds the configured max capacity.
func (p *SlicePool[E]) Put(s *[]E) {
	if s == nil {
		return
	}
	if p.maxCap > 0 && cap(*s) > p.maxCap {
		return
	}
	p.Pool.Put(s)
}

// Strings is the shared pool for token buffers.
var Strings = NewSlicePool[string](16, 1024)

// GetStrings retrieves an empty string slice.
func GetStrings() *[]string {
	return Strings.Get()
}

// PutStrings returns a string slice to the shared pool.
func PutStrings(s *[]string) {
	Strings.Put(s)
}

// Bytes is the shared pool for log line buffers.
var Bytes = NewSlicePool[byte](256, 64*1024)

// GetBuffer retrieves an empty byte slice.
func GetBuffer() *[]byte {
	return Bytes.Get()
}

// PutBuffer returns a byte slice to the shared pool.
func PutBuffer(b *[]byte) {
	Bytes.Put(b)
}
