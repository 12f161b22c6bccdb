package vertex

import (
	"math/bits"
	"sync"
	"sync/atomic"
)

// Declaration is the merged element view over one or more vertex buffers,
// the shape a shader input layout is built from. When several buffers
// carry the same semantic and index, the later buffer wins, matching how
// instancing streams override per-vertex data.
type Declaration struct {
	key      uint64
	elements []DeclarationElement
}

// DeclarationElement is one merged element annotated with the stream
// (buffer slot) it comes from.
type DeclarationElement struct {
	Element
	Stream int
}

// DeclarationKey folds the element hashes of a buffer set into one 64-bit
// key. Each stream's hash is rotated by its slot so the same formats bound
// in a different order produce a different key.
func DeclarationKey(buffers []*Buffer) uint64 {
	var key uint64
	for i, b := range buffers {
		if b == nil {
			continue
		}
		key ^= bits.RotateLeft64(b.ElementHash(), (i*16)%64)
	}
	return key
}

// NewDeclaration merges the formats of the given buffers.
func NewDeclaration(buffers []*Buffer) *Declaration {
	d := &Declaration{key: DeclarationKey(buffers)}

	for stream, b := range buffers {
		if b == nil {
			continue
		}
		for _, e := range b.Elements() {
			if prev := d.find(e.Semantic, e.Index); prev >= 0 {
				d.elements[prev] = DeclarationElement{Element: e, Stream: stream}
				continue
			}
			d.elements = append(d.elements, DeclarationElement{Element: e, Stream: stream})
		}
	}
	return d
}

func (d *Declaration) find(semantic ElementSemantic, index uint8) int {
	for i, e := range d.elements {
		if e.Semantic == semantic && e.Index == index {
			return i
		}
	}
	return -1
}

// Key returns the combined format key.
func (d *Declaration) Key() uint64 { return d.key }

// Elements returns the merged elements. Callers must not modify the
// returned slice.
func (d *Declaration) Elements() []DeclarationElement { return d.elements }

// HasSemantic reports whether the merged layout carries the semantic at
// index.
func (d *Declaration) HasSemantic(semantic ElementSemantic, index uint8) bool {
	return d.find(semantic, index) >= 0
}

// DeclarationCache memoizes declarations by combined format key, so
// repeated draws with the same buffer formats compare one uint64 instead
// of walking element lists.
type DeclarationCache struct {
	mu    sync.RWMutex
	cache map[uint64]*Declaration

	hits   uint64 // atomic
	misses uint64 // atomic
}

// NewDeclarationCache creates an empty cache.
func NewDeclarationCache() *DeclarationCache {
	return &DeclarationCache{cache: make(map[uint64]*Declaration)}
}

// Get returns the declaration for the buffer set, building and caching it
// on first sight of the format combination.
func (c *DeclarationCache) Get(buffers []*Buffer) *Declaration {
	key := DeclarationKey(buffers)

	c.mu.RLock()
	d, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		atomic.AddUint64(&c.hits, 1)
		return d
	}

	d = NewDeclaration(buffers)

	c.mu.Lock()
	if existing, ok := c.cache[key]; ok {
		d = existing
		atomic.AddUint64(&c.hits, 1)
	} else {
		c.cache[key] = d
		atomic.AddUint64(&c.misses, 1)
	}
	c.mu.Unlock()
	return d
}

// Len returns the number of cached declarations.
func (c *DeclarationCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Stats returns hit/miss counters for diagnostics.
func (c *DeclarationCache) Stats() (hits, misses uint64) {
	return atomic.LoadUint64(&c.hits), atomic.LoadUint64(&c.misses)
}
