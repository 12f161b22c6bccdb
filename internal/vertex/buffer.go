package vertex

import "fmt"

// Buffer owns the CPU-side shadow copy of a vertex buffer together with
// its format description. Offsets, the format hash and the legacy mask are
// recomputed whenever the element list changes.
type Buffer struct {
	vertexCount uint32
	vertexSize  uint32
	elements    []Element
	elementHash uint64
	elementMask uint32
	shadow      []byte
}

// NewBuffer creates an empty buffer; call SetSize before writing data.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// SetSize defines the vertex count and format, reallocating the shadow
// data. Previous contents are discarded. An empty element list or zero
// count produces a valid, empty buffer.
func (b *Buffer) SetSize(vertexCount uint32, elements []Element) error {
	for _, e := range elements {
		if e.Type >= MaxElementTypes {
			return fmt.Errorf("vertex: unknown element type %d", e.Type)
		}
		if e.Semantic >= MaxElementSemantics {
			return fmt.Errorf("vertex: unknown element semantic %d", e.Semantic)
		}
	}

	b.vertexCount = vertexCount
	b.elements = append(b.elements[:0], elements...)
	b.updateOffsets()

	size := int(b.vertexCount) * int(b.vertexSize)
	if cap(b.shadow) >= size {
		b.shadow = b.shadow[:size]
	} else {
		b.shadow = make([]byte, size)
	}
	return nil
}

// SetSizeFromMask is the legacy-mask variant of SetSize.
func (b *Buffer) SetSizeFromMask(vertexCount uint32, legacyMask uint32) error {
	return b.SetSize(vertexCount, ElementsFromMask(legacyMask))
}

// updateOffsets walks the ordered element list, assigning byte offsets by
// summing type sizes and folding the rolling format hash. Each element
// contributes (type+1)*(semantic+1)+index, shifted 6 bits per position, so
// differently ordered or typed layouts hash apart cheaply. The legacy mask
// gets a bit for every element matching a fixed legacy slot.
func (b *Buffer) updateOffsets() {
	var offset uint32
	b.elementHash = 0
	b.elementMask = MaskNone

	for i := range b.elements {
		e := &b.elements[i]
		e.Offset = offset
		offset += e.Type.Size()

		b.elementHash <<= 6
		b.elementHash += uint64(uint32(e.Type)+1)*uint64(uint32(e.Semantic)+1) + uint64(e.Index)

		for j := 0; j < NumLegacyElements; j++ {
			if e.matches(LegacyElements[j]) {
				b.elementMask |= 1 << uint(j)
				break
			}
		}
	}

	b.vertexSize = offset
}

// VertexCount returns the number of vertices.
func (b *Buffer) VertexCount() uint32 { return b.vertexCount }

// VertexSize returns the packed byte size of one vertex.
func (b *Buffer) VertexSize() uint32 { return b.vertexSize }

// Elements returns the element list with computed offsets. Callers must
// not modify the returned slice.
func (b *Buffer) Elements() []Element { return b.elements }

// ElementHash returns the 64-bit format hash.
func (b *Buffer) ElementHash() uint64 { return b.elementHash }

// ElementMask returns the legacy fixed-slot mask.
func (b *Buffer) ElementMask() uint32 { return b.elementMask }

// Element finds an element by semantic and index, ok=false when absent.
func (b *Buffer) Element(semantic ElementSemantic, index uint8) (Element, bool) {
	for _, e := range b.elements {
		if e.Semantic == semantic && e.Index == index {
			return e, true
		}
	}
	return Element{}, false
}

// HasElement reports whether the format carries the semantic at index.
func (b *Buffer) HasElement(semantic ElementSemantic, index uint8) bool {
	_, ok := b.Element(semantic, index)
	return ok
}

// ElementOffset returns the byte offset of a semantic within a vertex, or
// ok=false when the format lacks it.
func (b *Buffer) ElementOffset(semantic ElementSemantic, index uint8) (uint32, bool) {
	e, ok := b.Element(semantic, index)
	return e.Offset, ok
}

// SetData replaces the whole shadow buffer. The input must be exactly
// vertexCount*vertexSize bytes.
func (b *Buffer) SetData(data []byte) error {
	if len(data) != len(b.shadow) {
		return fmt.Errorf("vertex: data size %d does not match buffer size %d", len(data), len(b.shadow))
	}
	copy(b.shadow, data)
	return nil
}

// SetDataRange writes count vertices starting at start.
func (b *Buffer) SetDataRange(data []byte, start, count uint32) error {
	if start+count > b.vertexCount {
		return fmt.Errorf("vertex: range %d+%d exceeds vertex count %d", start, count, b.vertexCount)
	}
	want := int(count) * int(b.vertexSize)
	if len(data) != want {
		return fmt.Errorf("vertex: data size %d does not match range size %d", len(data), want)
	}
	copy(b.shadow[int(start)*int(b.vertexSize):], data)
	return nil
}

// Data returns the shadow bytes. Callers must not modify the returned
// slice; use SetData/SetDataRange instead.
func (b *Buffer) Data() []byte { return b.shadow }
