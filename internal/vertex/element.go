// Package vertex describes GPU vertex formats: typed elements with
// computed byte offsets, a 64-bit rolling format hash for fast
// compatibility comparisons, a fixed-slot legacy element mask, and
// CPU-side shadow buffers. Uploading to a GPU is out of scope; this layer
// owns the byte layout only.
package vertex

// ElementType enumerates the data types an element can hold.
type ElementType uint8

const (
	TypeInt ElementType = iota
	TypeFloat
	TypeVector2
	TypeVector3
	TypeVector4
	TypeUByte4
	TypeUByte4Norm
	MaxElementTypes
)

// typeSizes maps each ElementType to its byte size within a vertex.
var typeSizes = [MaxElementTypes]uint32{
	4,  // TypeInt
	4,  // TypeFloat
	8,  // TypeVector2
	12, // TypeVector3
	16, // TypeVector4
	4,  // TypeUByte4
	4,  // TypeUByte4Norm
}

// Size returns the byte size of the type, zero for out-of-range values.
func (t ElementType) Size() uint32 {
	if t >= MaxElementTypes {
		return 0
	}
	return typeSizes[t]
}

func (t ElementType) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeVector2:
		return "vec2"
	case TypeVector3:
		return "vec3"
	case TypeVector4:
		return "vec4"
	case TypeUByte4:
		return "ubyte4"
	case TypeUByte4Norm:
		return "ubyte4norm"
	}
	return "unknown"
}

// ElementSemantic enumerates what an element means to a shader.
type ElementSemantic uint8

const (
	SemPosition ElementSemantic = iota
	SemNormal
	SemBinormal
	SemTangent
	SemTexCoord
	SemColor
	SemBlendWeights
	SemBlendIndices
	SemObjectIndex
	MaxElementSemantics
)

func (s ElementSemantic) String() string {
	switch s {
	case SemPosition:
		return "position"
	case SemNormal:
		return "normal"
	case SemBinormal:
		return "binormal"
	case SemTangent:
		return "tangent"
	case SemTexCoord:
		return "texcoord"
	case SemColor:
		return "color"
	case SemBlendWeights:
		return "blendweights"
	case SemBlendIndices:
		return "blendindices"
	case SemObjectIndex:
		return "objectindex"
	}
	return "unknown"
}

// Element is one field of a vertex. Offset is derived from the ordered
// element list and must not be set by hand; order determines packing.
type Element struct {
	Type        ElementType
	Semantic    ElementSemantic
	Index       uint8
	PerInstance bool
	Offset      uint32
}

// NewElement constructs an element with semantic index 0.
func NewElement(t ElementType, s ElementSemantic) Element {
	return Element{Type: t, Semantic: s}
}

// NewIndexedElement constructs an element with an explicit semantic index
// (e.g. the second texcoord set).
func NewIndexedElement(t ElementType, s ElementSemantic, index uint8) Element {
	return Element{Type: t, Semantic: s, Index: index}
}

// matches compares identity (type, semantic, index), ignoring offset and
// instancing.
func (e Element) matches(o Element) bool {
	return e.Type == o.Type && e.Semantic == o.Semantic && e.Index == o.Index
}

// Legacy fixed-function vertex slots. Each bit selects one entry of
// LegacyElements, preserving compatibility with declarations stored as a
// 32-bit mask.
const (
	MaskNone            uint32 = 0
	MaskPosition        uint32 = 1 << 0
	MaskNormal          uint32 = 1 << 1
	MaskColor           uint32 = 1 << 2
	MaskTexCoord1       uint32 = 1 << 3
	MaskTexCoord2       uint32 = 1 << 4
	MaskCubeTexCoord1   uint32 = 1 << 5
	MaskCubeTexCoord2   uint32 = 1 << 6
	MaskTangent         uint32 = 1 << 7
	MaskBlendWeights    uint32 = 1 << 8
	MaskBlendIndices    uint32 = 1 << 9
	MaskInstanceMatrix1 uint32 = 1 << 10
	MaskInstanceMatrix2 uint32 = 1 << 11
	MaskInstanceMatrix3 uint32 = 1 << 12
	MaskObjectIndex     uint32 = 1 << 13
)

// NumLegacyElements is the number of fixed legacy slots.
const NumLegacyElements = 14

// LegacyElements maps each legacy mask bit to its element definition, in
// bit order.
var LegacyElements = [NumLegacyElements]Element{
	{Type: TypeVector3, Semantic: SemPosition},                              // MaskPosition
	{Type: TypeVector3, Semantic: SemNormal},                                // MaskNormal
	{Type: TypeUByte4Norm, Semantic: SemColor},                              // MaskColor
	{Type: TypeVector2, Semantic: SemTexCoord},                              // MaskTexCoord1
	{Type: TypeVector2, Semantic: SemTexCoord, Index: 1},                    // MaskTexCoord2
	{Type: TypeVector3, Semantic: SemTexCoord},                              // MaskCubeTexCoord1
	{Type: TypeVector3, Semantic: SemTexCoord, Index: 1},                    // MaskCubeTexCoord2
	{Type: TypeVector4, Semantic: SemTangent},                               // MaskTangent
	{Type: TypeVector4, Semantic: SemBlendWeights},                          // MaskBlendWeights
	{Type: TypeUByte4, Semantic: SemBlendIndices},                           // MaskBlendIndices
	{Type: TypeVector4, Semantic: SemTexCoord, Index: 4, PerInstance: true}, // MaskInstanceMatrix1
	{Type: TypeVector4, Semantic: SemTexCoord, Index: 5, PerInstance: true}, // MaskInstanceMatrix2
	{Type: TypeVector4, Semantic: SemTexCoord, Index: 6, PerInstance: true}, // MaskInstanceMatrix3
	{Type: TypeInt, Semantic: SemObjectIndex},                               // MaskObjectIndex
}

// ElementsFromMask reconstructs an ordered element list from a legacy
// mask. Slot order fixes the packing order, matching historical layouts.
func ElementsFromMask(mask uint32) []Element {
	var elements []Element
	for i := 0; i < NumLegacyElements; i++ {
		if mask&(1<<uint(i)) != 0 {
			elements = append(elements, LegacyElements[i])
		}
	}
	return elements
}

// VertexSize returns the packed byte size of an element list.
func VertexSize(elements []Element) uint32 {
	var size uint32
	for _, e := range elements {
		size += e.Type.Size()
	}
	return size
}
