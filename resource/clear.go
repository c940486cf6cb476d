package resource

// ClearKind discriminates the payload of a ClearValue.
type ClearKind int

const (
	// ClearNone means the attachment is not cleared.
	ClearNone ClearKind = iota
	ClearColorFloat
	ClearColorInt
	ClearColorUint
	ClearDepthStencil
)

// ClearValue is a value used to clear an attachment or an image. It mirrors
// the Vulkan clear value union with an explicit kind tag so that misuse
// (clearing a color image with a depth value) can be detected at record time.
type ClearValue struct {
	kind    ClearKind
	colorF  [4]float32
	colorI  [4]int32
	colorU  [4]uint32
	depth   float32
	stencil uint32
}

func ClearColorF(r, g, b, a float32) ClearValue {
	return ClearValue{kind: ClearColorFloat, colorF: [4]float32{r, g, b, a}}
}

func ClearColorI(r, g, b, a int32) ClearValue {
	return ClearValue{kind: ClearColorInt, colorI: [4]int32{r, g, b, a}}
}

func ClearColorU(r, g, b, a uint32) ClearValue {
	return ClearValue{kind: ClearColorUint, colorU: [4]uint32{r, g, b, a}}
}

func ClearDepthStencilValue(depth float32, stencil uint32) ClearValue {
	return ClearValue{kind: ClearDepthStencil, depth: depth, stencil: stencil}
}

func (c ClearValue) Kind() ClearKind {
	return c.kind
}

// IsColor reports whether the value clears a color aspect.
func (c ClearValue) IsColor() bool {
	switch c.kind {
	case ClearColorFloat, ClearColorInt, ClearColorUint:
		return true
	}
	return false
}

func (c ClearValue) ColorFloat() [4]float32 {
	return c.colorF
}

func (c ClearValue) ColorInt() [4]int32 {
	return c.colorI
}

func (c ClearValue) ColorUint() [4]uint32 {
	return c.colorU
}

func (c ClearValue) DepthStencil() (float32, uint32) {
	return c.depth, c.stencil
}
