package resource

import vk "github.com/goki/vulkan"

// Viewport is a comparable host-side viewport description. The encoder
// converts it to vk.Viewport at emission time.
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// Scissor is a comparable host-side scissor rectangle.
type Scissor struct {
	X, Y          int32
	Width, Height uint32
}

// DynamicState carries the pipeline-adjacent parameters settable per draw
// without rebuilding the pipeline. A nil/empty field means "leave as is".
type DynamicState struct {
	LineWidth *float32
	Viewports []Viewport
	Scissors  []Scissor
}

// IsEmpty reports whether no dynamic state change is requested.
func (d DynamicState) IsEmpty() bool {
	return d.LineWidth == nil && len(d.Viewports) == 0 && len(d.Scissors) == 0
}

// IndexSize returns the size in bytes of one index of the given type.
func IndexSize(ty vk.IndexType) vk.DeviceSize {
	if ty == vk.IndexTypeUint16 {
		return 2
	}
	return 4
}

// DrawIndirectCommand mirrors VkDrawIndirectCommand, the wire layout of one
// element of an indirect draw buffer.
type DrawIndirectCommand struct {
	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

// DrawIndirectCommandSize is the stride of a DrawIndirectCommand in bytes.
const DrawIndirectCommandSize = 16

// DrawIndirectTag is the content tag an indirect buffer must carry.
const DrawIndirectTag = "vk.DrawIndirectCommand"
