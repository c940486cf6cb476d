package resource

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
)

// Buffer is a host-side descriptor of a device buffer.
type Buffer struct {
	id         core.ResourceID
	handle     vk.Buffer
	size       vk.DeviceSize
	usage      vk.BufferUsageFlags
	contentTag string
	stride     vk.DeviceSize
}

// NewBuffer describes an untyped buffer of raw bytes.
func NewBuffer(handle vk.Buffer, size vk.DeviceSize, usage vk.BufferUsageFlags) *Buffer {
	return &Buffer{
		id:     core.NewResourceID(),
		handle: handle,
		size:   size,
		usage:  usage,
	}
}

// NewTypedBuffer describes a buffer holding an array of fixed-stride elements.
// The content tag names the element type; two buffers are copy-compatible only
// when their tags match. The stride is used to resolve vertex/index/indirect
// element counts from the buffer size.
func NewTypedBuffer(handle vk.Buffer, size vk.DeviceSize, usage vk.BufferUsageFlags, contentTag string, stride vk.DeviceSize) *Buffer {
	b := NewBuffer(handle, size, usage)
	b.contentTag = contentTag
	b.stride = stride
	return b
}

func (b *Buffer) ID() core.ResourceID {
	return b.id
}

func (b *Buffer) Handle() vk.Buffer {
	return b.handle
}

func (b *Buffer) Size() vk.DeviceSize {
	return b.size
}

func (b *Buffer) Usage() vk.BufferUsageFlags {
	return b.usage
}

func (b *Buffer) HasUsage(bit vk.BufferUsageFlagBits) bool {
	return b.usage&vk.BufferUsageFlags(bit) != 0
}

// ContentTag is the element type tag, or "" for untyped buffers.
func (b *Buffer) ContentTag() string {
	return b.contentTag
}

// Stride is the element stride in bytes, or 0 for untyped buffers.
func (b *Buffer) Stride() vk.DeviceSize {
	return b.stride
}

// Len is the number of whole elements the buffer holds, or 0 when untyped.
func (b *Buffer) Len() vk.DeviceSize {
	if b.stride == 0 {
		return 0
	}
	return b.size / b.stride
}
