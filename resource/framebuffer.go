package resource

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
)

// Framebuffer is a host-side descriptor of a framebuffer together with the
// render pass it was created for. The recorder only needs the structural
// facts: how many subpasses the pass declares and how many attachments take
// a clear value.
type Framebuffer struct {
	id              core.ResourceID
	handle          vk.Framebuffer
	renderPass      vk.RenderPass
	width           uint32
	height          uint32
	subpassCount    uint32
	attachmentCount uint32
}

func NewFramebuffer(handle vk.Framebuffer, renderPass vk.RenderPass,
	width, height, subpassCount, attachmentCount uint32) *Framebuffer {
	return &Framebuffer{
		id:              core.NewResourceID(),
		handle:          handle,
		renderPass:      renderPass,
		width:           width,
		height:          height,
		subpassCount:    subpassCount,
		attachmentCount: attachmentCount,
	}
}

func (f *Framebuffer) ID() core.ResourceID {
	return f.id
}

func (f *Framebuffer) Handle() vk.Framebuffer {
	return f.handle
}

func (f *Framebuffer) RenderPass() vk.RenderPass {
	return f.renderPass
}

func (f *Framebuffer) Extent() (uint32, uint32) {
	return f.width, f.height
}

func (f *Framebuffer) SubpassCount() uint32 {
	return f.subpassCount
}

func (f *Framebuffer) AttachmentCount() uint32 {
	return f.attachmentCount
}

// ConvertClearValues materializes the caller's clear values into a fresh
// slice in attachment order, so that later mutation of the source slice
// cannot affect an in-flight recording.
func (f *Framebuffer) ConvertClearValues(values []ClearValue) []ClearValue {
	out := make([]ClearValue, len(values))
	copy(out, values)
	return out
}
