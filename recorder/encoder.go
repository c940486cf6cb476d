package recorder

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/resource"
)

// ClearRegion selects the mip levels and array layers a clear applies to.
type ClearRegion struct {
	BaseMipLevel   uint32
	LevelCount     uint32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// BufferCopy is one region of a buffer-to-buffer copy.
type BufferCopy struct {
	SrcOffset vk.DeviceSize
	DstOffset vk.DeviceSize
	Size      vk.DeviceSize
}

// BufferImageCopy is one region of a buffer-to-image copy.
type BufferImageCopy struct {
	BufferOffset      vk.DeviceSize
	BufferRowLength   uint32
	BufferImageHeight uint32
	ImageAspectMask   vk.ImageAspectFlags
	ImageMipLevel     uint32
	ImageBaseLayer    uint32
	ImageLayerCount   uint32
	ImageOffset       [3]int32
	ImageExtent       [3]uint32
}

// Encoder appends raw commands to an in-progress command buffer. It performs
// no validation of its own; the CommandRecorder guarantees every call is
// structurally legal before forwarding it.
//
// An implementation error poisons the recorder, so an Encoder never has to
// cope with calls after a failure.
type Encoder interface {
	BeginRenderPass(fb *resource.Framebuffer, contents vk.SubpassContents, clearValues []resource.ClearValue) error
	NextSubpass(contents vk.SubpassContents) error
	EndRenderPass() error

	BindGraphicsPipeline(p *resource.GraphicsPipeline) error
	BindComputePipeline(p *resource.ComputePipeline) error
	BindIndexBuffer(b *resource.Buffer, ty vk.IndexType) error
	BindVertexBuffers(firstBinding uint32, buffers []*resource.Buffer) error
	BindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *resource.PipelineLayout, firstSet uint32, sets []*resource.DescriptorSet) error
	PushConstants(layout *resource.PipelineLayout, stages vk.ShaderStageFlags, offset, size uint32, data []byte) error

	SetLineWidth(width float32) error
	SetViewports(first uint32, viewports []resource.Viewport) error
	SetScissors(first uint32, scissors []resource.Scissor) error

	ClearColorImage(img *resource.Image, layout vk.ImageLayout, value resource.ClearValue, regions []ClearRegion) error
	CopyBuffer(src, dst *resource.Buffer, regions []BufferCopy) error
	CopyBufferToImage(src *resource.Buffer, dst *resource.Image, layout vk.ImageLayout, regions []BufferImageCopy) error
	FillBuffer(buffer *resource.Buffer, offset, size vk.DeviceSize, data uint32) error
	UpdateBuffer(buffer *resource.Buffer, offset vk.DeviceSize, data []byte) error

	Dispatch(groupX, groupY, groupZ uint32) error
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) error
	DrawIndirect(buffer *resource.Buffer, drawCount, stride uint32) error

	// End finishes recording. No further commands may be encoded.
	End() error
	// Handle returns the underlying command buffer for submission.
	Handle() vk.CommandBuffer
}
