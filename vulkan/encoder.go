// Package vulkan provides the raw encoding layer behind the command
// recorder. It owns the lifetime of a Vulkan command buffer and translates
// the recorder's normalized commands into vk.Cmd* calls, one to one, with
// no validation of its own.
package vulkan

import (
	"math"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/config"
	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/recorder"
	"github.com/spaghettifunk/vulcan/resource"
)

// CommandEncoder implements recorder.Encoder on top of a command buffer
// allocated from a pool.
type CommandEncoder struct {
	device vk.Device
	pool   vk.CommandPool
	handle vk.CommandBuffer
}

// NewEncoder allocates a command buffer of the requested level from the
// pool. It does not begin recording; call Begin before handing the encoder
// to a recorder.
func NewEncoder(device vk.Device, pool vk.CommandPool, secondary bool) (*CommandEncoder, error) {
	level := vk.CommandBufferLevelPrimary
	if secondary {
		level = vk.CommandBufferLevelSecondary
	}

	allocateInfo := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              level,
		CommandBufferCount: 1,
	}
	handles := make([]vk.CommandBuffer, 1)
	if res := vk.AllocateCommandBuffers(device, &allocateInfo, handles); !VulkanResultIsSuccess(res) {
		core.LogError("failed to allocate command buffer: %s", VulkanResultString(res))
		return nil, resultErr("allocate command buffer", res)
	}

	return &CommandEncoder{
		device: device,
		pool:   pool,
		handle: handles[0],
	}, nil
}

// Begin starts recording. Recorders are built for one submission, so the
// buffer is always flagged one-time-submit; renderPassContinue marks a
// secondary buffer that executes inside a render pass.
func (e *CommandEncoder) Begin(renderPassContinue bool) error {
	beginInfo := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if renderPassContinue {
		beginInfo.Flags |= vk.CommandBufferUsageFlags(vk.CommandBufferUsageRenderPassContinueBit)
	}
	if res := vk.BeginCommandBuffer(e.handle, &beginInfo); !VulkanResultIsSuccess(res) {
		core.LogError("failed to begin command buffer: %s", VulkanResultString(res))
		return resultErr("begin command buffer", res)
	}
	return nil
}

// Free releases the command buffer back to its pool.
func (e *CommandEncoder) Free() {
	vk.FreeCommandBuffers(e.device, e.pool, 1, []vk.CommandBuffer{e.handle})
	e.handle = nil
}

func (e *CommandEncoder) BeginRenderPass(fb *resource.Framebuffer, contents vk.SubpassContents, clearValues []resource.ClearValue) error {
	width, height := fb.Extent()
	beginInfo := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  fb.RenderPass(),
		Framebuffer: fb.Handle(),
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{Width: width, Height: height},
		},
	}
	beginInfo.Deref()

	clears := make([]vk.ClearValue, len(clearValues))
	for i, cv := range clearValues {
		clears[i] = convertClearValue(cv)
	}
	beginInfo.ClearValueCount = uint32(len(clears))
	beginInfo.PClearValues = clears

	vk.CmdBeginRenderPass(e.handle, &beginInfo, contents)
	return nil
}

func (e *CommandEncoder) NextSubpass(contents vk.SubpassContents) error {
	vk.CmdNextSubpass(e.handle, contents)
	return nil
}

func (e *CommandEncoder) EndRenderPass() error {
	vk.CmdEndRenderPass(e.handle)
	return nil
}

func (e *CommandEncoder) BindGraphicsPipeline(p *resource.GraphicsPipeline) error {
	vk.CmdBindPipeline(e.handle, vk.PipelineBindPointGraphics, p.Handle())
	return nil
}

func (e *CommandEncoder) BindComputePipeline(p *resource.ComputePipeline) error {
	vk.CmdBindPipeline(e.handle, vk.PipelineBindPointCompute, p.Handle())
	return nil
}

func (e *CommandEncoder) BindIndexBuffer(b *resource.Buffer, ty vk.IndexType) error {
	vk.CmdBindIndexBuffer(e.handle, b.Handle(), 0, ty)
	return nil
}

func (e *CommandEncoder) BindVertexBuffers(firstBinding uint32, buffers []*resource.Buffer) error {
	handles := make([]vk.Buffer, len(buffers))
	offsets := make([]vk.DeviceSize, len(buffers))
	for i, b := range buffers {
		handles[i] = b.Handle()
	}
	vk.CmdBindVertexBuffers(e.handle, firstBinding, uint32(len(handles)), handles, offsets)
	return nil
}

func (e *CommandEncoder) BindDescriptorSets(bindPoint vk.PipelineBindPoint, layout *resource.PipelineLayout, firstSet uint32, sets []*resource.DescriptorSet) error {
	handles := make([]vk.DescriptorSet, len(sets))
	for i, s := range sets {
		handles[i] = s.Handle()
	}
	vk.CmdBindDescriptorSets(e.handle, bindPoint, layout.Handle(), firstSet, uint32(len(handles)), handles, 0, nil)
	return nil
}

func (e *CommandEncoder) PushConstants(layout *resource.PipelineLayout, stages vk.ShaderStageFlags, offset, size uint32, data []byte) error {
	if size == 0 {
		return nil
	}
	vk.CmdPushConstants(e.handle, layout.Handle(), stages, offset, size, unsafe.Pointer(&data[0]))
	return nil
}

func (e *CommandEncoder) SetLineWidth(width float32) error {
	vk.CmdSetLineWidth(e.handle, width)
	return nil
}

func (e *CommandEncoder) SetViewports(first uint32, viewports []resource.Viewport) error {
	vps := make([]vk.Viewport, len(viewports))
	for i, v := range viewports {
		vps[i] = vk.Viewport{
			X:        v.X,
			Y:        v.Y,
			Width:    v.Width,
			Height:   v.Height,
			MinDepth: v.MinDepth,
			MaxDepth: v.MaxDepth,
		}
	}
	vk.CmdSetViewport(e.handle, first, uint32(len(vps)), vps)
	return nil
}

func (e *CommandEncoder) SetScissors(first uint32, scissors []resource.Scissor) error {
	rects := make([]vk.Rect2D, len(scissors))
	for i, s := range scissors {
		rects[i] = vk.Rect2D{
			Offset: vk.Offset2D{X: s.X, Y: s.Y},
			Extent: vk.Extent2D{Width: s.Width, Height: s.Height},
		}
	}
	vk.CmdSetScissor(e.handle, first, uint32(len(rects)), rects)
	return nil
}

func (e *CommandEncoder) ClearColorImage(img *resource.Image, layout vk.ImageLayout, value resource.ClearValue, regions []recorder.ClearRegion) error {
	ranges := make([]vk.ImageSubresourceRange, len(regions))
	for i, rg := range regions {
		ranges[i] = vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   rg.BaseMipLevel,
			LevelCount:     rg.LevelCount,
			BaseArrayLayer: rg.BaseArrayLayer,
			LayerCount:     rg.LayerCount,
		}
	}
	color := convertClearColorValue(value)
	vk.CmdClearColorImage(e.handle, img.Handle(), layout, &color, uint32(len(ranges)), ranges)
	return nil
}

func (e *CommandEncoder) CopyBuffer(src, dst *resource.Buffer, regions []recorder.BufferCopy) error {
	copies := make([]vk.BufferCopy, len(regions))
	for i, rg := range regions {
		copies[i] = vk.BufferCopy{
			SrcOffset: rg.SrcOffset,
			DstOffset: rg.DstOffset,
			Size:      rg.Size,
		}
	}
	vk.CmdCopyBuffer(e.handle, src.Handle(), dst.Handle(), uint32(len(copies)), copies)
	return nil
}

func (e *CommandEncoder) CopyBufferToImage(src *resource.Buffer, dst *resource.Image, layout vk.ImageLayout, regions []recorder.BufferImageCopy) error {
	copies := make([]vk.BufferImageCopy, len(regions))
	for i, rg := range regions {
		copies[i] = vk.BufferImageCopy{
			BufferOffset:      rg.BufferOffset,
			BufferRowLength:   rg.BufferRowLength,
			BufferImageHeight: rg.BufferImageHeight,
			ImageSubresource: vk.ImageSubresourceLayers{
				AspectMask:     rg.ImageAspectMask,
				MipLevel:       rg.ImageMipLevel,
				BaseArrayLayer: rg.ImageBaseLayer,
				LayerCount:     rg.ImageLayerCount,
			},
			ImageOffset: vk.Offset3D{X: rg.ImageOffset[0], Y: rg.ImageOffset[1], Z: rg.ImageOffset[2]},
			ImageExtent: vk.Extent3D{Width: rg.ImageExtent[0], Height: rg.ImageExtent[1], Depth: rg.ImageExtent[2]},
		}
	}
	vk.CmdCopyBufferToImage(e.handle, src.Handle(), dst.Handle(), layout, uint32(len(copies)), copies)
	return nil
}

func (e *CommandEncoder) FillBuffer(buffer *resource.Buffer, offset, size vk.DeviceSize, data uint32) error {
	vk.CmdFillBuffer(e.handle, buffer.Handle(), offset, size, data)
	return nil
}

func (e *CommandEncoder) UpdateBuffer(buffer *resource.Buffer, offset vk.DeviceSize, data []byte) error {
	vk.CmdUpdateBuffer(e.handle, buffer.Handle(), offset, vk.DeviceSize(len(data)), (*uint32)(unsafe.Pointer(&data[0])))
	return nil
}

func (e *CommandEncoder) Dispatch(groupX, groupY, groupZ uint32) error {
	vk.CmdDispatch(e.handle, groupX, groupY, groupZ)
	return nil
}

func (e *CommandEncoder) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) error {
	vk.CmdDraw(e.handle, vertexCount, instanceCount, firstVertex, firstInstance)
	return nil
}

func (e *CommandEncoder) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) error {
	vk.CmdDrawIndexed(e.handle, indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
	return nil
}

func (e *CommandEncoder) DrawIndirect(buffer *resource.Buffer, drawCount, stride uint32) error {
	vk.CmdDrawIndirect(e.handle, buffer.Handle(), 0, drawCount, stride)
	return nil
}

func (e *CommandEncoder) End() error {
	if res := vk.EndCommandBuffer(e.handle); !VulkanResultIsSuccess(res) {
		core.LogError("failed to end command buffer: %s", VulkanResultString(res))
		return resultErr("end command buffer", res)
	}
	return nil
}

func (e *CommandEncoder) Handle() vk.CommandBuffer {
	return e.handle
}

// convertClearValue packs a ClearValue into the 16-byte Vulkan union.
// Integer color components travel through the float slots bit for bit.
func convertClearValue(v resource.ClearValue) vk.ClearValue {
	var cv vk.ClearValue
	switch v.Kind() {
	case resource.ClearColorFloat:
		c := v.ColorFloat()
		cv.SetColor(c[:])
	case resource.ClearColorInt:
		c := v.ColorInt()
		cv.SetColor([]float32{
			math.Float32frombits(uint32(c[0])),
			math.Float32frombits(uint32(c[1])),
			math.Float32frombits(uint32(c[2])),
			math.Float32frombits(uint32(c[3])),
		})
	case resource.ClearColorUint:
		c := v.ColorUint()
		cv.SetColor([]float32{
			math.Float32frombits(c[0]),
			math.Float32frombits(c[1]),
			math.Float32frombits(c[2]),
			math.Float32frombits(c[3]),
		})
	case resource.ClearDepthStencil:
		depth, stencil := v.DepthStencil()
		cv.SetDepthStencil(depth, stencil)
	}
	return cv
}

func convertClearColorValue(v resource.ClearValue) vk.ClearColorValue {
	cv := convertClearValue(v)
	return *(*vk.ClearColorValue)(unsafe.Pointer(&cv))
}

// NewRecorder allocates a primary command buffer from the pool, begins it
// one-time-submit and wraps it in a validating recorder.
func NewRecorder(device vk.Device, pool vk.CommandPool, limits *config.DeviceLimits, queueFamily uint32) (*recorder.CommandRecorder, error) {
	enc, err := NewEncoder(device, pool, false)
	if err != nil {
		return nil, err
	}
	if err := enc.Begin(false); err != nil {
		enc.Free()
		return nil, err
	}
	return recorder.New(enc, limits, queueFamily)
}

// NewSecondaryRecorder allocates a secondary command buffer that continues
// a render pass started by a primary buffer.
func NewSecondaryRecorder(device vk.Device, pool vk.CommandPool, limits *config.DeviceLimits, queueFamily uint32) (*recorder.CommandRecorder, error) {
	enc, err := NewEncoder(device, pool, true)
	if err != nil {
		return nil, err
	}
	if err := enc.Begin(true); err != nil {
		enc.Free()
		return nil, err
	}
	return recorder.NewSecondary(enc, limits, queueFamily)
}
