// Package recorder implements a safety-checked recorder for sequences of
// GPU commands. It sits between application code and a raw, unchecked
// encoding layer: every operation validates its parameters, checks the
// render-pass state machine, consults the state cache to elide redundant
// binds, and only then forwards a normalized command to the Encoder.
package recorder

import (
	"errors"
	"slices"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/config"
	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

// ErrEmptyRenderPass is returned when a framebuffer declares no subpasses.
var ErrEmptyRenderPass = errors.New("render pass declares no subpasses")

var errRecorderConsumed = errors.New("recorder was already built")

// CommandRecorder records GPU commands with recording-time validation.
//
// A recorder is single-threaded and fully synchronous: each operation runs
// validate, state-machine check, cache update and encode before returning.
// Any failing operation poisons the recorder; every later call returns the
// original error, so an inconsistent intermediate state can never be
// observed or extended. Discarding a recorder before Build has no side
// effects on the device.
type CommandRecorder struct {
	enc         Encoder
	cache       *StateCache
	pass        renderPassState
	secondary   bool
	queueFamily uint32
	limits      *config.DeviceLimits

	// Resources referenced by recorded commands are kept alive here and
	// handed to the ExecutableBuffer, so they cannot be destroyed while
	// the command sequence could still execute.
	resources []resource.Resource
	accesses  accessSet

	failed error
}

// New creates a primary recorder, outside any render pass, recording to enc
// for the given queue family. A nil limits profile falls back to the Vulkan
// guaranteed minimums.
func New(enc Encoder, limits *config.DeviceLimits, queueFamily uint32) (*CommandRecorder, error) {
	return newRecorder(enc, limits, queueFamily, false)
}

// NewSecondary creates a secondary recorder. Secondary recorders inherit
// their render-pass context from the primary that executes them, so
// BeginRenderPass, NextSubpass, EndRenderPass and Build are rejected
// unconditionally.
func NewSecondary(enc Encoder, limits *config.DeviceLimits, queueFamily uint32) (*CommandRecorder, error) {
	return newRecorder(enc, limits, queueFamily, true)
}

func newRecorder(enc Encoder, limits *config.DeviceLimits, queueFamily uint32, secondary bool) (*CommandRecorder, error) {
	if enc == nil {
		return nil, errors.New("recorder requires an encoder")
	}
	if limits == nil {
		limits = config.DefaultLimits()
	}
	return &CommandRecorder{
		enc:         enc,
		cache:       NewStateCache(),
		limits:      limits,
		queueFamily: queueFamily,
		secondary:   secondary,
		accesses:    newAccessSet(),
	}, nil
}

// fail poisons the recorder with err and returns it.
func (r *CommandRecorder) fail(err error) error {
	r.failed = err
	return err
}

func (r *CommandRecorder) retain(res ...resource.Resource) {
	r.resources = append(r.resources, res...)
}

func subpassContents(secondary bool) vk.SubpassContents {
	if secondary {
		return vk.SubpassContentsSecondaryCommandBuffers
	}
	return vk.SubpassContentsInline
}

// BeginRenderPass enters a render pass on the given framebuffer. If
// secondary is true, the first subpass only accepts secondary command
// buffers; otherwise it only accepts inline commands. The clear values are
// materialized before the call returns, so later mutation of the slice
// cannot affect the recording.
func (r *CommandRecorder) BeginRenderPass(fb *resource.Framebuffer, secondary bool, clearValues []resource.ClearValue) error {
	if r.failed != nil {
		return r.failed
	}
	if r.secondary {
		return r.fail(beginRenderPassError(ErrForbiddenInSecondary))
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(beginRenderPassError(err))
	}
	if fb.SubpassCount() == 0 {
		return r.fail(beginRenderPassError(ErrEmptyRenderPass))
	}

	clears := fb.ConvertClearValues(clearValues)
	contents := subpassContents(secondary)

	if err := r.enc.BeginRenderPass(fb, contents, clears); err != nil {
		return r.fail(beginRenderPassError(&EncodingError{Cmd: "begin render pass", Err: err}))
	}
	// ensureOutside above makes this infallible.
	_ = r.pass.begin(fb.SubpassCount(), contents)

	r.retain(fb)
	r.accesses.noteKnown(fb.ID(),
		vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		vk.AccessFlags(vk.AccessColorAttachmentReadBit)|vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		true)
	return nil
}

// NextSubpass advances to the next subpass of the current render pass.
func (r *CommandRecorder) NextSubpass(secondary bool) error {
	if r.failed != nil {
		return r.failed
	}
	if r.secondary {
		return r.fail(ErrForbiddenInSecondary)
	}
	contents := subpassContents(secondary)
	if err := r.pass.next(contents); err != nil {
		return r.fail(err)
	}
	if err := r.enc.NextSubpass(contents); err != nil {
		return r.fail(&EncodingError{Cmd: "next subpass", Err: err})
	}
	return nil
}

// EndRenderPass leaves the current render pass. Every declared subpass must
// have been advanced through first.
func (r *CommandRecorder) EndRenderPass() error {
	if r.failed != nil {
		return r.failed
	}
	if r.secondary {
		return r.fail(ErrForbiddenInSecondary)
	}
	if err := r.pass.end(); err != nil {
		return r.fail(err)
	}
	if err := r.enc.EndRenderPass(); err != nil {
		return r.fail(&EncodingError{Cmd: "end render pass", Err: err})
	}
	return nil
}

// ClearColorImage clears all layers and mip levels of a color image.
//
// Panics if value is not a color value; that is a caller bug the type
// system cannot prevent, not a recoverable recording error.
func (r *CommandRecorder) ClearColorImage(img *resource.Image, value resource.ClearValue) error {
	return r.ClearColorImageDimensions(img, 0, img.ArrayLayers(), 0, img.MipLevels(), value)
}

// ClearColorImageDimensions clears the selected layers and mip levels of a
// color image.
//
// Panics if value is not a color value.
func (r *CommandRecorder) ClearColorImageDimensions(img *resource.Image, firstLayer, numLayers, firstMip, numMips uint32, value resource.ClearValue) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(clearColorImageError(err))
	}
	region, err := checkClearColorImage(img, firstLayer, numLayers, firstMip, numMips)
	if err != nil {
		return r.fail(clearColorImageError(err))
	}
	if !value.IsColor() {
		panic("vulcan: the clear value is not a color value")
	}

	// TODO: let the caller choose the layout
	if err := r.enc.ClearColorImage(img, vk.ImageLayoutTransferDstOptimal, value, []ClearRegion{region}); err != nil {
		return r.fail(clearColorImageError(&EncodingError{Cmd: "clear color image", Err: err}))
	}

	r.retain(img)
	r.accesses.noteKnown(img.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		true)
	return nil
}

// CopyBuffer copies from src to dst. If the sizes differ, the amount copied
// is the smaller of the two.
func (r *CommandRecorder) CopyBuffer(src, dst *resource.Buffer) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(copyBufferError(err))
	}
	size, err := checkCopyBuffer(src, dst)
	if err != nil {
		return r.fail(copyBufferError(err))
	}
	if err := r.enc.CopyBuffer(src, dst, []BufferCopy{{SrcOffset: 0, DstOffset: 0, Size: size}}); err != nil {
		return r.fail(copyBufferError(&EncodingError{Cmd: "copy buffer", Err: err}))
	}

	r.retain(src, dst)
	r.accesses.noteKnown(src.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferReadBit),
		false)
	r.accesses.noteKnown(dst.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		true)
	return nil
}

// CopyBufferToImage copies from a buffer into the full extent of the first
// layer of the image's base mip level.
func (r *CommandRecorder) CopyBufferToImage(src *resource.Buffer, dst *resource.Image) error {
	return r.CopyBufferToImageDimensions(src, dst, [3]int32{}, dst.Extent(), 0, 1, 0)
}

// CopyBufferToImageDimensions copies from a buffer into the selected region
// of the image. Only images with a color aspect are supported.
func (r *CommandRecorder) CopyBufferToImageDimensions(src *resource.Buffer, dst *resource.Image,
	offset [3]int32, extent [3]uint32, firstLayer, numLayers, mipLevel uint32) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(copyBufferToImageError(err))
	}
	aspect, err := checkCopyBufferToImage(r.limits, src, dst, firstLayer, numLayers)
	if err != nil {
		return r.fail(copyBufferToImageError(err))
	}
	region := BufferImageCopy{
		ImageAspectMask: aspect,
		ImageMipLevel:   mipLevel,
		ImageBaseLayer:  firstLayer,
		ImageLayerCount: numLayers,
		ImageOffset:     offset,
		ImageExtent:     extent,
	}
	// TODO: let the caller choose the layout
	if err := r.enc.CopyBufferToImage(src, dst, vk.ImageLayoutTransferDstOptimal, []BufferImageCopy{region}); err != nil {
		return r.fail(copyBufferToImageError(&EncodingError{Cmd: "copy buffer to image", Err: err}))
	}

	r.retain(src, dst)
	r.accesses.noteKnown(src.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferReadBit),
		false)
	r.accesses.noteKnown(dst.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		true)
	return nil
}

// Dispatch records a compute dispatch. The pipeline bind is elided when the
// same pipeline is already bound; push constants and descriptor sets are
// re-emitted every time, since their contents have no cheap identity.
func (r *CommandRecorder) Dispatch(dims [3]uint32, pipeline *resource.ComputePipeline, sets []*resource.DescriptorSet, constants []byte) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(dispatchError(err))
	}
	if err := checkPushConstants(r.limits, pipeline.Layout(), constants); err != nil {
		return r.fail(dispatchError(err))
	}
	if err := checkDescriptorSets(r.limits, pipeline.Layout(), sets); err != nil {
		return r.fail(dispatchError(err))
	}
	if err := checkDispatch(r.limits, dims); err != nil {
		return r.fail(dispatchError(err))
	}

	if r.cache.NoteComputePipeline(pipeline.ID()) == StateChanged {
		if err := r.enc.BindComputePipeline(pipeline); err != nil {
			return r.fail(dispatchError(&EncodingError{Cmd: "bind compute pipeline", Err: err}))
		}
	}
	if err := r.emitPushConstants(pipeline.Layout(), constants); err != nil {
		return r.fail(dispatchError(err))
	}
	if err := r.emitDescriptorSets(vk.PipelineBindPointCompute, pipeline.Layout(), sets); err != nil {
		return r.fail(dispatchError(err))
	}
	if err := r.enc.Dispatch(dims[0], dims[1], dims[2]); err != nil {
		return r.fail(dispatchError(&EncodingError{Cmd: "dispatch", Err: err}))
	}

	r.retain(pipeline)
	return nil
}

// Draw records an inline draw with counts resolved from the vertex buffers.
func (r *CommandRecorder) Draw(pipeline *resource.GraphicsPipeline, dynamic resource.DynamicState,
	vertexBuffers []*resource.Buffer, sets []*resource.DescriptorSet, constants []byte) error {
	if r.failed != nil {
		return r.failed
	}
	info, err := r.prepareDraw(pipeline, dynamic, vertexBuffers, sets, constants, drawError)
	if err != nil {
		return err
	}
	if err := r.enc.Draw(info.vertexCount, info.instanceCount, 0, 0); err != nil {
		return r.fail(drawError(&EncodingError{Cmd: "draw", Err: err}))
	}
	return nil
}

// DrawIndexed records an inline indexed draw. The index buffer bind is
// elided when the same buffer and index type are already bound.
func (r *CommandRecorder) DrawIndexed(pipeline *resource.GraphicsPipeline, dynamic resource.DynamicState,
	vertexBuffers []*resource.Buffer, indexBuffer *resource.Buffer, indexType vk.IndexType,
	sets []*resource.DescriptorSet, constants []byte) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureInside(vk.SubpassContentsInline); err != nil {
		return r.fail(drawIndexedError(err))
	}
	indexCount, err := checkIndexBuffer(indexBuffer, indexType)
	if err != nil {
		return r.fail(drawIndexedError(err))
	}
	if _, err := r.prepareDrawChecked(pipeline, dynamic, vertexBuffers, sets, constants, drawIndexedError); err != nil {
		return err
	}

	if r.cache.NoteIndexBuffer(indexBuffer.ID(), indexType) == StateChanged {
		if err := r.enc.BindIndexBuffer(indexBuffer, indexType); err != nil {
			return r.fail(drawIndexedError(&EncodingError{Cmd: "bind index buffer", Err: err}))
		}
	}
	if err := r.enc.DrawIndexed(indexCount, 1, 0, 0, 0); err != nil {
		return r.fail(drawIndexedError(&EncodingError{Cmd: "draw indexed", Err: err}))
	}

	r.retain(indexBuffer)
	r.accesses.noteKnown(indexBuffer.ID(),
		vk.PipelineStageFlags(vk.PipelineStageVertexInputBit),
		vk.AccessFlags(vk.AccessIndexReadBit),
		false)
	return nil
}

// DrawIndirect records an inline draw whose counts are read from the
// indirect buffer at execution time, one draw per element.
func (r *CommandRecorder) DrawIndirect(pipeline *resource.GraphicsPipeline, dynamic resource.DynamicState,
	vertexBuffers []*resource.Buffer, indirectBuffer *resource.Buffer,
	sets []*resource.DescriptorSet, constants []byte) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureInside(vk.SubpassContentsInline); err != nil {
		return r.fail(drawIndirectError(err))
	}
	drawCount, err := checkIndirectBuffer(indirectBuffer)
	if err != nil {
		return r.fail(drawIndirectError(err))
	}
	if _, err := r.prepareDrawChecked(pipeline, dynamic, vertexBuffers, sets, constants, drawIndirectError); err != nil {
		return err
	}
	if err := r.enc.DrawIndirect(indirectBuffer, drawCount, resource.DrawIndirectCommandSize); err != nil {
		return r.fail(drawIndirectError(&EncodingError{Cmd: "draw indirect", Err: err}))
	}

	r.retain(indirectBuffer)
	r.accesses.noteKnown(indirectBuffer.ID(),
		vk.PipelineStageFlags(vk.PipelineStageDrawIndirectBit),
		vk.AccessFlags(vk.AccessIndirectCommandReadBit),
		false)
	return nil
}

// prepareDraw runs the full draw precondition chain including the
// render-pass context check.
func (r *CommandRecorder) prepareDraw(pipeline *resource.GraphicsPipeline, dynamic resource.DynamicState,
	vertexBuffers []*resource.Buffer, sets []*resource.DescriptorSet, constants []byte,
	wrap func(error) error) (vertexBufferInfo, error) {
	if err := r.pass.ensureInside(vk.SubpassContentsInline); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	return r.prepareDrawChecked(pipeline, dynamic, vertexBuffers, sets, constants, wrap)
}

// prepareDrawChecked validates and emits the state shared by all draw
// variants: pipeline bind (cached), dynamic state delta, push constants,
// descriptor sets and vertex buffers. The context check must already have
// passed.
func (r *CommandRecorder) prepareDrawChecked(pipeline *resource.GraphicsPipeline, dynamic resource.DynamicState,
	vertexBuffers []*resource.Buffer, sets []*resource.DescriptorSet, constants []byte,
	wrap func(error) error) (vertexBufferInfo, error) {
	if err := checkDynamicState(r.limits, pipeline, dynamic); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	if err := checkPushConstants(r.limits, pipeline.Layout(), constants); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	if err := checkDescriptorSets(r.limits, pipeline.Layout(), sets); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	info, err := checkVertexBuffers(pipeline, vertexBuffers)
	if err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}

	if r.cache.NoteGraphicsPipeline(pipeline.ID()) == StateChanged {
		if err := r.enc.BindGraphicsPipeline(pipeline); err != nil {
			return vertexBufferInfo{}, r.fail(wrap(&EncodingError{Cmd: "bind graphics pipeline", Err: err}))
		}
	}

	delta := r.cache.FilterDynamicState(dynamic)

	if err := r.emitPushConstants(pipeline.Layout(), constants); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	if err := r.emitDynamicState(delta); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	if err := r.emitDescriptorSets(vk.PipelineBindPointGraphics, pipeline.Layout(), sets); err != nil {
		return vertexBufferInfo{}, r.fail(wrap(err))
	}
	if len(vertexBuffers) != 0 {
		if err := r.enc.BindVertexBuffers(0, vertexBuffers); err != nil {
			return vertexBufferInfo{}, r.fail(wrap(&EncodingError{Cmd: "bind vertex buffers", Err: err}))
		}
	}

	r.retain(pipeline)
	for _, b := range vertexBuffers {
		r.retain(b)
		r.accesses.noteKnown(b.ID(),
			vk.PipelineStageFlags(vk.PipelineStageVertexInputBit),
			vk.AccessFlags(vk.AccessVertexAttributeReadBit),
			false)
	}
	return info, nil
}

// emitPushConstants extracts and pushes every declared range from the
// serialized payload. Ranges are never cached: the payload bytes have no
// cheap identity to compare against.
func (r *CommandRecorder) emitPushConstants(layout *resource.PipelineLayout, data []byte) error {
	for _, rg := range layout.PushConstantRanges() {
		if err := r.enc.PushConstants(layout, rg.Stages, rg.Offset, rg.Size, data[rg.Offset:rg.Offset+rg.Size]); err != nil {
			return &EncodingError{Cmd: "push constants", Err: err}
		}
	}
	return nil
}

// emitDynamicState forwards only the fields the cache reported as changed.
func (r *CommandRecorder) emitDynamicState(delta resource.DynamicState) error {
	if delta.LineWidth != nil {
		if err := r.enc.SetLineWidth(*delta.LineWidth); err != nil {
			return &EncodingError{Cmd: "set line width", Err: err}
		}
	}
	if len(delta.Viewports) != 0 {
		if err := r.enc.SetViewports(0, delta.Viewports); err != nil {
			return &EncodingError{Cmd: "set viewport", Err: err}
		}
	}
	if len(delta.Scissors) != 0 {
		if err := r.enc.SetScissors(0, delta.Scissors); err != nil {
			return &EncodingError{Cmd: "set scissor", Err: err}
		}
	}
	return nil
}

// emitDescriptorSets binds the sets and records conservative accesses for
// everything reachable through them.
func (r *CommandRecorder) emitDescriptorSets(bindPoint vk.PipelineBindPoint, layout *resource.PipelineLayout, sets []*resource.DescriptorSet) error {
	if len(sets) == 0 {
		return nil
	}
	if err := r.enc.BindDescriptorSets(bindPoint, layout, 0, sets); err != nil {
		return &EncodingError{Cmd: "bind descriptor sets", Err: err}
	}
	for _, s := range sets {
		r.retain(s)
		r.accesses.noteConservative(s.ID())
		for _, ref := range s.References() {
			r.retain(ref)
			r.accesses.noteConservative(ref.ID())
		}
	}
	return nil
}

// FillBuffer writes the 32-bit word repeatedly through the entire buffer.
func (r *CommandRecorder) FillBuffer(buffer *resource.Buffer, word uint32) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(fillBufferError(err))
	}
	if err := checkFillBuffer(buffer); err != nil {
		return r.fail(fillBufferError(err))
	}
	if err := r.enc.FillBuffer(buffer, 0, buffer.Size(), word); err != nil {
		return r.fail(fillBufferError(&EncodingError{Cmd: "fill buffer", Err: err}))
	}

	r.retain(buffer)
	r.accesses.noteKnown(buffer.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		true)
	return nil
}

// UpdateBuffer writes data inline at the start of the buffer. The payload
// must be strictly smaller than the buffer. The bytes are copied before the
// call returns.
func (r *CommandRecorder) UpdateBuffer(buffer *resource.Buffer, data []byte) error {
	if r.failed != nil {
		return r.failed
	}
	if err := r.pass.ensureOutside(); err != nil {
		return r.fail(updateBufferError(err))
	}
	if err := checkUpdateBuffer(r.limits, buffer, data); err != nil {
		return r.fail(updateBufferError(err))
	}
	if err := r.enc.UpdateBuffer(buffer, 0, slices.Clone(data)); err != nil {
		return r.fail(updateBufferError(&EncodingError{Cmd: "update buffer", Err: err}))
	}

	r.retain(buffer)
	r.accesses.noteKnown(buffer.ID(),
		vk.PipelineStageFlags(vk.PipelineStageTransferBit),
		vk.AccessFlags(vk.AccessTransferWriteBit),
		true)
	return nil
}

// Build finalizes the recording into an immutable ExecutableBuffer. The
// recorder cannot be used afterwards.
func (r *CommandRecorder) Build() (*ExecutableBuffer, error) {
	if r.failed != nil {
		return nil, r.failed
	}
	if r.secondary {
		return nil, r.fail(buildError(ErrForbiddenInSecondary))
	}
	if err := r.pass.ensureOutside(); err != nil {
		return nil, r.fail(buildError(err))
	}
	if err := r.enc.End(); err != nil {
		if errors.Is(err, ErrOutOfMemory) {
			return nil, r.fail(buildError(err))
		}
		return nil, r.fail(buildError(&EncodingError{Cmd: "end", Err: err}))
	}

	built := &ExecutableBuffer{
		handle:      r.enc.Handle(),
		queueFamily: r.queueFamily,
		resources:   r.resources,
		accesses:    r.accesses,
	}
	r.failed = errRecorderConsumed
	core.LogDebug("built command buffer for queue family %d, %d retained resources", r.queueFamily, len(built.resources))
	return built, nil
}
