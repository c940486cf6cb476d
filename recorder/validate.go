package recorder

import (
	"fmt"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/config"
	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

// The checkers in this file are pure: they inspect host-side descriptors and
// either return the normalized parameters an emission needs, or the typed
// error describing the violated precondition. They never touch the encoder.

func checkClearColorImage(img *resource.Image, firstLayer, numLayers, firstMip, numMips uint32) (ClearRegion, error) {
	if numLayers == 0 || firstLayer+numLayers > img.ArrayLayers() {
		return ClearRegion{}, &RangeError{What: "array layer", First: firstLayer, Count: numLayers, Max: img.ArrayLayers()}
	}
	if numMips == 0 || firstMip+numMips > img.MipLevels() {
		return ClearRegion{}, &RangeError{What: "mip level", First: firstMip, Count: numMips, Max: img.MipLevels()}
	}
	return ClearRegion{
		BaseMipLevel:   firstMip,
		LevelCount:     numMips,
		BaseArrayLayer: firstLayer,
		LayerCount:     numLayers,
	}, nil
}

// checkCopyBuffer resolves the copy length: the smaller of the two buffer
// sizes, whichever argument is larger.
func checkCopyBuffer(src, dst *resource.Buffer) (vk.DeviceSize, error) {
	if !src.HasUsage(vk.BufferUsageTransferSrcBit) {
		return 0, &UsageError{What: "source", Usage: vk.BufferUsageTransferSrcBit}
	}
	if !dst.HasUsage(vk.BufferUsageTransferDstBit) {
		return 0, &UsageError{What: "destination", Usage: vk.BufferUsageTransferDstBit}
	}
	if src.ContentTag() != dst.ContentTag() {
		return 0, &ContentMismatchError{SrcTag: src.ContentTag(), DstTag: dst.ContentTag()}
	}
	return core.Min(src.Size(), dst.Size()), nil
}

func checkCopyBufferToImage(limits *config.DeviceLimits, src *resource.Buffer, dst *resource.Image, firstLayer, numLayers uint32) (vk.ImageAspectFlags, error) {
	if !src.HasUsage(vk.BufferUsageTransferSrcBit) {
		return 0, &UsageError{What: "source", Usage: vk.BufferUsageTransferSrcBit}
	}
	if !dst.HasColorAspect() {
		return 0, ErrUnsupportedImageAspect
	}
	if numLayers == 0 || firstLayer+numLayers > dst.ArrayLayers() {
		return 0, &RangeError{What: "array layer", First: firstLayer, Count: numLayers, Max: dst.ArrayLayers()}
	}
	if numLayers > limits.MaxImageArrayLayers {
		return 0, &RangeError{What: "array layer", First: firstLayer, Count: numLayers, Max: limits.MaxImageArrayLayers}
	}
	return vk.ImageAspectFlags(vk.ImageAspectColorBit), nil
}

func checkDispatch(limits *config.DeviceLimits, dims [3]uint32) error {
	for i, d := range dims {
		if d > limits.MaxComputeWorkGroupCount[i] {
			return &DispatchLimitError{Dim: i, Requested: d, Limit: limits.MaxComputeWorkGroupCount[i]}
		}
	}
	return nil
}

// checkPushConstants verifies that the serialized payload covers every push
// constant range the pipeline layout declares.
func checkPushConstants(limits *config.DeviceLimits, layout *resource.PipelineLayout, data []byte) error {
	if len(data)%4 != 0 {
		return &AlignmentError{What: "push constant payload", Size: vk.DeviceSize(len(data)), Alignment: 4}
	}
	if uint32(len(data)) > limits.MaxPushConstantsSize {
		return &SizeError{What: "push constant payload", Size: vk.DeviceSize(len(data)), Max: vk.DeviceSize(limits.MaxPushConstantsSize)}
	}
	for _, r := range layout.PushConstantRanges() {
		if int(r.Offset)+int(r.Size) > len(data) {
			return &PushConstantError{Offset: r.Offset, Size: r.Size, PayloadSize: len(data)}
		}
	}
	return nil
}

func checkDescriptorSets(limits *config.DeviceLimits, layout *resource.PipelineLayout, sets []*resource.DescriptorSet) error {
	want := layout.DescriptorSetLayouts()
	if len(sets) != len(want) {
		return &DescriptorSetError{Set: len(sets), Reason: fmt.Sprintf("pipeline layout declares %d sets, %d were bound", len(want), len(sets))}
	}
	if uint32(len(sets)) > limits.MaxBoundDescriptorSets {
		return &DescriptorSetError{Set: len(sets), Reason: fmt.Sprintf("device limit is %d bound sets", limits.MaxBoundDescriptorSets)}
	}
	for i, s := range sets {
		if s.LayoutID() != want[i] {
			return &DescriptorSetError{Set: i, Reason: "allocated from a layout incompatible with the pipeline layout"}
		}
	}
	return nil
}

// checkDynamicState verifies that every state the pipeline left dynamic is
// supplied, and that the values fit the device.
func checkDynamicState(limits *config.DeviceLimits, p *resource.GraphicsPipeline, dyn resource.DynamicState) error {
	if p.HasDynamicLineWidth() {
		if dyn.LineWidth == nil {
			return &DynamicStateError{State: "line width", Reason: "pipeline requires a dynamic line width but none was supplied"}
		}
		if *dyn.LineWidth < limits.LineWidthRange[0] || *dyn.LineWidth > limits.LineWidthRange[1] {
			return &DynamicStateError{State: "line width", Reason: fmt.Sprintf("%g is outside the device range [%g, %g]", *dyn.LineWidth, limits.LineWidthRange[0], limits.LineWidthRange[1])}
		}
	}
	if p.HasDynamicViewports() {
		if uint32(len(dyn.Viewports)) != p.ViewportCount() {
			return &DynamicStateError{State: "viewports", Reason: fmt.Sprintf("pipeline requires %d viewports, %d were supplied", p.ViewportCount(), len(dyn.Viewports))}
		}
		if uint32(len(dyn.Viewports)) > limits.MaxViewports {
			return &DynamicStateError{State: "viewports", Reason: fmt.Sprintf("device limit is %d viewports", limits.MaxViewports)}
		}
	}
	if p.HasDynamicScissors() {
		if uint32(len(dyn.Scissors)) != p.ViewportCount() {
			return &DynamicStateError{State: "scissors", Reason: fmt.Sprintf("pipeline requires %d scissors, %d were supplied", p.ViewportCount(), len(dyn.Scissors))}
		}
	}
	return nil
}

// vertexBufferInfo is the normalized result of vertex buffer validation.
type vertexBufferInfo struct {
	vertexCount   uint32
	instanceCount uint32
}

// checkVertexBuffers matches the supplied buffers against the pipeline's
// vertex input layout and resolves the draw counts: the largest count every
// bound buffer can serve.
func checkVertexBuffers(p *resource.GraphicsPipeline, buffers []*resource.Buffer) (vertexBufferInfo, error) {
	bindings := p.VertexBindings()
	if len(buffers) != len(bindings) {
		return vertexBufferInfo{}, &VertexBufferError{Binding: len(buffers), Reason: fmt.Sprintf("pipeline declares %d vertex bindings, %d buffers were bound", len(bindings), len(buffers))}
	}

	info := vertexBufferInfo{instanceCount: 1}
	haveVertex := false
	haveInstance := false
	for i, b := range buffers {
		if !b.HasUsage(vk.BufferUsageVertexBufferBit) {
			return vertexBufferInfo{}, &VertexBufferError{Binding: i, Reason: "missing the vertex buffer usage flag"}
		}
		if bindings[i].Stride == 0 {
			return vertexBufferInfo{}, &VertexBufferError{Binding: i, Reason: "pipeline declares a zero stride"}
		}
		count := uint32(b.Size() / bindings[i].Stride)
		if bindings[i].PerInstance {
			if !haveInstance || count < info.instanceCount {
				info.instanceCount = count
			}
			haveInstance = true
		} else {
			if !haveVertex || count < info.vertexCount {
				info.vertexCount = count
			}
			haveVertex = true
		}
	}
	if !haveVertex {
		return vertexBufferInfo{}, &VertexBufferError{Binding: 0, Reason: "pipeline has no per-vertex binding"}
	}
	return info, nil
}

func checkIndexBuffer(b *resource.Buffer, ty vk.IndexType) (uint32, error) {
	if !b.HasUsage(vk.BufferUsageIndexBufferBit) {
		return 0, &IndexBufferError{Reason: "missing the index buffer usage flag"}
	}
	return uint32(b.Size() / resource.IndexSize(ty)), nil
}

func checkIndirectBuffer(b *resource.Buffer) (uint32, error) {
	if !b.HasUsage(vk.BufferUsageIndirectBufferBit) {
		return 0, &UsageError{What: "indirect", Usage: vk.BufferUsageIndirectBufferBit}
	}
	return uint32(b.Size() / resource.DrawIndirectCommandSize), nil
}

func checkFillBuffer(b *resource.Buffer) error {
	if !b.HasUsage(vk.BufferUsageTransferDstBit) {
		return &UsageError{What: "destination", Usage: vk.BufferUsageTransferDstBit}
	}
	if b.Size()%4 != 0 {
		return &AlignmentError{What: "fill destination", Size: b.Size(), Alignment: 4}
	}
	return nil
}

func checkUpdateBuffer(limits *config.DeviceLimits, b *resource.Buffer, data []byte) error {
	if !b.HasUsage(vk.BufferUsageTransferDstBit) {
		return &UsageError{What: "destination", Usage: vk.BufferUsageTransferDstBit}
	}
	if len(data)%4 != 0 {
		return &AlignmentError{What: "update payload", Size: vk.DeviceSize(len(data)), Alignment: 4}
	}
	if uint32(len(data)) > limits.MaxUpdateBufferSize {
		return &SizeError{What: "update payload", Size: vk.DeviceSize(len(data)), Max: vk.DeviceSize(limits.MaxUpdateBufferSize)}
	}
	if b.Size() < vk.DeviceSize(len(data)) {
		return &SizeError{What: "update payload", Size: vk.DeviceSize(len(data)), Max: b.Size()}
	}
	if b.Size() == vk.DeviceSize(len(data)) {
		return ErrUnsupportedWholeBufferUpdate
	}
	return nil
}
