package resource

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
)

// PushConstantRange declares one range of push constant data a pipeline
// layout exposes to its shaders. Offset and size are in bytes and must be
// multiples of 4.
type PushConstantRange struct {
	Stages vk.ShaderStageFlags
	Offset uint32
	Size   uint32
}

// PipelineLayout is the host-side descriptor of a pipeline layout: the
// descriptor set layouts and push constant ranges shaders were compiled
// against.
type PipelineLayout struct {
	id                 core.ResourceID
	handle             vk.PipelineLayout
	pushConstantRanges []PushConstantRange
	setLayouts         []core.ResourceID
}

func NewPipelineLayout(handle vk.PipelineLayout, pushConstantRanges []PushConstantRange, setLayouts []core.ResourceID) *PipelineLayout {
	return &PipelineLayout{
		id:                 core.NewResourceID(),
		handle:             handle,
		pushConstantRanges: pushConstantRanges,
		setLayouts:         setLayouts,
	}
}

func (l *PipelineLayout) ID() core.ResourceID {
	return l.id
}

func (l *PipelineLayout) Handle() vk.PipelineLayout {
	return l.handle
}

func (l *PipelineLayout) PushConstantRanges() []PushConstantRange {
	return l.pushConstantRanges
}

// DescriptorSetLayouts returns the IDs of the set layouts, in set order.
func (l *PipelineLayout) DescriptorSetLayouts() []core.ResourceID {
	return l.setLayouts
}

// VertexBinding declares one vertex buffer binding of a graphics pipeline.
type VertexBinding struct {
	// Stride of one element in bytes.
	Stride vk.DeviceSize
	// PerInstance advances the binding once per instance instead of once
	// per vertex.
	PerInstance bool
}

// GraphicsPipelineConfig carries the recording-relevant facts about a
// graphics pipeline: its vertex input layout and which state it left dynamic.
type GraphicsPipelineConfig struct {
	VertexBindings   []VertexBinding
	DynamicLineWidth bool
	DynamicViewports bool
	DynamicScissors  bool
	// ViewportCount is the number of viewports the pipeline was created
	// with; dynamic viewport/scissor commands must provide exactly this many.
	ViewportCount uint32
}

// GraphicsPipeline is a host-side descriptor of a graphics pipeline.
type GraphicsPipeline struct {
	id     core.ResourceID
	handle vk.Pipeline
	layout *PipelineLayout
	config GraphicsPipelineConfig
}

func NewGraphicsPipeline(handle vk.Pipeline, layout *PipelineLayout, config GraphicsPipelineConfig) *GraphicsPipeline {
	if config.ViewportCount == 0 {
		config.ViewportCount = 1
	}
	return &GraphicsPipeline{
		id:     core.NewResourceID(),
		handle: handle,
		layout: layout,
		config: config,
	}
}

func (p *GraphicsPipeline) ID() core.ResourceID {
	return p.id
}

func (p *GraphicsPipeline) Handle() vk.Pipeline {
	return p.handle
}

func (p *GraphicsPipeline) Layout() *PipelineLayout {
	return p.layout
}

func (p *GraphicsPipeline) VertexBindings() []VertexBinding {
	return p.config.VertexBindings
}

func (p *GraphicsPipeline) HasDynamicLineWidth() bool {
	return p.config.DynamicLineWidth
}

func (p *GraphicsPipeline) HasDynamicViewports() bool {
	return p.config.DynamicViewports
}

func (p *GraphicsPipeline) HasDynamicScissors() bool {
	return p.config.DynamicScissors
}

func (p *GraphicsPipeline) ViewportCount() uint32 {
	return p.config.ViewportCount
}

// ComputePipeline is a host-side descriptor of a compute pipeline.
type ComputePipeline struct {
	id     core.ResourceID
	handle vk.Pipeline
	layout *PipelineLayout
}

func NewComputePipeline(handle vk.Pipeline, layout *PipelineLayout) *ComputePipeline {
	return &ComputePipeline{
		id:     core.NewResourceID(),
		handle: handle,
		layout: layout,
	}
}

func (p *ComputePipeline) ID() core.ResourceID {
	return p.id
}

func (p *ComputePipeline) Handle() vk.Pipeline {
	return p.handle
}

func (p *ComputePipeline) Layout() *PipelineLayout {
	return p.layout
}
