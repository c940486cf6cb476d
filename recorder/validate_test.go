package recorder

import (
	"errors"
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/config"
	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

func TestCheckClearColorImageRanges(t *testing.T) {
	img := colorImage(4, 3)

	region, err := checkClearColorImage(img, 1, 2, 0, 3)
	if err != nil {
		t.Fatalf("valid range: %v", err)
	}
	if region.BaseArrayLayer != 1 || region.LayerCount != 2 || region.LevelCount != 3 {
		t.Errorf("region = %+v", region)
	}

	cases := []struct {
		name                                     string
		firstLayer, numLayers, firstMip, numMips uint32
	}{
		{"zero layers", 0, 0, 0, 1},
		{"layers past bound", 3, 2, 0, 1},
		{"zero mips", 0, 1, 0, 0},
		{"mips past bound", 0, 1, 2, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := checkClearColorImage(img, tc.firstLayer, tc.numLayers, tc.firstMip, tc.numMips)
			var rng *RangeError
			if !errors.As(err, &rng) {
				t.Errorf("err = %v, want RangeError", err)
			}
		})
	}
}

func TestCheckCopyBuffer(t *testing.T) {
	src := transferSrc(64)
	dst := transferDst(48)

	size, err := checkCopyBuffer(src, dst)
	if err != nil {
		t.Fatalf("checkCopyBuffer: %v", err)
	}
	if size != 48 {
		t.Errorf("size = %d, want the smaller buffer's 48", size)
	}

	var usage *UsageError
	if _, err := checkCopyBuffer(transferDst(64), dst); !errors.As(err, &usage) {
		t.Errorf("missing TRANSFER_SRC = %v, want UsageError", err)
	}
	if _, err := checkCopyBuffer(src, transferSrc(64)); !errors.As(err, &usage) {
		t.Errorf("missing TRANSFER_DST = %v, want UsageError", err)
	}
}

func TestCheckCopyBufferToImage(t *testing.T) {
	limits := config.DefaultLimits()
	img := colorImage(2, 1)

	aspect, err := checkCopyBufferToImage(limits, transferSrc(64), img, 0, 2)
	if err != nil {
		t.Fatalf("valid copy: %v", err)
	}
	if aspect != vk.ImageAspectFlags(vk.ImageAspectColorBit) {
		t.Errorf("aspect = %x, want color", aspect)
	}

	if _, err := checkCopyBufferToImage(limits, transferSrc(64), depthImage(), 0, 1); !errors.Is(err, ErrUnsupportedImageAspect) {
		t.Errorf("depth target = %v, want ErrUnsupportedImageAspect", err)
	}

	var rng *RangeError
	if _, err := checkCopyBufferToImage(limits, transferSrc(64), img, 1, 2); !errors.As(err, &rng) {
		t.Errorf("layer range past bound = %v, want RangeError", err)
	}
}

func TestCheckPushConstants(t *testing.T) {
	limits := config.DefaultLimits()
	layout := resource.NewPipelineLayout(nil, []resource.PushConstantRange{
		{Stages: vk.ShaderStageFlags(vk.ShaderStageVertexBit), Offset: 0, Size: 16},
	}, nil)

	if err := checkPushConstants(limits, layout, make([]byte, 16)); err != nil {
		t.Errorf("covering payload: %v", err)
	}

	var pc *PushConstantError
	if err := checkPushConstants(limits, layout, make([]byte, 8)); !errors.As(err, &pc) {
		t.Errorf("short payload = %v, want PushConstantError", err)
	}

	var align *AlignmentError
	if err := checkPushConstants(limits, layout, make([]byte, 17)); !errors.As(err, &align) {
		t.Errorf("unaligned payload = %v, want AlignmentError", err)
	}

	var size *SizeError
	if err := checkPushConstants(limits, layout, make([]byte, 256)); !errors.As(err, &size) {
		t.Errorf("payload over device limit = %v, want SizeError", err)
	}
}

func TestCheckDescriptorSets(t *testing.T) {
	limits := config.DefaultLimits()
	setLayout := core.NewResourceID()
	layout := resource.NewPipelineLayout(nil, nil, []core.ResourceID{setLayout})

	ok := resource.NewDescriptorSet(nil, setLayout)
	if err := checkDescriptorSets(limits, layout, []*resource.DescriptorSet{ok}); err != nil {
		t.Errorf("matching set: %v", err)
	}

	var dserr *DescriptorSetError
	if err := checkDescriptorSets(limits, layout, nil); !errors.As(err, &dserr) {
		t.Errorf("missing set = %v, want DescriptorSetError", err)
	}

	wrong := resource.NewDescriptorSet(nil, core.NewResourceID())
	if err := checkDescriptorSets(limits, layout, []*resource.DescriptorSet{wrong}); !errors.As(err, &dserr) {
		t.Errorf("incompatible layout = %v, want DescriptorSetError", err)
	}
}

func TestCheckDynamicState(t *testing.T) {
	limits := config.DefaultLimits()
	p := resource.NewGraphicsPipeline(nil, plainLayout(), resource.GraphicsPipelineConfig{
		VertexBindings:   []resource.VertexBinding{{Stride: 16}},
		DynamicLineWidth: true,
		DynamicViewports: true,
		ViewportCount:    1,
	})

	w := float32(1.0)
	good := resource.DynamicState{
		LineWidth: &w,
		Viewports: []resource.Viewport{{Width: 1, Height: 1}},
	}
	if err := checkDynamicState(limits, p, good); err != nil {
		t.Errorf("complete dynamic state: %v", err)
	}

	var dyn *DynamicStateError
	if err := checkDynamicState(limits, p, resource.DynamicState{Viewports: good.Viewports}); !errors.As(err, &dyn) {
		t.Errorf("missing line width = %v, want DynamicStateError", err)
	}

	wide := float32(4.0) // default device range is [1, 1]
	bad := resource.DynamicState{LineWidth: &wide, Viewports: good.Viewports}
	if err := checkDynamicState(limits, p, bad); !errors.As(err, &dyn) {
		t.Errorf("line width out of range = %v, want DynamicStateError", err)
	}

	two := resource.DynamicState{LineWidth: &w, Viewports: []resource.Viewport{{}, {}}}
	if err := checkDynamicState(limits, p, two); !errors.As(err, &dyn) {
		t.Errorf("viewport count mismatch = %v, want DynamicStateError", err)
	}
}

func TestCheckVertexBuffersCounts(t *testing.T) {
	p := resource.NewGraphicsPipeline(nil, plainLayout(), resource.GraphicsPipelineConfig{
		VertexBindings: []resource.VertexBinding{
			{Stride: 16},
			{Stride: 8, PerInstance: true},
		},
	})

	info, err := checkVertexBuffers(p, []*resource.Buffer{
		vertexBuffer(160, 16), // 10 vertices
		vertexBuffer(32, 8),   // 4 instances
	})
	if err != nil {
		t.Fatalf("checkVertexBuffers: %v", err)
	}
	if info.vertexCount != 10 || info.instanceCount != 4 {
		t.Errorf("counts = %+v, want 10 vertices and 4 instances", info)
	}

	var vb *VertexBufferError
	if _, err := checkVertexBuffers(p, []*resource.Buffer{vertexBuffer(160, 16)}); !errors.As(err, &vb) {
		t.Errorf("binding count mismatch = %v, want VertexBufferError", err)
	}
}

func TestCheckVertexBuffersInstanceCountDefaultsToOne(t *testing.T) {
	p := plainGraphicsPipeline()
	info, err := checkVertexBuffers(p, []*resource.Buffer{vertexBuffer(64, 16)})
	if err != nil {
		t.Fatalf("checkVertexBuffers: %v", err)
	}
	if info.instanceCount != 1 {
		t.Errorf("instanceCount = %d, want 1 when no per-instance binding exists", info.instanceCount)
	}
}

func TestCheckIndexBuffer(t *testing.T) {
	count, err := checkIndexBuffer(indexBuffer(32), vk.IndexTypeUint16)
	if err != nil {
		t.Fatalf("checkIndexBuffer: %v", err)
	}
	if count != 16 {
		t.Errorf("index count = %d, want 16", count)
	}

	var ib *IndexBufferError
	if _, err := checkIndexBuffer(vertexBuffer(32, 16), vk.IndexTypeUint16); !errors.As(err, &ib) {
		t.Errorf("missing usage = %v, want IndexBufferError", err)
	}
}

func TestCheckIndirectBuffer(t *testing.T) {
	count, err := checkIndirectBuffer(indirectBuffer(5))
	if err != nil {
		t.Fatalf("checkIndirectBuffer: %v", err)
	}
	if count != 5 {
		t.Errorf("draw count = %d, want 5", count)
	}
}

func TestCheckUpdateBuffer(t *testing.T) {
	limits := config.DefaultLimits()

	if err := checkUpdateBuffer(limits, transferDst(32), make([]byte, 16)); err != nil {
		t.Errorf("valid update: %v", err)
	}

	var align *AlignmentError
	if err := checkUpdateBuffer(limits, transferDst(32), make([]byte, 6)); !errors.As(err, &align) {
		t.Errorf("unaligned payload = %v, want AlignmentError", err)
	}

	var size *SizeError
	if err := checkUpdateBuffer(limits, transferDst(32), make([]byte, 65540)); !errors.As(err, &size) {
		t.Errorf("payload over cap = %v, want SizeError", err)
	}
}
