package recorder

import (
	"testing"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

func TestStateCachePipelines(t *testing.T) {
	c := NewStateCache()
	a := core.NewResourceID()
	b := core.NewResourceID()

	if c.NoteGraphicsPipeline(a) != StateChanged {
		t.Error("first graphics bind: want StateChanged")
	}
	if c.NoteGraphicsPipeline(a) != StateUnchanged {
		t.Error("repeated graphics bind: want StateUnchanged")
	}
	if c.NoteGraphicsPipeline(b) != StateChanged {
		t.Error("different graphics pipeline: want StateChanged")
	}

	// The compute slot is independent of the graphics slot.
	if c.NoteComputePipeline(a) != StateChanged {
		t.Error("first compute bind: want StateChanged")
	}
	if c.NoteGraphicsPipeline(b) != StateUnchanged {
		t.Error("graphics slot disturbed by compute bind")
	}
}

func TestStateCacheIndexBuffer(t *testing.T) {
	c := NewStateCache()
	id := core.NewResourceID()

	if c.NoteIndexBuffer(id, vk.IndexTypeUint16) != StateChanged {
		t.Error("first index bind: want StateChanged")
	}
	if c.NoteIndexBuffer(id, vk.IndexTypeUint16) != StateUnchanged {
		t.Error("repeated index bind: want StateUnchanged")
	}
	if c.NoteIndexBuffer(id, vk.IndexTypeUint32) != StateChanged {
		t.Error("index type change: want StateChanged")
	}
}

func TestStateCacheZeroIDIsNotCached(t *testing.T) {
	// A fresh cache holds the nil ID in its pipeline slots; binding a real
	// pipeline must always report a change.
	c := NewStateCache()
	if c.NoteGraphicsPipeline(core.NewResourceID()) != StateChanged {
		t.Error("bind on a fresh cache: want StateChanged")
	}
}

func TestStateCacheInvalidate(t *testing.T) {
	c := NewStateCache()
	id := core.NewResourceID()
	c.NoteGraphicsPipeline(id)
	c.NoteIndexBuffer(id, vk.IndexTypeUint16)

	c.Invalidate()

	if c.NoteGraphicsPipeline(id) != StateChanged {
		t.Error("graphics bind after Invalidate: want StateChanged")
	}
	if c.NoteIndexBuffer(id, vk.IndexTypeUint16) != StateChanged {
		t.Error("index bind after Invalidate: want StateChanged")
	}
}

func TestFilterDynamicState(t *testing.T) {
	c := NewStateCache()
	w := float32(2.0)
	vps := []resource.Viewport{{Width: 800, Height: 600, MaxDepth: 1}}
	sci := []resource.Scissor{{Width: 800, Height: 600}}

	full := resource.DynamicState{LineWidth: &w, Viewports: vps, Scissors: sci}
	delta := c.FilterDynamicState(full)
	if delta.LineWidth == nil || len(delta.Viewports) != 1 || len(delta.Scissors) != 1 {
		t.Fatalf("first filter dropped state: %+v", delta)
	}

	// The identical request is fully absorbed.
	delta = c.FilterDynamicState(full)
	if !delta.IsEmpty() {
		t.Fatalf("repeated filter leaked state: %+v", delta)
	}

	// Changing one field surfaces only that field.
	w2 := float32(3.0)
	delta = c.FilterDynamicState(resource.DynamicState{LineWidth: &w2, Viewports: vps, Scissors: sci})
	if delta.LineWidth == nil || *delta.LineWidth != 3.0 {
		t.Errorf("line width change not surfaced: %+v", delta)
	}
	if len(delta.Viewports) != 0 || len(delta.Scissors) != 0 {
		t.Errorf("unchanged viewport/scissor re-surfaced: %+v", delta)
	}
}

func TestFilterDynamicStateComparesByValue(t *testing.T) {
	c := NewStateCache()
	vps := []resource.Viewport{{Width: 800, Height: 600}}
	c.FilterDynamicState(resource.DynamicState{Viewports: vps})

	// A distinct slice with equal contents is still "unchanged".
	same := []resource.Viewport{{Width: 800, Height: 600}}
	delta := c.FilterDynamicState(resource.DynamicState{Viewports: same})
	if len(delta.Viewports) != 0 {
		t.Errorf("value-equal viewports reported as changed: %+v", delta)
	}

	// Mutating the caller's slice after filtering must not corrupt the
	// cache: the cache clones what it stores.
	same[0].Width = 1
	delta = c.FilterDynamicState(resource.DynamicState{Viewports: []resource.Viewport{{Width: 800, Height: 600}}})
	if len(delta.Viewports) != 0 {
		t.Errorf("cache was corrupted by caller mutation: %+v", delta)
	}
}
