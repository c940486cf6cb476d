package recorder

import (
	"slices"

	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
	"github.com/spaghettifunk/vulcan/resource"
)

// CacheOutcome is the result of noting a bind in the state cache.
type CacheOutcome int

const (
	// StateUnchanged means the requested state is already bound; no
	// command needs to be emitted.
	StateUnchanged CacheOutcome = iota
	// StateChanged means the bind must be emitted. The caller has to emit
	// it in the same operation, or the cache no longer reflects the
	// recorded state; there is no correction mechanism.
	StateChanged
)

// StateCache remembers what is currently bound on the command buffer being
// recorded, so that redundant pipeline, index buffer and dynamic state
// commands can be elided. Comparisons are by resource identity, never by
// value. The cache is authoritative only for state set through the owning
// recorder.
type StateCache struct {
	graphicsPipeline core.ResourceID
	computePipeline  core.ResourceID

	indexBuffer    core.ResourceID
	indexType      vk.IndexType
	hasIndexBuffer bool

	lineWidth *float32
	viewports []resource.Viewport
	scissors  []resource.Scissor
}

func NewStateCache() *StateCache {
	return &StateCache{}
}

// Invalidate forgets everything. The next bind of any state reports
// StateChanged.
func (c *StateCache) Invalidate() {
	*c = StateCache{}
}

func (c *StateCache) NoteGraphicsPipeline(id core.ResourceID) CacheOutcome {
	if c.graphicsPipeline == id {
		return StateUnchanged
	}
	c.graphicsPipeline = id
	return StateChanged
}

func (c *StateCache) NoteComputePipeline(id core.ResourceID) CacheOutcome {
	if c.computePipeline == id {
		return StateUnchanged
	}
	c.computePipeline = id
	return StateChanged
}

func (c *StateCache) NoteIndexBuffer(id core.ResourceID, ty vk.IndexType) CacheOutcome {
	if c.hasIndexBuffer && c.indexBuffer == id && c.indexType == ty {
		return StateUnchanged
	}
	c.hasIndexBuffer = true
	c.indexBuffer = id
	c.indexType = ty
	return StateChanged
}

// FilterDynamicState returns the subset of the requested dynamic state that
// differs from what is currently set, and records the new values. Fields the
// request leaves empty are untouched.
func (c *StateCache) FilterDynamicState(requested resource.DynamicState) resource.DynamicState {
	var changed resource.DynamicState

	if requested.LineWidth != nil {
		if c.lineWidth == nil || *c.lineWidth != *requested.LineWidth {
			w := *requested.LineWidth
			c.lineWidth = &w
			changed.LineWidth = &w
		}
	}

	if len(requested.Viewports) != 0 && !slices.Equal(c.viewports, requested.Viewports) {
		c.viewports = slices.Clone(requested.Viewports)
		changed.Viewports = c.viewports
	}

	if len(requested.Scissors) != 0 && !slices.Equal(c.scissors, requested.Scissors) {
		c.scissors = slices.Clone(requested.Scissors)
		changed.Scissors = c.scissors
	}

	return changed
}
