package resource

import (
	vk "github.com/goki/vulkan"

	"github.com/spaghettifunk/vulcan/core"
)

// DescriptorSet is a host-side descriptor of a bound group of resource
// references. The set remembers which layout it was allocated from and which
// resources it points at; the recorder uses the former for compatibility
// checks and the latter for keep-alive and conservative hazard tracking
// (set contents are opaque at record time, so accesses through a set are
// never assumed precise).
type DescriptorSet struct {
	id        core.ResourceID
	handle    vk.DescriptorSet
	layoutID  core.ResourceID
	resources []Resource
}

func NewDescriptorSet(handle vk.DescriptorSet, layoutID core.ResourceID, references ...Resource) *DescriptorSet {
	return &DescriptorSet{
		id:        core.NewResourceID(),
		handle:    handle,
		layoutID:  layoutID,
		resources: references,
	}
}

func (d *DescriptorSet) ID() core.ResourceID {
	return d.id
}

func (d *DescriptorSet) Handle() vk.DescriptorSet {
	return d.handle
}

// LayoutID identifies the descriptor set layout this set was allocated from.
func (d *DescriptorSet) LayoutID() core.ResourceID {
	return d.layoutID
}

// References returns the resources reachable through this set.
func (d *DescriptorSet) References() []Resource {
	return d.resources
}
